package gateway

import (
	"context"
	"fmt"
)

// PaymentLinkItem is a catalog product line in a payment-link request.
type PaymentLinkItem struct {
	SnapshotID  string  `json:"snapshot_id"`
	Description string  `json:"descripcion"`
	Size        string  `json:"medida"`
	UnitPrice   float64 `json:"precio_con_iva"`
	Quantity    int     `json:"cantidad"`
}

// ExternalPaymentItem is an ad-hoc (non-catalog) line.
type ExternalPaymentItem struct {
	ID          string  `json:"id"`
	Description string  `json:"descripcion"`
	UnitPrice   float64 `json:"precio"`
	Quantity    int     `json:"cantidad"`
}

type PaymentLinkRequest struct {
	CustomerName    string `json:"nombre_cliente"`
	CustomerPhone   string `json:"telefono_cliente"`
	CustomerEmail   string `json:"email_cliente,omitempty"`
	ShippingAddress string `json:"direccion_envio,omitempty"`

	Items         []PaymentLinkItem     `json:"items"`
	ExternalItems []ExternalPaymentItem `json:"items_externos,omitempty"`

	Subtotal      float64 `json:"subtotal"`
	ShippingCost  float64 `json:"costo_envio"`
	AlignmentCost float64 `json:"costo_alineacion,omitempty"`
	Discount      float64 `json:"descuento,omitempty"`
	Total         float64 `json:"total"`

	Notes     string `json:"notas,omitempty"`
	CreatedBy string `json:"creado_por"`
}

type PaymentLinkResult struct {
	PaymentLinkURL string `json:"payment_link_url"`
	OrderID        string `json:"pedido_id"`
}

type paymentLinkResponse struct {
	Success        bool   `json:"success"`
	PaymentLinkURL string `json:"payment_link_url"`
	OrderID        string `json:"pedido_id"`
	Error          string `json:"error"`
}

// CreatePaymentLink asks the payment collaborator to build a checkout link
// and the backing order.
func (c *Client) CreatePaymentLink(ctx context.Context, req PaymentLinkRequest) (*PaymentLinkResult, error) {
	var resp paymentLinkResponse
	if err := c.post(ctx, "create-payment-link", req, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, fmt.Errorf("payment link rejected: %s", resp.Error)
	}
	return &PaymentLinkResult{PaymentLinkURL: resp.PaymentLinkURL, OrderID: resp.OrderID}, nil
}
