package gateway

import (
	"context"
	"fmt"

	"github.com/rushdatamx/llantas-reluvsa-rushdata/internal/model"
)

// TrackingInfo accompanies shipped notifications.
type TrackingInfo struct {
	TrackingNumber string
	Carrier        string
}

type orderNotificationRequest struct {
	OrderID        string `json:"pedido_id"`
	NewStatus      string `json:"nuevo_estado"`
	TrackingNumber string `json:"numero_guia,omitempty"`
	Carrier        string `json:"carrier,omitempty"`
}

type orderNotificationResponse struct {
	Success bool   `json:"success"`
	Skipped bool   `json:"skipped"`
	Error   string `json:"error"`
}

// NotifyOrderStatus asks the collaborator to message the customer about a
// status change. Returns whether a message actually went out (the endpoint
// may skip, e.g. opted-out customers).
func (c *Client) NotifyOrderStatus(ctx context.Context, orderID string, status model.OrderStatus, tracking *TrackingInfo) (sent bool, err error) {
	req := orderNotificationRequest{OrderID: orderID, NewStatus: string(status)}
	if tracking != nil {
		req.TrackingNumber = tracking.TrackingNumber
		req.Carrier = tracking.Carrier
	}
	var resp orderNotificationResponse
	if err := c.post(ctx, "order-notification", req, &resp); err != nil {
		return false, err
	}
	if !resp.Success {
		return false, fmt.Errorf("order notification rejected: %s", resp.Error)
	}
	return !resp.Skipped, nil
}
