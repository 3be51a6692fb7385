package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rushdatamx/llantas-reluvsa-rushdata/internal/gateway"
	"github.com/rushdatamx/llantas-reluvsa-rushdata/internal/quote"
)

var (
	ErrEmailRequired = errors.New("se requiere un correo electrónico válido")
	ErrZeroTotal     = errors.New("el total debe ser mayor a 0")
)

// paymentLinkCreator is the slice of the gateway the quote flow needs.
type paymentLinkCreator interface {
	CreatePaymentLink(ctx context.Context, req gateway.PaymentLinkRequest) (*gateway.PaymentLinkResult, error)
}

// QuoteService computes quotes and turns them into payment links.
type QuoteService struct {
	pricing  quote.Pricing
	payments paymentLinkCreator
}

func NewQuoteService(pricing quote.Pricing, payments paymentLinkCreator) *QuoteService {
	return &QuoteService{pricing: pricing, payments: payments}
}

// Compute runs the calculator over explicit inputs.
func (s *QuoteService) Compute(in quote.Input) quote.Breakdown {
	return quote.Compute(in, s.pricing)
}

// RenderText builds the WhatsApp quotation message.
func (s *QuoteService) RenderText(in quote.Input) string {
	return quote.RenderText(in, s.Compute(in), time.Now())
}

// RenderPDF builds the printable quote.
func (s *QuoteService) RenderPDF(in quote.Input) ([]byte, error) {
	return quote.RenderPDF(in, s.Compute(in), time.Now())
}

// PaymentLinkInput extends a quote with the delivery details the payment
// collaborator needs.
type PaymentLinkInput struct {
	Quote           quote.Input `json:"quote"`
	CustomerEmail   string      `json:"email_cliente"`
	ShippingAddress string      `json:"direccion_envio"`
	Notes           string      `json:"notas"`
}

// CreatePaymentLink validates the request and asks the collaborator for a
// checkout link. All validation happens before any network call.
func (s *QuoteService) CreatePaymentLink(ctx context.Context, in PaymentLinkInput, actingUser string) (*gateway.PaymentLinkResult, error) {
	q := in.Quote
	if strings.TrimSpace(q.CustomerName) == "" {
		return nil, ErrNameRequired
	}
	if strings.TrimSpace(q.CustomerPhone) == "" {
		return nil, ErrPhoneRequired
	}
	if !strings.Contains(in.CustomerEmail, "@") {
		return nil, ErrEmailRequired
	}
	if len(q.Items) == 0 && len(q.ExternalItems) == 0 {
		return nil, ErrItemsRequired
	}

	b := s.Compute(q)
	if b.Total <= 0 {
		return nil, ErrZeroTotal
	}

	req := gateway.PaymentLinkRequest{
		CustomerName:    q.CustomerName,
		CustomerPhone:   q.CustomerPhone,
		CustomerEmail:   in.CustomerEmail,
		ShippingAddress: in.ShippingAddress,
		Subtotal:        b.Subtotal,
		ShippingCost:    b.ShippingCost,
		AlignmentCost:   b.AlignmentCost,
		Discount:        b.Discount,
		Total:           b.Total,
		Notes:           in.Notes,
		CreatedBy:       actingUser,
	}
	for _, it := range q.Items {
		req.Items = append(req.Items, gateway.PaymentLinkItem{
			SnapshotID:  it.SnapshotID,
			Description: it.Description,
			Size:        it.Size,
			UnitPrice:   it.EffectivePrice(),
			Quantity:    it.Quantity,
		})
	}
	for _, it := range q.ExternalItems {
		req.ExternalItems = append(req.ExternalItems, gateway.ExternalPaymentItem{
			ID:          it.ID,
			Description: it.Description,
			UnitPrice:   it.UnitPrice,
			Quantity:    it.Quantity,
		})
	}
	return s.payments.CreatePaymentLink(ctx, req)
}
