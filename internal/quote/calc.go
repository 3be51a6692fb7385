// Package quote implements the manual quote builder: deterministic
// arithmetic over catalog and external items, plus the WhatsApp text and
// PDF renderings of the result.
package quote

import (
	"math"

	"github.com/rushdatamx/llantas-reluvsa-rushdata/config"
)

// Pricing carries the business constants (MXN) the arithmetic needs.
type Pricing struct {
	AlignmentPrice  float64
	FreeShippingMin float64
	ShippingPerPair float64
}

func PricingFromConfig(cfg config.BusinessConfig) Pricing {
	return Pricing{
		AlignmentPrice:  float64(cfg.AlignmentPrice),
		FreeShippingMin: float64(cfg.FreeShippingMin),
		ShippingPerPair: float64(cfg.ShippingPerPair),
	}
}

// CatalogItem is a tire from inventory. PriceOverride replaces the snapshot
// price when staff negotiate a different one.
type CatalogItem struct {
	SnapshotID    string   `json:"snapshot_id"`
	Description   string   `json:"descripcion"`
	Size          string   `json:"medida"`
	UnitPrice     float64  `json:"precio_con_iva"`
	Quantity      int      `json:"cantidad"`
	PriceOverride *float64 `json:"precio_override,omitempty"`
}

// EffectivePrice is the unit price actually charged.
func (it CatalogItem) EffectivePrice() float64 {
	if it.PriceOverride != nil {
		return *it.PriceOverride
	}
	return it.UnitPrice
}

// ExternalItem is an ad-hoc line outside the catalog. External items never
// count toward shipping.
type ExternalItem struct {
	ID          string  `json:"id"`
	Description string  `json:"descripcion"`
	UnitPrice   float64 `json:"precio"`
	Quantity    int     `json:"cantidad"`
}

type DiscountType string

const (
	DiscountNone       DiscountType = "none"
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// Input is everything the calculator needs; it has no hidden state.
type Input struct {
	CustomerName  string         `json:"nombre_cliente"`
	CustomerPhone string         `json:"telefono_cliente"`
	Items         []CatalogItem  `json:"items"`
	ExternalItems []ExternalItem `json:"items_externos"`

	IncludeShipping  bool `json:"incluye_envio"`
	IncludeAlignment bool `json:"incluye_alineacion"`

	DiscountType  DiscountType `json:"discount_type"`
	DiscountValue float64      `json:"discount_value"`
}

// Breakdown is the computed quote.
type Breakdown struct {
	CatalogSubtotal  float64 `json:"subtotal_inventario"`
	ExternalSubtotal float64 `json:"subtotal_externos"`
	Subtotal         float64 `json:"subtotal"`
	Discount         float64 `json:"descuento"`
	ShippingCost     float64 `json:"costo_envio"`
	AlignmentCost    float64 `json:"costo_alineacion"`
	Total            float64 `json:"total"`
	TireCount        int     `json:"total_llantas"`
	TirePairs        int     `json:"pares_llantas"`
	FreeShipping     bool    `json:"envio_gratis"`
}

// Compute derives the full breakdown. Shipping is charged per tire pair over
// catalog items only and waived when the catalog subtotal alone reaches the
// free-shipping threshold. The discount never exceeds the subtotal it
// applies to and is never negative.
func Compute(in Input, p Pricing) Breakdown {
	var b Breakdown

	for _, it := range in.Items {
		b.CatalogSubtotal += it.EffectivePrice() * float64(it.Quantity)
		b.TireCount += it.Quantity
	}
	for _, it := range in.ExternalItems {
		b.ExternalSubtotal += it.UnitPrice * float64(it.Quantity)
	}
	b.Subtotal = b.CatalogSubtotal + b.ExternalSubtotal
	b.TirePairs = (b.TireCount + 1) / 2

	if in.IncludeShipping {
		if b.CatalogSubtotal >= p.FreeShippingMin {
			b.FreeShipping = true
		} else {
			b.ShippingCost = float64(b.TirePairs) * p.ShippingPerPair
		}
	}

	if in.IncludeAlignment {
		b.AlignmentCost = p.AlignmentPrice
	}

	b.Discount = computeDiscount(in.DiscountType, in.DiscountValue, b.Subtotal)
	b.Total = b.Subtotal - b.Discount + b.ShippingCost + b.AlignmentCost
	return b
}

func computeDiscount(kind DiscountType, value, subtotal float64) float64 {
	if value <= 0 {
		return 0
	}
	switch kind {
	case DiscountPercentage:
		pct := math.Min(value, 100)
		return math.Round(subtotal * pct / 100)
	case DiscountFixed:
		return math.Min(value, subtotal)
	}
	return 0
}
