package quote

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

var testPricing = Pricing{
	AlignmentPrice:  250,
	FreeShippingMin: 2499,
	ShippingPerPair: 299,
}

func TestComputeShippingOnlyOverCatalogItems(t *testing.T) {
	// Catalog subtotal 1000 is under the free-shipping threshold, so the
	// external item adds to the total but never to the shipping base.
	b := Compute(Input{
		Items:           []CatalogItem{{UnitPrice: 500, Quantity: 2}},
		ExternalItems:   []ExternalItem{{UnitPrice: 200, Quantity: 1}},
		IncludeShipping: true,
	}, testPricing)

	assert.Equal(t, 1000.0, b.CatalogSubtotal)
	assert.Equal(t, 200.0, b.ExternalSubtotal)
	assert.Equal(t, 1200.0, b.Subtotal)
	assert.Equal(t, 2, b.TireCount)
	assert.Equal(t, 1, b.TirePairs)
	assert.Equal(t, 299.0, b.ShippingCost)
	assert.False(t, b.FreeShipping)
	assert.Equal(t, 1499.0, b.Total)
}

func TestComputeFreeShippingThreshold(t *testing.T) {
	// Exactly at the threshold counts as free.
	b := Compute(Input{
		Items:           []CatalogItem{{UnitPrice: 2499, Quantity: 1}},
		IncludeShipping: true,
	}, testPricing)
	assert.True(t, b.FreeShipping)
	assert.Zero(t, b.ShippingCost)
	assert.Equal(t, 2499.0, b.Total)

	// One peso under pays shipping.
	b = Compute(Input{
		Items:           []CatalogItem{{UnitPrice: 2498, Quantity: 1}},
		IncludeShipping: true,
	}, testPricing)
	assert.False(t, b.FreeShipping)
	assert.Equal(t, 299.0, b.ShippingCost)
}

func TestComputeExternalSubtotalDoesNotWaiveShipping(t *testing.T) {
	// A large external subtotal must not trigger free shipping.
	b := Compute(Input{
		Items:           []CatalogItem{{UnitPrice: 1000, Quantity: 1}},
		ExternalItems:   []ExternalItem{{UnitPrice: 5000, Quantity: 1}},
		IncludeShipping: true,
	}, testPricing)
	assert.False(t, b.FreeShipping)
	assert.Equal(t, 299.0, b.ShippingCost)
}

func TestComputeShippingPairsRoundUp(t *testing.T) {
	cases := []struct {
		qty   int
		pairs int
		cost  float64
	}{
		{1, 1, 299},
		{2, 1, 299},
		{3, 2, 598},
		{4, 2, 598},
		{5, 3, 897},
	}
	for _, tc := range cases {
		b := Compute(Input{
			Items:           []CatalogItem{{UnitPrice: 100, Quantity: tc.qty}},
			IncludeShipping: true,
		}, testPricing)
		assert.Equal(t, tc.pairs, b.TirePairs, "qty %d", tc.qty)
		assert.Equal(t, tc.cost, b.ShippingCost, "qty %d", tc.qty)
	}
}

func TestComputeShippingUnset(t *testing.T) {
	b := Compute(Input{
		Items: []CatalogItem{{UnitPrice: 500, Quantity: 2}},
	}, testPricing)
	assert.Zero(t, b.ShippingCost)
	assert.False(t, b.FreeShipping)
}

func TestComputeAlignmentFlatFee(t *testing.T) {
	b := Compute(Input{
		Items:            []CatalogItem{{UnitPrice: 500, Quantity: 4}},
		IncludeAlignment: true,
	}, testPricing)
	assert.Equal(t, 250.0, b.AlignmentCost)

	// Flat, independent of tire count.
	b = Compute(Input{
		Items:            []CatalogItem{{UnitPrice: 500, Quantity: 1}},
		IncludeAlignment: true,
	}, testPricing)
	assert.Equal(t, 250.0, b.AlignmentCost)
}

func TestComputePercentageDiscountClamped(t *testing.T) {
	b := Compute(Input{
		Items:         []CatalogItem{{UnitPrice: 1000, Quantity: 1}},
		DiscountType:  DiscountPercentage,
		DiscountValue: 150,
	}, testPricing)
	// 150% behaves exactly like 100%.
	assert.Equal(t, 1000.0, b.Discount)
	assert.Zero(t, b.Total)

	b100 := Compute(Input{
		Items:         []CatalogItem{{UnitPrice: 1000, Quantity: 1}},
		DiscountType:  DiscountPercentage,
		DiscountValue: 100,
	}, testPricing)
	assert.Equal(t, b100.Discount, b.Discount)
}

func TestComputePercentageDiscountRounded(t *testing.T) {
	b := Compute(Input{
		Items:         []CatalogItem{{UnitPrice: 999, Quantity: 1}},
		DiscountType:  DiscountPercentage,
		DiscountValue: 15,
	}, testPricing)
	// 999 * 0.15 = 149.85, rounded to the nearest peso.
	assert.Equal(t, 150.0, b.Discount)
}

func TestComputeFixedDiscountCappedAtSubtotal(t *testing.T) {
	b := Compute(Input{
		Items:         []CatalogItem{{UnitPrice: 800, Quantity: 1}},
		DiscountType:  DiscountFixed,
		DiscountValue: 5000,
	}, testPricing)
	assert.Equal(t, 800.0, b.Discount)
	assert.Zero(t, b.Total)
}

func TestComputeNegativeOrZeroDiscountIgnored(t *testing.T) {
	for _, v := range []float64{0, -10} {
		b := Compute(Input{
			Items:         []CatalogItem{{UnitPrice: 800, Quantity: 1}},
			DiscountType:  DiscountFixed,
			DiscountValue: v,
		}, testPricing)
		assert.Zero(t, b.Discount, "value %v", v)
		assert.Equal(t, 800.0, b.Total)
	}
}

func TestComputePriceOverride(t *testing.T) {
	override := 900.0
	b := Compute(Input{
		Items: []CatalogItem{{UnitPrice: 1200, Quantity: 2, PriceOverride: &override}},
	}, testPricing)
	assert.Equal(t, 1800.0, b.Subtotal)
}

func TestComputeDiscountAppliesBeforeExtras(t *testing.T) {
	// Discount applies to the product subtotal only; shipping and
	// alignment are added afterwards, so they are never discounted.
	b := Compute(Input{
		Items:            []CatalogItem{{UnitPrice: 1000, Quantity: 2}},
		IncludeShipping:  true,
		IncludeAlignment: true,
		DiscountType:     DiscountPercentage,
		DiscountValue:    10,
	}, testPricing)
	assert.Equal(t, 200.0, b.Discount)
	assert.Equal(t, 299.0, b.ShippingCost)
	assert.Equal(t, 2000.0-200+299+250, b.Total)
}

func TestComputeInvariantUnderCartReordering(t *testing.T) {
	in := Input{
		Items: []CatalogItem{
			{Description: "A", UnitPrice: 1450, Quantity: 2},
			{Description: "B", UnitPrice: 980, Quantity: 1},
			{Description: "C", UnitPrice: 2100, Quantity: 4},
		},
		ExternalItems: []ExternalItem{
			{Description: "X", UnitPrice: 150, Quantity: 4},
			{Description: "Y", UnitPrice: 600, Quantity: 1},
		},
		IncludeShipping:  true,
		IncludeAlignment: true,
		DiscountType:     DiscountPercentage,
		DiscountValue:    12,
	}
	want := Compute(in, testPricing)

	rand.New(rand.NewSource(7)).Shuffle(len(in.Items), func(i, j int) {
		in.Items[i], in.Items[j] = in.Items[j], in.Items[i]
	})
	in.ExternalItems[0], in.ExternalItems[1] = in.ExternalItems[1], in.ExternalItems[0]

	assert.Equal(t, want, Compute(in, testPricing))
}

func TestComputeTotalMonotonicInQuantity(t *testing.T) {
	// Bumping any line's quantity never lowers the total, including across
	// the free-shipping threshold.
	base := Input{
		Items: []CatalogItem{
			{Description: "A", UnitPrice: 1200, Quantity: 1},
			{Description: "B", UnitPrice: 950, Quantity: 1},
		},
		ExternalItems:    []ExternalItem{{Description: "X", UnitPrice: 150, Quantity: 2}},
		IncludeShipping:  true,
		IncludeAlignment: true,
		DiscountType:     DiscountPercentage,
		DiscountValue:    10,
	}

	for line := range base.Items {
		prev := Compute(base, testPricing).Total
		for qty := 2; qty <= 8; qty++ {
			in := base
			in.Items = append([]CatalogItem(nil), base.Items...)
			in.Items[line].Quantity = qty
			total := Compute(in, testPricing).Total
			assert.GreaterOrEqual(t, total, prev, "line %d qty %d", line, qty)
			prev = total
		}
	}

	prev := Compute(base, testPricing).Total
	for qty := 3; qty <= 8; qty++ {
		in := base
		in.ExternalItems = []ExternalItem{{Description: "X", UnitPrice: 150, Quantity: qty}}
		total := Compute(in, testPricing).Total
		assert.GreaterOrEqual(t, total, prev, "external qty %d", qty)
		prev = total
	}
}
