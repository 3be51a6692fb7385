package quote

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderPDFProducesDocument(t *testing.T) {
	in := Input{
		CustomerName: "María López",
		Items: []CatalogItem{
			{Description: "LLANTA 205/55R16 NEREUS NS601", Size: "205/55R16", UnitPrice: 1450, Quantity: 4},
		},
		IncludeShipping: true,
	}
	out, err := RenderPDF(in, Compute(in, testPricing), time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), "%PDF"))
}

func TestRenderPDFLongAccentedDescription(t *testing.T) {
	// Accented runes sitting across the truncation boundary must not be
	// split mid-sequence.
	desc := strings.Repeat("Ñ", 60)
	in := Input{
		Items: []CatalogItem{{Description: desc, Size: "185/65R15", UnitPrice: 900, Quantity: 2}},
	}
	out, err := RenderPDF(in, Compute(in, testPricing), time.Now())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), "%PDF"))
}
