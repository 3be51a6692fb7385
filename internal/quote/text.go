package quote

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Business identity shown on quotes. Contact details, not behavior.
const (
	businessName    = "RELUVSA Berriozábal"
	businessAddress = "Calle F. Berriozábal 1982, Comercial Dos Mil, 87058 Ciudad Victoria, Tamps."
	businessPhone   = "+52 834 270 9767"
)

var spanishMonths = []string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

func formatDate(t time.Time) string {
	return fmt.Sprintf("%d de %s de %d", t.Day(), spanishMonths[t.Month()-1], t.Year())
}

// Money renders an amount with thousands separators, es-MX style. Rounding
// to cents happens once up front so .995 carries into the whole part.
func Money(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	cents := int64(math.Round(v * 100))
	whole := cents / 100

	digits := fmt.Sprintf("%d", whole)
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	out := b.String()
	if rem := cents % 100; rem > 0 {
		out = fmt.Sprintf("%s.%02d", out, rem)
	}
	if neg {
		return "-" + out
	}
	return out
}

// RenderText builds the WhatsApp-ready quotation message.
func RenderText(in Input, b Breakdown, now time.Time) string {
	if len(in.Items) == 0 && len(in.ExternalItems) == 0 {
		return ""
	}

	var t strings.Builder
	t.WriteString("*COTIZACIÓN RELUVSA*\n")
	fmt.Fprintf(&t, "📅 Fecha: %s\n", formatDate(now))
	if in.CustomerName != "" {
		fmt.Fprintf(&t, "👤 Cliente: %s\n", in.CustomerName)
	}
	t.WriteString("\n*PRODUCTOS:*\n")

	n := 1
	for _, it := range in.Items {
		price := it.EffectivePrice()
		fmt.Fprintf(&t, "%d. %s\n", n, it.Description)
		fmt.Fprintf(&t, "   Medida: %s\n", it.Size)
		fmt.Fprintf(&t, "   Cantidad: %d\n", it.Quantity)
		fmt.Fprintf(&t, "   Precio unitario: $%s (IVA incluido)\n", Money(price))
		fmt.Fprintf(&t, "   Subtotal: $%s\n\n", Money(price*float64(it.Quantity)))
		n++
	}
	for _, it := range in.ExternalItems {
		fmt.Fprintf(&t, "%d. %s _(Externo)_\n", n, it.Description)
		fmt.Fprintf(&t, "   Cantidad: %d\n", it.Quantity)
		fmt.Fprintf(&t, "   Precio unitario: $%s\n", Money(it.UnitPrice))
		fmt.Fprintf(&t, "   Subtotal: $%s\n\n", Money(it.UnitPrice*float64(it.Quantity)))
		n++
	}

	t.WriteString("*RESUMEN:*\n")
	fmt.Fprintf(&t, "Subtotal productos: $%s\n", Money(b.Subtotal))
	if b.Discount > 0 {
		if in.DiscountType == DiscountPercentage {
			fmt.Fprintf(&t, "Descuento (%.0f%%): -$%s\n", in.DiscountValue, Money(b.Discount))
		} else {
			fmt.Fprintf(&t, "Descuento: -$%s\n", Money(b.Discount))
		}
	}
	if in.IncludeShipping {
		if b.FreeShipping {
			t.WriteString("Envío: GRATIS\n")
		} else {
			fmt.Fprintf(&t, "Envío: $%s\n", Money(b.ShippingCost))
		}
	}
	if in.IncludeAlignment {
		fmt.Fprintf(&t, "Alineación: $%s\n", Money(b.AlignmentCost))
	}

	fmt.Fprintf(&t, "\n*TOTAL: $%s MXN*\n", Money(b.Total))
	t.WriteString("\n_Precios incluyen IVA_\n_Cotización válida por 7 días_\n")
	fmt.Fprintf(&t, "\n📍 %s\n📞 %s\n", businessAddress, businessPhone)
	return t.String()
}
