package quote

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
)

// RenderPDF builds the printable quote document: header with business
// identity, item table, totals block. Long item lists paginate; the layout
// is fixed.
func RenderPDF(in Input, b Breakdown, now time.Time) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 9, tr(businessName), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(0, 5, tr(businessAddress), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 5, tr("Tel: "+businessPhone), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 7, tr("COTIZACIÓN"), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 5, tr("Fecha: "+formatDate(now)), "", 1, "L", false, 0, "")
	if in.CustomerName != "" {
		pdf.CellFormat(0, 5, tr("Cliente: "+in.CustomerName), "", 1, "L", false, 0, "")
	}
	if in.CustomerPhone != "" {
		pdf.CellFormat(0, 5, tr("Teléfono: "+in.CustomerPhone), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	// Item table header.
	colW := []float64{90.0, 25.0, 15.0, 28.0, 28.0}
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(235, 235, 235)
	for i, h := range []string{"Descripción", "Medida", "Cant.", "P. Unitario", "Subtotal"} {
		pdf.CellFormat(colW[i], 7, tr(h), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	row := func(desc, size string, qty int, unit, sub float64) {
		if r := []rune(desc); len(r) > 52 {
			desc = string(r[:49]) + "..."
		}
		pdf.CellFormat(colW[0], 6, tr(desc), "1", 0, "L", false, 0, "")
		pdf.CellFormat(colW[1], 6, tr(size), "1", 0, "C", false, 0, "")
		pdf.CellFormat(colW[2], 6, fmt.Sprintf("%d", qty), "1", 0, "C", false, 0, "")
		pdf.CellFormat(colW[3], 6, "$"+Money(unit), "1", 0, "R", false, 0, "")
		pdf.CellFormat(colW[4], 6, "$"+Money(sub), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}
	for _, it := range in.Items {
		price := it.EffectivePrice()
		row(it.Description, it.Size, it.Quantity, price, price*float64(it.Quantity))
	}
	for _, it := range in.ExternalItems {
		row(it.Description+" (Externo)", "-", it.Quantity, it.UnitPrice, it.UnitPrice*float64(it.Quantity))
	}
	pdf.Ln(4)

	// Totals block, right-aligned.
	totalRow := func(label string, amount string, bold bool) {
		style := ""
		if bold {
			style = "B"
		}
		pdf.SetFont("Helvetica", style, 10)
		pdf.CellFormat(130, 6, "", "", 0, "", false, 0, "")
		pdf.CellFormat(28, 6, tr(label), "", 0, "R", false, 0, "")
		pdf.CellFormat(28, 6, amount, "", 1, "R", false, 0, "")
	}
	totalRow("Subtotal:", "$"+Money(b.Subtotal), false)
	if b.Discount > 0 {
		totalRow("Descuento:", "-$"+Money(b.Discount), false)
	}
	if in.IncludeShipping {
		if b.FreeShipping {
			totalRow("Envío:", "GRATIS", false)
		} else {
			totalRow("Envío:", "$"+Money(b.ShippingCost), false)
		}
	}
	if in.IncludeAlignment {
		totalRow("Alineación:", "$"+Money(b.AlignmentCost), false)
	}
	totalRow("TOTAL:", "$"+Money(b.Total)+" MXN", true)

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.CellFormat(0, 4, tr("Precios incluyen IVA. Cotización válida por 7 días."), "", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
