// Package export renders report downloads. Output is UTF-8 with a BOM so
// Excel opens accented Spanish text correctly.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/rushdatamx/llantas-reluvsa-rushdata/internal/model"
	"github.com/rushdatamx/llantas-reluvsa-rushdata/internal/quote"
	"github.com/rushdatamx/llantas-reluvsa-rushdata/internal/service"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// writer wraps encoding/csv with the section helpers the reports share.
type writer struct {
	buf *bytes.Buffer
	w   *csv.Writer
}

func newWriter() *writer {
	buf := &bytes.Buffer{}
	buf.Write(utf8BOM)
	return &writer{buf: buf, w: csv.NewWriter(buf)}
}

func (c *writer) row(fields ...string) { c.w.Write(fields) }
func (c *writer) blank()               { c.w.Write([]string{""}) }
func (c *writer) section(title string) { c.w.Write([]string{"=== " + title + " ==="}) }

func (c *writer) bytes() []byte {
	c.w.Flush()
	return c.buf.Bytes()
}

// Analytics renders the analytics snapshot as a multi-section report, one
// section per chart on the analytics screen.
func Analytics(snap *service.Snapshot) []byte {
	c := newWriter()
	generated := snap.GeneratedAt.Format("02/01/2006")

	c.row("RELUVSA Analytics Report - " + generated)
	c.row("Período: " + string(snap.Range))
	c.blank()

	c.section("KPIs")
	c.row("Métrica", "Valor")
	c.row("Ingresos Totales", "$"+quote.Money(snap.KPIs.Revenue))
	c.row("Pedidos Completados", strconv.Itoa(snap.KPIs.Orders))
	c.row("Tasa de Conversión", fmt.Sprintf("%.1f%%", snap.KPIs.ConversionRate))
	c.row("Ticket Promedio", "$"+quote.Money(snap.KPIs.AverageTicket))
	c.blank()

	c.section("Ingresos por Día")
	c.row("Fecha", "Ingresos")
	for _, d := range snap.RevenueByDay {
		c.row(d.Date, "$"+quote.Money(d.Revenue))
	}
	c.blank()

	c.section("Embudo de Conversión")
	c.row("Etapa", "Cantidad", "Porcentaje")
	total := snap.Funnel.Conversations
	if total == 0 {
		total = 1
	}
	pct := func(n int) string {
		return fmt.Sprintf("%.1f%%", float64(n)/float64(total)*100)
	}
	c.row("Conversaciones", strconv.Itoa(snap.Funnel.Conversations), "100%")
	c.row("Con medida", strconv.Itoa(snap.Funnel.WithSize), pct(snap.Funnel.WithSize))
	c.row("Cotizado", strconv.Itoa(snap.Funnel.Quoted), pct(snap.Funnel.Quoted))
	c.row("Link enviado", strconv.Itoa(snap.Funnel.LinkSent), pct(snap.Funnel.LinkSent))
	c.row("Pagado", strconv.Itoa(snap.Funnel.Paid), pct(snap.Funnel.Paid))
	c.blank()

	c.section("Top Medidas Buscadas")
	c.row("Medida", "Cantidad")
	for _, m := range snap.TopSizes {
		c.row(m.Size, strconv.Itoa(m.Count))
	}
	c.blank()

	c.section("Métodos de Pago")
	c.row("Método", "Cantidad", "Ingresos")
	for _, m := range snap.PaymentMethods {
		c.row(paymentLabel(m.Method), strconv.Itoa(m.Count), "$"+quote.Money(m.Revenue))
	}
	c.blank()

	c.section("Bot vs Vendedor")
	c.row("Atención", "Sesiones", "Conversiones", "Tasa", "Tiempo Respuesta (min)")
	c.row(agentRow("Bot", snap.Bot)...)
	c.row(agentRow("Vendedor", snap.Agent)...)
	c.blank()

	c.section("Actividad por Día de la Semana")
	c.row("Día", "Mensajes")
	for _, d := range snap.ByWeekday {
		c.row(d.Name, strconv.Itoa(d.Count))
	}
	c.blank()

	c.section("Actividad por Hora")
	c.row("Hora", "Mensajes")
	for _, h := range snap.ByHour {
		c.row(fmt.Sprintf("%d:00", h.Hour), strconv.Itoa(h.Count))
	}

	return c.bytes()
}

func paymentLabel(method string) string {
	switch method {
	case string(model.PaymentStripe):
		return "Tarjeta"
	case string(model.PaymentCashOnDelivery):
		return "Efectivo"
	}
	return method
}

func agentRow(label string, s service.AgentStat) []string {
	rate := "0"
	if s.Sessions > 0 {
		rate = fmt.Sprintf("%.1f", float64(s.Conversions)/float64(s.Sessions)*100)
	}
	return []string{
		label,
		strconv.Itoa(s.Sessions),
		strconv.Itoa(s.Conversions),
		rate + "%",
		fmt.Sprintf("%.1f", s.AvgResponseMins),
	}
}

// Orders renders an order list download.
func Orders(orders []*model.Order) []byte {
	c := newWriter()
	c.row("ID", "Cliente", "Teléfono", "Estado", "Método de Pago", "Total", "Fecha Pago", "Guía", "Creado")
	for _, o := range orders {
		paidAt := ""
		if o.PaidAt != nil {
			paidAt = o.PaidAt.Format(time.RFC3339)
		}
		c.row(
			o.ID,
			o.CustomerName,
			o.Phone,
			string(o.Status),
			string(o.PaymentMethod),
			fmt.Sprintf("%.2f", o.Total),
			paidAt,
			o.TrackingNumber,
			o.CreatedAt.Format(time.RFC3339),
		)
	}
	return c.bytes()
}

// Inventory renders the current stock snapshot download.
func Inventory(items []*model.InventoryItem) []byte {
	c := newWriter()
	c.row("ID", "Descripción", "Medida", "Categoría", "Precio", "Precio con IVA", "Existencia")
	for _, it := range items {
		c.row(
			it.SnapshotID,
			it.Description,
			it.Size,
			it.Category,
			fmt.Sprintf("%.2f", it.Price),
			fmt.Sprintf("%.2f", it.PriceWithTax),
			strconv.FormatInt(it.Stock, 10),
		)
	}
	return c.bytes()
}
