package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/rushdatamx/llantas-reluvsa-rushdata/internal/quote"
	"github.com/rushdatamx/llantas-reluvsa-rushdata/internal/service"
	"github.com/rushdatamx/llantas-reluvsa-rushdata/pkg/response"
)

// CalculateQuote runs the price calculator and returns the breakdown.
// @Summary Calculate quote
// @Tags quotes
// @Accept json
// @Param request body quote.Input true "Quote input"
// @Success 200 {object} response.Response
// @Router /api/v1/quotes/calculate [post]
func (h *Handler) CalculateQuote(c *gin.Context) {
	var in quote.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	response.Success(c, h.quotes.Compute(in))
}

// RenderQuoteText returns the WhatsApp-ready quotation message.
// @Summary Render quote message
// @Tags quotes
// @Accept json
// @Param request body quote.Input true "Quote input"
// @Success 200 {object} response.Response
// @Router /api/v1/quotes/text [post]
func (h *Handler) RenderQuoteText(c *gin.Context) {
	var in quote.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	response.Success(c, gin.H{
		"text":      h.quotes.RenderText(in),
		"breakdown": h.quotes.Compute(in),
	})
}

// DownloadQuotePDF streams the printable quote.
// @Summary Download quote PDF
// @Tags quotes
// @Accept json
// @Produce application/pdf
// @Param request body quote.Input true "Quote input"
// @Success 200 {string} string "PDF file"
// @Router /api/v1/quotes/pdf [post]
func (h *Handler) DownloadQuotePDF(c *gin.Context) {
	var in quote.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	pdf, err := h.quotes.RenderPDF(in)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="cotizacion-reluvsa.pdf"`)
	c.Data(200, "application/pdf", pdf)
}

// CreatePaymentLink asks the payment collaborator for a checkout link.
// @Summary Create payment link
// @Tags quotes
// @Accept json
// @Param request body service.PaymentLinkInput true "Quote plus delivery details"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /api/v1/quotes/payment-link [post]
func (h *Handler) CreatePaymentLink(c *gin.Context) {
	var in service.PaymentLinkInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	result, err := h.quotes.CreatePaymentLink(c.Request.Context(), in, c.GetString("user_id"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNameRequired),
			errors.Is(err, service.ErrPhoneRequired),
			errors.Is(err, service.ErrEmailRequired),
			errors.Is(err, service.ErrItemsRequired),
			errors.Is(err, service.ErrZeroTotal):
			response.BadRequest(c, err.Error())
		default:
			response.InternalError(c, err)
		}
		return
	}
	response.Success(c, result)
}
