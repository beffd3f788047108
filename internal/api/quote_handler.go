package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sevengen/site-backend/internal/core"
	"github.com/sevengen/site-backend/internal/models"
)

const msgQuoteSubmitted = "Orçamento solicitado com sucesso! Entraremos em contato em breve."

// QuoteHandler handles quote request submission and the admin quote dashboard.
type QuoteHandler struct {
	quotes core.QuoteService
	logger *zap.Logger
}

// NewQuoteHandler creates a new QuoteHandler.
func NewQuoteHandler(quotes core.QuoteService, logger *zap.Logger) *QuoteHandler {
	return &QuoteHandler{quotes: quotes, logger: logger}
}

// Submit handles POST /api/v1/quotes. Anonymous and signed-in visitors may submit; success is
// only reported once the request is stored.
func (h *QuoteHandler) Submit(c *gin.Context) {
	var req models.SubmitQuoteRequest
	if !bindJSON(c, &req) {
		return
	}

	op := h.quotes.SubmitAsync(c.Request.Context(), caller(c), req)
	id, err := op.Wait(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, QuoteSubmittedResponse{ID: id, Message: msgQuoteSubmitted})
}

// List handles GET /api/v1/admin/quotes, grouped into active and closed requests.
func (h *QuoteHandler) List(c *gin.Context) {
	listing, err := h.quotes.ListPartitioned(c.Request.Context(), caller(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, listing)
}

// Get handles GET /api/v1/admin/quotes/:id.
func (h *QuoteHandler) Get(c *gin.Context) {
	quote, err := h.quotes.Get(c.Request.Context(), caller(c), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, quote)
}

// Update handles PATCH /api/v1/admin/quotes/:id.
func (h *QuoteHandler) Update(c *gin.Context) {
	var req models.UpdateQuoteRequest
	if !bindJSON(c, &req) {
		return
	}
	quote, err := h.quotes.Update(c.Request.Context(), caller(c), c.Param("id"), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, quote)
}

// Delete handles DELETE /api/v1/admin/quotes/:id.
func (h *QuoteHandler) Delete(c *gin.Context) {
	if err := h.quotes.Delete(c.Request.Context(), caller(c), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
