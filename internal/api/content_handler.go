package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sevengen/site-backend/internal/core"
	"github.com/sevengen/site-backend/internal/models"
)

// ContentHandler serves and edits the homepage content.
type ContentHandler struct {
	content core.ContentService
	logger  *zap.Logger
}

// NewContentHandler creates a new ContentHandler.
func NewContentHandler(content core.ContentService, logger *zap.Logger) *ContentHandler {
	return &ContentHandler{content: content, logger: logger}
}

// Get handles GET /api/v1/content. It always answers with renderable content.
func (h *ContentHandler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, h.content.Read(c.Request.Context()))
}

// Put handles PUT /api/v1/admin/content. Fields left out of the body keep their stored values.
func (h *ContentHandler) Put(c *gin.Context) {
	var req models.WriteContentRequest
	if !bindJSON(c, &req) {
		return
	}
	content, err := h.content.Write(c.Request.Context(), caller(c), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, content)
}
