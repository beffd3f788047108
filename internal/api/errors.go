package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sevengen/site-backend/internal/core"
	"github.com/sevengen/site-backend/internal/db"
)

const (
	msgInvalidData        = "Dados inválidos."
	msgNotAuthenticated   = "Autenticação necessária."
	msgPermissionDenied   = "Acesso negado. Permissão de administrador necessária."
	msgInvalidCredentials = "E-mail ou senha inválidos."
	msgEmailInUse         = "Este e-mail já está em uso."
	msgQuoteNotFound      = "Solicitação de orçamento não encontrada."
	msgProfileNotFound    = "Perfil de usuário não encontrado."
	msgNoFieldsToUpdate   = "Nenhum campo para atualizar."
	msgInternal           = "Não foi possível concluir a operação. Tente novamente mais tarde."
)

// respondError maps a service error to its HTTP status and a submitter-facing body.
// Causes of unexpected failures are logged and never written to the response.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	var verr *core.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: msgInvalidData, Fields: verr.Fields})
	case errors.Is(err, core.ErrNoFieldsToUpdate):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: msgNoFieldsToUpdate})
	case errors.Is(err, core.ErrNotAuthenticated):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: msgNotAuthenticated})
	case errors.Is(err, core.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: msgInvalidCredentials})
	case errors.Is(err, core.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: msgPermissionDenied})
	case errors.Is(err, core.ErrQuoteNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: msgQuoteNotFound})
	case errors.Is(err, core.ErrProfileNotFound), errors.Is(err, db.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: msgProfileNotFound})
	case errors.Is(err, core.ErrEmailInUse):
		c.JSON(http.StatusConflict, ErrorResponse{Error: msgEmailInUse})
	default:
		logger.Error("Request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: msgInternal})
	}
}
