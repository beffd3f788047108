package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sevengen/site-backend/internal/middleware"
	"github.com/sevengen/site-backend/internal/models"
)

// bindJSON decodes the request body into dst and answers 400 when it is malformed.
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: msgInvalidData, Details: "Corpo da requisição inválido."})
		return false
	}
	return true
}

// caller returns the authenticated principal or nil for anonymous requests.
func caller(c *gin.Context) *models.Principal {
	return middleware.PrincipalFromContext(c)
}

// HealthCheck reports that the process is serving.
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "UP", "message": "Sevengen site backend is healthy."})
}
