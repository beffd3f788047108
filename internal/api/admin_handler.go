package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sevengen/site-backend/internal/models"
)

// AdminSession handles GET /api/v1/admin/session. The admin gate has already run, so reaching
// this handler means the caller currently holds the admin role.
func AdminSession(c *gin.Context) {
	p := caller(c)
	c.JSON(http.StatusOK, AdminSessionResponse{
		UID:         p.UID,
		Email:       p.Email,
		DisplayName: p.DisplayName,
		Role:        string(models.RoleAdmin),
	})
}
