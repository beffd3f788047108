package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sevengen/site-backend/internal/core"
	"github.com/sevengen/site-backend/internal/models"
)

// UserHandler handles the caller's own profile.
type UserHandler struct {
	accounts core.AccountService
	logger   *zap.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(accounts core.AccountService, logger *zap.Logger) *UserHandler {
	return &UserHandler{accounts: accounts, logger: logger}
}

// InitializeUserProfile handles POST /api/v1/users/initialize. Clients call it after a
// client-side sign-up so that a customer profile exists; an existing profile is returned as is.
func (h *UserHandler) InitializeUserProfile(c *gin.Context) {
	profile, created, err := h.accounts.InitializeProfile(c.Request.Context(), caller(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
		h.logger.Info("User profile created", zap.String("userID", profile.ID))
	}
	c.JSON(status, toProfileResponse(profile))
}

// GetCurrentUserProfile handles GET /api/v1/users/me.
func (h *UserHandler) GetCurrentUserProfile(c *gin.Context) {
	profile, err := h.accounts.Profile(c.Request.Context(), caller(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, toProfileResponse(profile))
}

func toProfileResponse(p *models.UserProfile) ProfileResponse {
	return ProfileResponse{
		ID:      p.ID,
		Name:    p.Name,
		Email:   p.Email,
		Role:    string(p.Role),
		IsAdmin: p.IsAdmin(),
	}
}
