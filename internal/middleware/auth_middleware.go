package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sevengen/site-backend/internal/core"
	"github.com/sevengen/site-backend/internal/models"
)

const (
	userIDKey          = "userID"
	userEmailKey       = "userEmail"
	userDisplayNameKey = "userDisplayName"
)

// ErrorResponse is the error body written by the middleware.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// TokenVerifier resolves a bearer ID token to a principal.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*models.Principal, error)
}

// AuthMiddleware authenticates requests with ID tokens issued by the identity provider.
type AuthMiddleware struct {
	verifier TokenVerifier
	logger   *zap.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware instance.
func NewAuthMiddleware(verifier TokenVerifier, logger *zap.Logger) *AuthMiddleware {
	if verifier == nil {
		panic("AuthMiddleware requires a non-nil TokenVerifier")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthMiddleware{verifier: verifier, logger: logger}
}

// VerifyToken rejects requests without a valid bearer token. On success the principal is
// stored in the gin context.
func (m *AuthMiddleware) VerifyToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Autenticação necessária."})
			return
		}
		if !m.authenticate(c, authHeader) {
			return
		}
		c.Next()
	}
}

// OptionalToken lets anonymous requests through. A request that does carry an
// Authorization header must carry a valid token.
func (m *AuthMiddleware) OptionalToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" && !m.authenticate(c, authHeader) {
			return
		}
		c.Next()
	}
}

func (m *AuthMiddleware) authenticate(c *gin.Context, authHeader string) bool {
	parts := strings.Fields(authHeader)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Cabeçalho Authorization deve ter o formato 'Bearer {token}'."})
		return false
	}

	principal, err := m.verifier.VerifyIDToken(c.Request.Context(), parts[1])
	if err != nil || principal == nil || principal.UID == "" {
		m.logger.Warn("Rejected ID token", zap.Error(err), zap.String("path", c.Request.URL.Path))
		c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Sessão inválida ou expirada."})
		return false
	}

	c.Set(userIDKey, principal.UID)
	if principal.Email != "" {
		c.Set(userEmailKey, principal.Email)
	}
	if principal.DisplayName != "" {
		c.Set(userDisplayNameKey, principal.DisplayName)
	}
	return true
}

// PrincipalFromContext returns the authenticated principal, or nil for anonymous requests.
func PrincipalFromContext(c *gin.Context) *models.Principal {
	uid := c.GetString(userIDKey)
	if uid == "" {
		return nil
	}
	return &models.Principal{
		UID:         uid,
		Email:       c.GetString(userEmailKey),
		DisplayName: c.GetString(userDisplayNameKey),
	}
}

// RequireAdmin gates a route group on the admin role. The role is resolved from the profile
// store on every request and never cached, so a demotion takes effect immediately.
func RequireAdmin(roles core.RoleResolver, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		principal := PrincipalFromContext(c)
		err := roles.RequireAdmin(c.Request.Context(), principal)
		if err == nil {
			c.Next()
			return
		}

		if errors.Is(err, core.ErrNotAuthenticated) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Autenticação necessária."})
			return
		}
		uid := ""
		if principal != nil {
			uid = principal.UID
		}
		logger.Warn("Admin access denied",
			zap.String("user_id", uid),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{Error: "Acesso negado. Permissão de administrador necessária."})
	}
}
