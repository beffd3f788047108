package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sevengen/site-backend/internal/core"
	"github.com/sevengen/site-backend/internal/middleware"
)

// RouterDeps holds the services and middleware the routes are wired to.
type RouterDeps struct {
	Logger         *zap.Logger
	Auth           *middleware.AuthMiddleware
	Roles          core.RoleResolver
	Accounts       core.AccountService
	Quotes         core.QuoteService
	Content        core.ContentService
	QuoteLimiter   *middleware.RateLimiter
	MetricsHandler http.Handler
}

// SetupRoutes registers every route. Global middleware (logging, recovery, CORS, request
// metrics) is expected to be applied to router before this is called.
func SetupRoutes(router *gin.Engine, deps RouterDeps) {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	authHandler := NewAuthHandler(deps.Accounts, logger)
	userHandler := NewUserHandler(deps.Accounts, logger)
	quoteHandler := NewQuoteHandler(deps.Quotes, logger)
	contentHandler := NewContentHandler(deps.Content, logger)

	router.GET("/health", HealthCheck)
	if deps.MetricsHandler != nil {
		router.GET("/metrics", gin.WrapH(deps.MetricsHandler))
	}

	apiV1 := router.Group("/api/v1")
	{
		apiV1.GET("/content", contentHandler.Get)

		submit := []gin.HandlerFunc{deps.Auth.OptionalToken()}
		if deps.QuoteLimiter != nil {
			submit = append([]gin.HandlerFunc{deps.QuoteLimiter.Middleware()}, submit...)
		}
		apiV1.POST("/quotes", append(submit, quoteHandler.Submit)...)

		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/signup", authHandler.SignUp)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/admin/login", authHandler.AdminLogin)
			authGroup.POST("/logout", deps.Auth.VerifyToken(), authHandler.Logout)
		}

		userGroup := apiV1.Group("/users", deps.Auth.VerifyToken())
		{
			userGroup.POST("/initialize", userHandler.InitializeUserProfile)
			userGroup.GET("/me", userHandler.GetCurrentUserProfile)
		}

		adminGroup := apiV1.Group("/admin", deps.Auth.VerifyToken(), middleware.RequireAdmin(deps.Roles, logger))
		{
			adminGroup.GET("/session", AdminSession)
			adminGroup.GET("/quotes", quoteHandler.List)
			adminGroup.GET("/quotes/:id", quoteHandler.Get)
			adminGroup.PATCH("/quotes/:id", quoteHandler.Update)
			adminGroup.DELETE("/quotes/:id", quoteHandler.Delete)
			adminGroup.PUT("/content", contentHandler.Put)
		}
	}

	logger.Info("API routes configured under /api/v1, /health and /metrics")
}
