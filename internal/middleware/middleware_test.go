package middleware

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"syscall"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/sevengen/site-backend/internal/config"
	"github.com/sevengen/site-backend/internal/core"
	"github.com/sevengen/site-backend/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubVerifier struct {
	principals map[string]*models.Principal
}

func (s *stubVerifier) VerifyIDToken(_ context.Context, idToken string) (*models.Principal, error) {
	if p, ok := s.principals[idToken]; ok {
		return p, nil
	}
	return nil, core.ErrNotAuthenticated
}

type stubRoles struct {
	mu    sync.Mutex
	roles map[string]models.Role
	calls int
}

func (s *stubRoles) ResolveRole(_ context.Context, id string) (models.Role, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if role, ok := s.roles[id]; ok {
		return role, nil
	}
	return models.RoleUnknown, core.ErrProfileNotFound
}

func (s *stubRoles) RequireAdmin(ctx context.Context, caller *models.Principal) error {
	if caller == nil {
		return core.ErrNotAuthenticated
	}
	role, err := s.ResolveRole(ctx, caller.UID)
	if err != nil || role != models.RoleAdmin {
		return core.ErrPermissionDenied
	}
	return nil
}

func (s *stubRoles) set(id string, role models.Role) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.roles[id] = role
}

func newVerifier() *stubVerifier {
	return &stubVerifier{principals: map[string]*models.Principal{
		"admin-token": {UID: "admin-1", Email: "admin@sevengen.com.br", DisplayName: "Admin"},
		"cust-token":  {UID: "cust-1", Email: "ana@example.com"},
	}}
}

func perform(r http.Handler, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestVerifyToken(t *testing.T) {
	auth := NewAuthMiddleware(newVerifier(), zap.NewNop())
	r := gin.New()
	r.GET("/me", auth.VerifyToken(), func(c *gin.Context) {
		p := PrincipalFromContext(c)
		c.JSON(http.StatusOK, p)
	})

	assert.Equal(t, http.StatusUnauthorized, perform(r, http.MethodGet, "/me", "").Code)
	assert.Equal(t, http.StatusUnauthorized, perform(r, http.MethodGet, "/me", "bogus").Code)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Token cust-token")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = perform(r, http.MethodGet, "/me", "cust-token")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"uid":"cust-1"`)
	assert.Contains(t, w.Body.String(), `"email":"ana@example.com"`)
}

func TestOptionalToken(t *testing.T) {
	auth := NewAuthMiddleware(newVerifier(), zap.NewNop())
	r := gin.New()
	r.POST("/quotes", auth.OptionalToken(), func(c *gin.Context) {
		if p := PrincipalFromContext(c); p != nil {
			c.String(http.StatusOK, p.UID)
			return
		}
		c.String(http.StatusOK, "anonymous")
	})

	w := perform(r, http.MethodPost, "/quotes", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "anonymous", w.Body.String())

	w = perform(r, http.MethodPost, "/quotes", "cust-token")
	assert.Equal(t, "cust-1", w.Body.String())

	assert.Equal(t, http.StatusUnauthorized, perform(r, http.MethodPost, "/quotes", "expired").Code)
}

func TestRequireAdmin_EvaluatedPerRequest(t *testing.T) {
	roles := &stubRoles{roles: map[string]models.Role{"admin-1": models.RoleAdmin, "cust-1": models.RoleCustomer}}
	auth := NewAuthMiddleware(newVerifier(), zap.NewNop())
	r := gin.New()
	admin := r.Group("/admin", auth.OptionalToken(), RequireAdmin(roles, zap.NewNop()))
	admin.GET("/quotes", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusUnauthorized, perform(r, http.MethodGet, "/admin/quotes", "").Code)
	assert.Equal(t, http.StatusForbidden, perform(r, http.MethodGet, "/admin/quotes", "cust-token").Code)
	assert.Equal(t, http.StatusOK, perform(r, http.MethodGet, "/admin/quotes", "admin-token").Code)

	roles.set("admin-1", models.RoleCustomer)
	assert.Equal(t, http.StatusForbidden, perform(r, http.MethodGet, "/admin/quotes", "admin-token").Code)
	assert.Equal(t, 3, roles.calls)
}

func TestRequestLogger_AssignsRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogger(zap.NewNop()))
	r.GET("/health", func(c *gin.Context) { c.String(http.StatusOK, RequestID(c)) })

	w := perform(r, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)
	id := w.Header().Get("X-Request-ID")
	assert.NotEmpty(t, id)
	assert.Equal(t, id, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
}

func TestRecoveryMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(RecoveryMiddleware(zap.NewNop()))
	r.GET("/boom", func(c *gin.Context) { panic(errors.New("boom")) })

	w := perform(r, http.MethodGet, "/boom", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Erro interno")
}

func TestRecoveryMiddleware_ClientGoneIsNotAnswered(t *testing.T) {
	observed, logs := observer.New(zap.DebugLevel)
	r := gin.New()
	r.Use(RecoveryMiddleware(zap.New(observed)))
	r.GET("/conteudo", func(c *gin.Context) {
		panic(&net.OpError{Op: "write", Net: "tcp", Err: os.NewSyscallError("write", syscall.EPIPE)})
	})

	w := perform(r, http.MethodGet, "/conteudo", "")
	assert.Empty(t, w.Body.String())
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, zap.WarnLevel, logs.All()[0].Level)
	assert.Equal(t, "/conteudo", logs.All()[0].ContextMap()["route"])
}

func TestRecoveryMiddleware_ReraisesAbortHandler(t *testing.T) {
	r := gin.New()
	r.Use(RecoveryMiddleware(zap.NewNop()))
	r.GET("/abort", func(c *gin.Context) { panic(http.ErrAbortHandler) })

	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		perform(r, http.MethodGet, "/abort", "")
	})
}

func TestRecoveryMiddleware_KeepsPartialResponse(t *testing.T) {
	r := gin.New()
	r.Use(RecoveryMiddleware(zap.NewNop()))
	r.GET("/parcial", func(c *gin.Context) {
		c.String(http.StatusOK, "parte")
		panic("late failure")
	})

	w := perform(r, http.MethodGet, "/parcial", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "parte", w.Body.String())
}

func TestCORSMiddleware_AllowsConfiguredOrigins(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware(&config.Config{ClientURL: "http://localhost:9002, https://sevengen.com.br"}))
	r.GET("/api/v1/content", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/api/v1/content", nil)
	req.Header.Set("Origin", "https://sevengen.com.br")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "https://sevengen.com.br", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/v1/content", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

type countingRejections struct{ n int }

func (c *countingRejections) RecordRateLimited() { c.n++ }

func TestRateLimiter_Returns429AfterBurst(t *testing.T) {
	rec := &countingRejections{}
	rl := NewRateLimiter(RateLimiterConfig{Rate: 1, Burst: 2, CleanupInterval: time.Minute}, rec, zap.NewNop())
	defer rl.Stop()

	r := gin.New()
	r.POST("/quotes", rl.Middleware(), func(c *gin.Context) { c.Status(http.StatusCreated) })

	for i := 0; i < 2; i++ {
		assert.Equal(t, http.StatusCreated, perform(r, http.MethodPost, "/quotes", "").Code, "request %d", i)
	}
	w := perform(r, http.MethodPost, "/quotes", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))
	assert.Equal(t, 1, rec.n)
	assert.Equal(t, 1, rl.LimiterCount())
}

func TestRateLimiter_CleanupDropsIdleClients(t *testing.T) {
	rl := NewRateLimiter(PerMinute(5, 5), nil, nil)
	defer rl.Stop()

	rl.limiterFor("10.0.0.1")
	rl.limiterFor("10.0.0.2")
	require.Equal(t, 2, rl.LimiterCount())

	rl.cleanup(time.Now().Add(11 * time.Minute))
	assert.Equal(t, 0, rl.LimiterCount())
}

func TestRetryAfterSeconds(t *testing.T) {
	assert.Equal(t, 12, retryAfterSeconds(PerMinute(5, 5).Rate))
	assert.Equal(t, 1, retryAfterSeconds(10))
	assert.Equal(t, 60, retryAfterSeconds(0))
}

type routeRecorder struct {
	routes []string
	codes  []int
}

func (r *routeRecorder) RecordRequest(_ string, route string, statusCode int, _ time.Duration) {
	r.routes = append(r.routes, route)
	r.codes = append(r.codes, statusCode)
}

func TestRequestMetrics_UsesRouteTemplate(t *testing.T) {
	rec := &routeRecorder{}
	r := gin.New()
	r.Use(RequestMetrics(rec))
	r.GET("/admin/quotes/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	perform(r, http.MethodGet, "/admin/quotes/q-1", "")
	perform(r, http.MethodGet, "/nowhere", "")

	assert.Equal(t, []string{"/admin/quotes/:id", "unmatched"}, rec.routes)
	assert.Equal(t, []int{http.StatusNotFound, http.StatusNotFound}, rec.codes)
}
