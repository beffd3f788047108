package core

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sevengen/site-backend/internal/db"
	"github.com/sevengen/site-backend/internal/models"
	"github.com/sevengen/site-backend/pkg/database"
)

var (
	adminPrincipal    = &models.Principal{UID: "admin-1", Email: "admin@sevengen.com.br", DisplayName: "Admin"}
	customerPrincipal = &models.Principal{UID: "cust-1", Email: "cliente@x.com", DisplayName: "Cliente"}
)

// fixture wires the services over one in-memory store seeded with an admin and a customer.
type fixture struct {
	store     *database.MemoryStore
	roles     RoleResolver
	quotes    QuoteService
	content   ContentService
	publisher *recordingPublisher
	metrics   *countingMetrics
	validator *Validator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := database.NewMemoryStore()
	users := db.NewUserRepository(store)
	require.NoError(t, users.Create(ctx, &models.UserProfile{ID: adminPrincipal.UID, Name: "Admin", Email: adminPrincipal.Email, Role: models.RoleAdmin}))
	require.NoError(t, users.Create(ctx, &models.UserProfile{ID: customerPrincipal.UID, Name: "Cliente", Email: customerPrincipal.Email, Role: models.RoleCustomer}))

	validator, err := NewValidator(DefaultQuoteRules)
	require.NoError(t, err)

	logger := zap.NewNop()
	metrics := &countingMetrics{}
	publisher := &recordingPublisher{}
	roles := NewRoleResolver(users, metrics, logger)
	audit := NewAuditService(db.NewAuditRepository(store))
	content, err := NewContentService(db.NewContentRepository(store), roles, audit, validator, nil, 0, metrics, logger)
	require.NoError(t, err)

	return &fixture{
		store:     store,
		roles:     roles,
		quotes:    NewQuoteService(db.NewQuoteRepository(store), roles, audit, publisher, validator, metrics, logger),
		content:   content,
		publisher: publisher,
		metrics:   metrics,
		validator: validator,
	}
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []models.QuoteSubmittedEvent
	err    error
}

func (p *recordingPublisher) PublishQuoteSubmitted(_ context.Context, event models.QuoteSubmittedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

type countingMetrics struct {
	mu       sync.Mutex
	outcomes map[string]int
	writes   int
	denials  int
}

func (m *countingMetrics) QuoteSubmitted(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.outcomes == nil {
		m.outcomes = make(map[string]int)
	}
	m.outcomes[outcome]++
}

func (m *countingMetrics) ContentWritten() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes++
}

func (m *countingMetrics) RoleDenied() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.denials++
}

// mockUserRepository is a function-field mock of db.UserRepository.
type mockUserRepository struct {
	GetByIDFunc func(ctx context.Context, userID string) (*models.UserProfile, error)
	CreateFunc  func(ctx context.Context, profile *models.UserProfile) error
}

func (m *mockUserRepository) GetByID(ctx context.Context, userID string) (*models.UserProfile, error) {
	return m.GetByIDFunc(ctx, userID)
}

func (m *mockUserRepository) Create(ctx context.Context, profile *models.UserProfile) error {
	return m.CreateFunc(ctx, profile)
}

// mockQuoteRepository is a function-field mock of db.QuoteRepository.
type mockQuoteRepository struct {
	CreateFunc            func(ctx context.Context, quote *models.QuoteRequest) (string, error)
	GetByIDFunc           func(ctx context.Context, quoteID string) (*models.QuoteRequest, error)
	ListByCreatedDescFunc func(ctx context.Context) ([]*models.QuoteRequest, error)
	UpdateFunc            func(ctx context.Context, quoteID string, fields map[string]interface{}) error
	DeleteFunc            func(ctx context.Context, quoteID string) error
}

func (m *mockQuoteRepository) Create(ctx context.Context, quote *models.QuoteRequest) (string, error) {
	return m.CreateFunc(ctx, quote)
}

func (m *mockQuoteRepository) GetByID(ctx context.Context, quoteID string) (*models.QuoteRequest, error) {
	return m.GetByIDFunc(ctx, quoteID)
}

func (m *mockQuoteRepository) ListByCreatedDesc(ctx context.Context) ([]*models.QuoteRequest, error) {
	return m.ListByCreatedDescFunc(ctx)
}

func (m *mockQuoteRepository) Update(ctx context.Context, quoteID string, fields map[string]interface{}) error {
	return m.UpdateFunc(ctx, quoteID, fields)
}

func (m *mockQuoteRepository) Delete(ctx context.Context, quoteID string) error {
	return m.DeleteFunc(ctx, quoteID)
}

// mockAuthProvider is a function-field mock of AuthProvider.
type mockAuthProvider struct {
	VerifyIDTokenFunc func(ctx context.Context, idToken string) (*models.Principal, error)
	CreateAccountFunc func(ctx context.Context, email, password, displayName string) (*models.Principal, error)
	SignInFunc        func(ctx context.Context, email, password string) (*models.Session, error)
	SignOutFunc       func(ctx context.Context, uid string) error
}

func (m *mockAuthProvider) VerifyIDToken(ctx context.Context, idToken string) (*models.Principal, error) {
	return m.VerifyIDTokenFunc(ctx, idToken)
}

func (m *mockAuthProvider) CreateAccount(ctx context.Context, email, password, displayName string) (*models.Principal, error) {
	return m.CreateAccountFunc(ctx, email, password, displayName)
}

func (m *mockAuthProvider) SignIn(ctx context.Context, email, password string) (*models.Session, error) {
	return m.SignInFunc(ctx, email, password)
}

func (m *mockAuthProvider) SignOut(ctx context.Context, uid string) error {
	return m.SignOutFunc(ctx, uid)
}
