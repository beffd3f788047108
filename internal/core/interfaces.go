package core

import (
	"context"

	"github.com/sevengen/site-backend/internal/models"
)

// RoleResolver decides whether a principal holds the admin role. It fails closed: any
// missing profile or lookup error means not admin.
type RoleResolver interface {
	ResolveRole(ctx context.Context, principalID string) (models.Role, error)
	// RequireAdmin returns ErrNotAuthenticated for a nil caller and ErrPermissionDenied for
	// anyone not positively resolved as admin.
	RequireAdmin(ctx context.Context, caller *models.Principal) error
}

// QuoteService defines the quote request lifecycle operations.
type QuoteService interface {
	// Submit is open to anyone; caller is nil for anonymous visitors.
	Submit(ctx context.Context, caller *models.Principal, req models.SubmitQuoteRequest) (string, error)
	SubmitAsync(ctx context.Context, caller *models.Principal, req models.SubmitQuoteRequest) *Operation[string]
	List(ctx context.Context, caller *models.Principal) ([]*models.QuoteRequest, error)
	ListPartitioned(ctx context.Context, caller *models.Principal) (*models.QuoteListing, error)
	Get(ctx context.Context, caller *models.Principal, quoteID string) (*models.QuoteRequest, error)
	Update(ctx context.Context, caller *models.Principal, quoteID string, req models.UpdateQuoteRequest) (*models.QuoteRequest, error)
	Delete(ctx context.Context, caller *models.Principal, quoteID string) error
	// Drain blocks until every started submission has finished or ctx ends.
	Drain(ctx context.Context) error
}

// ContentService defines the homepage content operations.
type ContentService interface {
	Read(ctx context.Context) *models.HomepageContent
	Write(ctx context.Context, caller *models.Principal, req models.WriteContentRequest) (*models.HomepageContent, error)
	EnsureSeeded(ctx context.Context) error
}

// AccountService defines sign-up, sign-in and profile operations.
type AccountService interface {
	SignUp(ctx context.Context, req models.SignUpRequest) (*models.UserProfile, error)
	SignIn(ctx context.Context, req models.SignInRequest) (*models.Session, error)
	AdminSignIn(ctx context.Context, req models.SignInRequest) (*models.Session, error)
	SignOut(ctx context.Context, caller *models.Principal) error
	InitializeProfile(ctx context.Context, caller *models.Principal) (*models.UserProfile, bool, error)
	Profile(ctx context.Context, caller *models.Principal) (*models.UserProfile, error)
}

// AuditService defines the interface for audit logging operations.
type AuditService interface {
	CreateAuditLog(ctx context.Context, logEntry models.AuditLog) error
}

// AuthProvider is the identity provider boundary.
type AuthProvider interface {
	// VerifyIDToken returns the principal of a valid ID token.
	VerifyIDToken(ctx context.Context, idToken string) (*models.Principal, error)
	// CreateAccount fails with ErrEmailInUse when the e-mail is registered.
	CreateAccount(ctx context.Context, email, password, displayName string) (*models.Principal, error)
	// SignIn fails with ErrInvalidCredentials on a wrong e-mail or password.
	SignIn(ctx context.Context, email, password string) (*models.Session, error)
	// SignOut revokes the refresh tokens of uid.
	SignOut(ctx context.Context, uid string) error
}
