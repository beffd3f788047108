package firebase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/identitytoolkit/v3"
	"google.golang.org/api/option"

	"github.com/sevengen/site-backend/internal/core"
	"github.com/sevengen/site-backend/internal/models"
)

// AdminAuth is the subset of *auth.Client used by Provider.
type AdminAuth interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
	CreateUser(ctx context.Context, user *auth.UserToCreate) (*auth.UserRecord, error)
	RevokeRefreshTokens(ctx context.Context, uid string) error
}

// PasswordVerifier checks an e-mail and password against Firebase Auth.
type PasswordVerifier func(ctx context.Context, email, password string) (*identitytoolkit.VerifyPasswordResponse, error)

// Provider implements core.AuthProvider with the Firebase Admin SDK and the Identity Toolkit
// password endpoint.
type Provider struct {
	admin          AdminAuth
	verifyPassword PasswordVerifier
}

// NewProvider creates a Provider for app. webAPIKey is the project's public Web API key used
// for password sign-in; without it SignIn always fails.
func NewProvider(ctx context.Context, app *firebase.App, webAPIKey string) (*Provider, error) {
	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get Firebase Auth client: %w", err)
	}

	var verifier PasswordVerifier
	if webAPIKey != "" {
		svc, err := identitytoolkit.NewService(ctx, option.WithAPIKey(webAPIKey))
		if err != nil {
			return nil, fmt.Errorf("failed to create identity toolkit service: %w", err)
		}
		verifier = RelyingPartyVerifier(svc.Relyingparty)
	}
	return NewProviderWith(authClient, verifier), nil
}

// NewProviderWith creates a Provider over the given collaborators.
func NewProviderWith(admin AdminAuth, verifier PasswordVerifier) *Provider {
	return &Provider{admin: admin, verifyPassword: verifier}
}

// RelyingPartyVerifier adapts the Identity Toolkit relying party API to a PasswordVerifier.
func RelyingPartyVerifier(rp *identitytoolkit.RelyingpartyService) PasswordVerifier {
	return func(ctx context.Context, email, password string) (*identitytoolkit.VerifyPasswordResponse, error) {
		return rp.VerifyPassword(&identitytoolkit.IdentitytoolkitRelyingpartyVerifyPasswordRequest{
			Email:             email,
			Password:          password,
			ReturnSecureToken: true,
		}).Context(ctx).Do()
	}
}

// VerifyIDToken verifies a Firebase ID token and returns its principal.
func (p *Provider) VerifyIDToken(ctx context.Context, idToken string) (*models.Principal, error) {
	token, err := p.admin.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrNotAuthenticated, err)
	}
	principal := &models.Principal{UID: token.UID}
	if email, ok := token.Claims["email"].(string); ok {
		principal.Email = email
	}
	if name, ok := token.Claims["name"].(string); ok {
		principal.DisplayName = name
	}
	return principal, nil
}

// CreateAccount registers an e-mail/password user.
func (p *Provider) CreateAccount(ctx context.Context, email, password, displayName string) (*models.Principal, error) {
	params := (&auth.UserToCreate{}).Email(email).Password(password)
	if displayName != "" {
		params = params.DisplayName(displayName)
	}
	record, err := p.admin.CreateUser(ctx, params)
	if err != nil {
		if auth.IsEmailAlreadyExists(err) {
			return nil, core.ErrEmailInUse
		}
		return nil, fmt.Errorf("failed to create auth user: %w", err)
	}
	return &models.Principal{UID: record.UID, Email: record.Email, DisplayName: record.DisplayName}, nil
}

// SignIn verifies the password and returns a fresh session.
func (p *Provider) SignIn(ctx context.Context, email, password string) (*models.Session, error) {
	if p.verifyPassword == nil {
		return nil, errors.New("password sign-in is not configured: FIREBASE_WEB_API_KEY is empty")
	}
	resp, err := p.verifyPassword(ctx, email, password)
	if err != nil {
		if isCredentialError(err) {
			return nil, core.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("password sign-in failed: %w", err)
	}
	return &models.Session{
		IDToken:      resp.IdToken,
		RefreshToken: resp.RefreshToken,
		ExpiresIn:    strconv.FormatInt(resp.ExpiresIn, 10),
		Principal: models.Principal{
			UID:         resp.LocalId,
			Email:       resp.Email,
			DisplayName: resp.DisplayName,
		},
	}, nil
}

// SignOut revokes every refresh token of uid. ID tokens already issued stay valid until they expire.
func (p *Provider) SignOut(ctx context.Context, uid string) error {
	if err := p.admin.RevokeRefreshTokens(ctx, uid); err != nil {
		return fmt.Errorf("failed to revoke refresh tokens for %s: %w", uid, err)
	}
	return nil
}

var credentialErrorCodes = []string{"INVALID_PASSWORD", "EMAIL_NOT_FOUND", "INVALID_LOGIN_CREDENTIALS", "INVALID_EMAIL", "USER_DISABLED"}

func isCredentialError(err error) bool {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return false
	}
	for _, code := range credentialErrorCodes {
		if strings.HasPrefix(gerr.Message, code) {
			return true
		}
	}
	return false
}
