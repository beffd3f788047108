package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/sevengen/site-backend/internal/db"
	"github.com/sevengen/site-backend/internal/models"
)

const usersCollection = "users"

// accountService implements the AccountService interface.
type accountService struct {
	auth      AuthProvider
	userRepo  db.UserRepository
	roles     RoleResolver
	validator *Validator
	logger    *zap.Logger
}

// NewAccountService creates a new AccountService instance.
func NewAccountService(auth AuthProvider, userRepo db.UserRepository, roles RoleResolver, validator *Validator, logger *zap.Logger) AccountService {
	return &accountService{
		auth:      auth,
		userRepo:  userRepo,
		roles:     roles,
		validator: validator,
		logger:    logger,
	}
}

// SignUp creates an auth account and its customer profile. Sign-up never grants admin.
func (s *accountService) SignUp(ctx context.Context, req models.SignUpRequest) (*models.UserProfile, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if err := s.validator.ValidateSignUp(req); err != nil {
		return nil, err
	}

	principal, err := s.auth.CreateAccount(ctx, req.Email, req.Password, req.Name)
	if err != nil {
		return nil, err
	}

	profile := &models.UserProfile{
		ID:    principal.UID,
		Name:  req.Name,
		Email: req.Email,
		Role:  models.RoleCustomer,
	}
	if err := s.userRepo.Create(ctx, profile); err != nil {
		s.logger.Error("Account created but profile write failed",
			zap.String("collection", usersCollection),
			zap.String("operation", "create"),
			zap.String("documentId", principal.UID),
			zap.Error(err))
		return nil, &PersistenceError{Operation: "create", Collection: usersCollection, Err: err}
	}
	s.logger.Info("Customer account created", zap.String("userID", principal.UID))
	return profile, nil
}

// SignIn exchanges e-mail and password for a session. The session role is informational;
// authorization always resolves the role again.
func (s *accountService) SignIn(ctx context.Context, req models.SignInRequest) (*models.Session, error) {
	session, err := s.auth.SignIn(ctx, strings.TrimSpace(req.Email), req.Password)
	if err != nil {
		return nil, err
	}
	role, err := s.roles.ResolveRole(ctx, session.Principal.UID)
	if err != nil {
		s.logger.Debug("Role not resolved at sign-in", zap.String("userID", session.Principal.UID), zap.Error(err))
	}
	session.Role = role
	return session, nil
}

// AdminSignIn signs in and requires the admin role. A non-admin is signed out again and
// rejected with ErrPermissionDenied.
func (s *accountService) AdminSignIn(ctx context.Context, req models.SignInRequest) (*models.Session, error) {
	session, err := s.auth.SignIn(ctx, strings.TrimSpace(req.Email), req.Password)
	if err != nil {
		return nil, err
	}
	if err := s.roles.RequireAdmin(ctx, &session.Principal); err != nil {
		if signOutErr := s.auth.SignOut(ctx, session.Principal.UID); signOutErr != nil {
			s.logger.Warn("Failed to sign out rejected admin login", zap.String("userID", session.Principal.UID), zap.Error(signOutErr))
		}
		return nil, err
	}
	session.Role = models.RoleAdmin
	return session, nil
}

// SignOut revokes the caller's refresh tokens.
func (s *accountService) SignOut(ctx context.Context, caller *models.Principal) error {
	if caller == nil || caller.UID == "" {
		return ErrNotAuthenticated
	}
	return s.auth.SignOut(ctx, caller.UID)
}

// InitializeProfile returns the caller's profile, creating a customer profile when none exists.
// The boolean reports whether it was created. An existing profile is never modified.
func (s *accountService) InitializeProfile(ctx context.Context, caller *models.Principal) (*models.UserProfile, bool, error) {
	if caller == nil || caller.UID == "" {
		return nil, false, ErrNotAuthenticated
	}

	profile, err := s.userRepo.GetByID(ctx, caller.UID)
	if err == nil {
		return profile, false, nil
	}
	if !errors.Is(err, db.ErrNotFound) {
		return nil, false, &PersistenceError{Operation: "get", Collection: usersCollection, Err: err}
	}

	profile = &models.UserProfile{
		ID:    caller.UID,
		Name:  caller.DisplayName,
		Email: caller.Email,
		Role:  models.RoleCustomer,
	}
	if err := s.userRepo.Create(ctx, profile); err != nil {
		if errors.Is(err, db.ErrAlreadyExists) {
			// Created concurrently; return what is stored.
			existing, getErr := s.userRepo.GetByID(ctx, caller.UID)
			if getErr != nil {
				return nil, false, &PersistenceError{Operation: "get", Collection: usersCollection, Err: getErr}
			}
			return existing, false, nil
		}
		return nil, false, &PersistenceError{Operation: "create", Collection: usersCollection, Err: fmt.Errorf("user %s: %w", caller.UID, err)}
	}
	return profile, true, nil
}

// Profile returns the caller's stored profile.
func (s *accountService) Profile(ctx context.Context, caller *models.Principal) (*models.UserProfile, error) {
	if caller == nil || caller.UID == "" {
		return nil, ErrNotAuthenticated
	}
	profile, err := s.userRepo.GetByID(ctx, caller.UID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrProfileNotFound, caller.UID)
		}
		return nil, &PersistenceError{Operation: "get", Collection: usersCollection, Err: err}
	}
	return profile, nil
}
