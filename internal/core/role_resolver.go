package core

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/sevengen/site-backend/internal/db"
	"github.com/sevengen/site-backend/internal/models"
)

// roleResolver implements RoleResolver over the users collection.
type roleResolver struct {
	userRepo db.UserRepository
	metrics  MetricsRecorder
	logger   *zap.Logger
}

// NewRoleResolver creates a RoleResolver. The result is never cached: every call reads the profile.
func NewRoleResolver(userRepo db.UserRepository, metrics MetricsRecorder, logger *zap.Logger) RoleResolver {
	if metrics == nil {
		metrics = NoopMetrics
	}
	return &roleResolver{userRepo: userRepo, metrics: metrics, logger: logger}
}

// ResolveRole returns the stored role of principalID. A missing profile yields ErrProfileNotFound
// and any other lookup error yields ErrLookupFailed; in both cases the role is RoleUnknown.
// A stored value other than admin or customer is reported as RoleUnknown without error.
func (r *roleResolver) ResolveRole(ctx context.Context, principalID string) (models.Role, error) {
	if principalID == "" {
		return models.RoleUnknown, ErrNotAuthenticated
	}
	profile, err := r.userRepo.GetByID(ctx, principalID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return models.RoleUnknown, fmt.Errorf("%w: %s", ErrProfileNotFound, principalID)
		}
		return models.RoleUnknown, fmt.Errorf("%w for %s: %v", ErrLookupFailed, principalID, err)
	}
	switch profile.Role {
	case models.RoleAdmin, models.RoleCustomer:
		return profile.Role, nil
	}
	return models.RoleUnknown, nil
}

// RequireAdmin returns nil only when caller's profile carries the admin role.
func (r *roleResolver) RequireAdmin(ctx context.Context, caller *models.Principal) error {
	if caller == nil || caller.UID == "" {
		return ErrNotAuthenticated
	}
	role, err := r.ResolveRole(ctx, caller.UID)
	if err != nil {
		r.metrics.RoleDenied()
		r.logger.Warn("Role lookup denied admin access", zap.String("userID", caller.UID), zap.Error(err))
		return fmt.Errorf("%w: %v", ErrPermissionDenied, err)
	}
	if role != models.RoleAdmin {
		r.metrics.RoleDenied()
		return fmt.Errorf("%w: user '%s' has role '%s'", ErrPermissionDenied, caller.UID, role)
	}
	return nil
}
