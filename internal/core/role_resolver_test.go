package core

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sevengen/site-backend/internal/db"
	"github.com/sevengen/site-backend/internal/models"
)

func TestRoleResolver_ResolveRole(t *testing.T) {
	tests := []struct {
		name    string
		repo    *mockUserRepository
		want    models.Role
		wantErr error
	}{
		{
			name: "admin profile",
			repo: &mockUserRepository{GetByIDFunc: func(context.Context, string) (*models.UserProfile, error) {
				return &models.UserProfile{ID: "u", Role: models.RoleAdmin}, nil
			}},
			want: models.RoleAdmin,
		},
		{
			name: "customer profile",
			repo: &mockUserRepository{GetByIDFunc: func(context.Context, string) (*models.UserProfile, error) {
				return &models.UserProfile{ID: "u", Role: models.RoleCustomer}, nil
			}},
			want: models.RoleCustomer,
		},
		{
			name: "unrecognized stored role",
			repo: &mockUserRepository{GetByIDFunc: func(context.Context, string) (*models.UserProfile, error) {
				return &models.UserProfile{ID: "u", Role: "superuser"}, nil
			}},
			want: models.RoleUnknown,
		},
		{
			name: "missing profile",
			repo: &mockUserRepository{GetByIDFunc: func(context.Context, string) (*models.UserProfile, error) {
				return nil, fmt.Errorf("wrapped: %w", db.ErrNotFound)
			}},
			want:    models.RoleUnknown,
			wantErr: ErrProfileNotFound,
		},
		{
			name: "lookup error",
			repo: &mockUserRepository{GetByIDFunc: func(context.Context, string) (*models.UserProfile, error) {
				return nil, errors.New("permission denied by rules")
			}},
			want:    models.RoleUnknown,
			wantErr: ErrLookupFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolver := NewRoleResolver(tt.repo, nil, zap.NewNop())
			role, err := resolver.ResolveRole(context.Background(), "u")
			assert.Equal(t, tt.want, role)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRoleResolver_RequireAdminFailsClosed(t *testing.T) {
	metrics := &countingMetrics{}
	failing := &mockUserRepository{GetByIDFunc: func(context.Context, string) (*models.UserProfile, error) {
		return nil, errors.New("unavailable")
	}}
	resolver := NewRoleResolver(failing, metrics, zap.NewNop())

	err := resolver.RequireAdmin(context.Background(), adminPrincipal)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrPermissionDenied))
	assert.Equal(t, 1, metrics.denials)

	assert.True(t, errors.Is(resolver.RequireAdmin(context.Background(), nil), ErrNotAuthenticated))
}

func TestRoleResolver_ReadsProfileEveryCall(t *testing.T) {
	role := models.RoleAdmin
	calls := 0
	repo := &mockUserRepository{GetByIDFunc: func(context.Context, string) (*models.UserProfile, error) {
		calls++
		return &models.UserProfile{ID: "u", Role: role}, nil
	}}
	resolver := NewRoleResolver(repo, nil, zap.NewNop())
	caller := &models.Principal{UID: "u"}

	require.NoError(t, resolver.RequireAdmin(context.Background(), caller))
	role = models.RoleCustomer
	assert.True(t, errors.Is(resolver.RequireAdmin(context.Background(), caller), ErrPermissionDenied))
	assert.Equal(t, 2, calls)
}
