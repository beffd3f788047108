package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/sevengen/site-backend/internal/models"
	"github.com/sevengen/site-backend/pkg/database"
)

const usersCollection = "users"

// documentUserRepository implements UserRepository on a DocumentStore.
type documentUserRepository struct {
	store database.DocumentStore
}

// NewUserRepository creates a UserRepository backed by store.
func NewUserRepository(store database.DocumentStore) UserRepository {
	return &documentUserRepository{store: store}
}

// Create adds a new profile document keyed by the Firebase Auth UID.
// An existing profile is never overwritten.
func (r *documentUserRepository) Create(ctx context.Context, profile *models.UserProfile) error {
	if profile.ID == "" {
		return errors.New("user ID cannot be empty for Create operation")
	}
	data := map[string]interface{}{
		"uid":   profile.ID,
		"name":  profile.Name,
		"email": profile.Email,
		"role":  string(profile.Role),
	}
	if err := r.store.CreateWithID(ctx, usersCollection, profile.ID, data); err != nil {
		return fmt.Errorf("failed to create user with ID '%s': %w", profile.ID, err)
	}
	return nil
}

// GetByID retrieves a profile by its ID (Firebase Auth UID).
func (r *documentUserRepository) GetByID(ctx context.Context, userID string) (*models.UserProfile, error) {
	if userID == "" {
		return nil, errors.New("userID cannot be empty for GetByID operation")
	}
	doc, err := r.store.Get(ctx, usersCollection, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user with ID '%s': %w", userID, err)
	}
	return &models.UserProfile{
		ID:    doc.ID,
		Name:  stringField(doc.Data, "name"),
		Email: stringField(doc.Data, "email"),
		Role:  models.Role(stringField(doc.Data, "role")),
	}, nil
}
