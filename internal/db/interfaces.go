package db

import (
	"context"

	"github.com/sevengen/site-backend/internal/models"
)

// UserRepository defines the interface for user profile storage operations.
type UserRepository interface {
	GetByID(ctx context.Context, userID string) (*models.UserProfile, error)
	Create(ctx context.Context, profile *models.UserProfile) error
}

// QuoteRepository defines the interface for quote request storage operations.
type QuoteRepository interface {
	// Create persists a new quote request and returns its ID. CreatedAt is assigned by the store.
	Create(ctx context.Context, quote *models.QuoteRequest) (string, error)
	GetByID(ctx context.Context, quoteID string) (*models.QuoteRequest, error)
	// ListByCreatedDesc returns all quote requests, most recent first.
	ListByCreatedDesc(ctx context.Context) ([]*models.QuoteRequest, error)
	Update(ctx context.Context, quoteID string, fields map[string]interface{}) error
	Delete(ctx context.Context, quoteID string) error
}

// ContentRepository defines the interface for the homepage content singleton.
type ContentRepository interface {
	// Get returns the stored content, or an error wrapping ErrNotFound if none was saved yet.
	Get(ctx context.Context) (*models.HomepageContent, error)
	// Merge overwrites the given top-level fields, leaving the others untouched.
	Merge(ctx context.Context, fields map[string]interface{}) error
	// CreateIfAbsent stores content only when no document exists yet and reports whether it did.
	CreateIfAbsent(ctx context.Context, content models.HomepageContent) (bool, error)
}

// AuditRepository defines the interface for audit log data storage operations.
type AuditRepository interface {
	Create(ctx context.Context, logEntry models.AuditLog) error
}
