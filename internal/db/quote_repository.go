package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/sevengen/site-backend/internal/models"
	"github.com/sevengen/site-backend/pkg/database"
)

const quoteRequestsCollection = "quoteRequests"

// documentQuoteRepository implements QuoteRepository on a DocumentStore.
type documentQuoteRepository struct {
	store database.DocumentStore
}

// NewQuoteRepository creates a QuoteRepository backed by store.
func NewQuoteRepository(store database.DocumentStore) QuoteRepository {
	return &documentQuoteRepository{store: store}
}

// Create persists a quote request. createdAt is always the store's server timestamp and
// isRegisteredUser is derived from the presence of userId.
func (r *documentQuoteRepository) Create(ctx context.Context, quote *models.QuoteRequest) (string, error) {
	data := map[string]interface{}{
		"name":             quote.Name,
		"status":           string(quote.Status),
		"createdAt":        database.ServerTimestamp,
		"isRegisteredUser": quote.UserID != "",
	}
	setIfNotEmpty(data, "email", quote.Email)
	setIfNotEmpty(data, "phone", quote.Phone)
	setIfNotEmpty(data, "company", quote.Company)
	setIfNotEmpty(data, "service", quote.Service)
	setIfNotEmpty(data, "message", quote.Message)
	setIfNotEmpty(data, "userId", quote.UserID)

	id, err := r.store.Create(ctx, quoteRequestsCollection, data)
	if err != nil {
		return "", fmt.Errorf("failed to create quote request: %w", err)
	}
	return id, nil
}

// GetByID retrieves a quote request by its document ID.
func (r *documentQuoteRepository) GetByID(ctx context.Context, quoteID string) (*models.QuoteRequest, error) {
	if quoteID == "" {
		return nil, fmt.Errorf("quoteID cannot be empty for GetByID operation: %w", ErrNotFound)
	}
	doc, err := r.store.Get(ctx, quoteRequestsCollection, quoteID)
	if err != nil {
		return nil, fmt.Errorf("failed to get quote request '%s': %w", quoteID, err)
	}
	return quoteFromDocument(doc), nil
}

// ListByCreatedDesc returns every quote request ordered by createdAt, most recent first.
func (r *documentQuoteRepository) ListByCreatedDesc(ctx context.Context) ([]*models.QuoteRequest, error) {
	docs, err := r.store.Query(ctx, quoteRequestsCollection, database.Query{
		OrderBy:   "createdAt",
		Direction: database.Desc,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list quote requests: %w", err)
	}
	quotes := make([]*models.QuoteRequest, 0, len(docs))
	for _, doc := range docs {
		quotes = append(quotes, quoteFromDocument(doc))
	}
	return quotes, nil
}

// Update changes the given fields of an existing quote request.
func (r *documentQuoteRepository) Update(ctx context.Context, quoteID string, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return errors.New("no fields to update")
	}
	if err := r.store.Update(ctx, quoteRequestsCollection, quoteID, fields); err != nil {
		return fmt.Errorf("failed to update quote request '%s': %w", quoteID, err)
	}
	return nil
}

// Delete removes a quote request. There is no soft delete.
func (r *documentQuoteRepository) Delete(ctx context.Context, quoteID string) error {
	if err := r.store.Delete(ctx, quoteRequestsCollection, quoteID); err != nil {
		return fmt.Errorf("failed to delete quote request '%s': %w", quoteID, err)
	}
	return nil
}

func quoteFromDocument(doc *database.Document) *models.QuoteRequest {
	userID := stringField(doc.Data, "userId")
	return &models.QuoteRequest{
		ID:               doc.ID,
		Name:             stringField(doc.Data, "name"),
		Email:            stringField(doc.Data, "email"),
		Phone:            stringField(doc.Data, "phone"),
		Company:          stringField(doc.Data, "company"),
		Service:          stringField(doc.Data, "service"),
		Message:          stringField(doc.Data, "message"),
		Status:           models.QuoteStatus(stringField(doc.Data, "status")),
		CreatedAt:        timeField(doc.Data, "createdAt"),
		UserID:           userID,
		IsRegisteredUser: boolField(doc.Data, "isRegisteredUser") || userID != "",
	}
}
