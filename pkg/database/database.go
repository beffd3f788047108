package database

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when a document does not exist.
	ErrNotFound = errors.New("document not found")
	// ErrAlreadyExists is returned by CreateWithID when the document ID is taken.
	ErrAlreadyExists = errors.New("document already exists")
)

type serverTimestamp struct{}

// ServerTimestamp is a sentinel value. When it appears as a top-level field value in a write,
// the store replaces it with its own clock at commit time.
var ServerTimestamp = serverTimestamp{}

// Direction is the sort direction of a query.
type Direction int

const (
	Asc Direction = iota
	Desc
)

// Filter restricts a query to documents where Field Op Value holds. Only "==" is supported.
type Filter struct {
	Field string
	Op    string
	Value interface{}
}

// Query describes a collection query.
type Query struct {
	Filters   []Filter
	OrderBy   string
	Direction Direction
	Limit     int
}

// Document is a document snapshot: its ID and its fields.
type Document struct {
	ID   string
	Data map[string]interface{}
}

// DocumentStore defines the document database operations used by the repositories.
type DocumentStore interface {
	Get(ctx context.Context, collection string, docID string) (*Document, error)
	Query(ctx context.Context, collection string, q Query) ([]*Document, error)
	// Create adds a document with a store-generated ID and returns that ID.
	Create(ctx context.Context, collection string, data map[string]interface{}) (string, error)
	// CreateWithID adds a document under a caller-chosen ID. ErrAlreadyExists if it is taken.
	CreateWithID(ctx context.Context, collection string, docID string, data map[string]interface{}) error
	// Update changes the given fields of an existing document. ErrNotFound if it is absent.
	Update(ctx context.Context, collection string, docID string, data map[string]interface{}) error
	// Set writes a document. With merge, only the top-level keys in data are overwritten.
	Set(ctx context.Context, collection string, docID string, data map[string]interface{}, merge bool) error
	// Delete removes an existing document. ErrNotFound if it is absent.
	Delete(ctx context.Context, collection string, docID string) error
	Close() error
}
