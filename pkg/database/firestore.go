package database

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreStore implements DocumentStore on a Firestore client.
type FirestoreStore struct {
	client *firestore.Client
}

// NewFirestoreStore wraps an initialized Firestore client.
func NewFirestoreStore(client *firestore.Client) (*FirestoreStore, error) {
	if client == nil {
		return nil, errors.New("firestore client is nil")
	}
	return &FirestoreStore{client: client}, nil
}

// Get retrieves a document from a Firestore collection.
func (s *FirestoreStore) Get(ctx context.Context, collection string, docID string) (*Document, error) {
	if docID == "" {
		return nil, fmt.Errorf("get %s: empty document id: %w", collection, ErrNotFound)
	}
	snap, err := s.client.Collection(collection).Doc(docID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("get %s/%s: %w", collection, docID, ErrNotFound)
		}
		return nil, fmt.Errorf("get %s/%s: %w", collection, docID, err)
	}
	return &Document{ID: snap.Ref.ID, Data: snap.Data()}, nil
}

// Query runs an equality-filtered, optionally ordered query against a collection.
func (s *FirestoreStore) Query(ctx context.Context, collection string, q Query) ([]*Document, error) {
	query := s.client.Collection(collection).Query
	for _, f := range q.Filters {
		query = query.Where(f.Field, f.Op, f.Value)
	}
	if q.OrderBy != "" {
		dir := firestore.Asc
		if q.Direction == Desc {
			dir = firestore.Desc
		}
		query = query.OrderBy(q.OrderBy, dir)
	}
	if q.Limit > 0 {
		query = query.Limit(q.Limit)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	var docs []*Document
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("query %s: %w", collection, err)
		}
		docs = append(docs, &Document{ID: snap.Ref.ID, Data: snap.Data()})
	}
	return docs, nil
}

// Create adds a document with an auto-generated ID.
func (s *FirestoreStore) Create(ctx context.Context, collection string, data map[string]interface{}) (string, error) {
	ref := s.client.Collection(collection).NewDoc()
	if _, err := ref.Create(ctx, withServerTimestamps(data)); err != nil {
		return "", fmt.Errorf("create %s: %w", collection, err)
	}
	return ref.ID, nil
}

// CreateWithID adds a document under docID, failing if one already exists.
func (s *FirestoreStore) CreateWithID(ctx context.Context, collection string, docID string, data map[string]interface{}) error {
	if docID == "" {
		return fmt.Errorf("create %s: document id cannot be empty", collection)
	}
	_, err := s.client.Collection(collection).Doc(docID).Create(ctx, withServerTimestamps(data))
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return fmt.Errorf("create %s/%s: %w", collection, docID, ErrAlreadyExists)
		}
		return fmt.Errorf("create %s/%s: %w", collection, docID, err)
	}
	return nil
}

// Update modifies fields of an existing document. Firestore rejects the update when the
// document does not exist.
func (s *FirestoreStore) Update(ctx context.Context, collection string, docID string, data map[string]interface{}) error {
	if docID == "" {
		return fmt.Errorf("update %s: empty document id: %w", collection, ErrNotFound)
	}
	updates := make([]firestore.Update, 0, len(data))
	for field, value := range withServerTimestamps(data) {
		updates = append(updates, firestore.Update{Path: field, Value: value})
	}
	if _, err := s.client.Collection(collection).Doc(docID).Update(ctx, updates); err != nil {
		if status.Code(err) == codes.NotFound {
			return fmt.Errorf("update %s/%s: %w", collection, docID, ErrNotFound)
		}
		return fmt.Errorf("update %s/%s: %w", collection, docID, err)
	}
	return nil
}

// Set writes a document, merging top-level fields when merge is true.
func (s *FirestoreStore) Set(ctx context.Context, collection string, docID string, data map[string]interface{}, merge bool) error {
	ref := s.client.Collection(collection).Doc(docID)
	var err error
	if merge {
		_, err = ref.Set(ctx, withServerTimestamps(data), firestore.MergeAll)
	} else {
		_, err = ref.Set(ctx, withServerTimestamps(data))
	}
	if err != nil {
		return fmt.Errorf("set %s/%s: %w", collection, docID, err)
	}
	return nil
}

// Delete removes a document, failing with ErrNotFound if it does not exist.
func (s *FirestoreStore) Delete(ctx context.Context, collection string, docID string) error {
	if docID == "" {
		return fmt.Errorf("delete %s: empty document id: %w", collection, ErrNotFound)
	}
	_, err := s.client.Collection(collection).Doc(docID).Delete(ctx, firestore.Exists)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return fmt.Errorf("delete %s/%s: %w", collection, docID, ErrNotFound)
		}
		return fmt.Errorf("delete %s/%s: %w", collection, docID, err)
	}
	return nil
}

// Close closes the Firestore client.
func (s *FirestoreStore) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}

func withServerTimestamps(data map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(data))
	for k, v := range data {
		if _, ok := v.(serverTimestamp); ok {
			out[k] = firestore.ServerTimestamp
			continue
		}
		out[k] = v
	}
	return out
}
