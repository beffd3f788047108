package database

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-process DocumentStore with the same merge, not-found and server
// timestamp behaviour as FirestoreStore. Values are deep-copied on the way in and out.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]map[string]interface{}
	now         func() time.Time
}

// NewMemoryStore creates an empty MemoryStore using the wall clock for server timestamps.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		collections: make(map[string]map[string]map[string]interface{}),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the clock used for server timestamps.
func (s *MemoryStore) WithClock(now func() time.Time) *MemoryStore {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
	return s
}

func (s *MemoryStore) Get(ctx context.Context, collection string, docID string) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.collections[collection][docID]
	if !ok {
		return nil, fmt.Errorf("get %s/%s: %w", collection, docID, ErrNotFound)
	}
	return &Document{ID: docID, Data: copyMap(doc)}, nil
}

func (s *MemoryStore) Query(ctx context.Context, collection string, q Query) ([]*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var docs []*Document
	for id, data := range s.collections[collection] {
		if !matches(data, q.Filters) {
			continue
		}
		docs = append(docs, &Document{ID: id, Data: copyMap(data)})
	}

	if q.OrderBy != "" {
		sort.SliceStable(docs, func(i, j int) bool {
			a, b := docs[i].Data[q.OrderBy], docs[j].Data[q.OrderBy]
			if q.Direction == Desc {
				return lessValue(b, a)
			}
			return lessValue(a, b)
		})
	}
	if q.Limit > 0 && len(docs) > q.Limit {
		docs = docs[:q.Limit]
	}
	return docs, nil
}

func (s *MemoryStore) Create(ctx context.Context, collection string, data map[string]interface{}) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	s.collection(collection)[id] = s.resolve(data)
	return id, nil
}

func (s *MemoryStore) CreateWithID(ctx context.Context, collection string, docID string, data map[string]interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if docID == "" {
		return fmt.Errorf("create %s: document id cannot be empty", collection)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	coll := s.collection(collection)
	if _, ok := coll[docID]; ok {
		return fmt.Errorf("create %s/%s: %w", collection, docID, ErrAlreadyExists)
	}
	coll[docID] = s.resolve(data)
	return nil
}

func (s *MemoryStore) Update(ctx context.Context, collection string, docID string, data map[string]interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.collections[collection][docID]
	if !ok {
		return fmt.Errorf("update %s/%s: %w", collection, docID, ErrNotFound)
	}
	for k, v := range s.resolve(data) {
		doc[k] = v
	}
	return nil
}

func (s *MemoryStore) Set(ctx context.Context, collection string, docID string, data map[string]interface{}, merge bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	coll := s.collection(collection)
	existing, ok := coll[docID]
	if !merge || !ok {
		coll[docID] = s.resolve(data)
		return nil
	}
	for k, v := range s.resolve(data) {
		existing[k] = v
	}
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, collection string, docID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.collections[collection][docID]; !ok {
		return fmt.Errorf("delete %s/%s: %w", collection, docID, ErrNotFound)
	}
	delete(s.collections[collection], docID)
	return nil
}

func (s *MemoryStore) Close() error { return nil }

// collection must be called with the write lock held.
func (s *MemoryStore) collection(name string) map[string]map[string]interface{} {
	coll, ok := s.collections[name]
	if !ok {
		coll = make(map[string]map[string]interface{})
		s.collections[name] = coll
	}
	return coll
}

func (s *MemoryStore) resolve(data map[string]interface{}) map[string]interface{} {
	out := copyMap(data)
	for k, v := range out {
		if _, ok := v.(serverTimestamp); ok {
			out[k] = s.now()
		}
	}
	return out
}

func matches(data map[string]interface{}, filters []Filter) bool {
	for _, f := range filters {
		if f.Op != "==" {
			return false
		}
		if data[f.Field] != f.Value {
			return false
		}
	}
	return true
}

func lessValue(a, b interface{}) bool {
	switch av := a.(type) {
	case time.Time:
		bv, ok := b.(time.Time)
		return ok && av.Before(bv)
	case string:
		bv, ok := b.(string)
		return ok && av < bv
	case int64:
		bv, ok := b.(int64)
		return ok && av < bv
	case float64:
		bv, ok := b.(float64)
		return ok && av < bv
	case nil:
		return b != nil
	}
	return false
}

func copyMap(in map[string]interface{}) map[string]interface{} {
	if in == nil {
		return nil
	}
	out := make(map[string]interface{}, len(in))
	for k, v := range in {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v interface{}) interface{} {
	switch tv := v.(type) {
	case map[string]interface{}:
		return copyMap(tv)
	case []interface{}:
		out := make([]interface{}, len(tv))
		for i, item := range tv {
			out[i] = copyValue(item)
		}
		return out
	default:
		return v
	}
}
