package mock

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mindcanvas/backend/internal/store"
)

// DocumentStore is an in-memory store.DocumentStore for tests. Errors can be
// injected per operation.
type DocumentStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]map[string]interface{}
	subscribers map[string][]func([]store.Document)
	clock       time.Time

	CreateErr error
	GetErr    error
	ListErr   error
	UpdateErr error
	DeleteErr error
}

// NewDocumentStore creates an empty in-memory document store
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		collections: map[string]map[string]map[string]interface{}{},
		subscribers: map[string][]func([]store.Document){},
		clock:       time.Now(),
	}
}

// tick returns strictly increasing timestamps so creation order is observable
func (s *DocumentStore) tick() time.Time {
	s.clock = s.clock.Add(time.Millisecond)
	return s.clock
}

func (s *DocumentStore) collection(name string) map[string]map[string]interface{} {
	col, ok := s.collections[name]
	if !ok {
		col = map[string]map[string]interface{}{}
		s.collections[name] = col
	}
	return col
}

func copyData(data map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(data))
	for k, v := range data {
		out[k] = v
	}
	return out
}

// Create writes data under a generated id
func (s *DocumentStore) Create(_ context.Context, collection string, data map[string]interface{}) (string, error) {
	if s.CreateErr != nil {
		return "", s.CreateErr
	}
	s.mu.Lock()
	id := uuid.NewString()
	record := copyData(data)
	now := s.tick()
	record["createdAt"] = now
	record["updatedAt"] = now
	s.collection(collection)[id] = record
	s.mu.Unlock()
	s.notify(collection)
	return id, nil
}

// CreateWithID writes data under the supplied id
func (s *DocumentStore) CreateWithID(_ context.Context, collection, id string, data map[string]interface{}) error {
	if s.CreateErr != nil {
		return s.CreateErr
	}
	s.mu.Lock()
	record := copyData(data)
	now := s.tick()
	record["createdAt"] = now
	record["updatedAt"] = now
	s.collection(collection)[id] = record
	s.mu.Unlock()
	s.notify(collection)
	return nil
}

// Get returns the document, or (nil, nil) when absent
func (s *DocumentStore) Get(_ context.Context, collection, id string) (*store.Document, error) {
	if s.GetErr != nil {
		return nil, s.GetErr
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.collection(collection)[id]
	if !ok {
		return nil, nil
	}
	return &store.Document{ID: id, Data: copyData(record)}, nil
}

// List returns documents matching all equality conditions
func (s *DocumentStore) List(_ context.Context, collection string, conditions []store.Condition, opts store.ListOptions) ([]store.Document, error) {
	if s.ListErr != nil {
		return nil, s.ListErr
	}
	s.mu.RLock()
	docs := s.match(collection, conditions)
	s.mu.RUnlock()

	if opts.OrderBy != "" {
		sortDocuments(docs, opts.OrderBy, opts.Desc)
	}
	if opts.Limit > 0 && len(docs) > opts.Limit {
		docs = docs[:opts.Limit]
	}
	return docs, nil
}

func (s *DocumentStore) match(collection string, conditions []store.Condition) []store.Document {
	var docs []store.Document
	for id, record := range s.collection(collection) {
		matches := true
		for _, cond := range conditions {
			if record[cond.Field] != cond.Value {
				matches = false
				break
			}
		}
		if matches {
			docs = append(docs, store.Document{ID: id, Data: copyData(record)})
		}
	}
	return docs
}

func sortDocuments(docs []store.Document, field string, desc bool) {
	less := func(i, j int) bool {
		a, aok := docs[i].Data[field].(time.Time)
		b, bok := docs[j].Data[field].(time.Time)
		if aok && bok {
			return a.Before(b)
		}
		as, _ := docs[i].Data[field].(string)
		bs, _ := docs[j].Data[field].(string)
		return as < bs
	}
	for i := 0; i < len(docs); i++ {
		for j := i + 1; j < len(docs); j++ {
			swap := less(j, i)
			if desc {
				swap = less(i, j)
			}
			if swap {
				docs[i], docs[j] = docs[j], docs[i]
			}
		}
	}
}

// Update merges fields into an existing document
func (s *DocumentStore) Update(_ context.Context, collection, id string, fields map[string]interface{}) error {
	if s.UpdateErr != nil {
		return s.UpdateErr
	}
	s.mu.Lock()
	record, ok := s.collection(collection)[id]
	if !ok {
		s.mu.Unlock()
		return store.ErrNotFound
	}
	for k, v := range fields {
		record[k] = v
	}
	record["updatedAt"] = s.tick()
	s.mu.Unlock()
	s.notify(collection)
	return nil
}

// Delete removes a document; deleting a nonexistent id succeeds
func (s *DocumentStore) Delete(_ context.Context, collection, id string) error {
	if s.DeleteErr != nil {
		return s.DeleteErr
	}
	s.mu.Lock()
	delete(s.collection(collection), id)
	s.mu.Unlock()
	s.notify(collection)
	return nil
}

// Subscribe registers fn for collection changes and delivers the current set
func (s *DocumentStore) Subscribe(_ context.Context, collection string, conditions []store.Condition, fn func([]store.Document)) (store.UnsubscribeFunc, error) {
	wrapped := func(_ []store.Document) {
		s.mu.RLock()
		docs := s.match(collection, conditions)
		s.mu.RUnlock()
		fn(docs)
	}
	s.mu.Lock()
	s.subscribers[collection] = append(s.subscribers[collection], wrapped)
	s.mu.Unlock()
	wrapped(nil)
	return func() {}, nil
}

// SubscribeOne registers fn for changes to a single document
func (s *DocumentStore) SubscribeOne(ctx context.Context, collection, id string, fn func(*store.Document)) (store.UnsubscribeFunc, error) {
	wrapped := func(_ []store.Document) {
		doc, _ := s.Get(ctx, collection, id)
		fn(doc)
	}
	s.mu.Lock()
	s.subscribers[collection] = append(s.subscribers[collection], wrapped)
	s.mu.Unlock()
	wrapped(nil)
	return func() {}, nil
}

func (s *DocumentStore) notify(collection string) {
	s.mu.RLock()
	subs := append([]func([]store.Document){}, s.subscribers[collection]...)
	s.mu.RUnlock()
	for _, fn := range subs {
		fn(nil)
	}
}

// Count returns the number of documents in a collection
func (s *DocumentStore) Count(collection string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.collection(collection))
}
