package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned when an update targets a document that does not exist
var ErrNotFound = errors.New("document not found")

// Condition is a single (field, operator, value) filter; conditions combine as
// a conjunction. Every backend supports at least the "==" operator.
type Condition struct {
	Field string
	Op    string
	Value interface{}
}

// Eq builds an equality condition
func Eq(field string, value interface{}) Condition {
	return Condition{Field: field, Op: "==", Value: value}
}

// Document is a raw record returned by the store
type Document struct {
	ID   string
	Data map[string]interface{}
}

// ListOptions controls ordering and result size of List
type ListOptions struct {
	OrderBy string
	Desc    bool
	Limit   int
}

// UnsubscribeFunc tears down a live subscription; it must be called to avoid
// leaking the underlying watch
type UnsubscribeFunc func()

// DocumentStore defines generic typed access to a remote, schemaless-per-collection
// document database
type DocumentStore interface {
	// Create writes data under a generated id and stamps creation/update time.
	Create(ctx context.Context, collection string, data map[string]interface{}) (string, error)

	// CreateWithID writes data under a caller-supplied id (used for identity-linked
	// records so the record id equals the user id).
	CreateWithID(ctx context.Context, collection, id string, data map[string]interface{}) error

	// Get returns the document, or (nil, nil) when it does not exist.
	Get(ctx context.Context, collection, id string) (*Document, error)

	// List returns documents matching all conditions, optionally ordered and limited.
	List(ctx context.Context, collection string, conditions []Condition, opts ListOptions) ([]Document, error)

	// Update merges fields into an existing document and re-stamps the update time.
	// Returns ErrNotFound if the document does not exist.
	Update(ctx context.Context, collection, id string, fields map[string]interface{}) error

	// Delete removes a document. Deleting a nonexistent id is not an error.
	Delete(ctx context.Context, collection, id string) error

	// Subscribe invokes fn with the full matching document set on every
	// add/update/remove, starting with the current set.
	Subscribe(ctx context.Context, collection string, conditions []Condition, fn func([]Document)) (UnsubscribeFunc, error)

	// SubscribeOne invokes fn on every change to a single document; fn receives
	// nil when the document is removed.
	SubscribeOne(ctx context.Context, collection, id string, fn func(*Document)) (UnsubscribeFunc, error)
}
