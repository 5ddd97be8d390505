package store

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreStore implements DocumentStore on Cloud Firestore
type FirestoreStore struct {
	client *firestore.Client
}

// NewFirestoreStore creates a new FirestoreStore
func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{client: client}
}

// withServerTimestamps copies data and adds server-side creation/update stamps
func withServerTimestamps(data map[string]interface{}) map[string]interface{} {
	stamped := make(map[string]interface{}, len(data)+2)
	for k, v := range data {
		stamped[k] = v
	}
	stamped["createdAt"] = firestore.ServerTimestamp
	stamped["updatedAt"] = firestore.ServerTimestamp
	return stamped
}

// Create writes a new document under a generated id
func (s *FirestoreStore) Create(ctx context.Context, collection string, data map[string]interface{}) (string, error) {
	ref := s.client.Collection(collection).NewDoc()
	if _, err := ref.Set(ctx, withServerTimestamps(data)); err != nil {
		return "", fmt.Errorf("failed to create document in %s: %w", collection, err)
	}
	return ref.ID, nil
}

// CreateWithID writes a new document under the supplied id
func (s *FirestoreStore) CreateWithID(ctx context.Context, collection, id string, data map[string]interface{}) error {
	if _, err := s.client.Collection(collection).Doc(id).Set(ctx, withServerTimestamps(data)); err != nil {
		return fmt.Errorf("failed to create document %s/%s: %w", collection, id, err)
	}
	return nil
}

// Get retrieves a document, returning (nil, nil) when absent
func (s *FirestoreStore) Get(ctx context.Context, collection, id string) (*Document, error) {
	snap, err := s.client.Collection(collection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get document %s/%s: %w", collection, id, err)
	}
	return &Document{ID: snap.Ref.ID, Data: snap.Data()}, nil
}

func (s *FirestoreStore) buildQuery(collection string, conditions []Condition, opts ListOptions) firestore.Query {
	q := s.client.Collection(collection).Query
	for _, cond := range conditions {
		q = q.Where(cond.Field, cond.Op, cond.Value)
	}
	if opts.OrderBy != "" {
		dir := firestore.Asc
		if opts.Desc {
			dir = firestore.Desc
		}
		q = q.OrderBy(opts.OrderBy, dir)
	}
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	return q
}

// List retrieves documents matching the conjunction of conditions
func (s *FirestoreStore) List(ctx context.Context, collection string, conditions []Condition, opts ListOptions) ([]Document, error) {
	iter := s.buildQuery(collection, conditions, opts).Documents(ctx)
	defer iter.Stop()

	var docs []Document
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list documents in %s: %w", collection, err)
		}
		docs = append(docs, Document{ID: snap.Ref.ID, Data: snap.Data()})
	}
	return docs, nil
}

// Update merges fields into an existing document
func (s *FirestoreStore) Update(ctx context.Context, collection, id string, fields map[string]interface{}) error {
	updates := make([]firestore.Update, 0, len(fields)+1)
	for k, v := range fields {
		updates = append(updates, firestore.Update{Path: k, Value: v})
	}
	updates = append(updates, firestore.Update{Path: "updatedAt", Value: firestore.ServerTimestamp})

	if _, err := s.client.Collection(collection).Doc(id).Update(ctx, updates); err != nil {
		if status.Code(err) == codes.NotFound {
			return ErrNotFound
		}
		return fmt.Errorf("failed to update document %s/%s: %w", collection, id, err)
	}
	return nil
}

// Delete removes a document; deleting a nonexistent id succeeds
func (s *FirestoreStore) Delete(ctx context.Context, collection, id string) error {
	if _, err := s.client.Collection(collection).Doc(id).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete document %s/%s: %w", collection, id, err)
	}
	return nil
}

// Subscribe streams the matching document set on every change
func (s *FirestoreStore) Subscribe(ctx context.Context, collection string, conditions []Condition, fn func([]Document)) (UnsubscribeFunc, error) {
	watchCtx, cancel := context.WithCancel(ctx)
	snapIter := s.buildQuery(collection, conditions, ListOptions{}).Snapshots(watchCtx)

	go func() {
		for {
			snap, err := snapIter.Next()
			if err != nil {
				return
			}
			var docs []Document
			docIter := snap.Documents
			for {
				d, err := docIter.Next()
				if err == iterator.Done {
					break
				}
				if err != nil {
					return
				}
				docs = append(docs, Document{ID: d.Ref.ID, Data: d.Data()})
			}
			fn(docs)
		}
	}()

	return func() {
		snapIter.Stop()
		cancel()
	}, nil
}

// SubscribeOne streams changes to a single document
func (s *FirestoreStore) SubscribeOne(ctx context.Context, collection, id string, fn func(*Document)) (UnsubscribeFunc, error) {
	watchCtx, cancel := context.WithCancel(ctx)
	snapIter := s.client.Collection(collection).Doc(id).Snapshots(watchCtx)

	go func() {
		for {
			snap, err := snapIter.Next()
			if err != nil {
				return
			}
			if !snap.Exists() {
				fn(nil)
				continue
			}
			fn(&Document{ID: snap.Ref.ID, Data: snap.Data()})
		}
	}()

	return func() {
		snapIter.Stop()
		cancel()
	}, nil
}
