package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore implements DocumentStore on MongoDB. Unlike the Firestore backend
// it stamps creation/update times client-side and supports only the equality
// operator in conditions.
type MongoStore struct {
	db *mongo.Database
}

// NewMongoStore creates a new MongoStore
func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{db: db}
}

func mongoFilter(conditions []Condition) (bson.M, error) {
	filter := bson.M{}
	for _, cond := range conditions {
		if cond.Op != "==" {
			return nil, fmt.Errorf("unsupported condition operator %q", cond.Op)
		}
		filter[cond.Field] = cond.Value
	}
	return filter, nil
}

// normalizeValue converts BSON-specific types back to the generic document shape
func normalizeValue(v interface{}) interface{} {
	switch val := v.(type) {
	case primitive.DateTime:
		return val.Time()
	case primitive.A:
		out := make([]interface{}, 0, len(val))
		for _, item := range val {
			out = append(out, normalizeValue(item))
		}
		return out
	case bson.M:
		return normalizeMap(val)
	default:
		return v
	}
}

func normalizeMap(m map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = normalizeValue(v)
	}
	return out
}

func documentFromBSON(raw bson.M) Document {
	doc := Document{Data: make(map[string]interface{}, len(raw))}
	for k, v := range raw {
		if k == "_id" {
			if id, ok := v.(string); ok {
				doc.ID = id
			} else {
				doc.ID = fmt.Sprintf("%v", v)
			}
			continue
		}
		doc.Data[k] = normalizeValue(v)
	}
	return doc
}

// Create writes a new document under a generated hex id
func (s *MongoStore) Create(ctx context.Context, collection string, data map[string]interface{}) (string, error) {
	id := primitive.NewObjectID().Hex()
	if err := s.insert(ctx, collection, id, data); err != nil {
		return "", err
	}
	return id, nil
}

// CreateWithID writes a new document under the supplied id
func (s *MongoStore) CreateWithID(ctx context.Context, collection, id string, data map[string]interface{}) error {
	return s.insert(ctx, collection, id, data)
}

func (s *MongoStore) insert(ctx context.Context, collection, id string, data map[string]interface{}) error {
	now := time.Now().UTC()
	doc := bson.M{"_id": id, "createdAt": now, "updatedAt": now}
	for k, v := range data {
		doc[k] = v
	}
	if _, err := s.db.Collection(collection).InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to create document in %s: %w", collection, err)
	}
	return nil
}

// Get retrieves a document, returning (nil, nil) when absent
func (s *MongoStore) Get(ctx context.Context, collection, id string) (*Document, error) {
	var raw bson.M
	err := s.db.Collection(collection).FindOne(ctx, bson.M{"_id": id}).Decode(&raw)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get document %s/%s: %w", collection, id, err)
	}
	doc := documentFromBSON(raw)
	return &doc, nil
}

// List retrieves documents matching the conjunction of conditions
func (s *MongoStore) List(ctx context.Context, collection string, conditions []Condition, opts ListOptions) ([]Document, error) {
	filter, err := mongoFilter(conditions)
	if err != nil {
		return nil, err
	}

	findOpts := options.Find()
	if opts.OrderBy != "" {
		dir := 1
		if opts.Desc {
			dir = -1
		}
		findOpts.SetSort(bson.D{{Key: opts.OrderBy, Value: dir}})
	}
	if opts.Limit > 0 {
		findOpts.SetLimit(int64(opts.Limit))
	}

	cursor, err := s.db.Collection(collection).Find(ctx, filter, findOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents in %s: %w", collection, err)
	}
	defer cursor.Close(ctx)

	var docs []Document
	for cursor.Next(ctx) {
		var raw bson.M
		if err := cursor.Decode(&raw); err != nil {
			return nil, fmt.Errorf("failed to decode document in %s: %w", collection, err)
		}
		docs = append(docs, documentFromBSON(raw))
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to list documents in %s: %w", collection, err)
	}
	return docs, nil
}

// Update merges fields into an existing document
func (s *MongoStore) Update(ctx context.Context, collection, id string, fields map[string]interface{}) error {
	set := bson.M{"updatedAt": time.Now().UTC()}
	for k, v := range fields {
		set[k] = v
	}
	res, err := s.db.Collection(collection).UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update document %s/%s: %w", collection, id, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a document; deleting a nonexistent id succeeds
func (s *MongoStore) Delete(ctx context.Context, collection, id string) error {
	if _, err := s.db.Collection(collection).DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("failed to delete document %s/%s: %w", collection, id, err)
	}
	return nil
}

// Subscribe streams the matching document set via a change stream. The current
// set is delivered first, then the set is re-read after every change.
func (s *MongoStore) Subscribe(ctx context.Context, collection string, conditions []Condition, fn func([]Document)) (UnsubscribeFunc, error) {
	if _, err := mongoFilter(conditions); err != nil {
		return nil, err
	}

	watchCtx, cancel := context.WithCancel(ctx)
	stream, err := s.db.Collection(collection).Watch(watchCtx, mongo.Pipeline{})
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to watch collection %s: %w", collection, err)
	}

	emit := func() {
		docs, err := s.List(watchCtx, collection, conditions, ListOptions{})
		if err != nil {
			return
		}
		fn(docs)
	}

	go func() {
		defer stream.Close(context.Background())
		emit()
		for stream.Next(watchCtx) {
			emit()
		}
	}()

	return UnsubscribeFunc(cancel), nil
}

// SubscribeOne streams changes to a single document
func (s *MongoStore) SubscribeOne(ctx context.Context, collection, id string, fn func(*Document)) (UnsubscribeFunc, error) {
	watchCtx, cancel := context.WithCancel(ctx)
	stream, err := s.db.Collection(collection).Watch(watchCtx, mongo.Pipeline{})
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to watch collection %s: %w", collection, err)
	}

	emit := func() {
		doc, err := s.Get(watchCtx, collection, id)
		if err != nil {
			return
		}
		fn(doc)
	}

	go func() {
		defer stream.Close(context.Background())
		emit()
		for stream.Next(watchCtx) {
			emit()
		}
	}()

	return UnsubscribeFunc(cancel), nil
}
