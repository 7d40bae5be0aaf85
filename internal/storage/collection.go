// Package storage provides a generic collection access layer over MongoDB.
// Every entity store gets the same validation, retry, and null-safety
// behavior from it.
package storage

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var validate = validator.New()

// Document is the base interface for all storable entity types.
type Document interface {
	DocumentID() primitive.ObjectID
}

// Collection wraps one named MongoDB collection, bound to a single entity
// type at construction.
type Collection[T Document] struct {
	coll     *mongo.Collection
	name     string
	onSave   func(*T)
	onUpdate func(bson.M)
}

// Option configures a Collection at construction time.
type Option[T Document] func(*Collection[T])

// WithOnSave registers a hook applied to every document before insertion,
// e.g. stamping the creation time.
func WithOnSave[T Document](fn func(*T)) Option[T] {
	return func(c *Collection[T]) { c.onSave = fn }
}

// WithOnUpdate registers a hook applied to the change set of every update.
func WithOnUpdate[T Document](fn func(bson.M)) Option[T] {
	return func(c *Collection[T]) { c.onUpdate = fn }
}

func NewCollection[T Document](db *mongo.Database, name string, opts ...Option[T]) *Collection[T] {
	c := &Collection[T]{
		coll: db.Collection(name),
		name: name,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Collection[T]) validateDoc(doc *T) error {
	if err := validate.Struct(doc); err != nil {
		return &ValidationError{Err: err}
	}
	return nil
}

// toDocument flattens an entity into a bson map so individual fields can be
// inspected or merged.
func toDocument[T Document](doc *T) (bson.M, error) {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// stripNulls drops null-valued fields so an upsert never overwrites
// existing data with null.
func stripNulls(m bson.M) bson.M {
	out := make(bson.M, len(m))
	for k, v := range m {
		if v == nil {
			continue
		}
		out[k] = v
	}
	return out
}

// Save applies the on-save hook, validates the document, and inserts it.
// The persisted document is returned.
func (c *Collection[T]) Save(ctx context.Context, doc *T) (*T, error) {
	if c.onSave != nil {
		c.onSave(doc)
	}
	if err := c.validateDoc(doc); err != nil {
		return nil, err
	}
	err := withRetry(ctx, c.name+".save", func() error {
		_, err := c.coll.InsertOne(ctx, doc)
		return err
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// SaveMany performs a best-effort unordered bulk insert. When every failure
// in the batch is a duplicate-key conflict the batch is treated as a success
// and the count of actually inserted documents is returned; any other
// failure is surfaced to the caller.
func (c *Collection[T]) SaveMany(ctx context.Context, docs []*T) (int, error) {
	if len(docs) == 0 {
		return 0, nil
	}

	payload := make([]interface{}, 0, len(docs))
	for _, doc := range docs {
		if c.onSave != nil {
			c.onSave(doc)
		}
		if err := c.validateDoc(doc); err != nil {
			return 0, err
		}
		payload = append(payload, doc)
	}

	var inserted int
	err := withRetry(ctx, c.name+".save_many", func() error {
		res, err := c.coll.InsertMany(ctx, payload, options.InsertMany().SetOrdered(false))
		if err == nil {
			inserted = len(res.InsertedIDs)
			return nil
		}
		var bwe mongo.BulkWriteException
		if errors.As(err, &bwe) && onlyDuplicates(bwe) {
			inserted = len(payload) - len(bwe.WriteErrors)
			return nil
		}
		return err
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}

// Get returns at most one match, or ErrNotFound.
func (c *Collection[T]) Get(ctx context.Context, filter bson.M) (*T, error) {
	var out T
	err := withRetry(ctx, c.name+".get", func() error {
		return c.coll.FindOne(ctx, filter).Decode(&out)
	})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &out, nil
}

func (c *Collection[T]) GetByID(ctx context.Context, id primitive.ObjectID) (*T, error) {
	return c.Get(ctx, bson.M{"_id": id})
}

// Find returns an eagerly materialized, ordered sequence of matches.
// Result sets are capped at DefaultLimit unless overridden.
func (c *Collection[T]) Find(ctx context.Context, filter bson.M, opts ...FindOption) ([]T, error) {
	cfg := newFindConfig(opts...)
	var out []T
	err := withRetry(ctx, c.name+".find", func() error {
		out = nil
		cur, err := c.coll.Find(ctx, filter, cfg.build())
		if err != nil {
			return err
		}
		return cur.All(ctx, &out)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Count returns the number of documents matching filter.
func (c *Collection[T]) Count(ctx context.Context, filter bson.M) (int64, error) {
	var n int64
	err := withRetry(ctx, c.name+".count", func() error {
		var err error
		n, err = c.coll.CountDocuments(ctx, filter)
		return err
	})
	return n, err
}

// GetRandom returns one uniformly sampled match, or ErrNotFound.
func (c *Collection[T]) GetRandom(ctx context.Context, filter bson.M) (*T, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: filter}},
		{{Key: "$sample", Value: bson.M{"size": 1}}},
	}

	var results []T
	err := withRetry(ctx, c.name+".get_random", func() error {
		results = nil
		cur, err := c.coll.Aggregate(ctx, pipeline)
		if err != nil {
			return err
		}
		return cur.All(ctx, &results)
	})
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, ErrNotFound
	}
	return &results[0], nil
}

// Update merges changes into the fields of every matching document.
func (c *Collection[T]) Update(ctx context.Context, filter, changes bson.M) error {
	if c.onUpdate != nil {
		c.onUpdate(changes)
	}
	return withRetry(ctx, c.name+".update", func() error {
		_, err := c.coll.UpdateMany(ctx, filter, bson.M{"$set": changes})
		return err
	})
}

func (c *Collection[T]) UpdateByID(ctx context.Context, id primitive.ObjectID, changes bson.M) error {
	return c.Update(ctx, bson.M{"_id": id}, changes)
}

// Upsert updates the first match or inserts the document. Null-valued
// fields are excluded from the write.
func (c *Collection[T]) Upsert(ctx context.Context, filter bson.M, doc *T) error {
	if err := c.validateDoc(doc); err != nil {
		return err
	}
	m, err := toDocument(doc)
	if err != nil {
		return err
	}
	if c.onUpdate != nil {
		c.onUpdate(m)
	}
	set := stripNulls(m)
	return withRetry(ctx, c.name+".upsert", func() error {
		_, err := c.coll.UpdateOne(ctx, filter, bson.M{"$set": set}, options.Update().SetUpsert(true))
		return err
	})
}

func (c *Collection[T]) UpsertByID(ctx context.Context, doc *T) error {
	return c.Upsert(ctx, bson.M{"_id": (*doc).DocumentID()}, doc)
}

// BulkUpsertByID issues one unordered bulk upsert per document, keyed by id.
func (c *Collection[T]) BulkUpsertByID(ctx context.Context, docs []*T) error {
	if len(docs) == 0 {
		return nil
	}

	writes := make([]mongo.WriteModel, 0, len(docs))
	for _, doc := range docs {
		m, err := toDocument(doc)
		if err != nil {
			return err
		}
		if c.onUpdate != nil {
			c.onUpdate(m)
		}
		set := stripNulls(m)
		delete(set, "_id") // the filter already pins _id

		writes = append(writes, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"_id": (*doc).DocumentID()}).
			SetUpdate(bson.M{"$set": set}).
			SetUpsert(true))
	}

	return withRetry(ctx, c.name+".bulk_upsert", func() error {
		_, err := c.coll.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(false))
		return err
	})
}

// RemoveByID deletes at most one document; removing an absent id is a no-op.
func (c *Collection[T]) RemoveByID(ctx context.Context, id primitive.ObjectID) error {
	return withRetry(ctx, c.name+".remove", func() error {
		_, err := c.coll.DeleteOne(ctx, bson.M{"_id": id})
		return err
	})
}
