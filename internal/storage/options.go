package storage

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type SortOrder int

const (
	Ascending  SortOrder = 1
	Descending SortOrder = -1
)

const (
	// DefaultLimit caps Find result sets unless overridden.
	DefaultLimit int64 = 50

	// NoLimit removes the result cap entirely.
	NoLimit int64 = -1
)

type findConfig struct {
	sortField  string
	sortOrder  SortOrder
	limit      int64
	skip       int64
	projection []string
}

// FindOption narrows or reorders a Find query.
type FindOption func(*findConfig)

func WithSort(field string, order SortOrder) FindOption {
	return func(c *findConfig) {
		c.sortField = field
		c.sortOrder = order
	}
}

func WithLimit(n int64) FindOption {
	return func(c *findConfig) { c.limit = n }
}

func WithSkip(n int64) FindOption {
	return func(c *findConfig) { c.skip = n }
}

func WithProjection(fields ...string) FindOption {
	return func(c *findConfig) { c.projection = fields }
}

func newFindConfig(opts ...FindOption) *findConfig {
	c := &findConfig{limit: DefaultLimit}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *findConfig) build() *options.FindOptions {
	o := options.Find().SetSkip(c.skip)
	if c.limit != NoLimit {
		o.SetLimit(c.limit)
	}
	if c.sortField != "" {
		o.SetSort(bson.D{{Key: c.sortField, Value: int(c.sortOrder)}})
	}
	if len(c.projection) > 0 {
		proj := bson.M{}
		for _, f := range c.projection {
			proj[f] = 1
		}
		o.SetProjection(proj)
	}
	return o
}
