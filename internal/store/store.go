// Package store abstracts the document collection operations the
// repositories use, so tests can swap a real MongoDB collection for an
// in-memory one.
package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
)

// ErrNoDocuments is returned by FindOne when no document matches the filter.
var ErrNoDocuments = errors.New("no documents in result")

// FindOptions carries the subset of query options the repositories use.
type FindOptions struct {
	Sort  bson.D
	Limit int64
}

// UpdateResult reports how many documents an update touched.
type UpdateResult struct {
	MatchedCount  int64
	ModifiedCount int64
	UpsertedCount int64
}

// Collection is the store handle repositories are constructed with.
type Collection interface {
	InsertOne(ctx context.Context, doc interface{}) (interface{}, error)
	InsertMany(ctx context.Context, docs []interface{}) error
	FindOne(ctx context.Context, filter interface{}, out interface{}) error
	Find(ctx context.Context, filter interface{}, opts *FindOptions, out interface{}) error
	UpdateOne(ctx context.Context, filter, update interface{}) (*UpdateResult, error)
	UpsertOne(ctx context.Context, filter, update interface{}) (*UpdateResult, error)
	DeleteOne(ctx context.Context, filter interface{}) (int64, error)
	DeleteMany(ctx context.Context, filter interface{}) (int64, error)
	CountDocuments(ctx context.Context, filter interface{}) (int64, error)
	Aggregate(ctx context.Context, pipeline interface{}, out interface{}) error
}
