package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoCollection adapts a *mongo.Collection to the Collection interface.
type MongoCollection struct {
	coll *mongo.Collection
}

func NewMongoCollection(coll *mongo.Collection) *MongoCollection {
	return &MongoCollection{coll: coll}
}

func (c *MongoCollection) InsertOne(ctx context.Context, doc interface{}) (interface{}, error) {
	res, err := c.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, err
	}
	return res.InsertedID, nil
}

func (c *MongoCollection) InsertMany(ctx context.Context, docs []interface{}) error {
	_, err := c.coll.InsertMany(ctx, docs)
	return err
}

func (c *MongoCollection) FindOne(ctx context.Context, filter interface{}, out interface{}) error {
	err := c.coll.FindOne(ctx, filter).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNoDocuments
	}
	return err
}

func (c *MongoCollection) Find(ctx context.Context, filter interface{}, opts *FindOptions, out interface{}) error {
	findOpts := options.Find()
	if opts != nil {
		if opts.Sort != nil {
			findOpts.SetSort(opts.Sort)
		}
		if opts.Limit > 0 {
			findOpts.SetLimit(opts.Limit)
		}
	}

	cursor, err := c.coll.Find(ctx, filter, findOpts)
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	return cursor.All(ctx, out)
}

func (c *MongoCollection) UpdateOne(ctx context.Context, filter, update interface{}) (*UpdateResult, error) {
	res, err := c.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return nil, err
	}
	return &UpdateResult{
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
	}, nil
}

func (c *MongoCollection) UpsertOne(ctx context.Context, filter, update interface{}) (*UpdateResult, error) {
	res, err := c.coll.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return nil, err
	}
	upserted := int64(0)
	if res.UpsertedID != nil {
		upserted = 1
	}
	return &UpdateResult{
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
		UpsertedCount: upserted,
	}, nil
}

func (c *MongoCollection) DeleteOne(ctx context.Context, filter interface{}) (int64, error) {
	res, err := c.coll.DeleteOne(ctx, filter)
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (c *MongoCollection) DeleteMany(ctx context.Context, filter interface{}) (int64, error) {
	res, err := c.coll.DeleteMany(ctx, filter)
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (c *MongoCollection) CountDocuments(ctx context.Context, filter interface{}) (int64, error) {
	return c.coll.CountDocuments(ctx, filter)
}

func (c *MongoCollection) Aggregate(ctx context.Context, pipeline interface{}, out interface{}) error {
	cursor, err := c.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	return cursor.All(ctx, out)
}
