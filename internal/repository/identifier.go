package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"greenfields-backend/internal/store"
)

// idFilters returns the lookup filters for an identifier, in order: the
// logical id field first, then the native _id when the string is a valid
// ObjectID hex. Part of the collections was seeded with logical ids and part
// with native ids only, so every id-based operation tries both.
func idFilters(id string) []bson.M {
	filters := []bson.M{{"id": id}}
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		filters = append(filters, bson.M{"_id": oid})
	}
	return filters
}

// findOneByID runs the dual-identifier lookup against a collection. notFound
// is returned when neither filter matches.
func findOneByID(ctx context.Context, coll store.Collection, id string, out interface{}, notFound error) error {
	for _, filter := range idFilters(id) {
		err := coll.FindOne(ctx, filter, out)
		if err == nil {
			return nil
		}
		if !errors.Is(err, store.ErrNoDocuments) {
			return err
		}
	}
	return notFound
}

// updateOneByID applies an update through the dual-identifier lookup.
func updateOneByID(ctx context.Context, coll store.Collection, id string, update interface{}, notFound error) error {
	for _, filter := range idFilters(id) {
		res, err := coll.UpdateOne(ctx, filter, update)
		if err != nil {
			return err
		}
		if res.MatchedCount > 0 {
			return nil
		}
	}
	return notFound
}

// deleteOneByID deletes through the dual-identifier lookup.
func deleteOneByID(ctx context.Context, coll store.Collection, id string, notFound error) error {
	for _, filter := range idFilters(id) {
		deleted, err := coll.DeleteOne(ctx, filter)
		if err != nil {
			return err
		}
		if deleted > 0 {
			return nil
		}
	}
	return notFound
}
