package tagger

import (
	"context"
	"fmt"
	"reflect"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// Refs maps bson field names to destinations for population.
// Keys must correspond to string fields tagged with tagger:"ref=ModelName";
// each value must be a pointer to a nil-able struct pointer (e.g. &v.Color).
type Refs map[string]interface{}

// Populatable is implemented by entities that carry application-side
// navigation properties resolved from their reference fields.
type Populatable interface {
	Refs() Refs
}

// Populate resolves the reference fields of entity, if it implements
// Populatable, by fetching each referenced document from the collection of the
// referenced model. A reference that is empty, malformed or dangling leaves its
// destination nil. Nothing is written and no integrity is enforced.
//
// Example:
//
//	v, _ := vehicles.Get(ctx, id)
//	err := vehicles.Populate(ctx, v) // fills v.Color and v.Type
func (r *Repository[T]) Populate(ctx context.Context, entity *T) error {
	p, ok := any(entity).(Populatable)
	if !ok {
		return nil
	}
	refs := p.Refs()
	if len(refs) == 0 {
		return nil
	}

	return r.run(ctx, &OpInfo{Operation: OpPopulate, Model: entity}, func(ctx context.Context, _ *mongo.Collection) error {
		db, err := getDB(r.db)
		if err != nil {
			return err
		}
		return populate(ctx, db, r.schema, entity, refs)
	})
}

func populate(ctx context.Context, db *mongo.Database, schema *Schema, model interface{}, refs Refs) error {
	v := reflect.ValueOf(model)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}

	for bsonName, target := range refs {
		field := schema.GetField(bsonName)
		if field == nil {
			return fmt.Errorf("tagger: field %q not found in schema for %s", bsonName, schema.ModelName)
		}
		if field.Ref == "" {
			return fmt.Errorf("tagger: field %q has no ref tag", bsonName)
		}

		refSchema, ok := Get(field.Ref)
		if !ok {
			return fmt.Errorf("tagger: field %q references unregistered model %q", bsonName, field.Ref)
		}

		tv := reflect.ValueOf(target)
		if tv.Kind() != reflect.Ptr || tv.Elem().Kind() != reflect.Ptr {
			return fmt.Errorf("tagger: populate target for %q must be a pointer to a pointer, got %T", bsonName, target)
		}
		tv.Elem().Set(reflect.Zero(tv.Elem().Type()))

		fv := v.FieldByName(field.Name)
		if !fv.IsValid() || fv.Kind() != reflect.String {
			return fmt.Errorf("tagger: ref field %q is not a string", bsonName)
		}
		refID, err := ParseID(fv.String())
		if err != nil {
			continue // unset or malformed ref
		}

		dest := reflect.New(tv.Elem().Type().Elem())
		coll := db.Collection(refSchema.Collection)
		if err := coll.FindOne(ctx, bson.D{{Key: "_id", Value: refID}}).Decode(dest.Interface()); err != nil {
			if err == mongo.ErrNoDocuments {
				continue // dangling reference
			}
			return fmt.Errorf("tagger: populate %q failed: %w", bsonName, err)
		}
		tv.Elem().Set(dest)
	}

	return nil
}
