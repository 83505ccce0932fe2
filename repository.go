package tagger

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// Repository mediates all access to the collection backing one entity type.
// T must be a struct that embeds Model and has been passed to Register.
//
// Every method is a single store call. There is no filtering, sorting,
// pagination or partial update.
type Repository[T any] struct {
	db     *mongo.Database
	schema *Schema
}

// NewRepository returns a repository for T over db. A nil db falls back to
// the handle stored by Connect at call time.
func NewRepository[T any](db *mongo.Database) (*Repository[T], error) {
	schema, err := getSchemaForModel(new(T))
	if err != nil {
		return nil, err
	}
	return &Repository[T]{db: db, schema: schema}, nil
}

// Schema returns the registered schema of T.
func (r *Repository[T]) Schema() *Schema {
	return r.schema
}

// New constructs an entity the way a fresh record starts out: CreatedAt is the
// current UTC instant, to the millisecond, and `tagger:"default=..."` fields hold their defaults.
// Request bodies are decoded over the result, so values they carry win.
func (r *Repository[T]) New() *T {
	entity := new(T)
	// Defaults are parsed from our own struct tags; a bad one is a programming error.
	if err := applyDefaults(entity, r.schema); err != nil {
		panic(err)
	}
	setCreatedAt(entity, now())
	return entity
}

// List returns every document in the collection, in store order.
// An empty collection yields an empty, non-nil slice.
func (r *Repository[T]) List(ctx context.Context) ([]T, error) {
	results := []T{}
	err := r.run(ctx, &OpInfo{Operation: OpList}, func(ctx context.Context, coll *mongo.Collection) error {
		cursor, err := coll.Find(ctx, bson.D{})
		if err != nil {
			return fmt.Errorf("tagger: find failed: %w", err)
		}
		defer func() { _ = cursor.Close(ctx) }()

		if err := cursor.All(ctx, &results); err != nil {
			return fmt.Errorf("tagger: cursor decode failed: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// Get returns the document whose identifier equals id.
// Returns ErrNotFound if none matches, including when id is not valid hex.
func (r *Repository[T]) Get(ctx context.Context, id string) (*T, error) {
	oid, err := ParseID(id)
	if err != nil {
		return nil, ErrNotFound
	}

	result := new(T)
	err = r.run(ctx, &OpInfo{Operation: OpGet, ID: id}, func(ctx context.Context, coll *mongo.Collection) error {
		if err := coll.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(result); err != nil {
			if err == mongo.ErrNoDocuments {
				return ErrNotFound
			}
			return fmt.Errorf("tagger: find one failed: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Create inserts entity as a new document. A fresh identifier is always
// generated and written back to entity; any caller-supplied one is discarded.
// CreatedAt is filled in only when still zero.
func (r *Repository[T]) Create(ctx context.Context, entity *T) error {
	info := &OpInfo{Operation: OpCreate, Model: entity}
	return r.run(ctx, info, func(ctx context.Context, coll *mongo.Collection) error {
		oid := bson.NewObjectID()
		setModelID(entity, oid)
		info.ID = oid.Hex()
		setCreatedAt(entity, now())

		if _, err := coll.InsertOne(ctx, entity); err != nil {
			return fmt.Errorf("tagger: insert failed: %w", err)
		}
		return nil
	})
}

// Replace overwrites the whole document matching id with entity. The
// identifier of entity is forced to id. It reports whether a document matched;
// a miss is not an error and writes nothing.
func (r *Repository[T]) Replace(ctx context.Context, id string, entity *T) (bool, error) {
	oid, err := ParseID(id)
	if err != nil {
		return false, nil
	}

	var matched bool
	err = r.run(ctx, &OpInfo{Operation: OpReplace, ID: id, Model: entity}, func(ctx context.Context, coll *mongo.Collection) error {
		setModelID(entity, oid)

		result, err := coll.ReplaceOne(ctx, bson.D{{Key: "_id", Value: oid}}, entity)
		if err != nil {
			return fmt.Errorf("tagger: replace failed: %w", err)
		}
		matched = result.MatchedCount > 0
		return nil
	})
	return matched, err
}

// Remove deletes the document matching id and reports whether one existed.
// Removing an absent id is a no-op, so Remove is idempotent.
func (r *Repository[T]) Remove(ctx context.Context, id string) (bool, error) {
	oid, err := ParseID(id)
	if err != nil {
		return false, nil
	}

	var deleted bool
	err = r.run(ctx, &OpInfo{Operation: OpRemove, ID: id}, func(ctx context.Context, coll *mongo.Collection) error {
		result, err := coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
		if err != nil {
			return fmt.Errorf("tagger: delete failed: %w", err)
		}
		deleted = result.DeletedCount > 0
		return nil
	})
	return deleted, err
}

// run resolves the database, fills in the schema part of info and executes fn
// inside the middleware chain.
func (r *Repository[T]) run(ctx context.Context, info *OpInfo, fn func(context.Context, *mongo.Collection) error) error {
	info.Collection = r.schema.Collection
	info.ModelName = r.schema.ModelName

	return runMiddleware(ctx, info, func(ctx context.Context) error {
		db, err := getDB(r.db)
		if err != nil {
			return err
		}
		return fn(ctx, db.Collection(r.schema.Collection))
	})
}

// now is the current UTC instant at the millisecond precision MongoDB stores,
// so an entity reads back exactly as it was returned from Create.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// ParseID converts a 24-character hex identifier into an ObjectID.
func ParseID(id string) (bson.ObjectID, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return bson.ObjectID{}, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return oid, nil
}

// setModelID sets the ID field on a model via reflection.
func setModelID(model interface{}, id bson.ObjectID) {
	v := reflect.ValueOf(model)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	idField := v.FieldByName("ID")
	if idField.IsValid() && idField.CanSet() {
		idField.Set(reflect.ValueOf(id))
	}
}

// IDOf returns the hex identifier of a model, or an error if it has no
// ObjectID field named ID. A model that was never stored yields ErrNotFound.
func IDOf(model interface{}) (string, error) {
	v := reflect.ValueOf(model)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	idField := v.FieldByName("ID")
	if !idField.IsValid() {
		return "", fmt.Errorf("tagger: model has no ID field")
	}
	id, ok := idField.Interface().(bson.ObjectID)
	if !ok {
		return "", fmt.Errorf("tagger: ID field is not bson.ObjectID")
	}
	if id.IsZero() {
		return "", ErrNotFound
	}
	return id.Hex(), nil
}
