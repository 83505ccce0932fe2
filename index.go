package tagger

import (
	"context"
	"fmt"
	"sort"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// IndexError reports a failure to create or list indexes on a collection.
type IndexError struct {
	Collection string
	Message    string
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("tagger: index %s: %s", e.Collection, e.Message)
}

// EnsureIndexes creates the ascending index of every `tagger:"index"` field
// of every registered schema, skipping indexes that already exist. Indexes are
// never unique, so existing data can always be indexed.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	schemas := GetAll()
	names := make([]string, 0, len(schemas))
	for name := range schemas {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := ensureSchemaIndexes(ctx, db, schemas[name]); err != nil {
			return err
		}
	}
	return nil
}

func ensureSchemaIndexes(ctx context.Context, db *mongo.Database, schema *Schema) error {
	fields := schema.Indexed()
	if len(fields) == 0 {
		return nil
	}

	coll := db.Collection(schema.Collection)
	existing, err := ListIndexes(ctx, coll)
	if err != nil {
		return &IndexError{Collection: schema.Collection, Message: fmt.Sprintf("failed to list indexes: %v", err)}
	}

	for _, field := range fields {
		if existing[IndexName(field)] {
			continue
		}
		model := mongo.IndexModel{Keys: bson.D{{Key: field.BSONName, Value: 1}}}
		if _, err := coll.Indexes().CreateOne(ctx, model); err != nil {
			return &IndexError{
				Collection: schema.Collection,
				Message:    fmt.Sprintf("failed to create index on %s: %v", field.BSONName, err),
			}
		}
	}
	return nil
}

// IndexName is the name MongoDB gives the ascending index on field.
func IndexName(field FieldSchema) string {
	return field.BSONName + "_1"
}

// ListIndexes returns the set of index names present on coll.
func ListIndexes(ctx context.Context, coll *mongo.Collection) (map[string]bool, error) {
	result := make(map[string]bool)

	cursor, err := coll.Indexes().List(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = cursor.Close(ctx) }()

	for cursor.Next(ctx) {
		var idx bson.M
		if err := cursor.Decode(&idx); err != nil {
			continue
		}
		if name, ok := idx["name"].(string); ok {
			result[name] = true
		}
	}
	return result, cursor.Err()
}
