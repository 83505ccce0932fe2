package tagger

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/dwoolworth/tagger/internal"
)

var (
	registryMu sync.RWMutex
	registry   = map[string]*Schema{}
)

// Register parses an entity struct and registers its schema.
// The model should be a pointer to a struct that embeds tagger.Model.
// The collection parameter is the MongoDB collection name.
func Register(model interface{}, collection string) error {
	t := reflect.TypeOf(model)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return fmt.Errorf("tagger: Register expects a struct, got %s", t.Kind())
	}
	if collection == "" {
		return fmt.Errorf("tagger: model %q needs a collection name", t.Name())
	}

	schema := parseSchema(t)
	schema.Collection = collection

	registryMu.Lock()
	defer registryMu.Unlock()
	if _, exists := registry[schema.ModelName]; exists {
		return fmt.Errorf("tagger: model %q is already registered", schema.ModelName)
	}
	registry[schema.ModelName] = schema

	return nil
}

// parseSchema builds the field list of a struct type without registering it.
func parseSchema(t reflect.Type) *Schema {
	schema := &Schema{ModelName: t.Name()}

	for _, f := range internal.StructFields(t) {
		bsonName, _ := ParseBSONTag(f.Tag.Get("bson"))
		if bsonName == "" {
			bsonName = strings.ToLower(f.Name)
		}
		if bsonName == "-" {
			continue
		}

		fs := ParseTaggerTag(f.Tag.Get("tagger"))
		fs.Name = f.Name
		fs.BSONName = bsonName
		fs.JSONName = parseJSONTag(f.Tag.Get("json"))
		if fs.JSONName == "" {
			fs.JSONName = f.Name
		}
		fs.Type = internal.TypeName(f.Type)

		schema.Fields = append(schema.Fields, fs)
	}

	return schema
}

// GetAll returns all registered schemas.
func GetAll() map[string]*Schema {
	registryMu.RLock()
	defer registryMu.RUnlock()

	result := make(map[string]*Schema, len(registry))
	for k, v := range registry {
		result[k] = v
	}
	return result
}

// Get returns the schema for a given model name, or false if not found.
func Get(name string) (*Schema, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	s, ok := registry[name]
	return s, ok
}

// getSchemaForModel resolves the schema for a model instance from the registry.
func getSchemaForModel(model interface{}) (*Schema, error) {
	t := reflect.TypeOf(model)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() == reflect.Slice {
		t = t.Elem()
		if t.Kind() == reflect.Ptr {
			t = t.Elem()
		}
	}

	schema, ok := Get(t.Name())
	if !ok {
		return nil, fmt.Errorf("tagger: model %q is not registered", t.Name())
	}
	return schema, nil
}
