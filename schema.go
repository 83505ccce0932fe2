package tagger

// FieldSchema describes a single field parsed from struct tags.
type FieldSchema struct {
	Name     string // Go field name
	BSONName string // bson tag name
	JSONName string // json tag name, as seen on the wire
	Type     string // Go type as string
	Default  string // raw default applied on construction
	Ref      string // referenced model name, never enforced
	Index    bool   // ascending single-field index, never unique
}

// Schema is the parsed representation of an entity struct.
type Schema struct {
	ModelName  string        // Go struct name
	Collection string        // MongoDB collection name
	Fields     []FieldSchema // parsed fields
}

// HasField returns true if the schema contains a field with the given BSON name.
func (s *Schema) HasField(bsonName string) bool {
	return s.GetField(bsonName) != nil
}

// GetField returns the FieldSchema for a given BSON name, or nil if not found.
func (s *Schema) GetField(bsonName string) *FieldSchema {
	for i := range s.Fields {
		if s.Fields[i].BSONName == bsonName {
			return &s.Fields[i]
		}
	}
	return nil
}

// Refs returns the fields that reference another model.
func (s *Schema) Refs() []FieldSchema {
	var refs []FieldSchema
	for _, f := range s.Fields {
		if f.Ref != "" {
			refs = append(refs, f)
		}
	}
	return refs
}

// Indexed returns the fields that carry a secondary index.
func (s *Schema) Indexed() []FieldSchema {
	var out []FieldSchema
	for _, f := range s.Fields {
		if f.Index {
			out = append(out, f)
		}
	}
	return out
}
