package tagger

import (
	"strings"
)

// ParseTaggerTag parses a `tagger:"..."` struct tag value into FieldSchema attributes.
// Supported tags: index, default=val, ref=ModelName
func ParseTaggerTag(tag string) FieldSchema {
	var fs FieldSchema
	if tag == "" {
		return fs
	}

	parts := strings.Split(tag, ",")
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		k, v, ok := strings.Cut(part, "=")
		if !ok {
			if part == "index" {
				fs.Index = true
			}
			continue
		}
		switch k {
		case "default":
			fs.Default = v
		case "ref":
			fs.Ref = v
		}
	}

	return fs
}

// ParseBSONTag extracts the BSON field name from a `bson:"..."` struct tag.
// Returns the field name and whether the field should be omitted when empty.
func ParseBSONTag(tag string) (name string, omitempty bool) {
	if tag == "" {
		return "", false
	}
	parts := strings.Split(tag, ",")
	name = parts[0]
	for _, p := range parts[1:] {
		if strings.TrimSpace(p) == "omitempty" {
			omitempty = true
		}
	}
	return name, omitempty
}

// parseJSONTag extracts the JSON field name from a `json:"..."` struct tag.
func parseJSONTag(tag string) string {
	name, _, _ := strings.Cut(tag, ",")
	return name
}
