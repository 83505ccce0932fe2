package internal

import (
	"reflect"
	"strconv"
	"strings"
)

// StructFields returns all exported fields of a struct, flattening embedded structs
// such as tagger.Model. It accepts a struct type or a pointer to one.
func StructFields(t reflect.Type) []reflect.StructField {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}

	var fields []reflect.StructField
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Anonymous && f.Type.Kind() == reflect.Struct {
			fields = append(fields, StructFields(f.Type)...)
			continue
		}
		if !f.IsExported() {
			continue
		}
		fields = append(fields, f)
	}
	return fields
}

// TypeName returns a short type name such as "string", "[]float64",
// "*models.VehicleColor" or "time.Time".
func TypeName(t reflect.Type) string {
	switch t.Kind() {
	case reflect.Ptr:
		return "*" + TypeName(t.Elem())
	case reflect.Slice:
		return "[]" + TypeName(t.Elem())
	case reflect.Array:
		if t.Name() == "" {
			return "[" + strconv.Itoa(t.Len()) + "]" + TypeName(t.Elem())
		}
	}

	name := t.String()
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	return name
}
