package tagger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_Duplicate(t *testing.T) {
	registerTestModels()
	defer unregisterTestModels()

	err := Register(&testCar{}, "test_cars")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")
}

func TestRegister_Rejects(t *testing.T) {
	defer unregisterTestModels()

	assert.Error(t, Register(42, "numbers"))
	assert.Error(t, Register(&testColor{}, ""))
}

func TestRegister_ParsesFields(t *testing.T) {
	registerTestModels()
	defer unregisterTestModels()

	schema, ok := Get("testCar")
	require.True(t, ok)
	assert.Equal(t, "test_cars", schema.Collection)

	// Embedded Model fields are flattened, navigation properties are skipped.
	assert.True(t, schema.HasField("_id"))
	assert.True(t, schema.HasField("createdAt"))
	assert.False(t, schema.HasField("-"))
	assert.Nil(t, schema.GetField("color"))

	id := schema.GetField("_id")
	require.NotNil(t, id)
	assert.Equal(t, "id", id.JSONName)
	assert.Equal(t, "bson.ObjectID", id.Type)

	year := schema.GetField("year")
	require.NotNil(t, year)
	assert.Equal(t, "2020", year.Default)
	assert.Equal(t, "int", year.Type)

	tags := schema.GetField("tags")
	require.NotNil(t, tags)
	assert.Equal(t, "[]string", tags.Type)

	indexed := schema.Indexed()
	require.Len(t, indexed, 1)
	assert.Equal(t, "plate", indexed[0].BSONName)

	refs := schema.Refs()
	require.Len(t, refs, 1)
	assert.Equal(t, "colorId", refs[0].BSONName)
	assert.Equal(t, "testColor", refs[0].Ref)
}

func TestGetSchemaForModel(t *testing.T) {
	registerTestModels()
	defer unregisterTestModels()

	s, err := getSchemaForModel(&testCar{})
	require.NoError(t, err)
	assert.Equal(t, "test_cars", s.Collection)

	s, err = getSchemaForModel(&[]testColor{})
	require.NoError(t, err)
	assert.Equal(t, "test_colors", s.Collection)

	type unknown struct{ Model }
	_, err = getSchemaForModel(&unknown{})
	assert.Error(t, err)
}

func TestParseTaggerTag(t *testing.T) {
	fs := ParseTaggerTag("default=true, ref=VehicleColor,bogus")
	assert.Equal(t, "true", fs.Default)
	assert.Equal(t, "VehicleColor", fs.Ref)
	assert.False(t, fs.Index)

	fs = ParseTaggerTag("ref=VehicleType,index")
	assert.Equal(t, "VehicleType", fs.Ref)
	assert.True(t, fs.Index)

	assert.Equal(t, FieldSchema{}, ParseTaggerTag(""))
}

func TestParseBSONTag(t *testing.T) {
	name, omit := ParseBSONTag("_id,omitempty")
	assert.Equal(t, "_id", name)
	assert.True(t, omit)

	name, omit = ParseBSONTag(",inline")
	assert.Equal(t, "", name)
	assert.False(t, omit)
}
