package itool

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/levelvc/level-agent-tools/tool"
)

type sampleRequest struct {
	Query         string   `json:"query" jsonschema:"description=Search text"`
	Limit         string   `json:"limit,omitempty" jsonschema:"description=Max results,enum=25,enum=50"`
	Count         int      `json:"count"`
	Score         float64  `json:"score,omitempty"`
	Active        bool     `json:"active,omitempty"`
	Tags          []string `json:"tags,omitempty"`
	ExtractQuotes *bool    `json:"extract_quotes,omitempty"`
	hidden        string
	Skipped       string   `json:"-"`
}

func TestGenerateJSONSchema_Struct(t *testing.T) {
	schema := GenerateJSONSchema(reflect.TypeOf(sampleRequest{}))
	require.NotNil(t, schema)
	assert.Equal(t, "object", schema.Type)

	assert.Equal(t, "string", schema.Properties["query"].Type)
	assert.Equal(t, "Search text", schema.Properties["query"].Description)

	assert.Equal(t, []any{"25", "50"}, schema.Properties["limit"].Enum)
	assert.Equal(t, "integer", schema.Properties["count"].Type)
	assert.Equal(t, "number", schema.Properties["score"].Type)
	assert.Equal(t, "boolean", schema.Properties["active"].Type)

	tags := schema.Properties["tags"]
	require.NotNil(t, tags)
	assert.Equal(t, "array", tags.Type)
	require.NotNil(t, tags.Items)
	assert.Equal(t, "string", tags.Items.Type)

	// Pointer fields resolve to the element type and are never required.
	assert.Equal(t, "boolean", schema.Properties["extract_quotes"].Type)

	assert.NotContains(t, schema.Properties, "hidden")
	assert.NotContains(t, schema.Properties, "Skipped")

	assert.ElementsMatch(t, []string{"query", "count"}, schema.Required)
}

func TestGenerateJSONSchema_NilType(t *testing.T) {
	schema := GenerateJSONSchema(nil)
	require.NotNil(t, schema)
	assert.Equal(t, "object", schema.Type)
	assert.Empty(t, schema.Properties)
}

func TestGenerateJSONSchema_Pointer(t *testing.T) {
	schema := GenerateJSONSchema(reflect.TypeOf(&sampleRequest{}))
	require.NotNil(t, schema)
	assert.Equal(t, "object", schema.Type)
	assert.Contains(t, schema.Properties, "query")
}

func TestGenerateJSONSchema_Map(t *testing.T) {
	schema := GenerateJSONSchema(reflect.TypeOf(map[string]int{}))
	require.NotNil(t, schema)
	assert.Equal(t, "object", schema.Type)
	require.NotNil(t, schema.AdditionalProperties)
	ap, ok := schema.AdditionalProperties.(*tool.Schema)
	require.True(t, ok)
	assert.Equal(t, "integer", ap.Type)
}

func TestGenerateJSONSchema_Scalar(t *testing.T) {
	schema := GenerateJSONSchema(reflect.TypeOf(""))
	require.NotNil(t, schema)
	assert.Equal(t, "string", schema.Type)
}
