// Package itool provides internal utilities for tool schema generation.
package itool

import (
	"reflect"
	"strings"

	"github.com/levelvc/level-agent-tools/tool"
)

// GenerateJSONSchema generates a basic JSON schema from a reflect.Type.
func GenerateJSONSchema(t reflect.Type) *tool.Schema {
	if t == nil {
		return &tool.Schema{Type: "object"}
	}
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return fieldSchema(t)
	}

	schema := &tool.Schema{Type: "object", Properties: map[string]*tool.Schema{}}
	var required []string
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		jsonTag := field.Tag.Get("json")
		if jsonTag == "-" {
			continue
		}
		fieldName := field.Name
		isOmitEmpty := false
		if jsonTag != "" {
			if commaIdx := strings.Index(jsonTag, ","); commaIdx != -1 {
				fieldName = jsonTag[:commaIdx]
				isOmitEmpty = strings.Contains(jsonTag[commaIdx:], "omitempty")
			} else {
				fieldName = jsonTag
			}
		}

		fs := fieldSchema(field.Type)
		applyJSONSchemaTag(field.Tag, fs)
		if field.Type.Kind() != reflect.Ptr && !isOmitEmpty {
			required = append(required, fieldName)
		}
		schema.Properties[fieldName] = fs
	}
	if len(required) > 0 {
		schema.Required = required
	}
	return schema
}

// fieldSchema generates a schema for a single field type.
func fieldSchema(t reflect.Type) *tool.Schema {
	switch t.Kind() {
	case reflect.String:
		return &tool.Schema{Type: "string"}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &tool.Schema{Type: "integer"}
	case reflect.Float32, reflect.Float64:
		return &tool.Schema{Type: "number"}
	case reflect.Bool:
		return &tool.Schema{Type: "boolean"}
	case reflect.Slice, reflect.Array:
		return &tool.Schema{Type: "array", Items: fieldSchema(t.Elem())}
	case reflect.Map:
		return &tool.Schema{Type: "object", AdditionalProperties: fieldSchema(t.Elem())}
	case reflect.Ptr:
		return fieldSchema(t.Elem())
	case reflect.Struct:
		return GenerateJSONSchema(t)
	default:
		return &tool.Schema{Type: "object"}
	}
}

// applyJSONSchemaTag parses a jsonschema struct tag and applies the settings
// to the schema. Supported forms: "description=xxx" and "enum=a,enum=b".
func applyJSONSchemaTag(tag reflect.StructTag, schema *tool.Schema) {
	jsonSchemaTag := tag.Get("jsonschema")
	if jsonSchemaTag == "" {
		return
	}
	for _, item := range strings.Split(jsonSchemaTag, ",") {
		kv := strings.SplitN(item, "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch kv[0] {
		case "description":
			schema.Description = kv[1]
		case "enum":
			schema.Enum = append(schema.Enum, kv[1])
		}
	}
}
