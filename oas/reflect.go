package oas

import (
	"reflect"
	"strconv"
	"strings"
	"time"
)

// SchemaFor derives a Schema from the Go type T. Struct fields use their json
// name; the doc, required, minLength, maxLength, pattern, minimum, maximum,
// enum, minItems and maxItems struct tags become schema keywords.
func SchemaFor[T any]() *Schema {
	s := SchemaOf(reflect.TypeFor[T]())
	return &s
}

// SchemaOf derives a Schema from t. See SchemaFor.
func SchemaOf(t reflect.Type) Schema {
	if t.Kind() == reflect.Pointer {
		return SchemaOf(t.Elem())
	}

	switch t {
	case reflect.TypeFor[time.Time]():
		return Schema{Type: "string", Format: "date-time"}
	case reflect.TypeFor[time.Duration]():
		return Schema{Type: "string", Format: "duration"}
	}

	//exhaustive:ignore
	switch t.Kind() {
	case reflect.String:
		return Schema{Type: "string"}
	case reflect.Bool:
		return Schema{Type: "boolean"}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return Schema{Type: "integer"}
	case reflect.Float32, reflect.Float64:
		return Schema{Type: "number"}
	case reflect.Slice, reflect.Array:
		if t.Elem().Kind() == reflect.Uint8 {
			return Schema{Type: "string", Format: "byte"}
		}
		items := SchemaOf(t.Elem())
		return Schema{Type: "array", Items: &items}
	case reflect.Map:
		if t.Key().Kind() != reflect.String {
			return Schema{Type: "object"}
		}
		val := SchemaOf(t.Elem())
		return Schema{Type: "object", AdditionalProperties: &val}
	case reflect.Struct:
		return structSchema(t)
	default:
		return Schema{}
	}
}

func structSchema(t reflect.Type) Schema {
	schema := Schema{
		Type:       "object",
		Properties: make(map[string]Schema),
	}

	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}

		name := jsonFieldName(f)
		if name == "-" {
			continue
		}

		prop := SchemaOf(f.Type)
		if doc := f.Tag.Get("doc"); doc != "" {
			prop.Description = doc
		}
		applyConstraintTags(&prop, f.Tag)

		schema.Properties[name] = prop

		if f.Tag.Get("required") == "true" {
			schema.Required = append(schema.Required, name)
		}
	}

	return schema
}

// applyConstraintTags copies constraint tags onto s. Malformed numbers are ignored.
func applyConstraintTags(s *Schema, tag reflect.StructTag) {
	if n, ok := intTag(tag, "minLength"); ok {
		s.MinLength = &n
	}
	if n, ok := intTag(tag, "maxLength"); ok {
		s.MaxLength = &n
	}
	if p := tag.Get("pattern"); p != "" {
		s.Pattern = p
	}
	if f, ok := floatTag(tag, "minimum"); ok {
		s.Minimum = &f
	}
	if f, ok := floatTag(tag, "maximum"); ok {
		s.Maximum = &f
	}
	if n, ok := intTag(tag, "minItems"); ok {
		s.MinItems = &n
	}
	if n, ok := intTag(tag, "maxItems"); ok {
		s.MaxItems = &n
	}
	if e := tag.Get("enum"); e != "" {
		for v := range strings.SplitSeq(e, ",") {
			s.Enum = append(s.Enum, v)
		}
	}
}

func intTag(tag reflect.StructTag, key string) (int, bool) {
	v := tag.Get(key)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	return n, err == nil
}

func floatTag(tag reflect.StructTag, key string) (float64, bool) {
	v := tag.Get(key)
	if v == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	return f, err == nil
}

// jsonFieldName returns the JSON field name for a struct field.
func jsonFieldName(f reflect.StructField) string {
	tag := f.Tag.Get("json")
	if tag == "" {
		return f.Name
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "" {
		return f.Name
	}
	return name
}
