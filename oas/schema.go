package oas

// Schema is a JSON Schema object as used by OpenAPI parameters, bodies and responses.
// Numeric constraints are pointers because zero is a meaningful bound.
type Schema struct {
	Type        string            `json:"type,omitempty"`
	Format      string            `json:"format,omitempty"`
	Title       string            `json:"title,omitempty"`
	Description string            `json:"description,omitempty"`
	Properties  map[string]Schema `json:"properties,omitempty"`
	Items       *Schema           `json:"items,omitempty"`
	Required    []string          `json:"required,omitempty"`
	Enum        []any             `json:"enum,omitempty"`
	Ref         string            `json:"$ref,omitempty"`

	MinLength *int     `json:"minLength,omitempty"`
	MaxLength *int     `json:"maxLength,omitempty"`
	Pattern   string   `json:"pattern,omitempty"`
	Minimum   *float64 `json:"minimum,omitempty"`
	Maximum   *float64 `json:"maximum,omitempty"`
	MinItems  *int     `json:"minItems,omitempty"`
	MaxItems  *int     `json:"maxItems,omitempty"`

	Default any `json:"default,omitempty"`
	Example any `json:"example,omitempty"`

	// AdditionalProperties can be a schema for map values.
	AdditionalProperties *Schema `json:"additionalProperties,omitempty"`
}

// Int returns a pointer to n, for schema length and item bounds.
func Int(n int) *int { return &n }

// Float returns a pointer to f, for schema numeric bounds.
func Float(f float64) *float64 { return &f }

// String returns a string schema with an optional minimum length.
func String(minLength ...int) *Schema {
	s := &Schema{Type: "string"}
	if len(minLength) > 0 {
		s.MinLength = Int(minLength[0])
	}
	return s
}
