package oas_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjaus/apiop/oas"
)

type lab struct {
	Name    string            `json:"name" required:"true" minLength:"1" doc:"Lab name"`
	Rev     string            `json:"_rev,omitempty" pattern:"^[0-9]+-[a-f0-9]+$"`
	Size    int               `json:"size" minimum:"0" maximum:"64"`
	Kind    string            `json:"kind" enum:"small,large"`
	Tags    []string          `json:"tags" maxItems:"4"`
	Labels  map[string]string `json:"labels"`
	Created time.Time         `json:"created"`
	Secret  string            `json:"-"`
	hidden  string
}

func TestSchemaFor(t *testing.T) {
	t.Parallel()

	s := oas.SchemaFor[lab]()
	require.NotNil(t, s)

	assert.Equal(t, "object", s.Type)
	assert.Equal(t, []string{"name"}, s.Required)
	assert.NotContains(t, s.Properties, "Secret")
	assert.NotContains(t, s.Properties, "hidden")

	name := s.Properties["name"]
	assert.Equal(t, "string", name.Type)
	assert.Equal(t, "Lab name", name.Description)
	require.NotNil(t, name.MinLength)
	assert.Equal(t, 1, *name.MinLength)

	assert.Equal(t, "^[0-9]+-[a-f0-9]+$", s.Properties["_rev"].Pattern)

	size := s.Properties["size"]
	assert.Equal(t, "integer", size.Type)
	require.NotNil(t, size.Minimum)
	require.NotNil(t, size.Maximum)
	assert.InDelta(t, 0, *size.Minimum, 0)
	assert.InDelta(t, 64, *size.Maximum, 0)

	assert.Equal(t, []any{"small", "large"}, s.Properties["kind"].Enum)

	tags := s.Properties["tags"]
	assert.Equal(t, "array", tags.Type)
	require.NotNil(t, tags.Items)
	assert.Equal(t, "string", tags.Items.Type)
	assert.Equal(t, 4, *tags.MaxItems)

	labels := s.Properties["labels"]
	assert.Equal(t, "object", labels.Type)
	require.NotNil(t, labels.AdditionalProperties)

	assert.Equal(t, oas.Schema{Type: "string", Format: "date-time"}, s.Properties["created"])
}

func TestSchemaOf_scalars(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		schema *oas.Schema
		expect oas.Schema
	}{
		"string":  {schema: oas.SchemaFor[string](), expect: oas.Schema{Type: "string"}},
		"bool":    {schema: oas.SchemaFor[bool](), expect: oas.Schema{Type: "boolean"}},
		"int":     {schema: oas.SchemaFor[int64](), expect: oas.Schema{Type: "integer"}},
		"float":   {schema: oas.SchemaFor[float32](), expect: oas.Schema{Type: "number"}},
		"bytes":   {schema: oas.SchemaFor[[]byte](), expect: oas.Schema{Type: "string", Format: "byte"}},
		"pointer": {schema: oas.SchemaFor[*string](), expect: oas.Schema{Type: "string"}},
		"int map": {schema: oas.SchemaFor[map[int]string](), expect: oas.Schema{Type: "object"}},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expect, *tc.schema)
		})
	}
}
