package oas_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bjaus/apiop/oas"
)

func TestMerge(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		base    oas.Operation
		overlay oas.Operation
		expect  oas.Operation
	}{
		"tags concatenate": {
			base:    oas.Operation{Tags: []string{"A"}},
			overlay: oas.Operation{Tags: []string{"B"}},
			expect:  oas.Operation{Tags: []string{"A", "B"}},
		},
		"duplicate tags kept": {
			base:    oas.Operation{Tags: []string{"A"}},
			overlay: oas.Operation{Tags: []string{"A"}},
			expect:  oas.Operation{Tags: []string{"A", "A"}},
		},
		"responses overlay wins per code": {
			base: oas.Operation{Responses: oas.Responses{
				"404": {Description: "a"},
			}},
			overlay: oas.Operation{Responses: oas.Responses{
				"404": {Description: "b"},
				"410": {Description: "c"},
			}},
			expect: oas.Operation{Responses: oas.Responses{
				"404": {Description: "b"},
				"410": {Description: "c"},
			}},
		},
		"responses from both sides pass through": {
			base:    oas.Operation{Responses: oas.Responses{"200": {Description: "ok"}}},
			overlay: oas.Operation{Responses: oas.Responses{"418": {Description: "teapot"}}},
			expect: oas.Operation{Responses: oas.Responses{
				"200": {Description: "ok"},
				"418": {Description: "teapot"},
			}},
		},
		"parameters concatenate without dedup": {
			base: oas.Operation{Parameters: []oas.Parameter{
				{Name: "id", In: oas.InPath, Required: true},
			}},
			overlay: oas.Operation{Parameters: []oas.Parameter{
				{Name: "id", In: oas.InPath, Required: true},
			}},
			expect: oas.Operation{Parameters: []oas.Parameter{
				{Name: "id", In: oas.InPath, Required: true},
				{Name: "id", In: oas.InPath, Required: true},
			}},
		},
		"overlay scalar replaces base": {
			base:    oas.Operation{Summary: "outer", Description: "outer"},
			overlay: oas.Operation{Summary: "inner"},
			expect:  oas.Operation{Summary: "inner", Description: "outer"},
		},
		"overlay request body replaces base": {
			base: oas.Operation{RequestBody: &oas.RequestBody{Description: "old"}},
			overlay: oas.Operation{RequestBody: &oas.RequestBody{
				Description: "new",
			}},
			expect: oas.Operation{RequestBody: &oas.RequestBody{Description: "new"}},
		},
		"extensions overlay wins per key": {
			base:    oas.Operation{Extensions: map[string]any{"x-a": 1, "x-b": 1}},
			overlay: oas.Operation{Extensions: map[string]any{"x-b": 2}},
			expect:  oas.Operation{Extensions: map[string]any{"x-a": 1, "x-b": 2}},
		},
		"empty overlay keeps base": {
			base:    oas.Operation{Tags: []string{"A"}, OperationID: "op", Deprecated: true},
			overlay: oas.Operation{},
			expect:  oas.Operation{Tags: []string{"A"}, OperationID: "op", Deprecated: true},
		},
		"both empty": {
			expect: oas.Operation{},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expect, oas.Merge(tc.base, tc.overlay))
		})
	}
}

func TestMerge_does_not_mutate_inputs(t *testing.T) {
	t.Parallel()

	base := oas.Operation{
		Tags:      make([]string, 1, 8),
		Responses: oas.Responses{"200": {Description: "ok"}},
	}
	base.Tags[0] = "A"
	overlay := oas.Operation{
		Tags:      []string{"B"},
		Responses: oas.Responses{"404": {Description: "missing"}},
	}

	merged := oas.Merge(base, overlay)
	merged.Tags[0] = "changed"
	merged.Responses["500"] = oas.Response{Description: "boom"}

	other := oas.Merge(base, oas.Operation{Tags: []string{"C"}})

	assert.Equal(t, []string{"A"}, base.Tags)
	assert.Equal(t, []string{"A", "C"}, other.Tags)
	assert.Len(t, base.Responses, 1)
	assert.Len(t, overlay.Responses, 1)
}

func TestClone(t *testing.T) {
	t.Parallel()

	op := oas.Operation{Tags: []string{"A"}, Responses: oas.Responses{"200": {}}}
	c := oas.Clone(op)
	c.Tags[0] = "B"
	c.Responses["201"] = oas.Response{}

	assert.Equal(t, []string{"A"}, op.Tags)
	assert.Len(t, op.Responses, 1)
}
