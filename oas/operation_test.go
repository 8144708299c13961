package oas_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjaus/apiop/oas"
)

func TestOperation_MarshalJSON(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		op     oas.Operation
		expect string
	}{
		"empty": {
			op:     oas.Operation{},
			expect: `{}`,
		},
		"known fields": {
			op: oas.Operation{
				Tags:    []string{"Lab"},
				Summary: "List labs",
				Parameters: []oas.Parameter{{
					In:     oas.InPath,
					Name:   "lab",
					Schema: oas.String(1),
				}},
			},
			expect: `{
				"tags": ["Lab"],
				"summary": "List labs",
				"parameters": [{"in": "path", "name": "lab", "schema": {"type": "string", "minLength": 1}}]
			}`,
		},
		"extensions inline": {
			op: oas.Operation{
				Summary:    "s",
				Extensions: map[string]any{"x-internal": true, "externalDocs": map[string]any{"url": "https://example.com"}},
			},
			expect: `{"summary": "s", "x-internal": true, "externalDocs": {"url": "https://example.com"}}`,
		},
		"known field wins over extension": {
			op: oas.Operation{
				Summary:    "real",
				Extensions: map[string]any{"summary": "shadow"},
			},
			expect: `{"summary": "real"}`,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := json.Marshal(tc.op)
			require.NoError(t, err)
			assert.JSONEq(t, tc.expect, string(got))
		})
	}
}

func TestOperation_UnmarshalJSON(t *testing.T) {
	t.Parallel()

	var op oas.Operation
	err := json.Unmarshal([]byte(`{
		"tags": ["Instance"],
		"responses": {"404": {"description": "missing"}},
		"x-rate-limit": 10
	}`), &op)
	require.NoError(t, err)

	assert.Equal(t, []string{"Instance"}, op.Tags)
	assert.Equal(t, "missing", op.Responses["404"].Description)
	assert.Equal(t, map[string]any{"x-rate-limit": float64(10)}, op.Extensions)
}

func TestOperation_UnmarshalJSON_no_extensions(t *testing.T) {
	t.Parallel()

	var op oas.Operation
	require.NoError(t, json.Unmarshal([]byte(`{"summary":"s"}`), &op))
	assert.Nil(t, op.Extensions)
	assert.Equal(t, "s", op.Summary)
}
