package apiop_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjaus/apiop/oas"
	"github.com/bjaus/apiop/openapi"
)

func TestPaths_app(t *testing.T) {
	t.Parallel()

	got := openapi.Collect(newApp().Stack())

	want := openapi.Paths{
		"/with-path-parameter/{something}": {
			"get": {Parameters: []oas.Parameter{{In: oas.InPath, Name: "something", Schema: minLen3()}}},
		},
		"/with-required-header": {
			"get": {Parameters: []oas.Parameter{{In: oas.InHeader, Name: "x-something", Required: true, Schema: minLen3()}}},
		},
		"/with-optional-header": {
			"get": {Parameters: []oas.Parameter{{In: oas.InHeader, Name: "x-something", Schema: minLen3()}}},
		},
		"/with-required-query-parameter": {
			"get": {Parameters: []oas.Parameter{{In: oas.InQuery, Name: "something", Required: true, Schema: minLen3()}}},
		},
		"/with-optional-query-parameter": {
			"get": {Parameters: []oas.Parameter{{In: oas.InQuery, Name: "something", Schema: minLen3()}}},
		},
		"/with-body": {
			"put": {RequestBody: withBody()},
		},
		"/nested-root/{something}/nested-route/{something_else}": {
			"get": {
				Tags:    []string{"Nested root", "Nested route"},
				Summary: "Nested route",
				Parameters: []oas.Parameter{
					{In: oas.InPath, Name: "something", Required: true, Schema: minLen3()},
					{In: oas.InPath, Name: "something_else", Required: true, Schema: minLen3()},
				},
				Responses: oas.Responses{
					"410": {Description: "Dummy response"},
					"418": {Description: "Dummy response"},
				},
			},
		},
		`/.#$-\$`: {
			"get": {Tags: []string{"Special"}, Summary: "Route with special characters"},
		},
		"/chained-operation/something": {
			"get": {
				Description: "Chained operation",
				Tags:        []string{"Chained operation 0", "Chained operation 1", "Chained operation 3", "Chained operation 4"},
			},
		},
	}

	require.Len(t, got, len(want))
	for path, ops := range want {
		assert.Equal(t, ops, got[path], path)
	}
}

func TestPaths_appDocumentChecks(t *testing.T) {
	t.Parallel()

	doc := openapi.NewGenerator(openapi.WithTitle("Fixture")).Document(newApp())

	assert.Contains(t, doc.Paths, "/chained-operation/something")
	assert.NotContains(t, doc.Paths, "/nonroute/{something}")

	// The fixture declares no responses, which the document check flags.
	issues, err := openapi.Check(doc)
	require.NoError(t, err)
	assert.NotEmpty(t, issues)
}
