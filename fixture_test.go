package apiop_test

import (
	"net/http"

	"github.com/bjaus/apiop"
	"github.com/bjaus/apiop/oas"
	"github.com/bjaus/apiop/router"
)

var ok = router.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func minLen3() *oas.Schema { return oas.String(3) }

// newApp builds a service covering every declaration style: route chains,
// use layers, mounts and cascaded operations.
func newApp() *router.Router {
	app := router.New(router.WithErrorHandler(apiop.ErrorHandler))

	app.UseAt("/nonroute/:something", apiop.Operation(oas.Operation{
		Parameters: []oas.Parameter{{In: oas.InPath, Name: "something", Required: true}},
	}), ok)

	app.Get("/with-path-parameter/:something", apiop.Operation(oas.Operation{
		Parameters: []oas.Parameter{{In: oas.InPath, Name: "something", Schema: minLen3()}},
	}), ok)

	app.Get("/with-required-header", apiop.Operation(oas.Operation{
		Parameters: []oas.Parameter{{In: oas.InHeader, Name: "x-something", Required: true, Schema: minLen3()}},
	}), ok)

	app.Get("/with-optional-header", apiop.Operation(oas.Operation{
		Parameters: []oas.Parameter{{In: oas.InHeader, Name: "x-something", Schema: minLen3()}},
	}), ok)

	app.Get("/with-required-query-parameter", apiop.Operation(oas.Operation{
		Parameters: []oas.Parameter{{In: oas.InQuery, Name: "something", Required: true, Schema: minLen3()}},
	}), ok)

	app.Get("/with-optional-query-parameter", apiop.Operation(oas.Operation{
		Parameters: []oas.Parameter{{In: oas.InQuery, Name: "something", Schema: minLen3()}},
	}), ok)

	app.Put("/with-body", apiop.Operation(oas.Operation{
		RequestBody: withBody(),
	}), ok)

	nested := router.New()
	nested.Get("/nested-route/:something_else", apiop.Operation(oas.Operation{
		Tags:       []string{"Nested route"},
		Summary:    "Nested route",
		Parameters: []oas.Parameter{{In: oas.InPath, Name: "something_else", Required: true, Schema: minLen3()}},
		Responses:  oas.Responses{"418": {Description: "Dummy response"}},
	}), ok)

	app.UseAt("/nested-root/:something", apiop.Operation(oas.Operation{
		Tags:       []string{"Nested root"},
		Summary:    "Nested root",
		Parameters: []oas.Parameter{{In: oas.InPath, Name: "something", Required: true, Schema: minLen3()}},
		Responses:  oas.Responses{"410": {Description: "Dummy response"}},
	}))
	app.Mount("/nested-root/:something", nested)

	app.Get(`/.#$-\$`, apiop.Operation(oas.Operation{
		Tags:    []string{"Special"},
		Summary: "Route with special characters",
	}), ok)

	app.UseAt("/chained-operation/something/", apiop.Operation(oas.Operation{Tags: []string{"Chained operation 0"}}))
	app.UseAt("/chained-operation/something", apiop.Operation(oas.Operation{Tags: []string{"Chained operation 1"}}))
	app.UseAt("/chained-operation/something/something_else", apiop.Operation(oas.Operation{Tags: []string{"Chained operation 2"}}))
	chained := router.New()
	chained.UseAt("/something", apiop.Operation(oas.Operation{Tags: []string{"Chained operation 3"}}))
	app.Mount("/chained-operation/", chained)
	app.UseAt("/chained-operation/", apiop.Operation(oas.Operation{Tags: []string{"Chained operation 4"}}))
	app.Get("/chained-operation/something", apiop.Operation(oas.Operation{Description: "Chained operation"}), ok)

	return app
}

func withBody() *oas.RequestBody {
	return &oas.RequestBody{
		Content: map[string]oas.MediaType{
			"application/json": {Schema: &oas.Schema{
				Type:       "object",
				Properties: map[string]oas.Schema{"something": *minLen3()},
				Required:   []string{"something"},
			}},
		},
	}
}
