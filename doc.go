// Package apiop declares OpenAPI operations on routes and keeps the declaration
// and the running service in agreement.
//
// An operation is declared once, as a chain unit, next to the handler it
// describes:
//
//	r := router.New(router.WithErrorHandler(apiop.ErrorHandler))
//	r.Get("/labs/:lab", apiop.Operation(oas.Operation{
//	    Summary:    "Get lab",
//	    Parameters: []oas.Parameter{{In: oas.InPath, Name: "lab", Schema: oas.String(1)}},
//	}), router.HandlerFunc(getLab))
//
// At request time the unit validates parameters and body against the
// declaration and fails the request with a *ValidationError when they do not
// conform. The same declarations, read back from the router, produce the
// OpenAPI document:
//
//	doc := openapi.NewGenerator(openapi.WithTitle("Labs")).Document(r)
//
// Declarations registered with router.UseAt apply to every route registered
// after them below their path, so tags, parameters and responses common to a
// group of routes are written once.
package apiop
