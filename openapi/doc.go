// Package openapi builds OpenAPI documents from a router's live layer tree.
//
// Handlers that implement Describer contribute their operation to the
// document. A describer mounted as a use layer applies to every route
// registered after it at or below its path:
//
//	r.UseAt("/labs", apiop.Operation(oas.Operation{Tags: []string{"Lab"}}))
//	r.Get("/labs/:lab", apiop.Operation(getLab), router.HandlerFunc(handleGetLab))
//
//	paths := openapi.Collect(r.Stack())
//	// paths["/labs/{lab}"]["get"].Tags == ["Lab", ...]
//
// Generator wraps the paths in a complete document, and ServeSpec exposes it
// over HTTP.
package openapi
