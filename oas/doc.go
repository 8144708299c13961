// Package oas models the OpenAPI operation objects that route handlers declare,
// and the rule for combining cascaded declarations.
//
// A route's effective operation is built by folding Merge over every operation
// in scope, outermost first:
//
//	op := oas.Merge(groupOp, routeOp)
//
// Tags and parameters accumulate, responses union by status code, and every
// other field is replaced by the later declaration.
package oas
