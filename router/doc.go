// Package router is an ordered-stack HTTP router.
//
// A Router holds layers in registration order. Each layer is one of:
//
//   - a route: an exact path bound to per-method handler chains
//   - a mount: a nested Router under a path prefix
//   - a use: a single handler applied to every method at or below a prefix
//
// Requests walk the stack from the top. A matching layer runs its chain; a
// unit that calls next hands the request to the rest of the chain and then to
// the next matching layer. Paths use the express-style syntax ":name",
// ":name?", ":name*", ":name(regex)" and "*":
//
//	r := router.New()
//	r.Use(router.RequestID(), router.Logger(slog.Default()))
//	r.Get("/users/:id", router.HandlerFunc(getUser))
//
//	admin := router.New()
//	admin.Delete("/users/:id", router.HandlerFunc(deleteUser))
//	r.Mount("/admin", admin)
//
// Units report errors with Fail, which defers to the router's ErrorHandler.
package router
