package router

import (
	"context"
	"maps"
	"net/http"
)

type paramsKey struct{}

// Params returns the path parameters captured for the layer currently serving
// r, including those captured by enclosing mounts. The map must not be modified.
func Params(r *http.Request) map[string]string {
	p, _ := r.Context().Value(paramsKey{}).(map[string]string)
	return p
}

// Param returns a single path parameter, or "" if it was not captured.
func Param(r *http.Request, name string) string {
	return Params(r)[name]
}

// withParams returns r carrying params.
func withParams(r *http.Request, params map[string]string) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), paramsKey{}, params))
}

// mergeParams returns base extended with values. base is not modified.
func mergeParams(base, values map[string]string) map[string]string {
	if len(values) == 0 {
		return base
	}
	out := make(map[string]string, len(base)+len(values))
	maps.Copy(out, base)
	maps.Copy(out, values)
	return out
}

type contextKey[T any] struct{}

// SetValue stores a typed value in the request context. For use in middleware.
func SetValue[T any](r *http.Request, val T) *http.Request {
	ctx := context.WithValue(r.Context(), contextKey[T]{}, val)
	return r.WithContext(ctx)
}

// GetValue retrieves a typed value from the request context. For use in handlers.
func GetValue[T any](ctx context.Context) (T, bool) {
	val, ok := ctx.Value(contextKey[T]{}).(T)
	return val, ok
}
