package oas

import (
	"maps"
	"slices"
)

// Merge combines two operations into a new one. Overlay fields replace base
// fields, except:
//
//   - Tags and Parameters are concatenated (base first), duplicates kept.
//   - Responses are unioned by status code; overlay wins per code.
//   - Extensions are unioned by key; overlay wins per key.
//
// Neither input is modified, and the result shares no slices or maps with them.
func Merge(base, overlay Operation) Operation {
	out := base

	out.Tags = concat(base.Tags, overlay.Tags)
	out.Parameters = concat(base.Parameters, overlay.Parameters)
	out.Responses = union(base.Responses, overlay.Responses)
	out.Extensions = union(base.Extensions, overlay.Extensions)

	if overlay.Summary != "" {
		out.Summary = overlay.Summary
	}
	if overlay.Description != "" {
		out.Description = overlay.Description
	}
	if overlay.OperationID != "" {
		out.OperationID = overlay.OperationID
	}
	if overlay.RequestBody != nil {
		out.RequestBody = overlay.RequestBody
	}
	if overlay.Deprecated {
		out.Deprecated = true
	}

	return out
}

func concat[T any](a, b []T) []T {
	if a == nil && b == nil {
		return nil
	}
	out := make([]T, 0, len(a)+len(b))
	out = append(out, a...)
	return append(out, b...)
}

func union[M ~map[string]V, V any](a, b M) M {
	if a == nil && b == nil {
		return nil
	}
	out := make(M, len(a)+len(b))
	maps.Copy(out, a)
	maps.Copy(out, b)
	return out
}

// Clone returns a copy of op that shares no top-level slices or maps with it.
func Clone(op Operation) Operation {
	out := op
	out.Tags = slices.Clone(op.Tags)
	out.Parameters = slices.Clone(op.Parameters)
	out.Responses = maps.Clone(op.Responses)
	out.Extensions = maps.Clone(op.Extensions)
	return out
}
