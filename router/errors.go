package router

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// StatusCoder is implemented by errors that carry an HTTP status code.
type StatusCoder interface {
	StatusCode() int
}

// HTTPError is an error with an HTTP status code.
type HTTPError struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// Error returns the error message.
func (e *HTTPError) Error() string { return e.Message }

// StatusCode returns the HTTP status code.
func (e *HTTPError) StatusCode() int { return e.Status }

// Error returns an error with the given HTTP status code and message.
func Error(status int, message string) error {
	return &HTTPError{Status: status, Message: message}
}

// Errorf returns a formatted error with the given HTTP status code.
func Errorf(status int, format string, args ...any) error {
	return &HTTPError{Status: status, Message: fmt.Sprintf(format, args...)}
}

// ErrorStatus extracts the HTTP status code from an error. Returns
// http.StatusInternalServerError if the error does not implement StatusCoder.
func ErrorStatus(err error) int {
	var sc StatusCoder
	if errors.As(err, &sc) {
		return sc.StatusCode()
	}
	return http.StatusInternalServerError
}

// ProblemDetail is an RFC 9457 problem details response.
//
//nolint:errname // RFC 9457 standard name
type ProblemDetail struct {
	Type     string `json:"type,omitempty"`
	Title    string `json:"title,omitempty"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
}

// Error returns the detail message (or title if detail is empty).
func (p *ProblemDetail) Error() string {
	if p.Detail != "" {
		return p.Detail
	}
	return p.Title
}

// StatusCode returns the HTTP status code.
func (p *ProblemDetail) StatusCode() int { return p.Status }

// ErrorHandler turns an error raised inside a chain into a response.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// DefaultErrorHandler writes err as application/problem+json.
func DefaultErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	var pd *ProblemDetail
	if !errors.As(err, &pd) {
		status := ErrorStatus(err)
		pd = &ProblemDetail{
			Type:     "about:blank",
			Title:    http.StatusText(status),
			Status:   status,
			Detail:   err.Error(),
			Instance: r.URL.Path,
		}
	}

	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(pd.Status)
	//nolint:errcheck,errchkjson,gosec // best-effort after WriteHeader
	json.NewEncoder(w).Encode(pd)
}

type errorHandlerKey struct{}

// Fail hands err to the error handler of the router serving r. The caller
// must not call the rest of its chain afterwards. Outside a router, Fail uses
// DefaultErrorHandler.
func Fail(w http.ResponseWriter, r *http.Request, err error) {
	if h, ok := r.Context().Value(errorHandlerKey{}).(ErrorHandler); ok {
		h(w, r, err)
		return
	}
	DefaultErrorHandler(w, r, err)
}

func withErrorHandler(ctx context.Context, h ErrorHandler) context.Context {
	if _, ok := ctx.Value(errorHandlerKey{}).(ErrorHandler); ok {
		return ctx
	}
	return context.WithValue(ctx, errorHandlerKey{}, h)
}
