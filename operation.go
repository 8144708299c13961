package apiop

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/bjaus/apiop/oas"
	"github.com/bjaus/apiop/openapi"
	"github.com/bjaus/apiop/router"
	"github.com/bjaus/apiop/validate"
)

// DefaultMaxBodySize is the largest request body read for validation.
const DefaultMaxBodySize = 1 << 20

// Handler is a chain unit that declares an OpenAPI operation and validates
// requests against it.
type Handler struct {
	op          oas.Operation
	validator   *validate.Validator
	metrics     *Metrics
	maxBodySize int64
}

var (
	_ router.Handler    = (*Handler)(nil)
	_ openapi.Describer = (*Handler)(nil)
)

// Option configures a Handler.
type Option func(*Handler)

// WithMetrics records validation outcomes in m.
func WithMetrics(m *Metrics) Option {
	return func(h *Handler) {
		h.metrics = m
	}
}

// WithMaxBodySize sets the largest request body read for validation.
// Larger bodies fail with 413.
func WithMaxBodySize(n int64) Option {
	return func(h *Handler) {
		h.maxBodySize = n
	}
}

// Operation declares op for the chain it is placed in. Registered as a use
// layer, it applies to every route below its path; in a route chain, to that
// route. It panics if op's schemas do not compile.
func Operation(op oas.Operation, opts ...Option) *Handler {
	v, err := validate.New(op)
	if err != nil {
		panic(fmt.Sprintf("apiop: %v", err))
	}

	h := &Handler{
		op:          op,
		validator:   v,
		maxBodySize: DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Operation returns a copy of the declared operation.
func (h *Handler) Operation() *oas.Operation {
	op := oas.Clone(h.op)
	return &op
}

// Wrap implements router.Handler.
func (h *Handler) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r = r.WithContext(context.WithValue(r.Context(), operationKey{}, h.Operation()))

		req, err := h.normalize(r)
		if err != nil {
			router.Fail(w, r, err)
			return
		}

		if res := h.validator.Validate(req); res != nil {
			h.metrics.rejected(res.Findings)
			router.Fail(w, r, &ValidationError{
				Name:    ValidationErrorName,
				Message: ValidationErrorMessage,
				Errors:  res.Findings,
				Status:  res.Status,
			})
			return
		}

		h.metrics.accepted()
		next.ServeHTTP(w, r)
	})
}

// normalize collects the request data the validator checks. A body is
// buffered and restored on r so later handlers can read it.
func (h *Handler) normalize(r *http.Request) (validate.Request, error) {
	req := validate.Request{
		Method:      r.Method,
		Params:      router.Params(r),
		Query:       r.URL.Query(),
		Header:      r.Header,
		ContentType: r.Header.Get("Content-Type"),
	}

	if cookies := r.Cookies(); len(cookies) > 0 {
		req.Cookies = make(map[string]string, len(cookies))
		for _, c := range cookies {
			req.Cookies[c.Name] = c.Value
		}
	}

	if r.Body == nil || r.Body == http.NoBody {
		return req, nil
	}

	b, err := io.ReadAll(io.LimitReader(r.Body, h.maxBodySize+1))
	_ = r.Body.Close()
	if err != nil {
		return req, router.Errorf(http.StatusBadRequest, "read body: %v", err)
	}
	if int64(len(b)) > h.maxBodySize {
		return req, router.Error(http.StatusRequestEntityTooLarge, http.StatusText(http.StatusRequestEntityTooLarge))
	}
	r.Body = io.NopCloser(bytes.NewReader(b))

	if len(b) == 0 {
		return req, nil
	}

	if !isJSON(req.ContentType) {
		req.Body = string(b)
		return req, nil
	}

	body, err := jsonschema.UnmarshalJSON(bytes.NewReader(b))
	if err != nil {
		return req, router.Errorf(http.StatusBadRequest, "invalid JSON body: %v", err)
	}
	req.Body = body
	return req, nil
}

// isJSON reports whether contentType is JSON. An empty content type is
// treated as JSON.
func isJSON(contentType string) bool {
	if contentType == "" {
		return true
	}
	media, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return media == "application/json" || strings.HasSuffix(media, "+json")
}

type operationKey struct{}

// OperationFrom returns a copy of the operation declared by the innermost
// Operation handler that has run for the request.
func OperationFrom(ctx context.Context) (*oas.Operation, bool) {
	op, ok := ctx.Value(operationKey{}).(*oas.Operation)
	return op, ok
}
