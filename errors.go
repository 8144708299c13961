package apiop

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/bjaus/apiop/router"
	"github.com/bjaus/apiop/validate"
)

// Values of ValidationError.Name and ValidationError.Message.
const (
	ValidationErrorName    = "OpenAPIValidationError"
	ValidationErrorMessage = "OpenAPIValidationError: Invalid data found"
)

// ValidationError is raised through router.Fail when a request does not
// conform to its declared operation.
type ValidationError struct {
	Name    string
	Message string
	Errors  []validate.Finding
	Status  int
}

// Error returns the error message.
func (e *ValidationError) Error() string { return e.Message }

// StatusCode returns the HTTP status code, 400 unless set.
func (e *ValidationError) StatusCode() int {
	if e.Status == 0 {
		return http.StatusBadRequest
	}
	return e.Status
}

// ErrorHandler writes a *ValidationError as its JSON findings array with the
// error's status. Other errors go to router.DefaultErrorHandler.
func ErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	var verr *ValidationError
	if !errors.As(err, &verr) {
		router.DefaultErrorHandler(w, r, err)
		return
	}

	findings := verr.Errors
	if findings == nil {
		findings = []validate.Finding{}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(verr.StatusCode())
	//nolint:errcheck,errchkjson,gosec // best-effort after WriteHeader
	json.NewEncoder(w).Encode(findings)
}
