package openapi

import (
	"encoding/json"
	"fmt"

	"github.com/erraggy/oastools/parser"
	"github.com/erraggy/oastools/validator"
)

// Issue is a structural problem found in a generated document.
type Issue struct {
	Path    string
	Message string
}

// String returns the issue as "path: message".
func (i Issue) String() string {
	if i.Path == "" {
		return i.Message
	}
	return i.Path + ": " + i.Message
}

// Check validates doc against the OpenAPI specification and returns every
// structural error found. A nil slice means the document is valid. The error
// is non-nil only when the document could not be checked at all.
//
// Declarations usually omit responses on shared use-layer operations, so a
// route whose merged operation still has none shows up here as an issue.
func Check(doc Document) ([]Issue, error) {
	b, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("openapi: encode document: %w", err)
	}

	parsed, err := parser.ParseWithOptions(parser.WithBytes(b))
	if err != nil {
		return nil, fmt.Errorf("openapi: parse document: %w", err)
	}

	res, err := validator.ValidateWithOptions(
		validator.WithParsed(*parsed),
		validator.WithIncludeWarnings(false),
	)
	if err != nil {
		return nil, fmt.Errorf("openapi: validate document: %w", err)
	}

	var issues []Issue
	for _, e := range res.Errors {
		issues = append(issues, Issue{Path: e.Path, Message: e.Message})
	}
	return issues, nil
}
