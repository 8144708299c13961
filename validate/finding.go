package validate

import (
	"slices"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/santhosh-tekuri/jsonschema/v6/kind"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Request locations reported in findings.
const (
	LocationPath    = "path"
	LocationQuery   = "query"
	LocationHeaders = "headers"
	LocationCookie  = "cookie"
	LocationBody    = "body"
)

const codeSuffix = ".openapi.validation"

// Finding is a single violation.
type Finding struct {
	Code     string `json:"errorCode"`
	Location string `json:"location"`
	Message  string `json:"message"`
	Path     string `json:"path"`
}

// Result holds the findings of a failed validation.
type Result struct {
	Status   int
	Findings []Finding
}

var printer = message.NewPrinter(language.English)

// findings flattens a validation error tree into leaf findings.
func findings(location string, err *jsonschema.ValidationError) []Finding {
	if len(err.Causes) > 0 {
		var out []Finding
		for _, c := range err.Causes {
			out = append(out, findings(location, c)...)
		}
		return out
	}

	keyword := "schema"
	if kp := err.ErrorKind.KeywordPath(); len(kp) > 0 {
		keyword = kp[len(kp)-1]
	}

	if req, ok := err.ErrorKind.(*kind.Required); ok {
		out := make([]Finding, len(req.Missing))
		for i, name := range req.Missing {
			out[i] = Finding{
				Code:     keyword + codeSuffix,
				Location: location,
				Message:  printer.Sprintf("should have required property '%s'", name),
				Path:     joinPath(slices.Concat(err.InstanceLocation, []string{name})),
			}
		}
		return out
	}

	return []Finding{{
		Code:     keyword + codeSuffix,
		Location: location,
		Message:  describe(err.ErrorKind),
		Path:     joinPath(err.InstanceLocation),
	}}
}

func describe(k jsonschema.ErrorKind) string {
	switch k := k.(type) {
	case *kind.MinLength:
		return printer.Sprintf("should NOT be shorter than %d characters", k.Want)
	case *kind.MaxLength:
		return printer.Sprintf("should NOT be longer than %d characters", k.Want)
	case *kind.Type:
		return printer.Sprintf("should be %s", strings.Join(k.Want, ","))
	default:
		return k.LocalizedString(printer)
	}
}

func joinPath(loc []string) string {
	return strings.Join(loc, ".")
}
