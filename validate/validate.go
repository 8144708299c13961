package validate

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"mime"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/bjaus/apiop/oas"
)

// Request is the normalized request data checked by a Validator.
type Request struct {
	Method      string
	Params      map[string]string
	Query       url.Values
	Header      http.Header
	Cookies     map[string]string
	ContentType string
	Body        any // decoded JSON value; nil when absent
}

// Validator checks requests against one operation.
type Validator struct {
	params       []*location
	body         *oas.RequestBody
	bodySchemas  map[string]*jsonschema.Schema
	defaultMedia string
}

// location is the compiled object schema for one parameter location.
type location struct {
	name   string
	in     string
	schema *jsonschema.Schema
	params map[string]*oas.Schema
}

// Order in which locations are checked and reported.
var locations = []struct{ in, name string }{
	{oas.InPath, LocationPath},
	{oas.InHeader, LocationHeaders},
	{oas.InQuery, LocationQuery},
	{oas.InCookie, LocationCookie},
}

// New compiles the parameter and request body schemas of op.
func New(op oas.Operation) (*Validator, error) {
	v := &Validator{body: op.RequestBody}
	c := jsonschema.NewCompiler()

	for _, loc := range locations {
		obj, params := objectSchema(op.Parameters, loc.in)
		if obj == nil {
			continue
		}
		s, err := compile(c, loc.name, obj)
		if err != nil {
			return nil, err
		}
		v.params = append(v.params, &location{name: loc.name, in: loc.in, schema: s, params: params})
	}

	if op.RequestBody != nil {
		v.bodySchemas = make(map[string]*jsonschema.Schema, len(op.RequestBody.Content))
		for _, media := range slices.Sorted(maps.Keys(op.RequestBody.Content)) {
			mt := op.RequestBody.Content[media]
			if mt.Schema == nil {
				continue
			}
			s, err := compile(c, "body/"+url.PathEscape(media), mt.Schema)
			if err != nil {
				return nil, err
			}
			v.bodySchemas[media] = s
			if v.defaultMedia == "" || media == "application/json" {
				v.defaultMedia = media
			}
		}
	}

	return v, nil
}

// Validate checks req and returns nil when it conforms.
func (v *Validator) Validate(req Request) *Result {
	var out []Finding

	for _, loc := range v.params {
		inst := loc.instance(req)
		if err := loc.schema.Validate(inst); err != nil {
			out = append(out, schemaFindings(loc.name, err)...)
		}
	}

	out = append(out, v.validateBody(req)...)

	if len(out) == 0 {
		return nil
	}
	return &Result{Status: http.StatusBadRequest, Findings: out}
}

func (v *Validator) validateBody(req Request) []Finding {
	if v.body == nil {
		return nil
	}
	if req.Body == nil {
		if !v.body.Required {
			return nil
		}
		return []Finding{{
			Code:     "required" + codeSuffix,
			Location: LocationBody,
			Message:  printer.Sprintf("should have required property '%s'", "body"),
			Path:     "body",
		}}
	}

	s := v.bodySchema(req.ContentType)
	if s == nil {
		return nil
	}
	if err := s.Validate(req.Body); err != nil {
		return schemaFindings(LocationBody, err)
	}
	return nil
}

// bodySchema picks the schema for contentType: an exact media type match,
// then a wildcard entry. Without a content type the default media type is used.
func (v *Validator) bodySchema(contentType string) *jsonschema.Schema {
	if contentType == "" {
		return v.bodySchemas[v.defaultMedia]
	}
	media, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return nil
	}
	if s, ok := v.bodySchemas[media]; ok {
		return s
	}
	if i := strings.IndexByte(media, '/'); i > 0 {
		if s, ok := v.bodySchemas[media[:i]+"/*"]; ok {
			return s
		}
	}
	return v.bodySchemas["*/*"]
}

// instance builds the object validated for the location, with string inputs
// coerced to each parameter's declared type.
func (loc *location) instance(req Request) map[string]any {
	inst := make(map[string]any)
	for name, schema := range loc.params {
		var raw []string
		switch loc.in {
		case oas.InPath:
			if val, ok := req.Params[name]; ok {
				raw = []string{val}
			}
		case oas.InQuery:
			raw = req.Query[name]
		case oas.InHeader:
			raw = req.Header.Values(name)
		case oas.InCookie:
			if val, ok := req.Cookies[name]; ok {
				raw = []string{val}
			}
		}
		if len(raw) == 0 {
			continue
		}
		inst[name] = coerce(schema, raw, loc.in == oas.InHeader)
	}
	return inst
}

// objectSchema collects the parameters declared in `in` into a single object
// schema. Header names are lower-cased.
func objectSchema(params []oas.Parameter, in string) (*oas.Schema, map[string]*oas.Schema) {
	var (
		obj   *oas.Schema
		byKey map[string]*oas.Schema
	)
	for _, p := range params {
		if p.In != in {
			continue
		}
		if obj == nil {
			obj = &oas.Schema{Type: "object", Properties: map[string]oas.Schema{}}
			byKey = map[string]*oas.Schema{}
		}

		name := p.Name
		if in == oas.InHeader {
			name = strings.ToLower(name)
		}

		schema := oas.Schema{}
		if p.Schema != nil {
			schema = *p.Schema
		}
		obj.Properties[name] = schema
		byKey[name] = &schema
		if p.Required || in == oas.InPath {
			obj.Required = append(obj.Required, name)
		}
	}
	return obj, byKey
}

func compile(c *jsonschema.Compiler, name string, schema *oas.Schema) (*jsonschema.Schema, error) {
	b, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("validate: encode %s schema: %w", name, err)
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("validate: decode %s schema: %w", name, err)
	}

	res := strings.ReplaceAll(name, "/", "-") + ".json"
	if err := c.AddResource(res, doc); err != nil {
		return nil, fmt.Errorf("validate: add %s schema: %w", name, err)
	}
	s, err := c.Compile(res)
	if err != nil {
		return nil, fmt.Errorf("validate: compile %s schema: %w", name, err)
	}
	return s, nil
}

func schemaFindings(location string, err error) []Finding {
	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return []Finding{{
			Code:     "schema" + codeSuffix,
			Location: location,
			Message:  err.Error(),
		}}
	}
	return findings(location, verr)
}
