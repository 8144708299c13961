package oas

import (
	"encoding/json"
	"maps"
)

// Parameter locations.
const (
	InPath   = "path"
	InQuery  = "query"
	InHeader = "header"
	InCookie = "cookie"
)

// Operation describes a single API operation: its parameters, request body and
// responses. An Operation is declared once by a handler and never mutated afterwards.
type Operation struct {
	Tags        []string     `json:"tags,omitempty"`
	Summary     string       `json:"summary,omitempty"`
	Description string       `json:"description,omitempty"`
	OperationID string       `json:"operationId,omitempty"`
	Parameters  []Parameter  `json:"parameters,omitempty"`
	RequestBody *RequestBody `json:"requestBody,omitempty"`
	Responses   Responses    `json:"responses,omitempty"`
	Deprecated  bool         `json:"deprecated,omitempty"`

	// Extensions holds passthrough fields (x-* and anything else) that are
	// written inline next to the known fields.
	Extensions map[string]any `json:"-"`
}

// Parameter describes a single operation parameter.
type Parameter struct {
	Name        string  `json:"name"`
	In          string  `json:"in"`
	Description string  `json:"description,omitempty"`
	Required    bool    `json:"required,omitempty"`
	Deprecated  bool    `json:"deprecated,omitempty"`
	Schema      *Schema `json:"schema,omitempty"`
}

// RequestBody describes the request body, keyed by content type.
type RequestBody struct {
	Description string               `json:"description,omitempty"`
	Required    bool                 `json:"required,omitempty"`
	Content     map[string]MediaType `json:"content"`
}

// MediaType is a media type object with an optional schema and example.
type MediaType struct {
	Schema  *Schema `json:"schema,omitempty"`
	Example any     `json:"example,omitempty"`
}

// Responses maps HTTP status codes ("200", "404", "default") to responses.
type Responses map[string]Response

// Response describes a single response.
type Response struct {
	Description string               `json:"description,omitempty"`
	Headers     map[string]Header    `json:"headers,omitempty"`
	Content     map[string]MediaType `json:"content,omitempty"`
}

// Header describes a response header.
type Header struct {
	Description string  `json:"description,omitempty"`
	Required    bool    `json:"required,omitempty"`
	Schema      *Schema `json:"schema,omitempty"`
}

// operationFields mirrors Operation without its MarshalJSON method.
type operationFields Operation

// MarshalJSON writes the known fields and inlines Extensions. Known fields win
// over an extension with the same key.
func (o Operation) MarshalJSON() ([]byte, error) {
	known, err := json.Marshal(operationFields(o))
	if err != nil {
		return nil, err
	}
	if len(o.Extensions) == 0 {
		return known, nil
	}

	out := make(map[string]json.RawMessage, len(o.Extensions)+8)
	for k, v := range o.Extensions {
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		out[k] = raw
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(known, &fields); err != nil {
		return nil, err
	}
	maps.Copy(out, fields)

	return json.Marshal(out)
}

// UnmarshalJSON reads the known fields and collects every other key into Extensions.
func (o *Operation) UnmarshalJSON(data []byte) error {
	var fields operationFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for _, k := range knownOperationKeys {
		delete(raw, k)
	}

	*o = Operation(fields)
	if len(raw) == 0 {
		return nil
	}

	o.Extensions = make(map[string]any, len(raw))
	for k, v := range raw {
		var val any
		if err := json.Unmarshal(v, &val); err != nil {
			return err
		}
		o.Extensions[k] = val
	}
	return nil
}

var knownOperationKeys = []string{
	"tags", "summary", "description", "operationId", "parameters",
	"requestBody", "responses", "deprecated",
}
