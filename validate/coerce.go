package validate

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/bjaus/apiop/oas"
)

// coerce converts raw string input to the type the schema declares. Values
// that do not parse are left as strings so the type check reports them.
// Header lists are comma separated.
func coerce(schema *oas.Schema, raw []string, header bool) any {
	if schema.Type == "array" {
		var parts []string
		for _, r := range raw {
			if header {
				for p := range strings.SplitSeq(r, ",") {
					parts = append(parts, strings.TrimSpace(p))
				}
				continue
			}
			parts = append(parts, r)
		}

		items := &oas.Schema{}
		if schema.Items != nil {
			items = schema.Items
		}
		out := make([]any, len(parts))
		for i, p := range parts {
			out[i] = scalar(items.Type, p)
		}
		return out
	}

	return scalar(schema.Type, raw[0])
}

func scalar(typ, s string) any {
	switch typ {
	case "integer":
		if _, err := strconv.ParseInt(s, 10, 64); err == nil {
			return json.Number(s)
		}
	case "number":
		if _, err := strconv.ParseFloat(s, 64); err == nil {
			return json.Number(s)
		}
	case "boolean":
		if b, err := strconv.ParseBool(s); err == nil {
			return b
		}
	}
	return s
}
