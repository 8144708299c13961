// Package validate checks HTTP request data against the parameters and
// request body declared by an OpenAPI operation.
//
// A Validator compiles one JSON Schema per parameter location and one per
// request body media type. Validate reports every violation as a Finding:
//
//	v, err := validate.New(op)
//	...
//	if res := v.Validate(req); res != nil {
//	    // res.Findings[0].Code == "minLength.openapi.validation"
//	}
package validate
