// internal/common/validation/schema.go
package validation

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// Result carries the outcome of a schema validation.
type Result struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

// ValidateParameters validates a step's resolved parameters against the
// JSON schema carried by the action catalog entry. A nil schema means the
// action accepts anything.
func ValidateParameters(schema map[string]interface{}, params map[string]interface{}) (*Result, error) {
	if schema == nil {
		return &Result{Valid: true}, nil
	}

	schemaLoader := gojsonschema.NewGoLoader(schema)
	docLoader := gojsonschema.NewGoLoader(params)

	res, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		return nil, fmt.Errorf("schema validation: %w", err)
	}

	if res.Valid() {
		return &Result{Valid: true}, nil
	}

	out := &Result{Valid: false}
	for _, desc := range res.Errors() {
		out.Errors = append(out.Errors, desc.String())
	}
	return out, nil
}

// ValidateSchema checks that a schema document is itself well formed.
// Used by the catalog maintenance tooling at edit time.
func ValidateSchema(schema map[string]interface{}) error {
	loader := gojsonschema.NewGoLoader(schema)
	if _, err := gojsonschema.NewSchema(loader); err != nil {
		return fmt.Errorf("invalid schema: %w", err)
	}
	return nil
}
