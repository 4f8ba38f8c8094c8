package validation

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// RecordsSchema accepts any array of objects. Field values are not checked
// here; malformed fields degrade to "N/A" downstream.
const RecordsSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "array",
	"items": {"type": "object"}
}`

// SeedsSchema describes a stored seed collection.
const SeedsSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "array",
	"items": {
		"type": "object",
		"required": ["code", "tags"],
		"properties": {
			"code":     {"type": "string", "minLength": 1},
			"name":     {"type": "string"},
			"tags":     {"type": "array", "items": {"type": "string"}},
			"district": {"type": ["string", "null"]},
			"created":  {"type": "string"}
		}
	}
}`

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Summary joins the first few errors into one line.
func (r *ValidationResult) Summary() string {
	const limit = 5
	parts := make([]string, 0, limit)
	for i, e := range r.Errors {
		if i == limit {
			parts = append(parts, fmt.Sprintf("and %d more", len(r.Errors)-limit))
			break
		}
		parts = append(parts, fmt.Sprintf("%s: %s", e.Field, e.Message))
	}
	return strings.Join(parts, "; ")
}

// Validator holds a compiled schema.
type Validator struct {
	schema *gojsonschema.Schema
}

// NewValidator compiles a JSON schema document.
func NewValidator(schema string) (*Validator, error) {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schema))
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &Validator{schema: s}, nil
}

// MustValidator panics on an invalid schema; for package-level schemas.
func MustValidator(schema string) *Validator {
	v, err := NewValidator(schema)
	if err != nil {
		panic(err)
	}
	return v
}

// ValidateBytes checks a JSON document. A document that is not JSON at all
// is reported as a single error.
func (v *Validator) ValidateBytes(doc []byte) *ValidationResult {
	res, err := v.schema.Validate(gojsonschema.NewBytesLoader(doc))
	if err != nil {
		return &ValidationResult{
			Errors: []ValidationError{{Field: "(root)", Message: err.Error(), Code: "INVALID_JSON"}},
		}
	}

	out := &ValidationResult{Valid: res.Valid()}
	for _, e := range res.Errors() {
		out.Errors = append(out.Errors, ValidationError{
			Field:   e.Field(),
			Message: e.Description(),
			Code:    strings.ToUpper(e.Type()),
		})
	}
	return out
}

var (
	records = MustValidator(RecordsSchema)
	seeds   = MustValidator(SeedsSchema)
)

// ValidateRecords checks a raw procedure dataset.
func ValidateRecords(doc []byte) *ValidationResult {
	return records.ValidateBytes(doc)
}

// ValidateSeeds checks a raw seed collection.
func ValidateSeeds(doc []byte) *ValidationResult {
	return seeds.ValidateBytes(doc)
}
