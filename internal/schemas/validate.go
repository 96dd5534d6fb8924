// Package schemas provides JSON Schema validation for the scorer's output documents.
package schemas

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	rootschemas "github.com/jonathan/resume-scorer/schemas"
)

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Message string
}

// SchemaLoadError represents errors loading or parsing the schema itself
type SchemaLoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Path, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// ValidateAgainst validates the JSON document at jsonPath against the JSON
// Schema stored at schemaPath.
func ValidateAgainst(schemaPath, jsonPath string) error {
	schemaData, err := readJSONFile("schema", schemaPath)
	if err != nil {
		return err
	}
	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schemaData))
	if err != nil {
		return &SchemaLoadError{
			Path:    schemaPath,
			Message: "schema does not compile",
			Cause:   err,
		}
	}

	doc, err := readJSONFile("JSON", jsonPath)
	if err != nil {
		return err
	}
	return validateDocument(schema, doc)
}

var (
	analysisSchemaOnce sync.Once
	analysisSchema     *gojsonschema.Schema
	analysisSchemaErr  error
)

func compiledAnalysisSchema() (*gojsonschema.Schema, error) {
	analysisSchemaOnce.Do(func() {
		analysisSchema, analysisSchemaErr = gojsonschema.NewSchema(gojsonschema.NewStringLoader(rootschemas.AnalysisResult))
		if analysisSchemaErr != nil {
			analysisSchemaErr = &SchemaLoadError{
				Path:    rootschemas.AnalysisResultFile,
				Message: "embedded schema does not compile",
				Cause:   analysisSchemaErr,
			}
		}
	})
	return analysisSchema, analysisSchemaErr
}

// ValidateAnalysisResult validates a JSON-encoded analysis result against the
// embedded analysis result schema.
func ValidateAnalysisResult(data []byte) error {
	schema, err := compiledAnalysisSchema()
	if err != nil {
		return err
	}
	return validateDocument(schema, data)
}

// ValidateAnalysisValue marshals v and validates it against the analysis result schema.
func ValidateAnalysisValue(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal analysis result: %w", err)
	}
	return ValidateAnalysisResult(data)
}

// ValidateAnalysisFile validates an analysis result stored on disk.
func ValidateAnalysisFile(path string) error {
	data, err := readJSONFile("JSON", path)
	if err != nil {
		return err
	}
	return ValidateAnalysisResult(data)
}

func readJSONFile(kind, path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s file not found: %s", kind, path)
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

func validateDocument(schema *gojsonschema.Schema, data []byte) error {
	result, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("failed to parse document: %w", err)
	}
	return toValidationError(result)
}

func toValidationError(result *gojsonschema.Result) error {
	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Errors: make([]FieldError, 0, len(result.Errors())),
	}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}
	return validationErr
}
