package validation

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed export.schema.json
var exportSchemaJSON []byte

const exportSchemaURL = "export.schema.json"

var (
	exportSchema     *jsonschema.Schema
	exportSchemaErr  error
	exportSchemaOnce sync.Once
)

func compiledExportSchema() (*jsonschema.Schema, error) {
	exportSchemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.AssertFormat = true
		if err := compiler.AddResource(exportSchemaURL, bytes.NewReader(exportSchemaJSON)); err != nil {
			exportSchemaErr = fmt.Errorf("failed to load export schema: %w", err)
			return
		}
		exportSchema, exportSchemaErr = compiler.Compile(exportSchemaURL)
	})
	return exportSchema, exportSchemaErr
}

// SchemaError lists every place an export document breaks the schema.
type SchemaError struct {
	Problems []string
}

func (e *SchemaError) Error() string {
	return "invalid export document:\n  " + strings.Join(e.Problems, "\n  ")
}

// ValidateExport checks raw export JSON against the embedded schema.
func ValidateExport(data []byte) error {
	schema, err := compiledExportSchema()
	if err != nil {
		return err
	}

	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	if err := schema.Validate(doc); err != nil {
		ve, ok := err.(*jsonschema.ValidationError)
		if !ok {
			return err
		}
		se := &SchemaError{}
		collectProblems(ve, se)
		return se
	}
	return nil
}

// collectProblems flattens the leaf causes of a validation error.
func collectProblems(ve *jsonschema.ValidationError, se *SchemaError) {
	if len(ve.Causes) == 0 {
		loc := ve.InstanceLocation
		if loc == "" {
			loc = "/"
		}
		se.Problems = append(se.Problems, fmt.Sprintf("%s: %s", loc, ve.Message))
		return
	}
	for _, cause := range ve.Causes {
		collectProblems(cause, se)
	}
}
