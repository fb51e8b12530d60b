package schema

import (
	_ "embed"
	"fmt"
	"io"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed config.schema.json
var configSchemaJSON string

const configSchemaURI = "actionforge://config/schema.json"

// Validator validates raw configuration documents against the embedded
// JSON schema before they are decoded into typed values.
type Validator struct {
	configSchema *jsonschema.Schema
}

// NewValidator compiles the embedded schemas.
func NewValidator() (*Validator, error) {
	compiler := jsonschema.NewCompiler()
	compiler.LoadURL = func(url string) (io.ReadCloser, error) {
		if url == configSchemaURI {
			return io.NopCloser(strings.NewReader(configSchemaJSON)), nil
		}
		return nil, fmt.Errorf("external schema reference not supported: %s", url)
	}

	configSchema, err := compiler.Compile(configSchemaURI)
	if err != nil {
		return nil, fmt.Errorf("failed to compile config schema: %w", err)
	}

	return &Validator{configSchema: configSchema}, nil
}

// ValidateConfig validates a decoded config document (maps, slices, scalars).
func (v *Validator) ValidateConfig(data interface{}) error {
	if v.configSchema == nil {
		return fmt.Errorf("config schema not loaded")
	}
	if err := v.configSchema.Validate(data); err != nil {
		return fmt.Errorf("config failed schema validation: %w", err)
	}
	return nil
}
