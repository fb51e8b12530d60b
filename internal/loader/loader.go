package loader

import (
	"fmt"
	"os"

	"github.com/sourceplane/actionforge/internal/model"
	"github.com/sourceplane/actionforge/internal/schema"
	"gopkg.in/yaml.v3"
)

// LoadConfig reads a workflow configuration file, validates it against the
// embedded schema and decodes it. JSON input parses as YAML.
func LoadConfig(path string) (*model.WorkflowConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return DecodeConfig(data)
}

// DecodeConfig validates and decodes raw configuration bytes.
func DecodeConfig(data []byte) (*model.WorkflowConfig, error) {
	var raw interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	validator, err := schema.NewValidator()
	if err != nil {
		return nil, err
	}
	if err := validator.ValidateConfig(raw); err != nil {
		return nil, err
	}

	var cfg model.WorkflowConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}
