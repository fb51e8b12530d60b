package render

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sourceplane/actionforge/internal/model"
	"gopkg.in/yaml.v3"
)

// RenderReportJSON renders a report as indented JSON.
func RenderReportJSON(report *model.Report) ([]byte, error) {
	return json.MarshalIndent(report, "", "  ")
}

// RenderReportYAML renders a report as YAML.
func RenderReportYAML(report *model.Report) ([]byte, error) {
	return yaml.Marshal(report)
}

// WriteReport writes a report to file; the extension picks the format
// (JSON unless .yaml/.yml).
func WriteReport(report *model.Report, path string) error {
	var data []byte
	var err error

	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		data, err = RenderReportYAML(report)
	default:
		data, err = RenderReportJSON(report)
	}
	if err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}

	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report to %s: %w", path, err)
	}
	return nil
}
