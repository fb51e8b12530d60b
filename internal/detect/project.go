package detect

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/sourceplane/actionforge/internal/model"
)

// Detection is what the project tree suggests the configuration should be.
type Detection struct {
	ProjectType model.ProjectType `json:"projectType"`
	Stages      []model.Stage     `json:"stages"`
	Matched     []string          `json:"matched"`
}

// marker globs are checked in order; the first project type with a match wins.
var typeMarkers = []struct {
	projectType model.ProjectType
	patterns    []string
}{
	{model.ProjectGo, []string{"go.mod"}},
	{model.ProjectNode, []string{"package.json"}},
	{model.ProjectRust, []string{"Cargo.toml"}},
	{model.ProjectMove, []string{"Move.toml"}},
	{model.ProjectPython, []string{"pyproject.toml", "setup.py", "requirements.txt"}},
}

var testMarkers = map[model.ProjectType][]string{
	model.ProjectGo:     {"**/*_test.go"},
	model.ProjectNode:   {"**/*.test.js", "**/*.test.ts", "**/*.spec.js", "**/*.spec.ts"},
	model.ProjectRust:   {"tests/**/*.rs", "src/**/*.rs"},
	model.ProjectMove:   {"tests/**/*.move"},
	model.ProjectPython: {"tests/**/*.py", "**/test_*.py"},
}

var lintMarkers = map[model.ProjectType][]string{
	model.ProjectGo:     {".golangci.yml", ".golangci.yaml"},
	model.ProjectNode:   {".eslintrc*", "eslint.config.*"},
	model.ProjectRust:   {"clippy.toml", ".clippy.toml"},
	model.ProjectMove:   {},
	model.ProjectPython: {"ruff.toml", ".ruff.toml", "setup.cfg", ".flake8"},
}

// Project inspects a directory tree and proposes a project type and stages.
func Project(root string) (*Detection, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to access project root %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("project root is not a directory: %s", root)
	}

	detection := &Detection{Matched: []string{}}

	for _, marker := range typeMarkers {
		matches := globAny(root, marker.patterns)
		if len(matches) > 0 {
			detection.ProjectType = marker.projectType
			detection.Matched = append(detection.Matched, matches...)
			break
		}
	}
	if detection.ProjectType == "" {
		return nil, fmt.Errorf("could not detect project type in %s", root)
	}

	detection.Stages = []model.Stage{model.StageBuild}
	if matches := globAny(root, lintMarkers[detection.ProjectType]); len(matches) > 0 {
		detection.Stages = append([]model.Stage{model.StageLint}, detection.Stages...)
		detection.Matched = append(detection.Matched, matches...)
	}
	if matches := globAny(root, testMarkers[detection.ProjectType]); len(matches) > 0 {
		detection.Stages = append(detection.Stages, model.StageTest)
		detection.Matched = append(detection.Matched, matches...)
	}

	return detection, nil
}

// ApplyTo fills unset config fields from the detection.
func (d *Detection) ApplyTo(cfg *model.WorkflowConfig) {
	if cfg.ProjectType == "" {
		cfg.ProjectType = d.ProjectType
	}
	if len(cfg.Stages) == 0 {
		cfg.Stages = append([]model.Stage{}, d.Stages...)
	}
}

func globAny(root string, patterns []string) []string {
	var matched []string
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(filepath.Join(root, pattern))
		if err != nil {
			continue
		}
		for _, m := range matches {
			if rel, err := filepath.Rel(root, m); err == nil {
				matched = append(matched, filepath.ToSlash(rel))
			}
		}
		if len(matched) > 0 {
			return matched
		}
	}
	return matched
}
