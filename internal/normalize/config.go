package normalize

import (
	"fmt"

	"github.com/sourceplane/actionforge/internal/model"
)

var stageOrder = []model.Stage{model.StageLint, model.StageBuild, model.StageTest, model.StageDeploy}

// NormalizeConfig transforms a raw configuration into canonical form: defaults
// applied, stages deduplicated into pipeline order, structural errors rejected.
// The input value is not modified.
func NormalizeConfig(cfg *model.WorkflowConfig) (*model.WorkflowConfig, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	normalized := *cfg

	if normalized.ProjectType == "" {
		return nil, fmt.Errorf("config must set projectType")
	}
	if !knownProjectType(normalized.ProjectType) {
		return nil, fmt.Errorf("unknown project type: %s", normalized.ProjectType)
	}

	if normalized.Name == "" {
		normalized.Name = "CI"
	}
	if len(normalized.Branches) == 0 {
		normalized.Branches = []string{"main"}
	}
	for _, branch := range normalized.Branches {
		if branch == "" {
			return nil, fmt.Errorf("branch names cannot be empty")
		}
	}
	if normalized.Runner == "" {
		normalized.Runner = "ubuntu-latest"
	}
	if normalized.Env == nil {
		normalized.Env = map[string]string{}
	}

	if len(normalized.Stages) == 0 {
		normalized.Stages = []model.Stage{model.StageBuild, model.StageTest}
	}
	stages, err := canonicalStages(normalized.Stages)
	if err != nil {
		return nil, err
	}
	normalized.Stages = stages

	if len(normalized.DeployTargets) > 0 && !normalized.HasStage(model.StageDeploy) {
		return nil, fmt.Errorf("deploy targets configured but deploy stage not enabled")
	}
	for _, target := range normalized.DeployTargets {
		if target == "" {
			return nil, fmt.Errorf("deploy target names cannot be empty")
		}
	}

	return &normalized, nil
}

// canonicalStages validates stages and reorders them into pipeline order,
// dropping duplicates.
func canonicalStages(stages []model.Stage) ([]model.Stage, error) {
	enabled := make(map[model.Stage]bool, len(stages))
	for _, stage := range stages {
		if !knownStage(stage) {
			return nil, fmt.Errorf("unknown stage: %s", stage)
		}
		enabled[stage] = true
	}

	ordered := make([]model.Stage, 0, len(enabled))
	for _, stage := range stageOrder {
		if enabled[stage] {
			ordered = append(ordered, stage)
		}
	}
	return ordered, nil
}

func knownStage(stage model.Stage) bool {
	for _, s := range stageOrder {
		if s == stage {
			return true
		}
	}
	return false
}

func knownProjectType(pt model.ProjectType) bool {
	for _, t := range model.ProjectTypes() {
		if t == pt {
			return true
		}
	}
	return false
}
