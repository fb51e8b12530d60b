package model

// ProjectType selects the step templates used during generation.
type ProjectType string

const (
	ProjectGo     ProjectType = "go"
	ProjectNode   ProjectType = "node"
	ProjectPython ProjectType = "python"
	ProjectRust   ProjectType = "rust"
	ProjectMove   ProjectType = "move"
)

// ProjectTypes lists the supported project types in a stable order.
func ProjectTypes() []ProjectType {
	return []ProjectType{ProjectGo, ProjectNode, ProjectPython, ProjectRust, ProjectMove}
}

// Stage is a pipeline stage selectable in the configuration.
type Stage string

const (
	StageLint   Stage = "lint"
	StageBuild  Stage = "build"
	StageTest   Stage = "test"
	StageDeploy Stage = "deploy"
)

// WorkflowConfig is the declarative input to workflow generation. It is a
// plain value: the generator never mutates it and holds no state of its own.
type WorkflowConfig struct {
	Name                  string            `yaml:"name" json:"name"`
	ProjectType           ProjectType       `yaml:"projectType" json:"projectType"`
	Branches              []string          `yaml:"branches" json:"branches"`
	Stages                []Stage           `yaml:"stages" json:"stages"`
	DeployTargets         []string          `yaml:"deployTargets" json:"deployTargets"`
	Runner                string            `yaml:"runner" json:"runner"`
	Env                   map[string]string `yaml:"env" json:"env"`
	Cache                 bool              `yaml:"cache" json:"cache"`
	TestOnPullRequestOnly bool              `yaml:"testOnPullRequestOnly" json:"testOnPullRequestOnly"`
}

// DefaultBranch returns the branch deploy jobs are gated on.
func (c WorkflowConfig) DefaultBranch() string {
	if len(c.Branches) > 0 {
		return c.Branches[0]
	}
	return "main"
}

// HasStage reports whether the configuration enables a stage.
func (c WorkflowConfig) HasStage(stage Stage) bool {
	for _, s := range c.Stages {
		if s == stage {
			return true
		}
	}
	return false
}
