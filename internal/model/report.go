package model

// Report is the derived analysis of a workflow's job graph. It is computed
// in one pass and never updated in place; re-analysis replaces it.
type Report struct {
	Workflow            string       `yaml:"workflow" json:"workflow"`
	TotalJobs           int          `yaml:"totalJobs" json:"totalJobs"`
	TotalSteps          int          `yaml:"totalSteps" json:"totalSteps"`
	Levels              []Level      `yaml:"levels" json:"levels"`
	Jobs                []JobStats   `yaml:"jobs" json:"jobs"`
	CriticalPathMinutes float64      `yaml:"criticalPathMinutes" json:"criticalPathMinutes"`
	SequentialMinutes   float64      `yaml:"sequentialMinutes" json:"sequentialMinutes"`
	Parallelizable      bool         `yaml:"parallelizable" json:"parallelizable"`
	Bottlenecks         []Bottleneck `yaml:"bottlenecks,omitempty" json:"bottlenecks,omitempty"`
	Suggestions         []Suggestion `yaml:"suggestions,omitempty" json:"suggestions,omitempty"`
	Warnings            []string     `yaml:"warnings,omitempty" json:"warnings,omitempty"`
}

// Level groups job IDs that share the same dependency depth and could start
// together.
type Level struct {
	Index int      `yaml:"index" json:"index"`
	Jobs  []string `yaml:"jobs" json:"jobs"`
}

// JobStats holds per-job derived metrics, in workflow document order.
type JobStats struct {
	ID              string  `yaml:"id" json:"id"`
	Name            string  `yaml:"name" json:"name"`
	Steps           int     `yaml:"steps" json:"steps"`
	Level           int     `yaml:"level" json:"level"`
	DurationMinutes float64 `yaml:"durationMinutes" json:"durationMinutes"`
	Dependents      int     `yaml:"dependents" json:"dependents"`
}

// Bottleneck is a job that many other jobs directly depend on.
type Bottleneck struct {
	ID             string `yaml:"id" json:"id"`
	Name           string `yaml:"name" json:"name"`
	DependentCount int    `yaml:"dependentCount" json:"dependentCount"`
}

// Suggestion is a heuristic optimization hint.
type Suggestion struct {
	Kind    string `yaml:"kind" json:"kind"`
	Message string `yaml:"message" json:"message"`
	Impact  string `yaml:"impact" json:"impact"`
}
