package model

import "gopkg.in/yaml.v3"

// Workflow mirrors a GitHub Actions workflow document. Jobs keep the order
// they appear in the source file; level grouping and bottleneck tie-breaks
// depend on that order staying stable.
type Workflow struct {
	Name string            `json:"name"`
	On   *yaml.Node        `json:"-"` // trigger set, carried opaque
	Env  map[string]string `json:"env,omitempty"`
	Jobs []*Job            `json:"jobs"`
}

// Job is a single named unit of work with steps and optional dependencies.
type Job struct {
	ID          string            `json:"id"`
	Name        string            `json:"name,omitempty"`
	RunsOn      string            `json:"runsOn,omitempty"`
	Needs       []string          `json:"needs,omitempty"`
	If          string            `json:"if,omitempty"`
	Environment string            `json:"environment,omitempty"`
	Env         map[string]string `json:"env,omitempty"`
	Steps       []Step            `json:"steps"`
}

// Step is an opaque step descriptor; the analyzer only counts them.
type Step struct {
	Name             string            `json:"name,omitempty"`
	Uses             string            `json:"uses,omitempty"`
	Run              string            `json:"run,omitempty"`
	If               string            `json:"if,omitempty"`
	With             map[string]string `json:"with,omitempty"`
	Env              map[string]string `json:"env,omitempty"`
	WorkingDirectory string            `json:"workingDirectory,omitempty"`
}

// Job returns the job with the given ID, or nil.
func (w *Workflow) Job(id string) *Job {
	for _, job := range w.Jobs {
		if job.ID == id {
			return job
		}
	}
	return nil
}

// JobIndex builds an ID -> job lookup map.
func (w *Workflow) JobIndex() map[string]*Job {
	index := make(map[string]*Job, len(w.Jobs))
	for _, job := range w.Jobs {
		index[job.ID] = job
	}
	return index
}

// DisplayName returns the job name, falling back to its ID.
func (j *Job) DisplayName() string {
	if j.Name != "" {
		return j.Name
	}
	return j.ID
}
