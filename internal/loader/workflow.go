package loader

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sourceplane/actionforge/internal/model"
	"gopkg.in/yaml.v3"
)

// LoadWorkflow reads and decodes a GitHub Actions workflow file. Structural
// oddities (duplicate job IDs, dangling needs) are returned as warnings, not
// errors; only unparsable input fails.
func LoadWorkflow(path string) (*model.Workflow, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open workflow %q: %w", path, err)
	}
	defer f.Close()
	return DecodeWorkflow(f, filepath.Base(path))
}

// DecodeWorkflow decodes a workflow document from r. Job order follows the
// document; downstream level grouping and tie-breaks rely on it.
func DecodeWorkflow(r io.Reader, displayName string) (*model.Workflow, []string, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, nil, fmt.Errorf("failed to parse workflow %q: %w", displayName, err)
	}

	root := &doc
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return nil, nil, fmt.Errorf("workflow %q is empty", displayName)
		}
		root = root.Content[0]
	}
	if root.Kind != yaml.MappingNode {
		return nil, nil, fmt.Errorf("workflow %q is not a mapping", displayName)
	}

	wf := &model.Workflow{Jobs: []*model.Job{}}
	warnings := make([]string, 0)

	for i := 0; i+1 < len(root.Content); i += 2 {
		key := root.Content[i]
		value := root.Content[i+1]

		switch key.Value {
		case "name":
			wf.Name = value.Value
		case "on", "true": // yaml 1.1 resolvers read a plain `on` key as a boolean
			wf.On = value
		case "env":
			env, err := decodeEnv(value)
			if err != nil {
				return nil, nil, fmt.Errorf("workflow %q: invalid env: %w", displayName, err)
			}
			wf.Env = env
		case "jobs":
			jobs, jobWarnings, err := decodeJobs(value, displayName)
			if err != nil {
				return nil, nil, err
			}
			wf.Jobs = jobs
			warnings = append(warnings, jobWarnings...)
		}
	}

	if wf.Name == "" {
		wf.Name = displayName
	}

	index := wf.JobIndex()
	for _, job := range wf.Jobs {
		for _, dep := range job.Needs {
			if _, ok := index[dep]; !ok {
				warnings = append(warnings, fmt.Sprintf("job %q needs unknown job %q; dependency will be ignored", job.ID, dep))
			}
		}
	}

	return wf, warnings, nil
}

func decodeJobs(node *yaml.Node, displayName string) ([]*model.Job, []string, error) {
	if node.Kind != yaml.MappingNode {
		return nil, nil, fmt.Errorf("workflow %q: jobs is not a mapping", displayName)
	}

	jobs := make([]*model.Job, 0, len(node.Content)/2)
	seen := make(map[string]bool)
	warnings := make([]string, 0)

	for i := 0; i+1 < len(node.Content); i += 2 {
		jobID := node.Content[i].Value
		if seen[jobID] {
			warnings = append(warnings, fmt.Sprintf("duplicate job id %q; later definition ignored", jobID))
			continue
		}
		seen[jobID] = true

		var jd jobDocument
		if err := node.Content[i+1].Decode(&jd); err != nil {
			return nil, nil, fmt.Errorf("workflow %q: invalid job %q: %w", displayName, jobID, err)
		}

		job := &model.Job{
			ID:          jobID,
			Name:        jd.Name,
			RunsOn:      runnerLabel(&jd.RunsOn),
			Needs:       stringList(&jd.Needs),
			If:          jd.If,
			Environment: environmentName(&jd.Environment),
			Env:         convertEnv(jd.Env),
			Steps:       make([]model.Step, 0, len(jd.Steps)),
		}

		for _, sd := range jd.Steps {
			job.Steps = append(job.Steps, model.Step{
				Name:             sd.Name,
				Uses:             sd.Uses,
				Run:              sd.Run,
				If:               sd.If,
				With:             convertEnv(sd.With),
				Env:              convertEnv(sd.Env),
				WorkingDirectory: sd.WorkingDirectory,
			})
		}

		jobs = append(jobs, job)
	}

	return jobs, warnings, nil
}

type jobDocument struct {
	Name        string                 `yaml:"name"`
	RunsOn      yaml.Node              `yaml:"runs-on"`
	Needs       yaml.Node              `yaml:"needs"`
	If          string                 `yaml:"if"`
	Environment yaml.Node              `yaml:"environment"`
	Env         map[string]interface{} `yaml:"env"`
	Steps       []stepDocument         `yaml:"steps"`
}

type stepDocument struct {
	Name             string                 `yaml:"name"`
	Uses             string                 `yaml:"uses"`
	Run              string                 `yaml:"run"`
	If               string                 `yaml:"if"`
	With             map[string]interface{} `yaml:"with"`
	Env              map[string]interface{} `yaml:"env"`
	WorkingDirectory string                 `yaml:"working-directory"`
}

// stringList accepts a scalar or a sequence; GitHub allows `needs: build`
// and `needs: [build, test]` interchangeably.
func stringList(node *yaml.Node) []string {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Value == "" {
			return nil
		}
		return []string{node.Value}
	case yaml.SequenceNode:
		items := make([]string, 0, len(node.Content))
		for _, item := range node.Content {
			if item.Kind == yaml.ScalarNode && item.Value != "" {
				items = append(items, item.Value)
			}
		}
		if len(items) == 0 {
			return nil
		}
		return items
	default:
		return nil
	}
}

// runnerLabel takes the scalar label, or the first label of a matrix-style
// sequence.
func runnerLabel(node *yaml.Node) string {
	labels := stringList(node)
	if len(labels) == 0 {
		return ""
	}
	return labels[0]
}

// environmentName accepts `environment: prod` and `environment: {name: prod}`.
func environmentName(node *yaml.Node) string {
	switch node.Kind {
	case yaml.ScalarNode:
		return node.Value
	case yaml.MappingNode:
		for i := 0; i+1 < len(node.Content); i += 2 {
			if node.Content[i].Value == "name" {
				return node.Content[i+1].Value
			}
		}
	}
	return ""
}

func decodeEnv(node *yaml.Node) (map[string]string, error) {
	var raw map[string]interface{}
	if err := node.Decode(&raw); err != nil {
		return nil, err
	}
	return convertEnv(raw), nil
}

func convertEnv(input map[string]interface{}) map[string]string {
	if len(input) == 0 {
		return nil
	}
	out := make(map[string]string, len(input))
	for k, v := range input {
		out[k] = fmt.Sprint(v)
	}
	return out
}
