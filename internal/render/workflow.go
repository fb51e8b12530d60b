package render

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sourceplane/actionforge/internal/model"
	"gopkg.in/yaml.v3"
)

// EncodeWorkflow serializes a workflow to GitHub Actions YAML. The document
// is built as a node tree so job and step order is exactly document order;
// no text concatenation.
func EncodeWorkflow(wf *model.Workflow) ([]byte, error) {
	if wf == nil {
		return nil, fmt.Errorf("workflow cannot be nil")
	}

	root := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	appendPair(root, "name", strNode(wf.Name))
	if wf.On != nil {
		appendPair(root, "on", wf.On)
	}
	if len(wf.Env) > 0 {
		appendPair(root, "env", envNode(wf.Env))
	}

	jobs := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, job := range wf.Jobs {
		jobs.Content = append(jobs.Content, strNode(job.ID), jobNode(job))
	}
	appendPair(root, "jobs", jobs)

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		return nil, fmt.Errorf("failed to encode workflow: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode workflow: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteWorkflow writes the workflow YAML to path, creating directories as
// needed.
func WriteWorkflow(wf *model.Workflow, path string) error {
	data, err := EncodeWorkflow(wf)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write workflow to %s: %w", path, err)
	}
	return nil
}

func jobNode(job *model.Job) *yaml.Node {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	if job.Name != "" {
		appendPair(node, "name", strNode(job.Name))
	}
	if job.RunsOn != "" {
		appendPair(node, "runs-on", strNode(job.RunsOn))
	}
	if len(job.Needs) > 0 {
		appendPair(node, "needs", seqNode(job.Needs))
	}
	if job.If != "" {
		appendPair(node, "if", strNode(job.If))
	}
	if job.Environment != "" {
		appendPair(node, "environment", strNode(job.Environment))
	}
	if len(job.Env) > 0 {
		appendPair(node, "env", envNode(job.Env))
	}

	steps := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	for i := range job.Steps {
		steps.Content = append(steps.Content, stepNode(&job.Steps[i]))
	}
	appendPair(node, "steps", steps)
	return node
}

func stepNode(step *model.Step) *yaml.Node {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	if step.Name != "" {
		appendPair(node, "name", strNode(step.Name))
	}
	if step.If != "" {
		appendPair(node, "if", strNode(step.If))
	}
	if step.Uses != "" {
		appendPair(node, "uses", strNode(step.Uses))
	}
	if len(step.With) > 0 {
		appendPair(node, "with", envNode(step.With))
	}
	if step.Run != "" {
		run := strNode(step.Run)
		if strings.Contains(step.Run, "\n") {
			run.Style = yaml.LiteralStyle
		}
		appendPair(node, "run", run)
	}
	if len(step.Env) > 0 {
		appendPair(node, "env", envNode(step.Env))
	}
	if step.WorkingDirectory != "" {
		appendPair(node, "working-directory", strNode(step.WorkingDirectory))
	}
	return node
}

func envNode(env map[string]string) *yaml.Node {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		value := strNode(env[k])
		if strings.Contains(env[k], "\n") {
			value.Style = yaml.LiteralStyle
		}
		appendPair(node, k, value)
	}
	return node
}

func strNode(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}
}

func seqNode(values []string) *yaml.Node {
	node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq", Style: yaml.FlowStyle}
	for _, v := range values {
		node.Content = append(node.Content, strNode(v))
	}
	return node
}

func appendPair(node *yaml.Node, key string, value *yaml.Node) {
	node.Content = append(node.Content, strNode(key), value)
}
