package generate

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/sourceplane/actionforge/internal/model"
	"gopkg.in/yaml.v3"
)

// Generator turns a normalized configuration into a workflow document. It is
// a pure function of the config value; the template cache only avoids
// re-parsing identical step bodies across jobs.
type Generator struct {
	templateCache map[string]*template.Template
}

// NewGenerator creates a generator with an empty template cache.
func NewGenerator() *Generator {
	return &Generator{templateCache: make(map[string]*template.Template)}
}

// stepContext is the data step templates render against.
type stepContext struct {
	Name          string
	ProjectType   model.ProjectType
	DefaultBranch string
	Target        string
}

// Generate builds the workflow for a normalized config. Stage jobs are
// emitted in pipeline order; deploy targets each get their own job gated on
// pushes to the default branch.
func (g *Generator) Generate(cfg *model.WorkflowConfig) (*model.Workflow, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if _, ok := stageSteps[cfg.ProjectType]; !ok {
		return nil, fmt.Errorf("no step templates for project type: %s", cfg.ProjectType)
	}

	wf := &model.Workflow{
		Name: cfg.Name,
		On:   buildTriggers(cfg.Branches),
		Jobs: make([]*model.Job, 0, len(cfg.Stages)+len(cfg.DeployTargets)),
	}
	if len(cfg.Env) > 0 {
		wf.Env = cfg.Env
	}

	for _, stage := range cfg.Stages {
		switch stage {
		case model.StageLint:
			job, err := g.stageJob(cfg, "lint", model.StageLint, nil, "")
			if err != nil {
				return nil, err
			}
			wf.Jobs = append(wf.Jobs, job)
		case model.StageBuild:
			job, err := g.stageJob(cfg, "build", model.StageBuild, nil, "")
			if err != nil {
				return nil, err
			}
			wf.Jobs = append(wf.Jobs, job)
		case model.StageTest:
			job, err := g.stageJob(cfg, "test", model.StageTest, testNeeds(cfg), "")
			if err != nil {
				return nil, err
			}
			if cfg.TestOnPullRequestOnly {
				job.If = fmt.Sprintf("github.event_name == 'pull_request' || github.ref == 'refs/heads/%s'", cfg.DefaultBranch())
			}
			wf.Jobs = append(wf.Jobs, job)
		case model.StageDeploy:
			deployJobs, err := g.deployJobs(cfg)
			if err != nil {
				return nil, err
			}
			wf.Jobs = append(wf.Jobs, deployJobs...)
		}
	}

	return wf, nil
}

// testNeeds chains the test job behind build when present, else behind lint.
func testNeeds(cfg *model.WorkflowConfig) []string {
	if cfg.HasStage(model.StageBuild) {
		return []string{"build"}
	}
	if cfg.HasStage(model.StageLint) {
		return []string{"lint"}
	}
	return nil
}

func deployNeeds(cfg *model.WorkflowConfig) []string {
	if cfg.HasStage(model.StageTest) {
		return []string{"test"}
	}
	return testNeeds(cfg)
}

func (g *Generator) deployJobs(cfg *model.WorkflowConfig) ([]*model.Job, error) {
	targets := cfg.DeployTargets
	if len(targets) == 0 {
		targets = []string{""}
	}

	gate := fmt.Sprintf("github.ref == 'refs/heads/%s' && github.event_name == 'push'", cfg.DefaultBranch())

	jobs := make([]*model.Job, 0, len(targets))
	for _, target := range targets {
		jobID := "deploy"
		if target != "" {
			jobID = "deploy-" + target
		}

		job, err := g.stageJob(cfg, jobID, model.StageDeploy, deployNeeds(cfg), target)
		if err != nil {
			return nil, err
		}
		job.If = gate
		job.Environment = target

		env, err := g.renderEnv(cfg, jobID, deployEnv[cfg.ProjectType], target)
		if err != nil {
			return nil, err
		}
		job.Env = env

		jobs = append(jobs, job)
	}
	return jobs, nil
}

func (g *Generator) stageJob(cfg *model.WorkflowConfig, jobID string, stage model.Stage, needs []string, target string) (*model.Job, error) {
	specs := []stepSpec{checkoutStep}
	specs = append(specs, setupSteps[cfg.ProjectType]...)
	if cfg.Cache && (stage == model.StageBuild || stage == model.StageTest) {
		if cache, ok := cacheSteps[cfg.ProjectType]; ok {
			specs = append(specs, cache)
		}
	}
	specs = append(specs, stageSteps[cfg.ProjectType][stage]...)

	steps, err := g.renderSteps(cfg, jobID, specs, target)
	if err != nil {
		return nil, fmt.Errorf("failed to render steps for job %s: %w", jobID, err)
	}

	return &model.Job{
		ID:     jobID,
		RunsOn: cfg.Runner,
		Needs:  needs,
		Steps:  steps,
	}, nil
}

// renderSteps resolves template actions in step bodies. Parsed templates are
// cached by project type, job and step name.
func (g *Generator) renderSteps(cfg *model.WorkflowConfig, jobID string, specs []stepSpec, target string) ([]model.Step, error) {
	ctx := stepContext{
		Name:          cfg.Name,
		ProjectType:   cfg.ProjectType,
		DefaultBranch: cfg.DefaultBranch(),
		Target:        target,
	}

	steps := make([]model.Step, 0, len(specs))
	for _, spec := range specs {
		run, err := g.render(fmt.Sprintf("%s:%s:%s:run", cfg.ProjectType, jobID, spec.Name), spec.Run, ctx)
		if err != nil {
			return nil, fmt.Errorf("invalid template in step %s: %w", spec.Name, err)
		}

		env, err := g.renderValues(fmt.Sprintf("%s:%s:%s:env", cfg.ProjectType, jobID, spec.Name), spec.Env, ctx)
		if err != nil {
			return nil, fmt.Errorf("invalid template in step %s: %w", spec.Name, err)
		}
		with, err := g.renderValues(fmt.Sprintf("%s:%s:%s:with", cfg.ProjectType, jobID, spec.Name), spec.With, ctx)
		if err != nil {
			return nil, fmt.Errorf("invalid template in step %s: %w", spec.Name, err)
		}

		steps = append(steps, model.Step{
			Name: spec.Name,
			Uses: spec.Uses,
			Run:  run,
			With: with,
			Env:  env,
		})
	}
	return steps, nil
}

func (g *Generator) renderEnv(cfg *model.WorkflowConfig, jobID string, env map[string]string, target string) (map[string]string, error) {
	ctx := stepContext{
		Name:          cfg.Name,
		ProjectType:   cfg.ProjectType,
		DefaultBranch: cfg.DefaultBranch(),
		Target:        target,
	}
	return g.renderValues(fmt.Sprintf("%s:%s:jobenv", cfg.ProjectType, jobID), env, ctx)
}

func (g *Generator) renderValues(cacheKey string, values map[string]string, ctx stepContext) (map[string]string, error) {
	if len(values) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(values))
	for k, v := range values {
		rendered, err := g.render(cacheKey+":"+k, v, ctx)
		if err != nil {
			return nil, err
		}
		out[k] = rendered
	}
	return out, nil
}

func (g *Generator) render(cacheKey, text string, ctx stepContext) (string, error) {
	if text == "" {
		return "", nil
	}

	tmpl, ok := g.templateCache[cacheKey]
	if !ok {
		var err error
		tmpl, err = template.New(cacheKey).Delims("[[", "]]").Parse(text)
		if err != nil {
			return "", err
		}
		g.templateCache[cacheKey] = tmpl
	}

	var buf strings.Builder
	if err := tmpl.Execute(&buf, ctx); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// buildTriggers constructs the opaque trigger node: push and pull_request on
// the configured branches.
func buildTriggers(branches []string) *yaml.Node {
	return mappingNode(
		"push", mappingNodeOf("branches", sequenceNode(branches)),
		"pull_request", mappingNodeOf("branches", sequenceNode(branches)),
	)
}

func scalarNode(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}
}

func sequenceNode(values []string) *yaml.Node {
	node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	for _, v := range values {
		node.Content = append(node.Content, scalarNode(v))
	}
	return node
}

func mappingNodeOf(key string, value *yaml.Node) *yaml.Node {
	return &yaml.Node{
		Kind:    yaml.MappingNode,
		Tag:     "!!map",
		Content: []*yaml.Node{scalarNode(key), value},
	}
}

func mappingNode(pairs ...interface{}) *yaml.Node {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for i := 0; i+1 < len(pairs); i += 2 {
		node.Content = append(node.Content, scalarNode(pairs[i].(string)), pairs[i+1].(*yaml.Node))
	}
	return node
}
