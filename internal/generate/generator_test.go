package generate

import (
	"strings"
	"testing"

	"github.com/sourceplane/actionforge/internal/model"
)

func goConfig(stages ...model.Stage) *model.WorkflowConfig {
	return &model.WorkflowConfig{
		Name:        "CI",
		ProjectType: model.ProjectGo,
		Branches:    []string{"main"},
		Runner:      "ubuntu-latest",
		Stages:      stages,
	}
}

func TestGenerateStageJobsInOrder(t *testing.T) {
	cfg := goConfig(model.StageLint, model.StageBuild, model.StageTest)

	wf, err := NewGenerator().Generate(cfg)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if wf.Name != "CI" {
		t.Fatalf("expected workflow name CI, got %q", wf.Name)
	}
	if len(wf.Jobs) != 3 {
		t.Fatalf("expected 3 jobs, got %d", len(wf.Jobs))
	}
	for i, id := range []string{"lint", "build", "test"} {
		if wf.Jobs[i].ID != id {
			t.Fatalf("expected job %d to be %q, got %q", i, id, wf.Jobs[i].ID)
		}
		if wf.Jobs[i].RunsOn != "ubuntu-latest" {
			t.Fatalf("expected runner on %q, got %q", id, wf.Jobs[i].RunsOn)
		}
	}

	test := wf.Job("test")
	if len(test.Needs) != 1 || test.Needs[0] != "build" {
		t.Fatalf("expected test to need build, got %v", test.Needs)
	}
}

func TestGenerateEveryJobStartsWithCheckout(t *testing.T) {
	cfg := goConfig(model.StageBuild, model.StageTest)

	wf, err := NewGenerator().Generate(cfg)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	for _, job := range wf.Jobs {
		if len(job.Steps) == 0 || job.Steps[0].Uses != "actions/checkout@v4" {
			t.Fatalf("expected job %q to start with checkout, got %+v", job.ID, job.Steps)
		}
		if job.Steps[1].Uses != "actions/setup-go@v5" {
			t.Fatalf("expected job %q to set up the toolchain, got %q", job.ID, job.Steps[1].Uses)
		}
	}
}

func TestGenerateTestNeedsFallsBackToLint(t *testing.T) {
	cfg := goConfig(model.StageLint, model.StageTest)

	wf, err := NewGenerator().Generate(cfg)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	test := wf.Job("test")
	if len(test.Needs) != 1 || test.Needs[0] != "lint" {
		t.Fatalf("expected test to fall back to lint, got %v", test.Needs)
	}
}

func TestGenerateDeployJobsPerTarget(t *testing.T) {
	cfg := goConfig(model.StageBuild, model.StageTest, model.StageDeploy)
	cfg.Branches = []string{"develop", "main"}
	cfg.DeployTargets = []string{"staging", "production"}

	wf, err := NewGenerator().Generate(cfg)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	staging := wf.Job("deploy-staging")
	production := wf.Job("deploy-production")
	if staging == nil || production == nil {
		t.Fatalf("expected deploy jobs per target, got %v", wf.Jobs)
	}

	wantGate := "github.ref == 'refs/heads/develop' && github.event_name == 'push'"
	if staging.If != wantGate {
		t.Fatalf("expected deploy gated on first branch, got %q", staging.If)
	}
	if staging.Environment != "staging" {
		t.Fatalf("expected environment set from target, got %q", staging.Environment)
	}
	if len(staging.Needs) != 1 || staging.Needs[0] != "test" {
		t.Fatalf("expected deploy to need test, got %v", staging.Needs)
	}
	if staging.Env["DEPLOY_TARGET"] != "staging" {
		t.Fatalf("expected target rendered into env, got %v", staging.Env)
	}
	if production.Env["DEPLOY_TARGET"] != "production" {
		t.Fatalf("expected target rendered into env, got %v", production.Env)
	}

	found := false
	for _, step := range staging.Steps {
		if strings.Contains(step.Run, "./scripts/deploy.sh staging") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected deploy script invoked with target, steps %+v", staging.Steps)
	}
}

func TestGenerateSingleDeployJobWithoutTargets(t *testing.T) {
	cfg := goConfig(model.StageBuild, model.StageDeploy)

	wf, err := NewGenerator().Generate(cfg)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	deploy := wf.Job("deploy")
	if deploy == nil {
		t.Fatalf("expected single deploy job, got %v", wf.Jobs)
	}
	if len(deploy.Needs) != 1 || deploy.Needs[0] != "build" {
		t.Fatalf("expected deploy to chain behind build, got %v", deploy.Needs)
	}
}

func TestGenerateTestOnPullRequestOnly(t *testing.T) {
	cfg := goConfig(model.StageBuild, model.StageTest)
	cfg.TestOnPullRequestOnly = true

	wf, err := NewGenerator().Generate(cfg)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	want := "github.event_name == 'pull_request' || github.ref == 'refs/heads/main'"
	if wf.Job("test").If != want {
		t.Fatalf("expected test gate %q, got %q", want, wf.Job("test").If)
	}
}

func TestGenerateCacheStep(t *testing.T) {
	cfg := goConfig(model.StageLint, model.StageBuild)
	cfg.Cache = true

	wf, err := NewGenerator().Generate(cfg)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	hasCache := func(job *model.Job) bool {
		for _, step := range job.Steps {
			if step.Uses == "actions/cache@v4" {
				return true
			}
		}
		return false
	}
	if hasCache(wf.Job("lint")) {
		t.Fatalf("expected no cache step on lint")
	}
	if !hasCache(wf.Job("build")) {
		t.Fatalf("expected cache step on build")
	}
}

func TestGenerateMoveDeployUsesSuiSecrets(t *testing.T) {
	cfg := &model.WorkflowConfig{
		Name:          "Move CI",
		ProjectType:   model.ProjectMove,
		Branches:      []string{"main"},
		Runner:        "ubuntu-latest",
		Stages:        []model.Stage{model.StageBuild, model.StageTest, model.StageDeploy},
		DeployTargets: []string{"testnet"},
	}

	wf, err := NewGenerator().Generate(cfg)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	deploy := wf.Job("deploy-testnet")
	if deploy == nil {
		t.Fatalf("expected deploy-testnet job, got %v", wf.Jobs)
	}
	if deploy.Env["SUI_NETWORK"] != "testnet" {
		t.Fatalf("expected SUI_NETWORK rendered as target, got %v", deploy.Env)
	}

	publish := deploy.Steps[len(deploy.Steps)-1]
	if !strings.Contains(publish.Run, "sui client publish") {
		t.Fatalf("expected publish step, got %q", publish.Run)
	}
	if publish.Env["SUI_CONFIG"] != "${{ secrets.SUI_CONFIG }}" {
		t.Fatalf("expected secret expression preserved, got %q", publish.Env["SUI_CONFIG"])
	}
	if publish.Env["SUI_NETWORK"] != "testnet" {
		t.Fatalf("expected step env target rendered, got %q", publish.Env["SUI_NETWORK"])
	}
}

func TestGenerateTriggers(t *testing.T) {
	cfg := goConfig(model.StageBuild)
	cfg.Branches = []string{"main", "develop"}

	wf, err := NewGenerator().Generate(cfg)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if wf.On == nil {
		t.Fatalf("expected trigger node")
	}

	var triggers map[string]struct {
		Branches []string `yaml:"branches"`
	}
	if err := wf.On.Decode(&triggers); err != nil {
		t.Fatalf("failed to decode triggers: %v", err)
	}
	for _, event := range []string{"push", "pull_request"} {
		got, ok := triggers[event]
		if !ok {
			t.Fatalf("expected %s trigger, got %v", event, triggers)
		}
		if len(got.Branches) != 2 || got.Branches[0] != "main" {
			t.Fatalf("expected branches preserved on %s, got %v", event, got.Branches)
		}
	}
}

func TestGenerateRejectsUnknownProjectType(t *testing.T) {
	cfg := goConfig(model.StageBuild)
	cfg.ProjectType = "zig"
	if _, err := NewGenerator().Generate(cfg); err == nil {
		t.Fatalf("expected error for unknown project type")
	}
}
