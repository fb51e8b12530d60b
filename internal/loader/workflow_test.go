package loader

import (
	"strings"
	"testing"
)

func TestDecodeWorkflowBasic(t *testing.T) {
	doc := `
name: CI
on:
  push:
    branches: [main]
env:
  GOFLAGS: -mod=readonly
jobs:
  build:
    name: Build
    runs-on: ubuntu-latest
    steps:
      - uses: actions/checkout@v4
      - name: Compile
        run: go build ./...
  test:
    runs-on: ubuntu-latest
    needs: [build]
    steps:
      - run: go test ./...
`
	wf, warnings, err := DecodeWorkflow(strings.NewReader(doc), "ci.yml")
	if err != nil {
		t.Fatalf("DecodeWorkflow returned error: %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("expected no warnings, got %v", warnings)
	}
	if wf.Name != "CI" {
		t.Fatalf("expected workflow name CI, got %q", wf.Name)
	}
	if wf.On == nil {
		t.Fatalf("expected triggers to be captured")
	}
	if wf.Env["GOFLAGS"] != "-mod=readonly" {
		t.Fatalf("expected workflow env preserved, got %v", wf.Env)
	}
	if len(wf.Jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(wf.Jobs))
	}

	build := wf.Jobs[0]
	if build.ID != "build" || build.Name != "Build" {
		t.Fatalf("unexpected first job %q (%q)", build.ID, build.Name)
	}
	if build.RunsOn != "ubuntu-latest" {
		t.Fatalf("expected runs-on preserved, got %q", build.RunsOn)
	}
	if len(build.Steps) != 2 {
		t.Fatalf("expected 2 steps, got %d", len(build.Steps))
	}
	if build.Steps[0].Uses != "actions/checkout@v4" {
		t.Fatalf("expected first step uses checkout, got %q", build.Steps[0].Uses)
	}
	if build.Steps[1].Run != "go build ./..." {
		t.Fatalf("expected run command preserved, got %q", build.Steps[1].Run)
	}

	test := wf.Jobs[1]
	if len(test.Needs) != 1 || test.Needs[0] != "build" {
		t.Fatalf("expected test to need build, got %v", test.Needs)
	}
}

func TestDecodeWorkflowKeepsJobOrder(t *testing.T) {
	doc := `
jobs:
  zeta:
    steps: [{run: "true"}]
  alpha:
    steps: [{run: "true"}]
  mid:
    steps: [{run: "true"}]
`
	wf, _, err := DecodeWorkflow(strings.NewReader(doc), "order.yml")
	if err != nil {
		t.Fatalf("DecodeWorkflow returned error: %v", err)
	}
	got := []string{wf.Jobs[0].ID, wf.Jobs[1].ID, wf.Jobs[2].ID}
	want := []string{"zeta", "alpha", "mid"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected job order %v, got %v", want, got)
		}
	}
}

func TestDecodeWorkflowScalarNeeds(t *testing.T) {
	doc := `
jobs:
  build:
    steps: [{run: make}]
  test:
    needs: build
    steps: [{run: make test}]
`
	wf, _, err := DecodeWorkflow(strings.NewReader(doc), "scalar.yml")
	if err != nil {
		t.Fatalf("DecodeWorkflow returned error: %v", err)
	}
	test := wf.Job("test")
	if test == nil {
		t.Fatalf("expected test job to exist")
	}
	if len(test.Needs) != 1 || test.Needs[0] != "build" {
		t.Fatalf("expected scalar needs to decode to one entry, got %v", test.Needs)
	}
}

func TestDecodeWorkflowDanglingNeedsWarns(t *testing.T) {
	doc := `
jobs:
  deploy:
    needs: [missing]
    steps: [{run: ./deploy.sh}]
`
	wf, warnings, err := DecodeWorkflow(strings.NewReader(doc), "dangling.yml")
	if err != nil {
		t.Fatalf("DecodeWorkflow returned error: %v", err)
	}
	if len(wf.Jobs) != 1 {
		t.Fatalf("expected job kept despite dangling reference")
	}
	if len(warnings) != 1 || !strings.Contains(warnings[0], "missing") {
		t.Fatalf("expected dangling needs warning, got %v", warnings)
	}
}

func TestDecodeWorkflowDuplicateJobKeepsFirst(t *testing.T) {
	doc := `
jobs:
  build:
    name: First
    steps: [{run: "true"}]
  build:
    name: Second
    steps: [{run: "true"}]
`
	wf, warnings, err := DecodeWorkflow(strings.NewReader(doc), "dup.yml")
	if err != nil {
		t.Fatalf("DecodeWorkflow returned error: %v", err)
	}
	if len(wf.Jobs) != 1 {
		t.Fatalf("expected one job after dedup, got %d", len(wf.Jobs))
	}
	if wf.Jobs[0].Name != "First" {
		t.Fatalf("expected first definition kept, got %q", wf.Jobs[0].Name)
	}
	if len(warnings) != 1 || !strings.Contains(warnings[0], "duplicate job id") {
		t.Fatalf("expected duplicate warning, got %v", warnings)
	}
}

func TestDecodeWorkflowEnvironmentForms(t *testing.T) {
	doc := `
jobs:
  stage:
    environment: staging
    steps: [{run: "true"}]
  prod:
    environment:
      name: production
      url: https://example.com
    steps: [{run: "true"}]
`
	wf, _, err := DecodeWorkflow(strings.NewReader(doc), "env.yml")
	if err != nil {
		t.Fatalf("DecodeWorkflow returned error: %v", err)
	}
	if wf.Job("stage").Environment != "staging" {
		t.Fatalf("expected scalar environment, got %q", wf.Job("stage").Environment)
	}
	if wf.Job("prod").Environment != "production" {
		t.Fatalf("expected mapping environment name, got %q", wf.Job("prod").Environment)
	}
}

func TestDecodeWorkflowNameFallsBackToFile(t *testing.T) {
	doc := `
jobs:
  build:
    steps: [{run: "true"}]
`
	wf, _, err := DecodeWorkflow(strings.NewReader(doc), "nightly.yml")
	if err != nil {
		t.Fatalf("DecodeWorkflow returned error: %v", err)
	}
	if wf.Name != "nightly.yml" {
		t.Fatalf("expected name fallback to file name, got %q", wf.Name)
	}
}

func TestDecodeWorkflowParseError(t *testing.T) {
	_, _, err := DecodeWorkflow(strings.NewReader("jobs: [unclosed"), "broken.yml")
	if err == nil {
		t.Fatalf("expected parse error")
	}
	if !strings.Contains(err.Error(), "broken.yml") {
		t.Fatalf("expected error to name the file, got %v", err)
	}
}
