package runner

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/sourceplane/actionforge/internal/analyze"
	"github.com/sourceplane/actionforge/internal/model"
)

// Runner executes a workflow locally, level by level: every job in a level
// is run before any job of the next level starts. `uses:` steps have no
// local equivalent and are skipped with a notice.
type Runner struct {
	WorkDir string
	Stdout  io.Writer
	Stderr  io.Writer
	DryRun  bool
}

func NewRunner(workDir string, stdout, stderr io.Writer, dryRun bool) *Runner {
	return &Runner{
		WorkDir: workDir,
		Stdout:  stdout,
		Stderr:  stderr,
		DryRun:  dryRun,
	}
}

func (r *Runner) Run(wf *model.Workflow) error {
	if wf == nil {
		return fmt.Errorf("workflow cannot be nil")
	}

	analyzer := analyze.NewAnalyzer(wf)
	index := wf.JobIndex()

	for _, level := range analyzer.Levels() {
		fmt.Fprintf(r.Stdout, "□ Level %d\n", level.Index)
		for _, jobID := range level.Jobs {
			job := index[jobID]
			if err := r.runJob(job); err != nil {
				return err
			}
		}
	}

	return nil
}

func (r *Runner) runJob(job *model.Job) error {
	fmt.Fprintf(r.Stdout, "→ Job %s\n", job.ID)
	for _, step := range job.Steps {
		name := step.Name
		if name == "" {
			name = step.Uses
		}
		fmt.Fprintf(r.Stdout, "  - Step %s\n", name)

		if step.Uses != "" {
			fmt.Fprintf(r.Stdout, "    (skipping action %s: not runnable locally)\n", step.Uses)
			continue
		}
		if step.Run == "" {
			continue
		}

		if r.DryRun {
			fmt.Fprintf(r.Stdout, "    %s\n", step.Run)
			continue
		}

		cmd := exec.Command("sh", "-c", step.Run)
		cmd.Dir = r.resolveWorkingDir(step.WorkingDirectory)
		cmd.Stdout = r.Stdout
		cmd.Stderr = r.Stderr
		cmd.Env = stepEnviron(job, step)

		if err := cmd.Run(); err != nil {
			return fmt.Errorf("job %s step %s failed: %w", job.ID, name, err)
		}
	}
	return nil
}

func (r *Runner) resolveWorkingDir(dir string) string {
	if dir == "" || dir == "./" {
		return r.WorkDir
	}
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(r.WorkDir, dir)
}

func stepEnviron(job *model.Job, step model.Step) []string {
	env := make([]string, 0, len(job.Env)+len(step.Env))
	for k, v := range job.Env {
		env = append(env, k+"="+v)
	}
	for k, v := range step.Env {
		env = append(env, k+"="+v)
	}
	if len(env) == 0 {
		return nil // inherit the parent environment untouched
	}
	return append(os.Environ(), env...)
}
