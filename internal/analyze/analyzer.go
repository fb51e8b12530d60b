package analyze

import (
	"fmt"
	"sort"

	"github.com/sourceplane/actionforge/internal/model"
)

// perStepMinutes is the fixed per-step cost proxy used when no real timing
// data exists; minDuration keeps zero-step jobs from reporting zero.
const (
	perStepMinutes = 1.5
	minDuration    = 1.0
)

// Analyzer derives a layered execution view and summary metrics from a
// workflow's job graph. It is a pure function of the workflow value: dangling
// `needs` references are ignored and cyclic edges are cut during traversal,
// so analysis always terminates and never fails.
type Analyzer struct {
	wf   *model.Workflow
	jobs map[string]*model.Job
	memo map[string]float64
}

// NewAnalyzer creates an analyzer over a read-only workflow snapshot.
func NewAnalyzer(wf *model.Workflow) *Analyzer {
	return &Analyzer{
		wf:   wf,
		jobs: wf.JobIndex(),
		memo: make(map[string]float64, len(wf.Jobs)),
	}
}

// Level returns the dependency depth of a job: 0 for jobs with no resolvable
// dependencies, otherwise 1 + the deepest resolvable dependency. Unknown job
// IDs are level 0.
func (a *Analyzer) Level(jobID string) int {
	return a.level(jobID, make(map[string]bool))
}

func (a *Analyzer) level(jobID string, onPath map[string]bool) int {
	job, ok := a.jobs[jobID]
	if !ok {
		return 0
	}

	onPath[jobID] = true
	defer delete(onPath, jobID)

	deepest := -1
	for _, dep := range job.Needs {
		if _, ok := a.jobs[dep]; !ok {
			continue // dangling reference, ignored
		}
		if onPath[dep] {
			continue // cycle edge, cut to keep the traversal finite
		}
		if l := a.level(dep, onPath); l > deepest {
			deepest = l
		}
	}

	if deepest < 0 {
		return 0
	}
	return deepest + 1
}

// Levels groups all jobs by dependency depth, ascending. Within a level, jobs
// keep workflow document order.
func (a *Analyzer) Levels() []model.Level {
	byLevel := make(map[int][]string)
	maxLevel := -1
	for _, job := range a.wf.Jobs {
		l := a.Level(job.ID)
		byLevel[l] = append(byLevel[l], job.ID)
		if l > maxLevel {
			maxLevel = l
		}
	}

	levels := make([]model.Level, 0, maxLevel+1)
	for i := 0; i <= maxLevel; i++ {
		if ids, ok := byLevel[i]; ok {
			levels = append(levels, model.Level{Index: i, Jobs: ids})
		}
	}
	return levels
}

// EstimateDuration estimates a job's runtime in minutes from its step count.
func EstimateDuration(job *model.Job) float64 {
	d := float64(len(job.Steps)) * perStepMinutes
	if d < minDuration {
		return minDuration
	}
	return d
}

// CriticalPath returns the maximum cumulative estimated duration along any
// dependency chain, in minutes.
func (a *Analyzer) CriticalPath() float64 {
	longest := 0.0
	for _, job := range a.wf.Jobs {
		if cost := a.pathCost(job.ID, make(map[string]bool)); cost > longest {
			longest = cost
		}
	}
	return longest
}

func (a *Analyzer) pathCost(jobID string, onPath map[string]bool) float64 {
	if cost, ok := a.memo[jobID]; ok {
		return cost
	}
	job, ok := a.jobs[jobID]
	if !ok {
		return 0
	}

	onPath[jobID] = true
	defer delete(onPath, jobID)

	longest := 0.0
	for _, dep := range job.Needs {
		if _, ok := a.jobs[dep]; !ok {
			continue
		}
		if onPath[dep] {
			continue
		}
		if cost := a.pathCost(dep, onPath); cost > longest {
			longest = cost
		}
	}

	cost := EstimateDuration(job) + longest
	a.memo[jobID] = cost
	return cost
}

// Bottlenecks returns up to three jobs ordered by how many other jobs
// directly depend on them. Ties keep document order.
func (a *Analyzer) Bottlenecks() []model.Bottleneck {
	counts := a.dependentCounts()

	bottlenecks := make([]model.Bottleneck, 0)
	for _, job := range a.wf.Jobs {
		if count := counts[job.ID]; count > 0 {
			bottlenecks = append(bottlenecks, model.Bottleneck{
				ID:             job.ID,
				Name:           job.DisplayName(),
				DependentCount: count,
			})
		}
	}

	sort.SliceStable(bottlenecks, func(i, j int) bool {
		return bottlenecks[i].DependentCount > bottlenecks[j].DependentCount
	})
	if len(bottlenecks) > 3 {
		bottlenecks = bottlenecks[:3]
	}
	return bottlenecks
}

func (a *Analyzer) dependentCounts() map[string]int {
	counts := make(map[string]int)
	for _, job := range a.wf.Jobs {
		seen := make(map[string]bool)
		for _, dep := range job.Needs {
			if dep == job.ID || seen[dep] {
				continue
			}
			seen[dep] = true
			counts[dep]++
		}
	}
	return counts
}

// Suggestions evaluates a fixed, ordered set of heuristic rules. The result
// may be empty.
func (a *Analyzer) Suggestions() []model.Suggestion {
	suggestions := make([]model.Suggestion, 0)

	independent := 0
	for _, job := range a.wf.Jobs {
		if a.Level(job.ID) == 0 {
			independent++
		}
	}
	if independent > 1 {
		suggestions = append(suggestions, model.Suggestion{
			Kind:    "parallelization",
			Message: fmt.Sprintf("%d jobs have no dependencies and can run in parallel", independent),
			Impact:  "high",
		})
	}

	oversized := 0
	for _, job := range a.wf.Jobs {
		if len(job.Steps) > 10 {
			oversized++
		}
	}
	if oversized > 0 {
		suggestions = append(suggestions, model.Suggestion{
			Kind:    "job-size",
			Message: fmt.Sprintf("%d job(s) have more than 10 steps; consider splitting them into smaller jobs", oversized),
			Impact:  "medium",
		})
	}

	byRunner := make(map[string]int)
	for _, job := range a.wf.Jobs {
		byRunner[job.RunsOn]++
	}
	singleUse := 0
	for _, count := range byRunner {
		if count == 1 {
			singleUse++
		}
	}
	if singleUse > 1 {
		suggestions = append(suggestions, model.Suggestion{
			Kind:    "runner-consolidation",
			Message: "several runner labels are used by only one job; consolidating runners improves cache reuse",
			Impact:  "low",
		})
	}

	return suggestions
}

// HasCycle reports whether the job graph contains a dependency cycle,
// ignoring dangling references.
func (a *Analyzer) HasCycle() bool {
	visited := make(map[string]bool)
	recStack := make(map[string]bool)
	for jobID := range a.jobs {
		if !visited[jobID] {
			if a.cycleDFS(jobID, visited, recStack) {
				return true
			}
		}
	}
	return false
}

func (a *Analyzer) cycleDFS(jobID string, visited, recStack map[string]bool) bool {
	visited[jobID] = true
	recStack[jobID] = true

	job, ok := a.jobs[jobID]
	if ok {
		for _, dep := range job.Needs {
			if _, ok := a.jobs[dep]; !ok {
				continue
			}
			if !visited[dep] {
				if a.cycleDFS(dep, visited, recStack) {
					return true
				}
			} else if recStack[dep] {
				return true
			}
		}
	}

	recStack[jobID] = false
	return false
}

// Analyze assembles the full report.
func (a *Analyzer) Analyze() *model.Report {
	report := &model.Report{
		Workflow:    a.wf.Name,
		TotalJobs:   len(a.wf.Jobs),
		Levels:      a.Levels(),
		Jobs:        make([]model.JobStats, 0, len(a.wf.Jobs)),
		Bottlenecks: a.Bottlenecks(),
		Suggestions: a.Suggestions(),
	}

	counts := a.dependentCounts()
	for _, job := range a.wf.Jobs {
		duration := EstimateDuration(job)
		report.TotalSteps += len(job.Steps)
		report.SequentialMinutes += duration
		report.Jobs = append(report.Jobs, model.JobStats{
			ID:              job.ID,
			Name:            job.DisplayName(),
			Steps:           len(job.Steps),
			Level:           a.Level(job.ID),
			DurationMinutes: duration,
			Dependents:      counts[job.ID],
		})
	}

	report.CriticalPathMinutes = a.CriticalPath()
	for _, level := range report.Levels {
		if len(level.Jobs) > 1 {
			report.Parallelizable = true
			break
		}
	}

	if a.HasCycle() {
		report.Warnings = append(report.Warnings,
			"dependency cycle detected; levels and durations are computed with cyclic edges cut and may understate the problem")
	}

	return report
}
