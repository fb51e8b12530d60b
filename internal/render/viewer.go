package render

import (
	"fmt"
	"strings"

	"github.com/sourceplane/actionforge/internal/model"
)

// ReportViewer renders a human-readable view of an analysis report.
type ReportViewer struct {
	report *model.Report
}

// NewReportViewer creates a viewer over a report.
func NewReportViewer(report *model.Report) *ReportViewer {
	return &ReportViewer{report: report}
}

// ViewSummary returns the headline metrics as text.
func (rv *ReportViewer) ViewSummary() string {
	r := rv.report
	var sb strings.Builder

	fmt.Fprintf(&sb, "Workflow: %s\n", r.Workflow)
	fmt.Fprintf(&sb, "Jobs: %d | Steps: %d\n", r.TotalJobs, r.TotalSteps)
	fmt.Fprintf(&sb, "Estimated duration: %.1f min (critical path), %.1f min if run sequentially\n",
		r.CriticalPathMinutes, r.SequentialMinutes)
	if r.Parallelizable {
		sb.WriteString("Parallel execution: yes\n")
	} else {
		sb.WriteString("Parallel execution: no\n")
	}

	if len(r.Bottlenecks) > 0 {
		sb.WriteString("\nBottlenecks:\n")
		for _, b := range r.Bottlenecks {
			fmt.Fprintf(&sb, "  %s: %d dependent job(s)\n", b.ID, b.DependentCount)
		}
	}

	if len(r.Suggestions) > 0 {
		sb.WriteString("\nSuggestions:\n")
		for _, s := range r.Suggestions {
			fmt.Fprintf(&sb, "  [%s] %s (impact: %s)\n", s.Kind, s.Message, s.Impact)
		}
	}

	for _, w := range r.Warnings {
		fmt.Fprintf(&sb, "\n! %s\n", w)
	}

	return sb.String()
}

// ViewLevels returns a tree view of the level grouping, jobs that can start
// together shown side by side.
func (rv *ReportViewer) ViewLevels() string {
	r := rv.report
	if len(r.Levels) == 0 {
		return "No jobs in workflow"
	}

	stats := make(map[string]model.JobStats, len(r.Jobs))
	for _, js := range r.Jobs {
		stats[js.ID] = js
	}

	var sb strings.Builder
	for i, level := range r.Levels {
		isLast := i == len(r.Levels)-1

		levelPrefix := "├─ "
		childPrefix := "│  "
		if isLast {
			levelPrefix = "└─ "
			childPrefix = "   "
		}
		fmt.Fprintf(&sb, "%slevel %d\n", levelPrefix, level.Index)

		for j, id := range level.Jobs {
			jobPrefix := childPrefix + "├─ "
			if j == len(level.Jobs)-1 {
				jobPrefix = childPrefix + "└─ "
			}
			if js, ok := stats[id]; ok {
				fmt.Fprintf(&sb, "%s%s (%.1f min, %d steps)\n", jobPrefix, id, js.DurationMinutes, js.Steps)
			} else {
				fmt.Fprintf(&sb, "%s%s\n", jobPrefix, id)
			}
		}
	}
	return sb.String()
}
