package render

import (
	"fmt"
	"strings"

	"github.com/sourceplane/actionforge/internal/model"
)

// RenderDOT exports the job dependency graph as Graphviz DOT, one rank per
// level so a renderer lays parallel jobs side by side. Dangling dependencies
// are drawn dashed against a phantom node.
func RenderDOT(wf *model.Workflow, report *model.Report) string {
	var sb strings.Builder
	sb.WriteString("digraph workflow {\n")
	sb.WriteString("  rankdir=TB;\n")
	sb.WriteString("  node [shape=box, style=rounded];\n")

	index := wf.JobIndex()

	for _, level := range report.Levels {
		sb.WriteString("  { rank=same;")
		for _, id := range level.Jobs {
			fmt.Fprintf(&sb, " %s;", quoteID(id))
		}
		sb.WriteString(" }\n")
	}

	for _, job := range wf.Jobs {
		fmt.Fprintf(&sb, "  %s [label=%q];\n", quoteID(job.ID), job.DisplayName())
	}

	for _, job := range wf.Jobs {
		for _, dep := range job.Needs {
			if _, ok := index[dep]; ok {
				fmt.Fprintf(&sb, "  %s -> %s;\n", quoteID(dep), quoteID(job.ID))
			} else {
				fmt.Fprintf(&sb, "  %s [style=dashed, color=gray];\n", quoteID(dep))
				fmt.Fprintf(&sb, "  %s -> %s [style=dashed, color=gray];\n", quoteID(dep), quoteID(job.ID))
			}
		}
	}

	sb.WriteString("}\n")
	return sb.String()
}

func quoteID(id string) string {
	return fmt.Sprintf("%q", id)
}
