package main

import (
	"fmt"

	"github.com/sourceplane/actionforge/internal/analyze"
	"github.com/sourceplane/actionforge/internal/loader"
	"github.com/sourceplane/actionforge/internal/render"
	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [workflow-file]",
	Short: "Analyze the dependency graph of a workflow file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return analyzeWorkflow(args[0])
	},
}

func registerAnalyzeCommand(root *cobra.Command) {
	root.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVarP(&reportFile, "output", "o", "", "Write the report to a file (JSON or YAML by extension)")
	analyzeCmd.Flags().StringVar(&viewMode, "view", "summary", "View mode: summary, levels or dot")
}

func analyzeWorkflow(path string) error {
	wf, warnings, err := loader.LoadWorkflow(path)
	if err != nil {
		return fmt.Errorf("failed to load workflow: %w", err)
	}

	report := analyze.NewAnalyzer(wf).Analyze()
	report.Warnings = append(warnings, report.Warnings...)

	if reportFile != "" {
		if err := render.WriteReport(report, reportFile); err != nil {
			return err
		}
		fmt.Printf("✓ Report saved to: %s\n", reportFile)
	}

	viewer := render.NewReportViewer(report)
	switch viewMode {
	case "summary":
		fmt.Println(viewer.ViewSummary())
	case "levels":
		fmt.Println(viewer.ViewLevels())
	case "dot":
		fmt.Println(render.RenderDOT(wf, report))
	default:
		return fmt.Errorf("unknown view mode %q", viewMode)
	}
	return nil
}
