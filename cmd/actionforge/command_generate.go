package main

import (
	"fmt"

	"github.com/sourceplane/actionforge/internal/analyze"
	"github.com/sourceplane/actionforge/internal/detect"
	"github.com/sourceplane/actionforge/internal/generate"
	"github.com/sourceplane/actionforge/internal/loader"
	"github.com/sourceplane/actionforge/internal/model"
	"github.com/sourceplane/actionforge/internal/normalize"
	"github.com/sourceplane/actionforge/internal/render"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a workflow file from a configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return generateWorkflow()
	},
}

func registerGenerateCommand(root *cobra.Command) {
	root.AddCommand(generateCmd)

	generateCmd.Flags().StringVarP(&configFile, "config", "c", "", "Configuration file path (YAML or JSON)")
	generateCmd.Flags().StringVarP(&outputFile, "output", "o", ".github/workflows/ci.yml", "Output workflow file path")
	generateCmd.Flags().BoolVar(&detectFlag, "detect", false, "Detect project type and stages from the project tree")
	generateCmd.Flags().StringVar(&projectRoot, "project-root", ".", "Project root used by --detect")
}

func generateWorkflow() error {
	cfg := &model.WorkflowConfig{}

	if configFile != "" {
		fmt.Println("□ Loading config...")
		loaded, err := loader.LoadConfig(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if detectFlag {
		fmt.Println("□ Detecting project structure...")
		detection, err := detect.Project(projectRoot)
		if err != nil {
			return fmt.Errorf("detection failed: %w", err)
		}
		detection.ApplyTo(cfg)
		fmt.Printf("  Detected %s project, stages %v\n", detection.ProjectType, detection.Stages)
	}

	fmt.Println("□ Normalizing config...")
	normalized, err := normalize.NormalizeConfig(cfg)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	fmt.Println("□ Generating workflow...")
	wf, err := generate.NewGenerator().Generate(normalized)
	if err != nil {
		return fmt.Errorf("failed to generate workflow: %w", err)
	}

	if err := render.WriteWorkflow(wf, outputFile); err != nil {
		return err
	}

	report := analyze.NewAnalyzer(wf).Analyze()
	viewer := render.NewReportViewer(report)

	fmt.Printf("✓ Workflow with %d jobs saved to: %s\n\n", len(wf.Jobs), outputFile)
	fmt.Println(viewer.ViewSummary())
	return nil
}
