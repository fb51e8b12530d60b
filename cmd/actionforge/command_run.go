package main

import (
	"fmt"
	"os"

	"github.com/sourceplane/actionforge/internal/loader"
	"github.com/sourceplane/actionforge/internal/runner"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run [workflow-file]",
	Short: "Run a workflow's shell steps locally",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWorkflow(args[0])
	},
}

func registerRunCommand(root *cobra.Command) {
	root.AddCommand(runCmd)

	runCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print steps without executing them")
	runCmd.Flags().StringVar(&projectRoot, "workdir", ".", "Working directory for step commands")
}

func runWorkflow(path string) error {
	wf, warnings, err := loader.LoadWorkflow(path)
	if err != nil {
		return fmt.Errorf("failed to load workflow: %w", err)
	}
	for _, w := range warnings {
		fmt.Printf("warning: %s\n", w)
	}

	r := runner.NewRunner(projectRoot, os.Stdout, os.Stderr, dryRun)
	if err := r.Run(wf); err != nil {
		return err
	}
	fmt.Println("✓ Workflow completed")
	return nil
}
