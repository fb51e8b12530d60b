package main

import "github.com/spf13/cobra"

var (
	configFile  string
	outputFile  string
	reportFile  string
	projectRoot string
	viewMode    string
	dryRun      bool
	detectFlag  bool
)

var rootCmd = &cobra.Command{
	Use:           "actionforge",
	Short:         "Generate and analyze GitHub Actions workflows",
	Long:          "actionforge compiles a declarative pipeline configuration into a GitHub Actions workflow file, and analyzes workflow files into a layered dependency view with duration estimates and optimization hints",
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	registerGenerateCommand(rootCmd)
	registerAnalyzeCommand(rootCmd)
	registerValidateCommand(rootCmd)
	registerRunCommand(rootCmd)
	registerServeCommand(rootCmd)
}
