package main

import (
	"fmt"

	"github.com/sourceplane/actionforge/internal/loader"
	"github.com/sourceplane/actionforge/internal/normalize"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [config-file]",
	Short: "Validate a configuration file against the schema",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return validateConfig(args[0])
	},
}

func registerValidateCommand(root *cobra.Command) {
	root.AddCommand(validateCmd)
}

func validateConfig(path string) error {
	fmt.Println("□ Validating config...")
	cfg, err := loader.LoadConfig(path)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	if _, err := normalize.NormalizeConfig(cfg); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	fmt.Printf("✓ %s is valid\n", path)
	return nil
}
