package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"workbench/internal/engine"
)

var validateFragments string

var validateCmd = &cobra.Command{
	Use:   "validate [root]",
	Short: "Validate the derived documents without writing anything",
	Long: "Runs detection, fragment loading and merging, validates the documents a\n" +
		"generation would produce, and checks a previously written metadata\n" +
		"document for drift. No files are written.",
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringVar(&validateFragments, "fragments", "", "load fragments from this directory instead of the builtin library")
}

func runValidate(cmd *cobra.Command, args []string) error {
	root := "."
	if len(args) > 0 {
		root = args[0]
	}

	result, err := engine.Run(root, engine.ModeValidateOnly, engine.Options{
		Library: libraryFlag(validateFragments),
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, d := range result.Diagnostics {
		fmt.Fprintln(out, d.String())
	}
	if result.Failed() {
		return fmt.Errorf("validation failed (%d issues)", len(result.Validation.Errors))
	}
	fmt.Fprintln(out, "validation passed")
	return nil
}
