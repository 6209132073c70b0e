package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"workbench/internal/engine"
	"workbench/internal/fragment"
)

var (
	generateName      string
	generateFragments string
)

var generateCmd = &cobra.Command{
	Use:   "generate [root]",
	Short: "Detect a repository and write its workspace configuration",
	Long: "Runs the full pipeline: detect languages, platform and kinds, load a\n" +
		"configuration fragment per technology, merge them, validate the derived\n" +
		"documents, and write the artifact set atomically.",
	Args: cobra.MaximumNArgs(1),
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVar(&generateName, "name", "", "workspace name (default: repository directory name)")
	generateCmd.Flags().StringVar(&generateFragments, "fragments", "", "load fragments from this directory instead of the builtin library")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	root := "."
	if len(args) > 0 {
		root = args[0]
	}

	result, err := engine.Run(root, engine.ModeGenerate, engine.Options{
		Name:    generateName,
		Library: libraryFlag(generateFragments),
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, d := range result.Diagnostics {
		fmt.Fprintln(out, d.String())
	}
	for _, f := range result.Report.Files {
		fmt.Fprintf(out, "wrote %s (%d bytes)\n", f.Path, f.Bytes)
	}

	if result.Failed() {
		return fmt.Errorf("generated documents failed validation (%d issues)", len(result.Validation.Errors))
	}
	return nil
}

// libraryFlag maps the --fragments flag to a fragment library; empty
// means the builtin one.
func libraryFlag(dir string) fragment.Library {
	if dir == "" {
		return nil
	}
	return fragment.Dir(dir)
}
