package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"workbench/internal/detect"
	"workbench/internal/format"
)

var detectOutputMode string

var detectCmd = &cobra.Command{
	Use:   "detect [root]",
	Short: "Detect a repository's languages, platform and kinds without writing anything",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runDetect,
}

func init() {
	detectCmd.Flags().StringVar(&detectOutputMode, "output", "ascii", "table format (ascii, markdown)")
}

func runDetect(cmd *cobra.Command, args []string) error {
	root := "."
	if len(args) > 0 {
		root = args[0]
	}

	meta, err := detect.Detect(root, detect.DefaultRules())
	if err != nil {
		return err
	}

	tb := format.NewTable(format.ParseMode(detectOutputMode))
	tb.Header("Languages", "Platform", "Kinds")
	tb.Row(format.List(meta.Languages), meta.Platform, format.List(meta.Kinds))
	fmt.Fprintln(cmd.OutOrStdout(), tb.String())
	return nil
}
