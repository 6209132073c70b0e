package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"workbench/internal/engine"
	"workbench/internal/format"
	"workbench/internal/logging"
)

var (
	batchParallel   int
	batchOutputMode string
	batchFragments  string
)

var batchCmd = &cobra.Command{
	Use:   "batch <dir>",
	Short: "Generate workspaces for every repository under a directory",
	Long: "Treats each immediate subdirectory of <dir> as a repository and runs the\n" +
		"generation pipeline over all of them with a bounded worker pool.",
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().IntVar(&batchParallel, "parallel", 4, "number of repositories processed concurrently")
	batchCmd.Flags().StringVar(&batchOutputMode, "output", "ascii", "table format (ascii, markdown)")
	batchCmd.Flags().StringVar(&batchFragments, "fragments", "", "load fragments from this directory instead of the builtin library")
}

// batchResult is one repository's outcome, collected by index so the
// summary table keeps a stable order regardless of completion order.
type batchResult struct {
	Name        string
	Languages   []string
	Platform    string
	Files       int
	Diagnostics int
	Valid       bool
	Err         error
	Elapsed     time.Duration
}

func runBatch(cmd *cobra.Command, args []string) error {
	parent := args[0]
	entries, err := os.ReadDir(parent)
	if err != nil {
		return fmt.Errorf("read %s: %w", parent, err)
	}

	var repos []string
	for _, e := range entries {
		if e.IsDir() {
			repos = append(repos, e.Name())
		}
	}
	sort.Strings(repos)
	if len(repos) == 0 {
		return fmt.Errorf("no repositories under %s", parent)
	}

	logger := logging.New("batch")
	logger.Info("batch generation", "repositories", len(repos), "workers", batchParallel)

	results := make([]batchResult, len(repos))

	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(batchParallel)
	for i, name := range repos {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = batchResult{Name: name, Err: err}
				return nil
			}
			start := time.Now()
			result, err := engine.Run(filepath.Join(parent, name), engine.ModeGenerate, engine.Options{
				Library: libraryFlag(batchFragments),
			})
			br := batchResult{Name: name, Err: err, Elapsed: time.Since(start)}
			if result != nil {
				br.Languages = result.Metadata.Languages
				br.Platform = result.Metadata.Platform
				br.Files = len(result.Report.Files)
				br.Diagnostics = len(result.Diagnostics)
				br.Valid = result.Validation.Valid
			}
			results[i] = br
			return nil
		})
	}
	// Per-repository errors are carried in results, not the group.
	_ = g.Wait()

	tb := format.NewTable(format.ParseMode(batchOutputMode))
	tb.Header("Repository", "Languages", "Platform", "Files", "Diags", "Valid", "Time")
	tb.Columns(
		format.Column{Number: 2, MaxWidth: 40},
		format.Column{Number: 4, Align: format.AlignRight},
		format.Column{Number: 5, Align: format.AlignRight},
	)

	failures := 0
	totalFiles := 0
	for _, br := range results {
		if br.Err != nil {
			failures++
			tb.Row(br.Name, "-", "-", 0, 0, format.BoolMark(false), format.Truncate(br.Err.Error(), 50))
			continue
		}
		if !br.Valid {
			failures++
		}
		totalFiles += br.Files
		tb.Row(br.Name, format.List(br.Languages), br.Platform, br.Files, br.Diagnostics,
			format.BoolMark(br.Valid), format.FmtDuration(br.Elapsed))
	}
	tb.Footer("TOTAL", "", "", totalFiles, "", "", "")
	fmt.Fprintln(cmd.OutOrStdout(), tb.String())

	if failures > 0 {
		return fmt.Errorf("%d of %d repositories failed", failures, len(repos))
	}
	return nil
}
