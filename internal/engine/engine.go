// Package engine runs the generation pipeline end to end: detect the
// repository's technologies, load a fragment per technology, merge the
// fragments, validate the derived documents, and write the artifacts.
package engine

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"workbench/internal/detect"
	"workbench/internal/diag"
	"workbench/internal/fragment"
	"workbench/internal/logging"
	"workbench/internal/merge"
	"workbench/internal/output"
	"workbench/internal/schema"
)

// Mode selects what a run does after merging.
type Mode string

const (
	// ModeGenerate validates and writes the artifact set.
	ModeGenerate Mode = "generate"
	// ModeValidateOnly validates the derived documents plus any
	// previously written metadata document, and writes nothing.
	ModeValidateOnly Mode = "validate_only"
)

// Options tune a run. The zero value selects the builtin rule set and
// fragment library and names the workspace after the repository directory.
type Options struct {
	Rules    *detect.RuleSet
	Library  fragment.Library
	Renderer fragment.Renderer
	Name     string
}

// Result is everything a run produced. Diagnostics accumulate across
// all stages; only a missing repository root or a failed write aborts
// a run early.
type Result struct {
	Metadata    detect.Metadata
	Fragments   []fragment.Fragment
	Config      merge.Config
	Validation  schema.Result
	Report      output.WriteReport
	Diagnostics []diag.Diagnostic
}

// Failed reports whether the run should map to a non-zero exit:
// validation rejected a document.
func (r *Result) Failed() bool {
	return !r.Validation.Valid
}

// Run executes one pipeline pass over the repository at root.
func Run(root string, mode Mode, opts Options) (*Result, error) {
	logger := logging.New("engine")

	rules := opts.Rules
	if rules == nil {
		rules = detect.DefaultRules()
	}
	lib := opts.Library
	if lib == nil {
		lib = fragment.Builtin()
	}
	name := opts.Name
	if name == "" {
		abs, err := filepath.Abs(root)
		if err == nil {
			name = filepath.Base(abs)
		} else {
			name = filepath.Base(root)
		}
	}

	meta, err := detect.Detect(root, rules)
	if err != nil {
		return nil, err
	}
	logger.Info("repository detected",
		"root", root, "languages", meta.Languages, "platform", meta.Platform, "kinds", meta.Kinds)

	result := &Result{Metadata: meta}

	loader := fragment.NewLoader(lib, opts.Renderer)
	for _, language := range meta.Languages {
		frag, diags := loader.LoadLanguage(language, meta)
		result.Fragments = append(result.Fragments, frag)
		result.Diagnostics = append(result.Diagnostics, diags...)
	}
	platformFrag, diags := loader.LoadPlatform(meta.Platform, meta)
	result.Fragments = append(result.Fragments, platformFrag)
	result.Diagnostics = append(result.Diagnostics, diags...)

	cfg, mergeDiags := merge.Merge(meta, result.Fragments)
	result.Config = cfg
	result.Diagnostics = append(result.Diagnostics, mergeDiags...)

	result.Validation = validateDocuments(root, mode, meta, result.Fragments)
	for _, issue := range result.Validation.Errors {
		result.Diagnostics = append(result.Diagnostics, diag.Diagnostic{
			Code:     diag.Validation,
			Severity: diag.SeverityError,
			Path:     issue.Path,
			Message:  issue.Message,
		})
	}

	if mode == ModeValidateOnly {
		logValidation(logger, result)
		return result, nil
	}

	report, err := output.NewWriter().Write(root, name, meta, cfg, result.Fragments)
	result.Report = report
	if err != nil {
		return result, fmt.Errorf("engine: %w", err)
	}

	logger.Info("workspace generated",
		"root", root, "files", len(report.Files), "diagnostics", len(result.Diagnostics))
	return result, nil
}

// validateDocuments checks the documents derived from this run, and in
// validate-only mode also the metadata document a previous run left on
// disk, so hand edits and drift surface as validation errors.
func validateDocuments(root string, mode Mode, meta detect.Metadata, frags []fragment.Fragment) schema.Result {
	metaDoc := map[string]any{
		"languages": toAnyList(meta.Languages),
		"platform":  meta.Platform,
		"types":     toAnyList(meta.Kinds),
	}
	result := schema.Validate(metaDoc, schema.RepositoryMetadata())
	result = result.Merge(schema.Validate(output.SummaryDocument(frags), schema.TechnologySummary()))

	if mode == ModeValidateOnly {
		if onDisk, ok := readMetadataDocument(root); ok {
			result = result.Merge(schema.Validate(onDisk, schema.RepositoryMetadata()))
		}
	}
	return result
}

// readMetadataDocument loads .workbench/repository.yaml as a generic
// value tree. Absence is not an error: repositories that never ran a
// generation have nothing to check.
func readMetadataDocument(root string) (any, bool) {
	data, err := os.ReadFile(filepath.Join(root, output.ConfigDirName, "repository.yaml"))
	if err != nil {
		return nil, false
	}
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return map[string]any{}, true
	}
	return normalizeYAML(doc), true
}

// normalizeYAML rewrites yaml.v3's value model into the JSON one the
// schema walker expects: integer scalars become float64.
func normalizeYAML(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, child := range val {
			out[k] = normalizeYAML(child)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, child := range val {
			out[i] = normalizeYAML(child)
		}
		return out
	case int:
		return float64(val)
	}
	return v
}

func logValidation(logger *slog.Logger, result *Result) {
	if result.Validation.Valid {
		logger.Info("validation passed", "diagnostics", len(result.Diagnostics))
		return
	}
	for _, issue := range result.Validation.Errors {
		logger.Error("validation issue", "path", issue.Path, "message", issue.Message)
	}
}

func toAnyList(list []string) []any {
	out := make([]any, len(list))
	for i, s := range list {
		out[i] = s
	}
	return out
}
