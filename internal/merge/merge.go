// Package merge combines technology fragments into a single workspace
// configuration. The combination is deterministic for a given fragment
// order: callers pass fragments sorted by language with the platform
// fragment last.
package merge

import (
	"sort"
	"strings"

	"workbench/internal/detect"
	"workbench/internal/diag"
	"workbench/internal/fragment"
)

// Config is the merged workspace configuration.
type Config struct {
	Settings    map[string]any
	Required    []string
	Recommended []string
	Tasks       []fragment.Task
	Launch      []fragment.LaunchConfig
}

// Merge folds fragments into one Config. Later fragments win on
// top-level setting keys and file association globs; extension lists
// union with required taking precedence over recommended; tasks and
// launch configurations concatenate in order with structural duplicates
// dropped. Fragments that declare an extension as both required and
// recommended get a diagnostic and the required side wins.
func Merge(meta detect.Metadata, frags []fragment.Fragment) (Config, []diag.Diagnostic) {
	cfg := Config{Settings: map[string]any{}}
	var diags []diag.Diagnostic

	required := map[string]bool{}
	recommended := map[string]bool{}
	associations := map[string]string{}
	seenTasks := map[string]bool{}
	seenLaunch := map[string]bool{}

	for _, f := range frags {
		if overlap := intersect(f.RequiredExtensions, f.RecommendedExtensions); len(overlap) > 0 {
			diags = append(diags, diag.Warningf(diag.FragmentInvariant, f.Technology,
				"extensions listed as both required and recommended: %s", strings.Join(overlap, ", ")))
		}

		for k, v := range f.Settings {
			cfg.Settings[k] = v
		}
		for glob, lang := range f.FileAssociations {
			associations[glob] = lang
		}
		for _, e := range f.RequiredExtensions {
			required[e] = true
		}
		for _, e := range f.RecommendedExtensions {
			recommended[e] = true
		}
		for _, t := range f.Tasks {
			if k := t.Key(); !seenTasks[k] {
				seenTasks[k] = true
				cfg.Tasks = append(cfg.Tasks, t)
			}
		}
		for _, l := range f.LaunchConfigurations {
			if k := l.Key(); !seenLaunch[k] {
				seenLaunch[k] = true
				cfg.Launch = append(cfg.Launch, l)
			}
		}
	}

	foldAssociations(cfg.Settings, associations)

	for e := range required {
		delete(recommended, e)
	}
	cfg.Required = sortedKeys(required)
	cfg.Recommended = sortedKeys(recommended)

	return cfg, diags
}

// foldAssociations merges collected file associations into the
// files.associations setting. Dedicated file_associations declarations
// win over globs a fragment put directly under settings.
func foldAssociations(settings map[string]any, associations map[string]string) {
	if len(associations) == 0 {
		return
	}
	merged := map[string]any{}
	if existing, ok := settings["files.associations"].(map[string]any); ok {
		for glob, lang := range existing {
			merged[glob] = lang
		}
	}
	for glob, lang := range associations {
		merged[glob] = lang
	}
	settings["files.associations"] = merged
}

func intersect(a, b []string) []string {
	inA := map[string]bool{}
	for _, s := range a {
		inA[s] = true
	}
	var out []string
	for _, s := range b {
		if inA[s] {
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
