package output

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"workbench/internal/fragment"
	"workbench/internal/jsonfmt"
)

// SummaryDocument builds the per-technology summary as a generic value
// tree. Empty fragments (missing or degraded loads) are left out so the
// document only records technologies that contributed something.
func SummaryDocument(frags []fragment.Fragment) map[string]any {
	doc := map[string]any{}
	for _, f := range frags {
		if f.Empty() {
			continue
		}
		entry := map[string]any{
			"settings":               nonNilMap(f.Settings),
			"required_extensions":    nonNilList(f.RequiredExtensions),
			"recommended_extensions": nonNilList(f.RecommendedExtensions),
			"tasks":                  jsonList(f.Tasks),
		}
		if len(f.LaunchConfigurations) > 0 {
			entry["launch_configurations"] = jsonList(f.LaunchConfigurations)
		}
		doc[f.Technology] = entry
	}
	return doc
}

// summaryFile renders the summary with a provenance comment above each
// technology entry. The comments are the reason this artifact is JSONC
// rather than plain JSON.
func summaryFile(frags []fragment.Fragment) []byte {
	doc := SummaryDocument(frags)

	techs := make([]string, 0, len(doc))
	for t := range doc {
		techs = append(techs, t)
	}
	sort.Strings(techs)

	var sb strings.Builder
	sb.WriteString("// Per-technology contributions to the generated workspace.\n")
	if len(techs) == 0 {
		sb.WriteString("{}\n")
		return []byte(sb.String())
	}

	sb.WriteString("{\n")
	for i, tech := range techs {
		f := findFragment(frags, tech)
		sb.WriteString(fmt.Sprintf("%s// %s: %d settings, %d tasks, %d extensions\n",
			jsonfmt.IndentStep, tech,
			len(f.Settings), len(f.Tasks),
			len(f.RequiredExtensions)+len(f.RecommendedExtensions)))
		sb.WriteString(fmt.Sprintf("%s%q: %s,\n", jsonfmt.IndentStep, tech, jsonfmt.Format(doc[tech], 1)))
		if i < len(techs)-1 {
			sb.WriteString("\n")
		}
	}
	sb.WriteString("}\n")
	return []byte(sb.String())
}

func findFragment(frags []fragment.Fragment, tech string) fragment.Fragment {
	for _, f := range frags {
		if f.Technology == tech {
			return f
		}
	}
	return fragment.Fragment{}
}

func nonNilMap(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}

func nonNilList(list []string) []any {
	out := make([]any, len(list))
	for i, s := range list {
		out[i] = s
	}
	return out
}

// jsonList converts typed values to the generic JSON value model so the
// summary can be schema-validated the same way whether it was built
// in-process or re-read from disk.
func jsonList[T any](list []T) []any {
	out := make([]any, len(list))
	for i, v := range list {
		b, err := json.Marshal(v)
		if err != nil {
			continue
		}
		var generic any
		if err := json.Unmarshal(b, &generic); err != nil {
			continue
		}
		out[i] = generic
	}
	return out
}
