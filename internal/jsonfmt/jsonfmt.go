// Package jsonfmt renders nested JSON-shaped values as indented text
// with a trailing comma after every element, including the last.
//
// The trailing comma keeps the output append-safe (inserting an
// element never rewrites the preceding line) and removes last-element
// branches from the generator. Readers must therefore tolerate
// trailing commas (JSONC); plain encoding/json will not parse it.
package jsonfmt

import (
	"encoding/json"
	"sort"
	"strings"
)

// IndentStep is the fixed per-level indentation.
const IndentStep = "  "

// Format renders v at the given indent level. Lists and maps expand
// one element per line; empty collections stay on one line as []/{}.
// Scalars use the standard JSON encoding. Map keys are emitted in
// sorted order so output is byte-stable across runs.
func Format(v any, indent int) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case []any:
		return formatList(x, indent)
	case map[string]any:
		return formatMap(x, indent)
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return "null"
		}
		if len(b) > 0 && (b[0] == '[' || b[0] == '{') {
			// Typed slices, maps and structs: normalize through the
			// JSON data model, then format the generic shape.
			var norm any
			if err := json.Unmarshal(b, &norm); err != nil {
				return string(b)
			}
			return Format(norm, indent)
		}
		return string(b)
	}
}

func formatList(items []any, indent int) string {
	if len(items) == 0 {
		return "[]"
	}
	base := strings.Repeat(IndentStep, indent)
	inner := strings.Repeat(IndentStep, indent+1)

	var b strings.Builder
	b.WriteString("[\n")
	for _, it := range items {
		b.WriteString(inner)
		b.WriteString(Format(it, indent+1))
		b.WriteString(",\n")
	}
	b.WriteString(base)
	b.WriteString("]")
	return b.String()
}

func formatMap(m map[string]any, indent int) string {
	if len(m) == 0 {
		return "{}"
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	base := strings.Repeat(IndentStep, indent)
	inner := strings.Repeat(IndentStep, indent+1)

	var b strings.Builder
	b.WriteString("{\n")
	for _, k := range keys {
		kb, _ := json.Marshal(k)
		b.WriteString(inner)
		b.Write(kb)
		b.WriteString(": ")
		b.WriteString(Format(m[k], indent+1))
		b.WriteString(",\n")
	}
	b.WriteString(base)
	b.WriteString("}")
	return b.String()
}
