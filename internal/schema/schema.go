// Package schema validates generated documents against declarative
// shape descriptions. Validation never panics and never stops early:
// every violation becomes an Issue with a dotted path into the document.
package schema

import (
	"fmt"
	"regexp"
	"sort"
)

// Type names the expected shape of a value.
type Type string

const (
	String Type = "string"
	Bool   Type = "bool"
	Number Type = "number"
	List   Type = "list"
	Map    Type = "map"
	Any    Type = "any"
)

// Schema describes one node of a document.
type Schema struct {
	Name string // document name, used only on the root for messages

	Type    Type
	Enum    []string       // allowed values for String nodes
	Pattern *regexp.Regexp // value pattern for String nodes

	Elem     *Schema // element schema for List nodes
	MinItems int     // minimum length for List nodes

	Fields     map[string]*Schema // named fields for Map nodes
	Required   []string           // fields that must be present
	KeyPattern *regexp.Regexp     // pattern for keys outside Fields
	Values     *Schema            // schema for values under patterned keys
	AllowExtra bool               // tolerate keys outside Fields
}

// Issue is one validation failure located by a document path such as
// "languages[2]" or "python.settings".
type Issue struct {
	Path    string
	Message string
}

func (i Issue) String() string {
	if i.Path == "" {
		return i.Message
	}
	return fmt.Sprintf("%s: %s", i.Path, i.Message)
}

// Result is the outcome of validating one document.
type Result struct {
	Valid  bool
	Errors []Issue
}

// Merge folds another result into this one.
func (r Result) Merge(other Result) Result {
	return Result{
		Valid:  r.Valid && other.Valid,
		Errors: append(append([]Issue{}, r.Errors...), other.Errors...),
	}
}

// Validate checks doc against s and returns every violation found.
// doc uses the generic JSON value model: map[string]any, []any, string,
// bool, float64 and nil.
func Validate(doc any, s *Schema) Result {
	var issues []Issue
	walk("", doc, s, &issues)
	return Result{Valid: len(issues) == 0, Errors: issues}
}

func walk(path string, v any, s *Schema, issues *[]Issue) {
	if s == nil || s.Type == Any {
		return
	}
	switch s.Type {
	case String:
		str, ok := v.(string)
		if !ok {
			report(issues, path, "expected string, got %s", typeName(v))
			return
		}
		if len(s.Enum) > 0 && !inEnum(str, s.Enum) {
			report(issues, path, "value %q not in %v", str, s.Enum)
		}
		if s.Pattern != nil && !s.Pattern.MatchString(str) {
			report(issues, path, "value %q does not match %s", str, s.Pattern)
		}
	case Bool:
		if _, ok := v.(bool); !ok {
			report(issues, path, "expected bool, got %s", typeName(v))
		}
	case Number:
		switch v.(type) {
		case float64, int:
		default:
			report(issues, path, "expected number, got %s", typeName(v))
		}
	case List:
		list, ok := asList(v)
		if !ok {
			report(issues, path, "expected list, got %s", typeName(v))
			return
		}
		if len(list) < s.MinItems {
			report(issues, path, "expected at least %d items, got %d", s.MinItems, len(list))
		}
		for i, item := range list {
			walk(fmt.Sprintf("%s[%d]", path, i), item, s.Elem, issues)
		}
	case Map:
		m, ok := v.(map[string]any)
		if !ok {
			report(issues, path, "expected map, got %s", typeName(v))
			return
		}
		for _, field := range s.Required {
			if _, present := m[field]; !present {
				report(issues, joinPath(path, field), "required field missing")
			}
		}
		for _, key := range sortedMapKeys(m) {
			child := joinPath(path, key)
			if fieldSchema, known := s.Fields[key]; known {
				walk(child, m[key], fieldSchema, issues)
				continue
			}
			if s.KeyPattern != nil {
				if !s.KeyPattern.MatchString(key) {
					report(issues, child, "key %q does not match %s", key, s.KeyPattern)
					continue
				}
				walk(child, m[key], s.Values, issues)
				continue
			}
			if !s.AllowExtra {
				report(issues, child, "unexpected field")
			}
		}
	}
}

func report(issues *[]Issue, path, format string, args ...any) {
	*issues = append(*issues, Issue{Path: path, Message: fmt.Sprintf(format, args...)})
}

func joinPath(base, key string) string {
	if base == "" {
		return key
	}
	return base + "." + key
}

func asList(v any) ([]any, bool) {
	switch list := v.(type) {
	case []any:
		return list, true
	case []string:
		out := make([]any, len(list))
		for i, s := range list {
			out[i] = s
		}
		return out, true
	case nil:
		return nil, false
	}
	return nil, false
}

func inEnum(s string, enum []string) bool {
	for _, e := range enum {
		if s == e {
			return true
		}
	}
	return false
}

func sortedMapKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "bool"
	case float64, int:
		return "number"
	case []any:
		return "list"
	case map[string]any:
		return "map"
	}
	return fmt.Sprintf("%T", v)
}
