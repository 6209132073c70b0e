package schema

import (
	"regexp"

	"workbench/internal/detect"
)

// identifier is the shape of a technology or repository-kind name:
// lowercase, digit and a small punctuation set, never starting with one.
var identifier = regexp.MustCompile(`^[a-z][a-z0-9_+.-]*$`)

// RepositoryMetadata describes the detection record persisted alongside
// the generated workspace (languages, hosting platform, repository kinds).
func RepositoryMetadata() *Schema {
	return &Schema{
		Name:     "repository-metadata",
		Type:     Map,
		Required: []string{"languages", "platform", "types"},
		Fields: map[string]*Schema{
			"languages": {Type: List, Elem: &Schema{Type: String, Pattern: identifier}},
			"platform":  {Type: String, Enum: detect.Platforms()},
			"types":     {Type: List, MinItems: 1, Elem: &Schema{Type: String, Pattern: identifier}},
		},
	}
}

// TechnologySummary describes the per-technology summary document:
// a map keyed by technology identifier, each entry recording what that
// technology contributed to the merged configuration.
func TechnologySummary() *Schema {
	entry := &Schema{
		Type:     Map,
		Required: []string{"settings", "required_extensions", "recommended_extensions", "tasks"},
		Fields: map[string]*Schema{
			"settings":               {Type: Map, AllowExtra: true},
			"required_extensions":    {Type: List, Elem: &Schema{Type: String}},
			"recommended_extensions": {Type: List, Elem: &Schema{Type: String}},
			"tasks":                  {Type: List, Elem: &Schema{Type: Map, AllowExtra: true}},
			"launch_configurations":  {Type: List, Elem: &Schema{Type: Map, AllowExtra: true}},
		},
	}
	return &Schema{
		Name:       "technology-summary",
		Type:       Map,
		KeyPattern: identifier,
		Values:     entry,
	}
}
