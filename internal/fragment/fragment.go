// Package fragment loads per-technology configuration fragments from a
// template library and parses them into a neutral value model that the
// merge layer can combine.
package fragment

import "encoding/json"

// Fragment is one technology's contribution to the workspace configuration.
// All fields are optional; a zero Fragment contributes nothing.
type Fragment struct {
	// Technology is the identifier the fragment was loaded for. It is set
	// by the loader, never by the fragment source itself.
	Technology string `yaml:"-" json:"technology,omitempty"`

	FileAssociations      map[string]string `yaml:"file_associations" json:"file_associations,omitempty"`
	Settings              map[string]any    `yaml:"settings" json:"settings,omitempty"`
	RequiredExtensions    []string          `yaml:"required_extensions" json:"required_extensions,omitempty"`
	RecommendedExtensions []string          `yaml:"recommended_extensions" json:"recommended_extensions,omitempty"`
	Tasks                 []Task            `yaml:"tasks" json:"tasks,omitempty"`
	LaunchConfigurations  []LaunchConfig    `yaml:"launch_configurations" json:"launch_configurations,omitempty"`
}

// Task describes one editor task contributed by a fragment.
type Task struct {
	Label   string   `yaml:"label" json:"label"`
	Type    string   `yaml:"type,omitempty" json:"type,omitempty"`
	Command string   `yaml:"command" json:"command"`
	Args    []string `yaml:"args,omitempty" json:"args,omitempty"`
	Group   string   `yaml:"group,omitempty" json:"group,omitempty"`
}

// LaunchConfig describes one debugger launch configuration.
type LaunchConfig struct {
	Name    string            `yaml:"name" json:"name"`
	Type    string            `yaml:"type" json:"type"`
	Request string            `yaml:"request" json:"request"`
	Program string            `yaml:"program,omitempty" json:"program,omitempty"`
	Mode    string            `yaml:"mode,omitempty" json:"mode,omitempty"`
	Args    []string          `yaml:"args,omitempty" json:"args,omitempty"`
	Env     map[string]string `yaml:"env,omitempty" json:"env,omitempty"`
}

// Empty reports whether the fragment contributes nothing to the merge.
func (f Fragment) Empty() bool {
	return len(f.FileAssociations) == 0 &&
		len(f.Settings) == 0 &&
		len(f.RequiredExtensions) == 0 &&
		len(f.RecommendedExtensions) == 0 &&
		len(f.Tasks) == 0 &&
		len(f.LaunchConfigurations) == 0
}

// Key returns a structural identity for deduplication. Two tasks with the
// same field values share a key regardless of which fragment declared them.
func (t Task) Key() string { return structKey(t) }

// Key returns a structural identity for deduplication.
func (l LaunchConfig) Key() string { return structKey(l) }

func structKey(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}
