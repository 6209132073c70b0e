package merge

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"workbench/internal/detect"
	"workbench/internal/diag"
	"workbench/internal/fragment"
)

func TestMergeSettingsLaterWins(t *testing.T) {
	frags := []fragment.Fragment{
		{Technology: "python", Settings: map[string]any{
			"editor.rulers":  []any{float64(88)},
			"editor.tabSize": float64(4),
			"files.autoSave": "off",
		}},
		{Technology: "github", Settings: map[string]any{
			"editor.rulers": []any{float64(120)},
			"git.autofetch": true,
		}},
	}

	cfg, diags := Merge(detect.Metadata{}, frags)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}

	want := map[string]any{
		"editor.rulers":  []any{float64(120)},
		"editor.tabSize": float64(4),
		"files.autoSave": "off",
		"git.autofetch":  true,
	}
	if diff := cmp.Diff(want, cfg.Settings); diff != "" {
		t.Errorf("settings mismatch (-want +got):\n%s", diff)
	}
}

func TestMergeShallowOverride(t *testing.T) {
	// Top-level keys replace wholesale: nested maps are not merged key-by-key.
	frags := []fragment.Fragment{
		{Settings: map[string]any{"[python]": map[string]any{"editor.formatOnSave": true, "editor.tabSize": float64(4)}}},
		{Settings: map[string]any{"[python]": map[string]any{"editor.formatOnSave": false}}},
	}
	cfg, _ := Merge(detect.Metadata{}, frags)

	want := map[string]any{"editor.formatOnSave": false}
	if diff := cmp.Diff(want, cfg.Settings["[python]"]); diff != "" {
		t.Errorf("nested block not replaced wholesale (-want +got):\n%s", diff)
	}
}

func TestMergeExtensionsRequiredWins(t *testing.T) {
	frags := []fragment.Fragment{
		{Technology: "python", RequiredExtensions: []string{"ms-python.python"}, RecommendedExtensions: []string{"ms-python.vscode-pylance"}},
		{Technology: "github", RecommendedExtensions: []string{"ms-python.python", "github.vscode-pull-request-github"}},
	}
	cfg, diags := Merge(detect.Metadata{}, frags)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}

	if diff := cmp.Diff([]string{"ms-python.python"}, cfg.Required); diff != "" {
		t.Errorf("required mismatch (-want +got):\n%s", diff)
	}
	wantRec := []string{"github.vscode-pull-request-github", "ms-python.vscode-pylance"}
	if diff := cmp.Diff(wantRec, cfg.Recommended); diff != "" {
		t.Errorf("recommended mismatch (-want +got):\n%s", diff)
	}
}

func TestMergeInvariantViolation(t *testing.T) {
	frags := []fragment.Fragment{
		{Technology: "go", RequiredExtensions: []string{"golang.go"}, RecommendedExtensions: []string{"golang.go"}},
	}
	cfg, diags := Merge(detect.Metadata{}, frags)

	if len(diags) != 1 {
		t.Fatalf("diagnostics = %v, want one fragment_invariant warning", diags)
	}
	if diags[0].Code != diag.FragmentInvariant || diags[0].Technology != "go" {
		t.Errorf("diagnostic = %+v", diags[0])
	}
	if diff := cmp.Diff([]string{"golang.go"}, cfg.Required); diff != "" {
		t.Errorf("required mismatch (-want +got):\n%s", diff)
	}
	if len(cfg.Recommended) != 0 {
		t.Errorf("recommended = %v, want empty", cfg.Recommended)
	}
}

func TestMergeTaskDedup(t *testing.T) {
	lint := fragment.Task{Label: "lint", Command: "make", Args: []string{"lint"}}
	frags := []fragment.Fragment{
		{Technology: "go", Tasks: []fragment.Task{{Label: "build", Command: "go", Args: []string{"build", "./..."}}, lint}},
		{Technology: "python", Tasks: []fragment.Task{lint, {Label: "test", Command: "pytest"}}},
	}
	cfg, _ := Merge(detect.Metadata{}, frags)

	labels := make([]string, len(cfg.Tasks))
	for i, task := range cfg.Tasks {
		labels[i] = task.Label
	}
	if diff := cmp.Diff([]string{"build", "lint", "test"}, labels); diff != "" {
		t.Errorf("task order mismatch (-want +got):\n%s", diff)
	}
}

func TestMergeLaunchDedup(t *testing.T) {
	dbg := fragment.LaunchConfig{Name: "debug", Type: "go", Request: "launch"}
	frags := []fragment.Fragment{
		{LaunchConfigurations: []fragment.LaunchConfig{dbg}},
		{LaunchConfigurations: []fragment.LaunchConfig{dbg, {Name: "attach", Type: "go", Request: "attach"}}},
	}
	cfg, _ := Merge(detect.Metadata{}, frags)
	if len(cfg.Launch) != 2 {
		t.Fatalf("launch = %d entries, want 2", len(cfg.Launch))
	}
	if cfg.Launch[0].Name != "debug" || cfg.Launch[1].Name != "attach" {
		t.Errorf("launch order = %v", cfg.Launch)
	}
}

func TestMergeFileAssociationsFolded(t *testing.T) {
	frags := []fragment.Fragment{
		{
			Settings:         map[string]any{"files.associations": map[string]any{"*.tpl": "helm"}},
			FileAssociations: map[string]string{"*.tf": "terraform"},
		},
		{FileAssociations: map[string]string{"*.tf": "terraform-vars", "*.py": "python"}},
	}
	cfg, _ := Merge(detect.Metadata{}, frags)

	want := map[string]any{
		"*.py":  "python",
		"*.tf":  "terraform-vars",
		"*.tpl": "helm",
	}
	if diff := cmp.Diff(want, cfg.Settings["files.associations"]); diff != "" {
		t.Errorf("files.associations mismatch (-want +got):\n%s", diff)
	}
}

func TestMergeEmpty(t *testing.T) {
	cfg, diags := Merge(detect.Metadata{}, nil)
	if len(diags) != 0 {
		t.Errorf("diagnostics = %v, want none", diags)
	}
	if len(cfg.Settings) != 0 || len(cfg.Required) != 0 || len(cfg.Tasks) != 0 {
		t.Errorf("empty merge produced content: %+v", cfg)
	}
}
