package detect

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Platform values form a closed enumeration. The zero-evidence
// fallback is configured per rule set; PlatformNone exists for rule
// sets that want an explicit no-platform answer.
const (
	PlatformGitHub      = "github"
	PlatformAzureDevOps = "azuredevops"
	PlatformNone        = "none"
)

// Platforms returns the closed platform enumeration.
func Platforms() []string {
	return []string{PlatformGitHub, PlatformAzureDevOps, PlatformNone}
}

// LanguagePattern maps one technology identifier to the file globs
// that count as evidence for it. Globs use doublestar syntax and are
// matched against the lowercased slash-separated relative path.
type LanguagePattern struct {
	Technology string
	Globs      []string
}

// PlatformMarker ties a platform to the repository paths that mark
// it. Markers are checked in slice order; the first platform with a
// present marker wins, regardless of how many later markers match.
type PlatformMarker struct {
	Platform string
	Paths    []string
}

// Evidence is what one traversal of the repository collected. Kind
// rules are predicates over it.
type Evidence struct {
	Root       string
	Languages  map[string]bool
	Extensions map[string]bool // lowercased, with leading dot
	Paths      map[string]bool // slash-separated relative paths, files and dirs
}

// HasPath reports whether the exact relative path was seen.
func (e Evidence) HasPath(p string) bool { return e.Paths[p] }

// HasExtension reports whether any file with the extension was seen.
func (e Evidence) HasExtension(ext string) bool { return e.Extensions[ext] }

// HasLanguage reports whether the technology was detected.
func (e Evidence) HasLanguage(l string) bool { return e.Languages[l] }

// KindRule adds repository-purpose tags. Rules run in slice order and
// fire independently; a rule may consult the tags assigned so far.
type KindRule struct {
	Name string
	Add  func(ev Evidence, have map[string]bool) []string
}

// RuleSet is the full detection configuration. It is an explicit
// value handed to Detect so synthetic rule sets work in tests and
// nothing is shared across concurrent runs.
type RuleSet struct {
	Languages       []LanguagePattern
	Platforms       []PlatformMarker
	Kinds           []KindRule
	IgnoreDirs      []string
	DefaultKind     string
	DefaultPlatform string
}

// DefaultRules returns the built-in detection rule set.
func DefaultRules() *RuleSet {
	return &RuleSet{
		Languages: []LanguagePattern{
			{Technology: "terraform", Globs: []string{"**/*.tf", "**/*.tfvars", "**/*.hcl", "**/*.tftpl"}},
			{Technology: "python", Globs: []string{"**/*.py", "**/*.pyx", "**/*.pyi"}},
			{Technology: "go", Globs: []string{"**/*.go", "**/go.mod", "**/go.sum"}},
			{Technology: "markdown", Globs: []string{"**/*.md", "**/*.markdown", "**/*.mdx"}},
			{Technology: "yaml", Globs: []string{"**/*.yml", "**/*.yaml"}},
			{Technology: "json", Globs: []string{"**/*.json", "**/*.jsonc"}},
			{Technology: "shell", Globs: []string{"**/*.sh", "**/*.bash", "**/*.zsh"}},
			{Technology: "powershell", Globs: []string{"**/*.ps1", "**/*.psm1", "**/*.psd1"}},
			{Technology: "sql", Globs: []string{"**/*.sql"}},
			{Technology: "j2", Globs: []string{"**/*.j2", "**/*.jinja", "**/*.jinja2"}},
		},
		Platforms: []PlatformMarker{
			{Platform: PlatformGitHub, Paths: []string{".github", ".github/workflows"}},
			{Platform: PlatformAzureDevOps, Paths: []string{"azure-pipelines.yml", "azure-pipelines.yaml", ".azure"}},
		},
		Kinds: []KindRule{
			{Name: "infra", Add: infraKind},
			{Name: "python-lib", Add: pythonLibKind},
			{Name: "node", Add: nodeKind},
			{Name: "docker-app", Add: dockerKind},
			{Name: "docs", Add: docsKind},
			{Name: "template", Add: templateKind},
		},
		IgnoreDirs: []string{
			".git", ".vscode", ".workbench", "node_modules", ".terraform",
			"__pycache__", ".pytest_cache", ".mypy_cache",
			"venv", ".venv", "env", ".env", "dist", "build",
		},
		DefaultKind:     "lib",
		DefaultPlatform: PlatformGitHub,
	}
}

func infraKind(ev Evidence, _ map[string]bool) []string {
	var kinds []string
	if ev.HasPath("main.tf") || ev.HasPath("terraform") {
		kinds = append(kinds, "infra")
	}
	// Terraform template files mark the repo as both infrastructure
	// and a template source.
	if ev.HasExtension(".tftpl") {
		kinds = append(kinds, "infra", "template")
	}
	return kinds
}

func pythonLibKind(ev Evidence, _ map[string]bool) []string {
	if ev.HasPath("setup.py") || ev.HasPath("pyproject.toml") {
		return []string{"lib"}
	}
	return nil
}

func nodeKind(ev Evidence, _ map[string]bool) []string {
	if !ev.HasPath("package.json") {
		return nil
	}
	data, err := os.ReadFile(filepath.Join(ev.Root, "package.json"))
	if err != nil {
		return []string{"lib"}
	}
	var pkg struct {
		Dependencies map[string]string `json:"dependencies"`
		Scripts      map[string]string `json:"scripts"`
	}
	if err := json.Unmarshal(data, &pkg); err != nil {
		return []string{"lib"}
	}
	if _, ok := pkg.Dependencies["next"]; ok {
		return []string{"site"}
	}
	if _, ok := pkg.Scripts["build"]; ok {
		return []string{"app"}
	}
	return []string{"lib"}
}

func dockerKind(ev Evidence, _ map[string]bool) []string {
	if ev.HasPath("Dockerfile") {
		return []string{"app"}
	}
	return nil
}

func docsKind(ev Evidence, have map[string]bool) []string {
	if len(have) > 0 {
		return nil
	}
	if ev.HasPath("README.md") || ev.HasPath("docs") || ev.HasPath("documentation") {
		return []string{"docs"}
	}
	return nil
}

func templateKind(ev Evidence, _ map[string]bool) []string {
	for _, ext := range []string{".j2", ".jinja", ".jinja2"} {
		if ev.HasExtension(ext) {
			return []string{"template"}
		}
	}
	for _, f := range []string{"cookiecutter.json", ".cookiecutter.json", "template.yaml"} {
		if ev.HasPath(f) {
			return []string{"template"}
		}
	}
	return nil
}
