package detect

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", rel, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", rel, err)
	}
}

func TestDetect_MissingRoot(t *testing.T) {
	_, err := Detect(filepath.Join(t.TempDir(), "nope"), DefaultRules())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestDetect_EmptyRepo(t *testing.T) {
	meta, err := Detect(t.TempDir(), DefaultRules())
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if len(meta.Languages) != 0 {
		t.Errorf("empty repo should have no languages, got %v", meta.Languages)
	}
	if meta.Platform != PlatformGitHub {
		t.Errorf("default platform: got %q", meta.Platform)
	}
	if diff := cmp.Diff([]string{"lib"}, meta.Kinds); diff != "" {
		t.Errorf("default kind (-want +got):\n%s", diff)
	}
}

func TestDetect_SingleLanguage(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/app.py", "print()")
	writeFile(t, root, "tool.py", "")

	meta, err := Detect(root, DefaultRules())
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if diff := cmp.Diff([]string{"python"}, meta.Languages); diff != "" {
		t.Errorf("languages (-want +got):\n%s", diff)
	}
}

func TestDetect_LanguagesSortedAndUnique(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "main.go", "package main")
	writeFile(t, root, "go.mod", "module x")
	writeFile(t, root, "scripts/run.sh", "#!/bin/sh")
	writeFile(t, root, "README.md", "# x")

	meta, err := Detect(root, DefaultRules())
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	want := []string{"go", "markdown", "shell"}
	if diff := cmp.Diff(want, meta.Languages); diff != "" {
		t.Errorf("languages (-want +got):\n%s", diff)
	}
}

func TestDetect_IgnoredDirs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "node_modules/pkg/index.sh", "")
	writeFile(t, root, ".git/config.sql", "")

	meta, err := Detect(root, DefaultRules())
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if len(meta.Languages) != 0 {
		t.Errorf("ignored dirs leaked into detection: %v", meta.Languages)
	}
}

func TestDetect_PlatformPriority(t *testing.T) {
	root := t.TempDir()
	// Markers for both platforms: the first platform in the rule set wins.
	writeFile(t, root, ".github/workflows/ci.yml", "")
	writeFile(t, root, "azure-pipelines.yml", "")

	meta, err := Detect(root, DefaultRules())
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if meta.Platform != PlatformGitHub {
		t.Errorf("platform: got %q, want github (priority order)", meta.Platform)
	}
}

func TestDetect_PlatformAzure(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "azure-pipelines.yml", "")

	meta, err := Detect(root, DefaultRules())
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if meta.Platform != PlatformAzureDevOps {
		t.Errorf("platform: got %q", meta.Platform)
	}
}

func TestDetect_MultiKind(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "templates/userdata.tftpl", "")

	meta, err := Detect(root, DefaultRules())
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if !meta.HasKind("infra") || !meta.HasKind("template") {
		t.Errorf("tftpl should imply infra+template, got %v", meta.Kinds)
	}
}

func TestDetect_NodeKinds(t *testing.T) {
	cases := []struct {
		name string
		pkg  string
		want string
	}{
		{"next-site", `{"dependencies":{"next":"14.0.0"}}`, "site"},
		{"build-app", `{"scripts":{"build":"tsc"}}`, "app"},
		{"plain-lib", `{"name":"x"}`, "lib"},
		{"bad-json", `{not json`, "lib"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			root := t.TempDir()
			writeFile(t, root, "package.json", c.pkg)

			meta, err := Detect(root, DefaultRules())
			if err != nil {
				t.Fatalf("Detect: %v", err)
			}
			if !meta.HasKind(c.want) {
				t.Errorf("kinds %v should include %q", meta.Kinds, c.want)
			}
		})
	}
}

func TestDetect_DocsOnlyWhenNothingElse(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "README.md", "# docs")

	meta, err := Detect(root, DefaultRules())
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if diff := cmp.Diff([]string{"docs"}, meta.Kinds); diff != "" {
		t.Errorf("kinds (-want +got):\n%s", diff)
	}

	// With a Dockerfile present, app fires first and docs stays out.
	writeFile(t, root, "Dockerfile", "FROM scratch")
	meta, err = Detect(root, DefaultRules())
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if meta.HasKind("docs") {
		t.Errorf("docs should not fire alongside other kinds: %v", meta.Kinds)
	}
	if !meta.HasKind("app") {
		t.Errorf("app should fire for Dockerfile: %v", meta.Kinds)
	}
}

func TestDetect_SyntheticRuleSet(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "circuit.xyz", "")

	rules := &RuleSet{
		Languages: []LanguagePattern{
			{Technology: "xyzlang", Globs: []string{"**/*.xyz"}},
		},
		Kinds: []KindRule{
			{Name: "fixture", Add: func(ev Evidence, _ map[string]bool) []string {
				if ev.HasLanguage("xyzlang") {
					return []string{"fixture"}
				}
				return nil
			}},
		},
		DefaultKind:     "generic",
		DefaultPlatform: PlatformNone,
	}

	meta, err := Detect(root, rules)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	want := Metadata{Languages: []string{"xyzlang"}, Platform: PlatformNone, Kinds: []string{"fixture"}}
	if diff := cmp.Diff(want, meta); diff != "" {
		t.Errorf("metadata (-want +got):\n%s", diff)
	}
}

func TestDetect_Deterministic(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.py", "")
	writeFile(t, root, "b.go", "")
	writeFile(t, root, "c.md", "")
	writeFile(t, root, "setup.py", "")
	writeFile(t, root, "Dockerfile", "")

	first, err := Detect(root, DefaultRules())
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := Detect(root, DefaultRules())
		if err != nil {
			t.Fatalf("Detect: %v", err)
		}
		if diff := cmp.Diff(first, again); diff != "" {
			t.Fatalf("detection not deterministic (-first +again):\n%s", diff)
		}
	}
}
