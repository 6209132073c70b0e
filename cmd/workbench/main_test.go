package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestGenerateCommand(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "app.py", "print('hi')\n")

	out, err := execute(t, "generate", root, "--name", "demo")
	if err != nil {
		t.Fatalf("generate: %v\n%s", err, out)
	}
	if !strings.Contains(out, "demo.code-workspace") {
		t.Errorf("output missing workspace file:\n%s", out)
	}
	if _, err := os.Stat(filepath.Join(root, ".vscode", "settings.json")); err != nil {
		t.Errorf("settings.json not written: %v", err)
	}
}

func TestDetectCommand(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "main.tf", "resource {}\n")

	out, err := execute(t, "detect", root)
	if err != nil {
		t.Fatalf("detect: %v\n%s", err, out)
	}
	if !strings.Contains(out, "terraform") || !strings.Contains(out, "infra") {
		t.Errorf("detect output missing terraform/infra:\n%s", out)
	}
}

func TestValidateCommandCleanRepo(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "app.py", "print('hi')\n")

	out, err := execute(t, "validate", root)
	if err != nil {
		t.Fatalf("validate: %v\n%s", err, out)
	}
	if !strings.Contains(out, "validation passed") {
		t.Errorf("output = %q", out)
	}
}

func TestValidateCommandFailsOnDrift(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "app.py", "print('hi')\n")
	writeFile(t, root, ".workbench/repository.yaml",
		"languages:\n  - python\nplatform: gitlab\ntypes:\n  - lib\n")

	if _, err := execute(t, "validate", root); err == nil {
		t.Fatal("validate should fail on a corrupted metadata document")
	}
}

func TestBatchCommand(t *testing.T) {
	parent := t.TempDir()
	writeFile(t, parent, "repo-a/app.py", "print('hi')\n")
	writeFile(t, parent, "repo-b/main.tf", "resource {}\n")

	out, err := execute(t, "batch", parent, "--parallel", "2")
	if err != nil {
		t.Fatalf("batch: %v\n%s", err, out)
	}
	for _, want := range []string{"repo-a", "repo-b", "TOTAL"} {
		if !strings.Contains(out, want) {
			t.Errorf("batch output missing %q:\n%s", want, out)
		}
	}
	if _, err := os.Stat(filepath.Join(parent, "repo-a", ".vscode", "settings.json")); err != nil {
		t.Errorf("repo-a artifacts not written: %v", err)
	}
}

func TestMissingRootFails(t *testing.T) {
	if _, err := execute(t, "generate", filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatal("generate on a missing root should fail")
	}
}
