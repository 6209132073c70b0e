// Package output writes the generated workspace artifacts. Every file
// is written atomically: content goes to a temp file in the target
// directory first and is renamed into place, so a crash never leaves a
// half-written artifact behind.
package output

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"workbench/internal/detect"
	"workbench/internal/fragment"
	"workbench/internal/jsonfmt"
	"workbench/internal/logging"
	"workbench/internal/merge"
)

// ConfigDirName is the directory holding the metadata and summary documents.
const ConfigDirName = ".workbench"

// WrittenFile records one successfully written artifact.
type WrittenFile struct {
	Path  string // relative to the repository root
	Bytes int
}

// WriteReport lists what a generation run put on disk. When a write
// fails the report still covers everything written before the failure.
type WriteReport struct {
	Root  string
	Files []WrittenFile
}

// Writer renders and writes workspace artifacts for one repository.
type Writer struct {
	logger *slog.Logger
}

func NewWriter() *Writer {
	return &Writer{logger: logging.New("output")}
}

// Write emits the full artifact set under root: the .code-workspace
// file, the .vscode editor documents, and the .workbench metadata and
// summary documents. Artifacts are written in a fixed order; the first
// failure aborts the run and is returned alongside the partial report.
func (w *Writer) Write(root, name string, meta detect.Metadata, cfg merge.Config, frags []fragment.Fragment) (WriteReport, error) {
	report := WriteReport{Root: root}

	artifacts := []struct {
		path string
		data []byte
	}{
		{name + ".code-workspace", workspaceFile(cfg)},
		{filepath.Join(".vscode", "settings.json"), settingsFile(cfg)},
		{filepath.Join(".vscode", "extensions.json"), extensionsFile(cfg)},
		{filepath.Join(".vscode", "tasks.json"), tasksFile(cfg)},
		{filepath.Join(".vscode", "launch.json"), launchFile(cfg)},
		{filepath.Join(ConfigDirName, "repository.yaml"), metadataFile(meta)},
		{filepath.Join(ConfigDirName, "summary.jsonc"), summaryFile(frags)},
	}

	for _, a := range artifacts {
		full := filepath.Join(root, a.path)
		if err := writeFileAtomic(full, a.data); err != nil {
			w.logger.Error("write failed", "path", a.path, "error", err)
			return report, fmt.Errorf("output: write %s: %w", a.path, err)
		}
		w.logger.Debug("wrote artifact", "path", a.path, "bytes", len(a.data))
		report.Files = append(report.Files, WrittenFile{Path: a.path, Bytes: len(a.data)})
	}
	return report, nil
}

func workspaceFile(cfg merge.Config) []byte {
	doc := map[string]any{
		"folders":  []any{map[string]any{"path": "."}},
		"settings": cfg.Settings,
	}
	return []byte(jsonfmt.Format(doc, 0) + "\n")
}

func settingsFile(cfg merge.Config) []byte {
	return []byte(jsonfmt.Format(cfg.Settings, 0) + "\n")
}

func extensionsFile(cfg merge.Config) []byte {
	doc := map[string]any{
		"required":    cfg.Required,
		"recommended": cfg.Recommended,
	}
	return []byte(jsonfmt.Format(doc, 0) + "\n")
}

func tasksFile(cfg merge.Config) []byte {
	doc := map[string]any{
		"version": "2.0.0",
		"tasks":   jsonList(cfg.Tasks),
	}
	return []byte(jsonfmt.Format(doc, 0) + "\n")
}

func launchFile(cfg merge.Config) []byte {
	doc := map[string]any{
		"version":        "0.2.0",
		"configurations": jsonList(cfg.Launch),
	}
	return []byte(jsonfmt.Format(doc, 0) + "\n")
}

// metadataDoc is the YAML shape of .workbench/repository.yaml. Field
// order is fixed so regeneration is byte-stable.
type metadataDoc struct {
	Languages []string `yaml:"languages"`
	Platform  string   `yaml:"platform"`
	Types     []string `yaml:"types"`
}

func metadataFile(meta detect.Metadata) []byte {
	doc := metadataDoc{
		Languages: meta.Languages,
		Platform:  meta.Platform,
		Types:     meta.Kinds,
	}
	body, err := yaml.Marshal(doc)
	if err != nil {
		// The struct has no unmarshalable fields.
		panic(err)
	}
	header := "# Repository metadata detected by workbench. Regenerated on every run.\n"
	return append([]byte(header), body...)
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".workbench-tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
