package fragment

import (
	"log/slog"

	"gopkg.in/yaml.v3"

	"workbench/internal/detect"
	"workbench/internal/diag"
	"workbench/internal/logging"
)

// Loader renders and parses fragments for one repository's metadata.
// A load never fails: missing or malformed fragments degrade to an empty
// Fragment plus a diagnostic scoped to that technology.
type Loader struct {
	lib      Library
	renderer Renderer
	logger   *slog.Logger
}

// NewLoader builds a loader over the given library. A nil renderer means
// the default text/template renderer.
func NewLoader(lib Library, r Renderer) *Loader {
	if r == nil {
		r = NewRenderer()
	}
	return &Loader{lib: lib, renderer: r, logger: logging.New("fragment")}
}

// LoadLanguage loads the fragment for one detected language.
func (l *Loader) LoadLanguage(language string, meta detect.Metadata) (Fragment, []diag.Diagnostic) {
	return l.load("languages/"+language, language, meta)
}

// LoadPlatform loads the fragment for the detected hosting platform.
// The resulting fragment is labelled with the platform name so its
// diagnostics and summary entry stay distinguishable from languages.
func (l *Loader) LoadPlatform(platform string, meta detect.Metadata) (Fragment, []diag.Diagnostic) {
	return l.load("platforms/"+platform, platform, meta)
}

func (l *Loader) load(id, technology string, meta detect.Metadata) (Fragment, []diag.Diagnostic) {
	empty := Fragment{Technology: technology}

	src, ok := l.lib.Source(id)
	if !ok {
		d := diag.Warningf(diag.MissingFragment, technology, "no fragment %s in library", id)
		l.logger.Warn("fragment missing", "id", id, "technology", technology)
		return empty, []diag.Diagnostic{d}
	}

	ctx := Context{
		Technology: technology,
		Languages:  meta.Languages,
		Platform:   meta.Platform,
		Kinds:      meta.Kinds,
	}
	rendered, err := l.renderer.Render(id, string(src), ctx)
	if err != nil {
		d := diag.Errorf(diag.FragmentParse, technology, "render %s: %v", id, err)
		l.logger.Error("fragment render failed", "id", id, "error", err)
		return empty, []diag.Diagnostic{d}
	}

	var frag Fragment
	if err := yaml.Unmarshal([]byte(rendered), &frag); err != nil {
		d := diag.Errorf(diag.FragmentParse, technology, "parse %s: %v", id, err)
		l.logger.Error("fragment parse failed", "id", id, "error", err)
		return empty, []diag.Diagnostic{d}
	}
	frag.Technology = technology
	return frag, nil
}
