// Package detect walks a repository once and turns file-tree evidence
// into metadata: detected languages, hosting platform, and
// repository-purpose kinds.
package detect

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ErrNotFound is returned when the repository root does not exist or
// is not a readable directory. It is the only fatal condition here;
// sparse and empty repositories are valid input.
var ErrNotFound = errors.New("repository root not found")

// Metadata holds the detected facts about one repository. Built fresh
// per run and immutable afterward.
type Metadata struct {
	Languages []string // sorted, unique; empty when nothing matched
	Platform  string   // one of Platforms()
	Kinds     []string // sorted, unique, never empty
}

// HasLanguage reports whether the technology was detected.
func (m Metadata) HasLanguage(l string) bool {
	for _, x := range m.Languages {
		if x == l {
			return true
		}
	}
	return false
}

// HasKind reports whether the repository carries the purpose tag.
func (m Metadata) HasKind(k string) bool {
	for _, x := range m.Kinds {
		if x == k {
			return true
		}
	}
	return false
}

// Detect traverses root once, applies the rule set, and returns the
// repository metadata.
func Detect(root string, rules *RuleSet) (Metadata, error) {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return Metadata{}, fmt.Errorf("detect %s: %w", root, ErrNotFound)
	}

	ev, err := gather(root, rules)
	if err != nil {
		return Metadata{}, fmt.Errorf("detect %s: %w", root, err)
	}

	meta := Metadata{
		Languages: sortedKeys(ev.Languages),
		Platform:  detectPlatform(root, rules, ev),
		Kinds:     inferKinds(ev, rules),
	}
	return meta, nil
}

// gather performs the single traversal, collecting language matches,
// observed extensions, and the relative path set.
func gather(root string, rules *RuleSet) (Evidence, error) {
	ev := Evidence{
		Root:       root,
		Languages:  map[string]bool{},
		Extensions: map[string]bool{},
		Paths:      map[string]bool{},
	}

	ignored := map[string]bool{}
	for _, d := range rules.IgnoreDirs {
		ignored[d] = true
	}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil // unreadable entries below the root are skipped, not fatal
		}
		if path == root {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if ignored[d.Name()] {
				return fs.SkipDir
			}
			ev.Paths[rel] = true
			return nil
		}

		ev.Paths[rel] = true
		lower := strings.ToLower(rel)
		if ext := filepath.Ext(lower); ext != "" {
			ev.Extensions[ext] = true
		}
		for _, lp := range rules.Languages {
			if ev.Languages[lp.Technology] {
				continue
			}
			for _, glob := range lp.Globs {
				if ok, _ := doublestar.Match(glob, lower); ok {
					ev.Languages[lp.Technology] = true
					break
				}
			}
		}
		return nil
	})
	if err != nil {
		return Evidence{}, err
	}
	return ev, nil
}

// inferKinds runs the kind rules in order after language detection.
// Rules are not mutually exclusive; the default kind guarantees a
// non-empty result.
func inferKinds(ev Evidence, rules *RuleSet) []string {
	have := map[string]bool{}
	for _, r := range rules.Kinds {
		for _, k := range r.Add(ev, have) {
			have[k] = true
		}
	}
	if len(have) == 0 {
		have[rules.DefaultKind] = true
	}
	return sortedKeys(have)
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
