package fragment

import (
	"embed"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
)

// fragmentExt is the suffix every fragment source carries. The id
// "languages/python" maps to "languages/python.yaml.tmpl".
const fragmentExt = ".yaml.tmpl"

//go:embed fragments
var builtinFS embed.FS

// Library resolves fragment ids to template source text.
type Library interface {
	// Source returns the template text for an id such as
	// "languages/python" or "platforms/github". The second result is
	// false when the library has no fragment for that id.
	Source(id string) ([]byte, bool)
	// IDs lists every fragment id the library holds, sorted.
	IDs() []string
}

// Builtin returns the library compiled into the binary.
func Builtin() Library {
	sub, err := fs.Sub(builtinFS, "fragments")
	if err != nil {
		// The embedded tree always contains fragments/.
		panic(err)
	}
	return fsLibrary{fsys: sub}
}

// Dir returns a library backed by an on-disk fragment directory laid out
// like the builtin one (languages/ and platforms/ subdirectories).
func Dir(root string) Library {
	return fsLibrary{fsys: os.DirFS(root)}
}

type fsLibrary struct {
	fsys fs.FS
}

func (l fsLibrary) Source(id string) ([]byte, bool) {
	data, err := fs.ReadFile(l.fsys, path.Clean(id)+fragmentExt)
	if err != nil {
		return nil, false
	}
	return data, true
}

func (l fsLibrary) IDs() []string {
	var ids []string
	fs.WalkDir(l.fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !strings.HasSuffix(p, fragmentExt) {
			return nil
		}
		ids = append(ids, strings.TrimSuffix(p, fragmentExt))
		return nil
	})
	sort.Strings(ids)
	return ids
}
