package docuri

import (
	"os"
	"path/filepath"
	"strings"
)

// AncestorWalk is a restartable, finite iterator over the ancestor
// directories of a path, from the filesystem root down to (and including)
// the path's own directory.
type AncestorWalk struct {
	dirs []string
	pos  int
}

// NewAncestorWalk builds the ordered list of ancestor directories of path,
// root-first. On Windows the walk begins immediately past the disk
// designator (e.g. "C:\"), matching the host's path-separator semantics.
func NewAncestorWalk(path string) *AncestorWalk {
	dir := filepath.Dir(filepath.Clean(path))
	vol := filepath.VolumeName(dir)
	rest := strings.TrimPrefix(dir[len(vol):], string(filepath.Separator))

	var dirs []string
	cur := vol + string(filepath.Separator)
	dirs = append(dirs, cur)
	if rest != "" {
		for _, seg := range strings.Split(rest, string(filepath.Separator)) {
			cur = filepath.Join(cur, seg)
			dirs = append(dirs, cur)
		}
	}
	return &AncestorWalk{dirs: dirs}
}

// Next yields the next candidate build-file path, "<ancestor>/name",
// skipping ancestors where the file does not exist. It returns ok=false
// once the walk is exhausted.
func (w *AncestorWalk) Next(name string) (candidate string, ok bool) {
	for w.pos < len(w.dirs) {
		dir := w.dirs[w.pos]
		w.pos++
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return p, true
		}
	}
	return "", false
}

// Reset restarts the walk from the root.
func (w *AncestorWalk) Reset() {
	w.pos = 0
}
