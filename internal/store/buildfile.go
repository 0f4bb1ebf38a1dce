package store

import "github.com/zls-tools/docstore/internal/docuri"

// Package is one package a build file declares (spec §3).
type Package struct {
	Name string
	URI  docuri.URI
}

// BuildOption is one runner command-line option read from zls.build.json
// (spec §4.4.2, §6).
type BuildOption struct {
	Flag  string
	Value string
}

// BuildFile is the in-memory descriptor for one discovered build script,
// independent of the Handle representing its text (spec §3). Grounded on
// bingo's module (langserver/internal/cache/module.go), generalized from
// "go.mod-rooted module with a moduleMap" to "build.zig-rooted descriptor
// with a runner-reported package/include-dir configuration".
type BuildFile struct {
	URI docuri.URI

	Packages    []Package
	IncludeDirs []string

	// BuiltinURI overrides the global builtin path for documents
	// associated with this build file. Empty means unset.
	BuiltinURI docuri.URI

	BuildOptions []BuildOption

	// Refs is incremented once for the document that IsBuildFile this
	// descriptor, once more each time Open is called again on that
	// already-open document, and once per Handle whose AssociatedBuildFile
	// points here.
	Refs int
}

// packageURI returns the URI declared for name, if any.
func (b *BuildFile) packageURI(name string) (docuri.URI, bool) {
	for _, p := range b.Packages {
		if p.Name == name {
			return p.URI, true
		}
	}
	return "", false
}

// buildFileRegistry is an ordered, append-mostly list of live build-file
// descriptors (spec §4.2). Order is not observable by clients; linear
// search by URI mirrors bingo's Project.modules lookups.
type buildFileRegistry struct {
	files []*BuildFile
}

func (r *buildFileRegistry) find(uri docuri.URI) *BuildFile {
	for _, b := range r.files {
		if b.URI == uri {
			return b
		}
	}
	return nil
}

func (r *buildFileRegistry) add(b *BuildFile) {
	r.files = append(r.files, b)
}

// remove does an unordered removal: swap the last element into place and
// shrink, since registry order is not observable.
func (r *buildFileRegistry) remove(b *BuildFile) {
	for i, f := range r.files {
		if f == b {
			last := len(r.files) - 1
			r.files[i] = r.files[last]
			r.files[last] = nil
			r.files = r.files[:last]
			return
		}
	}
}

// lastObserved returns the deepest descriptor from an ancestor walk's
// observed list, used as the "closest existing" fallback when no build
// file is transitively associated with a newly opened document (spec
// §4.3.1, §9 "closest existing" note: during a root-to-leaf ancestor
// walk, the last one observed is the deepest ancestor). It is a free
// function, not registry behavior: it only ever looks at the slice a
// caller hands it, never at r.files.
func lastObserved(observed []*BuildFile) *BuildFile {
	if len(observed) == 0 {
		return nil
	}
	return observed[len(observed)-1]
}
