package store

import (
	"fmt"

	"github.com/zls-tools/docstore/internal/docuri"
)

// newDocument is the open pipeline (spec §4.3.1). Called only when uri is
// not already registered.
func (s *Store) newDocument(uri docuri.URI, text []byte) (*Handle, error) {
	tree, err := s.coll.Parse(text)
	if err != nil {
		return nil, fmt.Errorf("open %s: parse: %w", uri, err)
	}
	scope, err := s.coll.MakeScope(tree)
	if err != nil {
		return nil, fmt.Errorf("open %s: scope: %w", uri, err)
	}

	h := &Handle{
		URI:   uri,
		Text:  text,
		Tree:  tree,
		Scope: scope,
		Count: 1,
	}

	s.classifyBuildFile(h)

	h.ImportURIs = s.collectImportURIs(h)
	h.CImports = s.collectCImportsFresh(h)

	if _, exists := s.handles[uri]; exists {
		panic(fmt.Sprintf("store: newDocument called for already-registered uri %q", uri))
	}
	s.handles[uri] = h

	return h, nil
}

// classifyBuildFile implements spec §4.3.1 step 3: decide whether h's own
// text is a build script, or discover the build file it is associated
// with via the ancestor walk, or leave it unassociated.
func (s *Store) classifyBuildFile(h *Handle) {
	if s.cfg.ZigExePath == "" {
		return
	}
	if h.URI.Contains("/std/") {
		return
	}

	if h.URI.HasSuffix("/build.zig") {
		bf, err := s.buildFileForScriptURI(h.URI)
		if err != nil {
			s.log.WithError(err).WithField("build_file", h.URI).Warn("failed to create build file descriptor")
			return
		}
		h.IsBuildFile = bf
		bf.Refs++
		return
	}

	path, err := h.URI.Filename()
	if err != nil {
		s.log.WithError(err).WithField("uri", h.URI).Warn("could not resolve filename for build-file discovery")
		return
	}
	bf, err := s.discoverAssociatedBuildFile(path, h.URI)
	if err != nil {
		s.log.WithError(err).WithField("uri", h.URI).Warn("build file discovery failed")
		return
	}
	if bf == nil {
		return
	}
	h.AssociatedBuildFile = bf
	bf.Refs++
}

// newDocumentFromURI implements spec §4.8 newDocumentFromUri: convert the
// URI to a path, read the file, and run the open pipeline. I/O failure (or
// any error from newDocument, including a parse failure) returns absent,
// not an error — callers in the import resolver and association search
// treat "could not open" uniformly.
func (s *Store) newDocumentFromURI(uri docuri.URI) (*Handle, bool) {
	if h, ok := s.handles[uri]; ok {
		return h, true
	}
	path, err := uri.Filename()
	if err != nil {
		return nil, false
	}
	text, err := readFile(path)
	if err != nil {
		return nil, false
	}
	h, err := s.newDocument(uri, text)
	if err != nil {
		s.log.WithError(err).WithField("uri", uri).Debug("newDocumentFromURI: open failed")
		return nil, false
	}
	return h, true
}

// refresh re-derives a handle's tree, scope, import URIs and C-imports
// from its (already-updated) text, reconciling ImportsUsed (spec
// §4.3.2). The new tree/scope are built before anything on h is mutated,
// so a parse or scope failure leaves h completely unchanged (spec §9
// "Refresh failure semantics" redesign note).
func (s *Store) refresh(h *Handle) error {
	newTree, err := s.coll.Parse(h.Text)
	if err != nil {
		return fmt.Errorf("refresh %s: parse: %w", h.URI, err)
	}
	newScope, err := s.coll.MakeScope(newTree)
	if err != nil {
		return fmt.Errorf("refresh %s: scope: %w", h.URI, err)
	}

	h.Tree = newTree
	h.Scope = newScope
	h.ImportURIs = s.collectImportURIs(h)

	oldCImports := h.CImports
	h.CImports = s.collectCImportsWithReuse(h, oldCImports)

	s.reconcileImportsUsed(h)
	return nil
}

// reconcileImportsUsed keeps every ImportsUsed entry still reachable from
// the refreshed import-URI set or C-import success set, decrementing and
// dropping the rest (spec §4.3.2 step 4, invariant §8.6).
func (s *Store) reconcileImportsUsed(h *Handle) {
	keep := make(map[docuri.URI]bool, len(h.ImportURIs))
	for _, u := range h.ImportURIs {
		keep[u] = true
	}
	for _, u := range h.cImportSuccessURIs() {
		keep[u] = true
	}

	old := h.ImportsUsed
	var kept []docuri.URI
	for _, u := range old {
		if keep[u] {
			kept = append(kept, u)
		} else {
			s.decrementCount(u)
		}
	}
	h.ImportsUsed = kept
}

// decrementCount implements spec §4.3.3. A missing or already-zero-count
// handle is a no-op; the zero-count case guards the cyclic build-file
// teardown (spec §9) against re-entry through the same reference.
func (s *Store) decrementCount(uri docuri.URI) {
	h, ok := s.handles[uri]
	if !ok {
		return
	}
	if h.Count == 0 {
		return
	}
	h.Count--
	if h.Count > 0 {
		return
	}

	if h.AssociatedBuildFile != nil {
		bf := h.AssociatedBuildFile
		h.AssociatedBuildFile = nil
		s.decrementBuildFileRefs(bf)
	}
	if h.IsBuildFile != nil {
		bf := h.IsBuildFile
		h.IsBuildFile = nil
		s.decrementBuildFileRefs(bf)
	}

	used := h.ImportsUsed
	h.ImportsUsed = nil

	delete(s.handles, uri)

	for _, u := range used {
		s.decrementCount(u)
	}
}

// decrementBuildFileRefs implements spec §4.3.4. The document-side link
// is severed before recursing into decrementCount so that, if that
// document's own count reaches zero as a result, it does not re-enter
// decrementBuildFileRefs for the same descriptor (spec §9 cyclic-ownership
// note: each decrement path acts on its reference exactly once).
func (s *Store) decrementBuildFileRefs(bf *BuildFile) {
	bf.Refs--
	if bf.Refs > 0 {
		return
	}

	if h, ok := s.handles[bf.URI]; ok && h.IsBuildFile == bf {
		h.IsBuildFile = nil
	}

	s.decrementCount(bf.URI)
	s.buildFiles.remove(bf)
}
