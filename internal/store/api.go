package store

import "github.com/zls-tools/docstore/internal/docuri"

// ResolveImport maps a raw import string on h to a retained handle,
// opening it on demand if necessary (spec §4.6.2, §6).
func (s *Store) ResolveImport(h *Handle, raw string) (*Handle, bool, error) {
	return s.resolveImport(h, raw)
}

// ResolveCImport maps a C-import node on h to a retained handle for its
// translated output (spec §4.6.3, §6).
func (s *Store) ResolveCImport(h *Handle, node int) (*Handle, bool, error) {
	return s.resolveCImport(h, node)
}

// UriFromImportStr resolves a raw import string to a URI without
// retaining anything (spec §4.6.1, §6).
func (s *Store) UriFromImportStr(h *Handle, raw string) (docuri.URI, bool, error) {
	return s.uriFromImportStr(h, raw)
}

// Refresh re-derives a handle's state from its current text (spec
// §4.3.2). Callers (e.g. ApplyChanges) normally trigger this
// automatically; it is exposed for callers that mutate Handle.Text
// directly.
func (s *Store) Refresh(uri docuri.URI) error {
	h, ok := s.handles[uri]
	if !ok {
		return nil
	}
	return s.refresh(h)
}
