package store

import "github.com/zls-tools/docstore/internal/docuri"

// collectImportURIs resolves every raw import string the collaborator
// finds in h's tree, keeping only those that resolved to something (spec
// §4.3.1 step 4, §3 "Import URIs").
func (s *Store) collectImportURIs(h *Handle) []docuri.URI {
	raw := s.coll.CollectImports(h.Tree)
	var uris []docuri.URI
	for _, r := range raw {
		uri, ok, err := s.uriFromImportStr(h, r)
		if err != nil || !ok {
			continue
		}
		uris = append(uris, uri)
	}
	return uris
}

// uriFromImportStr implements spec §4.6.1's four-namespace rule.
func (s *Store) uriFromImportStr(h *Handle, raw string) (docuri.URI, bool, error) {
	switch {
	case raw == "std":
		if s.stdURI == "" {
			return "", false, nil
		}
		return s.stdURI, true, nil

	case raw == "builtin":
		if h.AssociatedBuildFile != nil && h.AssociatedBuildFile.BuiltinURI != "" {
			return h.AssociatedBuildFile.BuiltinURI, true, nil
		}
		if s.cfg.BuiltinPath != "" {
			return docuri.FromPath(s.cfg.BuiltinPath), true, nil
		}
		return "", false, nil

	case !hasZigSuffix(raw):
		if h.AssociatedBuildFile == nil {
			return "", false, nil
		}
		uri, ok := h.AssociatedBuildFile.packageURI(raw)
		if !ok {
			return "", false, nil
		}
		return uri, true, nil

	default:
		dir, err := h.URI.Dir()
		if err != nil {
			return "", false, err
		}
		return docuri.Join(dir, raw), true, nil
	}
}

func hasZigSuffix(s string) bool {
	return len(s) >= 4 && s[len(s)-4:] == ".zig"
}

// resolveImport implements spec §4.6.2.
func (s *Store) resolveImport(h *Handle, raw string) (*Handle, bool, error) {
	uri, ok, err := s.uriFromImportStr(h, raw)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}

	if h.usesImport(uri) {
		target, found := s.handles[uri]
		return target, found, nil
	}

	if !s.importIsReachable(h, uri) {
		return nil, false, nil
	}

	target, ok := s.attachImport(h, uri)
	return target, ok, nil
}

// importIsReachable reports whether uri is a resolvable target for h:
// present in its import-URI set, or declared by its associated build
// file's package list (spec §4.6.2 step 2).
func (s *Store) importIsReachable(h *Handle, uri docuri.URI) bool {
	if h.hasImportURI(uri) {
		return true
	}
	if h.AssociatedBuildFile != nil {
		for _, p := range h.AssociatedBuildFile.Packages {
			if p.URI == uri {
				return true
			}
		}
	}
	return false
}

// resolveCImport implements spec §4.6.3: open / reuse exactly as
// resolveImport (spec §4.6.2) — including the already-used early return,
// so a second call for the same node does not append a duplicate
// ImportsUsed entry or double-count the reference.
func (s *Store) resolveCImport(h *Handle, node int) (*Handle, bool, error) {
	rec, found := h.cImportRecordForNode(node)
	if !found || rec.Result == nil || rec.Result.Failed {
		return nil, false, nil
	}

	if h.usesImport(rec.Result.URI) {
		target, found := s.handles[rec.Result.URI]
		return target, found, nil
	}

	target, ok := s.attachImport(h, rec.Result.URI)
	return target, ok, nil
}

// attachImport resolves uri to a live handle, reusing an already-registered
// handle or opening the URI from disk, and appends a new ImportsUsed entry
// in both cases (spec §4.6.2 steps 3, 4; §4.6.3). It does not check for an
// existing ImportsUsed entry; callers handle that case (step 1) first.
func (s *Store) attachImport(h *Handle, uri docuri.URI) (*Handle, bool) {
	if target, found := s.handles[uri]; found {
		h.ImportsUsed = append(h.ImportsUsed, uri)
		target.Count++
		return target, true
	}

	target, ok := s.newDocumentFromURI(uri)
	if !ok {
		return nil, false
	}
	h.ImportsUsed = append(h.ImportsUsed, uri)
	return target, true
}

// uriAssociatedWithBuild implements spec §4.5: determine whether uri is
// reachable from any package URI bf declares, via transitive import
// resolution, opening handles on demand as needed. Errors during the
// search (I/O, parse failure) are swallowed by newDocumentFromURI already
// reporting "absent" rather than an error.
func (s *Store) uriAssociatedWithBuild(bf *BuildFile, uri docuri.URI) bool {
	visited := make(map[docuri.URI]bool)
	var reaches func(from docuri.URI) bool
	reaches = func(from docuri.URI) bool {
		if from == uri {
			return true
		}
		if visited[from] {
			return false
		}
		visited[from] = true

		h, ok := s.handles[from]
		if !ok {
			h, ok = s.newDocumentFromURI(from)
			if !ok {
				return false
			}
		}
		for _, imp := range h.ImportURIs {
			if reaches(imp) {
				return true
			}
		}
		return false
	}

	for _, p := range bf.Packages {
		if reaches(p.URI) {
			return true
		}
	}
	return false
}
