package store

import "github.com/zls-tools/docstore/internal/docuri"

// GetHandle looks up a handle with no side effects (spec §4.1 lookup,
// §6 getHandle).
func (s *Store) GetHandle(uri docuri.URI) (*Handle, bool) {
	h, ok := s.handles[uri]
	return h, ok
}

// Open retains uri (spec §4.1 open, §6 open). If uri is already present,
// its count (and, if it is a build file, its descriptor's refs) is
// incremented and the existing handle is returned; the text argument is
// then ignored, matching spec scenario 2. Otherwise text is parsed and a
// new handle is created via the open pipeline (§4.3.1).
func (s *Store) Open(uri docuri.URI, text []byte) (*Handle, error) {
	if h, ok := s.handles[uri]; ok {
		h.Count++
		if h.IsBuildFile != nil {
			h.IsBuildFile.Refs++
		}
		return h, nil
	}

	return s.newDocument(uri, text)
}

// Close decrements uri's reference count, tearing it (and anything it
// alone retained) down once the count reaches zero (spec §4.1 close,
// §4.3.3). A missing uri is silently ignored.
func (s *Store) Close(uri docuri.URI) {
	s.decrementCount(uri)
}
