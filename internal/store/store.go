// Package store is the document store: the authoritative in-memory
// representation of every source file the server has been asked about,
// together with the build graph that contextualizes them (spec §1).
//
// Grounded on bingo's cache.View (langserver/internal/cache/view.go) and
// cache.Project (langserver/internal/cache/project.go), generalized from
// a Go/go-packages-specific cache into the spec's language-agnostic,
// reference-counted handle and build-file lifecycle.
package store

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/zls-tools/docstore/internal/config"
	"github.com/zls-tools/docstore/internal/docuri"
)

// Stats is an operational snapshot of the store, additive ambient tooling
// grounded on bingo's GlobalCache exposing size-shaped accessors (spec
// SPEC_FULL.md "Supplemented features").
type Stats struct {
	OpenHandles      int
	BuildFiles       int
	CImportCacheHits int
	CImportCacheMiss int
}

// Store is the top-level document store (spec §6 "Store API").
type Store struct {
	log  *logrus.Entry
	cfg  config.Config
	coll Collaborators

	handles    map[docuri.URI]*Handle
	buildFiles buildFileRegistry

	stdURI docuri.URI

	stats Stats
}

// Init constructs a Store (spec §6 `init(config)`). It resolves the std
// library URI from cfg.ZigLibPath up front (spec §4.8
// stdUriFromLibPath); I/O failure there is not fatal, matching the spec's
// "Absent if unconfigured" rule for the "std" namespace rather than
// failing construction outright.
func Init(cfg config.Config, coll Collaborators, log *logrus.Entry) (*Store, error) {
	if err := validateCollaborators(coll); err != nil {
		return nil, err
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}

	s := &Store{
		log:     log,
		cfg:     cfg,
		coll:    coll,
		handles: make(map[docuri.URI]*Handle),
	}

	if cfg.ZigLibPath != "" {
		if uri, ok := stdURIFromLibPath(cfg.ZigLibPath); ok {
			s.stdURI = uri
		} else {
			s.log.WithField("zig_lib_path", cfg.ZigLibPath).Warn("could not resolve std.zig under configured lib path")
		}
	}

	return s, nil
}

func validateCollaborators(c Collaborators) error {
	switch {
	case c.Parse == nil:
		return fmt.Errorf("store.Init: Parse collaborator is required")
	case c.MakeScope == nil:
		return fmt.Errorf("store.Init: MakeScope collaborator is required")
	case c.CollectImports == nil:
		return fmt.Errorf("store.Init: CollectImports collaborator is required")
	case c.CollectCImportNodes == nil:
		return fmt.Errorf("store.Init: CollectCImportNodes collaborator is required")
	case c.ConvertCInclude == nil:
		return fmt.Errorf("store.Init: ConvertCInclude collaborator is required")
	case c.Translate == nil:
		return fmt.Errorf("store.Init: Translate collaborator is required")
	}
	return nil
}

// Deinit releases every retained handle and build file. It is not part of
// the spec's reference-counted teardown path (nothing external is
// "closing" these); it exists for process shutdown.
func (s *Store) Deinit() {
	for uri := range s.handles {
		delete(s.handles, uri)
	}
	s.buildFiles.files = nil
}

// Stats returns an operational snapshot (SPEC_FULL.md Supplemented
// Features).
func (s *Store) Stats() Stats {
	s.stats.OpenHandles = len(s.handles)
	s.stats.BuildFiles = len(s.buildFiles.files)
	return s.stats
}

// stdURIFromLibPath resolves "<libpath>/std/std.zig" and falls back to
// "<libpath>/zig/std/std.zig" (spec §4.8).
func stdURIFromLibPath(libPath string) (docuri.URI, bool) {
	for _, rel := range []string{"std/std.zig", "zig/std/std.zig"} {
		p := libPath + "/" + rel
		if pathExists(p) {
			return docuri.FromPath(p), true
		}
	}
	return "", false
}
