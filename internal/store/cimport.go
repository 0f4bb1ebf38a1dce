package store

import (
	"golang.org/x/crypto/blake2b"
)

// zeroKey seeds the content hash used to key the C-import cache (spec §3,
// §9 "hash reseeding" open question: a fixed all-zero key, never
// reseeded per process).
var zeroKey = make([]byte, 32)

// hashSource computes the 128-bit MAC of extracted C source text (spec
// §3: "a cryptographic-quality 128-bit MAC ... so that collisions are
// statistically impossible in normal use").
func hashSource(src string) [16]byte {
	h, err := blake2b.New(16, zeroKey)
	if err != nil {
		panic("store: blake2b.New(16, ...) must always succeed for a valid size/key")
	}
	_, _ = h.Write([]byte(src))
	var out [16]byte
	copy(out[:], h.Sum(nil))
	return out
}

// collectCImportsFresh implements spec §4.7.1: translate every
// translatable C-import node in h's tree, with no cache to consult.
func (s *Store) collectCImportsFresh(h *Handle) []CImportRecord {
	nodes := s.coll.CollectCImportNodes(h.Tree)
	var records []CImportRecord
	for _, node := range nodes {
		src, ok := s.coll.ConvertCInclude(h.Tree, node)
		if !ok {
			continue // unsupported: skip silently
		}
		hash := hashSource(src)
		result := s.coll.Translate(s.translateConfig(), s.includeDirsFor(h), src)
		if result == nil {
			continue // absent: skip
		}
		records = append(records, CImportRecord{Node: node, Hash: hash, Result: result})
	}
	return records
}

// collectCImportsWithReuse implements spec §4.7.2: build the new record
// set, reusing a previous translation by content hash instead of
// re-invoking the translator when the hash matches.
func (s *Store) collectCImportsWithReuse(h *Handle, prev []CImportRecord) []CImportRecord {
	nodes := s.coll.CollectCImportNodes(h.Tree)
	var records []CImportRecord
	for _, node := range nodes {
		src, ok := s.coll.ConvertCInclude(h.Tree, node)
		if !ok {
			continue
		}
		hash := hashSource(src)

		if prevRecord := findByHash(prev, hash); prevRecord != nil {
			records = append(records, CImportRecord{Node: node, Hash: hash, Result: prevRecord.Result.Dupe()})
			s.stats.CImportCacheHits++
			continue
		}

		s.stats.CImportCacheMiss++
		result := s.coll.Translate(s.translateConfig(), s.includeDirsFor(h), src)
		if result == nil {
			continue
		}
		records = append(records, CImportRecord{Node: node, Hash: hash, Result: result})
	}
	return records
}

func findByHash(records []CImportRecord, hash [16]byte) *CImportRecord {
	for i := range records {
		if records[i].Hash == hash {
			return &records[i]
		}
	}
	return nil
}

func (s *Store) includeDirsFor(h *Handle) []string {
	if h.AssociatedBuildFile == nil {
		return nil
	}
	return h.AssociatedBuildFile.IncludeDirs
}

func (s *Store) translateConfig() TranslateConfig {
	return TranslateConfig{ZigExePath: s.cfg.ZigExePath, ZigLibPath: s.cfg.ZigLibPath}
}
