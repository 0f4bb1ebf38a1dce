package store

import "github.com/zls-tools/docstore/internal/docuri"

// Handle is the in-memory record for one retained document (spec §3).
// Grounded on bingo's cache.File (langserver/internal/cache/file.go), with
// go/ast-specific fields replaced by the opaque Tree/Scope the injected
// parser and scope-builder produce, and bingo's GC-by-overlay lifecycle
// replaced by the spec's explicit reference-counting lifecycle.
type Handle struct {
	URI  docuri.URI
	Text []byte

	Tree  Tree
	Scope Scope

	// ImportURIs holds one resolved URI per textual import that resolved
	// to something, in source order (spec §3).
	ImportURIs []docuri.URI

	// CImports holds one record per C-import node whose source was
	// translatable (not "unsupported"), in source order.
	CImports []CImportRecord

	// ImportsUsed is the subset of ImportURIs ∪ {successful C-import
	// URIs} this handle has actually retained. Each entry holds exactly
	// one reference count on the target handle.
	ImportsUsed []docuri.URI

	// AssociatedBuildFile supplies package-name resolution and C include
	// directories for this document. Non-owning in the sense that it does
	// not by itself hold the one reference count it is owed; that
	// reference is accounted for explicitly wherever AssociatedBuildFile
	// is set or cleared (see pipeline.go).
	AssociatedBuildFile *BuildFile

	// IsBuildFile is set when this document's own text is the build
	// script for the descriptor it points to.
	IsBuildFile *BuildFile

	// Count is the number of external holders: client opens plus
	// references from other handles' ImportsUsed entries plus (if
	// IsBuildFile is set) one for the build file's own-document
	// reference.
	Count int
}

// CImportRecord is one C-import node's cached translation (spec §3, §4.7).
type CImportRecord struct {
	Node   int
	Hash   [16]byte
	Result *TranslationResult
}

// usesImport reports whether uri is already present in h.ImportsUsed.
func (h *Handle) usesImport(uri docuri.URI) bool {
	for _, u := range h.ImportsUsed {
		if u == uri {
			return true
		}
	}
	return false
}

// hasImportURI reports whether uri is present in h.ImportURIs.
func (h *Handle) hasImportURI(uri docuri.URI) bool {
	for _, u := range h.ImportURIs {
		if u == uri {
			return true
		}
	}
	return false
}

// cImportRecordForNode finds the C-import record for a node index.
func (h *Handle) cImportRecordForNode(node int) (CImportRecord, bool) {
	for _, r := range h.CImports {
		if r.Node == node {
			return r, true
		}
	}
	return CImportRecord{}, false
}

// cImportSuccessURIs returns the URIs of every successfully translated
// C-import, in node order.
func (h *Handle) cImportSuccessURIs() []docuri.URI {
	var uris []docuri.URI
	for _, r := range h.CImports {
		if r.Result != nil && !r.Result.Failed {
			uris = append(uris, r.Result.URI)
		}
	}
	return uris
}
