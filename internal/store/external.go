package store

import "github.com/zls-tools/docstore/internal/docuri"

// This file names the collaborators spec.md §1 declares out of scope: the
// parser, the scope/symbol analyzer, and the C translator. The store never
// constructs these itself; it is handed concrete implementations at
// Init time and only ever calls them through these function values, the
// same way bingo's cache.View is handed a packages.Config (and, through
// it, a *token.FileSet and an Overlay map) rather than owning a parser.

// Tree is the opaque parsed syntax tree returned by Parse. The store never
// inspects it; it only threads it through to MakeScope, CollectImports and
// CollectCImportNodes.
type Tree interface{}

// CompletionItem is one tag-like symbol surfaced by a document scope.
type CompletionItem struct {
	Label  string
	Detail string
	Kind   string
}

// Scope is the document-scope/symbol-summary object makeDocumentScope
// produces. The store reads exactly two named sets from it (spec §4.8,
// §9 "Completion union" design note: two well-typed accessors, not a
// name-keyed reflective lookup).
type Scope interface {
	ErrorCompletions() []CompletionItem
	EnumCompletions() []CompletionItem
}

// ParseFunc parses source text into a syntax tree. The text is the
// handle's byte slice as stored, with no trailing zero byte.
type ParseFunc func(text []byte) (Tree, error)

// MakeScopeFunc builds a document scope from a parsed tree.
type MakeScopeFunc func(tree Tree) (Scope, error)

// CollectImportsFunc returns the raw import strings (e.g. `@import("std")`
// arguments) found in tree, in source order.
type CollectImportsFunc func(tree Tree) []string

// CollectCImportNodesFunc returns the syntax-tree node index of every
// C-import expression in tree, in source order.
type CollectCImportNodesFunc func(tree Tree) []int

// ConvertCIncludeFunc extracts the C source embedded at node, or ok=false
// if the node's content is not translatable ("unsupported" in spec §4.7.1).
type ConvertCIncludeFunc func(tree Tree, node int) (source string, ok bool)

// TranslationResult is the translator's verdict for one C-import: either
// success (URI set, Failed false), failure (Failed true, the C-import is
// still tracked but resolves to nothing), or the translator returns a nil
// *TranslationResult, meaning absent ("skip silently", spec §4.7.1).
type TranslationResult struct {
	URI    docuri.URI
	Failed bool
}

// Dupe deep-copies a translation result, matching the translator result
// type's dupe operation (spec §4.7.2) used when the C-import cache reuses
// a prior translation by hash instead of re-invoking the translator.
func (r *TranslationResult) Dupe() *TranslationResult {
	if r == nil {
		return nil
	}
	cp := *r
	return &cp
}

// TranslateConfig carries the configuration values the translator needs
// (spec §6 "Environment / configuration values consumed").
type TranslateConfig struct {
	ZigExePath string
	ZigLibPath string
}

// TranslateFunc invokes the external C translator on extracted C source
// text, given the owning document's include directories (from its
// associated build file). Returns nil for "absent".
type TranslateFunc func(cfg TranslateConfig, includeDirs []string, source string) *TranslationResult

// Collaborators bundles every externally-supplied function the store
// needs. All fields are required; Init validates this.
type Collaborators struct {
	Parse               ParseFunc
	MakeScope           MakeScopeFunc
	CollectImports      CollectImportsFunc
	CollectCImportNodes CollectCImportNodesFunc
	ConvertCInclude     ConvertCIncludeFunc
	Translate           TranslateFunc
}
