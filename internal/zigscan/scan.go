// Package zigscan is the document store's bundled default for the parser,
// scope-builder and C-import collaborators spec §1 declares external to
// the store. It is a deliberately minimal regexp-based scanner, not a real
// Zig front end: the store never requires more than what Collaborators
// asks for (import strings, C-import node positions, two completion
// sets), so cmd/zlsstore wires this in rather than shipping without a
// usable default. Embedders with a real Zig parser/AST supply their own
// store.Collaborators instead.
package zigscan

import (
	"regexp"

	"github.com/zls-tools/docstore/internal/store"
)

var (
	importRe   = regexp.MustCompile(`@import\("([^"]+)"\)`)
	cImportRe  = regexp.MustCompile(`@cImport\(\s*\{([\s\S]*?)\}\s*\)`)
	cIncludeRe = regexp.MustCompile(`@cInclude\("([^"]+)"\)`)
	errorTagRe = regexp.MustCompile(`error\.(\w+)`)
	enumTagRe  = regexp.MustCompile(`\benum\s+(\w+)\b`)
)

type tree string

type scope struct {
	errs  []store.CompletionItem
	enums []store.CompletionItem
}

func (s *scope) ErrorCompletions() []store.CompletionItem { return s.errs }
func (s *scope) EnumCompletions() []store.CompletionItem  { return s.enums }

// Parse implements store.ParseFunc.
func Parse(text []byte) (store.Tree, error) {
	return tree(text), nil
}

// MakeScope implements store.MakeScopeFunc, collecting error-set member
// names from `error.Foo` references and enum declarations from `enum Foo`,
// deduplicated by label.
func MakeScope(t store.Tree) (store.Scope, error) {
	src := string(t.(tree))
	sc := &scope{}

	seenErr := make(map[string]bool)
	for _, m := range errorTagRe.FindAllStringSubmatch(src, -1) {
		if seenErr[m[1]] {
			continue
		}
		seenErr[m[1]] = true
		sc.errs = append(sc.errs, store.CompletionItem{Label: m[1], Kind: "error"})
	}

	seenEnum := make(map[string]bool)
	for _, m := range enumTagRe.FindAllStringSubmatch(src, -1) {
		if seenEnum[m[1]] {
			continue
		}
		seenEnum[m[1]] = true
		sc.enums = append(sc.enums, store.CompletionItem{Label: m[1], Kind: "enum"})
	}

	return sc, nil
}

// CollectImports implements store.CollectImportsFunc.
func CollectImports(t store.Tree) []string {
	src := string(t.(tree))
	var raw []string
	for _, m := range importRe.FindAllStringSubmatch(src, -1) {
		raw = append(raw, m[1])
	}
	return raw
}

// CollectCImportNodes implements store.CollectCImportNodesFunc. The node
// index is the byte offset of the `@` that starts the `@cImport(` call, the
// same number ConvertCInclude re-derives it from on every call — stable
// across calls against the same tree value, which is all the store
// requires (spec §3: node indices need not survive an edit).
func CollectCImportNodes(t store.Tree) []int {
	src := string(t.(tree))
	var nodes []int
	for _, loc := range cImportRe.FindAllStringIndex(src, -1) {
		nodes = append(nodes, loc[0])
	}
	return nodes
}

// ConvertCInclude implements store.ConvertCIncludeFunc: it extracts every
// `@cInclude("header.h")` name inside the `@cImport({ ... })` block at node
// and renders them as `#include` directives. A block with no recognized
// `@cInclude` call is unsupported.
func ConvertCInclude(t store.Tree, node int) (string, bool) {
	src := string(t.(tree))
	for _, m := range cImportRe.FindAllStringSubmatchIndex(src, -1) {
		if m[0] != node {
			continue
		}
		body := src[m[2]:m[3]]
		includes := cIncludeRe.FindAllStringSubmatch(body, -1)
		if len(includes) == 0 {
			return "", false
		}
		var out string
		for _, inc := range includes {
			out += "#include <" + inc[1] + ">\n"
		}
		return out, true
	}
	return "", false
}
