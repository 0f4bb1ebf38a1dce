package store

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/zls-tools/docstore/internal/docuri"
)

// The fakes in this file stand in for the parser, scope-builder, C-import
// collector and C translator: spec §1 names all four as external
// collaborators the store only ever calls through a function value. They
// are deliberately simple regexp-driven stand-ins, not a real Zig
// front end.

var importRe = regexp.MustCompile(`@import\("([^"]+)"\)`)
var cImportRe = regexp.MustCompile(`@cImport\(([^)]*)\)`)
var errorTagRe = regexp.MustCompile(`#error (\w+)`)
var enumTagRe = regexp.MustCompile(`#enum (\w+)`)

type fakeScope struct {
	errs  []CompletionItem
	enums []CompletionItem
}

func (s *fakeScope) ErrorCompletions() []CompletionItem { return s.errs }
func (s *fakeScope) EnumCompletions() []CompletionItem  { return s.enums }

func fakeParse(text []byte) (Tree, error) {
	return string(text), nil
}

func fakeMakeScope(tree Tree) (Scope, error) {
	text := tree.(string)
	scope := &fakeScope{}
	for _, m := range errorTagRe.FindAllStringSubmatch(text, -1) {
		scope.errs = append(scope.errs, CompletionItem{Label: m[1], Kind: "error"})
	}
	for _, m := range enumTagRe.FindAllStringSubmatch(text, -1) {
		scope.enums = append(scope.enums, CompletionItem{Label: m[1], Kind: "enum"})
	}
	return scope, nil
}

func fakeCollectImports(tree Tree) []string {
	text := tree.(string)
	var raw []string
	for _, m := range importRe.FindAllStringSubmatch(text, -1) {
		raw = append(raw, m[1])
	}
	return raw
}

func fakeCollectCImportNodes(tree Tree) []int {
	text := tree.(string)
	var nodes []int
	for _, loc := range cImportRe.FindAllStringIndex(text, -1) {
		nodes = append(nodes, loc[0])
	}
	return nodes
}

func fakeConvertCInclude(tree Tree, node int) (string, bool) {
	text := tree.(string)
	for _, m := range cImportRe.FindAllStringSubmatchIndex(text, -1) {
		if m[0] != node {
			continue
		}
		content := text[m[2]:m[3]]
		if content == "unsupported" {
			return "", false
		}
		return content, true
	}
	return "", false
}

// fakeTranslate materializes a synthetic ".zig" file under root for every
// successfully "translated" C-import, mirroring how the real C
// translator produces a readable document at the URI it returns.
func fakeTranslate(root string, calls *int) TranslateFunc {
	return func(cfg TranslateConfig, includeDirs []string, source string) *TranslationResult {
		*calls++
		switch source {
		case "ABSENT":
			return nil
		case "FAIL":
			return &TranslationResult{Failed: true}
		default:
			name := fmt.Sprintf("cimport-%x.zig", hashSource(source))
			path := filepath.Join(root, name)
			_ = os.WriteFile(path, []byte("// translated: "+source+"\n"), 0o644)
			return &TranslationResult{URI: docuri.FromPath(path)}
		}
	}
}

func testCollaborators(translate TranslateFunc) Collaborators {
	return Collaborators{
		Parse:               fakeParse,
		MakeScope:           fakeMakeScope,
		CollectImports:      fakeCollectImports,
		CollectCImportNodes: fakeCollectCImportNodes,
		ConvertCInclude:     fakeConvertCInclude,
		Translate:           translate,
	}
}

func noopTranslate(TranslateConfig, []string, string) *TranslationResult { return nil }
