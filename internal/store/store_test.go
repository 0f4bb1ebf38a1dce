package store

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zls-tools/docstore/internal/config"
	"github.com/zls-tools/docstore/internal/docuri"
	"github.com/zls-tools/docstore/internal/offsetutil"
)

func testLog() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetLevel(logrus.ErrorLevel)
	return logrus.NewEntry(l)
}

func newTestStore(t *testing.T, cfg config.Config, translate TranslateFunc) *Store {
	t.Helper()
	if translate == nil {
		translate = noopTranslate
	}
	s, err := Init(cfg, testCollaborators(translate), testLog())
	require.NoError(t, err)
	return s
}

// Scenario: single open/close (spec §8).
func TestOpenCloseSingleHandle(t *testing.T) {
	s := newTestStore(t, config.Config{}, nil)
	uri := docuri.FromPath("/w/a.zig")

	h, err := s.Open(uri, []byte("const x = 1;\n"))
	require.NoError(t, err)
	assert.Equal(t, 1, h.Count)

	s.Close(uri)
	_, ok := s.GetHandle(uri)
	assert.False(t, ok, "handle must be torn down once its count reaches zero")
}

// Scenario: open twice, close once (spec §8): the handle survives with its
// text from the first open, and only the second close tears it down.
func TestOpenTwiceCloseOnce(t *testing.T) {
	s := newTestStore(t, config.Config{}, nil)
	uri := docuri.FromPath("/w/a.zig")

	first, err := s.Open(uri, []byte("const x = 1;\n"))
	require.NoError(t, err)

	second, err := s.Open(uri, []byte("IGNORED\n"))
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, 2, second.Count)
	assert.Equal(t, "const x = 1;\n", string(second.Text), "second open's text is ignored for an already-open document")

	s.Close(uri)
	_, ok := s.GetHandle(uri)
	assert.True(t, ok, "handle must survive while its count is still positive")

	s.Close(uri)
	_, ok = s.GetHandle(uri)
	assert.False(t, ok)
}

// Scenario: an import chain resolves through the "std" namespace, and
// closing the importer tears down the transitively retained std document
// too (spec §8, §4.3.3).
func TestImportChainResolvesStdAndTearsDownOnClose(t *testing.T) {
	libDir := t.TempDir()
	stdDir := filepath.Join(libDir, "std")
	require.NoError(t, os.MkdirAll(stdDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(stdDir, "std.zig"), []byte("pub const io = 0;\n"), 0o644))

	s := newTestStore(t, config.Config{ZigLibPath: libDir}, nil)

	mainURI := docuri.FromPath("/w/main.zig")
	h, err := s.Open(mainURI, []byte(`const std = @import("std");`))
	require.NoError(t, err)
	require.Len(t, h.ImportURIs, 1)

	target, ok, err := s.ResolveImport(h, "std")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 1, target.Count)
	assert.Equal(t, []docuri.URI{target.URI}, h.ImportsUsed)

	// Resolving the same import again must reuse the existing
	// ImportsUsed entry rather than retaining it a second time.
	again, ok, err := s.ResolveImport(h, "std")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Same(t, target, again)
	assert.Equal(t, 1, target.Count)

	s.Close(mainURI)
	_, mainOpen := s.GetHandle(mainURI)
	_, stdOpen := s.GetHandle(target.URI)
	assert.False(t, mainOpen)
	assert.False(t, stdOpen, "closing the sole retainer must tear the transitively retained std document down too")
}

func fakeZigScript(t *testing.T, json string) string {
	t.Helper()
	dir := t.TempDir()
	var path, script string
	if runtime.GOOS == "windows" {
		path = filepath.Join(dir, "zig.bat")
		script = "@echo off\r\necho " + json + "\r\n"
	} else {
		path = filepath.Join(dir, "zig.sh")
		script = "#!/bin/sh\ncat <<'EOF'\n" + json + "\nEOF\n"
	}
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

// Scenario: opening a document under a directory tree with a build.zig
// associates it with that build file, and both the script document and the
// source document hold a reference on the shared descriptor (spec §8,
// §4.3.1, §4.4).
func TestBuildFileAssociationAndRefCounting(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "build.zig"), []byte("// build script\n"), 0o644))
	srcDir := filepath.Join(root, "src")
	require.NoError(t, os.MkdirAll(srcDir, 0o755))
	aPath := filepath.Join(srcDir, "a.zig")
	require.NoError(t, os.WriteFile(aPath, []byte("const x = 1;\n"), 0o644))

	zig := fakeZigScript(t, `{"packages":[{"name":"mypkg","path":"src/a.zig"}],"include_dirs":[]}`)
	cfg := config.Config{ZigExePath: zig, BuildRunnerPath: "build_runner.zig", GlobalCachePath: "/cache"}
	s := newTestStore(t, cfg, nil)

	aURI := docuri.FromPath(aPath)
	h, err := s.Open(aURI, []byte("const x = 1;\n"))
	require.NoError(t, err)

	require.NotNil(t, h.AssociatedBuildFile)
	bf := h.AssociatedBuildFile
	assert.Equal(t, 2, bf.Refs, "one ref for the build script's own document, one for the associated source document")

	buildURI := docuri.FromPath(filepath.Join(root, "build.zig"))
	buildHandle, ok := s.GetHandle(buildURI)
	require.True(t, ok)
	assert.Same(t, bf, buildHandle.IsBuildFile)

	s.Close(aURI)
	assert.Equal(t, 1, bf.Refs, "only the build script's own reference remains")
}

// Scenario: a C-import's translation is cached by content hash across a
// refresh, so an unchanged C-import is not re-translated (spec §8, §4.7.2).
func TestCImportCacheHitAvoidsRetranslation(t *testing.T) {
	cimportRoot := t.TempDir()
	var calls int
	s := newTestStore(t, config.Config{}, fakeTranslate(cimportRoot, &calls))

	uri := docuri.FromPath("/w/a.zig")
	text := []byte(`const c = @cImport(stdio.h);`)
	h, err := s.Open(uri, text)
	require.NoError(t, err)
	require.Len(t, h.CImports, 1)
	assert.Equal(t, 1, calls)

	target, ok, err := s.ResolveCImport(h, h.CImports[0].Node)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 1, target.Count)

	// Refresh with identical text: the cache must hit, leaving the
	// translate stub uninvoked a second time.
	h.Text = text
	require.NoError(t, s.Refresh(uri))
	assert.Equal(t, 1, calls, "unchanged C-import source must reuse the cached translation")
	assert.Equal(t, 1, s.Stats().CImportCacheHits)
}

// Scenario: an import present at open time disappears on refresh; the
// formerly-retained target is released and, if nothing else holds it,
// destroyed (spec §8, §4.3.2 step 4).
func TestRefreshDropsVanishedImport(t *testing.T) {
	libDir := t.TempDir()
	stdDir := filepath.Join(libDir, "std")
	require.NoError(t, os.MkdirAll(stdDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(stdDir, "std.zig"), []byte("pub const io = 0;\n"), 0o644))

	s := newTestStore(t, config.Config{ZigLibPath: libDir}, nil)

	uri := docuri.FromPath("/w/main.zig")
	h, err := s.Open(uri, []byte(`const std = @import("std");`))
	require.NoError(t, err)

	target, ok, err := s.ResolveImport(h, "std")
	require.NoError(t, err)
	require.True(t, ok)

	h.Text = []byte("const nothing = 1;\n")
	require.NoError(t, s.Refresh(uri))

	assert.Empty(t, h.ImportsUsed)
	_, stillOpen := s.GetHandle(target.URI)
	assert.False(t, stillOpen, "a target only the refreshed handle retained must be torn down")
}

// ApplyChanges: a full-text replacement followed by a range edit produces
// the expected final text and re-runs the refresh pipeline (spec §6).
func TestApplyChangesFullThenRange(t *testing.T) {
	s := newTestStore(t, config.Config{}, nil)
	uri := docuri.FromPath("/w/a.zig")
	_, err := s.Open(uri, []byte("const x = 1;\n"))
	require.NoError(t, err)

	err = s.ApplyChanges(uri, []ContentChange{
		{Text: "const x = 2;\n"},
		{
			RangeSpan: &Range{
				Start: offsetutil.Position{Line: 0, Character: 0},
				End:   offsetutil.Position{Line: 0, Character: 5},
			},
			Text: "var",
		},
	}, offsetutil.UTF8)
	require.NoError(t, err)

	h, ok := s.GetHandle(uri)
	require.True(t, ok)
	assert.Equal(t, "var x = 2;\n", string(h.Text))
}

// Completion items union across an import chain, deduplicated by label
// (spec §4.8, §9 "Completion union").
func TestCompletionUnionAcrossImports(t *testing.T) {
	s := newTestStore(t, config.Config{}, nil)

	root := t.TempDir()
	mainURI := docuri.FromPath(filepath.Join(root, "main.zig"))
	h, err := s.Open(mainURI, []byte(`const dep = @import("dep.zig");
#error Overflow
`))
	require.NoError(t, err)

	dir, err := mainURI.Dir()
	require.NoError(t, err)
	realDepPath, err := docuri.Join(dir, "dep.zig").Filename()
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Dir(realDepPath), 0o755))
	require.NoError(t, os.WriteFile(realDepPath, []byte("#error Overflow\n#enum Color\n"), 0o644))

	_, ok, err := s.ResolveImport(h, "dep.zig")
	require.NoError(t, err)
	require.True(t, ok)

	errs := s.ErrorCompletionItems(h)
	require.Len(t, errs, 1, "the duplicate Overflow label from dep.zig must be deduplicated")
	enums := s.EnumCompletionItems(h)
	require.Len(t, enums, 1)
	assert.Equal(t, "Color", enums[0].Label)
}
