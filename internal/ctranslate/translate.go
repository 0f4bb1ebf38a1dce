// Package ctranslate is the document store's bundled default for the C
// translator collaborator spec §1 declares external to the store
// (translateCInclude). It shells out to `zig translate-c`, grounded on
// buildrunner's invoke pattern (internal/buildrunner/exec.go), and
// materializes the translated output as a document the store can open by
// URI, the same way the real translator's synthetic file must be
// readable for store.attachImport to retain it.
package ctranslate

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/zls-tools/docstore/internal/docuri"
	"github.com/zls-tools/docstore/internal/store"
)

// New returns a store.TranslateFunc that runs `zig translate-c` on the
// extracted C source and writes its output under cacheDir, keyed by a
// randomly generated temp name. Subprocess failure reports a
// store.TranslationResult with Failed set rather than an error, matching the translator's own failure case (spec §4.7.1:
// a failed translation is still tracked, not propagated).
func New(cacheDir string) store.TranslateFunc {
	return func(cfg store.TranslateConfig, includeDirs []string, source string) *store.TranslationResult {
		if cfg.ZigExePath == "" {
			return nil // absent: no compiler configured to translate with
		}
		if err := os.MkdirAll(cacheDir, 0o755); err != nil {
			return &store.TranslationResult{Failed: true}
		}

		tmp, err := os.CreateTemp(cacheDir, "cimport-*.h")
		if err != nil {
			return &store.TranslationResult{Failed: true}
		}
		headerPath := tmp.Name()
		defer os.Remove(headerPath)
		_, werr := tmp.WriteString(source)
		_ = tmp.Close()
		if werr != nil {
			return &store.TranslationResult{Failed: true}
		}

		args := []string{"translate-c"}
		for _, dir := range includeDirs {
			args = append(args, "-I", dir)
		}
		args = append(args, headerPath)

		out, err := invoke(context.Background(), cfg.ZigExePath, args...)
		if err != nil {
			return &store.TranslationResult{Failed: true}
		}

		outPath := headerPath[:len(headerPath)-len(filepath.Ext(headerPath))] + ".zig"
		if err := os.WriteFile(outPath, out.Bytes(), 0o644); err != nil {
			return &store.TranslationResult{Failed: true}
		}

		return &store.TranslationResult{URI: docuri.FromPath(outPath)}
	}
}

func invoke(ctx context.Context, name string, args ...string) (*bytes.Buffer, error) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%s %v: %w: %s", name, args, err, stderr.String())
	}
	return stdout, nil
}
