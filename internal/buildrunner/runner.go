package buildrunner

import (
	"context"
	"encoding/json"
	"fmt"
)

// RawPackage is one entry of the runner's "packages" array (spec §6).
type RawPackage struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// Output is the build runner's JSON wire format (spec §6).
type Output struct {
	Packages    []RawPackage `json:"packages"`
	IncludeDirs []string     `json:"include_dirs"`
}

// Option is one runner command-line flag read from zls.build.json.
type Option struct {
	Flag  string
	Value string
}

// Request carries everything needed to invoke the runner for one build
// file (spec §4.4.3).
type Request struct {
	ZigExePath      string
	BuildRunnerPath string
	GlobalCachePath string
	BuildFilePath   string
	ScriptDirectory string
	LocalCacheRoot  string
	GlobalCacheRoot string
	Options         []Option
}

// Run invokes the build-script runner and parses its JSON output.
// Nonzero exit or I/O error is reported as a *RunFailedError; JSON that
// fails to parse is reported as-is.
func Run(ctx context.Context, req Request) (*Output, error) {
	args := []string{
		"run", req.BuildRunnerPath,
		"--cache-dir", req.GlobalCachePath,
		"--pkg-begin", "@build@", req.BuildFilePath, "--pkg-end",
		"--",
		req.ZigExePath, req.ScriptDirectory, req.LocalCacheRoot, req.GlobalCacheRoot,
	}
	for _, opt := range req.Options {
		args = append(args, opt.Flag)
		if opt.Value != "" {
			args = append(args, opt.Value)
		}
	}

	stdout, err := invoke(ctx, req.ScriptDirectory, req.ZigExePath, args...)
	if err != nil {
		return nil, err
	}

	var out Output
	if err := json.Unmarshal(stdout.Bytes(), &out); err != nil {
		return nil, fmt.Errorf("parsing build runner output: %w", err)
	}
	return &out, nil
}
