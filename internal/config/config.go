// Package config holds the document store's configuration values and the
// flag-based construction bingo's main.go demonstrates for its own
// Config type.
package config

import "flag"

// Baked-in cache-root strings passed to the build-script runner (spec §6).
const (
	LocalCacheRoot  = "zig-cache"
	GlobalCacheRoot = "ZLS_DONT_CARE"
)

// Config is the set of environment/configuration values the store
// consumes (spec §6).
type Config struct {
	ZigExePath      string
	ZigLibPath      string
	BuildRunnerPath string
	GlobalCachePath string
	BuiltinPath     string
}

// NewDefaultConfig returns a zero-value Config, mirroring
// langserver.NewDefaultConfig: callers override fields from flags, env, or
// an initialization request before calling store.Init.
func NewDefaultConfig() Config {
	return Config{}
}

// RegisterFlags binds Config's fields to flag.FlagSet, matching main.go's
// package-level flag.String calls. Call Parse on fs yourself; this only
// wires the destinations.
func RegisterFlags(fs *flag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.ZigExePath, "zig-exe-path", "", "path to the zig compiler executable")
	fs.StringVar(&cfg.ZigLibPath, "zig-lib-path", "", "path to the zig standard library source")
	fs.StringVar(&cfg.BuildRunnerPath, "build-runner-path", "", "path to the build runner script")
	fs.StringVar(&cfg.GlobalCachePath, "global-cache-path", "", "path to zig's global cache directory")
	fs.StringVar(&cfg.BuiltinPath, "builtin-path", "", "path to the global builtin.zig")
}
