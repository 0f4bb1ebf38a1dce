package store

import (
	"context"
	"path/filepath"

	"github.com/zls-tools/docstore/internal/buildrunner"
	"github.com/zls-tools/docstore/internal/config"
	"github.com/zls-tools/docstore/internal/docuri"
)

// discoverAssociatedBuildFile is the ancestor walk of spec §4.3.1 step 3
// / §4.4.1: for each ancestor directory of path containing a build
// script, reuse or create its descriptor, open the script as a document,
// and test association. Walking proceeds root-to-leaf, so the nearest
// (deepest) associated build file wins; if none is associated, the
// closest existing (deepest observed) build file is returned as a
// fallback (spec §9 "closest existing" note).
func (s *Store) discoverAssociatedBuildFile(path string, target docuri.URI) (*BuildFile, error) {
	walk := docuri.NewAncestorWalk(path)

	var observed []*BuildFile
	var associated *BuildFile

	for {
		candidate, ok := walk.Next("build.zig")
		if !ok {
			break
		}
		uri := docuri.FromPath(candidate)

		bf, err := s.buildFileForScriptURI(uri)
		if err != nil {
			s.log.WithError(err).WithField("build_file", uri).Warn("failed to create build file descriptor")
			continue
		}
		observed = append(observed, bf)

		if _, ok := s.handles[uri]; !ok {
			if _, opened := s.newDocumentFromURI(uri); !opened {
				s.log.WithField("build_file", uri).Warn("failed to open build script document")
			}
		}

		if s.uriAssociatedWithBuild(bf, target) {
			associated = bf
		}
	}

	if associated != nil {
		return associated, nil
	}
	return lastObserved(observed), nil
}

// buildFileForScriptURI reuses the registered descriptor for uri, or
// creates and registers a fresh one (spec §4.4.2).
func (s *Store) buildFileForScriptURI(uri docuri.URI) (*BuildFile, error) {
	if bf := s.buildFiles.find(uri); bf != nil {
		return bf, nil
	}
	return s.createBuildFileDescriptor(uri)
}

// createBuildFileDescriptor implements spec §4.4.2 / §4.4.3: read
// zls.build.json (absent is not an error), resolve the builtin URI,
// invoke the build-script runner (non-fatal on failure, spec §7
// RunFailed), and register the resulting descriptor.
func (s *Store) createBuildFileDescriptor(uri docuri.URI) (*BuildFile, error) {
	path, err := uri.Filename()
	if err != nil {
		return nil, err
	}
	scriptDir := filepath.Dir(path)

	fileCfg, err := buildrunner.ReadFileConfig(scriptDir)
	if err != nil {
		return nil, err
	}

	bf := &BuildFile{URI: uri}

	switch {
	case fileCfg != nil && fileCfg.RelativeBuiltinPath != "":
		bf.BuiltinURI = docuri.FromPath(filepath.Join(scriptDir, fileCfg.RelativeBuiltinPath))
	case s.cfg.BuiltinPath != "":
		bf.BuiltinURI = docuri.FromPath(s.cfg.BuiltinPath)
	}

	if fileCfg != nil {
		for _, o := range fileCfg.BuildOptions {
			bf.BuildOptions = append(bf.BuildOptions, BuildOption{Flag: o.Flag, Value: o.Value})
		}
	}

	s.runBuildRunner(bf, path, scriptDir)

	s.buildFiles.add(bf)
	return bf, nil
}

// runBuildRunner invokes the build-script runner subprocess and fills in
// bf's packages and include dirs. A RunFailed error is logged and
// swallowed: bf is left with an empty configuration (spec §4.4.3, §7).
func (s *Store) runBuildRunner(bf *BuildFile, scriptPath, scriptDir string) {
	var opts []buildrunner.Option
	for _, o := range bf.BuildOptions {
		opts = append(opts, buildrunner.Option{Flag: o.Flag, Value: o.Value})
	}

	out, err := buildrunner.Run(context.Background(), buildrunner.Request{
		ZigExePath:      s.cfg.ZigExePath,
		BuildRunnerPath: s.cfg.BuildRunnerPath,
		GlobalCachePath: s.cfg.GlobalCachePath,
		BuildFilePath:   scriptPath,
		ScriptDirectory: scriptDir,
		LocalCacheRoot:  config.LocalCacheRoot,
		GlobalCacheRoot: config.GlobalCacheRoot,
		Options:         opts,
	})
	if err != nil {
		s.log.WithError(err).WithField("build_file", bf.URI).Warn("build runner failed; leaving empty configuration")
		return
	}

	for _, p := range out.Packages {
		pkgPath := p.Path
		if !filepath.IsAbs(pkgPath) {
			pkgPath = filepath.Join(scriptDir, pkgPath)
		}
		bf.Packages = append(bf.Packages, Package{Name: p.Name, URI: docuri.FromPath(pkgPath)})
	}
	bf.IncludeDirs = out.IncludeDirs
}
