package buildrunner

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// FileConfigName is the file read from a build script's directory for
// per-build-file overrides (spec §4.4.2, §6).
const FileConfigName = "zls.build.json"

// FileConfig is the optional per-build-file configuration (spec §6).
type FileConfig struct {
	RelativeBuiltinPath string   `json:"relative_builtin_path"`
	BuildOptions        []Option `json:"build_options"`
}

// ReadFileConfig reads "<scriptDir>/zls.build.json". A missing file is not
// an error: it returns (nil, nil), equivalent to an empty object (spec
// §4.4.2, §6). Any other I/O or parse error propagates.
func ReadFileConfig(scriptDir string) (*FileConfig, error) {
	data, err := os.ReadFile(filepath.Join(scriptDir, FileConfigName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var cfg FileConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
