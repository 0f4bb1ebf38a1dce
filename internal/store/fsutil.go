package store

import "os"

// pathExists reports whether path is accessible, used by the ancestor
// walk (spec §4.4.1) and std-URI resolution (spec §4.8).
func pathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func readFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}
