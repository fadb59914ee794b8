package runfiles

import (
	"os"
	"path/filepath"
)

// Install writes content under dir at the location id maps to, creating a
// runfiles tree usable through EMBER_RUNFILES_DIR.
func Install(dir, id string, content []byte) (string, error) {
	clean, err := validID(id)
	if err != nil {
		return "", err
	}
	target := filepath.Join(dir, filepath.FromSlash(clean))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", err
	}
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, content, 0o600); err != nil {
		return "", err
	}
	if err := os.Rename(tmp, target); err != nil {
		_ = os.Remove(tmp)
		return "", err
	}
	return filepath.Abs(target)
}
