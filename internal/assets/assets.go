package assets

import (
	_ "embed"
	"errors"
	"os"
	"path/filepath"
)

// ConfigFileName is the file written into a fresh configuration directory.
const ConfigFileName = "framepak.yaml"

//go:embed default-framepak.yaml
var defaultConfig []byte

// DefaultConfig returns the embedded starter configuration.
func DefaultConfig() []byte { return append([]byte{}, defaultConfig...) }

// WriteDefaultConfigIfMissing writes framepak.yaml to targetDir if it does not
// exist. It reports whether a file was written.
func WriteDefaultConfigIfMissing(targetDir string) (bool, error) {
	if targetDir == "" {
		return false, errors.New("empty targetDir")
	}
	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		return false, err
	}
	p := filepath.Join(targetDir, ConfigFileName)
	if _, err := os.Stat(p); err == nil {
		return false, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return false, err
	}
	return true, os.WriteFile(p, defaultConfig, 0o644)
}
