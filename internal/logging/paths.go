package logging

import (
	"os"
	"path/filepath"
)

// DefaultLogPath returns the default log file path under the user's
// snipstash data directory (~/.snipstash/logs/snipstash.log).
func DefaultLogPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "snipstash", "snipstash.log")
	}
	return filepath.Join(home, ".snipstash", "logs", "snipstash.log")
}

// ensureDir creates the parent directory of path if missing.
func ensureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
