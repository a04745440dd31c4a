// Package localstate locates the directory where the CLI keeps its session
// database between runs.
package localstate

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	envHome    = "FSAD_STATE_HOME" // override for tests
	dirName    = ".fsad-records"   // default under $HOME
	dbFilename = "session.db"
)

// DataDir returns the directory where local state is stored (~/.fsad-records),
// or override when it is non-empty. It creates the directory with 0700
// permissions if it does not exist.
func DataDir(override string) (string, error) {
	if override == "" {
		override = os.Getenv(envHome)
	}
	if override != "" {
		if err := os.MkdirAll(override, 0o700); err != nil {
			return "", err
		}
		return override, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine user home: %w", err)
	}
	dir := filepath.Join(home, dirName)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}
	return dir, nil
}

// DBPath returns the absolute path to the session database file.
func DBPath(override string) (string, error) {
	dir, err := DataDir(override)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, dbFilename), nil
}
