package infra

import (
	"fmt"
	"os"
	"path/filepath"
)

const appDirName = "grvt-volume-bot"

// GetWorkspaceDir returns the root directory for runtime data (journal, lock
// file). A local _workspace directory wins for portable/dev runs; otherwise
// the XDG data dir is used.
func GetWorkspaceDir() string {
	localDir := "_workspace"
	if _, err := os.Stat(localDir); err == nil {
		return localDir
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return localDir
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, appDirName)
}

// EnsureDir creates the directory if missing (0755).
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}

// CreateLockFile guards against a second bot instance quoting the same
// account: two schedulers racing cancel-all against each other would strand
// resting orders. Returns an unlock func.
func CreateLockFile(workDir string) (func(), error) {
	lockPath := filepath.Join(workDir, "instance.lock")

	f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
	if err != nil {
		if os.IsExist(err) {
			return nil, fmt.Errorf("another instance is already running (lock file %s)", lockPath)
		}
		return nil, err
	}
	fmt.Fprintf(f, "%d", os.Getpid())
	f.Close()

	return func() { os.Remove(lockPath) }, nil
}

// ResolveConfigPath locates the config file: working directory first, then
// the XDG config dir.
func ResolveConfigPath() string {
	defaultPath := filepath.Join("configs", "config.yaml")
	if _, err := os.Stat(defaultPath); err == nil {
		return defaultPath
	}

	confHome := os.Getenv("XDG_CONFIG_HOME")
	if confHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return defaultPath
		}
		confHome = filepath.Join(home, ".config")
	}
	return filepath.Join(confHome, appDirName, "config.yaml")
}
