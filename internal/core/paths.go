package core

import (
	"os"
	"path/filepath"
)

// DataDirName is the directory under the user's home holding procsh state.
const DataDirName = ".procsh"

type Paths struct {
	HomeDir    string
	DataDir    string
	LogFile    string
	ConfigFile string
	AuditFile  string
}

var defaultPaths *Paths

func ensureDefaultPaths() {
	if defaultPaths == nil {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			// Without a home directory everything lands in the working directory.
			homeDir = "."
		}

		defaultPaths = newPaths(homeDir)

		// Best effort. Callers cope with missing files under DataDir.
		_ = os.MkdirAll(defaultPaths.DataDir, 0755)
	}
}

func newPaths(homeDir string) *Paths {
	dataDir := filepath.Join(homeDir, DataDirName)
	return &Paths{
		HomeDir:    homeDir,
		DataDir:    dataDir,
		LogFile:    filepath.Join(dataDir, "procsh.log"),
		ConfigFile: filepath.Join(dataDir, "config.yaml"),
		AuditFile:  filepath.Join(dataDir, "audit.db"),
	}
}

func HomeDir() string {
	ensureDefaultPaths()
	return defaultPaths.HomeDir
}

func DataDir() string {
	ensureDefaultPaths()
	return defaultPaths.DataDir
}

func LogFile() string {
	ensureDefaultPaths()
	return defaultPaths.LogFile
}

func ConfigFile() string {
	ensureDefaultPaths()
	return defaultPaths.ConfigFile
}

func AuditFile() string {
	ensureDefaultPaths()
	return defaultPaths.AuditFile
}

// ResetPaths clears the cached paths, forcing them to be reinitialized.
// This is primarily used for testing purposes.
func ResetPaths() {
	defaultPaths = nil
}
