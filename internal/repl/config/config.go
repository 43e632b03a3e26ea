// Package config provides configuration management for the procsh REPL.
// It handles loading the optional YAML configuration file and applying
// environment variable overrides on top of it.
package config

import (
	"github.com/atinylittleshell/procsh/internal/core"
	"github.com/atinylittleshell/procsh/internal/history"
	"github.com/atinylittleshell/procsh/internal/procfs"
)

// Prompt is printed before every read.
const Prompt = ">> "

// Config holds all REPL configuration.
type Config struct {
	// HistoryFile is the plain-text history log, relative to the working directory
	// unless absolute.
	HistoryFile string `yaml:"historyFile"`

	// ProcRoot is the directory read in place of /proc.
	ProcRoot string `yaml:"procRoot"`

	// LogLevel controls logging verbosity (debug, info, warn, error).
	LogLevel string `yaml:"logLevel"`

	// LogFile receives the structured log. Empty disables logging.
	LogFile string `yaml:"logFile"`

	// AuditFile is the SQLite database recording external commands.
	// Empty disables auditing.
	AuditFile string `yaml:"auditFile"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		HistoryFile: history.DefaultFile,
		ProcRoot:    procfs.DefaultRoot,
		LogLevel:    "info",
		LogFile:     core.LogFile(),
		AuditFile:   core.AuditFile(),
	}
}
