package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/atinylittleshell/procsh/internal/core"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Environment variables that override file configuration.
const (
	EnvHistoryFile = "PROCSH_HISTORY_FILE"
	EnvProcRoot    = "PROCSH_PROC_ROOT"
	EnvLogLevel    = "PROCSH_LOG_LEVEL"
	EnvLogFile     = "PROCSH_LOG_FILE"
	EnvAuditFile   = "PROCSH_AUDIT_FILE"
)

// Loader handles loading of the YAML configuration file.
type Loader struct {
	logger *zap.Logger
	lookup func(string) (string, bool)
}

// NewLoader creates a new configuration loader.
func NewLoader(logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{
		logger: logger,
		lookup: os.LookupEnv,
	}
}

// LoadResult contains the result of loading a configuration file.
type LoadResult struct {
	Config *Config
	Errors []error
}

// LoadFromFile loads configuration from a YAML file and applies environment
// overrides. A missing file yields the defaults; an unreadable or malformed
// one is recorded in Errors and the defaults are kept.
func (l *Loader) LoadFromFile(path string) (*LoadResult, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			result := &LoadResult{Config: DefaultConfig(), Errors: []error{}}
			l.applyEnv(result.Config)
			return result, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return l.LoadFromString(string(content))
}

// LoadFromString loads configuration from YAML source.
func (l *Loader) LoadFromString(source string) (*LoadResult, error) {
	result := &LoadResult{
		Config: DefaultConfig(),
		Errors: []error{},
	}

	fileConfig := DefaultConfig()
	if err := yaml.Unmarshal([]byte(source), fileConfig); err != nil {
		l.logger.Warn("ignoring malformed config", zap.Error(err))
		result.Errors = append(result.Errors, fmt.Errorf("parse error: %w", err))
	} else {
		result.Config = fileConfig
	}

	l.applyEnv(result.Config)
	return result, nil
}

// LoadDefaultConfigPath loads configuration from the default path (~/.procsh/config.yaml).
func (l *Loader) LoadDefaultConfigPath() (*LoadResult, error) {
	return l.LoadFromFile(core.ConfigFile())
}

func (l *Loader) applyEnv(cfg *Config) {
	overrides := []struct {
		name  string
		field *string
	}{
		{EnvHistoryFile, &cfg.HistoryFile},
		{EnvProcRoot, &cfg.ProcRoot},
		{EnvLogLevel, &cfg.LogLevel},
		{EnvLogFile, &cfg.LogFile},
		{EnvAuditFile, &cfg.AuditFile},
	}

	for _, o := range overrides {
		if value, ok := l.lookup(o.name); ok {
			l.logger.Debug("config override from environment", zap.String("name", o.name))
			*o.field = value
		}
	}
}
