package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/atinylittleshell/procsh/internal/repl"
	"github.com/atinylittleshell/procsh/internal/repl/config"
)

var BUILD_VERSION = "dev"

// errArguments is printed verbatim, trailing period included.
var errArguments = errors.New("Command-line arguments can not be passed.")

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "procsh",
		Short: "A small interactive shell with /proc inspection built in",
		Long: `procsh reads one command per line from the prompt.

Built-in commands:
  exit                        leave the shell
  history                     print the last 10 commands
  /proc cpuinfo               first line of /proc/cpuinfo
  /proc loadavg               first line of /proc/loadavg
  /proc <pid> status|environ|sched

Anything else is run as a program found on PATH.`,
		Args:               noArgs,
		DisableFlagParsing: true,
		SilenceUsage:       true,
		SilenceErrors:      true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
}

// noArgs rejects every argument, including flags.
func noArgs(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return errArguments
	}
	return nil
}

func run(ctx context.Context, stdin io.Reader, stdout, stderr io.Writer) error {
	cfg := loadConfig(stderr)

	logger := initializeLogger(cfg)
	defer logger.Sync() // Flush any buffered log entries

	logger.Info("starting procsh", zap.String("version", BUILD_VERSION))

	r, err := repl.NewREPL(repl.Options{
		Config: cfg,
		Stdin:  stdin,
		Stdout: stdout,
		Stderr: stderr,
		Logger: logger,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer r.Close()

	return r.Run(ctx)
}

// loadConfig reads ~/.procsh/config.yaml, falling back to the defaults when
// it cannot be read.
func loadConfig(stderr io.Writer) *config.Config {
	result, err := config.NewLoader(nil).LoadDefaultConfigPath()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return config.DefaultConfig()
	}
	for _, loadErr := range result.Errors {
		fmt.Fprintf(stderr, "Error: Config: %v\n", loadErr)
	}
	return result.Config
}

// initializeLogger logs to the configured file. Without one, or when the file
// cannot be opened, logging is off.
func initializeLogger(cfg *config.Config) *zap.Logger {
	if cfg.LogFile == "" {
		return zap.NewNop()
	}

	logLevel, err := zap.ParseAtomicLevel(cfg.LogLevel)
	if err != nil {
		logLevel = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	if BUILD_VERSION == "dev" {
		logLevel = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	loggerConfig := zap.NewProductionConfig()
	loggerConfig.Level = logLevel
	loggerConfig.OutputPaths = []string{cfg.LogFile}
	loggerConfig.ErrorOutputPaths = []string{cfg.LogFile}

	logger, err := loggerConfig.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
