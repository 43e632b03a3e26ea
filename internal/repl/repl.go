// Package repl provides the interactive prompt loop of procsh.
// It reads one line at a time, records it in the history log and hands the
// tokenized command to a built-in or to the process executor.
package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/atinylittleshell/procsh/internal/audit"
	"github.com/atinylittleshell/procsh/internal/history"
	"github.com/atinylittleshell/procsh/internal/procfs"
	"github.com/atinylittleshell/procsh/internal/repl/config"
	"github.com/atinylittleshell/procsh/internal/repl/executor"
	"github.com/atinylittleshell/procsh/internal/repl/lexer"
)

// ErrNoInput is reported when a line could not be read.
var ErrNoInput = errors.New("no input entered")

// Options configures a REPL. Zero values fall back to the process's own
// standard streams, working directory and environment.
type Options struct {
	// Config is used as given. When nil it is loaded from ConfigPath, or from
	// the default location when ConfigPath is empty.
	Config     *config.Config
	ConfigPath string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// FS backs the history log. ProcFS backs the proc inspector.
	FS     afero.Fs
	ProcFS afero.Fs

	Dir string
	Env []string

	SessionID string
	Logger    *zap.Logger
}

// REPL is the read-dispatch loop.
type REPL struct {
	config    *config.Config
	in        *bufio.Reader
	stdout    io.Writer
	stderr    io.Writer
	errColor  *color.Color
	history   *history.Log
	inspector *procfs.Inspector
	executor  *executor.Executor
	audit     *audit.Store
	sessionID string
	logger    *zap.Logger
}

// NewREPL creates a REPL and truncates its history file.
func NewREPL(opts Options) (*REPL, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	stdin := opts.Stdin
	if stdin == nil {
		stdin = os.Stdin
	}
	stdout := opts.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	stderr := opts.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}

	errColor := color.New(color.FgRed)
	if stderr != os.Stderr {
		errColor.DisableColor()
	}

	r := &REPL{
		in:        bufio.NewReader(stdin),
		stdout:    stdout,
		stderr:    stderr,
		errColor:  errColor,
		sessionID: opts.SessionID,
		logger:    logger,
	}
	if r.sessionID == "" {
		r.sessionID = uuid.NewString()
	}

	cfg, err := r.loadConfig(opts)
	if err != nil {
		return nil, err
	}
	r.config = cfg

	// Children share a terminal or file descriptor directly. Any other reader
	// would be copied into the child by a goroutine that Wait blocks on.
	childStdin := io.Reader(strings.NewReader(""))
	if f, ok := stdin.(*os.File); ok {
		childStdin = f
	}

	exec, err := executor.NewExecutor(executor.Options{
		Dir:    opts.Dir,
		Env:    opts.Env,
		Stdin:  childStdin,
		Stdout: stdout,
		Stderr: stderr,
		Logger: logger.Named("executor"),
	})
	if err != nil {
		return nil, err
	}
	r.executor = exec

	r.history = history.New(opts.FS, cfg.HistoryFile, history.DefaultLimit)
	r.inspector = procfs.NewInspector(opts.ProcFS, cfg.ProcRoot, stdout, logger.Named("procfs"))

	if cfg.AuditFile != "" {
		store, err := audit.Open(cfg.AuditFile)
		if err != nil {
			logger.Warn("running without command audit", zap.Error(err))
		} else {
			r.audit = store
		}
	}

	if err := r.history.Reset(); err != nil {
		r.reportError(err)
	}

	return r, nil
}

func (r *REPL) loadConfig(opts Options) (*config.Config, error) {
	if opts.Config != nil {
		return opts.Config, nil
	}

	loader := config.NewLoader(r.logger)
	var result *config.LoadResult
	var err error
	if opts.ConfigPath != "" {
		result, err = loader.LoadFromFile(opts.ConfigPath)
	} else {
		result, err = loader.LoadDefaultConfigPath()
	}
	if err != nil {
		return nil, err
	}

	for _, loadErr := range result.Errors {
		r.reportError(fmt.Errorf("config: %w", loadErr))
	}
	return result.Config, nil
}

// Run loops until exit is entered or ctx is done. Exit returns nil.
func (r *REPL) Run(ctx context.Context) error {
	r.logger.Info("-------- new procsh session --------",
		zap.String("session", r.sessionID),
		zap.String("dir", r.executor.Dir()),
		zap.String("history", r.history.Path()),
	)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		fmt.Fprint(r.stdout, config.Prompt)

		line, err := r.readLine()
		if err != nil {
			r.logger.Debug("read failed", zap.Error(err))
			r.reportError(ErrNoInput)
			continue
		}

		if err := r.processCommand(ctx, line); err != nil {
			if errors.Is(err, ErrExit) {
				r.logger.Info("exit requested", zap.String("session", r.sessionID))
				return nil
			}
			r.reportError(err)
		}
	}
}

// processCommand handles one line of input. Every line read is logged, blank
// ones included, before it is tokenized. The returned error is either ErrExit
// or a failure to report; the loop continues after the latter.
func (r *REPL) processCommand(ctx context.Context, line string) error {
	if err := r.history.Append(line); err != nil {
		r.reportError(err)
	}

	tokens := lexer.Tokenize(line)
	if tokens.Empty() {
		return nil
	}

	r.logger.Debug("dispatch", zap.String("command", tokens.Command()), zap.Int("args", len(tokens.Args())))
	return r.dispatch(ctx, tokens)
}

// readLine reads one line of any length without its terminator. A last line
// that is cut off by end of input still counts.
func (r *REPL) readLine() (string, error) {
	line, err := r.in.ReadString('\n')
	if err != nil && (line == "" || !errors.Is(err, io.EOF)) {
		return "", err
	}

	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	return line, nil
}

func (r *REPL) reportError(err error) {
	r.errColor.Fprintf(r.stderr, "Error: %s\n", capitalize(err.Error()))
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Close releases the audit store.
func (r *REPL) Close() error {
	if r.audit != nil {
		return r.audit.Close()
	}
	return nil
}

// Config returns the configuration in use.
func (r *REPL) Config() *config.Config {
	return r.config
}

// History returns the history log.
func (r *REPL) History() *history.Log {
	return r.history
}

// Executor returns the process executor.
func (r *REPL) Executor() *executor.Executor {
	return r.executor
}

// Audit returns the audit store, or nil when auditing is off.
func (r *REPL) Audit() *audit.Store {
	return r.audit
}

// SessionID identifies this shell session in the audit store.
func (r *REPL) SessionID() string {
	return r.sessionID
}
