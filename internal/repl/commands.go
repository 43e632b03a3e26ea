package repl

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/atinylittleshell/procsh/internal/history"
	"github.com/atinylittleshell/procsh/internal/procfs"
	"github.com/atinylittleshell/procsh/internal/repl/lexer"
)

// ErrExit is returned when the user requests to exit the REPL.
var ErrExit = fmt.Errorf("exit requested")

const (
	exitCommand = "exit"
	procCommand = "/proc"
)

// dispatch routes a non-empty command. Built-ins are matched on the whole
// first token, in priority order exit, /proc, history.
func (r *REPL) dispatch(ctx context.Context, tokens lexer.Tokens) error {
	if handled, err := r.handleBuiltinCommand(tokens); handled {
		return err
	}
	return r.handleExternalCommand(ctx, tokens)
}

// handleBuiltinCommand handles built-in REPL commands.
// Returns true if the command was handled, and an error if the REPL should
// exit or the command failed.
func (r *REPL) handleBuiltinCommand(tokens lexer.Tokens) (bool, error) {
	switch tokens.Command() {
	case exitCommand:
		// Signal exit by returning ErrExit
		return true, ErrExit

	case procCommand:
		return true, r.handleProcCommand(tokens.Args())

	case history.Command:
		return true, r.history.Display(r.stdout)

	default:
		return false, nil
	}
}

// handleProcCommand resolves and prints one /proc query.
func (r *REPL) handleProcCommand(args []string) error {
	target, err := procfs.ParseTarget(args)
	if err != nil {
		return err
	}
	return r.inspector.Inspect(target)
}

// handleExternalCommand runs a program and waits for it. Its exit status is
// only logged and audited.
func (r *REPL) handleExternalCommand(ctx context.Context, tokens lexer.Tokens) error {
	commandLine := lexer.Join(tokens)
	record := r.startAudit(commandLine)

	start := time.Now()
	exitCode, err := r.executor.Execute(ctx, tokens)
	elapsed := time.Since(start)

	r.finishAudit(record, exitCode, elapsed)

	if err != nil {
		return err
	}

	r.logger.Debug("command finished",
		zap.String("command", tokens.Command()),
		zap.Int("exitCode", exitCode),
		zap.Duration("elapsed", elapsed),
	)
	return nil
}
