// Package executor runs external programs for the REPL.
//
// A program is looked up on the inherited PATH, started with the full token
// list as its argument vector and waited for. Failing to find or execute the
// program is reported on the error stream the way a forked child would and
// yields exit status 1; only a failure to create the process at all is
// returned as an error.
package executor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"syscall"

	"go.uber.org/zap"
	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
)

// NotFoundExitCode is the status of a command that could not be executed.
const NotFoundExitCode = 1

// ErrSpawn is returned when no process could be created.
var ErrSpawn = errors.New("failed to create process")

// Options configures an Executor. Zero values inherit from the shell process.
type Options struct {
	Dir    string
	Env    []string
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Logger *zap.Logger
}

// Executor starts external programs and blocks until they finish.
type Executor struct {
	dir    string
	env    expand.Environ
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	logger *zap.Logger
}

// NewExecutor creates an Executor.
func NewExecutor(opts Options) (*Executor, error) {
	dir := opts.Dir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		dir = wd
	}

	env := opts.Env
	if env == nil {
		env = os.Environ()
	}

	e := &Executor{
		dir:    dir,
		env:    expand.ListEnviron(env...),
		stdin:  opts.Stdin,
		stdout: opts.Stdout,
		stderr: opts.Stderr,
		logger: opts.Logger,
	}
	if e.stdin == nil {
		e.stdin = os.Stdin
	}
	if e.stdout == nil {
		e.stdout = os.Stdout
	}
	if e.stderr == nil {
		e.stderr = os.Stderr
	}
	if e.logger == nil {
		e.logger = zap.NewNop()
	}
	return e, nil
}

// Dir returns the directory programs run in.
func (e *Executor) Dir() string {
	return e.dir
}

// Execute runs argv[0] with argv as its arguments and returns its exit code.
// An empty argv does nothing.
func (e *Executor) Execute(ctx context.Context, argv []string) (int, error) {
	if len(argv) == 0 {
		return 0, nil
	}
	name := argv[0]

	path, err := interp.LookPathDir(e.dir, e.env, name)
	if err != nil {
		return e.notFound(name, err), nil
	}

	cmd := exec.CommandContext(ctx, path)
	cmd.Args = argv
	cmd.Dir = e.dir
	cmd.Env = execEnv(e.env)
	cmd.Stdin = e.stdin
	cmd.Stdout = e.stdout
	cmd.Stderr = e.stderr

	if err := cmd.Start(); err != nil {
		if isNotExecutable(err) {
			return e.notFound(name, err), nil
		}
		e.logger.Warn("failed to start process", zap.String("path", path), zap.Error(err))
		return -1, fmt.Errorf("%w: %w", ErrSpawn, err)
	}

	e.logger.Debug("started process", zap.String("path", path), zap.Int("pid", cmd.Process.Pid))

	err = cmd.Wait()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		e.logger.Debug("process exited", zap.String("path", path), zap.Int("exitCode", exitErr.ExitCode()))
		return exitErr.ExitCode(), nil
	}
	if err != nil {
		return -1, fmt.Errorf("waiting for %s: %w", name, err)
	}

	e.logger.Debug("process exited", zap.String("path", path), zap.Int("exitCode", 0))
	return 0, nil
}

// notFound reports a program that could not be executed, as the child would.
func (e *Executor) notFound(name string, err error) int {
	e.logger.Debug("command not found", zap.String("name", name), zap.Error(err))
	fmt.Fprintf(e.stderr, "Error: Command not found: %s\n", name)
	return NotFoundExitCode
}

func isNotExecutable(err error) bool {
	return errors.Is(err, exec.ErrNotFound) ||
		errors.Is(err, fs.ErrNotExist) ||
		errors.Is(err, fs.ErrPermission) ||
		errors.Is(err, syscall.ENOEXEC)
}

// execEnv converts expand.Environ to []string for exec.Cmd.Env
func execEnv(env expand.Environ) []string {
	var result []string
	env.Each(func(name string, vr expand.Variable) bool {
		if vr.Exported {
			result = append(result, name+"="+vr.String())
		}
		return true
	})
	return result
}
