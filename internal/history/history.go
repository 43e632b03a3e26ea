// Package history keeps the plain-text log of commands issued in a session
// and replays its most recent entries.
package history

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/atinylittleshell/procsh/internal/repl/lexer"
	"github.com/spf13/afero"
)

const (
	// DefaultFile is the history file name, relative to the working directory.
	DefaultFile = ".421sh"

	// DefaultLimit is how many entries Display shows.
	DefaultLimit = 10

	// Command is the built-in that displays history. It is never logged.
	Command = "history"
)

// Log is a handle to one history file. Every operation opens and closes
// the file itself; nothing is cached between calls.
type Log struct {
	fs    afero.Fs
	path  string
	limit int
}

// New creates a handle for the history file at path.
// A non-positive limit falls back to DefaultLimit.
func New(fs afero.Fs, path string, limit int) *Log {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if path == "" {
		path = DefaultFile
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Log{
		fs:    fs,
		path:  path,
		limit: limit,
	}
}

// Path returns the file backing the log.
func (l *Log) Path() string {
	return l.path
}

// Reset creates the history file, truncating anything already in it.
func (l *Log) Reset() error {
	f, err := l.fs.OpenFile(l.path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("history file %s could not be made: %w", l.path, err)
	}
	return f.Close()
}

// Append writes line as a new entry unless it is a history command.
func (l *Log) Append(line string) error {
	if lexer.Tokenize(line).Command() == Command {
		return nil
	}

	f, err := l.fs.OpenFile(l.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("unable to append to history file %s: %w", l.path, err)
	}
	defer f.Close()

	if _, err := io.WriteString(f, line+"\n"); err != nil {
		return fmt.Errorf("unable to append to history file %s: %w", l.path, err)
	}
	return nil
}

// Recent rescans the whole file and returns up to the configured limit of
// entries, oldest first.
func (l *Log) Recent() ([]string, error) {
	f, err := l.fs.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("unable to read from history file %s: %w", l.path, err)
	}
	defer f.Close()

	window := NewWindow[string](l.limit)
	reader := bufio.NewReader(f)
	for {
		line, err := reader.ReadString('\n')
		if len(line) > 0 {
			window.Push(trimNewline(line))
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("unable to read from history file %s: %w", l.path, err)
		}
	}

	return window.Items(), nil
}

// Display prints the recent entries to w, one per line.
func (l *Log) Display(w io.Writer) error {
	entries, err := l.Recent()
	if err != nil {
		return err
	}

	for _, entry := range entries {
		fmt.Fprintln(w, entry)
	}
	return nil
}

func trimNewline(line string) string {
	if n := len(line); n > 0 && line[n-1] == '\n' {
		return line[:n-1]
	}
	return line
}
