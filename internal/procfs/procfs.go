// Package procfs prints small fragments of well-known /proc pseudo-files.
//
// Only the first line of each file is read, which is all the shell shows.
// Nothing is parsed.
package procfs

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// DefaultRoot is where the kernel mounts the proc filesystem.
const DefaultRoot = "/proc"

var (
	// ErrOpen wraps failures to open a pseudo-file.
	ErrOpen = errors.New("unable to open")

	// ErrRead wraps failures to read a pseudo-file, including empty ones.
	ErrRead = errors.New("unable to read")
)

// Inspector reads pseudo-files under a root and prints them to out.
type Inspector struct {
	fs     afero.Fs
	root   string
	out    io.Writer
	logger *zap.Logger
}

// NewInspector creates an Inspector. A nil fs reads the real filesystem
// read-only, an empty root means DefaultRoot and a nil logger disables logging.
func NewInspector(fs afero.Fs, root string, out io.Writer, logger *zap.Logger) *Inspector {
	if fs == nil {
		fs = afero.NewReadOnlyFs(afero.NewOsFs())
	}
	if root == "" {
		root = DefaultRoot
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Inspector{
		fs:     fs,
		root:   root,
		out:    out,
		logger: logger,
	}
}

// Root returns the directory standing in for /proc.
func (i *Inspector) Root() string {
	return i.root
}

// Inspect runs the read operation matching target.
func (i *Inspector) Inspect(target Target) error {
	switch target.Kind {
	case KindCPUInfo:
		return i.CPUInfo()
	case KindLoadAvg:
		return i.LoadAvg()
	case KindStatus:
		return i.Status(target.PID)
	case KindEnviron:
		return i.Environ(target.PID)
	case KindSched:
		return i.Sched(target.PID)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownTarget, target.Kind)
	}
}

// CPUInfo prints the first line of cpuinfo.
func (i *Inspector) CPUInfo() error {
	return i.printFirstLine(Target{Kind: KindCPUInfo})
}

// LoadAvg prints the first line of loadavg.
func (i *Inspector) LoadAvg() error {
	return i.printFirstLine(Target{Kind: KindLoadAvg})
}

// Status prints the first line of the process's status file.
func (i *Inspector) Status(pid string) error {
	return i.printFirstLine(Target{Kind: KindStatus, PID: pid})
}

// Sched prints the first line of the process's sched file.
func (i *Inspector) Sched(pid string) error {
	return i.printFirstLine(Target{Kind: KindSched, PID: pid})
}

// Environ prints the first line of the process's environ file as raw bytes,
// including its line break, then one more byte with a NUL shown as a line
// break.
//
// environ is NUL separated and normally has no line breaks at all, so the
// "first line" is usually the whole file and the extra byte is never there.
func (i *Inspector) Environ(pid string) error {
	target := Target{Kind: KindEnviron, PID: pid}

	var out bytes.Buffer
	err := i.read(target, func(reader *bufio.Reader) error {
		line, err := readFirstLine(reader)
		if err != nil {
			return err
		}
		out.Write(line)

		b, err := reader.ReadByte()
		switch {
		case errors.Is(err, io.EOF):
		case err != nil:
			return err
		case b == 0:
			out.WriteString("\n\n")
		default:
			out.WriteByte('\n')
			out.WriteByte(b)
		}
		out.WriteByte('\n')
		return nil
	})
	if err != nil {
		return err
	}

	_, err = i.out.Write(out.Bytes())
	return err
}

func (i *Inspector) printFirstLine(target Target) error {
	var line []byte
	err := i.read(target, func(reader *bufio.Reader) error {
		var err error
		line, err = readFirstLine(reader)
		return err
	})
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(i.out, "%s\n", line)
	return err
}

// read opens the target's pseudo-file, hands it to fn and always closes it.
// Errors from fn are reported as read failures.
func (i *Inspector) read(target Target, fn func(*bufio.Reader) error) error {
	path := target.Path(i.root)

	f, err := i.fs.Open(path)
	if err != nil {
		i.logger.Debug("proc open failed", zap.String("path", path), zap.Error(err))
		return fmt.Errorf("%w %s: %w", ErrOpen, path, err)
	}
	defer f.Close()

	if err := fn(bufio.NewReader(f)); err != nil {
		i.logger.Debug("proc read failed", zap.String("path", path), zap.Error(err))
		return fmt.Errorf("%w %s from %s: %w", ErrRead, target.Kind.description(), path, err)
	}

	i.logger.Debug("proc read", zap.String("path", path), zap.Stringer("kind", target.Kind))
	return nil
}

// readFirstLine returns the first line without its terminator. A file with
// no bytes at all has no first line.
func readFirstLine(reader *bufio.Reader) ([]byte, error) {
	line, err := reader.ReadBytes('\n')
	if len(line) == 0 {
		if err == nil || errors.Is(err, io.EOF) {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return bytes.TrimSuffix(line, []byte("\n")), nil
}
