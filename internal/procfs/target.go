package procfs

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingArgument is returned when /proc is given nothing to inspect.
	ErrMissingArgument = errors.New("no argument provided for /proc")

	// ErrUnknownTarget is returned for /proc arguments that name no known file.
	ErrUnknownTarget = errors.New("unrecognized /proc query")
)

// Kind identifies one of the pseudo-files the inspector can read.
type Kind int

const (
	KindCPUInfo Kind = iota + 1
	KindLoadAvg
	KindStatus
	KindEnviron
	KindSched
)

func (k Kind) String() string {
	switch k {
	case KindCPUInfo:
		return "cpuinfo"
	case KindLoadAvg:
		return "loadavg"
	case KindStatus:
		return "status"
	case KindEnviron:
		return "environ"
	case KindSched:
		return "sched"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// description names what the pseudo-file holds, for error messages.
func (k Kind) description() string {
	switch k {
	case KindCPUInfo:
		return "cpu information"
	case KindLoadAvg:
		return "load average"
	case KindStatus:
		return "process status"
	case KindEnviron:
		return "process environment"
	case KindSched:
		return "scheduling information"
	default:
		return "proc information"
	}
}

// PerProcess reports whether the kind lives under a pid directory.
func (k Kind) PerProcess() bool {
	return k == KindStatus || k == KindEnviron || k == KindSched
}

// Target is a resolved /proc query.
type Target struct {
	Kind Kind
	// PID is used verbatim and only for per-process kinds.
	PID string
}

// Path returns the pseudo-file path of the target under root.
// The pid is interpolated as given; an invalid one simply fails to open.
func (t Target) Path(root string) string {
	if t.Kind.PerProcess() {
		return fmt.Sprintf("%s/%s/%s", root, t.PID, t.Kind)
	}
	return fmt.Sprintf("%s/%s", root, t.Kind)
}

// ParseTarget resolves the arguments following /proc:
//
//	cpuinfo
//	loadavg
//	<pid> status|environ|sched
func ParseTarget(args []string) (Target, error) {
	if len(args) == 0 {
		return Target{}, ErrMissingArgument
	}

	switch args[0] {
	case "cpuinfo":
		return Target{Kind: KindCPUInfo}, nil
	case "loadavg":
		return Target{Kind: KindLoadAvg}, nil
	}

	if len(args) >= 2 {
		switch args[1] {
		case "status":
			return Target{Kind: KindStatus, PID: args[0]}, nil
		case "environ":
			return Target{Kind: KindEnviron, PID: args[0]}, nil
		case "sched":
			return Target{Kind: KindSched, PID: args[0]}, nil
		}
	}

	return Target{}, fmt.Errorf("%w: %v", ErrUnknownTarget, args)
}
