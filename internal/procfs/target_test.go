package procfs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTarget(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected Target
	}{
		{"cpuinfo", []string{"cpuinfo"}, Target{Kind: KindCPUInfo}},
		{"loadavg", []string{"loadavg"}, Target{Kind: KindLoadAvg}},
		{"loadavg ignores extra args", []string{"loadavg", "status"}, Target{Kind: KindLoadAvg}},
		{"status", []string{"42", "status"}, Target{Kind: KindStatus, PID: "42"}},
		{"environ", []string{"self", "environ"}, Target{Kind: KindEnviron, PID: "self"}},
		{"sched", []string{"1", "sched"}, Target{Kind: KindSched, PID: "1"}},
		{"pid is not validated", []string{"abc", "status"}, Target{Kind: KindStatus, PID: "abc"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTarget(tt.args)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestParseTarget_Errors(t *testing.T) {
	_, err := ParseTarget(nil)
	assert.ErrorIs(t, err, ErrMissingArgument)

	_, err = ParseTarget([]string{"42"})
	assert.ErrorIs(t, err, ErrUnknownTarget)

	_, err = ParseTarget([]string{"42", "maps"})
	assert.ErrorIs(t, err, ErrUnknownTarget)

	_, err = ParseTarget([]string{"meminfo"})
	assert.ErrorIs(t, err, ErrUnknownTarget)
}

func TestTarget_Path(t *testing.T) {
	assert.Equal(t, "/proc/cpuinfo", Target{Kind: KindCPUInfo}.Path("/proc"))
	assert.Equal(t, "/proc/loadavg", Target{Kind: KindLoadAvg}.Path("/proc"))
	assert.Equal(t, "/proc/42/status", Target{Kind: KindStatus, PID: "42"}.Path("/proc"))
	assert.Equal(t, "/proc/42/environ", Target{Kind: KindEnviron, PID: "42"}.Path("/proc"))
	assert.Equal(t, "/fake/7/sched", Target{Kind: KindSched, PID: "7"}.Path("/fake"))
	assert.Equal(t, "/proc/../1/status", Target{Kind: KindStatus, PID: "../1"}.Path("/proc"))
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "cpuinfo", KindCPUInfo.String())
	assert.Equal(t, "sched", KindSched.String())
	assert.Equal(t, "Kind(99)", Kind(99).String())
	assert.True(t, KindEnviron.PerProcess())
	assert.False(t, KindLoadAvg.PerProcess())
}
