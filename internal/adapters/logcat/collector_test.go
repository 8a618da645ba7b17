package logcat

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
}

func TestStartLogcatBuildsThreadtimeCommand(t *testing.T) {
	requireShell(t)

	var gotName string
	var gotArgs []string
	starter := NewStarter("/opt/android/adb")
	starter.command = func(name string, args ...string) *exec.Cmd {
		gotName = name
		gotArgs = args
		return exec.Command("sh", "-c", "exit 0")
	}

	path := filepath.Join(t.TempDir(), "logs", "adblog,sailfish,SER1.txt")
	proc, err := starter.StartLogcat(context.Background(), "SER1", "-b all", path)
	require.NoError(t, err)
	require.NoError(t, proc.Stop())

	assert.Equal(t, "/opt/android/adb", gotName)
	assert.Equal(t, []string{"-s", "SER1", "logcat", "-v", "threadtime", "-b", "all"}, gotArgs)
	assert.FileExists(t, path)
}

func TestStartLogcatAppendsAndStops(t *testing.T) {
	requireShell(t)

	starter := NewStarter("adb")
	starter.stopGrace = 2 * time.Second
	starter.command = func(name string, args ...string) *exec.Cmd {
		return exec.Command("sh", "-c", "printf '10-19 10:00:00.000  1  1 I tag: hello\\n'; exec sleep 30")
	}

	path := filepath.Join(t.TempDir(), "adblog,sailfish,SER1.txt")
	require.NoError(t, os.WriteFile(path, []byte("previous run\n"), 0o644))

	proc, err := starter.StartLogcat(context.Background(), "SER1", "", path)
	require.NoError(t, err)
	assert.Positive(t, proc.Pid())

	require.Eventually(t, func() bool {
		data, err := os.ReadFile(path)
		return err == nil && strings.Contains(string(data), "hello")
	}, 5*time.Second, 20*time.Millisecond)

	start := time.Now()
	require.NoError(t, proc.Stop())
	assert.Less(t, time.Since(start), 2*time.Second)
	require.NoError(t, proc.Stop())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "previous run\n"))
}

func TestStartLogcatRejectsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewStarter("adb").StartLogcat(ctx, "SER1", "", filepath.Join(t.TempDir(), "log.txt"))
	require.ErrorIs(t, err, context.Canceled)
}
