package logcat

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/bnema/droidfleet/internal/ports"
)

const (
	defaultStopGrace = 3 * time.Second
	logFileMode      = 0o644
	logDirMode       = 0o755
)

// Starter launches standing `adb logcat` collectors appending to a file.
type Starter struct {
	adbPath   string
	stopGrace time.Duration
	command   func(name string, args ...string) *exec.Cmd
}

var _ ports.LogcatStarter = (*Starter)(nil)

func NewStarter(adbPath string) *Starter {
	if adbPath == "" {
		adbPath = "adb"
	}

	return &Starter{
		adbPath:   adbPath,
		stopGrace: defaultStopGrace,
		command:   exec.Command,
	}
}

// StartLogcat starts the collector in the background. The process outlives
// ctx; only Stop ends it.
func (s *Starter) StartLogcat(ctx context.Context, serial string, extraParams string, path string) (ports.Process, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(path), logDirMode); err != nil {
		return nil, fmt.Errorf("create logcat directory: %w", err)
	}

	out, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFileMode)
	if err != nil {
		return nil, fmt.Errorf("open logcat file: %w", err)
	}

	args := []string{"-s", serial, "logcat", "-v", "threadtime"}
	args = append(args, strings.Fields(extraParams)...)

	cmd := s.command(s.adbPath, args...)
	cmd.Stdout = out

	if err := cmd.Start(); err != nil {
		_ = out.Close()
		return nil, fmt.Errorf("start logcat for %s: %w", serial, err)
	}

	p := &process{
		cmd:   cmd,
		out:   out,
		grace: s.stopGrace,
		done:  make(chan struct{}),
	}
	go p.wait()

	return p, nil
}

type process struct {
	cmd   *exec.Cmd
	out   *os.File
	grace time.Duration

	done    chan struct{}
	waitErr error

	stopOnce sync.Once
	stopErr  error
}

func (p *process) Pid() int {
	return p.cmd.Process.Pid
}

func (p *process) wait() {
	p.waitErr = p.cmd.Wait()
	close(p.done)
}

// Stop sends SIGTERM, then SIGKILL once the grace period expires. Later calls
// return the result of the first one.
func (p *process) Stop() error {
	p.stopOnce.Do(func() {
		p.stopErr = p.stop()
	})

	return p.stopErr
}

func (p *process) stop() error {
	var errs []error

	select {
	case <-p.done:
	default:
		if err := p.cmd.Process.Signal(syscall.SIGTERM); err != nil && !errors.Is(err, os.ErrProcessDone) {
			if killErr := p.cmd.Process.Kill(); killErr != nil && !errors.Is(killErr, os.ErrProcessDone) {
				errs = append(errs, fmt.Errorf("kill logcat process %d: %w", p.Pid(), killErr))
			}
		}

		timer := time.NewTimer(p.grace)
		select {
		case <-p.done:
		case <-timer.C:
			if err := p.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
				errs = append(errs, fmt.Errorf("kill logcat process %d: %w", p.Pid(), err))
			} else {
				<-p.done
			}
		}
		timer.Stop()
	}

	if err := p.out.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close logcat file: %w", err))
	}

	return errors.Join(errs...)
}
