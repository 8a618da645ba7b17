package fastboot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/bnema/droidfleet/internal/domain"
	"github.com/bnema/droidfleet/internal/ports"
)

var ErrUnavailable = errors.New("fastboot command unavailable")

type CommandError struct {
	Args   []string
	Stderr string
	Err    error
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("fastboot %s: %v", strings.Join(e.Args, " "), e.Err)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}

	return msg
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

func (e *CommandError) Is(target error) bool {
	return target == domain.ErrChannel
}

type runFunc func(ctx context.Context, args ...string) (stdout string, stderr string, err error)

type Client struct {
	serial string
	run    runFunc
}

var _ ports.BootloaderChannel = (*Client)(nil)

func NewClient(path string, serial string) *Client {
	if path == "" {
		path = "fastboot"
	}

	return &Client{serial: serial, run: commandRunner(path)}
}

func (c *Client) Devices(ctx context.Context) (string, error) {
	stdout, _, err := c.call(ctx, "devices")
	return stdout, err
}

// GetVar returns the variable as fastboot prints it. fastboot writes
// variables to stderr, so stderr is returned when stdout is empty.
func (c *Client) GetVar(ctx context.Context, name string) (string, error) {
	stdout, stderr, err := c.call(ctx, c.args("getvar", name)...)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(stdout) == "" {
		return stderr, nil
	}

	return stdout, nil
}

func (c *Client) Reboot(ctx context.Context) error {
	_, _, err := c.call(ctx, c.args("reboot")...)
	return err
}

func (c *Client) args(args ...string) []string {
	if c.serial == "" {
		return args
	}

	return append([]string{"-s", c.serial}, args...)
}

func (c *Client) call(ctx context.Context, args ...string) (string, string, error) {
	if err := ctx.Err(); err != nil {
		return "", "", err
	}

	stdout, stderr, err := c.run(ctx, args...)
	if err != nil {
		return "", "", &CommandError{Args: args, Stderr: stderr, Err: err}
	}

	return stdout, stderr, nil
}

func commandRunner(path string) runFunc {
	return func(ctx context.Context, args ...string) (string, string, error) {
		bin, err := exec.LookPath(path)
		if err != nil {
			if errors.Is(err, exec.ErrNotFound) {
				return "", "", ErrUnavailable
			}
			return "", "", fmt.Errorf("locate fastboot command: %w", err)
		}

		cmd := exec.CommandContext(ctx, bin, args...)
		var stdout bytes.Buffer
		var stderr bytes.Buffer
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr

		err = cmd.Run()
		return stdout.String(), strings.TrimSpace(stderr.String()), err
	}
}
