package adb

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"

	"github.com/bnema/droidfleet/internal/domain"
	"github.com/bnema/droidfleet/internal/ports"
)

var ErrUnavailable = errors.New("adb command unavailable")

// CommandError reports a failed adb invocation. It matches domain.ErrChannel.
type CommandError struct {
	Args   []string
	Stderr string
	Err    error
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("adb %s: %v", strings.Join(e.Args, " "), e.Err)
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

type runFunc func(ctx context.Context, stdout io.Writer, args ...string) (stderr string, err error)

type Client struct {
	serial string
	run    runFunc
}

var _ ports.ShellChannel = (*Client)(nil)

// NewClient returns a client bound to serial. An empty serial talks to the
// adb server without selecting a device.
func NewClient(path string, serial string) *Client {
	if path == "" {
		path = "adb"
	}

	return &Client{serial: serial, run: commandRunner(path)}
}

func (c *Client) Devices(ctx context.Context) (string, error) {
	return c.output(ctx, "devices")
}

func (c *Client) Shell(ctx context.Context, command string) (string, error) {
	return c.output(ctx, c.args("shell", command)...)
}

func (c *Client) Root(ctx context.Context) error {
	return c.exec(ctx, c.args("root")...)
}

func (c *Client) Remount(ctx context.Context) error {
	return c.exec(ctx, c.args("remount")...)
}

func (c *Client) WaitForDevice(ctx context.Context) error {
	return c.exec(ctx, c.args("wait-for-device")...)
}

func (c *Client) Forward(ctx context.Context, hostPort, devicePort int) error {
	return c.exec(ctx, c.args("forward", tcpSpec(hostPort), tcpSpec(devicePort))...)
}

func (c *Client) RemoveForward(ctx context.Context, hostPort int) error {
	return c.exec(ctx, c.args("forward", "--remove", tcpSpec(hostPort))...)
}

func (c *Client) Pull(ctx context.Context, remotePath, localPath string) error {
	return c.exec(ctx, c.args("pull", remotePath, localPath)...)
}

func (c *Client) BugReport(ctx context.Context, w io.Writer) error {
	args := c.args("bugreport")
	stderr, err := c.run(ctx, w, args...)
	if err != nil {
		return &CommandError{Args: args, Stderr: stderr, Err: err}
	}

	return nil
}

func (c *Client) Reboot(ctx context.Context) error {
	return c.exec(ctx, c.args("reboot")...)
}

func (c *Client) args(args ...string) []string {
	if c.serial == "" {
		return args
	}

	return append([]string{"-s", c.serial}, args...)
}

func (c *Client) output(ctx context.Context, args ...string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var stdout bytes.Buffer
	stderr, err := c.run(ctx, &stdout, args...)
	if err != nil {
		return "", &CommandError{Args: args, Stderr: stderr, Err: err}
	}

	return stdout.String(), nil
}

func (c *Client) exec(ctx context.Context, args ...string) error {
	_, err := c.output(ctx, args...)
	return err
}

func tcpSpec(port int) string {
	return "tcp:" + strconv.Itoa(port)
}

func commandRunner(path string) runFunc {
	return func(ctx context.Context, stdout io.Writer, args ...string) (string, error) {
		bin, err := exec.LookPath(path)
		if err != nil {
			if errors.Is(err, exec.ErrNotFound) {
				return "", ErrUnavailable
			}
			return "", fmt.Errorf("locate adb command: %w", err)
		}

		cmd := exec.CommandContext(ctx, bin, args...)
		var stderr bytes.Buffer
		cmd.Stdout = stdout
		cmd.Stderr = &stderr

		err = cmd.Run()
		return strings.TrimSpace(stderr.String()), err
	}
}
