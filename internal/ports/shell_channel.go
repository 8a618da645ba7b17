package ports

import (
	"context"
	"io"
)

// ShellChannel is the package deployment and shell bridge to one device.
// Failed commands return errors matching domain.ErrChannel.
type ShellChannel interface {
	Devices(ctx context.Context) (string, error)
	Shell(ctx context.Context, command string) (string, error)
	Root(ctx context.Context) error
	Remount(ctx context.Context) error
	WaitForDevice(ctx context.Context) error
	Forward(ctx context.Context, hostPort, devicePort int) error
	RemoveForward(ctx context.Context, hostPort int) error
	Pull(ctx context.Context, remotePath, localPath string) error
	BugReport(ctx context.Context, w io.Writer) error
	Reboot(ctx context.Context) error
}
