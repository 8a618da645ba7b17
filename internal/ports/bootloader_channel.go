package ports

import "context"

type BootloaderChannel interface {
	Devices(ctx context.Context) (string, error)
	GetVar(ctx context.Context, name string) (string, error)
	Reboot(ctx context.Context) error
}
