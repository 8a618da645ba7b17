package ports

import "context"

// Process is a standing background process started by the core.
type Process interface {
	Pid() int
	Stop() error
}

type LogcatStarter interface {
	StartLogcat(ctx context.Context, serial string, extraParams string, path string) (Process, error)
}
