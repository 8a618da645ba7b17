package sl4a

import (
	"context"
	"fmt"
	"time"

	"github.com/bnema/droidfleet/internal/ports"
)

const (
	launchServerAction = "com.googlecode.android_scripting.action.LAUNCH_SERVER"
	servicePortExtra   = "com.googlecode.android_scripting.extra.USE_SERVICE_PORT"
	launcherComponent  = "com.googlecode.android_scripting/.activity.ScriptingLayerServiceLauncher"

	DefaultSettle = 3 * time.Second
)

// Bootstrapper launches the SL4A server through the device shell.
type Bootstrapper struct {
	shell  ports.ShellChannel
	clock  ports.Clock
	settle time.Duration
}

var _ ports.Bootstrapper = (*Bootstrapper)(nil)

func NewBootstrapper(shell ports.ShellChannel, clock ports.Clock, settle time.Duration) *Bootstrapper {
	if clock == nil {
		clock = ports.SystemClock{}
	}

	return &Bootstrapper{shell: shell, clock: clock, settle: settle}
}

func (b *Bootstrapper) StartServer(ctx context.Context, devicePort int) error {
	command := fmt.Sprintf("am start -a %s --ei %s %d %s", launchServerAction, servicePortExtra, devicePort, launcherComponent)
	if _, err := b.shell.Shell(ctx, command); err != nil {
		return fmt.Errorf("launch sl4a server: %w", err)
	}
	if b.settle <= 0 {
		return nil
	}

	return b.clock.Sleep(ctx, b.settle)
}
