package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bnema/droidfleet/internal/domain"
	"github.com/bnema/droidfleet/internal/logging"
	"github.com/bnema/droidfleet/internal/ports"
	"github.com/charmbracelet/log"
)

const (
	DefaultBootPollInterval = 5 * time.Second
	DefaultBootPollCeiling  = 15 * time.Minute

	bootCompletedProp = "getprop sys.boot_completed"
)

// BootWaiter blocks until the Android framework reports boot completion.
type BootWaiter struct {
	clock        ports.Clock
	PollInterval time.Duration
	PollCeiling  time.Duration
	logger       *log.Logger
}

func NewBootWaiter(clock ports.Clock, logger *log.Logger) *BootWaiter {
	if clock == nil {
		clock = ports.SystemClock{}
	}

	return &BootWaiter{
		clock:        clock,
		PollInterval: DefaultBootPollInterval,
		PollCeiling:  DefaultBootPollCeiling,
		logger:       logging.WithComponent(logger, "boot"),
	}
}

// Wait waits for the device to show up on the shell channel, then polls the
// boot_completed property. Channel failures while the device boots are
// expected and ignored.
func (w *BootWaiter) Wait(ctx context.Context, serial domain.Serial, shell ports.ShellChannel) error {
	deadline := w.clock.Now().Add(w.PollCeiling)

	if err := shell.WaitForDevice(ctx); err != nil {
		return domain.NewDeviceError(serial, "wait for device", err)
	}

	for w.clock.Now().Before(deadline) {
		out, err := shell.Shell(ctx, bootCompletedProp)
		switch {
		case err == nil:
			if strings.TrimSpace(out) == "1" {
				return nil
			}
		case errors.Is(err, domain.ErrChannel):
			w.logger.Debug("boot poll failed", "serial", serial, "err", err)
		default:
			return domain.NewDeviceError(serial, "poll boot completion", err)
		}

		if err := w.clock.Sleep(ctx, w.PollInterval); err != nil {
			return err
		}
	}

	return domain.NewDeviceError(serial, "wait for boot", fmt.Errorf("%w after %s", domain.ErrBootTimeout, w.PollCeiling))
}
