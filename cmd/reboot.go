package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/bnema/droidfleet/internal/application"
	"github.com/bnema/droidfleet/internal/domain"
	"github.com/spf13/cobra"
)

func newRebootCmd(a *app) *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "reboot <serial>",
		Short: "Reboot a device and wait until it is usable again",
		Long: "Reboot a device, wait for boot completion, restore root access and reopen an SL4A session. " +
			"A device in the bootloader is only rebooted.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger, err := a.logger(cmd)
			if err != nil {
				return err
			}

			fleet := a.newFleet(logger, a.logPath)
			serial := domain.Serial(args[0])
			enumerator := fleet.Enumerator()
			if !enumerator.IsAttached(ctx, serial, domain.ModeNormal) && !enumerator.IsAttached(ctx, serial, domain.ModeBootloader) {
				return fmt.Errorf("%w: %s", domain.ErrNotAttached, serial)
			}

			device, err := fleet.NewDevice(domain.DeviceConfig{Serial: serial})
			if err != nil {
				return err
			}

			if quiet {
				_, _, err = device.Reboot(ctx)
			} else {
				err = runRebootSpinner(ctx, cmd.ErrOrStderr(), device, a.now)
			}

			// The session opened after boot only confirms the device is usable.
			releaseErr := fleet.Destroy(context.WithoutCancel(ctx), []*application.Device{device})
			if failed := errors.Join(err, releaseErr); failed != nil {
				return failed
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s is back up\n", device.Serial())
			return err
		},
	}

	cmd.Flags().BoolVar(&quiet, "quiet", false, "do not draw reboot progress")

	return cmd
}
