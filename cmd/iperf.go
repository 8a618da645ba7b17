package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bnema/droidfleet/internal/domain"
	"github.com/spf13/cobra"
)

var (
	errIperfMode   = errors.New("exactly one of --server or --client is required")
	errIperfFailed = errors.New("iperf reported an error")
)

func newIperfCmd(a *app) *cobra.Command {
	var server bool
	var client string
	var extraArgs string

	cmd := &cobra.Command{
		Use:   "iperf <serial>",
		Short: "Run iperf3 on a device",
		Long:  "Run an iperf3 server, or a client against --client, on the device and print its output.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if server == (client != "") {
				return errIperfMode
			}

			ctx := cmd.Context()
			logger, err := a.logger(cmd)
			if err != nil {
				return err
			}

			fleet := a.newFleet(logger, a.logPath)
			serial := domain.Serial(args[0])
			if !fleet.Enumerator().IsAttached(ctx, serial, domain.ModeNormal) {
				return fmt.Errorf("%w: %s", domain.ErrNotAttached, serial)
			}
			device, err := fleet.NewDevice(domain.DeviceConfig{Serial: serial})
			if err != nil {
				return err
			}

			var ok bool
			var lines []string
			if server {
				ok, lines, err = device.RunIperfServer(ctx, extraArgs)
			} else {
				ok, lines, err = device.RunIperfClient(ctx, client, extraArgs)
			}
			if err != nil {
				return err
			}

			if _, err := fmt.Fprintln(cmd.OutOrStdout(), strings.Join(lines, "\n")); err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("%w on %s: %s", errIperfFailed, serial, lines[0])
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&server, "server", false, "run an iperf3 server")
	cmd.Flags().StringVar(&client, "client", "", "run an iperf3 client against this host")
	cmd.Flags().StringVar(&extraArgs, "args", "", "extra iperf3 arguments")

	return cmd
}
