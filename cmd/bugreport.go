package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/bnema/droidfleet/internal/application"
	"github.com/bnema/droidfleet/internal/domain"
	"github.com/spf13/cobra"
)

var (
	errNoDevices        = errors.New("no attached devices")
	errMatchWithSerials = errors.New("--match cannot be combined with serial arguments")
)

func newBugReportCmd(a *app) *cobra.Command {
	var testName string
	var begin string
	var logPath string
	var match map[string]string

	cmd := &cobra.Command{
		Use:   "bugreport [serial...]",
		Short: "Collect a bug report from devices",
		Long: "Collect a bug report from each named device, or from every attached device when none is named. " +
			"With --match, the report is taken from the one fleet file device whose attributes match. " +
			"Reports are stored under <log-path>/AndroidDevice<serial>/BugReports.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger, err := a.logger(cmd)
			if err != nil {
				return err
			}

			fleet := a.newFleet(logger, pickLogPath(cmd, logPath, "", a.logPath))

			var devices []*application.Device
			if len(match) > 0 {
				if len(args) > 0 {
					return errMatchWithSerials
				}
				device, err := a.matchDevice(ctx, fleet, match)
				if err != nil {
					return err
				}
				devices = append(devices, device)
			} else {
				devices, err = attachedDevices(ctx, fleet, args)
				if err != nil {
					return err
				}
			}

			paths, err := fleet.TakeBugReports(ctx, devices, testName, begin)
			for _, path := range paths {
				if path != "" {
					fmt.Fprintln(cmd.OutOrStdout(), path)
				}
			}

			return err
		},
	}

	cmd.Flags().StringVar(&testName, "test", "", "test name the reports are filed under")
	cmd.Flags().StringVar(&begin, "begin", "", "timestamp the test began at")
	cmd.Flags().StringVar(&logPath, "log-path", "", "base directory for device logs")
	cmd.Flags().StringToStringVar(&match, "match", nil, "pick the fleet file device with these attributes (key=value)")
	_ = cmd.MarkFlagRequired("test")
	_ = cmd.MarkFlagRequired("begin")

	return cmd
}

// attachedDevices builds a device per serial, or per attached device when no
// serial is given.
func attachedDevices(ctx context.Context, fleet *application.Fleet, args []string) ([]*application.Device, error) {
	serials := make([]domain.Serial, 0, len(args))
	for _, arg := range args {
		serials = append(serials, domain.Serial(arg))
	}
	if len(serials) == 0 {
		serials = fleet.Enumerator().ListAttached(ctx, domain.ModeNormal)
	}
	if len(serials) == 0 {
		return nil, errNoDevices
	}

	devices := make([]*application.Device, 0, len(serials))
	for _, serial := range serials {
		device, err := fleet.NewDevice(domain.DeviceConfig{Serial: serial})
		if err != nil {
			return nil, err
		}
		devices = append(devices, device)
	}

	return devices, nil
}

// matchDevice returns the only device of the fleet file whose attributes
// equal every entry of attrs.
func (a *app) matchDevice(ctx context.Context, fleet *application.Fleet, attrs map[string]string) (*application.Device, error) {
	repo, err := a.repository()
	if err != nil {
		return nil, err
	}
	cfg, err := repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load fleet file %s: %w", repo.Path(), err)
	}

	configs, err := fleet.Resolve(ctx, cfg.Selection)
	if err != nil {
		return nil, err
	}

	devices := make([]*application.Device, 0, len(configs))
	for _, config := range configs {
		device, err := fleet.NewDevice(config)
		if err != nil {
			return nil, err
		}
		devices = append(devices, device)
	}

	return application.FindDevice(devices, attrs)
}
