package cmd

import (
	"encoding/json"
	"errors"
	"fmt"

	fleetrender "github.com/bnema/droidfleet/internal/adapters/render/fleet"
	"github.com/bnema/droidfleet/internal/domain"
	"github.com/spf13/cobra"
)

var errNothingToSave = errors.New("no attached devices to save")

type deviceListing struct {
	Devices    []domain.Serial `json:"devices"`
	Bootloader []domain.Serial `json:"bootloader"`
}

func newDevicesCmd(a *app) *cobra.Command {
	var asJSON bool
	var plain bool
	var save bool

	cmd := &cobra.Command{
		Use:   "devices",
		Short: "List attached devices",
		Long:  "List the devices adb sees in normal mode and the devices fastboot sees in bootloader mode.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			logger, err := a.logger(cmd)
			if err != nil {
				return err
			}

			enumerator := a.newFleet(logger, a.logPath).Enumerator()
			if plain {
				for _, serial := range enumerator.ListAll(ctx, true) {
					if _, err := fmt.Fprintln(cmd.OutOrStdout(), serial); err != nil {
						return err
					}
				}
				return nil
			}

			listing := deviceListing{
				Devices:    enumerator.ListAttached(ctx, domain.ModeNormal),
				Bootloader: enumerator.ListAttached(ctx, domain.ModeBootloader),
			}

			if save {
				if err := a.saveSerials(cmd, listing.Devices); err != nil {
					return err
				}
			}

			if asJSON {
				if listing.Devices == nil {
					listing.Devices = []domain.Serial{}
				}
				if listing.Bootloader == nil {
					listing.Bootloader = []domain.Serial{}
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(listing)
			}

			statuses := make([]domain.DeviceStatus, 0, len(listing.Devices))
			for _, serial := range listing.Devices {
				statuses = append(statuses, domain.DeviceStatus{Serial: serial, State: domain.StateDiscovered})
			}
			rendered, err := a.renderer(fleetrender.Snapshot{Devices: statuses, Bootloader: listing.Bootloader})
			if err != nil {
				return fmt.Errorf("render devices: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the listing as JSON")
	cmd.Flags().BoolVar(&plain, "plain", false, "print one serial per line, bootloader devices last")
	cmd.Flags().BoolVar(&save, "save", false, "write the attached serials to the fleet file")

	cmd.MarkFlagsMutuallyExclusive("json", "plain")
	cmd.MarkFlagsMutuallyExclusive("plain", "save")

	return cmd
}

// saveSerials replaces the fleet selection with serials and keeps the rest of
// the fleet file.
func (a *app) saveSerials(cmd *cobra.Command, serials []domain.Serial) error {
	if len(serials) == 0 {
		return errNothingToSave
	}

	repo, err := a.repository()
	if err != nil {
		return err
	}

	cfg, err := repo.Load(cmd.Context())
	if err != nil && !errors.Is(err, domain.ErrEmptyConfig) {
		return fmt.Errorf("load fleet file: %w", err)
	}
	cfg.Selection = domain.FleetSelection{Serials: serials}

	if err := repo.Save(cmd.Context(), cfg); err != nil {
		return fmt.Errorf("save fleet file: %w", err)
	}

	_, err = fmt.Fprintf(cmd.ErrOrStderr(), "saved %d device(s) to %s\n", len(serials), repo.Path())
	return err
}
