package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/bnema/droidfleet/internal/adapters/httpapi"
	fleetrender "github.com/bnema/droidfleet/internal/adapters/render/fleet"
	"github.com/bnema/droidfleet/internal/application"
	"github.com/bnema/droidfleet/internal/domain"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var errListenWithoutHold = errors.New("--listen needs --hold")

// fleetRun is the status source of a held fleet.
type fleetRun struct {
	id      string
	devices []*application.Device
}

func (r *fleetRun) RunID() string {
	return r.id
}

func (r *fleetRun) Statuses() []domain.DeviceStatus {
	return application.Statuses(r.devices)
}

func newUpCmd(a *app) *cobra.Command {
	var listen string
	var logPath string
	var hold bool
	var skipSessions bool
	var excerpts bool

	cmd := &cobra.Command{
		Use:   "up",
		Short: "Bring the configured fleet up",
		Long: "Bring up every device of the fleet file: verify root access, start logcat and open an SL4A session. " +
			"The fleet is held until interrupted, then torn down.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if listen != "" && !hold {
				return errListenWithoutHold
			}

			ctx := cmd.Context()
			logger, err := a.logger(cmd)
			if err != nil {
				return err
			}

			repo, err := a.repository()
			if err != nil {
				return err
			}
			cfg, err := repo.Load(ctx)
			if err != nil {
				return fmt.Errorf("load fleet file %s: %w", repo.Path(), err)
			}

			fleet := a.newFleet(logger, pickLogPath(cmd, logPath, cfg.LogPath, a.logPath))
			run := &fleetRun{id: a.newRunID()}
			begin := a.now().Format(domain.LogLineTimestampLayout)
			logger.Info("bringing fleet up", "run", run.id, "fleet", repo.Path())

			selection := cfg.Selection
			if skipSessions {
				selection, err = withoutSessions(ctx, fleet, selection)
				if err != nil {
					return err
				}
			}

			run.devices, err = fleet.Create(ctx, selection)
			if err != nil {
				return err
			}

			rendered, err := a.renderer(fleetrender.Snapshot{RunID: run.id, Devices: run.Statuses()})
			if err != nil {
				logger.Warn("render fleet", "err", err)
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), rendered)
			}

			var holdErr error
			if hold {
				holdErr = holdFleet(ctx, run, listen, logger)
			}

			// Teardown must run even when the hold ended through cancellation.
			releaseCtx := context.WithoutCancel(ctx)
			if excerpts {
				writeExcerpts(releaseCtx, run, begin, logger)
			}
			destroyErr := fleet.Destroy(releaseCtx, run.devices)
			if destroyErr != nil {
				destroyErr = fmt.Errorf("tear fleet down: %w", destroyErr)
			}

			return errors.Join(holdErr, destroyErr)
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "serve the fleet status API on this address while holding")
	cmd.Flags().StringVar(&logPath, "log-path", "", "base directory for device logs")
	cmd.Flags().BoolVar(&hold, "hold", true, "keep the fleet up until interrupted")
	cmd.Flags().BoolVar(&skipSessions, "skip-sessions", false, "do not open SL4A sessions on any device")
	cmd.Flags().BoolVar(&excerpts, "excerpts", true, "keep the logcat lines of the run in an excerpt per device, tagged with the run id")

	return cmd
}

// holdFleet blocks until the process is interrupted, serving the status API
// meanwhile when listen is set.
func holdFleet(ctx context.Context, run *fleetRun, listen string, logger *log.Logger) error {
	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(sigCtx)
	if listen != "" {
		ln, err := net.Listen("tcp", listen)
		if err != nil {
			return fmt.Errorf("listen on %s: %w", listen, err)
		}
		logger.Info("status api listening", "addr", ln.Addr().String())

		g.Go(func() error {
			return httpapi.Serve(gctx, ln, httpapi.NewRouter(run, logger))
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("releasing fleet", "run", run.id)
		return nil
	})

	return g.Wait()
}

// writeExcerpts cuts the lines logged since begin out of every device logcat.
// A failed excerpt is logged and does not keep the fleet from being released.
func writeExcerpts(ctx context.Context, run *fleetRun, begin string, logger *log.Logger) {
	logged := application.FilterDevices(run.devices, func(device *application.Device) bool {
		return device.LogcatPath() != ""
	})
	for _, device := range logged {
		path, err := device.CatLog(ctx, run.id, begin)
		if err != nil {
			logger.Warn("write logcat excerpt", "serial", device.Serial(), "err", err)
			continue
		}
		logger.Info("logcat excerpt written", "serial", device.Serial(), "path", path)
	}
}

// withoutSessions resolves selection into explicit configs that all skip the
// SL4A session.
func withoutSessions(ctx context.Context, fleet *application.Fleet, selection domain.FleetSelection) (domain.FleetSelection, error) {
	configs, err := fleet.Resolve(ctx, selection)
	if err != nil {
		return domain.FleetSelection{}, err
	}
	for i := range configs {
		configs[i].SkipSession = true
	}

	return domain.FleetSelection{Devices: configs}, nil
}

// pickLogPath prefers the --log-path flag, then the fleet file, then the
// environment default.
func pickLogPath(cmd *cobra.Command, flagValue, fileValue, fallback string) string {
	if cmd.Flags().Changed("log-path") && flagValue != "" {
		return flagValue
	}
	if fileValue != "" {
		return fileValue
	}

	return fallback
}
