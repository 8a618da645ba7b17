package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/bnema/droidfleet/internal/domain"
	"github.com/bnema/droidfleet/internal/logging"
	"github.com/bnema/droidfleet/internal/ports"
	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
)

// FleetDeps wires the channels and collaborators every device of a fleet is
// built with. Channel factories receive the device serial; an empty serial
// asks for a channel able to list devices.
type FleetDeps struct {
	ShellFor        func(serial domain.Serial) ports.ShellChannel
	BootloaderFor   func(serial domain.Serial) ports.BootloaderChannel
	BootstrapperFor func(shell ports.ShellChannel) ports.Bootstrapper
	Dialer          ports.SessionDialer
	Dispatchers     ports.DispatcherFactory
	Logcat          ports.LogcatStarter
	Clock           ports.Clock
	Ports           *PortAllocator
	Enumerator      *Enumerator
	LogPath         string
	Logger          *log.Logger
}

type Fleet struct {
	deps       FleetDeps
	bootWaiter *BootWaiter
	logger     *log.Logger
}

func NewFleet(deps FleetDeps) *Fleet {
	if deps.Clock == nil {
		deps.Clock = ports.SystemClock{}
	}
	if deps.Ports == nil {
		deps.Ports = NewPortAllocator()
	}
	if deps.LogPath == "" {
		deps.LogPath = DefaultLogPath
	}
	if deps.Enumerator == nil {
		var shell DeviceLister
		var bootloader DeviceLister
		if deps.ShellFor != nil {
			shell = deps.ShellFor("")
		}
		if deps.BootloaderFor != nil {
			bootloader = deps.BootloaderFor("")
		}
		deps.Enumerator = NewEnumerator(shell, bootloader, deps.Logger)
	}

	return &Fleet{
		deps:       deps,
		bootWaiter: NewBootWaiter(deps.Clock, deps.Logger),
		logger:     logging.WithComponent(deps.Logger, "fleet"),
	}
}

func (f *Fleet) Enumerator() *Enumerator {
	return f.deps.Enumerator
}

// Resolve turns a selection into validated device configs, in order.
func (f *Fleet) Resolve(ctx context.Context, selection domain.FleetSelection) ([]domain.DeviceConfig, error) {
	if selection.IsEmpty() {
		return nil, domain.ErrEmptyConfig
	}

	var configs []domain.DeviceConfig
	switch {
	case selection.All:
		for _, serial := range f.deps.Enumerator.ListAttached(ctx, domain.ModeNormal) {
			configs = append(configs, domain.DeviceConfig{Serial: serial})
		}
	case len(selection.Serials) > 0:
		for _, serial := range selection.Serials {
			configs = append(configs, domain.DeviceConfig{Serial: serial})
		}
	default:
		configs = append(configs, selection.Devices...)
	}

	seen := make(map[domain.Serial]struct{}, len(configs))
	for i, cfg := range configs {
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("device config %d: %w", i, err)
		}
		if _, dup := seen[cfg.Serial]; dup {
			return nil, fmt.Errorf("device %s: %w", cfg.Serial, domain.ErrDuplicateDevice)
		}
		seen[cfg.Serial] = struct{}{}
	}

	return configs, nil
}

// Create builds and activates the selected devices. Every configured device
// must be attached before anything is started. Devices are then started one
// by one; when one fails, it and every device started before it are torn down
// and the devices after it are never touched.
func (f *Fleet) Create(ctx context.Context, selection domain.FleetSelection) ([]*Device, error) {
	configs, err := f.Resolve(ctx, selection)
	if err != nil {
		return nil, err
	}

	attached := make(map[domain.Serial]struct{})
	for _, serial := range f.deps.Enumerator.ListAttached(ctx, domain.ModeNormal) {
		attached[serial] = struct{}{}
	}
	for _, cfg := range configs {
		if _, ok := attached[cfg.Serial]; !ok {
			return nil, fmt.Errorf("device %s is configured but not attached: %w", cfg.Serial, domain.ErrNotAttached)
		}
	}

	devices := make([]*Device, 0, len(configs))
	for _, cfg := range configs {
		device, err := f.NewDevice(cfg)
		if err != nil {
			return nil, err
		}
		devices = append(devices, device)
	}
	for _, device := range devices {
		if err := device.VerifyChannel(ctx); err != nil {
			return nil, fmt.Errorf("verify channel: %w", err)
		}
	}

	active := make([]*Device, 0, len(devices))
	for _, device := range devices {
		if err := f.activate(ctx, device); err != nil {
			f.rollback(ctx, device, active)
			return nil, err
		}
		active = append(active, device)
	}

	return devices, nil
}

// NewDevice builds a device from cfg with the fleet's collaborators.
func (f *Fleet) NewDevice(cfg domain.DeviceConfig) (*Device, error) {
	shell := f.deps.ShellFor(cfg.Serial)

	var bootloader ports.BootloaderChannel
	if f.deps.BootloaderFor != nil {
		bootloader = f.deps.BootloaderFor(cfg.Serial)
	}
	var bootstrapper ports.Bootstrapper
	if f.deps.BootstrapperFor != nil {
		bootstrapper = f.deps.BootstrapperFor(shell)
	}

	return NewDevice(cfg, DeviceDeps{
		Shell:        shell,
		Bootloader:   bootloader,
		Dialer:       f.deps.Dialer,
		Dispatchers:  f.deps.Dispatchers,
		Bootstrapper: bootstrapper,
		Logcat:       f.deps.Logcat,
		Clock:        f.deps.Clock,
		Ports:        f.deps.Ports,
		BootWaiter:   f.bootWaiter,
		LogBase:      f.deps.LogPath,
		Logger:       f.deps.Logger,
	})
}

func (f *Fleet) activate(ctx context.Context, device *Device) error {
	if err := device.StartLogcat(ctx); err != nil {
		return fmt.Errorf("failed to start logcat on %s: %w", device.Serial(), err)
	}

	if !device.Config().SkipSession {
		_, dispatcher, err := device.GetDroid(ctx, true)
		if err != nil {
			return fmt.Errorf("failed to start session on %s: %w", device.Serial(), err)
		}
		dispatcher.Start()
	}
	device.markActive()

	return nil
}

// rollback releases what the failed device holds, then destroys the devices
// activated before it.
func (f *Fleet) rollback(ctx context.Context, failed *Device, active []*Device) {
	f.logger.Error("fleet bring-up failed, rolling back", "serial", failed.Serial(), "active", len(active))

	if failed.LogcatRunning() {
		if err := failed.StopLogcat(); err != nil {
			failed.Logger().Warn("stop logcat during rollback", "err", err)
		}
	}
	if err := failed.TerminateAllSessions(ctx); err != nil {
		failed.Logger().Warn("terminate sessions during rollback", "err", err)
	}
	failed.markDestroyed()

	if err := f.Destroy(ctx, active); err != nil {
		f.logger.Warn("destroy during rollback", "err", err)
	}
}

// Destroy tears every device down. Each step runs regardless of earlier
// failures; the failures are returned joined. A destroyed device that still
// holds a collector or a port is torn down again, so a failed Destroy can be
// retried.
func (f *Fleet) Destroy(ctx context.Context, devices []*Device) error {
	var errs []error
	for _, device := range devices {
		if device.State() == domain.StateDestroyed && !device.LogcatRunning() && device.HostPort() == 0 {
			continue
		}
		if err := device.TerminateAllSessions(ctx); err != nil {
			device.Logger().Warn("terminate sessions", "err", err)
			errs = append(errs, err)
		}
		if device.LogcatRunning() {
			if err := device.StopLogcat(); err != nil {
				device.Logger().Warn("stop logcat", "err", err)
				errs = append(errs, err)
			}
		}
		device.markDestroyed()
	}

	return errors.Join(errs...)
}

// TakeBugReports collects a bug report on every device concurrently. All
// collections run to completion; the first failure is returned.
func (f *Fleet) TakeBugReports(ctx context.Context, devices []*Device, testName string, begin string) ([]string, error) {
	begin = domain.NormalizeLogTimestamp(begin)
	paths := make([]string, len(devices))

	var g errgroup.Group
	for i, device := range devices {
		i, device := i, device
		g.Go(func() error {
			path, err := device.TakeBugReport(ctx, testName, begin)
			if err != nil {
				return err
			}
			paths[i] = path
			return nil
		})
	}

	return paths, g.Wait()
}

// Statuses returns the current snapshot of every device.
func Statuses(devices []*Device) []domain.DeviceStatus {
	statuses := make([]domain.DeviceStatus, 0, len(devices))
	for _, device := range devices {
		statuses = append(statuses, device.Status())
	}

	return statuses
}
