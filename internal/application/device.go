package application

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/bnema/droidfleet/internal/domain"
	"github.com/bnema/droidfleet/internal/logging"
	"github.com/bnema/droidfleet/internal/ports"
	"github.com/charmbracelet/log"
)

const (
	DefaultLogPath = "/tmp/logs"

	excerptDirName   = "AdbLogExcerpts"
	bugReportDirName = "BugReports"
)

type DeviceDeps struct {
	Shell        ports.ShellChannel
	Bootloader   ports.BootloaderChannel
	Dialer       ports.SessionDialer
	Dispatchers  ports.DispatcherFactory
	Bootstrapper ports.Bootstrapper
	Logcat       ports.LogcatStarter
	Clock        ports.Clock
	Ports        *PortAllocator
	BootWaiter   *BootWaiter
	LogBase      string
	Logger       *log.Logger
}

// Device is one attached Android device and the resources held on it: a
// forwarded host port, a logcat collector and remote execution sessions.
// Its methods are meant to be driven from a single goroutine; Status may be
// read from anywhere.
type Device struct {
	config  domain.DeviceConfig
	logPath string

	shell        ports.ShellChannel
	bootloader   ports.BootloaderChannel
	bootstrapper ports.Bootstrapper
	logcat       ports.LogcatStarter
	clock        ports.Clock
	ports        *PortAllocator
	bootWaiter   *BootWaiter
	sessions     *SessionRegistry
	logger       *log.Logger

	hostPort   int
	forwarded  bool
	logcatProc ports.Process
	logcatPath string
	state      domain.DeviceState

	status atomic.Pointer[domain.DeviceStatus]
}

func NewDevice(cfg domain.DeviceConfig, deps DeviceDeps) (*Device, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.WithDefaults()

	if deps.Clock == nil {
		deps.Clock = ports.SystemClock{}
	}
	if deps.Ports == nil {
		deps.Ports = NewPortAllocator()
	}
	if deps.BootWaiter == nil {
		deps.BootWaiter = NewBootWaiter(deps.Clock, deps.Logger)
	}
	if deps.LogBase == "" {
		deps.LogBase = DefaultLogPath
	}

	logger := logging.ForDevice(deps.Logger, cfg.Serial)
	d := &Device{
		config:       cfg,
		logPath:      filepath.Join(deps.LogBase, "AndroidDevice"+string(cfg.Serial)),
		shell:        deps.Shell,
		bootloader:   deps.Bootloader,
		bootstrapper: deps.Bootstrapper,
		logcat:       deps.Logcat,
		clock:        deps.Clock,
		ports:        deps.Ports,
		bootWaiter:   deps.BootWaiter,
		sessions:     NewSessionRegistry(cfg.Serial, deps.Dialer, deps.Dispatchers, logger),
		logger:       logger,
		hostPort:     cfg.HostPort,
		state:        domain.StateDiscovered,
	}
	d.publish()

	return d, nil
}

func (d *Device) Serial() domain.Serial {
	return d.config.Serial
}

func (d *Device) Config() domain.DeviceConfig {
	return d.config
}

// LogPath is the directory holding every artifact collected on the device.
func (d *Device) LogPath() string {
	return d.logPath
}

func (d *Device) LogcatPath() string {
	return d.logcatPath
}

func (d *Device) HostPort() int {
	return d.hostPort
}

func (d *Device) State() domain.DeviceState {
	return d.state
}

func (d *Device) Logger() *log.Logger {
	return d.logger
}

// Status returns the last published snapshot.
func (d *Device) Status() domain.DeviceStatus {
	return *d.status.Load()
}

func (d *Device) LogcatRunning() bool {
	return d.logcatProc != nil
}

// PrimarySession returns the primary connection of the oldest live session.
func (d *Device) PrimarySession() (ports.Connection, bool) {
	return d.sessions.PrimarySession()
}

func (d *Device) PrimaryDispatcher() (ports.EventDispatcher, bool) {
	return d.sessions.PrimaryDispatcher()
}

func (d *Device) setState(state domain.DeviceState) {
	if d.state != state {
		d.logger.Debug("state changed", "from", d.state, "to", state)
	}
	d.state = state
	d.publish()
}

// advance moves the device forward from one of the given states only, so
// restarting a resource on an active device keeps it active.
func (d *Device) advance(to domain.DeviceState, from ...domain.DeviceState) {
	for _, state := range from {
		if d.state == state {
			d.setState(to)
			return
		}
	}
	d.publish()
}

func (d *Device) publish() {
	status := &domain.DeviceStatus{
		Serial:     d.config.Serial,
		Label:      d.config.Label,
		State:      d.state,
		HostPort:   d.hostPort,
		DevicePort: d.config.DevicePort,
		Logcat:     d.logcatProc != nil,
		LogcatPath: d.logcatPath,
		Sessions:   d.sessions.SessionIDs(),
	}
	for _, id := range status.Sessions {
		status.Connections += len(d.sessions.Connections(id))
	}
	if primary, ok := d.PrimarySession(); ok {
		status.PrimarySession = primary.SessionID()
	}
	_, status.Events = d.PrimaryDispatcher()

	d.status.Store(status)
}

// IsBootloader reports whether the device is listed by the bootloader channel.
func (d *Device) IsBootloader(ctx context.Context) bool {
	if d.bootloader == nil {
		return false
	}

	out, err := d.bootloader.Devices(ctx)
	if err != nil {
		d.logger.Debug("bootloader listing failed", "err", err)
		return false
	}
	for _, serial := range ParseDeviceList(out, domain.ModeBootloader.Marker()) {
		if serial == d.config.Serial {
			return true
		}
	}

	return false
}

// IsRoot reports whether the shell channel runs as root on the device.
func (d *Device) IsRoot(ctx context.Context) (bool, error) {
	out, err := d.shell.Shell(ctx, "id -u")
	if err != nil {
		return false, domain.NewDeviceError(d.config.Serial, "check root", err)
	}

	out = strings.TrimSpace(out)
	return out == "0" || strings.Contains(out, "root"), nil
}

// RootAdb restarts the shell channel as root and remounts the system
// partitions when it is not root yet.
func (d *Device) RootAdb(ctx context.Context) error {
	root, err := d.IsRoot(ctx)
	if err != nil {
		return err
	}
	if root {
		return nil
	}

	steps := []struct {
		op  string
		run func(context.Context) error
	}{
		{"root", d.shell.Root},
		{"wait for device", d.shell.WaitForDevice},
		{"remount", d.shell.Remount},
		{"wait for device", d.shell.WaitForDevice},
	}
	for _, step := range steps {
		if err := step.run(ctx); err != nil {
			return domain.NewDeviceError(d.config.Serial, step.op, err)
		}
	}

	return nil
}

// VerifyChannel checks the device answers on its channels and switches the
// shell channel to root unless the device sits in the bootloader.
func (d *Device) VerifyChannel(ctx context.Context) error {
	if !d.IsBootloader(ctx) {
		if err := d.RootAdb(ctx); err != nil {
			return err
		}
	}
	d.setState(domain.StateChannelVerified)

	return nil
}

// Model returns the lowercase product code name of the device.
func (d *Device) Model(ctx context.Context) (string, error) {
	if d.IsBootloader(ctx) {
		out, err := d.bootloader.GetVar(ctx, "product")
		if err != nil {
			return "", domain.NewDeviceError(d.config.Serial, "read model", err)
		}
		first, _, _ := strings.Cut(strings.TrimSpace(out), "\n")
		tokens := strings.Split(first, " ")
		if len(tokens) < 2 {
			return "", nil
		}
		return strings.ToLower(strings.TrimSpace(tokens[1])), nil
	}

	model, err := d.getprop(ctx, "ro.build.product")
	if err != nil {
		return "", err
	}
	if model == "sprout" {
		return model, nil
	}

	return d.getprop(ctx, "ro.product.name")
}

func (d *Device) getprop(ctx context.Context, name string) (string, error) {
	out, err := d.shell.Shell(ctx, "getprop "+name)
	if err != nil {
		return "", domain.NewDeviceError(d.config.Serial, "read "+name, err)
	}

	return strings.ToLower(strings.TrimSpace(out)), nil
}

// StartLogcat starts the standing logcat collector writing to
// <log_path>/adblog,<model>,<serial>.txt.
func (d *Device) StartLogcat(ctx context.Context) error {
	if d.logcatProc != nil {
		return domain.NewDeviceError(d.config.Serial, "start logcat", domain.ErrLogcatRunning)
	}

	// Lifts the log spam filter; older builds lack the command.
	if _, err := d.shell.Shell(ctx, "logpersist.start"); err != nil {
		d.logger.Warn("logpersist.start failed", "err", err)
	}

	model, err := d.Model(ctx)
	if err != nil {
		return err
	}

	path := filepath.Join(d.logPath, fmt.Sprintf("adblog,%s,%s.txt", model, d.config.Serial))
	proc, err := d.logcat.StartLogcat(ctx, string(d.config.Serial), d.config.LogcatParam, path)
	if err != nil {
		return domain.NewDeviceError(d.config.Serial, "start logcat", err)
	}

	d.logcatProc = proc
	d.logcatPath = path
	d.logger.Debug("logcat started", "pid", proc.Pid(), "path", path)
	d.advance(domain.StateLogStarted, domain.StateDiscovered, domain.StateChannelVerified)

	return nil
}

// StopLogcat stops the collector. The log file path is kept for excerpts.
func (d *Device) StopLogcat() error {
	if d.logcatProc == nil {
		return domain.NewDeviceError(d.config.Serial, "stop logcat", domain.ErrLogcatNotRunning)
	}

	// The handle is kept until the process is known to be gone.
	if err := d.logcatProc.Stop(); err != nil {
		return domain.NewDeviceError(d.config.Serial, "stop logcat", err)
	}
	d.logcatProc = nil
	d.publish()

	return nil
}

// GetDroid forwards a host port to the session server and opens a new
// session. When the server does not answer it is started once and the open is
// retried. With handleEvents the session's event dispatcher is returned too.
func (d *Device) GetDroid(ctx context.Context, handleEvents bool) (ports.Connection, ports.EventDispatcher, error) {
	if err := d.ensureForward(ctx); err != nil {
		return nil, nil, err
	}

	conn, err := d.sessions.OpenSession(ctx, d.hostPort)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateSession) {
			return nil, nil, domain.NewDeviceError(d.config.Serial, "open session", err)
		}

		d.logger.Debug("session server not answering, starting it", "err", err)
		if startErr := d.bootstrapper.StartServer(ctx, d.config.DevicePort); startErr != nil {
			return nil, nil, domain.NewDeviceError(d.config.Serial, "start session server", errors.Join(err, startErr))
		}

		conn, err = d.sessions.OpenSession(ctx, d.hostPort)
		if err != nil {
			return nil, nil, domain.NewDeviceError(d.config.Serial, "open session", err)
		}
	}
	d.advance(domain.StateSessionEstablished, domain.StateLogStarted)

	if !handleEvents {
		return conn, nil, nil
	}

	dispatcher, err := d.sessions.Dispatcher(ctx, d.hostPort, conn)
	if err != nil {
		// A session without its dispatcher is of no use to the caller.
		if termErr := d.TerminateSession(ctx, conn.SessionID()); termErr != nil {
			d.logger.Warn("terminate session left without dispatcher", "session", conn.SessionID(), "err", termErr)
		}
		return nil, nil, domain.NewDeviceError(d.config.Serial, "get dispatcher", err)
	}
	d.publish()

	return conn, dispatcher, nil
}

// ensureForward keeps the current forward, or binds a new host port when the
// device has none or the configured one is taken, either by another process
// or by another device of this fleet.
func (d *Device) ensureForward(ctx context.Context) error {
	if d.forwarded {
		return nil
	}

	if d.hostPort == 0 || d.ports.Reserved(d.hostPort) || !d.ports.Available(d.hostPort) {
		port, err := d.ports.Allocate()
		if err != nil {
			return domain.NewDeviceError(d.config.Serial, "allocate host port", err)
		}
		d.hostPort = port
	} else {
		d.ports.Reserve(d.hostPort)
	}

	if err := d.shell.Forward(ctx, d.hostPort, d.config.DevicePort); err != nil {
		d.ports.Release(d.hostPort)
		d.hostPort = 0
		d.publish()
		return domain.NewDeviceError(d.config.Serial, "forward port", err)
	}
	d.forwarded = true
	d.publish()

	return nil
}

func (d *Device) TerminateSession(ctx context.Context, sessionID int) error {
	err := d.sessions.TerminateSession(ctx, sessionID)
	d.publish()

	return domain.NewDeviceError(d.config.Serial, "terminate session", err)
}

// TerminateAllSessions ends every session, then removes the port forward.
// Failures are collected; none of them stops the remaining steps.
func (d *Device) TerminateAllSessions(ctx context.Context) error {
	var errs []error
	if err := d.sessions.TerminateAll(ctx); err != nil {
		errs = append(errs, err)
	}

	if err := d.releasePort(ctx); err != nil {
		d.logger.Warn("failed to remove port forward", "err", err)
		errs = append(errs, err)
	}
	d.publish()

	return domain.NewDeviceError(d.config.Serial, "terminate all sessions", errors.Join(errs...))
}

func (d *Device) releasePort(ctx context.Context) error {
	if d.hostPort == 0 {
		return nil
	}

	port := d.hostPort
	d.hostPort = 0
	d.ports.Release(port)
	if !d.forwarded {
		return nil
	}
	d.forwarded = false

	if err := d.shell.RemoveForward(ctx, port); err != nil {
		return fmt.Errorf("remove forward tcp:%d: %w", port, err)
	}

	return nil
}

// WaitForBootCompletion blocks until the device finished booting.
func (d *Device) WaitForBootCompletion(ctx context.Context) error {
	return d.bootWaiter.Wait(ctx, d.config.Serial, d.shell)
}

// RebootPhase names the step a reboot is in.
type RebootPhase int

const (
	RebootRestarting RebootPhase = iota
	RebootWaitingForBoot
	RebootRestoringRoot
	RebootReopeningSession
	RebootRestartingLogcat
)

func (p RebootPhase) String() string {
	switch p {
	case RebootRestarting:
		return "restarting"
	case RebootWaitingForBoot:
		return "waiting for boot"
	case RebootRestoringRoot:
		return "restoring root"
	case RebootReopeningSession:
		return "reopening session"
	case RebootRestartingLogcat:
		return "restarting logcat"
	default:
		return "unknown"
	}
}

// Reboot restarts the device and restores its session and logcat collector.
// A device in the bootloader is only rebooted; no session is returned.
func (d *Device) Reboot(ctx context.Context) (ports.Connection, ports.EventDispatcher, error) {
	return d.RebootWithProgress(ctx, nil)
}

// RebootWithProgress is Reboot reporting each phase to progress, which may be
// nil. A collector that refuses to stop is reported but does not block the
// reboot; it is not restarted afterwards.
func (d *Device) RebootWithProgress(ctx context.Context, progress func(RebootPhase)) (ports.Connection, ports.EventDispatcher, error) {
	report := func(phase RebootPhase) {
		d.logger.Debug("reboot", "phase", phase.String())
		if progress != nil {
			progress(phase)
		}
	}

	report(RebootRestarting)
	if d.IsBootloader(ctx) {
		if err := d.bootloader.Reboot(ctx); err != nil {
			return nil, nil, domain.NewDeviceError(d.config.Serial, "reboot bootloader", err)
		}
		return nil, nil, nil
	}

	var stopErr error
	hadLogcat := d.LogcatRunning()
	if hadLogcat {
		if stopErr = d.StopLogcat(); stopErr != nil {
			d.logger.Warn("logcat did not stop before reboot", "err", stopErr)
		}
	}
	if err := d.TerminateAllSessions(ctx); err != nil {
		d.logger.Warn("sessions not cleanly terminated before reboot", "err", err)
	}

	if err := d.shell.Reboot(ctx); err != nil {
		return nil, nil, errors.Join(stopErr, domain.NewDeviceError(d.config.Serial, "reboot", err))
	}
	report(RebootWaitingForBoot)
	if err := d.WaitForBootCompletion(ctx); err != nil {
		return nil, nil, errors.Join(stopErr, err)
	}
	report(RebootRestoringRoot)
	if err := d.RootAdb(ctx); err != nil {
		return nil, nil, errors.Join(stopErr, err)
	}

	report(RebootReopeningSession)
	conn, dispatcher, err := d.GetDroid(ctx, true)
	if err != nil {
		return nil, nil, errors.Join(stopErr, err)
	}
	dispatcher.Start()

	if hadLogcat && !d.LogcatRunning() {
		report(RebootRestartingLogcat)
		if err := d.StartLogcat(ctx); err != nil {
			return conn, dispatcher, err
		}
	}

	return conn, dispatcher, stopErr
}

// CatLog writes the logcat lines stamped between begin and now into
// <log_path>/AdbLogExcerpts and returns the excerpt path.
func (d *Device) CatLog(ctx context.Context, tag string, begin string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if d.logcatPath == "" {
		return "", domain.NewDeviceError(d.config.Serial, "cat log", domain.ErrNoLogcat)
	}

	d.logger.Debug("extracting logcat excerpt", "tag", tag, "begin", begin)
	path, err := ExtractExcerpt(ExcerptRequest{
		Source: d.logcatPath,
		OutDir: filepath.Join(d.logPath, excerptDirName),
		Tag:    tag,
		Begin:  begin,
		End:    domain.LogTimeOf(d.clock.Now()),
	})
	if err != nil {
		return "", domain.NewDeviceError(d.config.Serial, "cat log", err)
	}

	return path, nil
}

// TakeBugReport stores a bug report under <log_path>/BugReports, zipped when
// the device supports bugreportz.
func (d *Device) TakeBugReport(ctx context.Context, testName string, begin string) (string, error) {
	zipped := true
	if _, err := d.shell.Shell(ctx, "bugreportz -v"); err != nil {
		zipped = false
	}

	dir := filepath.Join(d.logPath, bugReportDirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create bug report directory: %w", err)
	}

	ext := ".txt"
	if zipped {
		ext = ".zip"
	}
	suffix := fmt.Sprintf(",%s,%s%s", domain.NormalizeLogTimestamp(begin), d.config.Serial, ext)
	path := filepath.Join(dir, truncate(testName, MaxFilenameLen-len(suffix))+suffix)

	if err := d.WaitForBootCompletion(ctx); err != nil {
		return "", err
	}

	d.logger.Info("taking bug report", "test", testName)
	if zipped {
		if err := d.pullZippedBugReport(ctx, path); err != nil {
			return "", err
		}
	} else if err := d.streamBugReport(ctx, path); err != nil {
		return "", err
	}
	d.logger.Info("bug report taken", "test", testName, "path", path)

	return path, nil
}

func (d *Device) pullZippedBugReport(ctx context.Context, path string) error {
	out, err := d.shell.Shell(ctx, "bugreportz")
	if err != nil {
		return domain.NewDeviceError(d.config.Serial, "bugreportz", err)
	}
	if !strings.HasPrefix(out, "OK") {
		return domain.NewDeviceError(d.config.Serial, "bugreportz", fmt.Errorf("%w: %s", domain.ErrBugReport, strings.TrimSpace(out)))
	}

	_, remote, found := strings.Cut(out, ":")
	remote = strings.TrimSpace(remote)
	if !found || remote == "" {
		return domain.NewDeviceError(d.config.Serial, "bugreportz", fmt.Errorf("%w: no report path in %q", domain.ErrBugReport, out))
	}

	if err := d.shell.Pull(ctx, remote, path); err != nil {
		return domain.NewDeviceError(d.config.Serial, "pull bug report", err)
	}

	return nil
}

func (d *Device) streamBugReport(ctx context.Context, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create bug report file: %w", err)
	}

	reportErr := d.shell.BugReport(ctx, f)
	if err := f.Close(); err != nil && reportErr == nil {
		reportErr = fmt.Errorf("close bug report file: %w", err)
	}
	if reportErr != nil {
		return domain.NewDeviceError(d.config.Serial, "bugreport", reportErr)
	}

	return nil
}

// RunIperfClient runs an iperf3 client against host. ok is false when iperf
// reports an error on its first output line.
func (d *Device) RunIperfClient(ctx context.Context, host string, extraArgs string) (bool, []string, error) {
	return d.runIperf(ctx, strings.TrimSpace("iperf3 -c "+host+" "+extraArgs))
}

func (d *Device) RunIperfServer(ctx context.Context, extraArgs string) (bool, []string, error) {
	return d.runIperf(ctx, strings.TrimSpace("iperf3 -s "+extraArgs))
}

func (d *Device) runIperf(ctx context.Context, command string) (bool, []string, error) {
	out, err := d.shell.Shell(ctx, command)
	if err != nil {
		return false, nil, domain.NewDeviceError(d.config.Serial, "run iperf", err)
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if strings.Contains(strings.ToLower(lines[0]), "error") {
		return false, lines, nil
	}

	return true, lines, nil
}

func (d *Device) markActive() {
	d.setState(domain.StateActive)
}

func (d *Device) markDestroyed() {
	d.setState(domain.StateDestroyed)
}
