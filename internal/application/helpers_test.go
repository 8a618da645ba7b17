package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/bnema/droidfleet/internal/domain"
	"github.com/bnema/droidfleet/internal/ports"
	"github.com/bnema/droidfleet/internal/ports/mocks"
	"github.com/stretchr/testify/mock"
)

func mockAnyContext() interface{} {
	return mock.Anything
}

type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	sleeps []time.Duration
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, time.October, 19, 14, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.sleeps = append(c.sleeps, d)
	c.now = c.now.Add(d)

	return nil
}

type fakeConn struct {
	id           int
	cmd          ports.SessionCommand
	terminateErr error
	closeErr     error

	mu         sync.Mutex
	terminated int
	closed     int
	events     *[]string
}

func (c *fakeConn) SessionID() int {
	return c.id
}

func (c *fakeConn) Call(_ context.Context, _ string, _ ...any) (json.RawMessage, error) {
	return json.RawMessage(`null`), nil
}

func (c *fakeConn) Terminate(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.terminated++
	c.record(fmt.Sprintf("terminate %d", c.id))
	return c.terminateErr
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed++
	c.record(fmt.Sprintf("close %d %s", c.id, c.cmd))
	return c.closeErr
}

func (c *fakeConn) record(event string) {
	if c.events != nil {
		*c.events = append(*c.events, event)
	}
}

type dialRecord struct {
	port int
	cmd  ports.SessionCommand
	id   int
}

// fakeDialer hands out the queued session ids to initiate dials. failures
// initiate dials fail first.
type fakeDialer struct {
	mu       sync.Mutex
	ids      []int
	failures int
	dialErr  error
	// continueErr fails every continue dial.
	continueErr error
	dials    []dialRecord
	conns    []*fakeConn
	events   []string

	terminateErr map[int]error
}

func newFakeDialer(ids ...int) *fakeDialer {
	return &fakeDialer{ids: ids, dialErr: errors.New("connection refused")}
}

func (d *fakeDialer) Dial(_ context.Context, hostPort int, cmd ports.SessionCommand, sessionID int) (ports.Connection, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.dials = append(d.dials, dialRecord{port: hostPort, cmd: cmd, id: sessionID})
	id := sessionID
	if cmd == ports.SessionContinue && d.continueErr != nil {
		return nil, d.continueErr
	}
	if cmd == ports.SessionInitiate {
		if d.failures > 0 {
			d.failures--
			return nil, d.dialErr
		}
		if len(d.ids) == 0 {
			return nil, d.dialErr
		}
		id = d.ids[0]
		d.ids = d.ids[1:]
	}

	conn := &fakeConn{id: id, cmd: cmd, events: &d.events, terminateErr: d.terminateErr[id]}
	d.conns = append(d.conns, conn)

	return conn, nil
}

func (d *fakeDialer) initiated() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	count := 0
	for _, dial := range d.dials {
		if dial.cmd == ports.SessionInitiate {
			count++
		}
	}

	return count
}

type fakeDispatcher struct {
	conn     ports.Connection
	started  int
	cleanups int
	events   *[]string
}

func (d *fakeDispatcher) Start() {
	d.started++
}

func (d *fakeDispatcher) PopEvent(context.Context, string, time.Duration) (ports.Event, error) {
	return ports.Event{}, errors.New("no events")
}

func (d *fakeDispatcher) CleanUp() {
	d.cleanups++
	if d.events != nil {
		*d.events = append(*d.events, fmt.Sprintf("cleanup %d", d.conn.SessionID()))
	}
}

type dispatcherRecorder struct {
	created []*fakeDispatcher
	events  *[]string
}

func (r *dispatcherRecorder) factory(conn ports.Connection) ports.EventDispatcher {
	dispatcher := &fakeDispatcher{conn: conn, events: r.events}
	r.created = append(r.created, dispatcher)

	return dispatcher
}

type fakeProcess struct {
	pid     int
	stopErr error
	stopped int
}

func (p *fakeProcess) Pid() int {
	return p.pid
}

func (p *fakeProcess) Stop() error {
	p.stopped++
	return p.stopErr
}

type fakeLogcat struct {
	mu      sync.Mutex
	fail    map[domain.Serial]error
	started []domain.Serial
	procs   map[domain.Serial]*fakeProcess
	paths   map[domain.Serial]string
}

func newFakeLogcat() *fakeLogcat {
	return &fakeLogcat{
		fail:  make(map[domain.Serial]error),
		procs: make(map[domain.Serial]*fakeProcess),
		paths: make(map[domain.Serial]string),
	}
}

func (l *fakeLogcat) StartLogcat(_ context.Context, serial string, _ string, path string) (ports.Process, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.started = append(l.started, domain.Serial(serial))
	if err := l.fail[domain.Serial(serial)]; err != nil {
		return nil, err
	}

	proc := &fakeProcess{pid: 1000 + len(l.started)}
	l.procs[domain.Serial(serial)] = proc
	l.paths[domain.Serial(serial)] = path

	return proc, nil
}

type fakeBootstrapper struct {
	calls int
	err   error
	ports []int
}

func (b *fakeBootstrapper) StartServer(_ context.Context, devicePort int) error {
	b.calls++
	b.ports = append(b.ports, devicePort)
	return b.err
}

// rootedShell answers the calls every healthy, rooted device receives.
func rootedShell(t *testing.T) *mocks.MockShellChannel {
	t.Helper()

	shell := mocks.NewMockShellChannel(t)
	shell.EXPECT().Shell(mockAnyContext(), "id -u").Return("0\n", nil).Maybe()
	shell.EXPECT().Shell(mockAnyContext(), "logpersist.start").Return("", nil).Maybe()
	shell.EXPECT().Shell(mockAnyContext(), "getprop ro.build.product").Return("Sailfish\n", nil).Maybe()
	shell.EXPECT().Shell(mockAnyContext(), "getprop ro.product.name").Return("sailfish\n", nil).Maybe()
	shell.EXPECT().Forward(mockAnyContext(), mock.Anything, mock.Anything).Return(nil).Maybe()
	shell.EXPECT().RemoveForward(mockAnyContext(), mock.Anything).Return(nil).Maybe()

	return shell
}

func emptyBootloader(t *testing.T) *mocks.MockBootloaderChannel {
	t.Helper()

	bootloader := mocks.NewMockBootloaderChannel(t)
	bootloader.EXPECT().Devices(mockAnyContext()).Return("", nil).Maybe()

	return bootloader
}

type deviceFixture struct {
	shell       *mocks.MockShellChannel
	bootloader  *mocks.MockBootloaderChannel
	dialer      *fakeDialer
	dispatchers *dispatcherRecorder
	logcat      *fakeLogcat
	bootstrap   *fakeBootstrapper
	clock       *fakeClock
	ports       *PortAllocator
}

func newDeviceFixture(t *testing.T, ids ...int) *deviceFixture {
	t.Helper()

	dialer := newFakeDialer(ids...)
	return &deviceFixture{
		shell:       rootedShell(t),
		bootloader:  emptyBootloader(t),
		dialer:      dialer,
		dispatchers: &dispatcherRecorder{events: &dialer.events},
		logcat:      newFakeLogcat(),
		bootstrap:   &fakeBootstrapper{},
		clock:       newFakeClock(),
		ports:       NewPortAllocator(),
	}
}

func (f *deviceFixture) device(t *testing.T, cfg domain.DeviceConfig) *Device {
	t.Helper()

	device, err := NewDevice(cfg, DeviceDeps{
		Shell:        f.shell,
		Bootloader:   f.bootloader,
		Dialer:       f.dialer,
		Dispatchers:  f.dispatchers.factory,
		Bootstrapper: f.bootstrap,
		Logcat:       f.logcat,
		Clock:        f.clock,
		Ports:        f.ports,
		LogBase:      t.TempDir(),
	})
	if err != nil {
		t.Fatalf("new device: %v", err)
	}

	return device
}
