package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bnema/droidfleet/internal/logging"
	"github.com/bnema/droidfleet/internal/ports"
	"github.com/charmbracelet/log"
)

const (
	defaultPollWindow = time.Second
	queueSize         = 256
)

var (
	ErrTimeout    = errors.New("timed out waiting for event")
	ErrStopped    = errors.New("event dispatcher stopped")
	ErrPollFailed = errors.New("event polling failed")
)

// Dispatcher polls eventWait on its own session connection and queues events
// by name.
type Dispatcher struct {
	conn       ports.Connection
	pollWindow time.Duration
	logger     *log.Logger

	mu      sync.Mutex
	queues  map[string]chan ports.Event
	pollErr error
	started bool
	stopped bool
	stop    chan struct{}
	done    chan struct{}
}

var _ ports.EventDispatcher = (*Dispatcher)(nil)

func NewDispatcher(conn ports.Connection, logger *log.Logger) *Dispatcher {
	return &Dispatcher{
		conn:       conn,
		pollWindow: defaultPollWindow,
		logger:     logging.WithComponent(logger, "events").With("session", conn.SessionID()),
		queues:     make(map[string]chan ports.Event),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
}

// NewFactory adapts NewDispatcher to ports.DispatcherFactory.
func NewFactory(logger *log.Logger) ports.DispatcherFactory {
	return func(conn ports.Connection) ports.EventDispatcher {
		return NewDispatcher(conn, logger)
	}
}

func (d *Dispatcher) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.started || d.stopped {
		return
	}
	d.started = true
	go d.poll()
}

func (d *Dispatcher) poll() {
	defer close(d.done)

	for {
		select {
		case <-d.stop:
			return
		default:
		}

		ctx, cancel := context.WithTimeout(context.Background(), d.pollWindow+2*time.Second)
		raw, err := d.conn.Call(ctx, "eventWait", d.pollWindow.Milliseconds())
		cancel()
		if err != nil {
			// Delivery ends here; PopEvent reports err from now on.
			d.logger.Warn("event polling stopped", "err", err)
			d.mu.Lock()
			d.pollErr = err
			d.mu.Unlock()
			return
		}
		if len(raw) == 0 || string(raw) == "null" {
			continue
		}

		var event ports.Event
		if err := json.Unmarshal(raw, &event); err != nil || event.Name == "" {
			continue
		}
		d.enqueue(event)
	}
}

func (d *Dispatcher) enqueue(event ports.Event) {
	queue := d.queue(event.Name)
	select {
	case queue <- event:
	default:
		// Drop the oldest event to make room.
		select {
		case <-queue:
		default:
		}
		queue <- event
	}
}

func (d *Dispatcher) queue(name string) chan ports.Event {
	d.mu.Lock()
	defer d.mu.Unlock()

	queue, ok := d.queues[name]
	if !ok {
		queue = make(chan ports.Event, queueSize)
		d.queues[name] = queue
	}

	return queue
}

func (d *Dispatcher) PopEvent(ctx context.Context, name string, timeout time.Duration) (ports.Event, error) {
	d.mu.Lock()
	stopped := d.stopped
	pollErr := d.pollErr
	d.mu.Unlock()
	if stopped {
		return ports.Event{}, ErrStopped
	}
	if pollErr != nil {
		select {
		case event := <-d.queue(name):
			return event, nil
		default:
			return ports.Event{}, fmt.Errorf("%w: %w", ErrPollFailed, pollErr)
		}
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case event := <-d.queue(name):
		return event, nil
	case <-timer.C:
		return ports.Event{}, fmt.Errorf("%w %q after %s", ErrTimeout, name, timeout)
	case <-d.stop:
		return ports.Event{}, ErrStopped
	case <-ctx.Done():
		return ports.Event{}, ctx.Err()
	}
}

// CleanUp stops polling and drops queued events. The connection stays open;
// it belongs to the session registry.
func (d *Dispatcher) CleanUp() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.stopped = true
	started := d.started
	close(d.stop)
	d.queues = make(map[string]chan ports.Event)
	d.mu.Unlock()

	if started {
		<-d.done
	}
}
