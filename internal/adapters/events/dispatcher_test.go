package events

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/bnema/droidfleet/internal/ports"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedConn struct {
	mu      sync.Mutex
	results []string
	calls   int
}

func (c *scriptedConn) SessionID() int { return 1 }

func (c *scriptedConn) Call(ctx context.Context, method string, params ...any) (json.RawMessage, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.calls++
	if len(c.results) == 0 {
		time.Sleep(5 * time.Millisecond)
		return json.RawMessage("null"), nil
	}
	next := c.results[0]
	c.results = c.results[1:]
	if next == "error" {
		return nil, errors.New("connection reset")
	}

	return json.RawMessage(next), nil
}

func (c *scriptedConn) Terminate(ctx context.Context) error { return nil }
func (c *scriptedConn) Close() error                        { return nil }

func TestDispatcherQueuesEventsByName(t *testing.T) {
	conn := &scriptedConn{results: []string{
		`{"name":"BleScanResult","data":{"rssi":-40},"time":1}`,
		`null`,
		`{"name":"WifiConnected","data":{},"time":2}`,
	}}
	d := NewDispatcher(conn, nil)
	d.Start()
	defer d.CleanUp()

	wifi, err := d.PopEvent(context.Background(), "WifiConnected", 2*time.Second)
	require.NoError(t, err)
	assert.Equal(t, int64(2), wifi.Time)

	scan, err := d.PopEvent(context.Background(), "BleScanResult", 2*time.Second)
	require.NoError(t, err)
	assert.JSONEq(t, `{"rssi":-40}`, string(scan.Data))
}

func TestDispatcherPopEventTimesOut(t *testing.T) {
	d := NewDispatcher(&scriptedConn{}, nil)
	d.Start()
	defer d.CleanUp()

	_, err := d.PopEvent(context.Background(), "Never", 30*time.Millisecond)
	require.ErrorIs(t, err, ErrTimeout)
}

func TestDispatcherCleanUpStopsPolling(t *testing.T) {
	conn := &scriptedConn{}
	d := NewDispatcher(conn, nil)
	d.Start()
	d.CleanUp()
	d.CleanUp()

	conn.mu.Lock()
	calls := conn.calls
	conn.mu.Unlock()
	time.Sleep(20 * time.Millisecond)
	conn.mu.Lock()
	assert.Equal(t, calls, conn.calls)
	conn.mu.Unlock()

	_, err := d.PopEvent(context.Background(), "Any", time.Second)
	require.ErrorIs(t, err, ErrStopped)
}

func TestDispatcherCleanUpWithoutStart(t *testing.T) {
	d := NewDispatcher(&scriptedConn{}, nil)
	d.CleanUp()

	var _ ports.EventDispatcher = d
}

func TestDispatcherStopsOnConnectionError(t *testing.T) {
	var out bytes.Buffer
	conn := &scriptedConn{results: []string{`{"name":"WifiConnected","data":{},"time":1}`, "error"}}
	d := NewDispatcher(conn, log.New(&out))
	d.Start()

	select {
	case <-d.done:
	case <-time.After(2 * time.Second):
		t.Fatal("poll loop did not exit after connection error")
	}

	assert.Contains(t, out.String(), "event polling stopped")
	assert.Contains(t, out.String(), "connection reset")

	queued, err := d.PopEvent(context.Background(), "WifiConnected", time.Second)
	require.NoError(t, err)
	assert.Equal(t, int64(1), queued.Time)

	_, err = d.PopEvent(context.Background(), "WifiConnected", time.Second)
	require.ErrorIs(t, err, ErrPollFailed)
	assert.Contains(t, err.Error(), "connection reset")
	d.CleanUp()
}

func TestNewFactoryBuildsDispatchers(t *testing.T) {
	factory := NewFactory(nil)
	dispatcher := factory(&scriptedConn{})

	_, ok := dispatcher.(*Dispatcher)
	assert.True(t, ok)
}
