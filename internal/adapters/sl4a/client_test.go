package sl4a

import (
	"bufio"
	"context"
	"encoding/json"
	"net"
	"testing"
	"time"

	"github.com/bnema/droidfleet/internal/domain"
	"github.com/bnema/droidfleet/internal/ports"
	"github.com/bnema/droidfleet/internal/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// fakeServer accepts connections and hands out session ids from uids in order
// for "initiate" handshakes, echoing the requested uid for "continue".
func fakeServer(t *testing.T, uids ...int) (int, <-chan string) {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	methods := make(chan string, 16)
	go func() {
		next := 0
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			uid := -1
			if next < len(uids) {
				uid = uids[next]
			}
			go serve(conn, uid, methods)
			next++
		}
	}()

	return ln.Addr().(*net.TCPAddr).Port, methods
}

func serve(conn net.Conn, uid int, methods chan<- string) {
	defer conn.Close()
	reader := bufio.NewReader(conn)
	enc := json.NewEncoder(conn)

	line, err := reader.ReadBytes('\n')
	if err != nil {
		return
	}
	var hs handshakeRequest
	if json.Unmarshal(line, &hs) != nil {
		return
	}
	if hs.Cmd == string(ports.SessionContinue) {
		uid = hs.UID
	}
	_ = enc.Encode(handshakeResponse{Status: true, UID: uid})

	for {
		line, err := reader.ReadBytes('\n')
		if err != nil {
			return
		}
		var req rpcRequest
		if json.Unmarshal(line, &req) != nil {
			return
		}
		methods <- req.Method
		_ = enc.Encode(map[string]any{"id": req.ID, "result": req.Method, "error": nil})
	}
}

func TestDialInitiateReturnsServerAssignedID(t *testing.T) {
	port, methods := fakeServer(t, 7)

	conn, err := NewDialer().Dial(context.Background(), port, ports.SessionInitiate, ports.UnknownSessionID)
	require.NoError(t, err)
	assert.Equal(t, 7, conn.SessionID())

	result, err := conn.Call(context.Background(), "getBuildID")
	require.NoError(t, err)
	assert.JSONEq(t, `"getBuildID"`, string(result))
	assert.Equal(t, "getBuildID", <-methods)

	require.NoError(t, conn.Terminate(context.Background()))
	assert.Equal(t, "closeSl4aSession", <-methods)

	require.NoError(t, conn.Close())
	require.ErrorIs(t, conn.Close(), domain.ErrConnectionClosed)
	_, err = conn.Call(context.Background(), "getBuildID")
	require.ErrorIs(t, err, domain.ErrConnectionClosed)
}

func TestDialContinueKeepsSessionID(t *testing.T) {
	port, _ := fakeServer(t)

	conn, err := NewDialer().Dial(context.Background(), port, ports.SessionContinue, 42)
	require.NoError(t, err)
	defer conn.Close()

	assert.Equal(t, 42, conn.SessionID())
}

func TestDialFailsWhenNothingListens(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())

	dialer := Dialer{Timeout: 500 * time.Millisecond}
	_, err = dialer.Dial(context.Background(), port, ports.SessionInitiate, ports.UnknownSessionID)
	require.Error(t, err)
	assert.ErrorContains(t, err, "dial sl4a")
}

func TestBootstrapperLaunchesServerOnDevicePort(t *testing.T) {
	shell := mocks.NewMockShellChannel(t)
	shell.EXPECT().Shell(mock.Anything, mock.MatchedBy(func(cmd string) bool {
		return cmd == "am start -a com.googlecode.android_scripting.action.LAUNCH_SERVER"+
			" --ei com.googlecode.android_scripting.extra.USE_SERVICE_PORT 8080"+
			" com.googlecode.android_scripting/.activity.ScriptingLayerServiceLauncher"
	})).Return("Starting: Intent", nil)

	bootstrapper := NewBootstrapper(shell, nil, 0)
	require.NoError(t, bootstrapper.StartServer(context.Background(), 8080))
}
