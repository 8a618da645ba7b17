package ports

import (
	"context"
	"encoding/json"
	"time"
)

type SessionCommand string

const (
	SessionInitiate SessionCommand = "initiate"
	SessionContinue SessionCommand = "continue"
)

// UnknownSessionID asks the server to assign a fresh session id.
const UnknownSessionID = -1

// Connection is one client socket bound to a remote execution session.
type Connection interface {
	SessionID() int
	Call(ctx context.Context, method string, params ...any) (json.RawMessage, error)
	// Terminate asks the server to end the whole session.
	Terminate(ctx context.Context) error
	Close() error
}

type SessionDialer interface {
	Dial(ctx context.Context, hostPort int, cmd SessionCommand, sessionID int) (Connection, error)
}

// Bootstrapper starts the session server on the device when it is not
// listening yet.
type Bootstrapper interface {
	StartServer(ctx context.Context, devicePort int) error
}

type Event struct {
	Name string          `json:"name"`
	Data json.RawMessage `json:"data"`
	Time int64           `json:"time"`
}

type EventDispatcher interface {
	Start()
	PopEvent(ctx context.Context, name string, timeout time.Duration) (Event, error)
	CleanUp()
}

type DispatcherFactory func(conn Connection) EventDispatcher
