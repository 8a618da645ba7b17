package application

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/bnema/droidfleet/internal/domain"
	"github.com/bnema/droidfleet/internal/logging"
	"github.com/bnema/droidfleet/internal/ports"
	"github.com/charmbracelet/log"
)

// SessionRegistry tracks the remote execution sessions of one device. It owns
// every connection it opens, including the auxiliary ones feeding event
// dispatchers, and closes them when the session ends.
type SessionRegistry struct {
	serial      domain.Serial
	dialer      ports.SessionDialer
	dispatchers ports.DispatcherFactory
	logger      *log.Logger

	sessions     map[int][]ports.Connection
	eventSources map[int]ports.EventDispatcher
}

func NewSessionRegistry(serial domain.Serial, dialer ports.SessionDialer, dispatchers ports.DispatcherFactory, logger *log.Logger) *SessionRegistry {
	return &SessionRegistry{
		serial:       serial,
		dialer:       dialer,
		dispatchers:  dispatchers,
		logger:       logging.OrDiscard(logger),
		sessions:     make(map[int][]ports.Connection),
		eventSources: make(map[int]ports.EventDispatcher),
	}
}

// OpenSession starts a new session through hostPort. A server handing out an
// id that is still live is a protocol violation: the new connection is closed
// and the registry is left untouched.
func (r *SessionRegistry) OpenSession(ctx context.Context, hostPort int) (ports.Connection, error) {
	conn, err := r.dialer.Dial(ctx, hostPort, ports.SessionInitiate, ports.UnknownSessionID)
	if err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}

	id := conn.SessionID()
	if _, exists := r.sessions[id]; exists {
		if closeErr := conn.Close(); closeErr != nil {
			r.logger.Warn("close duplicate session connection", "session", id, "err", closeErr)
		}
		return nil, fmt.Errorf("session %d: %w", id, domain.ErrDuplicateSession)
	}

	r.sessions[id] = []ports.Connection{conn}
	r.logger.Debug("session opened", "session", id, "host_port", hostPort)

	return conn, nil
}

// AttachConnection adds a connection to an existing session.
func (r *SessionRegistry) AttachConnection(ctx context.Context, hostPort int, sessionID int) (ports.Connection, error) {
	if _, ok := r.sessions[sessionID]; !ok {
		return nil, fmt.Errorf("session %d: %w", sessionID, domain.ErrSessionNotFound)
	}

	conn, err := r.dialer.Dial(ctx, hostPort, ports.SessionContinue, sessionID)
	if err != nil {
		return nil, fmt.Errorf("attach connection to session %d: %w", sessionID, err)
	}
	r.sessions[sessionID] = append(r.sessions[sessionID], conn)

	return conn, nil
}

// Dispatcher returns the event dispatcher of primary's session, creating it on
// an auxiliary connection the first time it is asked for.
func (r *SessionRegistry) Dispatcher(ctx context.Context, hostPort int, primary ports.Connection) (ports.EventDispatcher, error) {
	id := primary.SessionID()
	if dispatcher, ok := r.eventSources[id]; ok {
		r.logger.Debug("reusing event dispatcher", "key", r.dispatcherKey(id))
		return dispatcher, nil
	}

	conn, err := r.AttachConnection(ctx, hostPort, id)
	if err != nil {
		return nil, fmt.Errorf("create event dispatcher: %w", err)
	}

	dispatcher := r.dispatchers(conn)
	r.eventSources[id] = dispatcher

	return dispatcher, nil
}

// TerminateSession stops the session's dispatcher, asks the server to end the
// session and closes every connection. The session is forgotten even when a
// step fails.
func (r *SessionRegistry) TerminateSession(ctx context.Context, sessionID int) error {
	conns, ok := r.sessions[sessionID]
	dispatcher, hasDispatcher := r.eventSources[sessionID]
	if !ok && !hasDispatcher {
		return fmt.Errorf("session %d: %w", sessionID, domain.ErrSessionNotFound)
	}

	delete(r.sessions, sessionID)
	delete(r.eventSources, sessionID)

	if hasDispatcher {
		dispatcher.CleanUp()
	}

	var errs []error
	if len(conns) > 0 {
		if err := conns[0].Terminate(ctx); err != nil {
			errs = append(errs, fmt.Errorf("terminate session %d: %w", sessionID, err))
		}
	}
	for _, conn := range conns {
		if err := conn.Close(); err != nil && !errors.Is(err, domain.ErrConnectionClosed) {
			errs = append(errs, fmt.Errorf("close session %d connection: %w", sessionID, err))
		}
	}

	return errors.Join(errs...)
}

// TerminateAll ends every session in ascending id order. A failing session
// is logged and does not stop the others.
func (r *SessionRegistry) TerminateAll(ctx context.Context) error {
	var errs []error
	for _, id := range r.SessionIDs() {
		if err := r.TerminateSession(ctx, id); err != nil {
			r.logger.Warn("failed to terminate session", "session", id, "err", err)
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func (r *SessionRegistry) SessionIDs() []int {
	ids := make([]int, 0, len(r.sessions))
	for id := range r.sessions {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	return ids
}

// Connections returns the connections of a session, primary first.
func (r *SessionRegistry) Connections(sessionID int) []ports.Connection {
	return append([]ports.Connection(nil), r.sessions[sessionID]...)
}

// PrimarySession returns the primary connection of the lowest live session.
func (r *SessionRegistry) PrimarySession() (ports.Connection, bool) {
	ids := r.SessionIDs()
	if len(ids) == 0 {
		return nil, false
	}

	return r.sessions[ids[0]][0], true
}

// PrimaryDispatcher returns the dispatcher of the lowest session owning one.
func (r *SessionRegistry) PrimaryDispatcher() (ports.EventDispatcher, bool) {
	ids := make([]int, 0, len(r.eventSources))
	for id := range r.eventSources {
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, false
	}
	sort.Ints(ids)

	return r.eventSources[ids[0]], true
}

func (r *SessionRegistry) dispatcherKey(sessionID int) string {
	return string(r.serial) + strconv.Itoa(sessionID)
}
