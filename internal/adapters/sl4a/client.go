// Package sl4a speaks the session handshake of the SL4A scripting server
// reached through a forwarded host port.
package sl4a

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/bnema/droidfleet/internal/domain"
	"github.com/bnema/droidfleet/internal/ports"
)

const defaultDialTimeout = 5 * time.Second

var ErrHandshake = errors.New("sl4a handshake rejected")

type handshakeRequest struct {
	Cmd string `json:"cmd"`
	UID int    `json:"uid"`
}

type handshakeResponse struct {
	Status bool `json:"status"`
	UID    int  `json:"uid"`
}

type rpcRequest struct {
	ID     int    `json:"id"`
	Method string `json:"method"`
	Params []any  `json:"params"`
}

type rpcResponse struct {
	ID     int             `json:"id"`
	Result json.RawMessage `json:"result"`
	Error  *string         `json:"error"`
}

type Dialer struct {
	Host    string
	Timeout time.Duration
}

var _ ports.SessionDialer = Dialer{}

func NewDialer() Dialer {
	return Dialer{Host: "127.0.0.1", Timeout: defaultDialTimeout}
}

func (d Dialer) Dial(ctx context.Context, hostPort int, cmd ports.SessionCommand, sessionID int) (ports.Connection, error) {
	host := d.Host
	if host == "" {
		host = "127.0.0.1"
	}
	timeout := d.Timeout
	if timeout <= 0 {
		timeout = defaultDialTimeout
	}

	netDialer := net.Dialer{Timeout: timeout}
	raw, err := netDialer.DialContext(ctx, "tcp", net.JoinHostPort(host, strconv.Itoa(hostPort)))
	if err != nil {
		return nil, fmt.Errorf("dial sl4a on port %d: %w", hostPort, err)
	}

	conn := &Conn{raw: raw, reader: bufio.NewReader(raw)}
	if err := conn.handshake(ctx, cmd, sessionID, timeout); err != nil {
		_ = raw.Close()
		return nil, err
	}

	return conn, nil
}

// Conn is one socket attached to an SL4A session.
type Conn struct {
	mu     sync.Mutex
	raw    net.Conn
	reader *bufio.Reader
	uid    int
	nextID int
	closed bool
}

var _ ports.Connection = (*Conn)(nil)

func (c *Conn) SessionID() int {
	return c.uid
}

func (c *Conn) handshake(ctx context.Context, cmd ports.SessionCommand, sessionID int, timeout time.Duration) error {
	c.setDeadline(ctx, timeout)
	defer c.raw.SetDeadline(time.Time{})

	if err := c.writeLine(handshakeRequest{Cmd: string(cmd), UID: sessionID}); err != nil {
		return fmt.Errorf("send sl4a handshake: %w", err)
	}

	var resp handshakeResponse
	if err := c.readLine(&resp); err != nil {
		return fmt.Errorf("read sl4a handshake: %w", err)
	}
	if !resp.Status {
		return fmt.Errorf("%w: cmd %s uid %d", ErrHandshake, cmd, sessionID)
	}

	c.uid = resp.UID
	return nil
}

func (c *Conn) Call(ctx context.Context, method string, params ...any) (json.RawMessage, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, domain.ErrConnectionClosed
	}
	if params == nil {
		params = []any{}
	}

	c.setDeadline(ctx, 0)
	defer c.raw.SetDeadline(time.Time{})

	c.nextID++
	id := c.nextID
	if err := c.writeLine(rpcRequest{ID: id, Method: method, Params: params}); err != nil {
		return nil, fmt.Errorf("send %s: %w", method, err)
	}

	var resp rpcResponse
	if err := c.readLine(&resp); err != nil {
		return nil, fmt.Errorf("read %s result: %w", method, err)
	}
	if resp.ID != id {
		return nil, fmt.Errorf("%s: response id %d does not match request id %d", method, resp.ID, id)
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("%s: %s", method, *resp.Error)
	}

	return resp.Result, nil
}

func (c *Conn) Terminate(ctx context.Context) error {
	_, err := c.Call(ctx, "closeSl4aSession")
	return err
}

func (c *Conn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return domain.ErrConnectionClosed
	}
	c.closed = true

	return c.raw.Close()
}

func (c *Conn) setDeadline(ctx context.Context, fallback time.Duration) {
	if deadline, ok := ctx.Deadline(); ok {
		_ = c.raw.SetDeadline(deadline)
		return
	}
	if fallback > 0 {
		_ = c.raw.SetDeadline(time.Now().Add(fallback))
	}
}

func (c *Conn) writeLine(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	data = append(data, '\n')

	_, err = c.raw.Write(data)
	return err
}

func (c *Conn) readLine(v any) error {
	line, err := c.reader.ReadBytes('\n')
	if err != nil {
		return err
	}

	return json.Unmarshal(line, v)
}
