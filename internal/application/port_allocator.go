package application

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"sync"
)

const maxAllocateAttempts = 16

var ErrNoFreePort = errors.New("no free host port")

// PortAllocator hands out free local TCP ports for adb forwarding and keeps
// track of the ones still reserved by this process.
type PortAllocator struct {
	mu       sync.Mutex
	reserved map[int]struct{}
	listen   func(network, address string) (net.Listener, error)
}

func NewPortAllocator() *PortAllocator {
	return &PortAllocator{
		reserved: make(map[int]struct{}),
		listen:   net.Listen,
	}
}

// Allocate reserves a port the kernel reports free and that no device of this
// process holds.
func (a *PortAllocator) Allocate() (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	for attempt := 0; attempt < maxAllocateAttempts; attempt++ {
		ln, err := a.listen("tcp", "127.0.0.1:0")
		if err != nil {
			return 0, fmt.Errorf("find free port: %w", err)
		}
		port := ln.Addr().(*net.TCPAddr).Port
		_ = ln.Close()

		if _, taken := a.reserved[port]; taken {
			continue
		}
		a.reserved[port] = struct{}{}
		return port, nil
	}

	return 0, ErrNoFreePort
}

// Available reports whether port can be bound right now.
func (a *PortAllocator) Available(port int) bool {
	if port <= 0 || port > 65535 {
		return false
	}

	ln, err := a.listen("tcp", net.JoinHostPort("127.0.0.1", strconv.Itoa(port)))
	if err != nil {
		return false
	}
	_ = ln.Close()

	return true
}

// Reserve marks a configured port as held.
func (a *PortAllocator) Reserve(port int) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.reserved[port] = struct{}{}
}

func (a *PortAllocator) Release(port int) {
	a.mu.Lock()
	defer a.mu.Unlock()

	delete(a.reserved, port)
}

func (a *PortAllocator) Reserved(port int) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	_, ok := a.reserved[port]
	return ok
}
