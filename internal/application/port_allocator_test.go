package application

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubListener struct {
	port int
}

func (l stubListener) Accept() (net.Conn, error) { return nil, net.ErrClosed }
func (l stubListener) Close() error              { return nil }
func (l stubListener) Addr() net.Addr            { return &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: l.port} }

func TestPortAllocatorReturnsBindablePort(t *testing.T) {
	allocator := NewPortAllocator()

	port, err := allocator.Allocate()
	require.NoError(t, err)
	assert.Positive(t, port)
	assert.True(t, allocator.Reserved(port))
	assert.True(t, allocator.Available(port))
}

func TestPortAllocatorSkipsReservedPorts(t *testing.T) {
	handed := []int{40001, 40001, 40002}
	allocator := NewPortAllocator()
	allocator.listen = func(string, string) (net.Listener, error) {
		port := handed[0]
		handed = handed[1:]
		return stubListener{port: port}, nil
	}

	first, err := allocator.Allocate()
	require.NoError(t, err)
	second, err := allocator.Allocate()
	require.NoError(t, err)

	assert.Equal(t, 40001, first)
	assert.Equal(t, 40002, second)
}

func TestPortAllocatorReleaseMakesPortReusable(t *testing.T) {
	allocator := NewPortAllocator()
	allocator.listen = func(string, string) (net.Listener, error) {
		return stubListener{port: 40001}, nil
	}

	port, err := allocator.Allocate()
	require.NoError(t, err)

	_, err = allocator.Allocate()
	require.ErrorIs(t, err, ErrNoFreePort)

	allocator.Release(port)
	again, err := allocator.Allocate()
	require.NoError(t, err)
	assert.Equal(t, port, again)
}

func TestPortAllocatorAvailableRejectsBoundPort(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	allocator := NewPortAllocator()
	assert.False(t, allocator.Available(ln.Addr().(*net.TCPAddr).Port))
	assert.False(t, allocator.Available(0))
	assert.False(t, allocator.Available(70000))
}
