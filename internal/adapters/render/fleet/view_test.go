package fleet

import (
	"testing"

	"github.com/bnema/droidfleet/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderActiveDevice(t *testing.T) {
	output, err := Render(Snapshot{
		RunID: "run-1",
		Devices: []domain.DeviceStatus{
			{
				Serial:         "serialA",
				Label:          "dut",
				State:          domain.StateActive,
				HostPort:       41234,
				DevicePort:     8080,
				Logcat:         true,
				LogcatPath:     "/tmp/logs/AndroidDeviceserialA/adblog,sailfish,serialA.txt",
				Sessions:       []int{1, 3},
				PrimarySession: 1,
				Connections:    3,
				Events:         true,
			},
		},
	})

	require.NoError(t, err)
	assert.Contains(t, output, "devices: 1")
	assert.Contains(t, output, "run: run-1")
	assert.Contains(t, output, "serialA (dut)")
	assert.Contains(t, output, "ACTIVE")
	assert.Contains(t, output, "tcp:41234 -> tcp:8080")
	assert.Contains(t, output, "adblog,sailfish,serialA.txt")
	assert.Contains(t, output, "sessions: 1, 3")
	assert.Contains(t, output, "primary: 1  connections: 3  events: on")
}

func TestRenderDiscoveredAndBootloaderDevices(t *testing.T) {
	output, err := Render(Snapshot{
		Devices:    []domain.DeviceStatus{{Serial: "serialA", State: domain.StateDiscovered}},
		Bootloader: []domain.Serial{"serialB"},
	})

	require.NoError(t, err)
	assert.Contains(t, output, "bootloader: 1")
	assert.Contains(t, output, "DISCOVERED")
	assert.Contains(t, output, "serialB")
	assert.Contains(t, output, "BOOTLOADER")
	assert.NotContains(t, output, "forward:")
}

func TestRenderDestroyedDeviceHasNoResources(t *testing.T) {
	output, err := Render(Snapshot{
		Devices: []domain.DeviceStatus{{Serial: "serialA", State: domain.StateDestroyed, DevicePort: 8080}},
	})

	require.NoError(t, err)
	assert.Contains(t, output, "DESTROYED")
	assert.Contains(t, output, "forward: none")
	assert.Contains(t, output, "logcat: off")
	assert.Contains(t, output, "sessions: none")
}

func TestRenderEmptyFleet(t *testing.T) {
	output, err := Render(Snapshot{})

	require.NoError(t, err)
	assert.Contains(t, output, "devices: 0")
	assert.Contains(t, output, "No devices attached.")
}
