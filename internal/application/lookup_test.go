package application

import (
	"testing"

	"github.com/bnema/droidfleet/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupDevices(t *testing.T) []*Device {
	t.Helper()

	fixture := newDeviceFixture(t)
	return []*Device{
		fixture.device(t, domain.DeviceConfig{Serial: "serialA", Label: "dut", PhoneNumber: "5550100"}),
		fixture.device(t, domain.DeviceConfig{Serial: "serialB", Label: "ref", Extra: map[string]string{"sim": "tmo"}}),
		fixture.device(t, domain.DeviceConfig{Serial: "serialC", Label: "ref", Extra: map[string]string{"sim": "att"}}),
	}
}

func TestFindDeviceByLabelAndPhone(t *testing.T) {
	devices := lookupDevices(t)

	device, err := FindDevice(devices, map[string]string{"label": "dut", "phone_number": "5550100"})
	require.NoError(t, err)
	assert.Equal(t, domain.Serial("serialA"), device.Serial())
}

func TestFindDeviceByExtraAttribute(t *testing.T) {
	devices := lookupDevices(t)

	device, err := FindDevice(devices, map[string]string{"label": "ref", "sim": "att"})
	require.NoError(t, err)
	assert.Equal(t, domain.Serial("serialC"), device.Serial())
}

func TestFindDeviceNoMatch(t *testing.T) {
	_, err := FindDevice(lookupDevices(t), map[string]string{"label": "missing"})
	require.ErrorIs(t, err, domain.ErrNoDeviceMatch)
	assert.Contains(t, err.Error(), `label="missing"`)
}

func TestFindDeviceAmbiguousMatchNamesSerials(t *testing.T) {
	_, err := FindDevice(lookupDevices(t), map[string]string{"label": "ref"})
	require.ErrorIs(t, err, domain.ErrAmbiguousDeviceMatch)
	assert.Contains(t, err.Error(), "serialB, serialC")
}

func TestFilterDevices(t *testing.T) {
	devices := lookupDevices(t)

	filtered := FilterDevices(devices, func(device *Device) bool {
		return device.Config().Label == "ref"
	})
	require.Len(t, filtered, 2)
	assert.Equal(t, domain.Serial("serialB"), filtered[0].Serial())
	assert.Empty(t, FilterDevices(devices, func(*Device) bool { return false }))
}
