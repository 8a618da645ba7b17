package application

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bnema/droidfleet/internal/domain"
)

// FilterDevices keeps the devices match accepts, in order.
func FilterDevices(devices []*Device, match func(*Device) bool) []*Device {
	var results []*Device
	for _, device := range devices {
		if match(device) {
			results = append(results, device)
		}
	}

	return results
}

// FindDevice returns the only device whose attributes equal every entry of
// attrs. Attributes are the serial, label, phone_number and free-form config
// attributes.
func FindDevice(devices []*Device, attrs map[string]string) (*Device, error) {
	matched := FilterDevices(devices, func(device *Device) bool {
		for name, want := range attrs {
			got, ok := device.Config().Attribute(name)
			if !ok || got != want {
				return false
			}
		}
		return true
	})

	switch len(matched) {
	case 0:
		return nil, fmt.Errorf("%w: %s", domain.ErrNoDeviceMatch, formatCondition(attrs))
	case 1:
		return matched[0], nil
	default:
		serials := make([]string, 0, len(matched))
		for _, device := range matched {
			serials = append(serials, string(device.Serial()))
		}
		return nil, fmt.Errorf("%w: %s", domain.ErrAmbiguousDeviceMatch, strings.Join(serials, ", "))
	}
}

func formatCondition(attrs map[string]string) string {
	keys := make([]string, 0, len(attrs))
	for key := range attrs {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, fmt.Sprintf("%s=%q", key, attrs[key]))
	}

	return strings.Join(parts, " ")
}
