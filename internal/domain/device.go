package domain

import (
	"fmt"
	"sort"
	"strings"
)

const (
	DefaultDevicePort  = 8080
	DefaultLogcatParam = "-b all"
	PickAllToken       = "*"
)

type Serial string

type Mode int

const (
	ModeNormal Mode = iota
	ModeBootloader
)

// Marker is the second column value identifying an attached device in the
// channel's device listing for this mode.
func (m Mode) Marker() string {
	if m == ModeBootloader {
		return "fastboot"
	}

	return "device"
}

func (m Mode) String() string {
	if m == ModeBootloader {
		return "bootloader"
	}

	return "normal"
}

// intrinsicAttributes name properties every device carries. Free-form config
// attributes may not shadow them.
var intrinsicAttributes = map[string]struct{}{
	"serial":        {},
	"model":         {},
	"log_path":      {},
	"host_port":     {},
	"device_port":   {},
	"skip_session":  {},
	"logcat_param":  {},
	"label":         {},
	"phone_number":  {},
	"adb":           {},
	"fastboot":      {},
	"droid":         {},
	"droids":        {},
	"ed":            {},
	"eds":           {},
	"state":         {},
	"logcat_path":   {},
	"is_bootloader": {},
	"is_adb_root":   {},
}

type DeviceConfig struct {
	Serial      Serial
	SkipSession bool
	LogcatParam string
	HostPort    int
	DevicePort  int
	Label       string
	PhoneNumber string
	Extra       map[string]string
}

func (c DeviceConfig) Validate() error {
	if strings.TrimSpace(string(c.Serial)) == "" {
		return ErrInvalidSerial
	}
	if c.HostPort < 0 || c.HostPort > 65535 {
		return fmt.Errorf("device %s: host port %d out of range", c.Serial, c.HostPort)
	}
	if c.DevicePort < 0 || c.DevicePort > 65535 {
		return fmt.Errorf("device %s: device port %d out of range", c.Serial, c.DevicePort)
	}

	keys := make([]string, 0, len(c.Extra))
	for key := range c.Extra {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if _, ok := intrinsicAttributes[key]; ok {
			return fmt.Errorf("attempting to set %q on %s: %w", key, c.Serial, ErrAttributeConflict)
		}
	}

	return nil
}

// WithDefaults fills the optional fields left empty in the config.
func (c DeviceConfig) WithDefaults() DeviceConfig {
	if c.DevicePort == 0 {
		c.DevicePort = DefaultDevicePort
	}
	if c.LogcatParam == "" {
		c.LogcatParam = DefaultLogcatParam
	}

	return c
}

// Attribute resolves a named attribute for device lookups.
func (c DeviceConfig) Attribute(name string) (string, bool) {
	switch name {
	case "serial":
		return string(c.Serial), true
	case "label":
		return c.Label, c.Label != ""
	case "phone_number":
		return c.PhoneNumber, c.PhoneNumber != ""
	}

	value, ok := c.Extra[name]
	return value, ok
}

// FleetSelection describes which devices a fleet is built from. Exactly one of
// All, Serials or Devices is expected to be set.
type FleetSelection struct {
	All     bool
	Serials []Serial
	Devices []DeviceConfig
}

func (s FleetSelection) IsEmpty() bool {
	return !s.All && len(s.Serials) == 0 && len(s.Devices) == 0
}

type DeviceState int

const (
	StateDiscovered DeviceState = iota
	StateChannelVerified
	StateLogStarted
	StateSessionEstablished
	StateActive
	StateDestroyed
)

func (s DeviceState) String() string {
	switch s {
	case StateDiscovered:
		return "DISCOVERED"
	case StateChannelVerified:
		return "CHANNEL_VERIFIED"
	case StateLogStarted:
		return "LOG_STARTED"
	case StateSessionEstablished:
		return "SESSION_ESTABLISHED"
	case StateActive:
		return "ACTIVE"
	case StateDestroyed:
		return "DESTROYED"
	default:
		return fmt.Sprintf("DeviceState(%d)", int(s))
	}
}

func (s DeviceState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// DeviceStatus is an immutable snapshot of a device's lifecycle.
type DeviceStatus struct {
	Serial     Serial      `json:"serial"`
	Label      string      `json:"label,omitempty"`
	State      DeviceState `json:"state"`
	HostPort   int         `json:"host_port,omitempty"`
	DevicePort int         `json:"device_port"`
	Logcat     bool        `json:"logcat"`
	LogcatPath string      `json:"logcat_path,omitempty"`
	Sessions   []int       `json:"sessions"`
	// PrimarySession is the lowest live session id, 0 without sessions.
	PrimarySession int  `json:"primary_session,omitempty"`
	Connections    int  `json:"connections"`
	Events         bool `json:"events"`
}
