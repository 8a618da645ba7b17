package domain

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyConfig       = errors.New("device configuration is empty")
	ErrInvalidSerial     = errors.New("device serial is required")
	ErrNotAttached       = errors.New("device is configured but not attached")
	ErrAttributeConflict = errors.New("attribute already defined on device")
	ErrUnsupportedSchema = errors.New("unsupported fleet config schema")
	ErrDuplicateDevice   = errors.New("device listed more than once")

	ErrDuplicateSession = errors.New("server returned an existing session id for a new session")
	ErrSessionNotFound  = errors.New("session does not exist")

	ErrChannel = errors.New("device channel command failed")

	ErrLogcatRunning    = errors.New("logcat collection already running")
	ErrLogcatNotRunning = errors.New("no logcat collection running")
	ErrNoLogcat         = errors.New("no logcat has been collected")
	ErrConnectionClosed = errors.New("connection already closed")
	ErrBugReport        = errors.New("bug report failed")

	ErrBootTimeout = errors.New("boot completion timed out")

	ErrNoDeviceMatch        = errors.New("no device matches condition")
	ErrAmbiguousDeviceMatch = errors.New("more than one device matched")
)

// Kind classifies errors by how callers are expected to react to them.
type Kind int

const (
	KindUnknown Kind = iota
	KindConfiguration
	KindProtocol
	KindTransient
	KindConflict
	KindTimeout
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindProtocol:
		return "protocol"
	case KindTransient:
		return "transient"
	case KindConflict:
		return "conflict"
	case KindTimeout:
		return "timeout"
	case KindNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

var errorKinds = []struct {
	err  error
	kind Kind
}{
	{ErrEmptyConfig, KindConfiguration},
	{ErrInvalidSerial, KindConfiguration},
	{ErrNotAttached, KindConfiguration},
	{ErrAttributeConflict, KindConfiguration},
	{ErrUnsupportedSchema, KindConfiguration},
	{ErrDuplicateDevice, KindConfiguration},
	{ErrDuplicateSession, KindProtocol},
	{ErrSessionNotFound, KindProtocol},
	{ErrChannel, KindTransient},
	{ErrLogcatRunning, KindConflict},
	{ErrLogcatNotRunning, KindConflict},
	{ErrNoLogcat, KindConflict},
	{ErrConnectionClosed, KindConflict},
	{ErrBootTimeout, KindTimeout},
	{ErrNoDeviceMatch, KindNotFound},
	{ErrAmbiguousDeviceMatch, KindNotFound},
}

// KindOf returns the kind of the first known sentinel found in err's chain.
// Protocol and configuration errors win over the channel error they may wrap.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	for _, entry := range errorKinds {
		if errors.Is(err, entry.err) {
			return entry.kind
		}
	}

	return KindUnknown
}

// DeviceError attaches the device serial and the failing operation to an error.
type DeviceError struct {
	Serial Serial
	Op     string
	Err    error
}

func (e *DeviceError) Error() string {
	return fmt.Sprintf("device %s: %s: %v", e.Serial, e.Op, e.Err)
}

func (e *DeviceError) Unwrap() error {
	return e.Err
}

func NewDeviceError(serial Serial, op string, err error) error {
	if err == nil {
		return nil
	}

	return &DeviceError{Serial: serial, Op: op, Err: err}
}
