package application

import (
	"context"
	"strings"

	"github.com/bnema/droidfleet/internal/domain"
	"github.com/bnema/droidfleet/internal/logging"
	"github.com/charmbracelet/log"
)

// DeviceLister is the part of a channel able to list attached devices.
type DeviceLister interface {
	Devices(ctx context.Context) (string, error)
}

type Enumerator struct {
	shell      DeviceLister
	bootloader DeviceLister
	logger     *log.Logger
}

func NewEnumerator(shell DeviceLister, bootloader DeviceLister, logger *log.Logger) *Enumerator {
	return &Enumerator{shell: shell, bootloader: bootloader, logger: logging.WithComponent(logger, "enumerator")}
}

// ListAttached returns the serials attached in mode, in the order the channel
// printed them. It never fails: an unreachable channel lists no devices.
func (e *Enumerator) ListAttached(ctx context.Context, mode domain.Mode) []domain.Serial {
	lister := e.shell
	if mode == domain.ModeBootloader {
		lister = e.bootloader
	}
	if lister == nil {
		return []domain.Serial{}
	}

	out, err := lister.Devices(ctx)
	if err != nil {
		e.logger.Debug("device listing failed", "mode", mode, "err", err)
		return []domain.Serial{}
	}

	return ParseDeviceList(out, mode.Marker())
}

// ListAll lists normal mode devices, followed by bootloader devices when
// includeBootloader is set.
func (e *Enumerator) ListAll(ctx context.Context, includeBootloader bool) []domain.Serial {
	serials := e.ListAttached(ctx, domain.ModeNormal)
	if includeBootloader {
		serials = append(serials, e.ListAttached(ctx, domain.ModeBootloader)...)
	}

	return serials
}

// IsAttached reports whether serial is listed in mode.
func (e *Enumerator) IsAttached(ctx context.Context, serial domain.Serial, mode domain.Mode) bool {
	for _, attached := range e.ListAttached(ctx, mode) {
		if attached == serial {
			return true
		}
	}

	return false
}

// ParseDeviceList keeps the first column of every line made of exactly two
// tab separated columns whose second column equals marker.
func ParseDeviceList(output string, marker string) []domain.Serial {
	serials := []domain.Serial{}
	for _, line := range strings.Split(strings.TrimSpace(output), "\n") {
		tokens := strings.Split(strings.TrimSpace(line), "\t")
		if len(tokens) != 2 || tokens[1] != marker {
			continue
		}
		serials = append(serials, domain.Serial(tokens[0]))
	}

	return serials
}
