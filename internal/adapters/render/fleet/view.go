package fleet

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bnema/droidfleet/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

type Snapshot struct {
	RunID      string
	Devices    []domain.DeviceStatus
	Bootloader []domain.Serial
}

func renderView(snapshot Snapshot, s styles) string {
	header := fmt.Sprintf("devices: %d", len(snapshot.Devices))
	if len(snapshot.Bootloader) > 0 {
		header += fmt.Sprintf("  bootloader: %d", len(snapshot.Bootloader))
	}
	if snapshot.RunID != "" {
		header += "  run: " + snapshot.RunID
	}

	lines := []string{
		s.title.Render("Android Fleet"),
		s.header.Render(header),
	}

	if len(snapshot.Devices) == 0 && len(snapshot.Bootloader) == 0 {
		lines = append(lines, s.empty.Render("No devices attached."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for _, status := range snapshot.Devices {
		lines = append(lines, s.section.Render(renderDevice(status, s)))
	}
	for _, serial := range snapshot.Bootloader {
		title := lipgloss.JoinHorizontal(lipgloss.Top, s.device.Render(string(serial)), " ", s.bootloader.Render("BOOTLOADER"))
		lines = append(lines, s.section.Render(title))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderDevice(status domain.DeviceStatus, s styles) string {
	title := string(status.Serial)
	if status.Label != "" {
		title = fmt.Sprintf("%s (%s)", title, status.Label)
	}

	parts := []string{
		lipgloss.JoinHorizontal(lipgloss.Top, s.device.Render(title), " ", stateStyle(status.State, s).Render(status.State.String())),
	}

	if status.State == domain.StateDiscovered {
		return lipgloss.JoinVertical(lipgloss.Left, parts...)
	}

	parts = append(parts,
		s.detail.Render("forward: "+forwardLabel(status)),
		s.detail.Render("logcat: "+logcatLabel(status)),
		s.detail.Render("sessions: "+sessionsLabel(status.Sessions)),
	)
	if len(status.Sessions) > 0 {
		parts = append(parts, s.detail.Render(fmt.Sprintf("primary: %d  connections: %d  events: %s",
			status.PrimarySession, status.Connections, onOff(status.Events))))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func stateStyle(state domain.DeviceState, s styles) lipgloss.Style {
	switch state {
	case domain.StateActive:
		return s.active
	case domain.StateDestroyed:
		return s.destroyed
	default:
		return s.pending
	}
}

func forwardLabel(status domain.DeviceStatus) string {
	if status.HostPort == 0 {
		return "none"
	}

	return fmt.Sprintf("tcp:%d -> tcp:%d", status.HostPort, status.DevicePort)
}

func logcatLabel(status domain.DeviceStatus) string {
	if !status.Logcat {
		return "off"
	}
	if status.LogcatPath == "" {
		return "on"
	}

	return "on " + status.LogcatPath
}

func sessionsLabel(ids []int) string {
	if len(ids) == 0 {
		return "none"
	}

	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, strconv.Itoa(id))
	}

	return strings.Join(parts, ", ")
}

func onOff(on bool) string {
	if on {
		return "on"
	}

	return "off"
}
