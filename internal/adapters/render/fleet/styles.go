package fleet

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title      lipgloss.Style
	header     lipgloss.Style
	device     lipgloss.Style
	detail     lipgloss.Style
	section    lipgloss.Style
	empty      lipgloss.Style
	active     lipgloss.Style
	pending    lipgloss.Style
	destroyed  lipgloss.Style
	bootloader lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:      lipgloss.NewStyle().Bold(true),
		header:     lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		device:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		detail:     lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		section:    lipgloss.NewStyle().MarginTop(1),
		empty:      lipgloss.NewStyle().Faint(true),
		active:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
		pending:    lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		destroyed:  lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		bootloader: lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
	}
}
