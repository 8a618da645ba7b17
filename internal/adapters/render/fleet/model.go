package fleet

import (
	"errors"
	"io"

	tea "github.com/charmbracelet/bubbletea"
)

var ErrUnexpectedRenderModel = errors.New("unexpected final fleet model type")

type layoutMsg struct{}

// snapshotModel lays out one snapshot and quits; the fleet view is static.
type snapshotModel struct {
	snapshot Snapshot
	styles   styles
	rendered string
}

func newSnapshotModel(snapshot Snapshot) snapshotModel {
	return snapshotModel{snapshot: snapshot, styles: newStyles()}
}

func (m snapshotModel) Init() tea.Cmd {
	return func() tea.Msg { return layoutMsg{} }
}

func (m snapshotModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if _, ok := msg.(layoutMsg); ok {
		m.rendered = renderView(m.snapshot, m.styles)
		return m, tea.Quit
	}

	return m, nil
}

func (m snapshotModel) View() string {
	return m.rendered
}

// Render lays the snapshot out for a terminal, devices in fleet order.
func Render(snapshot Snapshot) (string, error) {
	program := tea.NewProgram(
		newSnapshotModel(snapshot),
		tea.WithInput(nil),
		tea.WithOutput(io.Discard),
	)

	final, err := program.Run()
	if err != nil {
		return "", err
	}

	laidOut, ok := final.(snapshotModel)
	if !ok {
		return "", ErrUnexpectedRenderModel
	}

	return laidOut.View(), nil
}
