package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/bnema/droidfleet/internal/application"
	"github.com/bnema/droidfleet/internal/domain"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type rebootPhaseMsg application.RebootPhase

type rebootDoneMsg struct {
	err error
}

var rebootPhaseStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))

// rebootSpinnerModel shows which reboot phase a device is in and for how long
// the reboot has been running.
type rebootSpinnerModel struct {
	spinner spinner.Model
	serial  domain.Serial
	phase   application.RebootPhase
	started time.Time
	now     func() time.Time
	reboot  tea.Cmd
	err     error
	done    bool
}

func newRebootSpinnerModel(serial domain.Serial, now func() time.Time, reboot tea.Cmd) rebootSpinnerModel {
	s := spinner.New(
		spinner.WithSpinner(spinner.MiniDot),
		spinner.WithStyle(rebootPhaseStyle),
	)

	return rebootSpinnerModel{
		spinner: s,
		serial:  serial,
		phase:   application.RebootRestarting,
		started: now(),
		now:     now,
		reboot:  reboot,
	}
}

func (m rebootSpinnerModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.reboot)
}

func (m rebootSpinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case rebootPhaseMsg:
		m.phase = application.RebootPhase(msg)
		return m, nil
	case rebootDoneMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m rebootSpinnerModel) View() string {
	if m.done {
		return ""
	}

	elapsed := m.now().Sub(m.started).Truncate(time.Second)
	return fmt.Sprintf("%s %s: %s (%s)", m.spinner.View(), m.serial, rebootPhaseStyle.Render(m.phase.String()), elapsed)
}

// runRebootSpinner reboots device while its current phase is drawn on output.
func runRebootSpinner(ctx context.Context, output io.Writer, device *application.Device, now func() time.Time) error {
	var p *tea.Program
	reboot := func() tea.Msg {
		_, _, err := device.RebootWithProgress(ctx, func(phase application.RebootPhase) {
			p.Send(rebootPhaseMsg(phase))
		})
		return rebootDoneMsg{err: err}
	}

	p = tea.NewProgram(
		newRebootSpinnerModel(device.Serial(), now, reboot),
		tea.WithInput(nil),
		tea.WithOutput(output),
		tea.WithContext(ctx),
	)

	finalModel, err := p.Run()
	if err != nil {
		return err
	}

	result, ok := finalModel.(rebootSpinnerModel)
	if !ok {
		return fmt.Errorf("unexpected final spinner model type %T", finalModel)
	}

	return result.err
}
