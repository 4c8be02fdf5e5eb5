package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/marshallshelly/jokes-api/internal/models"
)

// Resetter deletes all jokes data. *repository.AdminRepository satisfies it.
type Resetter interface {
	Reset(ctx context.Context) (models.ResetResult, error)
}

type resetMode int

const (
	resetConfirm resetMode = iota
	resetRunning
	resetDone
	resetFailed
)

type resetFinishedMsg struct {
	result models.ResetResult
	err    error
}

// ResetModel asks for confirmation, then runs the reset behind a spinner.
type ResetModel struct {
	ctx          context.Context
	admin        Resetter
	mode         resetMode
	confirmation ConfirmationDialog
	spinner      spinner.Model
	result       models.ResetResult
	err          error
	cancelled    bool
	width        int
	height       int
}

func NewResetModel(ctx context.Context, admin Resetter) ResetModel {
	dialog := NewConfirmationDialog(
		"Reset Database",
		"This deletes every joke, audience and category.\nThis cannot be undone.",
	)
	dialog.Danger = true

	return ResetModel{
		ctx:          ctx,
		admin:        admin,
		confirmation: dialog,
		spinner:      spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(infoStyle)),
	}
}

func (m ResetModel) Init() tea.Cmd {
	return tea.EnterAltScreen
}

func resetCmd(ctx context.Context, admin Resetter) tea.Cmd {
	return func() tea.Msg {
		result, err := admin.Reset(ctx)
		return resetFinishedMsg{result: result, err: err}
	}
}

func (m ResetModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case confirmResultMsg:
		if !msg.confirmed {
			m.cancelled = true
			return m, tea.Quit
		}
		m.mode = resetRunning
		return m, tea.Batch(m.spinner.Tick, resetCmd(m.ctx, m.admin))

	case resetFinishedMsg:
		if msg.err != nil {
			m.mode = resetFailed
			m.err = msg.err
			return m, nil
		}
		m.mode = resetDone
		m.result = msg.result
		return m, nil

	case spinner.TickMsg:
		if m.mode != resetRunning {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch m.mode {
		case resetConfirm:
			if msg.String() == "ctrl+c" || msg.String() == "q" {
				m.cancelled = true
				return m, tea.Quit
			}
			return m, m.confirmation.Update(msg)
		case resetDone, resetFailed:
			switch msg.String() {
			case "ctrl+c", "q", "enter":
				return m, tea.Quit
			}
		}
	}
	return m, nil
}

func (m ResetModel) View() string {
	var body string
	switch m.mode {
	case resetConfirm:
		body = m.confirmation.View()

	case resetRunning:
		body = boxStyle.Render(m.spinner.View() + " Resetting database...")

	case resetDone:
		d := m.result.DeletedItems
		body = boxStyle.Render(
			titleStyle.Render(m.result.Message) + "\n\n" +
				fmt.Sprintf("Jokes:      %d\nAudiences:  %d\nCategories: %d", d.Jokes, d.Audiences, d.Categories) + "\n\n" +
				mutedStyle.Render(m.result.Timestamp.Format("2006-01-02 15:04:05 MST")) + "\n" +
				helpStyle.Render(FormatKey("enter/q", "exit")),
		)

	case resetFailed:
		body = dangerBoxStyle.Render(
			titleStyle.Render("Error resetting database") + "\n\n" +
				errorStyle.Render(m.err.Error()) + "\n\n" +
				helpStyle.Render(FormatKey("enter/q", "exit")),
		)
	}

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, body)
}

// Cancelled reports whether the user declined the reset.
func (m ResetModel) Cancelled() bool {
	return m.cancelled
}

// RunResetUI runs the reset dialog. It returns the reset error, if any;
// cancelling is not an error.
func RunResetUI(ctx context.Context, admin Resetter) error {
	final, err := tea.NewProgram(NewResetModel(ctx, admin)).Run()
	if err != nil {
		return err
	}
	return final.(ResetModel).err
}
