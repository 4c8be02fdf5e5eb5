package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/marshallshelly/pebble-orm/pkg/migration"
)

// Action is the direction the migration UI runs in.
type Action string

const (
	ActionUp   Action = "up"
	ActionDown Action = "down"
)

// MigrationRunner is the part of database.Migrator the UI drives.
type MigrationRunner interface {
	Migrations() []migration.Migration
	Status(ctx context.Context) ([]migration.MigrationRecord, error)
	Apply(ctx context.Context, mig migration.Migration, direction string) error
}

// MigrateMode represents the current mode of the migration UI
type MigrateMode int

const (
	ModeList MigrateMode = iota
	ModeConfirm
	ModeExecuting
	ModeComplete
	ModeError
)

// MigrateModel is the Bubbletea model for interactive migrations. Selecting
// a migration runs every migration between the current state and it, so
// versions are always applied in order and rolled back newest first.
type MigrateModel struct {
	ctx          context.Context
	runner       MigrationRunner
	mode         MigrateMode
	action       Action
	list         list.Model
	confirmation ConfirmationDialog
	progress     ProgressView
	logs         LogView
	err          error
	width        int
	height       int
	status       []migration.MigrationRecord
	queue        []migration.Migration
}

// NewMigrateModel creates a new migration UI model
func NewMigrateModel(ctx context.Context, action Action, runner MigrationRunner) MigrateModel {
	l := list.New([]list.Item{}, MigrationItemDelegate{}, 0, 0)
	l.Title = fmt.Sprintf("Database Migrations (%s)", action)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.Styles.Title = titleStyle

	return MigrateModel{
		ctx:    ctx,
		runner: runner,
		mode:   ModeList,
		action: action,
		list:   l,
		logs:   NewLogView(10),
	}
}

func (m MigrateModel) Init() tea.Cmd {
	return tea.Batch(
		loadStatusCmd(m.ctx, m.runner),
		tea.EnterAltScreen,
	)
}

// Messages
type statusLoadedMsg struct {
	status []migration.MigrationRecord
}

type migrationExecutedMsg struct {
	version string
	err     error
}

type errorMsg struct {
	err error
}

// Commands
func loadStatusCmd(ctx context.Context, runner MigrationRunner) tea.Cmd {
	return func() tea.Msg {
		status, err := runner.Status(ctx)
		if err != nil {
			return errorMsg{err: err}
		}
		return statusLoadedMsg{status: status}
	}
}

func executeMigrationCmd(ctx context.Context, runner MigrationRunner, mig migration.Migration, action Action) tea.Cmd {
	return func() tea.Msg {
		return migrationExecutedMsg{
			version: mig.Version,
			err:     runner.Apply(ctx, mig, string(action)),
		}
	}
}

// plan returns the migrations to run to reach the selected version.
func (m MigrateModel) plan(version string) []migration.Migration {
	byVersion := make(map[string]migration.Migration)
	for _, mig := range m.runner.Migrations() {
		byVersion[mig.Version] = mig
	}

	var out []migration.Migration
	switch m.action {
	case ActionUp:
		for _, rec := range m.status {
			if rec.Status == migration.StatusPending {
				out = append(out, byVersion[rec.Version])
			}
			if rec.Version == version {
				break
			}
		}
	case ActionDown:
		for i := len(m.status) - 1; i >= 0; i-- {
			rec := m.status[i]
			if rec.Status == migration.StatusApplied {
				out = append(out, byVersion[rec.Version])
			}
			if rec.Version == version {
				break
			}
		}
	}
	return out
}

func (m MigrateModel) selectable(item MigrationItem) bool {
	if m.action == ActionUp {
		return item.Status == migration.StatusPending
	}
	return item.Status == migration.StatusApplied
}

func (m MigrateModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case statusLoadedMsg:
		m.status = msg.status
		items := make([]list.Item, len(msg.status))
		for i, rec := range msg.status {
			items[i] = newMigrationItem(rec)
		}
		return m, m.list.SetItems(items)

	case confirmResultMsg:
		if !msg.confirmed {
			m.mode = ModeList
			return m, nil
		}
		m.mode = ModeExecuting
		m.progress = ProgressView{
			Total:   len(m.queue),
			Message: fmt.Sprintf("Executing: %s - %s", m.queue[0].Version, m.queue[0].Name),
		}
		return m, executeMigrationCmd(m.ctx, m.runner, m.queue[0], m.action)

	case migrationExecutedMsg:
		if msg.err != nil {
			m.mode = ModeError
			m.err = msg.err
			m.logs.AddLog(errorStyle.Render("Failed: " + msg.version + " - " + msg.err.Error()))
			return m, nil
		}

		m.logs.AddLog(successStyle.Render("✓ Completed: " + msg.version))
		m.progress.Current++

		if m.progress.Current >= m.progress.Total {
			m.mode = ModeComplete
			return m, nil
		}

		next := m.queue[m.progress.Current]
		m.progress.Message = fmt.Sprintf("Executing: %s - %s", next.Version, next.Name)
		return m, executeMigrationCmd(m.ctx, m.runner, next, m.action)

	case errorMsg:
		m.mode = ModeError
		m.err = msg.err
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case ModeList:
			if m.list.FilterState() == list.Filtering {
				break
			}
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit

			case "enter", " ":
				item, ok := m.list.SelectedItem().(MigrationItem)
				if !ok || !m.selectable(item) {
					return m, nil
				}

				m.queue = m.plan(item.Version)
				m.confirmation = NewConfirmationDialog(
					fmt.Sprintf("Confirm Migration %s", strings.ToUpper(string(m.action))),
					fmt.Sprintf("Are you sure you want to %s %d migration(s) through:\n%s - %s",
						m.action, len(m.queue), item.Version, item.Name),
				)
				m.mode = ModeConfirm
				return m, nil
			}

		case ModeConfirm:
			if msg.String() == "ctrl+c" || msg.String() == "q" {
				m.mode = ModeList
				return m, nil
			}
			return m, m.confirmation.Update(msg)

		case ModeComplete, ModeError:
			switch msg.String() {
			case "ctrl+c", "q", "enter":
				return m, tea.Quit
			}
			return m, nil

		case ModeExecuting:
			return m, nil
		}
	}

	if m.mode == ModeList {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m MigrateModel) View() string {
	switch m.mode {
	case ModeList:
		help := helpStyle.Render(
			FormatKey("↑/↓", "navigate") + " • " +
				FormatKey("enter", "execute") + " • " +
				FormatKey("q", "quit"),
		)
		return lipgloss.JoinVertical(lipgloss.Left,
			m.list.View(),
			help,
		)

	case ModeConfirm:
		return m.center(m.confirmation.View())

	case ModeExecuting:
		return m.center(lipgloss.JoinVertical(
			lipgloss.Left,
			m.progress.View(),
			"\n",
			m.logs.View(),
		))

	case ModeComplete:
		return m.center(boxStyle.Render(
			titleStyle.Render("Migration Complete!") + "\n\n" +
				successStyle.Render(fmt.Sprintf("Successfully executed %d migration(s)", m.progress.Total)) + "\n\n" +
				helpStyle.Render(FormatKey("enter/q", "exit")),
		))

	case ModeError:
		return m.center(dangerBoxStyle.Render(
			titleStyle.Render("Migration Failed") + "\n\n" +
				errorStyle.Render(m.err.Error()) + "\n\n" +
				helpStyle.Render(FormatKey("enter/q", "exit")),
		))
	}

	return "Unknown mode"
}

func (m MigrateModel) center(s string) string {
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, s)
}

// Err returns the failure that ended the session, if any.
func (m MigrateModel) Err() error {
	return m.err
}

// RunMigrateUI starts the interactive migration UI
func RunMigrateUI(ctx context.Context, action Action, runner MigrationRunner) error {
	final, err := tea.NewProgram(NewMigrateModel(ctx, action, runner)).Run()
	if err != nil {
		return err
	}
	return final.(MigrateModel).Err()
}
