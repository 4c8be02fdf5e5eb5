package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/marshallshelly/jokes-api/internal/models"
	"github.com/marshallshelly/pebble-orm/pkg/migration"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type applyCall struct {
	version   string
	direction string
}

type fakeRunner struct {
	migrations []migration.Migration
	applied    map[string]bool
	calls      []applyCall
	failOn     string
}

func newFakeRunner(applied ...string) *fakeRunner {
	r := &fakeRunner{
		migrations: []migration.Migration{
			{Version: "20250101000000", Name: "one"},
			{Version: "20250102000000", Name: "two"},
			{Version: "20250103000000", Name: "three"},
		},
		applied: map[string]bool{},
	}
	for _, v := range applied {
		r.applied[v] = true
	}
	return r
}

func (r *fakeRunner) Migrations() []migration.Migration { return r.migrations }

func (r *fakeRunner) Status(context.Context) ([]migration.MigrationRecord, error) {
	out := make([]migration.MigrationRecord, len(r.migrations))
	for i, mig := range r.migrations {
		out[i] = migration.MigrationRecord{Version: mig.Version, Name: mig.Name, Status: migration.StatusPending}
		if r.applied[mig.Version] {
			out[i].Status = migration.StatusApplied
		}
	}
	return out, nil
}

func (r *fakeRunner) Apply(_ context.Context, mig migration.Migration, direction string) error {
	r.calls = append(r.calls, applyCall{mig.Version, direction})
	if mig.Version == r.failOn {
		return errors.New("syntax error")
	}
	r.applied[mig.Version] = direction == "up"
	return nil
}

var (
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyYes   = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'y'}}
	keyNo    = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}}
)

// send applies msg and then feeds every produced message back in until the
// model goes idle. Batched and quit commands are not followed.
func send(t *testing.T, m tea.Model, msg tea.Msg) tea.Model {
	t.Helper()
	for i := 0; msg != nil && i < 20; i++ {
		var cmd tea.Cmd
		m, cmd = m.Update(msg)
		msg = nil
		if cmd != nil {
			next := cmd()
			switch next.(type) {
			case tea.BatchMsg, tea.QuitMsg, spinner.TickMsg:
			default:
				msg = next
			}
		}
	}
	return m
}

func loadedMigrateModel(t *testing.T, action Action, runner *fakeRunner) tea.Model {
	t.Helper()
	ctx := context.Background()
	var m tea.Model = NewMigrateModel(ctx, action, runner)
	m = send(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	return send(t, m, loadStatusCmd(ctx, runner)())
}

func TestMigrateUpRunsPendingThroughSelection(t *testing.T) {
	runner := newFakeRunner()
	m := loadedMigrateModel(t, ActionUp, runner)

	m = send(t, m, keyDown)
	m = send(t, m, keyEnter)
	require.Equal(t, ModeConfirm, m.(MigrateModel).mode)

	m = send(t, m, keyYes)
	assert.Equal(t, ModeComplete, m.(MigrateModel).mode)
	assert.Equal(t, []applyCall{
		{"20250101000000", "up"},
		{"20250102000000", "up"},
	}, runner.calls)
	assert.Contains(t, m.View(), "Migration Complete!")
}

func TestMigrateDownRollsBackNewestFirst(t *testing.T) {
	runner := newFakeRunner("20250101000000", "20250102000000")
	m := loadedMigrateModel(t, ActionDown, runner)

	m = send(t, m, keyEnter)
	m = send(t, m, keyYes)

	assert.Equal(t, ModeComplete, m.(MigrateModel).mode)
	assert.Equal(t, []applyCall{
		{"20250102000000", "down"},
		{"20250101000000", "down"},
	}, runner.calls)
}

func TestMigrateIgnoresUnselectableItem(t *testing.T) {
	runner := newFakeRunner("20250101000000")
	m := loadedMigrateModel(t, ActionUp, runner)

	m = send(t, m, keyEnter)
	assert.Equal(t, ModeList, m.(MigrateModel).mode)
	assert.Empty(t, runner.calls)
}

func TestMigrateCancel(t *testing.T) {
	runner := newFakeRunner()
	m := loadedMigrateModel(t, ActionUp, runner)

	m = send(t, m, keyEnter)
	m = send(t, m, keyNo)
	assert.Equal(t, ModeList, m.(MigrateModel).mode)
	assert.Empty(t, runner.calls)
}

func TestMigrateFailureStops(t *testing.T) {
	runner := newFakeRunner()
	runner.failOn = "20250101000000"
	m := loadedMigrateModel(t, ActionUp, runner)

	m = send(t, m, keyDown)
	m = send(t, m, keyDown)
	m = send(t, m, keyEnter)
	m = send(t, m, keyYes)

	mm := m.(MigrateModel)
	assert.Equal(t, ModeError, mm.mode)
	assert.EqualError(t, mm.Err(), "syntax error")
	assert.Len(t, runner.calls, 1)
}

type fakeResetter struct {
	calls int
	err   error
}

func (f *fakeResetter) Reset(context.Context) (models.ResetResult, error) {
	f.calls++
	if f.err != nil {
		return models.ResetResult{}, f.err
	}
	return models.ResetResult{
		Message:      "Database reset successfully",
		Timestamp:    time.Date(2025, 9, 28, 0, 0, 0, 0, time.UTC),
		DeletedItems: models.DeletedItems{Jokes: 3, Audiences: 2, Categories: 1},
	}, nil
}

func runReset(t *testing.T, admin *fakeResetter, key tea.KeyMsg) ResetModel {
	t.Helper()
	var m tea.Model = NewResetModel(context.Background(), admin)
	m = send(t, m, key)

	// Confirming batches the spinner with the reset, so run the reset by hand.
	rm := m.(ResetModel)
	if rm.mode == resetRunning {
		m = send(t, m, resetCmd(context.Background(), admin)())
	}
	return m.(ResetModel)
}

func TestResetConfirmed(t *testing.T) {
	admin := &fakeResetter{}
	m := runReset(t, admin, keyYes)

	assert.Equal(t, resetDone, m.mode)
	assert.Equal(t, int64(3), m.result.DeletedItems.Jokes)
	assert.Contains(t, m.View(), "Database reset successfully")
}

func TestResetDeclinedByDefault(t *testing.T) {
	admin := &fakeResetter{}
	m := runReset(t, admin, keyEnter)

	assert.True(t, m.Cancelled())
	assert.Equal(t, 0, admin.calls)
}

func TestResetFailure(t *testing.T) {
	admin := &fakeResetter{err: errors.New("deadlock detected")}
	m := runReset(t, admin, keyYes)

	assert.Equal(t, resetFailed, m.mode)
	assert.EqualError(t, m.err, "deadlock detected")
}

func TestFormatProgressBar(t *testing.T) {
	assert.Contains(t, FormatProgressBar(1, 2, 10), "1/2")
	assert.Contains(t, FormatProgressBar(0, 0, 10), "0/0")
}

func TestLogViewKeepsNewest(t *testing.T) {
	l := NewLogView(2)
	l.AddLog("a")
	l.AddLog("b")
	l.AddLog("c")
	assert.Equal(t, []string{"b", "c"}, l.Logs)
}
