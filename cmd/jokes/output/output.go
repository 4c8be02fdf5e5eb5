// Package output prints styled, human-facing CLI messages.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/marshallshelly/jokes-api/internal/models"
	"github.com/marshallshelly/pebble-orm/pkg/migration"
)

// Writer receives every message. Tests swap it for a buffer.
var Writer io.Writer = os.Stdout

var (
	colorSuccess = lipgloss.Color("#10B981")
	colorWarning = lipgloss.Color("#F59E0B")
	colorError   = lipgloss.Color("#EF4444")
	colorInfo    = lipgloss.Color("#3B82F6")
	colorMuted   = lipgloss.Color("#6B7280")
	colorPrimary = lipgloss.Color("#7C3AED")

	successStyle = lipgloss.NewStyle().Foreground(colorSuccess).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(colorWarning).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(colorError).Bold(true)
	infoStyle    = lipgloss.NewStyle().Foreground(colorInfo)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	primaryStyle = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true)
)

func line(icon, format string, args ...interface{}) {
	_, _ = fmt.Fprintf(Writer, "%s %s\n", icon, fmt.Sprintf(format, args...))
}

func Success(format string, args ...interface{}) { line(successStyle.Render("✓"), format, args...) }
func Warning(format string, args ...interface{}) { line(warningStyle.Render("⚠"), format, args...) }
func Error(format string, args ...interface{})   { line(errorStyle.Render("✗"), format, args...) }
func Info(format string, args ...interface{})    { line(infoStyle.Render("ℹ"), format, args...) }

// Muted prints a dimmed line.
func Muted(format string, args ...interface{}) {
	_, _ = fmt.Fprintln(Writer, mutedStyle.Render(fmt.Sprintf(format, args...)))
}

// Section prints an underlined header surrounded by blank lines.
func Section(title string) {
	_, _ = fmt.Fprintf(Writer, "\n%s\n%s\n\n",
		primaryStyle.Render(title),
		mutedStyle.Render(strings.Repeat("═", lipgloss.Width(title))),
	)
}

// StatusIcon returns a colored icon for a migration status.
func StatusIcon(status migration.MigrationStatus) string {
	switch status {
	case migration.StatusApplied:
		return successStyle.Render("✓")
	case migration.StatusPending:
		return warningStyle.Render("○")
	case migration.StatusFailed:
		return errorStyle.Render("✗")
	default:
		return mutedStyle.Render("•")
	}
}

// Migration prints one migration as an indented list entry.
func Migration(status migration.MigrationStatus, mig migration.Migration) {
	_, _ = fmt.Fprintf(Writer, "  %s %s - %s\n", StatusIcon(status), mig.Version, mig.Name)
}

// ResetSummary prints the per-entity counts of a reset.
func ResetSummary(result models.ResetResult) {
	Success("%s at %s", result.Message, result.Timestamp.Format("2006-01-02 15:04:05 MST"))
	Muted("  jokes:      %d", result.DeletedItems.Jokes)
	Muted("  audiences:  %d", result.DeletedItems.Audiences)
	Muted("  categories: %d", result.DeletedItems.Categories)
}

// JSON writes v as indented JSON.
func JSON(v interface{}) error {
	enc := json.NewEncoder(Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
