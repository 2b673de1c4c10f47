package styles

import (
	"fmt"
	"os"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/lipgloss"

	"github.com/imgajeed76/pgaccess/internal/util"
)

// Symbols - Unicode with ASCII fallbacks
const (
	SymbolSuccess = "✓"
	SymbolError   = "✗"
	SymbolWarning = "⚠"
	SymbolArrow   = "→"
	SymbolAsc     = "▲"
	SymbolDesc    = "▼"
)

var (
	forceNoColor    atomic.Bool
	forceAccessible atomic.Bool
)

// SetNoColor disables colors regardless of the environment (--no-color).
func SetNoColor(v bool) { forceNoColor.Store(v) }

// SetAccessible enables accessibility mode regardless of the environment.
func SetAccessible(v bool) { forceAccessible.Store(v) }

// NoColor checks if colors should be disabled
func NoColor() bool {
	return forceNoColor.Load() || os.Getenv("NO_COLOR") != "" || os.Getenv("PGACCESS_NO_COLOR") != ""
}

// IsAccessible checks if accessibility mode is enabled
// When enabled: no animations, no spinner, plain tables
func IsAccessible() bool {
	v := os.Getenv("PGACCESS_ACCESSIBLE")
	return forceAccessible.Load() || v == "1" || v == "true"
}

// Base text styles
var (
	Bold      = lipgloss.NewStyle().Bold(true)
	Dim       = lipgloss.NewStyle().Foreground(Muted)
	Underline = lipgloss.NewStyle().Underline(true)
)

// Semantic styles - use these instead of raw colors
var (
	SuccessStyle = lipgloss.NewStyle().Foreground(Success)
	ErrorStyle   = lipgloss.NewStyle().Foreground(Error)
	WarningStyle = lipgloss.NewStyle().Foreground(Warning)
	InfoStyle    = lipgloss.NewStyle().Foreground(Info)
	MutedStyle   = lipgloss.NewStyle().Foreground(Muted)

	IDStyle       = lipgloss.NewStyle().Foreground(ColorID)
	BadgeStyle    = lipgloss.NewStyle().Foreground(ColorBadge).Bold(true)
	SkeletonStyle = lipgloss.NewStyle().Foreground(ColorSkeleton)
	DateStyle     = lipgloss.NewStyle().Foreground(Muted)

	DiffAdd    = lipgloss.NewStyle().Foreground(ColorDiffAdd).Underline(true)
	DiffRemove = lipgloss.NewStyle().Foreground(ColorDiffRemove).Strikethrough(true)

	// Interactive TUI
	SelectedStyle = lipgloss.NewStyle().
			Background(BgHighlight).
			Foreground(TextPrimary)

	AlertStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Error).
			Foreground(Error).
			Padding(0, 1)

	DialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Accent).
			Padding(1, 2)

	// Help bar
	HelpKey   = lipgloss.NewStyle().Foreground(Accent)
	HelpValue = lipgloss.NewStyle().Foreground(Muted)
)

// ═══════════════════════════════════════════════════════════════════════════
// Render functions - centralized formatting with NoColor support
// ═══════════════════════════════════════════════════════════════════════════

// Render applies a style if colors are enabled
func Render(s lipgloss.Style, text string) string {
	if NoColor() {
		return text
	}
	return s.Render(text)
}

// ID formats an entity id, optionally shortened
func ID(id string, short bool) string {
	if short {
		id = util.ShortID(id)
	}
	return Render(IDStyle, id)
}

// Badge formats a badge such as [Default]
func Badge(text string) string {
	return Render(BadgeStyle, text)
}

// Date formats a date
func Date(date string) string {
	return Render(DateStyle, date)
}

// Diff renders an inline diff, deletions struck through and insertions
// underlined. Without colors it falls back to [-x-]{+y+} markers.
func Diff(segs []util.DiffSegment) string {
	if NoColor() {
		return util.PlainDiff(segs)
	}
	var sb strings.Builder
	for _, s := range segs {
		switch s.Op {
		case util.DiffInsert:
			sb.WriteString(DiffAdd.Render(s.Text))
		case util.DiffDelete:
			sb.WriteString(DiffRemove.Render(s.Text))
		default:
			sb.WriteString(s.Text)
		}
	}
	return sb.String()
}

// ═══════════════════════════════════════════════════════════════════════════
// Message formatters - structured output
// ═══════════════════════════════════════════════════════════════════════════

// SuccessMsg formats a success message with checkmark
func SuccessMsg(msg string) string {
	symbol := SymbolSuccess
	if NoColor() {
		symbol = "+"
	}
	return fmt.Sprintf("%s %s", Render(SuccessStyle, symbol), msg)
}

// ErrorMsg formats an error message
func ErrorMsg(title string) string {
	return Render(ErrorStyle, "Error: "+title)
}

// WarningMsg formats a warning message
func WarningMsg(msg string) string {
	symbol := SymbolWarning
	if NoColor() {
		symbol = "!"
	}
	return fmt.Sprintf("%s %s", Render(WarningStyle, symbol), msg)
}

// MutedMsg formats muted/secondary text
func MutedMsg(msg string) string {
	return Render(MutedStyle, msg)
}

// SectionHeader formats a section header
func SectionHeader(title string) string {
	return Render(Bold, title)
}

// HelpLine formats a help line (key description)
func HelpLine(key, description string) string {
	return fmt.Sprintf("  %s %s", Render(HelpKey, key), Render(MutedStyle, description))
}

// Indent returns text indented by n spaces
func Indent(text string, n int) string {
	prefix := strings.Repeat(" ", n)
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = prefix + line
		}
	}
	return strings.Join(lines, "\n")
}

func Mute(s string) string      { return Render(MutedStyle, s) }
func Red(s string) string       { return Render(ErrorStyle, s) }
func Green(s string) string     { return Render(SuccessStyle, s) }
func ErrorText(s string) string { return Render(ErrorStyle, s) }

func Mutef(format string, a ...any) string    { return Mute(fmt.Sprintf(format, a...)) }
func Successf(format string, a ...any) string { return Green(fmt.Sprintf(format, a...)) }
func Warningf(format string, a ...any) string { return Render(WarningStyle, fmt.Sprintf(format, a...)) }
func Boldf(format string, a ...any) string    { return Render(Bold, fmt.Sprintf(format, a...)) }
func Errorf(format string, a ...any) string   { return ErrorText(fmt.Sprintf(format, a...)) }
