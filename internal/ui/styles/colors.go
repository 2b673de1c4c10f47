package styles

import "github.com/charmbracelet/lipgloss"

// Color palette. Dark mode optimized, semantic colors.
var (
	// Primary semantic colors
	Accent  = lipgloss.Color("#7C3AED") // violet-500 - highlights, interactive
	Success = lipgloss.Color("#10B981") // emerald-500 - success, insertions
	Warning = lipgloss.Color("#F59E0B") // amber-500 - warnings, badges
	Error   = lipgloss.Color("#EF4444") // red-500 - errors, deletions
	Info    = lipgloss.Color("#3B82F6") // blue-500 - info, ids
	Muted   = lipgloss.Color("#6B7280") // gray-500 - secondary text

	TextPrimary   = lipgloss.Color("#F9FAFB") // gray-50 - main text
	TextSecondary = lipgloss.Color("#9CA3AF") // gray-400 - descriptions

	BgHighlight = lipgloss.Color("#1F2937") // gray-800 - selected row
	BgBorder    = lipgloss.Color("#374151") // gray-700 - borders
)

// Semantic color aliases
var (
	ColorID       = Info    // Entity ids
	ColorBadge    = Warning // Default role badge
	ColorSkeleton = BgBorder

	ColorDiffAdd    = Success
	ColorDiffRemove = Error
)
