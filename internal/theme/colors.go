package theme

import "github.com/charmbracelet/lipgloss"

// Color is an alias for lipgloss.Color for convenience
type Color = lipgloss.Color

// Brand colors
const (
	ColorPrimary   Color = "99" // Purple - titles
	ColorSecondary Color = "86" // Cyan - ids
)

// Pull request status colors
const (
	ColorClosed Color = "1"   // Red
	ColorDraft  Color = "8"   // Gray
	ColorMerged Color = "141" // Purple
	ColorOpen   Color = "2"   // Green
)

// UI semantic colors
const (
	ColorError  Color = "196" // Bright red
	ColorMuted  Color = "241" // Gray - secondary text
	ColorNormal Color = "250" // Default text
	ColorUnread Color = "226" // Yellow
)

// Change kind colors
const (
	ColorAdded    Color = "2"   // Green
	ColorModified Color = "214" // Orange
	ColorRemoved  Color = "1"   // Red
)
