package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/renato0307/prcache/internal/domain"
)

// Main CLI styles
var (
	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true)

	IDStyle = lipgloss.NewStyle().
		Foreground(ColorSecondary)

	MutedStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	NormalStyle = lipgloss.NewStyle().
			Foreground(ColorNormal)

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	UnreadStyle = lipgloss.NewStyle().
			Foreground(ColorUnread).
			Bold(true)
)

var statusStyles = map[domain.PRStatus]lipgloss.Style{
	domain.StatusClosed: lipgloss.NewStyle().Foreground(ColorClosed),
	domain.StatusDraft:  lipgloss.NewStyle().Foreground(ColorDraft),
	domain.StatusMerged: lipgloss.NewStyle().Foreground(ColorMerged),
	domain.StatusOpen:   lipgloss.NewStyle().Foreground(ColorOpen),
}

var changeStyles = map[domain.ChangeKind]lipgloss.Style{
	domain.ChangeAdded:    lipgloss.NewStyle().Foreground(ColorAdded),
	domain.ChangeModified: lipgloss.NewStyle().Foreground(ColorModified),
	domain.ChangeRemoved:  lipgloss.NewStyle().Foreground(ColorRemoved),
}

// RenderStatus colors a pull request status
func RenderStatus(s domain.PRStatus) string {
	style, ok := statusStyles[s]
	if !ok {
		style = NormalStyle
	}
	return style.Render(string(s))
}

// RenderChangeKind colors a change kind
func RenderChangeKind(k domain.ChangeKind) string {
	style, ok := changeStyles[k]
	if !ok {
		style = NormalStyle
	}
	return style.Render(string(k))
}

// UnreadMarker marks unread notifications
func UnreadMarker(read bool) string {
	if read {
		return " "
	}
	return UnreadStyle.Render("●")
}
