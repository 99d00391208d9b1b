// Package components provides small lipgloss helpers shared by dashboard
// plugins so their fragments look consistent.
package components

import (
	"github.com/charmbracelet/lipgloss"
)

// BadgeVariant selects a badge's color scheme.
type BadgeVariant int

const (
	BadgeDefault BadgeVariant = iota
	BadgeInfo
	BadgeSuccess
	BadgeWarning
	BadgeError
)

var badgeStyles = map[BadgeVariant]lipgloss.Style{
	BadgeDefault: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	BadgeInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true),
	BadgeSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true),
	BadgeWarning: lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),
	BadgeError:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
}

// Badge renders a short status tag.
func Badge(text string, variant BadgeVariant) string {
	style, ok := badgeStyles[variant]
	if !ok {
		style = badgeStyles[BadgeDefault]
	}
	return style.Render("[" + text + "]")
}

var (
	panelTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))
	panelBodyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
)

// Panel renders a titled block constrained to the given width.
func Panel(title, body string, width int) string {
	if width <= 0 {
		width = 40
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		panelTitleStyle.Width(width).Render(title),
		panelBodyStyle.Width(width).Render(body),
	)
}
