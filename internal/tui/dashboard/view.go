package dashboard

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/deploystackio/deploystack-sub002/internal/tui"
)

// View renders the dashboard by filling each slot with the contributions
// registered for its extension point.
func (m Model) View() string {
	if !m.ready {
		return m.spinner.View() + " loading dashboard..."
	}

	sidebarWidth := m.width / 4
	if sidebarWidth < 20 {
		sidebarWidth = 20
	}
	mainWidth := m.width - sidebarWidth - 4

	title := titleStyle.Render("DeployStack") + "  " +
		viewNameStyle.Render(m.router.Current())

	header := headerStyle.Width(m.width).Render(
		title + "\n" + m.renderPoint(tui.PointHeader, m.width),
	)

	main := lipgloss.NewStyle().Width(mainWidth).Render(
		m.renderPoint(tui.PointMain, mainWidth),
	)
	sidebar := sidebarStyle.Width(sidebarWidth).Render(
		m.renderPoint(tui.PointSidebar, sidebarWidth-3),
	)
	body := lipgloss.JoinHorizontal(lipgloss.Top, main, sidebar)

	footer := footerStyle.Width(m.width).Render(
		m.renderPoint(tui.PointFooter, m.width) + "\n" +
			emptyStyle.Render("q: quit"),
	)

	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

// renderPoint concatenates the fragments contributed to a point, in the
// store's order. An empty point renders a muted placeholder.
func (m Model) renderPoint(point string, width int) string {
	contributions := m.extensions.Get(point)
	if len(contributions) == 0 {
		return emptyStyle.Render("(no plugins)")
	}

	parts := make([]string, 0, len(contributions))
	for _, c := range contributions {
		parts = append(parts, c.Component.Render(width))
	}
	return strings.Join(parts, "\n")
}
