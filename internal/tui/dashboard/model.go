package dashboard

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/deploystackio/deploystack-sub002/internal/tui"
	"github.com/deploystackio/deploystack-sub002/internal/tui/extension"
)

// RefreshMsg asks the dashboard to re-read an extension point. The host's
// store subscription pushes one whenever a plugin's contributions change.
type RefreshMsg struct {
	Point string
}

// Model is the dashboard bubbletea model. It owns no plugin state; every
// fragment it renders comes from the extension point store.
type Model struct {
	extensions *extension.Store
	router     *tui.Router

	spinner spinner.Model
	width   int
	height  int
	ready   bool
}

// NewModel creates a dashboard model over the host's extension store and
// view router.
func NewModel(extensions *extension.Store, router *tui.Router) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot

	return Model{
		extensions: extensions,
		router:     router,
		spinner:    s,
		width:      80,
		height:     24,
	}
}

// Init starts the spinner tick loop.
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}
