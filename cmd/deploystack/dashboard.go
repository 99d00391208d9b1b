package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/deploystackio/deploystack-sub002/internal/plugin"
	"github.com/deploystackio/deploystack-sub002/internal/tui"
	"github.com/deploystackio/deploystack-sub002/internal/tui/dashboard"
)

func newDashboardCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Launch the interactive dashboard",
		Long:  `Launch the interactive TUI dashboard rendered from UI plugin contributions.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDashboard(cmd, flags)
		},
	}

	return cmd
}

func runDashboard(cmd *cobra.Command, flags *rootFlags) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("the dashboard requires an interactive terminal")
	}

	app, err := newAppContext(flags)
	if err != nil {
		return err
	}

	host := tui.NewHost(tui.Config{
		Factories: plugin.Builtins(plugin.RealmDashboard),
		Options:   app.Config.Plugins,
		Logger:    app.Logger,
	})

	model := dashboard.NewModel(host.Extensions(), host.Router())
	program := tea.NewProgram(model, tea.WithAltScreen())

	unsubscribe, err := startDashboardHost(cmd.Context(), host, program)
	if err != nil {
		return fmt.Errorf("start dashboard host: %w", err)
	}
	defer unsubscribe()

	_, runErr := program.Run()

	if err := host.Shutdown(cmd.Context()); err != nil {
		app.Logger.Error(err, "dashboard shutdown")
	}
	return runErr
}

// startDashboardHost starts the frontend host, then forwards contribution
// changes to the program. The subscription is installed only after Start:
// plugins register contributions during Initialize, and program.Send blocks
// until the event loop runs, so notifying it that early would stall startup.
// Contributions present at start are picked up by the first render; the
// forward itself runs detached so a stopped loop can never block a mutation.
func startDashboardHost(ctx context.Context, host *tui.Host, program *tea.Program) (func(), error) {
	if err := host.Start(ctx, program); err != nil {
		return nil, err
	}

	unsubscribe := host.Extensions().Subscribe(func(point string) {
		go program.Send(dashboard.RefreshMsg{Point: point})
	})
	return unsubscribe, nil
}
