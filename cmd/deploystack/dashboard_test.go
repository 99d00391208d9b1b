package main

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/deploystackio/deploystack-sub002/internal/logger"
	"github.com/deploystackio/deploystack-sub002/internal/plugin"
	"github.com/deploystackio/deploystack-sub002/internal/tui"
	"github.com/deploystackio/deploystack-sub002/internal/tui/dashboard"
)

// Startup must complete against a real program whose event loop has not
// started yet. Plugin Initialize calls register contributions, and a send to
// an idle program blocks forever, so the host start may never depend on
// message delivery.
func TestDashboardHostStartsBeforeProgramRuns(t *testing.T) {
	host := tui.NewHost(tui.Config{
		Factories: plugin.Builtins(plugin.RealmDashboard),
		Logger:    logger.NewNop(),
	})
	model := dashboard.NewModel(host.Extensions(), host.Router())
	program := tea.NewProgram(model, tea.WithoutRenderer())

	var unsubscribe func()
	done := make(chan error, 1)
	go func() {
		u, err := startDashboardHost(context.Background(), host, program)
		unsubscribe = u
		done <- err
	}()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("host start blocked on program message delivery")
	}

	// Both builtin dashboard plugins contributed during Initialize.
	require.NotEmpty(t, host.Extensions().Get(tui.PointMain))
	require.NotEmpty(t, host.Extensions().Get(tui.PointHeader))

	unsubscribe()
	require.NoError(t, host.Shutdown(context.Background()))
}
