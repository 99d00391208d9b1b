package sysinfoplugin_test

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/deploystackio/deploystack-sub002/internal/logger"
	"github.com/deploystackio/deploystack-sub002/internal/plugin"
	sysinfoplugin "github.com/deploystackio/deploystack-sub002/internal/plugins/sysinfo"
	"github.com/deploystackio/deploystack-sub002/internal/tui"
)

type noopApp struct{}

func (noopApp) Send(tea.Msg) {}

func TestContributesHeaderAndSidebarFragments(t *testing.T) {
	h := tui.NewHost(tui.Config{
		Factories: []plugin.Factory{sysinfoplugin.New},
		Logger:    logger.NewNop(),
	})
	require.NoError(t, h.Start(context.Background(), noopApp{}))
	t.Cleanup(func() { _ = h.Shutdown(context.Background()) })

	header := h.Extensions().Get(tui.PointHeader)
	require.Len(t, header, 1)
	require.NotEmpty(t, header[0].Component.Render(80))

	sidebar := h.Extensions().Get(tui.PointSidebar)
	require.Len(t, sidebar, 1)
	require.Contains(t, sidebar[0].Component.Render(40), "runtime")
}

func TestShutdownPurgesFragments(t *testing.T) {
	h := tui.NewHost(tui.Config{
		Factories: []plugin.Factory{sysinfoplugin.New},
		Logger:    logger.NewNop(),
	})
	require.NoError(t, h.Start(context.Background(), noopApp{}))
	require.NoError(t, h.Shutdown(context.Background()))

	require.Empty(t, h.Extensions().Get(tui.PointHeader))
	require.Empty(t, h.Extensions().Get(tui.PointSidebar))
}
