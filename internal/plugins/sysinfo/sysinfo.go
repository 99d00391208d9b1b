package sysinfoplugin

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/deploystackio/deploystack-sub002/internal/plugin"
	"github.com/deploystackio/deploystack-sub002/internal/tui"
	"github.com/deploystackio/deploystack-sub002/internal/tui/components"
	"github.com/deploystackio/deploystack-sub002/internal/tui/extension"
)

type sysinfoPlugin struct{}

// New creates the system information dashboard plugin.
func New() plugin.Plugin {
	return &sysinfoPlugin{}
}

func init() {
	plugin.MustRegisterBuiltin(plugin.RealmDashboard, New)
}

var _ plugin.Plugin = (*sysinfoPlugin)(nil)

func (p *sysinfoPlugin) Descriptor() plugin.Descriptor {
	return plugin.Descriptor{
		ID:          "sysinfo",
		Name:        "System Info",
		Version:     "1.0.0",
		Description: "Shows host and runtime details on the dashboard.",
		Author:      "DeployStack",
	}
}

func (p *sysinfoPlugin) Initialize(ctx context.Context, caps plugin.Capabilities) error {
	bridge, ok := caps.(*tui.Capabilities)
	if !ok {
		return fmt.Errorf("sysinfo requires the dashboard capability bridge")
	}

	store := bridge.Extensions()
	store.Register(tui.PointHeader, extension.ComponentFunc(headerLine), "sysinfo", extension.Options{Order: 10})
	store.Register(tui.PointSidebar, extension.ComponentFunc(runtimeSummary), "sysinfo", extension.Options{Order: 10})
	return nil
}

func headerLine(width int) string {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown host"
	}
	return fmt.Sprintf("%s %s", components.Badge(runtime.GOOS+"/"+runtime.GOARCH, components.BadgeInfo), hostname)
}

func runtimeSummary(width int) string {
	body := fmt.Sprintf("version %s\ncpus %d\ngoroutines %d",
		runtime.Version(), runtime.NumCPU(), runtime.NumGoroutine())
	return components.Panel("runtime", body, width)
}
