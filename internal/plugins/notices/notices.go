package noticesplugin

import (
	"context"
	"fmt"

	"github.com/deploystackio/deploystack-sub002/internal/plugin"
	"github.com/deploystackio/deploystack-sub002/internal/tui"
	"github.com/deploystackio/deploystack-sub002/internal/tui/components"
	"github.com/deploystackio/deploystack-sub002/internal/tui/extension"
)

// Notice is a short message pinned to a dashboard extension point. Lower
// orders render first within a point.
type Notice struct {
	Point string
	Text  string
	Order int
}

type noticesPlugin struct {
	notices []Notice
}

// New creates the notices plugin with its standard announcements.
func New() plugin.Plugin {
	return &noticesPlugin{notices: defaultNotices()}
}

// NewWith creates a notices plugin carrying the given notices. Used by hosts
// that inject announcements at startup.
func NewWith(notices []Notice) plugin.Plugin {
	return &noticesPlugin{notices: notices}
}

func init() {
	plugin.MustRegisterBuiltin(plugin.RealmDashboard, New)
}

var _ plugin.Plugin = (*noticesPlugin)(nil)

func defaultNotices() []Notice {
	return []Notice{
		{Point: tui.PointMain, Text: "Welcome to DeployStack.", Order: 0},
		{Point: tui.PointMain, Text: "Connect a database from the setup page to persist state.", Order: 5},
		{Point: tui.PointFooter, Text: "docs: https://deploystack.io/docs", Order: 0},
	}
}

func (p *noticesPlugin) Descriptor() plugin.Descriptor {
	return plugin.Descriptor{
		ID:          "notices",
		Name:        "Notices",
		Version:     "1.0.0",
		Description: "Pins announcements to dashboard extension points.",
		Author:      "DeployStack",
	}
}

func (p *noticesPlugin) Initialize(ctx context.Context, caps plugin.Capabilities) error {
	bridge, ok := caps.(*tui.Capabilities)
	if !ok {
		return fmt.Errorf("notices requires the dashboard capability bridge")
	}

	store := bridge.Extensions()
	for _, notice := range p.notices {
		text := notice.Text
		store.Register(notice.Point, extension.ComponentFunc(func(width int) string {
			return components.Badge("notice", components.BadgeInfo) + " " + text
		}), "notices", extension.Options{Order: notice.Order})
	}
	return nil
}
