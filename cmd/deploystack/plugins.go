package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/deploystackio/deploystack-sub002/internal/plugin"
)

func newPluginsCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plugins",
		Short: "List compiled-in plugins",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newAppContext(flags)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "REALM\tID\tVERSION\tENABLED\tDESCRIPTION")

			realms := []plugin.Realm{plugin.RealmServer, plugin.RealmDashboard}
			for _, realm := range realms {
				if err := listRealm(w, app, realm); err != nil {
					return err
				}
			}
			return w.Flush()
		},
	}

	return cmd
}

// listRealm registers the realm's factories into a throwaway manager so the
// listing reflects exactly what a host would load.
func listRealm(w *tabwriter.Writer, app *AppContext, realm plugin.Realm) error {
	manager := plugin.NewManager(plugin.Config{
		Factories: plugin.Builtins(realm),
		Options:   app.Config.Plugins,
		Logger:    app.Logger,
	})

	discovered, err := manager.Discover()
	if err != nil {
		return err
	}
	if err := manager.Load(discovered); err != nil {
		return err
	}

	for _, p := range manager.Plugins() {
		desc := p.Descriptor()
		fmt.Fprintf(w, "%s\t%s\t%s\t%t\t%s\n",
			realm, desc.ID, desc.Version,
			app.Config.Plugins.For(desc.ID).IsEnabled(), desc.Description)
	}
	return nil
}
