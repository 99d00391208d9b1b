package server

import (
	"context"

	"github.com/deploystackio/deploystack-sub002/internal/database"
	"github.com/deploystackio/deploystack-sub002/internal/settings"
)

// Backend plugins declare optional capabilities through these interfaces. The
// host queries each one explicitly before initialization instead of plugins
// mutating shared state as a side effect.

// TableContributor declares database tables the plugin persists into. The
// host ensures the tables exist before the plugin initializes, or as soon as
// a database is attached.
type TableContributor interface {
	Tables() []database.TableSpec
}

// SettingsContributor declares global settings the plugin exposes to admins.
// Definitions are registered before the plugin initializes.
type SettingsContributor interface {
	Settings() []settings.Definition
}

// DatabaseAware is the distinct re-initialization hook for plugins that care
// about a database arriving after boot. It is a side call against an
// already-initialized plugin; the general Initialize call is never replayed.
type DatabaseAware interface {
	AttachDatabase(ctx context.Context, db *database.DB) error
}
