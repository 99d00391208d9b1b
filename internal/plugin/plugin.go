package plugin

import "context"

// Capabilities is the host-provided capability bridge handed to each plugin's
// Initialize call. The backend and frontend hosts supply their own concrete
// bridges; plugins assert to the type their host provides.
type Capabilities interface {
	// Validate reports an error naming the first missing required capability.
	// The lifecycle manager refuses to initialize plugins until it passes.
	Validate() error
}

// Plugin is the contract every DeployStack plugin satisfies. A plugin is
// registered once per process and initialized at most once (the backend's
// late-database hand-off is a distinct hook, see DatabaseAware in the server
// package).
type Plugin interface {
	// Descriptor returns the plugin's static identity metadata.
	Descriptor() Descriptor

	// Initialize is called once, in registration order, with the host's
	// capability bridge. Plugins register their routes, tables, settings or
	// extension contributions here. An error aborts initialization of all
	// remaining plugins.
	Initialize(ctx context.Context, caps Capabilities) error
}

// Cleaner is implemented by plugins that need teardown. Cleanup runs for every
// registered plugin during shutdown, enabled or not; failures are logged and
// never stop the shutdown sequence.
type Cleaner interface {
	Cleanup(ctx context.Context) error
}

// Factory constructs a plugin instance. Discovery resolves an injected list of
// factories at startup rather than scanning the filesystem.
type Factory func() Plugin
