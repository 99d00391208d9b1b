package plugin

// State represents the lifecycle state of the plugin manager. Transitions are
// strictly forward; no state is revisited within a process run.
type State int

const (
	// StateCreated - manager constructed, nothing discovered yet.
	StateCreated State = iota

	// StateDiscovering - factory resolution in progress.
	StateDiscovering

	// StateRegistered - all discovered plugins loaded into the registry.
	StateRegistered

	// StateInitializing - plugin Initialize calls in progress.
	StateInitializing

	// StateInitialized - every enabled plugin initialized.
	StateInitialized

	// StateShuttingDown - plugin Cleanup calls in progress.
	StateShuttingDown

	// StateStopped - shutdown complete.
	StateStopped
)

// String returns a string representation of the state.
func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateDiscovering:
		return "discovering"
	case StateRegistered:
		return "registered"
	case StateInitializing:
		return "initializing"
	case StateInitialized:
		return "initialized"
	case StateShuttingDown:
		return "shutting down"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}
