package plugin

import (
	"fmt"
	"sync"
)

// Realm names the host a builtin plugin targets. Server plugins receive the
// backend capability bridge, dashboard plugins the frontend one; registering
// them separately keeps a plugin from ever seeing the wrong bridge.
type Realm string

const (
	RealmServer    Realm = "server"
	RealmDashboard Realm = "dashboard"
)

var (
	builtinMu sync.Mutex
	builtins  map[Realm][]Factory
)

// RegisterBuiltin records a factory for a plugin compiled into the binary.
// Builtin plugin packages call this from init(); the cmd package pulls them in
// with blank imports. The manager receives the resulting list explicitly, so
// discovery stays an injected set of factories rather than a runtime scan.
func RegisterBuiltin(realm Realm, f Factory) error {
	if realm != RealmServer && realm != RealmDashboard {
		return fmt.Errorf("unknown builtin plugin realm %q", realm)
	}
	if f == nil {
		return fmt.Errorf("builtin plugin factory is nil")
	}

	builtinMu.Lock()
	defer builtinMu.Unlock()

	if builtins == nil {
		builtins = make(map[Realm][]Factory)
	}
	builtins[realm] = append(builtins[realm], f)
	return nil
}

// MustRegisterBuiltin panics when the factory is invalid. Intended for init().
func MustRegisterBuiltin(realm Realm, f Factory) {
	if err := RegisterBuiltin(realm, f); err != nil {
		panic(err)
	}
}

// Builtins returns a snapshot of the realm's registered factories in
// registration order.
func Builtins(realm Realm) []Factory {
	builtinMu.Lock()
	defer builtinMu.Unlock()

	out := make([]Factory, len(builtins[realm]))
	copy(out, builtins[realm])
	return out
}

// ResetBuiltins clears builtin factory registrations (for tests).
func ResetBuiltins() {
	builtinMu.Lock()
	defer builtinMu.Unlock()
	builtins = nil
}
