package plugin

import "fmt"

// DuplicateError is returned when a second plugin is registered under an
// identifier that is already taken. The registry keeps the first registration.
type DuplicateError struct {
	ID string
}

func (e DuplicateError) Error() string {
	return fmt.Sprintf("plugin '%s' is already registered\nHint: plugin identifiers must be unique per process", e.ID)
}

// NotFoundError is returned by operations that require an existing plugin.
// Plain queries report absence without an error; see Registry.Get.
type NotFoundError struct {
	ID string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("plugin '%s' not found in registry\nHint: ensure the plugin is registered before usage", e.ID)
}

// LoadError wraps a failure to construct or register a plugin during the load
// batch. Loading is fail-fast: the first LoadError aborts the batch, since a
// half-loaded plugin set is a fatal configuration error.
type LoadError struct {
	ID  string
	Err error
}

func (e *LoadError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("failed to load plugin '%s'", e.ID)
	}
	return fmt.Sprintf("failed to load plugin '%s': %v", e.ID, e.Err)
}

// Unwrap exposes the underlying cause.
func (e *LoadError) Unwrap() error {
	return e.Err
}

// Is matches any LoadError regardless of plugin identifier.
func (e *LoadError) Is(target error) bool {
	_, ok := target.(*LoadError)
	return ok
}

// InitializeError wraps a plugin's Initialize failure. Initialization is
// fail-fast: remaining plugins are not initialized, because registration
// order may carry dependencies between plugins.
type InitializeError struct {
	ID  string
	Err error
}

func (e *InitializeError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("failed to initialize plugin '%s'", e.ID)
	}
	return fmt.Sprintf("failed to initialize plugin '%s': %v", e.ID, e.Err)
}

// Unwrap exposes the underlying cause.
func (e *InitializeError) Unwrap() error {
	return e.Err
}

// Is matches any InitializeError regardless of plugin identifier.
func (e *InitializeError) Is(target error) bool {
	_, ok := target.(*InitializeError)
	return ok
}
