package plugin

// Options configures a single plugin from the host configuration. Options are
// looked up by plugin identifier; a plugin without an entry is enabled with an
// empty config.
type Options struct {
	// Enabled toggles the plugin. Nil means enabled.
	Enabled *bool `yaml:"enabled"`
	// Config is an opaque mapping handed to the plugin untouched.
	Config map[string]any `yaml:"config"`
}

// IsEnabled reports whether the plugin should be initialized.
func (o Options) IsEnabled() bool {
	return o.Enabled == nil || *o.Enabled
}

// OptionSet maps plugin identifiers to their options.
type OptionSet map[string]Options

// For returns the options for the given plugin identifier. Absence implies an
// enabled plugin with no configuration.
func (s OptionSet) For(id string) Options {
	if s == nil {
		return Options{}
	}
	return s[id]
}
