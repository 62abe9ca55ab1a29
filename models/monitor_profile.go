package models

// MonitorProfile stores per-monitor overrides. Only fields that differ
// from the global settings are kept; color is always global.
type MonitorProfile struct {
	Brightness *int `yaml:"brightness,omitempty"`
	Disabled   bool `yaml:"disabled,omitempty"`
}

// IsZero reports whether the profile carries no override at all.
func (p MonitorProfile) IsZero() bool {
	return p.Brightness == nil && !p.Disabled
}

// MonitorProfiles maps a monitor ID (the output name, e.g. "HDMI-1") to its
// overrides. E.g. { "HDMI-1": {Brightness: 40}, "eDP-1": {Disabled: true} }
type MonitorProfiles map[string]MonitorProfile
