package models

// Brightness bounds. 100 means no dimming.
const (
	MinBrightness = 0
	MaxBrightness = 100
)

// Defaults used when no settings file exists or it cannot be parsed.
const (
	DefaultBrightness = 70
	DefaultMaxAlpha   = 0.9
)

// Settings holds the user-configurable application settings.
// These are stored in settings.yaml under the user's config directory.
type Settings struct {
	Brightness int             `yaml:"brightness"`
	Color      Color           `yaml:"color"`
	AutoStart  bool            `yaml:"autostart"`
	MaxAlpha   float64         `yaml:"max_alpha"`
	Monitors   MonitorProfiles `yaml:"monitors,omitempty"`
}

// DefaultSettings returns the settings used on first launch.
func DefaultSettings() Settings {
	return Settings{
		Brightness: DefaultBrightness,
		Color:      Black,
		AutoStart:  false,
		MaxAlpha:   DefaultMaxAlpha,
	}
}

// Normalize clamps every field into its valid range and drops empty
// monitor profiles.
func (s Settings) Normalize() Settings {
	s.Brightness = ClampBrightness(s.Brightness)
	if s.MaxAlpha < 0 {
		s.MaxAlpha = 0
	}
	if s.MaxAlpha > 1 {
		s.MaxAlpha = 1
	}

	if len(s.Monitors) == 0 {
		s.Monitors = nil
		return s
	}
	profiles := make(MonitorProfiles, len(s.Monitors))
	for id, p := range s.Monitors {
		if p.Brightness != nil {
			b := ClampBrightness(*p.Brightness)
			p.Brightness = &b
		}
		if p.IsZero() {
			continue
		}
		profiles[id] = p
	}
	if len(profiles) == 0 {
		profiles = nil
	}
	s.Monitors = profiles
	return s
}

// Clone returns a deep copy so callers can mutate the monitor map freely.
func (s Settings) Clone() Settings {
	if s.Monitors == nil {
		return s
	}
	profiles := make(MonitorProfiles, len(s.Monitors))
	for id, p := range s.Monitors {
		if p.Brightness != nil {
			b := *p.Brightness
			p.Brightness = &b
		}
		profiles[id] = p
	}
	s.Monitors = profiles
	return s
}

// ClampBrightness limits b to [MinBrightness, MaxBrightness].
func ClampBrightness(b int) int {
	if b < MinBrightness {
		return MinBrightness
	}
	if b > MaxBrightness {
		return MaxBrightness
	}
	return b
}
