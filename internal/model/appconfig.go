package model

// AppConfig holds application-wide preferences and default settings.
type AppConfig struct {
	// Defaults applied to new projects
	DefaultRodLength         int       `json:"default_rod_length"`
	DefaultBackend           Backend   `json:"default_backend"`
	DefaultTimeLimitSeconds  float64   `json:"default_time_limit_seconds"`
	DefaultMaxAssignmentVars int       `json:"default_max_assignment_vars"`
	DefaultSlotBound         SlotBound `json:"default_slot_bound"`
	DefaultRepeatPieces      bool      `json:"default_repeat_pieces"`

	// Application preferences
	DisplayUnit     Unit     `json:"display_unit"`      // mm, cm or m
	MinOffcutLength int      `json:"min_offcut_length"` // mm, remnants shorter than this are waste
	PricePerRod     float64  `json:"price_per_rod"`
	RecentProjects  []string `json:"recent_projects"`
}

// DefaultAppConfig returns an AppConfig populated with sensible defaults
// matching the values from DefaultSettings().
func DefaultAppConfig() AppConfig {
	defaults := DefaultSettings()
	return AppConfig{
		DefaultRodLength:         DefaultRodLength,
		DefaultBackend:           defaults.Backend,
		DefaultTimeLimitSeconds:  defaults.TimeLimitSeconds,
		DefaultMaxAssignmentVars: defaults.MaxAssignmentVars,
		DefaultSlotBound:         defaults.SlotBound,
		DefaultRepeatPieces:      defaults.RepeatPieces,
		DisplayUnit:              UnitMillimeter,
		MinOffcutLength:          MinOffcutLength,
		RecentProjects:           []string{},
	}
}

// ApplyToSettings copies the default values from AppConfig into a SolveSettings struct.
// Zero values in the config leave the corresponding setting untouched.
func (c AppConfig) ApplyToSettings(s *SolveSettings) {
	if c.DefaultBackend != "" {
		s.Backend = c.DefaultBackend
	}
	if c.DefaultTimeLimitSeconds > 0 {
		s.TimeLimitSeconds = c.DefaultTimeLimitSeconds
	}
	if c.DefaultMaxAssignmentVars > 0 {
		s.MaxAssignmentVars = c.DefaultMaxAssignmentVars
	}
	if c.DefaultSlotBound != "" {
		s.SlotBound = c.DefaultSlotBound
	}
	s.RepeatPieces = c.DefaultRepeatPieces
}

// AddRecentProject moves path to the front of the recent list, keeping at most max entries.
func (c *AppConfig) AddRecentProject(path string, max int) {
	recent := []string{path}
	for _, p := range c.RecentProjects {
		if p != path {
			recent = append(recent, p)
		}
	}
	if max > 0 && len(recent) > max {
		recent = recent[:max]
	}
	c.RecentProjects = recent
}
