package config

import "github.com/swdee/go-tactical/pitch"

// GetKeypointSchema returns the keypoint_schema value or the default.
func (c *Config) GetKeypointSchema() string {
	if c.KeypointSchema == nil {
		return "32"
	}
	return *c.KeypointSchema
}

// Schema returns the resolved keypoint schema, falling back to the 32
// point schema on an invalid name.
func (c *Config) Schema() *pitch.Schema {
	s, err := pitch.SchemaByName(c.GetKeypointSchema())
	if err != nil {
		return pitch.Schema32
	}
	return s
}

// GetKeypointConfidence returns the keypoint_confidence value or the default.
func (c *Config) GetKeypointConfidence() float64 {
	if c.KeypointConfidence == nil {
		return pitch.DefaultKeypointConfidence
	}
	return *c.KeypointConfidence
}

// GetMinKeypoints returns the min_keypoints value or the default.
func (c *Config) GetMinKeypoints() int {
	if c.MinKeypoints == nil {
		return 4
	}
	return *c.MinKeypoints
}

// GetMinSpread returns the min_spread value or the default.
func (c *Config) GetMinSpread() float64 {
	if c.MinSpread == nil {
		return 0.3
	}
	return *c.MinSpread
}

// GetFullFieldApprox returns the full_field_approx value or the default.
func (c *Config) GetFullFieldApprox() bool {
	if c.FullFieldApprox == nil {
		return false
	}
	return *c.FullFieldApprox
}

// GetFlipX returns the flip_x value or the default.
func (c *Config) GetFlipX() bool {
	return c.FlipX != nil && *c.FlipX
}

// GetFlipY returns the flip_y value or the default.
func (c *Config) GetFlipY() bool {
	return c.FlipY != nil && *c.FlipY
}

// GetHistorySize returns the history_size value or the default.
func (c *Config) GetHistorySize() int {
	if c.HistorySize == nil {
		return 300
	}
	return *c.HistorySize
}

// GetTrendWindow returns the trend_window value or the default.
func (c *Config) GetTrendWindow() int {
	if c.TrendWindow == nil {
		return 30
	}
	return *c.TrendWindow
}

// GetTrendScale returns the trend_scale value or the default.
func (c *Config) GetTrendScale() float64 {
	if c.TrendScale == nil {
		return 1
	}
	return *c.TrendScale
}

// GetPitchMargin returns the pitch_margin value or the default.
func (c *Config) GetPitchMargin() float64 {
	if c.PitchMargin == nil {
		return 3
	}
	return *c.PitchMargin
}

// GetTeam1Direction returns the team1_direction value or the default.
func (c *Config) GetTeam1Direction() pitch.Direction {
	return direction(c.Team1Direction, pitch.AttackRight)
}

// GetTeam2Direction returns the team2_direction value or the default.
func (c *Config) GetTeam2Direction() pitch.Direction {
	return direction(c.Team2Direction, pitch.AttackLeft)
}

func direction(v *string, def pitch.Direction) pitch.Direction {
	if v == nil {
		return def
	}
	d, err := pitch.ParseDirection(*v)
	if err != nil {
		return def
	}
	return d
}

// GetSmoothing returns the smoothing value or the default.
func (c *Config) GetSmoothing() bool {
	return c.Smoothing != nil && *c.Smoothing
}

// GetTrailLength returns the trail_length value or the default.
func (c *Config) GetTrailLength() int {
	if c.TrailLength == nil {
		return 25
	}
	return *c.TrailLength
}

// GetRadarScale returns the radar_scale value or the default.
func (c *Config) GetRadarScale() float64 {
	if c.RadarScale == nil {
		return 8
	}
	return *c.RadarScale
}

// GetRadarPadding returns the radar_padding value or the default.
func (c *Config) GetRadarPadding() int {
	if c.RadarPadding == nil {
		return 50
	}
	return *c.RadarPadding
}

// GetRadarAlpha returns the radar_alpha value or the default.
func (c *Config) GetRadarAlpha() float64 {
	if c.RadarAlpha == nil {
		return 0.65
	}
	return *c.RadarAlpha
}

// GetRadarWidthFraction returns the radar_width_fraction value or the default.
func (c *Config) GetRadarWidthFraction() float64 {
	if c.RadarWidthFraction == nil {
		return 0.35
	}
	return *c.RadarWidthFraction
}

// GetRadarPlacement returns the radar_placement value or the default.
func (c *Config) GetRadarPlacement() string {
	if c.RadarPlacement == nil {
		return "bottom"
	}
	return *c.RadarPlacement
}

// GetRadarMargin returns the radar_margin value or the default.
func (c *Config) GetRadarMargin() int {
	if c.RadarMargin == nil {
		return 20
	}
	return *c.RadarMargin
}

// GetFPS returns the fps value or the default.
func (c *Config) GetFPS() float64 {
	if c.FPS == nil {
		return 25
	}
	return *c.FPS
}

// GetWorkers returns the workers value or the default.
func (c *Config) GetWorkers() int {
	if c.Workers == nil {
		return 1
	}
	return *c.Workers
}
