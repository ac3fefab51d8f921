package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/swdee/go-tactical/pitch"
)

// maxFileSize is the largest configuration file accepted
const maxFileSize = 1 * 1024 * 1024 // 1MB

// Config holds the analysis settings.  Every field is optional, the Get*
// methods return defaults for fields omitted from the JSON file.
type Config struct {
	// Keypoints and projection
	KeypointSchema     *string  `json:"keypoint_schema,omitempty"`
	KeypointConfidence *float64 `json:"keypoint_confidence,omitempty"`
	MinKeypoints       *int     `json:"min_keypoints,omitempty"`
	MinSpread          *float64 `json:"min_spread,omitempty"`
	FullFieldApprox    *bool    `json:"full_field_approx,omitempty"`
	FlipX              *bool    `json:"flip_x,omitempty"`
	FlipY              *bool    `json:"flip_y,omitempty"`
	// PitchMargin in meters around the pitch within which projected
	// players are kept
	PitchMargin *float64 `json:"pitch_margin,omitempty"`

	// Tracker
	HistorySize    *int     `json:"history_size,omitempty"`
	TrendWindow    *int     `json:"trend_window,omitempty"`
	TrendScale     *float64 `json:"trend_scale,omitempty"`
	Team1Direction *string  `json:"team1_direction,omitempty"`
	Team2Direction *string  `json:"team2_direction,omitempty"`

	// Smoothing and trails
	Smoothing   *bool `json:"smoothing,omitempty"`
	TrailLength *int  `json:"trail_length,omitempty"`

	// Radar
	RadarScale         *float64 `json:"radar_scale,omitempty"`
	RadarPadding       *int     `json:"radar_padding,omitempty"`
	RadarAlpha         *float64 `json:"radar_alpha,omitempty"`
	RadarWidthFraction *float64 `json:"radar_width_fraction,omitempty"`
	RadarPlacement     *string  `json:"radar_placement,omitempty"`
	RadarMargin        *int     `json:"radar_margin,omitempty"`

	// Run
	FPS     *float64 `json:"fps,omitempty"`
	Workers *int     `json:"workers,omitempty"`
}

// Helper functions to create pointers
func ptrFloat64(v float64) *float64 { return &v }
func ptrBool(v bool) *bool          { return &v }
func ptrString(v string) *string    { return &v }
func ptrInt(v int) *int             { return &v }

// placements lists the accepted radar_placement values
var placements = map[string]bool{
	"bottom":    true,
	"center":    true,
	"top-right": true,
}

// Empty returns a Config with all fields unset
func Empty() *Config {
	return &Config{}
}

// Default returns a Config with every field set to its default value
func Default() *Config {
	return &Config{
		KeypointSchema:     ptrString("32"),
		KeypointConfidence: ptrFloat64(pitch.DefaultKeypointConfidence),
		MinKeypoints:       ptrInt(4),
		MinSpread:          ptrFloat64(0.3),
		FullFieldApprox:    ptrBool(false),
		FlipX:              ptrBool(false),
		FlipY:              ptrBool(false),
		PitchMargin:        ptrFloat64(3),
		HistorySize:        ptrInt(300),
		TrendWindow:        ptrInt(30),
		TrendScale:         ptrFloat64(1),
		Team1Direction:     ptrString(string(pitch.AttackRight)),
		Team2Direction:     ptrString(string(pitch.AttackLeft)),
		Smoothing:          ptrBool(false),
		TrailLength:        ptrInt(25),
		RadarScale:         ptrFloat64(8),
		RadarPadding:       ptrInt(50),
		RadarAlpha:         ptrFloat64(0.65),
		RadarWidthFraction: ptrFloat64(0.35),
		RadarPlacement:     ptrString("bottom"),
		RadarMargin:        ptrInt(20),
		FPS:                ptrFloat64(25),
		Workers:            ptrInt(1),
	}
}

// Load reads a Config from a JSON file.  The file must have a .json
// extension and be under 1MB.  Fields omitted from the file fall back to
// their defaults.
func Load(path string) (*Config, error) {

	cleanPath := filepath.Clean(path)

	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)

	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}

	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)

	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Empty()

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that the set configuration values are valid
func (c *Config) Validate() error {

	if c.KeypointSchema != nil {
		if _, err := pitch.SchemaByName(*c.KeypointSchema); err != nil {
			return fmt.Errorf("keypoint_schema: %w", err)
		}
	}

	if c.KeypointConfidence != nil {
		if *c.KeypointConfidence < 0 || *c.KeypointConfidence > 1 {
			return fmt.Errorf("keypoint_confidence must be between 0 and 1, got %f", *c.KeypointConfidence)
		}
	}

	if c.MinKeypoints != nil && *c.MinKeypoints < 4 {
		return fmt.Errorf("min_keypoints must be at least 4, got %d", *c.MinKeypoints)
	}

	if c.MinSpread != nil {
		if *c.MinSpread < 0 || *c.MinSpread > 1 {
			return fmt.Errorf("min_spread must be between 0 and 1, got %f", *c.MinSpread)
		}
	}

	if c.HistorySize != nil && *c.HistorySize < 1 {
		return fmt.Errorf("history_size must be positive, got %d", *c.HistorySize)
	}

	if c.TrendWindow != nil && *c.TrendWindow < 0 {
		return fmt.Errorf("trend_window must be non-negative, got %d", *c.TrendWindow)
	}

	if c.TrendScale != nil && *c.TrendScale < 0 {
		return fmt.Errorf("trend_scale must be non-negative, got %f", *c.TrendScale)
	}

	if c.PitchMargin != nil && *c.PitchMargin < 0 {
		return fmt.Errorf("pitch_margin must be non-negative, got %f", *c.PitchMargin)
	}

	for key, dir := range map[string]*string{
		"team1_direction": c.Team1Direction,
		"team2_direction": c.Team2Direction,
	} {
		if dir == nil {
			continue
		}
		if _, err := pitch.ParseDirection(*dir); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
	}

	if c.TrailLength != nil && *c.TrailLength < 0 {
		return fmt.Errorf("trail_length must be non-negative, got %d", *c.TrailLength)
	}

	if c.RadarScale != nil && *c.RadarScale <= 0 {
		return fmt.Errorf("radar_scale must be positive, got %f", *c.RadarScale)
	}

	if c.RadarPadding != nil && *c.RadarPadding < 0 {
		return fmt.Errorf("radar_padding must be non-negative, got %d", *c.RadarPadding)
	}

	if c.RadarAlpha != nil {
		if *c.RadarAlpha < 0 || *c.RadarAlpha > 1 {
			return fmt.Errorf("radar_alpha must be between 0 and 1, got %f", *c.RadarAlpha)
		}
	}

	if c.RadarWidthFraction != nil {
		if *c.RadarWidthFraction <= 0 || *c.RadarWidthFraction > 1 {
			return fmt.Errorf("radar_width_fraction must be in (0,1], got %f", *c.RadarWidthFraction)
		}
	}

	if c.RadarPlacement != nil && !placements[*c.RadarPlacement] {
		return fmt.Errorf("radar_placement must be bottom, center or top-right, got %q", *c.RadarPlacement)
	}

	if c.RadarMargin != nil && *c.RadarMargin < 0 {
		return fmt.Errorf("radar_margin must be non-negative, got %d", *c.RadarMargin)
	}

	if c.FPS != nil && *c.FPS <= 0 {
		return fmt.Errorf("fps must be positive, got %f", *c.FPS)
	}

	if c.Workers != nil && *c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", *c.Workers)
	}

	return nil
}
