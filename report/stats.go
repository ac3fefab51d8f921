package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/swdee/go-tactical/formation"
	"github.com/swdee/go-tactical/metrics"
	"github.com/swdee/go-tactical/team"
)

// ErrLegacyStatsFormat is returned when a stats file lacks one of the
// required top level keys.  Such files come from older versions and must be
// regenerated rather than partially read.
var ErrLegacyStatsFormat = errors.New("legacy stats format")

// RequiredKeys are the top level keys every stats file must contain
var RequiredKeys = []string{
	"total_frames",
	"duration_seconds",
	"formations",
	"metrics",
	"timeline",
}

// MatchStats is the end of run report of a processed match
type MatchStats struct {
	TotalFrames     int                                   `json:"total_frames"`
	DurationSeconds float64                               `json:"duration_seconds"`
	Formations      team.PerTeam[formation.Summary]       `json:"formations"`
	Metrics         team.PerTeam[map[string]metrics.Stat] `json:"metrics"`
	Timeline        team.PerTeam[metrics.Timeline]        `json:"timeline"`
}

// Build assembles the match report from each team's metrics tracker and
// formation tally
func Build(totalFrames int, durationSeconds float64,
	trackers team.PerTeam[*metrics.Tracker],
	tallies team.PerTeam[*formation.Tally]) MatchStats {

	return MatchStats{
		TotalFrames:     totalFrames,
		DurationSeconds: durationSeconds,
		Formations: team.Map(tallies, func(_ team.Team, tally *formation.Tally) formation.Summary {
			if tally == nil {
				return formation.NewTally().Summary()
			}
			return tally.Summary()
		}),
		Metrics: team.Map(trackers, func(_ team.Team, tr *metrics.Tracker) map[string]metrics.Stat {
			if tr == nil {
				return map[string]metrics.Stat{}
			}
			return tr.Statistics()
		}),
		Timeline: team.Map(trackers, func(_ team.Team, tr *metrics.Tracker) metrics.Timeline {
			if tr == nil {
				return metrics.Timeline{FrameNumber: []int{}, Metrics: map[string][]float64{}}
			}
			return tr.Timeline()
		}),
	}
}

// SummaryView is the report without its timeline, which is too large for
// display
type SummaryView struct {
	TotalFrames     int                                   `json:"total_frames"`
	DurationSeconds float64                               `json:"duration_seconds"`
	Formations      team.PerTeam[formation.Summary]       `json:"formations"`
	Metrics         team.PerTeam[map[string]metrics.Stat] `json:"metrics"`
}

// Summary returns the report without the timeline
func (s MatchStats) Summary() SummaryView {
	return SummaryView{
		TotalFrames:     s.TotalFrames,
		DurationSeconds: s.DurationSeconds,
		Formations:      s.Formations,
		Metrics:         s.Metrics,
	}
}

// Save writes the report as indented JSON, replacing any existing file
func Save(path string, s MatchStats) error {

	data, err := json.MarshalIndent(s, "", "  ")

	if err != nil {
		return fmt.Errorf("failed to encode stats: %w", err)
	}

	// write to a temp file in the same directory then rename so a reader
	// never sees a partial file
	tmp, err := os.CreateTemp(filepath.Dir(path), ".stats-*.json")

	if err != nil {
		return fmt.Errorf("failed to create stats file: %w", err)
	}

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write stats file: %w", err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write stats file: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to move stats file into place: %w", err)
	}

	return nil
}

// Load reads a stats file.  A file missing any of RequiredKeys returns
// ErrLegacyStatsFormat.
func Load(path string) (MatchStats, error) {

	data, err := os.ReadFile(path)

	if err != nil {
		return MatchStats{}, fmt.Errorf("failed to read stats file: %w", err)
	}

	return Decode(data)
}

// Decode parses stats file content, rejecting legacy formats
func Decode(data []byte) (MatchStats, error) {

	var s MatchStats

	missing, err := MissingKeys(data)

	if err != nil {
		return s, err
	}

	if len(missing) > 0 {
		return s, fmt.Errorf("%w: missing %v", ErrLegacyStatsFormat, missing)
	}

	dec := json.NewDecoder(bytes.NewReader(data))

	if err := dec.Decode(&s); err != nil {
		return s, fmt.Errorf("failed to parse stats file: %w", err)
	}

	return s, nil
}

// MissingKeys returns the required top level keys absent from the stats
// content
func MissingKeys(data []byte) ([]string, error) {

	var raw map[string]json.RawMessage

	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse stats file: %w", err)
	}

	var missing []string

	for _, k := range RequiredKeys {
		if _, ok := raw[k]; !ok {
			missing = append(missing, k)
		}
	}

	return missing, nil
}
