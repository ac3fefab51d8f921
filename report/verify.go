package report

import (
	"fmt"
	"os"

	"github.com/swdee/go-tactical/metrics"
	"github.com/swdee/go-tactical/team"
)

// KeyStatus records whether a required key is present
type KeyStatus struct {
	Key     string
	Present bool
}

// Verification is the result of checking a stats file's structure
type Verification struct {
	Path string
	Keys []KeyStatus
	// TimelineFrames is the number of frames in each team's timeline
	TimelineFrames team.PerTeam[int]
	// Problems lists structural issues beyond missing keys
	Problems []string
}

// OK reports whether all keys are present and no problems were found
func (v Verification) OK() bool {

	for _, k := range v.Keys {
		if !k.Present {
			return false
		}
	}

	return len(v.Problems) == 0
}

// Verify checks the structure of a stats file: every required key is
// present, each team has metric statistics, and every timeline column
// matches the length of its frame numbers
func Verify(path string) (Verification, error) {

	v := Verification{Path: path}

	data, err := os.ReadFile(path)

	if err != nil {
		return v, fmt.Errorf("failed to read stats file: %w", err)
	}

	missing, err := MissingKeys(data)

	if err != nil {
		return v, err
	}

	absent := make(map[string]bool, len(missing))

	for _, k := range missing {
		absent[k] = true
	}

	for _, k := range RequiredKeys {
		v.Keys = append(v.Keys, KeyStatus{Key: k, Present: !absent[k]})
	}

	if len(missing) > 0 {
		return v, nil
	}

	s, err := Decode(data)

	if err != nil {
		return v, err
	}

	for _, t := range team.All {
		if len(s.Metrics.Get(t)) == 0 {
			v.Problems = append(v.Problems, fmt.Sprintf("no metrics for %s", t))
		}

		tl := s.Timeline.Get(t)
		v.TimelineFrames.Set(t, tl.Len())

		if _, ok := tl.Metrics[metrics.PressureHeight]; tl.Len() > 0 && !ok {
			v.Problems = append(v.Problems, fmt.Sprintf("timeline for %s has no metric columns", t))
		}

		if !tl.Consistent() {
			v.Problems = append(v.Problems,
				fmt.Sprintf("timeline for %s has columns not matching %d frame numbers", t, tl.Len()))
		}
	}

	return v, nil
}
