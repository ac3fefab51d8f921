package metrics

import (
	"encoding/json"
	"fmt"
)

// FrameNumberKey is the timeline key holding frame numbers
const FrameNumberKey = "frame_number"

// Timeline is the column oriented export of a tracker's history.  Every
// metric slice is parallel to FrameNumber.
type Timeline struct {
	FrameNumber []int
	Metrics     map[string][]float64
}

// Len returns the number of frames in the timeline
func (tl Timeline) Len() int {
	return len(tl.FrameNumber)
}

// Consistent reports whether every metric column has the same length as
// the frame numbers
func (tl Timeline) Consistent() bool {

	for _, v := range tl.Metrics {
		if len(v) != len(tl.FrameNumber) {
			return false
		}
	}

	return true
}

// MarshalJSON flattens the timeline into a single object keyed by
// frame_number and the metric names
func (tl Timeline) MarshalJSON() ([]byte, error) {

	out := make(map[string]any, len(tl.Metrics)+1)

	frames := tl.FrameNumber
	if frames == nil {
		frames = []int{}
	}

	out[FrameNumberKey] = frames

	for k, v := range tl.Metrics {
		if v == nil {
			v = []float64{}
		}
		out[k] = v
	}

	return json.Marshal(out)
}

// UnmarshalJSON reads a flattened timeline object
func (tl *Timeline) UnmarshalJSON(data []byte) error {

	var raw map[string]json.RawMessage

	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	tl.FrameNumber = nil
	tl.Metrics = make(map[string][]float64, len(raw))

	for k, v := range raw {
		if k == FrameNumberKey {
			if err := json.Unmarshal(v, &tl.FrameNumber); err != nil {
				return fmt.Errorf("timeline %s: %w", k, err)
			}
			continue
		}

		var vals []float64

		if err := json.Unmarshal(v, &vals); err != nil {
			return fmt.Errorf("timeline %s: %w", k, err)
		}

		tl.Metrics[k] = vals
	}

	return nil
}
