package pitch

import (
	"errors"
	"fmt"
	"sort"
)

// ErrDuplicateKeypoint is returned when a detection set holds the same
// keypoint id more than once
var ErrDuplicateKeypoint = errors.New("duplicate keypoint id")

// DefaultKeypointConfidence is the minimum confidence a detected keypoint
// needs to be used as a homography correspondence
const DefaultKeypointConfidence = 0.5

// Keypoint is a pitch landmark detected in image pixel space
type Keypoint struct {
	ID         int     `json:"id"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Confidence float64 `json:"confidence"`
}

// Correspondences are matched image and pitch points for fitting a
// homography.  Image[i] and Pitch[i] belong to keypoint IDs[i].
type Correspondences struct {
	IDs   []int
	Image []Point
	Pitch []Point
}

// Len returns the number of correspondences
func (c Correspondences) Len() int {
	return len(c.IDs)
}

// Correspond filters the detected keypoints to those with a confidence
// above minConfidence and resolves them against the schema.  The result is
// ordered by keypoint id.  An id outside the schema is a configuration
// error and returns ErrUnresolvableKeypoint.
func Correspond(kps []Keypoint, schema *Schema, minConfidence float64) (Correspondences, error) {

	kept := make([]Keypoint, 0, len(kps))
	seen := make(map[int]bool, len(kps))

	for _, kp := range kps {
		if seen[kp.ID] {
			return Correspondences{}, fmt.Errorf("%w: %d", ErrDuplicateKeypoint, kp.ID)
		}

		seen[kp.ID] = true

		if kp.Confidence <= minConfidence {
			continue
		}

		kept = append(kept, kp)
	}

	sort.Slice(kept, func(i, j int) bool {
		return kept[i].ID < kept[j].ID
	})

	c := Correspondences{
		IDs:   make([]int, len(kept)),
		Image: make([]Point, len(kept)),
	}

	for i, kp := range kept {
		c.IDs[i] = kp.ID
		c.Image[i] = Point{X: kp.X, Y: kp.Y}
	}

	var err error
	c.Pitch, err = schema.Resolve(c.IDs)

	if err != nil {
		return Correspondences{}, err
	}

	return c, nil
}
