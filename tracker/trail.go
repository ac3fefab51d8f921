package tracker

import (
	"sort"
	"sync"

	"github.com/swdee/go-tactical/pitch"
)

// Track represents the position history of one player
type Track struct {
	points    []pitch.Point
	lastFrame int
}

// Trail keeps a bounded history of pitch positions per track id used for
// drawing movement trails on the radar
type Trail struct {
	// size is the maximum number of most recent points to keep in history
	size int
	// maxAge is the number of frames after which an unseen track is removed
	maxAge int
	// history of tracked points
	history map[int]*Track
	sync.Mutex
}

// NewTrail returns a new trail history instance.  Size specifies the
// maximum length of each trail and maxAge how many frames a track is kept
// after it was last seen.
func NewTrail(size, maxAge int) *Trail {
	return &Trail{
		size:    size,
		maxAge:  maxAge,
		history: make(map[int]*Track),
	}
}

// Reset clears all history
func (t *Trail) Reset() {
	t.Lock()
	defer t.Unlock()

	t.history = make(map[int]*Track)
}

// Add appends a position to the track's history
func (t *Trail) Add(trackID, frame int, p pitch.Point) {
	t.Lock()
	defer t.Unlock()

	track, exists := t.history[trackID]

	if !exists {
		track = &Track{}
		t.history[trackID] = track
	}

	track.points = append(track.points, p)
	track.lastFrame = frame

	// check if history is exceeded and drop oldest point
	if len(track.points) > t.size {
		track.points = track.points[len(track.points)-t.size:]
	}
}

// GetPoints returns a copy of the point history for a track id
func (t *Trail) GetPoints(id int) []pitch.Point {
	t.Lock()
	defer t.Unlock()

	track, exists := t.history[id]

	if !exists {
		return nil
	}

	out := make([]pitch.Point, len(track.points))
	copy(out, track.points)

	return out
}

// IDs returns the track ids with history in ascending order
func (t *Trail) IDs() []int {
	t.Lock()
	defer t.Unlock()

	ids := make([]int, 0, len(t.history))

	for id := range t.history {
		ids = append(ids, id)
	}

	sort.Ints(ids)

	return ids
}

// Prune removes tracks not seen within maxAge frames of the given frame
func (t *Trail) Prune(frame int) {
	t.Lock()
	defer t.Unlock()

	if t.maxAge <= 0 {
		return
	}

	for id, track := range t.history {
		if frame-track.lastFrame > t.maxAge {
			delete(t.history, id)
		}
	}
}
