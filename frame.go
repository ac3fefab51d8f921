package tactical

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/swdee/go-tactical/homography"
	"github.com/swdee/go-tactical/pitch"
	"github.com/swdee/go-tactical/team"
)

var (
	// ErrPlayerPosition is returned when a player has neither a foot point
	// nor a bounding box
	ErrPlayerPosition = errors.New("player has no position")
	// ErrFrameOrder is returned when frame numbers in an input file do not
	// strictly increase
	ErrFrameOrder = errors.New("frame numbers must strictly increase")
)

// maxLineSize is the largest single frame record accepted by ReadFrames
const maxLineSize = 4 * 1024 * 1024

// Player is one detected player in image pixel space.  Either the foot
// point X,Y or the bounding Box must be given.
type Player struct {
	TrackID *int        `json:"track_id,omitempty"`
	X       *float64    `json:"x,omitempty"`
	Y       *float64    `json:"y,omitempty"`
	Box     *[4]float64 `json:"box,omitempty"`
}

// FootPoint returns the image position of the player on the ground
func (p Player) FootPoint() (pitch.Point, error) {

	if p.X != nil && p.Y != nil {
		return pitch.Pt(*p.X, *p.Y), nil
	}

	if p.Box != nil {
		return homography.FootPoint(*p.Box), nil
	}

	return pitch.Point{}, ErrPlayerPosition
}

// Track returns the tracker id of the player if one was assigned
func (p Player) Track() (int, bool) {
	if p.TrackID == nil {
		return 0, false
	}
	return *p.TrackID, true
}

// FrameInput is the output of the detection and tracking stage for a
// single video frame
type FrameInput struct {
	Frame int `json:"frame"`
	// Width and Height of the video frame in pixels
	Width     int                    `json:"width"`
	Height    int                    `json:"height"`
	Teams     team.PerTeam[[]Player] `json:"teams"`
	Keypoints []pitch.Keypoint       `json:"keypoints"`
}

// FootPoints returns the image foot points of a team's players along with
// their track ids, -1 where a player is untracked
func (f FrameInput) FootPoints(t team.Team) ([]pitch.Point, []int, error) {

	players := f.Teams.Get(t)
	points := make([]pitch.Point, 0, len(players))
	ids := make([]int, 0, len(players))

	for i, pl := range players {
		p, err := pl.FootPoint()

		if err != nil {
			return nil, nil, fmt.Errorf("%s player %d: %w", t, i, err)
		}

		id, ok := pl.Track()

		if !ok {
			id = -1
		}

		points = append(points, p)
		ids = append(ids, id)
	}

	return points, ids, nil
}

// LoadFrames reads frame records from the given JSON Lines file
func LoadFrames(file string) ([]FrameInput, error) {

	f, err := os.Open(file)

	if err != nil {
		return nil, fmt.Errorf("error opening file: %w", err)
	}

	defer f.Close()

	return ReadFrames(f)
}

// ReadFrames decodes one FrameInput per line.  Blank lines are skipped and
// frame numbers must strictly increase.
func ReadFrames(r io.Reader) ([]FrameInput, error) {

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var frames []FrameInput
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())

		if line == "" {
			continue
		}

		var in FrameInput

		if err := json.Unmarshal([]byte(line), &in); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}

		if n := len(frames); n > 0 && in.Frame <= frames[n-1].Frame {
			return nil, fmt.Errorf("line %d: %w: frame %d after %d",
				lineNo, ErrFrameOrder, in.Frame, frames[n-1].Frame)
		}

		frames = append(frames, in)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}

	return frames, nil
}
