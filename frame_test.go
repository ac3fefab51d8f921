package tactical

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swdee/go-tactical/pitch"
	"github.com/swdee/go-tactical/team"
)

const sampleFrames = `{"frame": 1, "width": 1280, "height": 720, "teams": {"team1": [{"track_id": 4, "x": 410.5, "y": 520}], "team2": [{"box": [100, 200, 140, 300]}]}, "keypoints": [{"id": 0, "x": 12, "y": 40, "confidence": 0.91}]}

{"frame": 3, "width": 1280, "height": 720, "teams": {"team1": [], "team2": []}, "keypoints": []}
`

func TestReadFrames(t *testing.T) {

	frames, err := ReadFrames(strings.NewReader(sampleFrames))
	require.NoError(t, err)
	require.Len(t, frames, 2)

	f := frames[0]
	assert.Equal(t, 1, f.Frame)
	assert.Equal(t, 1280, f.Width)
	assert.Equal(t, 720, f.Height)
	assert.Equal(t, []pitch.Keypoint{{ID: 0, X: 12, Y: 40, Confidence: 0.91}}, f.Keypoints)

	points, ids, err := f.FootPoints(team.Team1)
	require.NoError(t, err)
	assert.Equal(t, []pitch.Point{{X: 410.5, Y: 520}}, points)
	assert.Equal(t, []int{4}, ids)

	points, ids, err = f.FootPoints(team.Team2)
	require.NoError(t, err)
	assert.Equal(t, []pitch.Point{{X: 120, Y: 300}}, points)
	assert.Equal(t, []int{-1}, ids)

	assert.Equal(t, 3, frames[1].Frame)
	assert.Empty(t, frames[1].Teams.Team1)
}

func TestReadFramesOrder(t *testing.T) {

	in := `{"frame": 5}
{"frame": 5}
`
	_, err := ReadFrames(strings.NewReader(in))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFrameOrder))
	assert.Contains(t, err.Error(), "line 2")
}

func TestReadFramesMalformed(t *testing.T) {

	in := `{"frame": 1}
{"frame": 2, "teams": [}
`
	_, err := ReadFrames(strings.NewReader(in))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestFootPointMissing(t *testing.T) {

	x := 10.0
	f := FrameInput{}
	f.Teams.Team1 = []Player{{X: &x}}

	_, _, err := f.FootPoints(team.Team1)
	assert.True(t, errors.Is(err, ErrPlayerPosition))
}

func TestLoadFrames(t *testing.T) {

	path := filepath.Join(t.TempDir(), "frames.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(sampleFrames), 0o644))

	frames, err := LoadFrames(path)
	require.NoError(t, err)
	assert.Len(t, frames, 2)

	_, err = LoadFrames(filepath.Join(t.TempDir(), "missing.jsonl"))
	assert.Error(t, err)
}
