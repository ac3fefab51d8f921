package tactical

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swdee/go-tactical/formation"
	"github.com/swdee/go-tactical/metrics"
	"github.com/swdee/go-tactical/pitch"
	"github.com/swdee/go-tactical/storage"
	"github.com/swdee/go-tactical/team"
)

// pixelsPerMeter is the scale of the synthetic camera, which looks
// straight down on the pitch
const pixelsPerMeter = 10

var formation442 = []pitch.Point{
	{X: 20, Y: 10}, {X: 20, Y: 25}, {X: 20, Y: 43}, {X: 20, Y: 58},
	{X: 48, Y: 12}, {X: 48, Y: 28}, {X: 48, Y: 40}, {X: 48, Y: 56},
	{X: 80, Y: 25}, {X: 80, Y: 43},
}

func shifted(pts []pitch.Point, dx float64) []pitch.Point {
	out := make([]pitch.Point, len(pts))
	for i, p := range pts {
		out[i] = pitch.Pt(p.X+dx, p.Y)
	}
	return out
}

func mirrored(pts []pitch.Point) []pitch.Point {
	out := make([]pitch.Point, len(pts))
	for i, p := range pts {
		out[i] = p.MirrorX()
	}
	return out
}

func players(pts []pitch.Point, tracked bool) []Player {
	out := make([]Player, len(pts))
	for i, p := range pts {
		x, y := p.X*pixelsPerMeter, p.Y*pixelsPerMeter
		out[i] = Player{X: &x, Y: &y}
		if tracked {
			id := i
			out[i].TrackID = &id
		}
	}
	return out
}

func schemaKeypoints() []pitch.Keypoint {
	pts := pitch.Schema32.Points()
	kps := make([]pitch.Keypoint, len(pts))
	for i, p := range pts {
		kps[i] = pitch.Keypoint{
			ID:         i,
			X:          p.X * pixelsPerMeter,
			Y:          p.Y * pixelsPerMeter,
			Confidence: 0.9,
		}
	}
	return kps
}

func makeFrame(n int, team1, team2 []pitch.Point) FrameInput {
	f := FrameInput{
		Frame:     n,
		Width:     int(pitch.Length * pixelsPerMeter),
		Height:    int(pitch.Width * pixelsPerMeter),
		Keypoints: schemaKeypoints(),
	}
	f.Teams.Team1 = players(team1, false)
	f.Teams.Team2 = players(team2, false)
	return f
}

func newAnalyzer(t *testing.T, edit func(*AnalyzerParams)) *Analyzer {
	params := AnalyzerDefaultParams()
	if edit != nil {
		edit(&params)
	}
	a, err := NewAnalyzer(params)
	require.NoError(t, err)
	return a
}

func assertPositions(t *testing.T, want, got []pitch.Point) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		assert.InDelta(t, want[i].X, got[i].X, 1e-6)
		assert.InDelta(t, want[i].Y, got[i].Y, 1e-6)
	}
}

func TestProcessFrameDetectsFormations(t *testing.T) {

	a := newAnalyzer(t, nil)

	res, err := a.ProcessFrame(makeFrame(1, formation442, mirrored(formation442)))
	require.NoError(t, err)

	assert.Equal(t, SkipNone, res.Skipped)
	assert.False(t, res.Approximated)

	for _, tm := range team.All {
		tres := res.Teams.Get(tm)

		assert.Equal(t, "4-4-2", tres.Formation.Label, tm.String())
		assert.Equal(t, []int{4, 4, 2}, tres.Formation.PlayersPerLine)
		assert.True(t, tres.Metrics.Valid)
		assert.Equal(t, 10, tres.Metrics.NumPlayers)
		assert.Equal(t, 1, a.Tracker(tm).Len())
		assert.Equal(t, "4-4-2", a.Tally(tm).MostCommon())
	}

	assertPositions(t, formation442, res.Teams.Team1.Positions)

	// both teams hold the same shape relative to their own goal
	assert.InDelta(t, res.Teams.Team1.Metrics.PressureHeight,
		res.Teams.Team2.Metrics.PressureHeight, 1e-6)
}

func TestProcessFrameTooFewKeypoints(t *testing.T) {

	a := newAnalyzer(t, nil)

	f := makeFrame(1, formation442, formation442)
	f.Keypoints = f.Keypoints[:3]

	res, err := a.ProcessFrame(f)
	require.NoError(t, err)

	assert.Equal(t, SkipKeypoints, res.Skipped)

	for _, tm := range team.All {
		tres := res.Teams.Get(tm)

		assert.Equal(t, formation.NotAvailable, tres.Formation.Label)
		assert.False(t, tres.Metrics.Valid)
		assert.Equal(t, 10, tres.Metrics.NumPlayers)
		assert.Empty(t, tres.Positions)
		assert.Zero(t, a.Tracker(tm).Len())
		assert.Zero(t, a.Tally(tm).FramesDetected())
	}

	assert.Equal(t, 1, a.Frames())
}

func TestProcessFrameLowConfidenceKeypoints(t *testing.T) {

	a := newAnalyzer(t, nil)

	f := makeFrame(1, formation442, formation442)

	for i := range f.Keypoints {
		f.Keypoints[i].Confidence = 0.5
	}

	res, err := a.ProcessFrame(f)
	require.NoError(t, err)
	assert.Equal(t, SkipKeypoints, res.Skipped)
}

func TestProcessFrameFullFieldApprox(t *testing.T) {

	a := newAnalyzer(t, func(p *AnalyzerParams) {
		p.FullFieldApprox = true
	})

	f := makeFrame(1, formation442, mirrored(formation442))
	f.Keypoints = nil

	res, err := a.ProcessFrame(f)
	require.NoError(t, err)

	assert.Equal(t, SkipNone, res.Skipped)
	assert.True(t, res.Approximated)
	assertPositions(t, formation442, res.Teams.Team1.Positions)
	assert.Equal(t, "4-4-2", res.Teams.Team1.Formation.Label)
}

func TestProcessFrameUnresolvableKeypoint(t *testing.T) {

	a := newAnalyzer(t, nil)

	f := makeFrame(7, formation442, formation442)
	f.Keypoints = append(f.Keypoints, pitch.Keypoint{ID: 99, X: 1, Y: 1, Confidence: 0.9})

	_, err := a.ProcessFrame(f)
	require.Error(t, err)

	assert.True(t, errors.Is(err, pitch.ErrUnresolvableKeypoint))
	assert.True(t, IsAbort(err))

	var fe *FrameError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "pitch", fe.Component)
	assert.Equal(t, 7, fe.Frame)
	assert.Contains(t, err.Error(), "frame 7")
}

func TestProcessFrameDropsOffPitchPlayers(t *testing.T) {

	a := newAnalyzer(t, nil)

	// a false detection in the crowd projects far beyond the touchline
	team1 := append([]pitch.Point{}, formation442[:4]...)
	team1 = append(team1, pitch.Pt(400, 30))
	team1 = append(team1, formation442[4:]...)

	f := makeFrame(1, nil, mirrored(formation442))
	f.Teams.Team1 = players(team1, true)

	res, err := a.ProcessFrame(f)
	require.NoError(t, err)

	tres := res.Teams.Team1

	assert.Equal(t, 1, tres.Dropped)
	assert.Equal(t, "4-4-2", tres.Formation.Label)
	assert.Equal(t, []int{4, 4, 2}, tres.Formation.PlayersPerLine)
	assert.Equal(t, []int{0, 1, 2, 3, 5, 6, 7, 8, 9, 10}, tres.TrackIDs)
	assertPositions(t, formation442, tres.Positions)

	assert.Equal(t, 10, tres.Metrics.NumPlayers)
	assert.InDelta(t, 60, tres.Metrics.DefensiveDepth, 1e-6)
	assert.Zero(t, res.Teams.Team2.Dropped)

	// a player just over the line stays within the margin
	edge := append([]pitch.Point{pitch.Pt(pitch.Length+2, 30)}, formation442...)
	f = makeFrame(2, edge, mirrored(formation442))

	res, err = a.ProcessFrame(f)
	require.NoError(t, err)
	assert.Zero(t, res.Teams.Team1.Dropped)
	assert.Len(t, res.Teams.Team1.Positions, 11)
}

func TestProcessFrameTooFewPlayers(t *testing.T) {

	a := newAnalyzer(t, nil)

	res, err := a.ProcessFrame(makeFrame(1, formation442, formation442[:2]))
	require.NoError(t, err)

	assert.Equal(t, SkipNone, res.Skipped)
	assert.Equal(t, SkipNone, res.Teams.Team1.Skipped)
	assert.Equal(t, SkipPlayers, res.Teams.Team2.Skipped)
	assert.Equal(t, formation.NotAvailable, res.Teams.Team2.Formation.Label)
	assert.False(t, res.Teams.Team2.Metrics.Valid)
	assert.Equal(t, 2, res.Teams.Team2.Metrics.NumPlayers)

	assert.Equal(t, 1, a.Tracker(team.Team1).Len())
	assert.Zero(t, a.Tracker(team.Team2).Len())
}

func advancingFrames(n int) []FrameInput {
	frames := make([]FrameInput, n)
	for i := range frames {
		frames[i] = makeFrame(i+1, shifted(formation442, 0.5*float64(i)), mirrored(formation442))
	}
	return frames
}

func TestProcessAllConcurrentMatchesSequential(t *testing.T) {

	frames := advancingFrames(20)

	collect := func(workers int) ([]FrameResult, *Analyzer) {
		a := newAnalyzer(t, func(p *AnalyzerParams) {
			p.Workers = workers
		})

		var out []FrameResult

		err := a.ProcessAll(frames, func(res FrameResult) error {
			out = append(out, res)
			return nil
		})
		require.NoError(t, err)

		return out, a
	}

	seq, seqA := collect(1)
	par, parA := collect(4)

	require.Len(t, par, len(frames))

	if diff := cmp.Diff(seq, par); diff != "" {
		t.Errorf("concurrent results differ (-seq +par):\n%s", diff)
	}

	for i, res := range par {
		assert.Equal(t, frames[i].Frame, res.Frame)
	}

	hist := parA.Tracker(team.Team1).History()
	require.Len(t, hist, len(frames))

	for i, e := range hist {
		assert.Equal(t, i+1, e.Frame)
	}

	assert.Equal(t, seqA.Tracker(team.Team1).History(), hist)
	assert.Equal(t, metrics.Increasing, parA.Trend(team.Team1, metrics.PressureHeight))
	assert.Equal(t, metrics.Stable, parA.Trend(team.Team2, metrics.PressureHeight))
}

func TestReport(t *testing.T) {

	a := newAnalyzer(t, nil)

	require.NoError(t, a.ProcessAll(advancingFrames(20), nil))

	s := a.Report(0)

	assert.Equal(t, 20, s.TotalFrames)
	assert.InDelta(t, 0.8, s.DurationSeconds, 1e-9)
	assert.Equal(t, "4-4-2", s.Formations.Team1.MostCommon)
	assert.Equal(t, 20, s.Formations.Team2.FramesDetected)
	assert.Equal(t, 20, s.Timeline.Team1.Len())
	assert.True(t, s.Timeline.Team1.Consistent())
	assert.Contains(t, s.Metrics.Team1, metrics.PressureHeight)

	s = a.Report(12.5)
	assert.Equal(t, 12.5, s.DurationSeconds)
}

func TestSmoothingAndTrails(t *testing.T) {

	a := newAnalyzer(t, func(p *AnalyzerParams) {
		p.Smoothing = true
		p.TrailLength = 3
	})

	for n := 1; n <= 5; n++ {
		f := makeFrame(n, formation442, mirrored(formation442))
		f.Teams.Team1 = players(formation442, true)

		res, err := a.ProcessFrame(f)
		require.NoError(t, err)

		assertPositions(t, formation442, res.Teams.Team1.Positions)
		assert.Equal(t, "4-4-2", res.Teams.Team1.Formation.Label)
		assert.Equal(t, "4-4-2", res.Teams.Team2.Formation.Label)
	}

	trails := a.Trails(team.Team1)
	require.Len(t, trails, len(formation442))

	for id, pts := range trails {
		assert.Len(t, pts, 3)
		assertPositions(t, []pitch.Point{formation442[id], formation442[id], formation442[id]}, pts)
	}

	assert.Empty(t, a.Trails(team.Team2))
}

type memSink struct {
	recs []storage.FrameRecord
	err  error
}

func (m *memSink) InsertFrames(recs []storage.FrameRecord) error {
	if m.err != nil {
		return m.err
	}
	m.recs = append(m.recs, recs...)
	return nil
}

func TestSink(t *testing.T) {

	a := newAnalyzer(t, nil)
	sink := &memSink{}
	a.SetSink("run-1", sink)

	_, err := a.ProcessFrame(makeFrame(3, formation442, formation442[:2]))
	require.NoError(t, err)

	require.Len(t, sink.recs, 2)

	assert.Equal(t, "run-1", sink.recs[0].RunID)
	assert.Equal(t, 3, sink.recs[0].Frame)
	assert.Equal(t, team.Team1, sink.recs[0].Team)
	assert.Equal(t, "4-4-2", sink.recs[0].Formation)
	assert.Empty(t, sink.recs[0].SkipReason)

	assert.Equal(t, team.Team2, sink.recs[1].Team)
	assert.Equal(t, formation.NotAvailable, sink.recs[1].Formation)
	assert.Equal(t, string(SkipPlayers), sink.recs[1].SkipReason)

	sink.err = errors.New("disk full")

	_, err = a.ProcessFrame(makeFrame(4, formation442, formation442))

	var fe *FrameError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "storage", fe.Component)
	assert.Equal(t, 4, fe.Frame)
}

func TestNewAnalyzerRequiresSchema(t *testing.T) {

	params := AnalyzerDefaultParams()
	params.Schema = nil

	_, err := NewAnalyzer(params)
	assert.True(t, errors.Is(err, pitch.ErrUnknownSchema))
}

func TestNewAnalyzerOpposesDirections(t *testing.T) {

	params := AnalyzerDefaultParams()
	params.Directions = team.PerTeam[pitch.Direction]{Team1: pitch.AttackLeft}

	a, err := NewAnalyzer(params)
	require.NoError(t, err)

	dirs := a.Params().Directions
	assert.Equal(t, pitch.AttackLeft, dirs.Team1)
	assert.Equal(t, pitch.AttackRight, dirs.Team2)

	params.Directions = team.PerTeam[pitch.Direction]{}

	a, err = NewAnalyzer(params)
	require.NoError(t, err)

	dirs = a.Params().Directions
	assert.Equal(t, pitch.AttackRight, dirs.Team1)
	assert.Equal(t, pitch.AttackLeft, dirs.Team2)
}
