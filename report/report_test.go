package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swdee/go-tactical/formation"
	"github.com/swdee/go-tactical/metrics"
	"github.com/swdee/go-tactical/team"
)

// sampleStats builds a report from synthetic tracker input
func sampleStats(t *testing.T) MatchStats {
	t.Helper()

	trackers := team.PerTeam[*metrics.Tracker]{
		Team1: metrics.NewTracker(metrics.TrackerParams{HistorySize: 50}),
		Team2: metrics.NewTracker(metrics.TrackerParams{HistorySize: 50}),
	}

	tallies := team.PerTeam[*formation.Tally]{
		Team1: formation.NewTally(),
		Team2: formation.NewTally(),
	}

	for f := 0; f < 20; f++ {
		trackers.Team1.Update(metrics.Snapshot{
			PressureHeight: 40 + float64(f),
			Compactness:    900,
			NumPlayers:     10,
			Valid:          true,
		}, f)

		tallies.Team1.Add("4-4-2")

		// team 2 only visible on even frames
		if f%2 == 0 {
			trackers.Team2.Update(metrics.Snapshot{
				PressureHeight: 30,
				Compactness:    700,
				NumPlayers:     9,
				Valid:          true,
			}, f)
			tallies.Team2.Add("4-3-3")
		}
	}

	tallies.Team2.Add("5-3-2")

	return Build(20, 0.8, trackers, tallies)
}

func TestBuild(t *testing.T) {

	s := sampleStats(t)

	assert.Equal(t, 20, s.TotalFrames)
	assert.Equal(t, "4-4-2", s.Formations.Team1.MostCommon)
	assert.Equal(t, "4-3-3", s.Formations.Team2.MostCommon)
	assert.Equal(t, 11, s.Formations.Team2.FramesDetected)

	assert.Equal(t, 20, s.Timeline.Team1.Len())
	assert.Equal(t, 10, s.Timeline.Team2.Len())

	for _, tm := range team.All {
		tl := s.Timeline.Get(tm)
		assert.True(t, tl.Consistent(), tm.String())
		assert.Len(t, tl.Metrics[metrics.PressureHeight], len(tl.FrameNumber))
	}

	assert.InDelta(t, 49.5, s.Metrics.Team1[metrics.PressureHeight].Mean, 1e-9)
	assert.Equal(t, 59.0, s.Metrics.Team1[metrics.PressureHeight].Current)
}

func TestBuildEmpty(t *testing.T) {

	s := Build(0, 0, team.PerTeam[*metrics.Tracker]{}, team.PerTeam[*formation.Tally]{})

	assert.Equal(t, formation.NotAvailable, s.Formations.Team1.MostCommon)
	assert.Empty(t, s.Metrics.Team2)

	data, err := json.Marshal(s)
	require.NoError(t, err)

	missing, err := MissingKeys(data)
	require.NoError(t, err)
	assert.Empty(t, missing)
}

func TestSaveLoad(t *testing.T) {

	s := sampleStats(t)
	path := filepath.Join(t.TempDir(), "match_stats.json")

	require.NoError(t, Save(path, s))

	var raw map[string]json.RawMessage
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &raw))

	for _, k := range RequiredKeys {
		assert.Contains(t, raw, k)
	}

	got, err := Load(path)
	require.NoError(t, err)

	if diff := cmp.Diff(s, got); diff != "" {
		t.Errorf("stats mismatch after reload (-want +got):\n%s", diff)
	}
}

func TestLoadLegacy(t *testing.T) {

	path := filepath.Join(t.TempDir(), "old_stats.json")

	legacy := `{"total_frames": 100, "formations": {}, "metrics": {}}`
	require.NoError(t, os.WriteFile(path, []byte(legacy), 0644))

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrLegacyStatsFormat))
	assert.Contains(t, err.Error(), "timeline")
	assert.Contains(t, err.Error(), "duration_seconds")
}

func TestVerify(t *testing.T) {

	dir := t.TempDir()

	good := filepath.Join(dir, "good.json")
	require.NoError(t, Save(good, sampleStats(t)))

	v, err := Verify(good)
	require.NoError(t, err)
	assert.True(t, v.OK(), "%+v", v)
	assert.Equal(t, 20, v.TimelineFrames.Team1)
	assert.Equal(t, 10, v.TimelineFrames.Team2)

	legacy := filepath.Join(dir, "legacy.json")
	require.NoError(t, os.WriteFile(legacy, []byte(`{"total_frames": 1}`), 0644))

	v, err = Verify(legacy)
	require.NoError(t, err)
	assert.False(t, v.OK())
	assert.Equal(t, KeyStatus{Key: "total_frames", Present: true}, v.Keys[0])
	assert.Equal(t, KeyStatus{Key: "timeline", Present: false}, v.Keys[4])

	broken := filepath.Join(dir, "broken.json")
	content := `{"total_frames": 2, "duration_seconds": 0.1, "formations": {},
		"metrics": {"team1": {"pressure_height": {"mean": 1}}, "team2": {"pressure_height": {"mean": 1}}},
		"timeline": {"team1": {"frame_number": [0, 1], "pressure_height": [1]}, "team2": {"frame_number": []}}}`
	require.NoError(t, os.WriteFile(broken, []byte(content), 0644))

	v, err = Verify(broken)
	require.NoError(t, err)
	assert.False(t, v.OK())
	require.Len(t, v.Problems, 1)
	assert.Contains(t, v.Problems[0], "team1")
}

func TestSummaryOmitsTimeline(t *testing.T) {

	data, err := json.Marshal(sampleStats(t).Summary())
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))

	assert.NotContains(t, raw, "timeline")
	assert.Contains(t, raw, "formations")
}

func TestPrintSummary(t *testing.T) {

	var buf bytes.Buffer
	PrintSummary(&buf, sampleStats(t))

	out := buf.String()

	assert.Contains(t, out, "Frames: 20")
	assert.Contains(t, out, "4-4-2")
	assert.Contains(t, out, "pressure_height")
	assert.Contains(t, out, "team2 metrics")
	assert.Contains(t, out, "STYLE")
	assert.Contains(t, out, "balanced")
	assert.Contains(t, out, "attacking")

	// export order puts compactness ahead of pressure height
	assert.Less(t, strings.Index(out, "compactness"), strings.Index(out, "pressure_height"))
}

func TestBreakdown(t *testing.T) {

	s := formation.Summary{
		MostCommon:     "4-4-2",
		Counts:         map[string]int{"4-4-2": 6, "4-3-3": 3, "5-3-2": 1},
		FramesDetected: 10,
	}

	assert.Equal(t, "4-4-2 60%, 4-3-3 30%, 5-3-2 10%", breakdown(s))
	assert.Equal(t, "-", breakdown(formation.Summary{}))
}

func TestWriteHTMLChart(t *testing.T) {

	var buf bytes.Buffer
	require.NoError(t, WriteHTMLChart(&buf, sampleStats(t), metrics.PressureHeight))

	html := buf.String()
	assert.Contains(t, html, "echarts")
	assert.Contains(t, html, "team1")
	assert.Contains(t, html, "team2")

	assert.Error(t, WriteHTMLChart(&buf, sampleStats(t), "possession"))
}

func TestWritePNGChart(t *testing.T) {

	path := filepath.Join(t.TempDir(), "pressure.png")

	require.NoError(t, WritePNGChart(path, sampleStats(t), metrics.PressureHeight))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	assert.Error(t, WritePNGChart(path, sampleStats(t), "possession"))
}
