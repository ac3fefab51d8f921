package metrics

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Trend classifications
const (
	Increasing = "increasing"
	Decreasing = "decreasing"
	Stable     = "stable"
)

// Entry is one recorded snapshot
type Entry struct {
	Frame    int
	Snapshot Snapshot
}

// Stat is the summary of a metric over the retained history
type Stat struct {
	Mean    float64 `json:"mean"`
	Std     float64 `json:"std"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Current float64 `json:"current"`
}

// DefaultDeadZones is the fitted change across a trend window, in each
// metric's own unit, below which the metric is classified as stable
var DefaultDeadZones = map[string]float64{
	Compactness:    50,
	PressureHeight: 1,
	OffensiveWidth: 1,
	DefensiveDepth: 1,
	StretchIndex:   0.5,
	CentroidX:      1,
	CentroidY:      1,
	NumPlayers:     1,
}

// TrackerParams configures a metrics tracker
type TrackerParams struct {
	// HistorySize is the number of most recent snapshots retained
	HistorySize int
	// TrendScale multiplies every dead zone, 0 disables them
	TrendScale float64
	// DeadZones overrides DefaultDeadZones per metric name
	DeadZones map[string]float64
}

// TrackerDefaultParams returns the default tracker parameters
func TrackerDefaultParams() TrackerParams {
	return TrackerParams{
		HistorySize: 300,
		TrendScale:  1,
	}
}

// Tracker accumulates one team's metric snapshots in a fixed size ring
// buffer.  It is owned by the frame loop and must be fed in strictly
// increasing frame order, out of order or repeated frame numbers are
// accepted but make trend output meaningless.  Tracker is not safe for
// concurrent use.
type Tracker struct {
	params TrackerParams
	buf    []Entry
	// head is the index of the oldest entry
	head int
	size int
}

// NewTracker returns a tracker retaining params.HistorySize snapshots
func NewTracker(params TrackerParams) *Tracker {

	if params.HistorySize <= 0 {
		params.HistorySize = TrackerDefaultParams().HistorySize
	}

	if params.TrendScale < 0 {
		params.TrendScale = TrackerDefaultParams().TrendScale
	}

	return &Tracker{
		params: params,
		buf:    make([]Entry, params.HistorySize),
	}
}

// Update appends a snapshot for the frame, evicting the oldest entry once
// the history is full
func (t *Tracker) Update(s Snapshot, frame int) {

	if t.size < len(t.buf) {
		t.buf[(t.head+t.size)%len(t.buf)] = Entry{Frame: frame, Snapshot: s}
		t.size++
		return
	}

	// overwrite oldest
	t.buf[t.head] = Entry{Frame: frame, Snapshot: s}
	t.head = (t.head + 1) % len(t.buf)
}

// Len returns the number of retained snapshots
func (t *Tracker) Len() int {
	return t.size
}

// Capacity returns the history size
func (t *Tracker) Capacity() int {
	return len(t.buf)
}

// History returns the retained entries oldest first
func (t *Tracker) History() []Entry {

	out := make([]Entry, t.size)

	for i := 0; i < t.size; i++ {
		out[i] = t.buf[(t.head+i)%len(t.buf)]
	}

	return out
}

// Reset discards all history
func (t *Tracker) Reset() {
	t.head = 0
	t.size = 0
}

// series returns the retained values of a metric oldest first along with
// their frame numbers
func (t *Tracker) series(name string) (frames, values []float64, ok bool) {

	if _, known := (Snapshot{}).Value(name); !known {
		return nil, nil, false
	}

	frames = make([]float64, t.size)
	values = make([]float64, t.size)

	for i := 0; i < t.size; i++ {
		e := t.buf[(t.head+i)%len(t.buf)]
		frames[i] = float64(e.Frame)
		values[i], _ = e.Snapshot.Value(name)
	}

	return frames, values, true
}

// Statistics summarises every metric over the retained history.  An empty
// history yields an empty map.
func (t *Tracker) Statistics() map[string]Stat {

	out := make(map[string]Stat)

	if t.size == 0 {
		return out
	}

	for _, name := range Names {
		_, values, _ := t.series(name)
		mean, std := stat.PopMeanStdDev(values, nil)

		out[name] = Stat{
			Mean:    mean,
			Std:     std,
			Min:     floats.Min(values),
			Max:     floats.Max(values),
			Current: values[len(values)-1],
		}
	}

	return out
}

// Trend classifies the direction of a metric over the last window
// snapshots.  A least squares line is fitted against frame number and the
// change it predicts across the window is compared with the metric's dead
// zone, so metrics measured in square meters and in meters are judged on
// their own scale.  A window of zero or larger than the history uses all
// retained snapshots.  Fewer than two points, or an unknown metric, is
// reported as Stable.
func (t *Tracker) Trend(name string, window int) string {

	frames, values, ok := t.series(name)

	if !ok {
		return Stable
	}

	if window > 0 && window < len(values) {
		frames = frames[len(frames)-window:]
		values = values[len(values)-window:]
	}

	if len(values) < 2 {
		return Stable
	}

	_, slope := stat.LinearRegression(frames, values, nil, false)
	change := slope * (frames[len(frames)-1] - frames[0])
	deadZone := t.DeadZone(name)

	switch {
	case math.IsNaN(change) || math.IsInf(change, 0):
		return Stable
	case change > deadZone:
		return Increasing
	case change < -deadZone:
		return Decreasing
	}

	return Stable
}

// DeadZone returns the scaled dead zone applied to a metric's trend
func (t *Tracker) DeadZone(name string) float64 {

	dz, ok := t.params.DeadZones[name]

	if !ok {
		dz = DefaultDeadZones[name]
	}

	return dz * t.params.TrendScale
}

// Timeline exports the retained history as parallel per metric sequences
func (t *Tracker) Timeline() Timeline {

	tl := Timeline{
		FrameNumber: make([]int, t.size),
		Metrics:     make(map[string][]float64, len(Names)),
	}

	for i := 0; i < t.size; i++ {
		tl.FrameNumber[i] = t.buf[(t.head+i)%len(t.buf)].Frame
	}

	for _, name := range Names {
		_, values, _ := t.series(name)
		tl.Metrics[name] = values
	}

	return tl
}

// Matrix exports the retained history as a dense matrix with one row per
// snapshot and one column per entry of Names, alongside the frame numbers
// of each row.  An empty history returns a nil matrix.
func (t *Tracker) Matrix() ([]int, *mat.Dense) {

	if t.size == 0 {
		return []int{}, nil
	}

	frames := make([]int, t.size)
	m := mat.NewDense(t.size, len(Names), nil)

	for i := 0; i < t.size; i++ {
		e := t.buf[(t.head+i)%len(t.buf)]
		frames[i] = e.Frame

		for j, name := range Names {
			v, _ := e.Snapshot.Value(name)
			m.Set(i, j, v)
		}
	}

	return frames, m
}
