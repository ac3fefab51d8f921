package tactical

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/swdee/go-tactical/config"
	"github.com/swdee/go-tactical/formation"
	"github.com/swdee/go-tactical/homography"
	"github.com/swdee/go-tactical/metrics"
	"github.com/swdee/go-tactical/pitch"
	"github.com/swdee/go-tactical/report"
	"github.com/swdee/go-tactical/storage"
	"github.com/swdee/go-tactical/team"
	"github.com/swdee/go-tactical/tracker"
)

// SkipReason records why a frame, or one team within a frame, produced no
// tactical analysis
type SkipReason string

const (
	SkipNone SkipReason = ""
	// SkipKeypoints is set when too few confident keypoints were detected
	SkipKeypoints SkipReason = "insufficient_keypoints"
	// SkipSpread is set when the keypoints are bunched in a small part of
	// the frame
	SkipSpread SkipReason = "keypoints_not_spread"
	// SkipDegenerate is set when the keypoints could not produce a
	// homography
	SkipDegenerate SkipReason = "degenerate_homography"
	// SkipPlayers is set on a team with fewer than three visible players
	SkipPlayers SkipReason = "insufficient_players"
)

// FrameError is an error which aborts a run.  It names the component and
// frame that raised it.
type FrameError struct {
	Component string
	Frame     int
	Err       error
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("%s: frame %d: %v", e.Component, e.Frame, e.Err)
}

func (e *FrameError) Unwrap() error {
	return e.Err
}

// FrameSink receives the per team records of each analysed frame
type FrameSink interface {
	InsertFrames(recs []storage.FrameRecord) error
}

// AnalyzerParams configures the per frame pipeline
type AnalyzerParams struct {
	Schema *pitch.Schema
	// KeypointConfidence is the confidence a keypoint must exceed to be
	// used for the homography
	KeypointConfidence float64
	MinKeypoints       int
	// MinSpread is the fraction of the frame width keypoints must span
	MinSpread float64
	// FullFieldApprox maps the whole frame onto the pitch when keypoints
	// are unusable
	FullFieldApprox bool
	Flip            homography.Flip
	// PitchMargin in meters around the pitch, projected players outside
	// it are discarded
	PitchMargin float64
	Directions  team.PerTeam[pitch.Direction]
	Detector    formation.DetectorParams
	Tracker     metrics.TrackerParams
	TrendWindow int
	// Smoothing filters the positions of tracked players
	Smoothing   bool
	Smoother    tracker.SmootherParams
	TrailLength int
	// Workers is the number of frames projected concurrently
	Workers int
	FPS     float64
}

// AnalyzerDefaultParams returns the default pipeline parameters
func AnalyzerDefaultParams() AnalyzerParams {
	return AnalyzerParamsFromConfig(config.Empty())
}

// AnalyzerParamsFromConfig returns pipeline parameters from the loaded
// configuration, falling back to defaults for omitted values
func AnalyzerParamsFromConfig(cfg *config.Config) AnalyzerParams {

	params := AnalyzerParams{
		Schema:             cfg.Schema(),
		KeypointConfidence: cfg.GetKeypointConfidence(),
		MinKeypoints:       cfg.GetMinKeypoints(),
		MinSpread:          cfg.GetMinSpread(),
		FullFieldApprox:    cfg.GetFullFieldApprox(),
		Flip: homography.Flip{
			X: cfg.GetFlipX(),
			Y: cfg.GetFlipY(),
		},
		PitchMargin: cfg.GetPitchMargin(),
		Detector:    formation.DetectorDefaultParams(),
		Tracker: metrics.TrackerParams{
			HistorySize: cfg.GetHistorySize(),
			TrendScale:  cfg.GetTrendScale(),
		},
		TrendWindow: cfg.GetTrendWindow(),
		Smoothing:   cfg.GetSmoothing(),
		Smoother:    tracker.SmootherDefaultParams(),
		TrailLength: cfg.GetTrailLength(),
		Workers:     cfg.GetWorkers(),
		FPS:         cfg.GetFPS(),
	}

	params.Directions.Set(team.Team1, cfg.GetTeam1Direction())
	params.Directions.Set(team.Team2, cfg.GetTeam2Direction())

	return params
}

// TeamResult is the analysis of one team in one frame
type TeamResult struct {
	// Positions in pitch meters, in the same order as the input players
	// with those projected off the pitch removed
	Positions []pitch.Point `json:"positions"`
	// TrackIDs of the players, -1 when untracked
	TrackIDs  []int               `json:"track_ids"`
	Formation formation.Formation `json:"formation"`
	Metrics   metrics.Snapshot    `json:"metrics"`
	// Dropped is the number of players projected off the pitch
	Dropped int        `json:"dropped,omitempty"`
	Skipped SkipReason `json:"skipped,omitempty"`
}

// FrameResult is the analysis of one frame
type FrameResult struct {
	Frame int `json:"frame"`
	// Approximated is set when the full field approximation was used in
	// place of a keypoint homography
	Approximated bool                     `json:"approximated"`
	Skipped      SkipReason               `json:"skipped,omitempty"`
	Teams        team.PerTeam[TeamResult] `json:"teams"`
}

// stageOutput is the result of the stateless stages of a frame
type stageOutput struct {
	res FrameResult
	err error
}

// Analyzer runs the tactical pipeline over a sequence of frames.  The
// projection, formation and metrics stages are stateless and may run
// concurrently across frames, the trackers, tallies, smoothing and trails
// are fed strictly in frame order.
type Analyzer struct {
	params    AnalyzerParams
	detector  *formation.Detector
	trackers  team.PerTeam[*metrics.Tracker]
	tallies   team.PerTeam[*formation.Tally]
	smoothers team.PerTeam[*tracker.Smoother]
	trails    team.PerTeam[*tracker.Trail]
	sink      FrameSink
	runID     string
	frames    int
	lastFrame int
	log       *logrus.Entry
}

// NewAnalyzer returns a new pipeline with empty per team history
func NewAnalyzer(params AnalyzerParams) (*Analyzer, error) {

	if params.Schema == nil {
		return nil, fmt.Errorf("analyzer: %w: no keypoint schema", pitch.ErrUnknownSchema)
	}

	// a team without a direction attacks the opposite way to the other
	for _, t := range team.All {
		if params.Directions.Get(t) != "" {
			continue
		}

		if other := params.Directions.Get(t.Other()); other != "" {
			params.Directions.Set(t, other.Opposite())
			continue
		}

		params.Directions.Set(t, defaultDirection(t))
	}

	if params.MinKeypoints < homography.MinCorrespondences {
		params.MinKeypoints = homography.MinCorrespondences
	}

	if params.Workers < 1 {
		params.Workers = 1
	}

	a := &Analyzer{
		params:    params,
		detector:  formation.NewDetector(params.Detector),
		lastFrame: -1,
		log:       logrus.WithField("component", "analyzer"),
	}

	for _, t := range team.All {
		a.trackers.Set(t, metrics.NewTracker(params.Tracker))
		a.tallies.Set(t, formation.NewTally())
		a.smoothers.Set(t, tracker.NewSmoother(params.Smoother))
		a.trails.Set(t, tracker.NewTrail(params.TrailLength, params.Smoother.MaxAge))
	}

	return a, nil
}

func defaultDirection(t team.Team) pitch.Direction {
	if t == team.Team2 {
		return pitch.AttackLeft
	}
	return pitch.AttackRight
}

// SetSink directs the per frame records to sink under the given run id
func (a *Analyzer) SetSink(runID string, sink FrameSink) {
	a.runID = runID
	a.sink = sink
}

// Params returns the parameters the analyzer was created with
func (a *Analyzer) Params() AnalyzerParams {
	return a.params
}

// Frames returns the number of frames processed
func (a *Analyzer) Frames() int {
	return a.frames
}

// Tracker returns the metrics tracker of a team
func (a *Analyzer) Tracker(t team.Team) *metrics.Tracker {
	return a.trackers.Get(t)
}

// Tally returns the formation tally of a team
func (a *Analyzer) Tally(t team.Team) *formation.Tally {
	return a.tallies.Get(t)
}

// Trend classifies the recent movement of a team's metric over the
// configured trend window
func (a *Analyzer) Trend(t team.Team, metric string) string {
	return a.trackers.Get(t).Trend(metric, a.params.TrendWindow)
}

// Trails returns the recent positions of each tracked player of a team
func (a *Analyzer) Trails(t team.Team) map[int][]pitch.Point {

	trail := a.trails.Get(t)
	out := make(map[int][]pitch.Point)

	for _, id := range trail.IDs() {
		out[id] = trail.GetPoints(id)
	}

	return out
}

// ProcessFrame runs the full pipeline on one frame.  Recoverable
// conditions are reported through the Skipped fields of the result, errors
// which invalidate the whole run are returned as a *FrameError.
func (a *Analyzer) ProcessFrame(in FrameInput) (FrameResult, error) {

	out := a.stage(in)

	if out.err != nil {
		return FrameResult{}, out.err
	}

	return a.commit(out.res)
}

// ProcessAll runs the pipeline over frames in order, calling emit with
// each result when emit is not nil.  With more than one worker the
// stateless stages run on a Pool and results are re-serialised before the
// stateful stages.
func (a *Analyzer) ProcessAll(frames []FrameInput, emit func(FrameResult) error) error {

	handle := func(out stageOutput) error {
		if out.err != nil {
			return out.err
		}

		res, err := a.commit(out.res)

		if err != nil {
			return err
		}

		if emit != nil {
			return emit(res)
		}

		return nil
	}

	if a.params.Workers <= 1 || len(frames) < 2 {
		for _, in := range frames {
			if err := handle(a.stage(in)); err != nil {
				return err
			}
		}

		return nil
	}

	pool := NewPool(a.params.Workers, a.stage)
	defer pool.Close()

	a.log.WithFields(logrus.Fields{
		"workers": pool.Size(),
		"frames":  len(frames),
	}).Debug("processing frames concurrently")

	return pool.Map(frames, func(_ int, out stageOutput) error {
		return handle(out)
	})
}

// stage runs projection and, when smoothing is off, formation detection
// and metrics.  It reads only the analyzer parameters.
func (a *Analyzer) stage(in FrameInput) stageOutput {

	res := FrameResult{Frame: in.Frame}

	c, err := pitch.Correspond(in.Keypoints, a.params.Schema, a.params.KeypointConfidence)

	if err != nil {
		return stageOutput{err: &FrameError{Component: "pitch", Frame: in.Frame, Err: err}}
	}

	var images team.PerTeam[[]pitch.Point]

	for _, t := range team.All {
		points, ids, err := in.FootPoints(t)

		if err != nil {
			return stageOutput{err: &FrameError{Component: "input", Frame: in.Frame, Err: err}}
		}

		images.Set(t, points)
		res.Teams.Ptr(t).TrackIDs = ids
	}

	tr, approx, reason := a.transformer(in, c)
	res.Approximated = approx

	if tr == nil {
		res.Skipped = reason

		for _, t := range team.All {
			tres := res.Teams.Ptr(t)
			tres.Formation = formation.Formation{Label: formation.NotAvailable}
			tres.Metrics = metrics.Snapshot{NumPlayers: len(images.Get(t))}
			tres.Skipped = reason
		}

		return stageOutput{res: res}
	}

	for _, t := range team.All {
		tres := res.Teams.Ptr(t)
		tres.Positions = tr.Transform(images.Get(t), a.params.Flip)
		a.dropOffPitch(res.Frame, t, tres)
	}

	if !a.params.Smoothing {
		a.classify(&res)
	}

	return stageOutput{res: res}
}

// transformer returns the image to pitch projection for a frame, or the
// reason none could be made
func (a *Analyzer) transformer(in FrameInput, c pitch.Correspondences) (*homography.Transformer, bool, SkipReason) {

	reason := SkipNone

	switch {
	case c.Len() < a.params.MinKeypoints:
		reason = SkipKeypoints

	case in.Width > 0 && !homography.Viable(c.Image, in.Width, a.params.MinSpread):
		reason = SkipSpread

	default:
		tr, err := homography.FromCorrespondences(c)

		if err == nil {
			return tr, false, SkipNone
		}

		reason = SkipDegenerate
	}

	if a.params.FullFieldApprox && in.Width > 0 && in.Height > 0 {
		tr, err := homography.FullField(in.Width, in.Height)

		if err == nil {
			return tr, true, SkipNone
		}
	}

	a.log.WithFields(logrus.Fields{
		"frame":     in.Frame,
		"keypoints": c.Len(),
		"reason":    reason,
	}).Debug("skipping frame projection")

	return nil, false, reason
}

// dropOffPitch removes players projected outside the pitch margin, keeping
// track ids aligned with the remaining positions
func (a *Analyzer) dropOffPitch(frame int, t team.Team, tres *TeamResult) {

	kept := 0

	for i, p := range tres.Positions {
		if !p.Within(a.params.PitchMargin) {
			continue
		}

		tres.Positions[kept] = p
		tres.TrackIDs[kept] = tres.TrackIDs[i]
		kept++
	}

	tres.Dropped = len(tres.Positions) - kept

	if tres.Dropped == 0 {
		return
	}

	tres.Positions = tres.Positions[:kept]
	tres.TrackIDs = tres.TrackIDs[:kept]

	a.log.WithFields(logrus.Fields{
		"frame":   frame,
		"team":    t.String(),
		"dropped": tres.Dropped,
	}).Debug("discarded players projected off the pitch")
}

// classify detects each team's formation and calculates its metrics from
// the projected positions
func (a *Analyzer) classify(res *FrameResult) {

	for _, t := range team.All {
		tres := res.Teams.Ptr(t)
		dir := a.params.Directions.Get(t)

		tres.Metrics = metrics.Calculate(tres.Positions, dir)

		if len(tres.Positions) < formation.MinPlayers {
			tres.Formation = formation.Formation{Label: formation.NotAvailable}
			tres.Skipped = SkipPlayers

			a.log.WithFields(logrus.Fields{
				"frame":   res.Frame,
				"team":    t.String(),
				"players": len(tres.Positions),
			}).Debug("too few players for formation")
			continue
		}

		f, err := a.detector.Detect(tres.Positions, dir)

		if err != nil {
			tres.Formation = formation.Formation{Label: formation.NotAvailable}
			tres.Skipped = SkipPlayers
			continue
		}

		tres.Formation = f
	}
}

// commit feeds a staged frame into the stateful stages
func (a *Analyzer) commit(res FrameResult) (FrameResult, error) {

	if a.frames > 0 && res.Frame <= a.lastFrame {
		a.log.WithFields(logrus.Fields{
			"frame":    res.Frame,
			"previous": a.lastFrame,
		}).Warn("frame out of order, trends will be unreliable")
	}

	a.frames++
	a.lastFrame = res.Frame

	if res.Skipped == SkipNone {
		a.follow(&res)

		if a.params.Smoothing {
			a.classify(&res)
		}
	}

	for _, t := range team.All {
		tres := res.Teams.Get(t)

		a.tallies.Get(t).Add(tres.Formation.Label)

		if tres.Metrics.Valid {
			a.trackers.Get(t).Update(tres.Metrics, res.Frame)
		}
	}

	if a.sink != nil {
		if err := a.sink.InsertFrames(a.records(res)); err != nil {
			return res, &FrameError{Component: "storage", Frame: res.Frame, Err: err}
		}
	}

	return res, nil
}

// follow smooths tracked player positions when enabled and extends their
// trails
func (a *Analyzer) follow(res *FrameResult) {

	for _, t := range team.All {
		tres := res.Teams.Ptr(t)
		smoother := a.smoothers.Get(t)
		trail := a.trails.Get(t)

		for i, id := range tres.TrackIDs {
			if id < 0 || i >= len(tres.Positions) {
				continue
			}

			if a.params.Smoothing {
				tres.Positions[i] = smoother.Smooth(id, res.Frame, tres.Positions[i])
			}

			if a.params.TrailLength > 0 {
				trail.Add(id, res.Frame, tres.Positions[i])
			}
		}

		smoother.Prune(res.Frame)
		trail.Prune(res.Frame)
	}
}

// records converts a frame result into storage rows
func (a *Analyzer) records(res FrameResult) []storage.FrameRecord {

	recs := make([]storage.FrameRecord, 0, len(team.All))

	for _, t := range team.All {
		tres := res.Teams.Get(t)

		recs = append(recs, storage.FrameRecord{
			RunID:      a.runID,
			Frame:      res.Frame,
			Team:       t,
			Formation:  tres.Formation.Label,
			Confidence: tres.Formation.Confidence,
			Snapshot:   tres.Metrics,
			SkipReason: string(tres.Skipped),
		})
	}

	return recs
}

// Report builds the match statistics from everything processed so far.  A
// non positive duration is derived from the frame count and FPS.
func (a *Analyzer) Report(durationSeconds float64) report.MatchStats {

	if durationSeconds <= 0 && a.params.FPS > 0 {
		durationSeconds = float64(a.frames) / a.params.FPS
	}

	return report.Build(a.frames, durationSeconds, a.trackers, a.tallies)
}

// IsAbort reports whether err should stop a run
func IsAbort(err error) bool {
	var fe *FrameError
	return errors.As(err, &fe)
}
