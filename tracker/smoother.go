package tracker

import (
	"sync"

	"github.com/swdee/go-tactical/pitch"
)

// SmootherParams configures the per track position smoother
type SmootherParams struct {
	// StdPosition is the position noise in meters
	StdPosition float64
	// StdVelocity is the velocity noise in meters per frame
	StdVelocity float64
	// MaxAge is the number of frames a track may go unseen before its
	// state is discarded
	MaxAge int
}

// SmootherDefaultParams returns default smoothing parameters
func SmootherDefaultParams() SmootherParams {
	return SmootherParams{
		StdPosition: 0.5,
		StdVelocity: 0.1,
		MaxAge:      30,
	}
}

// trackState is the filter state of one track
type trackState struct {
	mean      StateMean
	cov       *StateCov
	lastFrame int
}

// Smoother applies a constant velocity Kalman filter to the projected pitch
// positions of each tracked player, damping jitter from per frame
// homography noise
type Smoother struct {
	params SmootherParams
	kf     *KalmanFilter
	tracks map[int]*trackState
	sync.Mutex
}

// NewSmoother returns a new position smoother
func NewSmoother(params SmootherParams) *Smoother {

	if params.MaxAge <= 0 {
		params.MaxAge = SmootherDefaultParams().MaxAge
	}

	return &Smoother{
		params: params,
		kf:     NewKalmanFilter(params.StdPosition, params.StdVelocity),
		tracks: make(map[int]*trackState),
	}
}

// Reset discards all track state
func (s *Smoother) Reset() {
	s.Lock()
	defer s.Unlock()

	s.tracks = make(map[int]*trackState)
}

// Len returns the number of live tracks
func (s *Smoother) Len() int {
	s.Lock()
	defer s.Unlock()

	return len(s.tracks)
}

// Smooth feeds an observed position for a track at the given frame and
// returns the filtered position.  A new or expired track starts from the
// observation.
func (s *Smoother) Smooth(trackID, frame int, p pitch.Point) pitch.Point {
	s.Lock()
	defer s.Unlock()

	m := Measurement{p.X, p.Y}
	st, exists := s.tracks[trackID]

	if !exists || frame <= st.lastFrame || frame-st.lastFrame > s.params.MaxAge {
		mean, cov := s.kf.Initiate(m)
		s.tracks[trackID] = &trackState{mean: mean, cov: cov, lastFrame: frame}
		return p
	}

	// advance once per elapsed frame
	for i := st.lastFrame; i < frame; i++ {
		s.kf.Predict(st.mean, st.cov)
	}

	st.lastFrame = frame

	if err := s.kf.Update(st.mean, st.cov, m); err != nil {
		// restart the track rather than output a diverged estimate
		mean, cov := s.kf.Initiate(m)
		s.tracks[trackID] = &trackState{mean: mean, cov: cov, lastFrame: frame}
		return p
	}

	return pitch.Point{X: st.mean[0], Y: st.mean[1]}
}

// Prune drops tracks not seen within MaxAge frames of the given frame
func (s *Smoother) Prune(frame int) {
	s.Lock()
	defer s.Unlock()

	for id, st := range s.tracks {
		if frame-st.lastFrame > s.params.MaxAge {
			delete(s.tracks, id)
		}
	}
}
