package formation

// Summary is the per team formation digest written to the stats report
type Summary struct {
	MostCommon     string         `json:"most_common"`
	Counts         map[string]int `json:"counts"`
	FramesDetected int            `json:"frames_detected"`
}

// Tally counts how often each formation label was detected over a match.
// It is owned by the frame loop and is not safe for concurrent use.
type Tally struct {
	counts map[string]int
	// order records labels by first appearance so ties resolve to the
	// formation seen earliest
	order  []string
	frames int
}

// NewTally returns an empty formation tally
func NewTally() *Tally {
	return &Tally{
		counts: make(map[string]int),
	}
}

// Add records a detected formation label.  Empty labels and NotAvailable
// are ignored.
func (t *Tally) Add(label string) {

	if label == "" || label == NotAvailable {
		return
	}

	if _, exists := t.counts[label]; !exists {
		t.order = append(t.order, label)
	}

	t.counts[label]++
	t.frames++
}

// FramesDetected returns the number of frames a formation was recorded for
func (t *Tally) FramesDetected() int {
	return t.frames
}

// MostCommon returns the most frequently detected label, or NotAvailable
// if none has been recorded
func (t *Tally) MostCommon() string {

	best := NotAvailable
	bestCount := 0

	for _, label := range t.order {
		if c := t.counts[label]; c > bestCount {
			best = label
			bestCount = c
		}
	}

	return best
}

// Counts returns a copy of the per label counts
func (t *Tally) Counts() map[string]int {

	out := make(map[string]int, len(t.counts))

	for k, v := range t.counts {
		out[k] = v
	}

	return out
}

// Summary returns the digest of the tally
func (t *Tally) Summary() Summary {
	return Summary{
		MostCommon:     t.MostCommon(),
		Counts:         t.Counts(),
		FramesDetected: t.frames,
	}
}
