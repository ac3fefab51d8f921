package homography

import (
	"errors"
	"fmt"
	"math"

	"github.com/swdee/go-tactical/pitch"
	"gonum.org/v1/gonum/mat"
)

// ErrDegenerateCorrespondence is returned when the correspondences can not
// produce a projective transform, either because there are fewer than four
// of them or because the points are collinear.
var ErrDegenerateCorrespondence = errors.New("degenerate keypoint correspondence")

const (
	// MinCorrespondences is the minimum number of point pairs required to
	// solve a homography
	MinCorrespondences = 4

	// rankTolerance is the ratio of the eighth to the first singular value
	// of the normalised design matrix below which the system is treated as
	// rank deficient
	rankTolerance = 1e-9

	// collinearTolerance is the ratio of the smallest to largest eigenvalue
	// of a point set's covariance below which the points are treated as
	// lying on a line
	collinearTolerance = 1e-6
)

// Flip selects reflections applied after projection to correct the camera
// orientation against the attacking right convention
type Flip struct {
	X bool
	Y bool
}

// Transformer is a projective mapping from image pixel space to pitch
// meters.  It is fitted once from a set of correspondences and is safe for
// concurrent use.
type Transformer struct {
	// m is the 3x3 homography matrix
	m *mat.Dense
}

// New fits a homography mapping source points onto target points.  All
// correspondences take part in a least squares fit, so a single noisy
// keypoint is averaged out rather than dominating the solution.
func New(source, target []pitch.Point) (*Transformer, error) {

	if len(source) != len(target) {
		return nil, fmt.Errorf("%w: %d source points but %d target points",
			ErrDegenerateCorrespondence, len(source), len(target))
	}

	if len(source) < MinCorrespondences {
		return nil, fmt.Errorf("%w: need at least %d points, got %d",
			ErrDegenerateCorrespondence, MinCorrespondences, len(source))
	}

	if collinear(source) || collinear(target) {
		return nil, fmt.Errorf("%w: points are collinear", ErrDegenerateCorrespondence)
	}

	srcNorm, srcT := normalize(source)
	dstNorm, dstT := normalize(target)

	// build the 2N x 9 direct linear transform design matrix
	n := len(source)
	a := mat.NewDense(2*n, 9, nil)

	for i := 0; i < n; i++ {
		x, y := srcNorm[i].X, srcNorm[i].Y
		u, v := dstNorm[i].X, dstNorm[i].Y

		a.SetRow(2*i, []float64{-x, -y, -1, 0, 0, 0, u * x, u * y, u})
		a.SetRow(2*i+1, []float64{0, 0, 0, -x, -y, -1, v * x, v * y, v})
	}

	var svd mat.SVD

	if ok := svd.Factorize(a, mat.SVDFull); !ok {
		return nil, fmt.Errorf("%w: SVD failed to converge", ErrDegenerateCorrespondence)
	}

	values := svd.Values(nil)

	if len(values) < 8 || values[0] == 0 || values[7]/values[0] < rankTolerance {
		return nil, fmt.Errorf("%w: correspondences are rank deficient", ErrDegenerateCorrespondence)
	}

	// solution is the right singular vector of the smallest singular value
	var v mat.Dense
	svd.VTo(&v)

	hn := mat.NewDense(3, 3, nil)

	for i := 0; i < 9; i++ {
		hn.Set(i/3, i%3, v.At(i, 8))
	}

	// undo the normalisation, H = inv(Tdst) * Hn * Tsrc
	var dstInv mat.Dense

	if err := dstInv.Inverse(dstT); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDegenerateCorrespondence, err)
	}

	h := mat.NewDense(3, 3, nil)
	h.Product(&dstInv, hn, srcT)

	scale := h.At(2, 2)

	if math.Abs(scale) < 1e-12 {
		return nil, fmt.Errorf("%w: homography maps origin to infinity", ErrDegenerateCorrespondence)
	}

	h.Scale(1/scale, h)

	for _, val := range h.RawMatrix().Data {
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return nil, fmt.Errorf("%w: solution is not finite", ErrDegenerateCorrespondence)
		}
	}

	return &Transformer{m: h}, nil
}

// FromCorrespondences fits a transformer from resolved keypoint
// correspondences
func FromCorrespondences(c pitch.Correspondences) (*Transformer, error) {
	return New(c.Image, c.Pitch)
}

// Matrix returns a copy of the 3x3 homography matrix
func (t *Transformer) Matrix() *mat.Dense {
	return mat.DenseCopyOf(t.m)
}

// TransformPoint maps a single image point into pitch space
func (t *Transformer) TransformPoint(p pitch.Point, flip Flip) pitch.Point {

	m := t.m.RawMatrix().Data

	w := m[6]*p.X + m[7]*p.Y + m[8]
	out := pitch.Point{
		X: (m[0]*p.X + m[1]*p.Y + m[2]) / w,
		Y: (m[3]*p.X + m[4]*p.Y + m[5]) / w,
	}

	return ApplyFlip(out, flip)
}

// Transform maps image points into pitch space.  Results are not clamped to
// the pitch, out of bounds positions from noisy keypoints are passed
// through.  An empty or nil input is returned unchanged.
func (t *Transformer) Transform(points []pitch.Point, flip Flip) []pitch.Point {

	if len(points) == 0 {
		return points
	}

	out := make([]pitch.Point, len(points))

	for i, p := range points {
		out[i] = t.TransformPoint(p, flip)
	}

	return out
}

// ApplyFlip reflects a pitch point about the halfway line (X) and/or the
// long axis (Y)
func ApplyFlip(p pitch.Point, flip Flip) pitch.Point {

	if flip.X {
		p = p.MirrorX()
	}

	if flip.Y {
		p = p.MirrorY()
	}

	return p
}

// normalize translates the points to have their centroid at the origin and
// scales them so the mean distance from it is sqrt(2).  It returns the
// normalised points and the 3x3 similarity transform used.
func normalize(points []pitch.Point) ([]pitch.Point, *mat.Dense) {

	var cx, cy float64

	for _, p := range points {
		cx += p.X
		cy += p.Y
	}

	n := float64(len(points))
	cx /= n
	cy /= n

	var meanDist float64

	for _, p := range points {
		meanDist += math.Hypot(p.X-cx, p.Y-cy)
	}

	meanDist /= n

	s := 1.0

	if meanDist > 0 {
		s = math.Sqrt2 / meanDist
	}

	out := make([]pitch.Point, len(points))

	for i, p := range points {
		out[i] = pitch.Point{X: (p.X - cx) * s, Y: (p.Y - cy) * s}
	}

	t := mat.NewDense(3, 3, []float64{
		s, 0, -s * cx,
		0, s, -s * cy,
		0, 0, 1,
	})

	return out, t
}

// collinear reports whether the points lie on (or extremely close to) a
// single line, using the eigenvalues of their 2x2 covariance
func collinear(points []pitch.Point) bool {

	var cx, cy float64

	for _, p := range points {
		cx += p.X
		cy += p.Y
	}

	n := float64(len(points))
	cx /= n
	cy /= n

	var sxx, syy, sxy float64

	for _, p := range points {
		dx, dy := p.X-cx, p.Y-cy
		sxx += dx * dx
		syy += dy * dy
		sxy += dx * dy
	}

	tr := sxx + syy

	if tr == 0 {
		return true
	}

	det := sxx*syy - sxy*sxy
	disc := math.Sqrt(math.Max(tr*tr/4-det, 0))
	largest := tr/2 + disc
	smallest := tr/2 - disc

	return smallest/largest < collinearTolerance
}
