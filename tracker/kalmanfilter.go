package tracker

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// stateDim is the size of the state vector x, y, vx, vy
const stateDim = 4

// measureDim is the size of a measurement x, y
const measureDim = 2

// StateMean is the 1x4 state vector of position in meters and velocity in
// meters per frame
type StateMean []float64

// StateCov represents the 4x4 state covariance matrix
type StateCov struct {
	*mat.Dense
}

// Measurement is an observed pitch position
type Measurement [measureDim]float64

// KalmanFilter is a constant velocity filter over pitch positions
type KalmanFilter struct {
	// stdPosition is the standard deviation of position noise in meters
	stdPosition float64
	// stdVelocity is the standard deviation of velocity noise in meters per
	// frame
	stdVelocity float64
	motionMat   *mat.Dense
	updateMat   *mat.Dense
}

// NewKalmanFilter initializes and returns a new KalmanFilter
func NewKalmanFilter(stdPosition, stdVelocity float64) *KalmanFilter {

	// identity with dt=1 coupling position to velocity
	motionMat := mat.NewDense(stateDim, stateDim, nil)

	for i := 0; i < stateDim; i++ {
		motionMat.Set(i, i, 1)
	}

	for i := 0; i < measureDim; i++ {
		motionMat.Set(i, measureDim+i, 1)
	}

	// observe position only
	updateMat := mat.NewDense(measureDim, stateDim, nil)

	for i := 0; i < measureDim; i++ {
		updateMat.Set(i, i, 1)
	}

	return &KalmanFilter{
		stdPosition: stdPosition,
		stdVelocity: stdVelocity,
		motionMat:   motionMat,
		updateMat:   updateMat,
	}
}

// Initiate creates the state mean and covariance from a first measurement
// with zero velocity
func (kf *KalmanFilter) Initiate(m Measurement) (StateMean, *StateCov) {

	mean := StateMean{m[0], m[1], 0, 0}

	std := []float64{
		2 * kf.stdPosition,
		2 * kf.stdPosition,
		10 * kf.stdVelocity,
		10 * kf.stdVelocity,
	}

	cov := mat.NewDense(stateDim, stateDim, nil)

	for i, v := range std {
		cov.Set(i, i, v*v)
	}

	return mean, &StateCov{cov}
}

// Predict advances the state mean and covariance by one frame
func (kf *KalmanFilter) Predict(mean StateMean, covariance *StateCov) {

	std := []float64{kf.stdPosition, kf.stdPosition, kf.stdVelocity, kf.stdVelocity}

	motionCov := mat.NewDense(stateDim, stateDim, nil)

	for i, v := range std {
		motionCov.Set(i, i, v*v)
	}

	meanVec := mat.NewVecDense(stateDim, nil)
	meanVec.MulVec(kf.motionMat, mat.NewVecDense(stateDim, mean))

	for i := 0; i < stateDim; i++ {
		mean[i] = meanVec.AtVec(i)
	}

	// F * P * F' + Q
	cov := mat.NewDense(stateDim, stateDim, nil)
	cov.Mul(kf.motionMat, covariance.Dense)
	cov.Mul(cov, kf.motionMat.T())
	cov.Add(cov, motionCov)

	covariance.Dense = cov
}

// Update corrects the state mean and covariance with a measurement
func (kf *KalmanFilter) Update(mean StateMean, covariance *StateCov, m Measurement) error {

	projectedMean, projectedCov := kf.project(mean, covariance)

	chol := mat.Cholesky{}

	if ok := chol.Factorize(projectedCov); !ok {
		return errors.New("failed to factorize projected covariance")
	}

	// kalman gain K' = S^-1 * H * P'
	b := mat.NewDense(stateDim, measureDim, nil)
	b.Mul(covariance.Dense, kf.updateMat.T())

	var kalmanGain mat.Dense

	if err := chol.SolveTo(&kalmanGain, b.T()); err != nil {
		return fmt.Errorf("failed to compute kalman gain: %w", err)
	}

	innovation := mat.NewVecDense(measureDim, []float64{
		m[0] - projectedMean[0],
		m[1] - projectedMean[1],
	})

	delta := mat.NewVecDense(stateDim, nil)
	delta.MulVec(kalmanGain.T(), innovation)

	for i := 0; i < stateDim; i++ {
		mean[i] += delta.AtVec(i)
	}

	// P - K * S * K'
	temp := mat.NewDense(stateDim, measureDim, nil)
	temp.Mul(kalmanGain.T(), projectedCov)

	temp2 := mat.NewDense(stateDim, stateDim, nil)
	temp2.Mul(temp, &kalmanGain)

	newCov := mat.NewDense(stateDim, stateDim, nil)
	newCov.Sub(covariance.Dense, temp2)

	covariance.Dense = newCov

	return nil
}

// project maps the state mean and covariance into measurement space
func (kf *KalmanFilter) project(mean StateMean, covariance *StateCov) ([]float64, *mat.SymDense) {

	projectedMean := mat.NewVecDense(measureDim, nil)
	projectedMean.MulVec(kf.updateMat, mat.NewVecDense(stateDim, mean))

	temp := mat.NewDense(measureDim, stateDim, nil)
	temp.Mul(kf.updateMat, covariance.Dense)

	temp2 := mat.NewDense(measureDim, measureDim, nil)
	temp2.Mul(temp, kf.updateMat.T())

	noise := kf.stdPosition * kf.stdPosition

	// symmetrise and add measurement noise
	projectedCov := mat.NewSymDense(measureDim, nil)

	for i := 0; i < measureDim; i++ {
		for j := i; j < measureDim; j++ {
			v := (temp2.At(i, j) + temp2.At(j, i)) / 2
			if i == j {
				v += noise
			}
			projectedCov.SetSym(i, j, v)
		}
	}

	return []float64{projectedMean.AtVec(0), projectedMean.AtVec(1)}, projectedCov
}
