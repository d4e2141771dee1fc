package evaluation

import "math"

// Tolerance bounds how far an outcome may drift from a golden case and
// still pass.
type Tolerance struct {
	ScorePoints int
	BMI         float64
}

const defaultBMITolerance = 0.05

// NewTolerance fills unset bounds. Score drift defaults to exact match.
func NewTolerance(t Tolerance) Tolerance {
	if t.ScorePoints < 0 {
		t.ScorePoints = 0
	}
	if t.BMI <= 0 {
		t.BMI = defaultBMITolerance
	}
	return t
}

func (t Tolerance) scoreWithin(expected, actual int) bool {
	return AbsError(expected, actual) <= t.ScorePoints
}

func (t Tolerance) bmiWithin(expected, actual float64) bool {
	return math.Abs(expected-actual) <= t.BMI
}
