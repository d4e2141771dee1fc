package scoring

import "math"

// CalculateBMI returns weight(kg) / height(m)^2 for a height in centimeters.
func CalculateBMI(heightCm, weightKg float64) (float64, error) {
	if err := checkPositive("height", heightCm); err != nil {
		return 0, err
	}
	if err := checkPositive("weight", weightKg); err != nil {
		return 0, err
	}

	meters := heightCm / 100
	bmi := weightKg / (meters * meters)
	if math.IsInf(bmi, 0) || math.IsNaN(bmi) {
		return 0, &InvalidInputError{Field: "height", Value: heightCm, Reason: "BMI is not finite"}
	}
	return bmi, nil
}

// RoundBMI rounds to one decimal place.
func RoundBMI(bmi float64) float64 {
	return math.Round(bmi*10) / 10
}

func checkPositive(field string, v float64) error {
	switch {
	case math.IsNaN(v) || math.IsInf(v, 0):
		return &InvalidInputError{Field: field, Value: v, Reason: "must be a finite number"}
	case v <= 0:
		return &InvalidInputError{Field: field, Value: v, Reason: "must be greater than zero"}
	}
	return nil
}
