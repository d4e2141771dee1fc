package evaluation

// AbsError returns |expected - actual|.
func AbsError(expected, actual int) int {
	if expected > actual {
		return expected - actual
	}
	return actual - expected
}

// MeanAbsoluteError averages absolute errors. Empty input yields 0.
func MeanAbsoluteError(errs []int) float64 {
	if len(errs) == 0 {
		return 0
	}
	sum := 0
	for _, e := range errs {
		sum += e
	}
	return float64(sum) / float64(len(errs))
}

// MissingRecommendations lists required entries absent from got, in order.
func MissingRecommendations(required, got []string) []string {
	present := make(map[string]bool, len(got))
	for _, rec := range got {
		present[rec] = true
	}
	var missing []string
	for _, rec := range required {
		if !present[rec] {
			missing = append(missing, rec)
		}
	}
	return missing
}

// RecommendationCoverage is the fraction of required entries present in
// got. With nothing required coverage is 1.
func RecommendationCoverage(required, got []string) float64 {
	if len(required) == 0 {
		return 1
	}
	missing := MissingRecommendations(required, got)
	return float64(len(required)-len(missing)) / float64(len(required))
}
