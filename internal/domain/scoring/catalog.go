package scoring

import "github.com/paramveeRana/brainstroke3/internal/domain/entities"

// SmokingRecommendations splits smoking advice by habit severity.
type SmokingRecommendations struct {
	Casual   []string `json:"casual"`
	Advanced []string `json:"advanced"`
}

// BMIRecommendations splits weight advice by direction.
type BMIRecommendations struct {
	High []string `json:"high"`
	Low  []string `json:"low"`
}

// AgeRecommendations holds age-related advice.
type AgeRecommendations struct {
	Senior []string `json:"senior"`
}

// FactorRecommendations holds advice per active risk factor.
type FactorRecommendations struct {
	Smoking      SmokingRecommendations `json:"smoking"`
	Hypertension []string               `json:"hypertension"`
	HeartDisease []string               `json:"heartDisease"`
	BMI          BMIRecommendations     `json:"bmi"`
	Age          AgeRecommendations     `json:"age"`
}

// RecommendationCatalog is the static advice the engine selects from.
type RecommendationCatalog struct {
	General      []string                        `json:"general"`
	ByRiskLevel  map[entities.RiskLevel][]string `json:"byRiskLevel"`
	ByRiskFactor FactorRecommendations           `json:"byRiskFactor"`
}

// DefaultRecommendations returns the built-in catalog. Each call builds fresh
// slices and maps so callers can never alias engine state.
func DefaultRecommendations() RecommendationCatalog {
	return RecommendationCatalog{
		General: []string{
			"Schedule regular health check-ups to monitor your risk factors",
			"Maintain a balanced diet rich in fruits, vegetables, and whole grains",
		},
		ByRiskLevel: map[entities.RiskLevel][]string{
			entities.RiskLevelLow: {
				"Continue your healthy lifestyle habits",
				"Get annual health screenings",
			},
			entities.RiskLevelModerate: {
				"Schedule a consultation with your healthcare provider",
				"Consider preventive medications if recommended",
			},
			entities.RiskLevelHigh: {
				"Seek immediate medical consultation",
				"Develop an emergency action plan with your doctor",
			},
		},
		ByRiskFactor: FactorRecommendations{
			Smoking: SmokingRecommendations{
				Casual: []string{
					"Consider a smoking cessation program to reduce your stroke risk",
					"Set a quit date and gradually reduce smoking frequency",
				},
				Advanced: []string{
					"Seek professional help for smoking cessation immediately",
					"Join a support group for better chances of quitting successfully",
				},
			},
			Hypertension: []string{
				"Monitor your blood pressure daily",
				"Follow your prescribed medication regimen strictly",
				"Reduce sodium intake in your diet",
			},
			HeartDisease: []string{
				"Take your heart medications as prescribed",
				"Monitor your cholesterol levels regularly",
				"Follow a heart-healthy exercise routine",
			},
			BMI: BMIRecommendations{
				High: []string{
					"Consult a nutritionist for a personalized diet plan",
					"Aim for 30 minutes of moderate exercise daily",
				},
				Low: []string{
					"Increase your caloric intake with nutrient-rich foods",
					"Consider strength training to build muscle mass",
				},
			},
			Age: AgeRecommendations{
				Senior: []string{
					"Practice balance exercises to prevent falls",
					"Stay mentally active with brain-stimulating activities",
				},
			},
		},
	}
}

// clone deep-copies the catalog.
func (c RecommendationCatalog) clone() RecommendationCatalog {
	byLevel := make(map[entities.RiskLevel][]string, len(c.ByRiskLevel))
	for level, recs := range c.ByRiskLevel {
		byLevel[level] = cloneStrings(recs)
	}
	return RecommendationCatalog{
		General:     cloneStrings(c.General),
		ByRiskLevel: byLevel,
		ByRiskFactor: FactorRecommendations{
			Smoking: SmokingRecommendations{
				Casual:   cloneStrings(c.ByRiskFactor.Smoking.Casual),
				Advanced: cloneStrings(c.ByRiskFactor.Smoking.Advanced),
			},
			Hypertension: cloneStrings(c.ByRiskFactor.Hypertension),
			HeartDisease: cloneStrings(c.ByRiskFactor.HeartDisease),
			BMI: BMIRecommendations{
				High: cloneStrings(c.ByRiskFactor.BMI.High),
				Low:  cloneStrings(c.ByRiskFactor.BMI.Low),
			},
			Age: AgeRecommendations{
				Senior: cloneStrings(c.ByRiskFactor.Age.Senior),
			},
		},
	}
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

// first returns the leading entry of a list, or "" when it is empty.
func first(recs []string) string {
	if len(recs) == 0 {
		return ""
	}
	return recs[0]
}
