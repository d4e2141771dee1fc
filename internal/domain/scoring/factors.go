package scoring

import (
	"encoding/json"
	"math"
)

// RiskFactorEntry is the contribution of one risk bucket. Weight is kept for
// schema compatibility with the stored dataset; the score only reads Risk.
type RiskFactorEntry struct {
	Weight float64 `json:"weight"`
	Risk   float64 `json:"risk"`
}

// BMIBucket is a RiskFactorEntry with its half-open [Min, Max) range.
type BMIBucket struct {
	RiskFactorEntry
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// MarshalJSON encodes an unbounded Max as null; encoding/json rejects +Inf.
func (b BMIBucket) MarshalJSON() ([]byte, error) {
	var upper *float64
	if !math.IsInf(b.Max, 1) {
		upper = &b.Max
	}
	return json.Marshal(struct {
		Weight float64  `json:"weight"`
		Risk   float64  `json:"risk"`
		Min    float64  `json:"min"`
		Max    *float64 `json:"max"`
	}{b.Weight, b.Risk, b.Min, upper})
}

// AgeFactors holds the age buckets.
type AgeFactors struct {
	Under35 RiskFactorEntry `json:"under35"`
	From35  RiskFactorEntry `json:"35-44"`
	From45  RiskFactorEntry `json:"45-54"`
	From55  RiskFactorEntry `json:"55-64"`
	Over65  RiskFactorEntry `json:"65plus"`
}

// GenderFactors holds the gender buckets.
type GenderFactors struct {
	Male   RiskFactorEntry `json:"male"`
	Female RiskFactorEntry `json:"female"`
}

// BMIFactors holds the BMI buckets.
type BMIFactors struct {
	Underweight BMIBucket `json:"underweight"`
	Normal      BMIBucket `json:"normal"`
	Overweight  BMIBucket `json:"overweight"`
	Obese       BMIBucket `json:"obese"`
}

// ConditionFactors holds the medical condition buckets.
type ConditionFactors struct {
	Hypertension RiskFactorEntry `json:"hypertension"`
	HeartDisease RiskFactorEntry `json:"heartDisease"`
}

// SmokingFactors holds the smoking buckets.
type SmokingFactors struct {
	NeverSmoked    RiskFactorEntry `json:"neverSmoked"`
	CasualSmoker   RiskFactorEntry `json:"casualSmoker"`
	AdvancedSmoker RiskFactorEntry `json:"advancedSmoker"`
}

// RiskFactorTable maps every categorical bucket to its risk contribution.
// It is a plain value: copies are independent and nothing mutates it after
// construction.
type RiskFactorTable struct {
	Version    string           `json:"version"`
	Age        AgeFactors       `json:"age"`
	Gender     GenderFactors    `json:"gender"`
	BMI        BMIFactors       `json:"bmi"`
	Conditions ConditionFactors `json:"conditions"`
	Smoking    SmokingFactors   `json:"smoking"`
}

// DefaultTableVersion identifies DefaultRiskFactors.
const DefaultTableVersion = "2024.1"

// DefaultRiskFactors returns the built-in risk factor table.
func DefaultRiskFactors() RiskFactorTable {
	return RiskFactorTable{
		Version: DefaultTableVersion,
		Age: AgeFactors{
			Under35: RiskFactorEntry{Weight: 1, Risk: 0.01},
			From35:  RiskFactorEntry{Weight: 2, Risk: 0.02},
			From45:  RiskFactorEntry{Weight: 3, Risk: 0.03},
			From55:  RiskFactorEntry{Weight: 4, Risk: 0.05},
			Over65:  RiskFactorEntry{Weight: 5, Risk: 0.08},
		},
		Gender: GenderFactors{
			Male:   RiskFactorEntry{Weight: 2, Risk: 0.03},
			Female: RiskFactorEntry{Weight: 1, Risk: 0.02},
		},
		BMI: BMIFactors{
			Underweight: BMIBucket{RiskFactorEntry: RiskFactorEntry{Weight: 2, Risk: 0.02}, Min: 0, Max: 18.5},
			Normal:      BMIBucket{RiskFactorEntry: RiskFactorEntry{Weight: 1, Risk: 0.01}, Min: 18.5, Max: 25},
			Overweight:  BMIBucket{RiskFactorEntry: RiskFactorEntry{Weight: 3, Risk: 0.03}, Min: 25, Max: 30},
			Obese:       BMIBucket{RiskFactorEntry: RiskFactorEntry{Weight: 4, Risk: 0.05}, Min: 30, Max: math.Inf(1)},
		},
		Conditions: ConditionFactors{
			Hypertension: RiskFactorEntry{Weight: 5, Risk: 0.10},
			HeartDisease: RiskFactorEntry{Weight: 5, Risk: 0.10},
		},
		Smoking: SmokingFactors{
			NeverSmoked:    RiskFactorEntry{Weight: 1, Risk: 0.01},
			CasualSmoker:   RiskFactorEntry{Weight: 3, Risk: 0.04},
			AdvancedSmoker: RiskFactorEntry{Weight: 4, Risk: 0.07},
		},
	}
}

// entries lists every bucket with a stable name, for validation and display.
func (t RiskFactorTable) entries() map[string]RiskFactorEntry {
	return map[string]RiskFactorEntry{
		"age.under35":             t.Age.Under35,
		"age.35-44":               t.Age.From35,
		"age.45-54":               t.Age.From45,
		"age.55-64":               t.Age.From55,
		"age.65plus":              t.Age.Over65,
		"gender.male":             t.Gender.Male,
		"gender.female":           t.Gender.Female,
		"bmi.underweight":         t.BMI.Underweight.RiskFactorEntry,
		"bmi.normal":              t.BMI.Normal.RiskFactorEntry,
		"bmi.overweight":          t.BMI.Overweight.RiskFactorEntry,
		"bmi.obese":               t.BMI.Obese.RiskFactorEntry,
		"conditions.hypertension": t.Conditions.Hypertension,
		"conditions.heartDisease": t.Conditions.HeartDisease,
		"smoking.neverSmoked":     t.Smoking.NeverSmoked,
		"smoking.casualSmoker":    t.Smoking.CasualSmoker,
		"smoking.advancedSmoker":  t.Smoking.AdvancedSmoker,
	}
}

// MaxAttainableRisk sums the largest bucket of every group, the way a record
// with every condition would accumulate.
func (t RiskFactorTable) MaxAttainableRisk() float64 {
	maxOf := func(entries ...RiskFactorEntry) float64 {
		m := 0.0
		for _, e := range entries {
			m = math.Max(m, e.Risk)
		}
		return m
	}
	return maxOf(t.Age.Under35, t.Age.From35, t.Age.From45, t.Age.From55, t.Age.Over65) +
		maxOf(t.Gender.Male, t.Gender.Female) +
		maxOf(t.BMI.Underweight.RiskFactorEntry, t.BMI.Normal.RiskFactorEntry, t.BMI.Overweight.RiskFactorEntry, t.BMI.Obese.RiskFactorEntry) +
		t.Conditions.Hypertension.Risk + t.Conditions.HeartDisease.Risk +
		maxOf(t.Smoking.NeverSmoked, t.Smoking.CasualSmoker, t.Smoking.AdvancedSmoker)
}
