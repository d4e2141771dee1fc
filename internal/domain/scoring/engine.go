// Package scoring turns one health record into a bounded stroke risk score,
// a risk level and a short, prioritised list of recommendations.
//
// The engine is a pure function over immutable tables: it performs no I/O,
// holds no mutable state and is safe for concurrent use.
package scoring

import (
	"fmt"
	"math"
	"sort"

	"github.com/paramveeRana/brainstroke3/internal/domain/entities"
)

const (
	// NormalizationCeiling is the empirical maximum accumulated risk. A total
	// of NormalizationCeiling maps to a score of 100.
	NormalizationCeiling = 0.40

	// MaxRecommendations caps the returned recommendation list.
	MaxRecommendations = 7

	// maxFactorRecommendations caps how many active factors contribute advice.
	maxFactorRecommendations = 3

	moderateThreshold = 25.0
	highThreshold     = 50.0

	obeseBMI       = 30.0
	overweightBMI  = 25.0
	underweightBMI = 18.5

	// Risks are accumulated in basis points so sums like 0.23 stay exact.
	basisPoints = 10000
)

// Factor names a risk factor that can be active for recommendation purposes.
type Factor string

const (
	FactorAge          Factor = "age"
	FactorBMI          Factor = "bmi"
	FactorHypertension Factor = "hypertension"
	FactorHeartDisease Factor = "heartDisease"
	FactorSmoking      Factor = "smoking"
)

// priority ranks factors when choosing which get a recommendation.
func (f Factor) priority() int {
	switch f {
	case FactorHeartDisease, FactorHypertension:
		return 3
	case FactorSmoking:
		return 2
	default:
		return 1
	}
}

// AssessmentResult is the outcome of scoring one health record.
type AssessmentResult struct {
	RiskScore       int                `json:"risk_score"`
	RiskLevel       entities.RiskLevel `json:"risk_level"`
	BMI             float64            `json:"bmi"`
	Recommendations []string           `json:"recommendations"`
	TableVersion    string             `json:"table_version"`
}

// Engine scores health records against a fixed risk table and catalog.
type Engine struct {
	table   RiskFactorTable
	catalog RecommendationCatalog
}

// NewEngine validates the table and takes a private copy of the catalog.
func NewEngine(table RiskFactorTable, catalog RecommendationCatalog) (*Engine, error) {
	for name, entry := range table.entries() {
		if math.IsNaN(entry.Risk) || math.IsInf(entry.Risk, 0) || entry.Risk < 0 {
			return nil, fmt.Errorf("risk factor %s: risk must be a non-negative number, got %v", name, entry.Risk)
		}
	}
	for _, level := range []entities.RiskLevel{entities.RiskLevelLow, entities.RiskLevelModerate, entities.RiskLevelHigh} {
		if _, ok := catalog.ByRiskLevel[level]; !ok {
			return nil, fmt.Errorf("recommendation catalog: missing entries for risk level %s", level)
		}
	}

	return &Engine{table: table, catalog: catalog.clone()}, nil
}

var defaultEngine = mustEngine(DefaultRiskFactors(), DefaultRecommendations())

func mustEngine(table RiskFactorTable, catalog RecommendationCatalog) *Engine {
	engine, err := NewEngine(table, catalog)
	if err != nil {
		panic(err)
	}
	return engine
}

// Default returns the engine built from the built-in table and catalog.
func Default() *Engine {
	return defaultEngine
}

// CalculateStrokeRisk scores record with the default engine.
func CalculateStrokeRisk(record entities.HealthRecord) (*AssessmentResult, error) {
	return defaultEngine.Calculate(record)
}

// Table returns the risk factor table the engine scores against.
func (e *Engine) Table() RiskFactorTable {
	return e.table
}

// Catalog returns a copy of the engine's recommendation catalog.
func (e *Engine) Catalog() RecommendationCatalog {
	return e.catalog.clone()
}

// Calculate scores one record. It fails with an *InvalidInputError when
// height or weight is not positive. Unrecognised gender values score as
// female and unrecognised smoking statuses as never smoked.
func (e *Engine) Calculate(record entities.HealthRecord) (*AssessmentResult, error) {
	bmi, err := CalculateBMI(record.Height, record.Weight)
	if err != nil {
		return nil, err
	}

	smoking := record.SmokingStatus.Normalize()

	var total int64
	var active []Factor

	entry, isActive := e.ageFactor(record.Age)
	total += toBasisPoints(entry.Risk)
	if isActive {
		active = append(active, FactorAge)
	}

	if record.Gender.IsMale() {
		total += toBasisPoints(e.table.Gender.Male.Risk)
	} else {
		total += toBasisPoints(e.table.Gender.Female.Risk)
	}

	entry, isActive = e.bmiFactor(bmi)
	total += toBasisPoints(entry.Risk)
	if isActive {
		active = append(active, FactorBMI)
	}

	if record.Hypertension {
		total += toBasisPoints(e.table.Conditions.Hypertension.Risk)
		active = append(active, FactorHypertension)
	}
	if record.HeartDisease {
		total += toBasisPoints(e.table.Conditions.HeartDisease.Risk)
		active = append(active, FactorHeartDisease)
	}

	entry, isActive = e.smokingFactor(smoking)
	total += toBasisPoints(entry.Risk)
	if isActive {
		active = append(active, FactorSmoking)
	}

	percentage := riskPercentage(total)
	level := ClassifyRiskLevel(percentage)

	return &AssessmentResult{
		RiskScore:       int(math.Round(percentage)),
		RiskLevel:       level,
		BMI:             RoundBMI(bmi),
		Recommendations: e.recommend(level, active, smoking, bmi),
		TableVersion:    e.table.Version,
	}, nil
}

// ClassifyRiskLevel maps a 0-100 percentage onto a level. 25 is Moderate
// and 50 is High.
func ClassifyRiskLevel(percentage float64) entities.RiskLevel {
	switch {
	case percentage < moderateThreshold:
		return entities.RiskLevelLow
	case percentage < highThreshold:
		return entities.RiskLevelModerate
	default:
		return entities.RiskLevelHigh
	}
}

func (e *Engine) ageFactor(age int) (RiskFactorEntry, bool) {
	switch {
	case age >= 65:
		return e.table.Age.Over65, true
	case age >= 55:
		return e.table.Age.From55, true
	case age >= 45:
		return e.table.Age.From45, false
	case age >= 35:
		return e.table.Age.From35, false
	default:
		return e.table.Age.Under35, false
	}
}

func (e *Engine) bmiFactor(bmi float64) (RiskFactorEntry, bool) {
	switch {
	case bmi >= obeseBMI:
		return e.table.BMI.Obese.RiskFactorEntry, true
	case bmi >= overweightBMI:
		return e.table.BMI.Overweight.RiskFactorEntry, true
	case bmi < underweightBMI:
		return e.table.BMI.Underweight.RiskFactorEntry, true
	default:
		return e.table.BMI.Normal.RiskFactorEntry, false
	}
}

func (e *Engine) smokingFactor(status entities.SmokingStatus) (RiskFactorEntry, bool) {
	switch status {
	case entities.SmokingAdvanced:
		return e.table.Smoking.AdvancedSmoker, true
	case entities.SmokingCasual:
		return e.table.Smoking.CasualSmoker, true
	default:
		return e.table.Smoking.NeverSmoked, false
	}
}

func (e *Engine) recommend(level entities.RiskLevel, active []Factor, smoking entities.SmokingStatus, bmi float64) []string {
	recs := make([]string, 0, len(e.catalog.General)+len(e.catalog.ByRiskLevel[level])+maxFactorRecommendations)
	recs = append(recs, e.catalog.General...)
	recs = append(recs, e.catalog.ByRiskLevel[level]...)

	for _, factor := range topFactors(active, maxFactorRecommendations) {
		if rec := e.factorRecommendation(factor, smoking, bmi); rec != "" {
			recs = append(recs, rec)
		}
	}

	return uniqueLimit(recs, MaxRecommendations)
}

func (e *Engine) factorRecommendation(factor Factor, smoking entities.SmokingStatus, bmi float64) string {
	advice := e.catalog.ByRiskFactor
	switch factor {
	case FactorSmoking:
		if smoking == entities.SmokingAdvanced {
			return first(advice.Smoking.Advanced)
		}
		return first(advice.Smoking.Casual)
	case FactorHypertension:
		return first(advice.Hypertension)
	case FactorHeartDisease:
		return first(advice.HeartDisease)
	case FactorBMI:
		if bmi >= overweightBMI {
			return first(advice.BMI.High)
		}
		return first(advice.BMI.Low)
	case FactorAge:
		return first(advice.Age.Senior)
	}
	return ""
}

// topFactors orders factors by priority, keeping discovery order on ties,
// and returns at most n of them.
func topFactors(active []Factor, n int) []Factor {
	ranked := make([]Factor, len(active))
	copy(ranked, active)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].priority() > ranked[j].priority()
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// uniqueLimit drops repeats, keeping first occurrences, then truncates.
func uniqueLimit(recs []string, limit int) []string {
	seen := make(map[string]struct{}, len(recs))
	out := make([]string, 0, len(recs))
	for _, rec := range recs {
		if _, dup := seen[rec]; dup {
			continue
		}
		seen[rec] = struct{}{}
		out = append(out, rec)
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func toBasisPoints(risk float64) int64 {
	return int64(math.Round(risk * basisPoints))
}

func riskPercentage(totalBasisPoints int64) float64 {
	ceiling := toBasisPoints(NormalizationCeiling)
	return math.Min(float64(totalBasisPoints*100)/float64(ceiling), 100)
}
