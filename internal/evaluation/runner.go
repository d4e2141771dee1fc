package evaluation

import (
	"context"
	"fmt"

	"github.com/paramveeRana/brainstroke3/internal/domain/entities"
	"github.com/paramveeRana/brainstroke3/internal/domain/scoring"
)

// Scorer scores a single health record.
type Scorer interface {
	Calculate(record entities.HealthRecord) (*scoring.AssessmentResult, error)
}

// Runner replays golden cases through a scorer.
type Runner struct {
	scorer    Scorer
	tolerance Tolerance
	version   string
}

// NewRunner builds a runner over the given engine.
func NewRunner(engine *scoring.Engine, tolerance Tolerance) *Runner {
	return &Runner{
		scorer:    engine,
		tolerance: NewTolerance(tolerance),
		version:   engine.Table().Version,
	}
}

// NewRunnerWithScorer builds a runner over an arbitrary scorer.
func NewRunnerWithScorer(scorer Scorer, tolerance Tolerance) *Runner {
	return &Runner{scorer: scorer, tolerance: NewTolerance(tolerance)}
}

// Run scores every case and aggregates the outcomes. It stops early only
// when ctx is cancelled.
func (r *Runner) Run(ctx context.Context, cases []GoldenCase) (*Summary, error) {
	summary := &Summary{
		TableVersion: r.version,
		TotalCases:   len(cases),
		ByLevel:      make(map[entities.RiskLevel]*LevelSummary),
	}

	var errs []int
	levelErrs := make(map[entities.RiskLevel][]int)

	for _, gc := range cases {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		result := r.evaluate(gc)
		r.updateSummary(summary, gc, result)
		if result.Error == "" {
			errs = append(errs, result.ScoreError)
			levelErrs[gc.ExpectedLevel] = append(levelErrs[gc.ExpectedLevel], result.ScoreError)
		}
	}

	summary.ScoreMAE = MeanAbsoluteError(errs)
	for level, ls := range summary.ByLevel {
		ls.ScoreMAE = MeanAbsoluteError(levelErrs[level])
	}
	r.finalizeSummary(summary)
	return summary, nil
}

func (r *Runner) evaluate(gc GoldenCase) CaseResult {
	result := CaseResult{CaseID: gc.ID, ExpectedLevel: gc.ExpectedLevel}

	scored, err := r.scorer.Calculate(gc.Record)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	result.ActualScore = scored.RiskScore
	result.ActualLevel = scored.RiskLevel
	result.ActualBMI = scored.BMI
	result.ScoreError = AbsError(gc.ExpectedScore, scored.RiskScore)
	result.MissingRecs = MissingRecommendations(gc.MustInclude, scored.Recommendations)
	result.Coverage = RecommendationCoverage(gc.MustInclude, scored.Recommendations)

	if !r.tolerance.scoreWithin(gc.ExpectedScore, scored.RiskScore) {
		result.Failures = append(result.Failures, fmt.Sprintf("score: expected %d, got %d", gc.ExpectedScore, scored.RiskScore))
	}
	if scored.RiskLevel != gc.ExpectedLevel {
		result.Failures = append(result.Failures, fmt.Sprintf("level: expected %s, got %s", gc.ExpectedLevel, scored.RiskLevel))
	}
	if gc.ExpectedBMI != nil && !r.tolerance.bmiWithin(*gc.ExpectedBMI, scored.BMI) {
		result.Failures = append(result.Failures, fmt.Sprintf("bmi: expected %.1f, got %.1f", *gc.ExpectedBMI, scored.BMI))
	}
	if len(result.MissingRecs) > 0 {
		result.Failures = append(result.Failures, fmt.Sprintf("missing %d required recommendation(s)", len(result.MissingRecs)))
		result.Recommendations = scored.Recommendations
	}

	result.Passed = len(result.Failures) == 0
	return result
}

func (r *Runner) updateSummary(s *Summary, gc GoldenCase, res CaseResult) {
	ls, ok := s.ByLevel[gc.ExpectedLevel]
	if !ok {
		ls = &LevelSummary{}
		s.ByLevel[gc.ExpectedLevel] = ls
	}
	ls.Count++

	switch {
	case res.Error != "":
		s.Errored++
		s.Failed++
		s.Failures = append(s.Failures, res)
		return
	case res.Passed:
		s.Passed++
		ls.Passed++
	default:
		s.Failed++
		s.Failures = append(s.Failures, res)
	}

	if res.ActualLevel == gc.ExpectedLevel {
		ls.LevelAccuracy++
	}
	s.AvgCoverage += res.Coverage
}

func (r *Runner) finalizeSummary(s *Summary) {
	if s.TotalCases > 0 {
		s.PassRate = float64(s.Passed) / float64(s.TotalCases)
	}
	if scored := s.TotalCases - s.Errored; scored > 0 {
		s.AvgCoverage /= float64(scored)
	}
	for _, ls := range s.ByLevel {
		if ls.Count > 0 {
			ls.LevelAccuracy /= float64(ls.Count)
		}
	}
}
