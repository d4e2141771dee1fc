package evaluation

import (
	"context"
	"fmt"
	"testing"

	"github.com/paramveeRana/brainstroke3/internal/domain/entities"
	"github.com/paramveeRana/brainstroke3/internal/domain/scoring"
)

func bmi(v float64) *float64 { return &v }

func seniorCase() GoldenCase {
	return GoldenCase{
		ID: "senior-hypertensive-male",
		Record: entities.HealthRecord{
			Age: 70, Gender: entities.GenderMale, Height: 170, Weight: 70,
			Hypertension: true, SmokingStatus: entities.SmokingNever,
		},
		ExpectedScore: 58,
		ExpectedLevel: entities.RiskLevelHigh,
		ExpectedBMI:   bmi(24.2),
		MustInclude:   []string{"Seek immediate medical consultation", "Monitor your blood pressure daily"},
	}
}

func youngCase() GoldenCase {
	return GoldenCase{
		ID: "young-healthy-female",
		Record: entities.HealthRecord{
			Age: 25, Gender: entities.GenderFemale, Height: 165, Weight: 60,
			SmokingStatus: entities.SmokingNever,
		},
		ExpectedScore: 13,
		ExpectedLevel: entities.RiskLevelLow,
		ExpectedBMI:   bmi(22.0),
	}
}

func TestRunner_AllPass(t *testing.T) {
	runner := NewRunner(scoring.Default(), Tolerance{})
	summary, err := runner.Run(context.Background(), []GoldenCase{seniorCase(), youngCase()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.Passed != 2 || summary.Failed != 0 {
		t.Fatalf("expected 2 passed, got %d passed %d failed: %+v", summary.Passed, summary.Failed, summary.Failures)
	}
	if !almostEqual(summary.PassRate, 1.0) {
		t.Errorf("expected pass rate 1.0, got %f", summary.PassRate)
	}
	if !almostEqual(summary.ScoreMAE, 0.0) {
		t.Errorf("expected MAE 0, got %f", summary.ScoreMAE)
	}
	if summary.TableVersion != scoring.DefaultTableVersion {
		t.Errorf("expected table version %s, got %s", scoring.DefaultTableVersion, summary.TableVersion)
	}
	high := summary.ByLevel[entities.RiskLevelHigh]
	if high == nil || high.Count != 1 || !almostEqual(high.LevelAccuracy, 1.0) {
		t.Errorf("unexpected High breakdown: %+v", high)
	}
}

func TestRunner_ScoreDrift(t *testing.T) {
	gc := seniorCase()
	gc.ExpectedScore = 55

	strict, err := NewRunner(scoring.Default(), Tolerance{}).Run(context.Background(), []GoldenCase{gc})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strict.Failed != 1 {
		t.Fatalf("expected the drifted case to fail, got %+v", strict)
	}
	if !almostEqual(strict.ScoreMAE, 3.0) {
		t.Errorf("expected MAE 3, got %f", strict.ScoreMAE)
	}
	if got := strict.Failures[0].Failures; len(got) != 1 {
		t.Errorf("expected only the score check to fail, got %v", got)
	}

	lenient, err := NewRunner(scoring.Default(), Tolerance{ScorePoints: 3}).Run(context.Background(), []GoldenCase{gc})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lenient.Passed != 1 {
		t.Errorf("expected the case to pass within tolerance, got %+v", lenient.Failures)
	}
}

func TestRunner_LevelAndRecommendationMismatch(t *testing.T) {
	gc := youngCase()
	gc.ExpectedLevel = entities.RiskLevelModerate
	gc.MustInclude = []string{"Seek immediate medical consultation"}

	summary, err := NewRunner(scoring.Default(), Tolerance{}).Run(context.Background(), []GoldenCase{gc})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.Failed != 1 || len(summary.Failures) != 1 {
		t.Fatalf("expected one failure, got %+v", summary)
	}
	res := summary.Failures[0]
	if len(res.Failures) != 2 {
		t.Errorf("expected level and recommendation failures, got %v", res.Failures)
	}
	if len(res.MissingRecs) != 1 {
		t.Errorf("expected one missing recommendation, got %v", res.MissingRecs)
	}
	if len(res.Recommendations) == 0 {
		t.Error("expected actual recommendations to be reported for a missing-advice failure")
	}
	moderate := summary.ByLevel[entities.RiskLevelModerate]
	if moderate == nil || !almostEqual(moderate.LevelAccuracy, 0.0) {
		t.Errorf("unexpected Moderate breakdown: %+v", moderate)
	}
}

func TestRunner_InvalidRecordCountsAsError(t *testing.T) {
	gc := youngCase()
	gc.Record.Height = 0

	summary, err := NewRunner(scoring.Default(), Tolerance{}).Run(context.Background(), []GoldenCase{gc, seniorCase()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.Errored != 1 || summary.Failed != 1 || summary.Passed != 1 {
		t.Errorf("expected 1 errored and 1 passed, got %+v", summary)
	}
	if summary.Failures[0].Error == "" {
		t.Error("expected the scoring error to be reported")
	}
	if !almostEqual(summary.ScoreMAE, 0.0) {
		t.Errorf("errored cases must not contribute to MAE, got %f", summary.ScoreMAE)
	}
}

type failingScorer struct{}

func (failingScorer) Calculate(entities.HealthRecord) (*scoring.AssessmentResult, error) {
	return nil, fmt.Errorf("scorer unavailable")
}

func TestRunner_CustomScorer(t *testing.T) {
	summary, err := NewRunnerWithScorer(failingScorer{}, Tolerance{}).Run(context.Background(), []GoldenCase{youngCase()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.Errored != 1 {
		t.Errorf("expected 1 errored case, got %d", summary.Errored)
	}
}

func TestRunner_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewRunner(scoring.Default(), Tolerance{}).Run(ctx, []GoldenCase{youngCase()}); err == nil {
		t.Error("expected an error for a cancelled context")
	}
}

func TestRunner_EmptyCases(t *testing.T) {
	summary, err := NewRunner(scoring.Default(), Tolerance{}).Run(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.TotalCases != 0 || summary.PassRate != 0 {
		t.Errorf("unexpected summary for no cases: %+v", summary)
	}
}
