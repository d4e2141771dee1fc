package evaluation

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/paramveeRana/brainstroke3/internal/domain/entities"
)

func TestLoadGoldenCases_ValidFile(t *testing.T) {
	content := `[
		{"id": "c1", "record": {"age": 70, "gender": "Male", "height": 170, "weight": 70, "hypertension": true, "smoking_status": "Never Smoked"}, "expected_score": 58, "expected_level": "High", "expected_bmi": 24.2},
		{"id": "c2", "record": {"age": 25, "gender": "Female", "height": 165, "weight": 60, "smoking_status": "Never Smoked"}, "expected_score": 13, "expected_level": "Low", "must_include": ["Get annual health screenings"]}
	]`
	path := writeTempFile(t, content)

	cases, err := LoadGoldenCases(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cases) != 2 {
		t.Fatalf("expected 2 cases, got %d", len(cases))
	}
	if cases[0].ID != "c1" {
		t.Errorf("expected id c1, got %s", cases[0].ID)
	}
	if cases[0].Record.Gender != entities.GenderMale {
		t.Errorf("expected gender Male, got %s", cases[0].Record.Gender)
	}
	if !cases[0].Record.Hypertension {
		t.Error("expected hypertension to be set")
	}
	if cases[0].ExpectedBMI == nil || *cases[0].ExpectedBMI != 24.2 {
		t.Errorf("expected bmi 24.2, got %v", cases[0].ExpectedBMI)
	}
	if cases[1].ExpectedBMI != nil {
		t.Errorf("expected no bmi expectation, got %v", *cases[1].ExpectedBMI)
	}
	if len(cases[1].MustInclude) != 1 {
		t.Errorf("expected 1 required recommendation, got %d", len(cases[1].MustInclude))
	}
}

func TestLoadGoldenCases_InvalidFile(t *testing.T) {
	_, err := LoadGoldenCases("/nonexistent/path.json")
	if err == nil {
		t.Error("expected error for nonexistent file")
	}
}

func TestLoadGoldenCases_InvalidJSON(t *testing.T) {
	path := writeTempFile(t, `not valid json`)
	_, err := LoadGoldenCases(path)
	if err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestValidateGoldenCases(t *testing.T) {
	valid := GoldenCase{ID: "a", ExpectedScore: 10, ExpectedLevel: entities.RiskLevelLow}

	tests := []struct {
		name    string
		cases   []GoldenCase
		wantErr string
	}{
		{name: "valid", cases: []GoldenCase{valid}},
		{name: "empty id", cases: []GoldenCase{{ExpectedLevel: entities.RiskLevelLow}}, wantErr: "empty id"},
		{name: "duplicate id", cases: []GoldenCase{valid, valid}, wantErr: "duplicate case id: a"},
		{name: "invalid level", cases: []GoldenCase{{ID: "b", ExpectedLevel: "Severe"}}, wantErr: "invalid expected_level"},
		{name: "lowercase level", cases: []GoldenCase{{ID: "b", ExpectedLevel: "high"}}, wantErr: "invalid expected_level"},
		{name: "score out of range", cases: []GoldenCase{{ID: "c", ExpectedScore: 101, ExpectedLevel: entities.RiskLevelHigh}}, wantErr: "outside 0-100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateGoldenCases(tt.cases)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestGoldenCasesFile_IsValid(t *testing.T) {
	path := filepath.Join("..", "..", "config", "golden_cases.json")
	cases, err := LoadGoldenCases(path)
	if err != nil {
		t.Fatalf("failed to load shipped golden cases: %v", err)
	}
	if err := ValidateGoldenCases(cases); err != nil {
		t.Fatalf("shipped golden cases are invalid: %v", err)
	}
	if len(cases) == 0 {
		t.Fatal("expected shipped golden cases")
	}
}

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "test.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	return path
}
