package evaluation

import (
	"encoding/json"
	"fmt"
	"os"
)

// LoadGoldenCases reads a JSON array of golden cases from path.
func LoadGoldenCases(path string) ([]GoldenCase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read golden cases: %w", err)
	}

	var cases []GoldenCase
	if err := json.Unmarshal(data, &cases); err != nil {
		return nil, fmt.Errorf("failed to parse golden cases: %w", err)
	}
	return cases, nil
}

// ValidateGoldenCases checks ids are present and unique and that every
// expectation is within range.
func ValidateGoldenCases(cases []GoldenCase) error {
	seen := make(map[string]bool, len(cases))
	for i, gc := range cases {
		if gc.ID == "" {
			return fmt.Errorf("case at index %d has empty id", i)
		}
		if seen[gc.ID] {
			return fmt.Errorf("duplicate case id: %s", gc.ID)
		}
		seen[gc.ID] = true

		if !gc.ExpectedLevel.IsValid() {
			return fmt.Errorf("case %s has invalid expected_level: %q", gc.ID, gc.ExpectedLevel)
		}
		if gc.ExpectedScore < 0 || gc.ExpectedScore > 100 {
			return fmt.Errorf("case %s has expected_score %d outside 0-100", gc.ID, gc.ExpectedScore)
		}
	}
	return nil
}
