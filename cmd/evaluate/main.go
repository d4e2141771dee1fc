package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/paramveeRana/brainstroke3/internal/domain/scoring"
	"github.com/paramveeRana/brainstroke3/internal/evaluation"
)

func main() {
	goldenPath := flag.String("cases", "config/golden_cases.json", "path to the golden cases file")
	scoreTolerance := flag.Int("score-tolerance", 0, "allowed score drift in points")
	flag.Parse()

	path := *goldenPath
	if _, err := os.Stat(path); err != nil {
		if _, altErr := os.Stat("../../" + path); altErr == nil {
			path = "../../" + path
		}
	}

	cases, err := evaluation.LoadGoldenCases(path)
	if err != nil {
		log.Fatalf("Failed to load golden cases: %v", err)
	}
	if err := evaluation.ValidateGoldenCases(cases); err != nil {
		log.Fatalf("Invalid golden cases: %v", err)
	}

	runner := evaluation.NewRunner(scoring.Default(), evaluation.Tolerance{ScorePoints: *scoreTolerance})
	summary, err := runner.Run(context.Background(), cases)
	if err != nil {
		log.Fatalf("Evaluation failed: %v", err)
	}

	out, _ := json.MarshalIndent(summary, "", "  ")
	fmt.Println(string(out))

	if summary.Failed > 0 {
		os.Exit(1)
	}
}
