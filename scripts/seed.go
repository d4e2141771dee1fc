package main

import (
	"context"
	"log"
	"os"

	"github.com/paramveeRana/brainstroke3/internal/adapters/database"
	"github.com/paramveeRana/brainstroke3/internal/application/services"
	"github.com/paramveeRana/brainstroke3/internal/evaluation"
	"github.com/paramveeRana/brainstroke3/internal/infrastructure/clients/postgres"
	"github.com/paramveeRana/brainstroke3/migrations"
	"github.com/paramveeRana/brainstroke3/pkg/config"
)

// Seeds a demo user's assessment history from the golden cases.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()

	pgClient, err := postgres.NewClient(ctx, &cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer pgClient.Close()

	if err := migrations.Apply(ctx, pgClient); err != nil {
		log.Fatalf("Failed to apply migrations: %v", err)
	}

	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, truncating tables before seeding")
		_, err := pgClient.DB().ExecContext(ctx, `
			TRUNCATE TABLE
				risk_assessments,
				health_records
			CASCADE
		`)
		if err != nil {
			log.Fatalf("Failed to reset tables: %v", err)
		}
	}

	goldenPath := "config/golden_cases.json"
	if _, err := os.Stat(goldenPath); err != nil {
		goldenPath = "../" + goldenPath
	}
	cases, err := evaluation.LoadGoldenCases(goldenPath)
	if err != nil {
		log.Fatalf("Failed to load golden cases: %v", err)
	}

	userID := os.Getenv("SEED_USER_ID")
	if userID == "" {
		userID = "demo-user"
	}

	service := services.NewAssessmentService(
		database.NewHealthRecordAdapter(pgClient, nil),
		database.NewAssessmentAdapter(pgClient, nil),
		nil,
		nil,
		nil,
	)

	seeded := 0
	for _, gc := range cases {
		assessment, err := service.Assess(ctx, userID, gc.Record)
		if err != nil {
			log.Printf("Failed to seed case %s: %v", gc.ID, err)
			continue
		}
		seeded++
		log.Printf("Seeded %s: score=%d level=%s", gc.ID, assessment.RiskScore, assessment.RiskLevel)
	}

	log.Printf("Seeded %d/%d assessments for user %s", seeded, len(cases), userID)
}
