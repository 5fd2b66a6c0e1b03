// Seeds the database with demo data for local development and demos.
package main

import (
	"context"
	"log"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"gorm.io/gorm"

	"github.com/Federated-ICS/backend-webapp/database"
	"github.com/Federated-ICS/backend-webapp/internal/api/models"
	"github.com/Federated-ICS/backend-webapp/internal/api/repository"
	"github.com/Federated-ICS/backend-webapp/internal/config"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	db, err := database.ConnectDB(cfg, logger)
	if err != nil {
		logger.Error("database connection failed", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	alertRepo := repository.NewAlertRepo(db)
	flRepo := repository.NewFLRepo(db)
	predictionRepo := repository.NewPredictionRepo(db)

	seedAlerts(ctx, logger, alertRepo)
	seedRound(ctx, logger, flRepo)
	seedPrediction(ctx, logger, predictionRepo)
	seedNetworkData(ctx, logger, db)

	logger.Info("seeding complete")
}

func seedAlerts(ctx context.Context, logger *slog.Logger, repo *repository.AlertRepo) {
	attackType := "command_injection"
	attackName := "Unauthorized Command Message"
	summary := "Modbus write requests from an unrecognized engineering workstation"

	alerts := []models.Alert{
		{
			FacilityID:         "facility_a",
			Severity:           models.SeverityCritical,
			Title:              "Unauthorized Modbus write to PLC-03",
			Description:        "Write-multiple-registers commands from a host outside the engineering subnet",
			Status:             models.AlertStatusNew,
			AttackType:         &attackType,
			AttackName:         &attackName,
			CorrelationSummary: &summary,
			Sources: []models.AlertSource{
				{
					Layer:         1,
					ModelName:     "lstm_autoencoder",
					Confidence:    0.94,
					DetectionTime: time.Now().UTC().Add(-10 * time.Minute),
					Evidence:      "Reconstruction error 4.2x above facility baseline",
				},
				{
					Layer:         2,
					ModelName:     "isolation_forest",
					Confidence:    0.88,
					DetectionTime: time.Now().UTC().Add(-9 * time.Minute),
					Evidence:      "Anomalous function-code distribution on port 502",
				},
			},
		},
		{
			FacilityID:  "facility_b",
			Severity:    models.SeverityHigh,
			Title:       "Spike in failed DNP3 authentication",
			Description: "Repeated authentication failures against outstation 12",
			Status:      models.AlertStatusAcknowledged,
		},
		{
			FacilityID:  "facility_c",
			Severity:    models.SeverityMedium,
			Title:       "Unusual after-hours HMI session",
			Description: "Operator session initiated outside the facility shift window",
			Status:      models.AlertStatusNew,
		},
		{
			FacilityID:  "facility_a",
			Severity:    models.SeverityLow,
			Title:       "Firmware version drift on RTU-7",
			Description: "Reported firmware differs from the configuration baseline",
			Status:      models.AlertStatusResolved,
		},
	}

	for i := range alerts {
		if err := repo.Create(ctx, &alerts[i]); err != nil {
			logger.Error("failed to seed alert", "title", alerts[i].Title, "error", err)
			continue
		}
	}
	logger.Info("seeded alerts", "count", len(alerts))
}

func seedRound(ctx context.Context, logger *slog.Logger, repo *repository.FLRepo) {
	next, err := repo.NextRoundNumber(ctx)
	if err != nil {
		logger.Error("failed to compute round number", "error", err)
		return
	}

	round, err := repo.CreateRound(ctx, next)
	if err != nil {
		logger.Error("failed to seed round", "error", err)
		return
	}

	phase := "training"
	if _, err := repo.UpdateRoundProgress(ctx, round.ID, 45, &phase); err != nil {
		logger.Error("failed to advance seeded round", "error", err)
		return
	}
	logger.Info("seeded training round", "round_number", round.RoundNumber)
}

func seedPrediction(ctx context.Context, logger *slog.Logger, repo *repository.PredictionRepo) {
	timeframe := "2-6 hours"
	prediction := models.Prediction{
		CurrentTechnique:     "T0886",
		CurrentTechniqueName: "Remote Services",
		PredictedTechniques: []models.PredictedTechnique{
			{TechniqueID: "T0831", TechniqueName: "Manipulation of Control", Probability: 0.72, Rank: 1, Timeframe: &timeframe},
			{TechniqueID: "T0809", TechniqueName: "Data Destruction", Probability: 0.41, Rank: 2},
			{TechniqueID: "T0815", TechniqueName: "Denial of View", Probability: 0.33, Rank: 3},
		},
	}

	if err := repo.Create(ctx, &prediction); err != nil {
		logger.Error("failed to seed prediction", "error", err)
		return
	}
	logger.Info("seeded prediction", "current_technique", prediction.CurrentTechnique)
}

func seedNetworkData(ctx context.Context, logger *slog.Logger, db *gorm.DB) {
	facilities := []string{"facility_a", "facility_b", "facility_c"}
	now := time.Now().UTC()

	var samples []models.NetworkData
	for i := 0; i < 24; i++ {
		for _, f := range facilities {
			samples = append(samples, models.NetworkData{
				Timestamp:         now.Add(-time.Duration(i) * time.Hour),
				FacilityID:        f,
				PacketsPerSec:     800 + rand.Intn(400),
				BytesPerSec:       90_000 + rand.Intn(40_000),
				UniqueSrcIPs:      10 + rand.Intn(20),
				UniqueDestIPs:     5 + rand.Intn(10),
				FailedConnections: rand.Intn(8),
				AvgPacketSize:     110 + rand.Intn(60),
				InterArrivalTime:  1 + rand.Intn(5),
			})
		}
	}

	if err := db.WithContext(ctx).Create(&samples).Error; err != nil {
		logger.Error("failed to seed network data", "error", err)
		return
	}
	logger.Info("seeded network data", "count", len(samples))
}
