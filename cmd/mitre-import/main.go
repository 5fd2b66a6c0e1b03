// Imports a MITRE ATT&CK for ICS technique dataset into Neo4j.
//
// Usage:
//
//	mitre-import -file data/ics_techniques.json
//
// The input file holds techniques and the LEADS_TO transitions between them:
//
//	{
//	  "techniques": [{"id": "T0886", "name": "Remote Services", ...}],
//	  "links": [{"source": "T0886", "target": "T0831", "probability": 0.72}]
//	}
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/Federated-ICS/backend-webapp/internal/api/models"
	"github.com/Federated-ICS/backend-webapp/internal/config"
	"github.com/Federated-ICS/backend-webapp/internal/graph"
)

type dataset struct {
	Techniques []models.TechniqueDetails `json:"techniques"`
	Links      []models.TechniqueLink    `json:"links"`
}

func main() {
	file := flag.String("file", "data/ics_techniques.json", "path to the technique dataset")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	raw, err := os.ReadFile(*file)
	if err != nil {
		logger.Error("failed to read dataset", "file", *file, "error", err)
		os.Exit(1)
	}

	var ds dataset
	if err := json.Unmarshal(raw, &ds); err != nil {
		logger.Error("failed to parse dataset", "file", *file, "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	store, err := graph.NewStore(ctx, cfg.Neo4jURI, cfg.Neo4jUser, cfg.Neo4jPassword)
	if err != nil {
		logger.Error("neo4j connection failed", "error", err)
		os.Exit(1)
	}
	defer store.Close(context.Background())

	for _, t := range ds.Techniques {
		if err := store.UpsertTechnique(ctx, t); err != nil {
			logger.Error("failed to upsert technique", "id", t.ID, "error", err)
			os.Exit(1)
		}
	}
	logger.Info("imported techniques", "count", len(ds.Techniques))

	for _, l := range ds.Links {
		if err := store.UpsertLink(ctx, l); err != nil {
			logger.Error("failed to upsert link", "source", l.Source, "target", l.Target, "error", err)
			os.Exit(1)
		}
	}
	logger.Info("imported links", "count", len(ds.Links))
}
