package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/Federated-ICS/backend-webapp/internal/api/models"
)

// Store wraps the Neo4j driver holding the MITRE ATT&CK technique graph.
// Techniques are (:Technique {id, name, description, platforms, tactics,
// detected}) nodes connected by [:LEADS_TO {probability}] relationships.
type Store struct {
	driver neo4j.DriverWithContext
}

func NewStore(ctx context.Context, uri, user, password string) (*Store, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(user, password, ""))
	if err != nil {
		return nil, fmt.Errorf("create neo4j driver: %w", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		return nil, fmt.Errorf("connect to neo4j: %w", err)
	}
	return &Store{driver: driver}, nil
}

func (s *Store) Close(ctx context.Context) error {
	return s.driver.Close(ctx)
}

// query runs one Cypher statement and collects every record as a map.
func (s *Store) query(ctx context.Context, cypher string, params map[string]interface{}) ([]map[string]interface{}, error) {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer session.Close(ctx)

	result, err := session.Run(ctx, cypher, params)
	if err != nil {
		return nil, fmt.Errorf("run cypher: %w", err)
	}

	var rows []map[string]interface{}
	for result.Next(ctx) {
		rows = append(rows, result.Record().AsMap())
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("read cypher result: %w", err)
	}
	return rows, nil
}

// AttackGraph builds the current-vs-predicted technique graph: detected
// techniques are "current" nodes, their LEADS_TO neighbors are "predicted",
// and links are kept only between nodes present in the graph.
func (s *Store) AttackGraph(ctx context.Context) (*models.AttackGraph, error) {
	current, err := s.query(ctx, `
		MATCH (t:Technique)
		WHERE t.detected = true
		RETURN t.id AS id, t.name AS name, 1.0 AS probability`, nil)
	if err != nil {
		return nil, err
	}

	predicted, err := s.query(ctx, `
		MATCH (current:Technique)-[:LEADS_TO]->(predicted:Technique)
		WHERE current.detected = true AND predicted.detected = false
		RETURN DISTINCT predicted.id AS id, predicted.name AS name, 0.85 AS probability
		LIMIT 20`, nil)
	if err != nil {
		return nil, err
	}

	graph := &models.AttackGraph{
		Nodes: make([]models.TechniqueNode, 0, len(current)+len(predicted)),
		Links: []models.TechniqueLink{},
	}
	for _, row := range current {
		graph.Nodes = append(graph.Nodes, rowToNode(row, "current"))
	}
	for _, row := range predicted {
		graph.Nodes = append(graph.Nodes, rowToNode(row, "predicted"))
	}

	nodeIDs := make(map[string]struct{}, len(graph.Nodes))
	for _, n := range graph.Nodes {
		nodeIDs[n.ID] = struct{}{}
	}

	links, err := s.query(ctx, `
		MATCH (source:Technique)-[r:LEADS_TO]->(target:Technique)
		WHERE source.detected = true AND target.detected = false
		RETURN DISTINCT source.id AS source, target.id AS target, r.probability AS probability
		LIMIT 50`, nil)
	if err != nil {
		return nil, err
	}
	for _, row := range links {
		source := asString(row["source"])
		target := asString(row["target"])
		if _, ok := nodeIDs[source]; !ok {
			continue
		}
		if _, ok := nodeIDs[target]; !ok {
			continue
		}
		graph.Links = append(graph.Links, models.TechniqueLink{
			Source:      source,
			Target:      target,
			Probability: asFloat(row["probability"]),
		})
	}

	return graph, nil
}

// Techniques lists the catalogued techniques, capped at 100.
func (s *Store) Techniques(ctx context.Context) ([]models.TechniqueDetails, error) {
	rows, err := s.query(ctx, `
		MATCH (t:Technique)
		RETURN t.id AS id, t.name AS name, t.description AS description,
		       t.platforms AS platforms, t.tactics AS tactics
		ORDER BY t.id
		LIMIT 100`, nil)
	if err != nil {
		return nil, err
	}

	techniques := make([]models.TechniqueDetails, 0, len(rows))
	for _, row := range rows {
		techniques = append(techniques, rowToDetails(row))
	}
	return techniques, nil
}

// TechniqueByID returns details for one technique; nil when unknown.
func (s *Store) TechniqueByID(ctx context.Context, id string) (*models.TechniqueDetails, error) {
	rows, err := s.query(ctx, `
		MATCH (t:Technique {id: $id})
		RETURN t.id AS id, t.name AS name, t.description AS description,
		       t.platforms AS platforms, t.tactics AS tactics`,
		map[string]interface{}{"id": id})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	details := rowToDetails(rows[0])
	detection := "Monitor for unusual patterns in ICS network traffic and device behavior."
	mitigation := "Implement network segmentation, access controls, and regular security audits."
	details.Detection = &detection
	details.Mitigation = &mitigation
	return &details, nil
}

// MarkDetected flags a technique as observed; the next AttackGraph call will
// place it among the current nodes.
func (s *Store) MarkDetected(ctx context.Context, techniqueID string) error {
	_, err := s.query(ctx, `
		MATCH (t:Technique {id: $id})
		SET t.detected = true`,
		map[string]interface{}{"id": techniqueID})
	return err
}

// UpsertTechnique creates or refreshes one technique node. Used by the
// import command.
func (s *Store) UpsertTechnique(ctx context.Context, t models.TechniqueDetails) error {
	_, err := s.query(ctx, `
		MERGE (n:Technique {id: $id})
		SET n.name = $name, n.description = $description,
		    n.platforms = $platforms, n.tactics = $tactics,
		    n.detected = coalesce(n.detected, false)`,
		map[string]interface{}{
			"id":          t.ID,
			"name":        t.Name,
			"description": t.Description,
			"platforms":   t.Platforms,
			"tactics":     t.Tactics,
		})
	return err
}

// UpsertLink creates or refreshes one LEADS_TO relationship.
func (s *Store) UpsertLink(ctx context.Context, link models.TechniqueLink) error {
	_, err := s.query(ctx, `
		MATCH (source:Technique {id: $source})
		MATCH (target:Technique {id: $target})
		MERGE (source)-[r:LEADS_TO]->(target)
		SET r.probability = $probability`,
		map[string]interface{}{
			"source":      link.Source,
			"target":      link.Target,
			"probability": link.Probability,
		})
	return err
}

func rowToNode(row map[string]interface{}, nodeType string) models.TechniqueNode {
	return models.TechniqueNode{
		ID:          asString(row["id"]),
		Name:        asString(row["name"]),
		Type:        nodeType,
		Probability: asFloat(row["probability"]),
	}
}

func rowToDetails(row map[string]interface{}) models.TechniqueDetails {
	return models.TechniqueDetails{
		ID:          asString(row["id"]),
		Name:        asString(row["name"]),
		Description: asString(row["description"]),
		Platforms:   asStringSlice(row["platforms"]),
		Tactics:     asStringSlice(row["tactics"]),
	}
}

// Bolt hands values back as interface{}; coercions below tolerate nulls.

func asString(v interface{}) string {
	s, _ := v.(string)
	return s
}

func asFloat(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int64:
		return float64(n)
	}
	return 0
}

func asStringSlice(v interface{}) []string {
	items, ok := v.([]interface{})
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
