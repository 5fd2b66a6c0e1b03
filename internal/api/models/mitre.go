package models

// MITRE ATT&CK graph views served from Neo4j. Not persisted in Postgres.

type TechniqueNode struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Type        string  `json:"type"` // "current" or "predicted"
	Probability float64 `json:"probability"`
}

type TechniqueLink struct {
	Source      string  `json:"source"`
	Target      string  `json:"target"`
	Probability float64 `json:"probability"`
}

type AttackGraph struct {
	Nodes []TechniqueNode `json:"nodes"`
	Links []TechniqueLink `json:"links"`
}

type TechniqueDetails struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Detection   *string  `json:"detection,omitempty"`
	Mitigation  *string  `json:"mitigation,omitempty"`
	Platforms   []string `json:"platforms"`
	Tactics     []string `json:"tactics"`
}
