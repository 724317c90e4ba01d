// Package memory provides a backend-agnostic adapter over external memory
// services, normalizing their heterogeneous result schemas into a single
// canonical model of memories, relationships and knowledge graphs.
package memory

import "time"

// Memory represents a single unit of stored knowledge.
type Memory struct {
	ID         string         `json:"id"`
	Content    string         `json:"content"`
	CreatedAt  time.Time      `json:"created_at"`
	Importance *int           `json:"importance,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// Relationship is a directed, typed edge between two memories. Target may
// reference a memory that is not present in the same result set; the
// explorer resolves such references with further queries.
type Relationship struct {
	Source       string         `json:"source"`
	Target       string         `json:"target"`
	RelationType string         `json:"relation_type"`
	Metadata     map[string]any `json:"metadata,omitempty"`
}

// KnowledgeGraph is an immutable snapshot of discovered memories and the
// edges between them. Nodes appear in discovery order with no duplicate IDs.
type KnowledgeGraph struct {
	Nodes []Memory       `json:"nodes"`
	Edges []Relationship `json:"edges"`
}

// OperationInfo describes one exposed operation for capability discovery.
type OperationInfo struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Params      map[string]string `json:"params"`
	Example     string            `json:"example"`
}

// Schema is the parameter schema for a single operation.
type Schema struct {
	Description string            `json:"description"`
	Params      map[string]string `json:"params"`
}
