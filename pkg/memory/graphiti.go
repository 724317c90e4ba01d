package memory

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/theapemachine/contexthub/pkg/errors"
	"github.com/theapemachine/contexthub/pkg/tools"
)

// graphitiHint tells a caller how to reach a context where the service is
// actually wired up. Surfaced inside ErrBackendUnavailable.
const graphitiHint = "The graphiti tools are only reachable when an invoker is configured.\n" +
	"Check that the graphiti MCP server is running and that its endpoint is\n" +
	"set under endpoints.graphiti in your config file; get_status can be used\n" +
	"to probe the connection."

// graphitiOperations is the static capability table for this backend.
var graphitiOperations = []OperationInfo{
	{
		Name:        "query",
		Description: "Search for memories by semantic similarity",
		Params:      map[string]string{"query": "str", "limit": "int"},
		Example:     `memory.Query("auth patterns", limit=10)`,
	},
	{
		Name:        "search_facts",
		Description: "Search for relationships between entities",
		Params:      map[string]string{"query": "str", "limit": "int"},
		Example:     `memory.SearchFacts("authentication flow", limit=20)`,
	},
	{
		Name:        "save",
		Description: "Save new episode to knowledge graph",
		Params:      map[string]string{"content": "str", "title": "str (optional)"},
		Example:     `memory.Save("Decision: Using JWT for auth", title="Auth Decision")`,
	},
	{
		Name:        "explore",
		Description: "Deep traversal from a starting memory",
		Params:      map[string]string{"starting_point": "str", "depth": "int"},
		Example:     `memory.Explore("authentication", depth=2)`,
	},
	{
		Name:        "list_recent",
		Description: "List recent memories",
		Params:      map[string]string{"limit": "int"},
		Example:     `memory.ListRecent(limit=20)`,
	},
}

// Graphiti adapts the graphiti knowledge-graph service. It has native fact
// search and episode listing, so Explore composes those directly instead of
// running the generic traversal.
type Graphiti struct {
	invoker tools.Invoker
}

// NewGraphiti creates a graphiti backend bound to the given invoker. A nil
// invoker is allowed at construction; calls will fail with
// ErrBackendUnavailable.
func NewGraphiti(invoker tools.Invoker) *Graphiti {
	return &Graphiti{invoker: invoker}
}

func (backend *Graphiti) available() error {
	if backend.invoker == nil {
		return errors.NewErrBackendUnavailable("graphiti", graphitiHint)
	}

	return nil
}

// Query searches memory nodes by semantic similarity.
func (backend *Graphiti) Query(
	ctx context.Context, query, groupID string, limit int,
) ([]Memory, error) {
	if err := backend.available(); err != nil {
		return nil, err
	}

	result, err := backend.invoker.Invoke(ctx, "search_nodes", map[string]any{
		"query":     query,
		"group_ids": []string{groupID},
		"max_nodes": limit,
	})
	if err != nil {
		return nil, err
	}

	return parseGraphitiNodes(result), nil
}

// SearchFacts searches relationships using the native fact index.
func (backend *Graphiti) SearchFacts(
	ctx context.Context, query, groupID string, limit int,
) ([]Relationship, error) {
	if err := backend.available(); err != nil {
		return nil, err
	}

	result, err := backend.invoker.Invoke(ctx, "search_memory_facts", map[string]any{
		"query":     query,
		"group_ids": []string{groupID},
		"max_facts": limit,
	})
	if err != nil {
		return nil, err
	}

	return parseGraphitiFacts(result), nil
}

// Save adds a new episode to the knowledge graph.
func (backend *Graphiti) Save(
	ctx context.Context, content, groupID string, opts SaveOptions,
) (string, error) {
	if err := backend.available(); err != nil {
		return "", err
	}

	if err := opts.Validate(content); err != nil {
		return "", err
	}

	opts = opts.withDefaults()
	if opts.Source == "" {
		opts.Source = "context-hub"
	}
	if opts.SourceDescription == "" {
		opts.SourceDescription = "Saved via contexthub"
	}

	result, err := backend.invoker.Invoke(ctx, "add_memory", map[string]any{
		"name":               opts.Title,
		"episode_body":       content,
		"group_id":           groupID,
		"source":             opts.Source,
		"source_description": opts.SourceDescription,
	})
	if err != nil {
		return "", err
	}

	id := idField(result, "episode_id", "uuid")
	if id == "" {
		id = "unknown"
	}

	log.Info("saved episode", "backend", "graphiti", "id", id, "group", groupID)

	return id, nil
}

// Explore combines node search with fact search to build a graph snapshot.
func (backend *Graphiti) Explore(
	ctx context.Context, startingPoint, groupID string, depth int,
) (KnowledgeGraph, error) {
	nodes, err := backend.Query(ctx, startingPoint, groupID, 10)
	if err != nil {
		return KnowledgeGraph{}, err
	}

	edges, err := backend.SearchFacts(ctx, startingPoint, groupID, 20)
	if err != nil {
		return KnowledgeGraph{}, err
	}

	return KnowledgeGraph{Nodes: nodes, Edges: edges}, nil
}

// ListRecent lists the newest episodes first.
func (backend *Graphiti) ListRecent(
	ctx context.Context, groupID string, limit int,
) ([]Memory, error) {
	if err := backend.available(); err != nil {
		return nil, err
	}

	result, err := backend.invoker.Invoke(ctx, "get_episodes", map[string]any{
		"group_ids":    []string{groupID},
		"max_episodes": limit,
	})
	if err != nil {
		return nil, err
	}

	return parseGraphitiEpisodes(result), nil
}

// Capabilities returns the static operation table.
func (backend *Graphiti) Capabilities() []OperationInfo {
	out := make([]OperationInfo, len(graphitiOperations))
	copy(out, graphitiOperations)
	return out
}

// Schema returns the parameter schema for one operation.
func (backend *Graphiti) Schema(operation string) (Schema, error) {
	for _, op := range graphitiOperations {
		if op.Name == operation {
			return Schema{Description: op.Description, Params: op.Params}, nil
		}
	}

	return Schema{}, errors.NewErrUnknownOperation(operation)
}

// Examples returns usage examples for one operation.
func (backend *Graphiti) Examples(operation string) ([]string, error) {
	for _, op := range graphitiOperations {
		if op.Name == operation {
			return []string{op.Example}, nil
		}
	}

	return nil, errors.NewErrUnknownOperation(operation)
}

func parseGraphitiNodes(result map[string]any) []Memory {
	memories := []Memory{}

	for _, node := range mapList(result, "nodes") {
		memories = append(memories, Memory{
			ID:        strField(node, "uuid"),
			Content:   strField(node, "name"),
			CreatedAt: timeField(node, "created_at"),
			Metadata: map[string]any{
				"summary": strField(node, "summary"),
			},
		})
	}

	return memories
}

func parseGraphitiFacts(result map[string]any) []Relationship {
	relationships := []Relationship{}

	for _, fact := range mapList(result, "facts") {
		relationships = append(relationships, Relationship{
			Source:       strField(fact, "source_node_uuid"),
			Target:       strField(fact, "target_node_uuid"),
			RelationType: strField(fact, "fact"),
			Metadata: map[string]any{
				"created_at": strField(fact, "created_at"),
			},
		})
	}

	return relationships
}

func parseGraphitiEpisodes(result map[string]any) []Memory {
	memories := []Memory{}

	for _, episode := range mapList(result, "episodes") {
		memories = append(memories, Memory{
			ID:        strField(episode, "uuid"),
			Content:   strField(episode, "content", "name"),
			CreatedAt: timeField(episode, "created_at"),
			Metadata: map[string]any{
				"name":         strField(episode, "name"),
				"source":       strField(episode, "source"),
				"episode_type": "episode",
			},
		})
	}

	return memories
}

var _ Backend = (*Graphiti)(nil)
