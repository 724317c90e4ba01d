package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/theapemachine/contexthub/pkg/errors"
	"github.com/theapemachine/contexthub/pkg/tools"
)

const forgetfulHint = "The forgetful tools are only reachable when an invoker is configured.\n" +
	"Check that the forgetful MCP server is running and that its endpoint is\n" +
	"set under endpoints.forgetful in your config file."

var forgetfulOperations = []OperationInfo{
	{
		Name:        "query",
		Description: "Search for memories by semantic similarity",
		Params:      map[string]string{"query": "str", "limit": "int"},
		Example:     `memory.Query("auth patterns", limit=10)`,
	},
	{
		Name:        "search_facts",
		Description: "Derive relationships from linked memories",
		Params:      map[string]string{"query": "str", "limit": "int"},
		Example:     `memory.SearchFacts("authentication flow", limit=20)`,
	},
	{
		Name:        "save",
		Description: "Save new memory",
		Params:      map[string]string{"content": "str", "title": "str", "importance": "int (1-10)"},
		Example:     `memory.Save("Decision: JWT auth", title="Auth", importance=9)`,
	},
	{
		Name:        "explore",
		Description: "Breadth-first traversal over linked memories",
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

// Forgetful adapts the forgetful memory service. The service has no native
// fact search or multi-hop traversal; both are reconstructed from the
// linked_memory_ids each memory carries in its metadata. Logical group ids
// are resolved to the service's numeric project ids through a
// process-lifetime cache.
type Forgetful struct {
	invoker  tools.Invoker
	explorer *Explorer

	mu       sync.Mutex
	projects map[string]int
}

// NewForgetful creates a forgetful backend bound to the given invoker.
func NewForgetful(invoker tools.Invoker) *Forgetful {
	backend := &Forgetful{
		invoker:  invoker,
		projects: make(map[string]int),
	}
	backend.explorer = NewExplorer(backend.Query, linkedIDs)

	return backend
}

func (backend *Forgetful) available() error {
	if backend.invoker == nil {
		return errors.NewErrBackendUnavailable("forgetful", forgetfulHint)
	}

	return nil
}

// resolveProject maps a logical group id to the service's project id. On a
// cache miss it lists existing projects, matching by name, and creates a
// new project when none matches. The lock is held across the whole
// lookup-or-create so concurrent callers cannot race a duplicate creation
// for the same never-before-seen group.
func (backend *Forgetful) resolveProject(ctx context.Context, groupID string) (int, error) {
	backend.mu.Lock()
	defer backend.mu.Unlock()

	if projectID, ok := backend.projects[groupID]; ok {
		return projectID, nil
	}

	result, err := backend.invoker.Invoke(ctx, "list_projects", map[string]any{})
	if err != nil {
		return 0, err
	}

	for _, project := range mapList(result, "projects") {
		if strField(project, "name") == groupID {
			projectID := intField(project, "id")
			backend.projects[groupID] = projectID
			return projectID, nil
		}
	}

	created, err := backend.invoker.Invoke(ctx, "create_project", map[string]any{
		"name":        groupID,
		"description": fmt.Sprintf("Auto-created from group: %s", groupID),
	})
	if err != nil {
		return 0, err
	}

	projectID := intField(created, "project_id", "id")
	backend.projects[groupID] = projectID

	log.Info("created project", "backend", "forgetful", "group", groupID, "project", projectID)

	return projectID, nil
}

// Query searches memories, asking the service to include link metadata so
// relationships can be derived downstream.
func (backend *Forgetful) Query(
	ctx context.Context, query, groupID string, limit int,
) ([]Memory, error) {
	if err := backend.available(); err != nil {
		return nil, err
	}

	projectID, err := backend.resolveProject(ctx, groupID)
	if err != nil {
		return nil, err
	}

	result, err := backend.invoker.Invoke(ctx, "query_memory", map[string]any{
		"query":         query,
		"project_ids":   []int{projectID},
		"k":             limit,
		"include_links": true,
	})
	if err != nil {
		return nil, err
	}

	return parseForgetfulMemories(result), nil
}

// SearchFacts has no native counterpart here; it queries memories and turns
// each linked_memory_ids entry into a linked_to relationship.
func (backend *Forgetful) SearchFacts(
	ctx context.Context, query, groupID string, limit int,
) ([]Relationship, error) {
	memories, err := backend.Query(ctx, query, groupID, limit)
	if err != nil {
		return nil, err
	}

	relationships := []Relationship{}
	for _, mem := range memories {
		for _, target := range linkedIDs(mem) {
			relationships = append(relationships, Relationship{
				Source:       mem.ID,
				Target:       target,
				RelationType: "linked_to",
				Metadata:     map[string]any{},
			})
		}
	}

	return relationships, nil
}

// Save creates a new memory in the group's project.
func (backend *Forgetful) Save(
	ctx context.Context, content, groupID string, opts SaveOptions,
) (string, error) {
	if err := backend.available(); err != nil {
		return "", err
	}

	if err := opts.Validate(content); err != nil {
		return "", err
	}

	opts = opts.withDefaults()

	projectID, err := backend.resolveProject(ctx, groupID)
	if err != nil {
		return "", err
	}

	result, err := backend.invoker.Invoke(ctx, "create_memory", map[string]any{
		"title":       opts.Title,
		"content":     content,
		"importance":  opts.Importance,
		"project_ids": []int{projectID},
		"keywords":    opts.Keywords,
		"tags":        opts.Tags,
		"context":     opts.Context,
	})
	if err != nil {
		return "", err
	}

	id := idField(result, "memory_id", "id")
	if id == "" {
		id = "unknown"
	}

	log.Info("saved memory", "backend", "forgetful", "id", id, "group", groupID)

	return id, nil
}

// Explore runs the generic breadth-first traversal over linked memories.
func (backend *Forgetful) Explore(
	ctx context.Context, startingPoint, groupID string, depth int,
) (KnowledgeGraph, error) {
	return backend.explorer.Explore(ctx, startingPoint, groupID, depth)
}

// ListRecent lists memories newest first.
func (backend *Forgetful) ListRecent(
	ctx context.Context, groupID string, limit int,
) ([]Memory, error) {
	if err := backend.available(); err != nil {
		return nil, err
	}

	projectID, err := backend.resolveProject(ctx, groupID)
	if err != nil {
		return nil, err
	}

	result, err := backend.invoker.Invoke(ctx, "list_memories", map[string]any{
		"project_ids": []int{projectID},
		"limit":       limit,
		"sort_by":     "created_at",
		"sort_order":  "desc",
	})
	if err != nil {
		return nil, err
	}

	return parseForgetfulMemories(result), nil
}

// Capabilities returns the operation table. A dynamic discovery call exists
// on the service side; the static table is authoritative until the full
// tool-to-operation mapping is implemented.
func (backend *Forgetful) Capabilities() []OperationInfo {
	out := make([]OperationInfo, len(forgetfulOperations))
	copy(out, forgetfulOperations)
	return out
}

// Schema returns the parameter schema for one operation.
func (backend *Forgetful) Schema(operation string) (Schema, error) {
	for _, op := range forgetfulOperations {
		if op.Name == operation {
			return Schema{Description: op.Description, Params: op.Params}, nil
		}
	}

	return Schema{}, errors.NewErrUnknownOperation(operation)
}

// Examples returns usage examples for one operation.
func (backend *Forgetful) Examples(operation string) ([]string, error) {
	for _, op := range forgetfulOperations {
		if op.Name == operation {
			return []string{op.Example}, nil
		}
	}

	return nil, errors.NewErrUnknownOperation(operation)
}

// linkedIDs extracts the referenced memory ids a memory carries.
func linkedIDs(mem Memory) []string {
	if mem.Metadata == nil {
		return nil
	}

	switch v := mem.Metadata["linked_memory_ids"].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			switch id := item.(type) {
			case string:
				out = append(out, id)
			case float64:
				out = append(out, formatNumber(id))
			}
		}
		return out
	}

	return nil
}

func parseForgetfulMemories(result map[string]any) []Memory {
	memories := []Memory{}

	for _, mem := range mapList(result, "memories") {
		memories = append(memories, Memory{
			ID:         idField(mem, "id"),
			Content:    strField(mem, "content"),
			CreatedAt:  timeField(mem, "created_at"),
			Importance: intPtrField(mem, "importance"),
			Metadata: map[string]any{
				"title":             strField(mem, "title"),
				"keywords":          strListField(mem, "keywords"),
				"tags":              strListField(mem, "tags"),
				"linked_memory_ids": strListField(mem, "linked_memory_ids"),
			},
		})
	}

	return memories
}

var _ Backend = (*Forgetful)(nil)
