package tools

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/theapemachine/contexthub/pkg/errors"
)

// InMemoryInvoker simulates the tool surfaces of both supported memory
// services for demos and tests. Matching is plain substring search rather
// than semantic similarity.
type InMemoryInvoker struct {
	mu         sync.RWMutex
	records    []*record
	projects   map[string]int
	projectSeq int
}

type record struct {
	id         string
	content    string
	title      string
	importance int
	keywords   []string
	tags       []string
	linked     []string
	source     string
	group      string
	projects   []int
	createdAt  time.Time
}

// NewInMemoryInvoker creates an empty in-memory invoker.
func NewInMemoryInvoker() *InMemoryInvoker {
	return &InMemoryInvoker{
		projects: make(map[string]int),
	}
}

// Invoke dispatches on the tool name, covering the tools of both services.
func (inv *InMemoryInvoker) Invoke(
	ctx context.Context, tool string, args map[string]any,
) (map[string]any, error) {
	switch tool {
	case "search_nodes":
		return inv.searchNodes(args), nil
	case "search_memory_facts":
		return inv.searchFacts(args), nil
	case "add_memory":
		return inv.addMemory(args), nil
	case "get_episodes":
		return inv.getEpisodes(args), nil
	case "get_status":
		return map[string]any{"status": "ok"}, nil
	case "query_memory":
		return inv.queryMemory(args), nil
	case "create_memory":
		return inv.createMemory(args), nil
	case "list_memories":
		return inv.listMemories(args), nil
	case "list_projects":
		return inv.listProjects(), nil
	case "create_project":
		return inv.createProject(args), nil
	}

	return nil, errors.NewErrUpstream(tool, fmt.Errorf("tool not found: %s", tool))
}

func (inv *InMemoryInvoker) matches(rec *record, query string) bool {
	if query == "" || rec.id == query {
		return true
	}

	needle := strings.ToLower(query)
	if strings.Contains(strings.ToLower(rec.content), needle) {
		return true
	}
	if strings.Contains(strings.ToLower(rec.title), needle) {
		return true
	}
	for _, kw := range rec.keywords {
		if strings.Contains(strings.ToLower(kw), needle) {
			return true
		}
	}

	return false
}

func (inv *InMemoryInvoker) searchNodes(args map[string]any) map[string]any {
	inv.mu.RLock()
	defer inv.mu.RUnlock()

	query, _ := args["query"].(string)
	groups := stringList(args["group_ids"])
	max := intArg(args["max_nodes"], 10)

	nodes := []any{}
	for _, rec := range inv.records {
		if len(nodes) >= max {
			break
		}
		if !inGroup(rec.group, groups) || !inv.matches(rec, query) {
			continue
		}
		nodes = append(nodes, map[string]any{
			"uuid":       rec.id,
			"name":       rec.content,
			"summary":    rec.title,
			"created_at": rec.createdAt.Format(time.RFC3339),
		})
	}

	return map[string]any{"nodes": nodes}
}

func (inv *InMemoryInvoker) searchFacts(args map[string]any) map[string]any {
	inv.mu.RLock()
	defer inv.mu.RUnlock()

	query, _ := args["query"].(string)
	groups := stringList(args["group_ids"])
	max := intArg(args["max_facts"], 10)

	facts := []any{}
	for _, rec := range inv.records {
		if !inGroup(rec.group, groups) || !inv.matches(rec, query) {
			continue
		}
		for _, target := range rec.linked {
			if len(facts) >= max {
				return map[string]any{"facts": facts}
			}
			facts = append(facts, map[string]any{
				"source_node_uuid": rec.id,
				"target_node_uuid": target,
				"fact":             "references",
				"created_at":       rec.createdAt.Format(time.RFC3339),
			})
		}
	}

	return map[string]any{"facts": facts}
}

func (inv *InMemoryInvoker) addMemory(args map[string]any) map[string]any {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	group, _ := args["group_id"].(string)
	body, _ := args["episode_body"].(string)
	name, _ := args["name"].(string)
	source, _ := args["source"].(string)

	rec := &record{
		id:        uuid.NewString(),
		content:   body,
		title:     name,
		source:    source,
		group:     group,
		linked:    stringList(args["linked_memory_ids"]),
		createdAt: time.Now().UTC(),
	}
	inv.records = append(inv.records, rec)

	return map[string]any{"episode_id": rec.id}
}

func (inv *InMemoryInvoker) getEpisodes(args map[string]any) map[string]any {
	inv.mu.RLock()
	defer inv.mu.RUnlock()

	groups := stringList(args["group_ids"])
	max := intArg(args["max_episodes"], 10)

	episodes := []any{}
	for i := len(inv.records) - 1; i >= 0 && len(episodes) < max; i-- {
		rec := inv.records[i]
		if !inGroup(rec.group, groups) {
			continue
		}
		episodes = append(episodes, map[string]any{
			"uuid":       rec.id,
			"content":    rec.content,
			"name":       rec.title,
			"source":     rec.source,
			"created_at": rec.createdAt.Format(time.RFC3339),
		})
	}

	return map[string]any{"episodes": episodes}
}

func (inv *InMemoryInvoker) queryMemory(args map[string]any) map[string]any {
	inv.mu.RLock()
	defer inv.mu.RUnlock()

	query, _ := args["query"].(string)
	projects := intList(args["project_ids"])
	k := intArg(args["k"], 10)

	memories := []any{}
	for _, rec := range inv.records {
		if len(memories) >= k {
			break
		}
		if !inProject(rec.projects, projects) || !inv.matches(rec, query) {
			continue
		}
		memories = append(memories, forgetfulShape(rec))
	}

	return map[string]any{"memories": memories}
}

func (inv *InMemoryInvoker) createMemory(args map[string]any) map[string]any {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	content, _ := args["content"].(string)
	title, _ := args["title"].(string)

	rec := &record{
		id:         uuid.NewString(),
		content:    content,
		title:      title,
		importance: intArg(args["importance"], 5),
		keywords:   stringList(args["keywords"]),
		tags:       stringList(args["tags"]),
		linked:     stringList(args["linked_memory_ids"]),
		projects:   intList(args["project_ids"]),
		createdAt:  time.Now().UTC(),
	}
	inv.records = append(inv.records, rec)

	return map[string]any{"memory_id": rec.id}
}

func (inv *InMemoryInvoker) listMemories(args map[string]any) map[string]any {
	inv.mu.RLock()
	defer inv.mu.RUnlock()

	projects := intList(args["project_ids"])
	limit := intArg(args["limit"], 10)

	memories := []any{}
	for i := len(inv.records) - 1; i >= 0 && len(memories) < limit; i-- {
		rec := inv.records[i]
		if !inProject(rec.projects, projects) {
			continue
		}
		memories = append(memories, forgetfulShape(rec))
	}

	return map[string]any{"memories": memories}
}

func (inv *InMemoryInvoker) listProjects() map[string]any {
	inv.mu.RLock()
	defer inv.mu.RUnlock()

	projects := []any{}
	for name, id := range inv.projects {
		projects = append(projects, map[string]any{"id": id, "name": name})
	}

	return map[string]any{"projects": projects}
}

func (inv *InMemoryInvoker) createProject(args map[string]any) map[string]any {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	name, _ := args["name"].(string)
	inv.projectSeq++
	inv.projects[name] = inv.projectSeq

	return map[string]any{"project_id": inv.projectSeq}
}

func forgetfulShape(rec *record) map[string]any {
	linked := make([]any, 0, len(rec.linked))
	for _, id := range rec.linked {
		linked = append(linked, id)
	}

	return map[string]any{
		"id":                rec.id,
		"content":           rec.content,
		"title":             rec.title,
		"importance":        rec.importance,
		"keywords":          anyList(rec.keywords),
		"tags":              anyList(rec.tags),
		"linked_memory_ids": linked,
		"created_at":        rec.createdAt.Format(time.RFC3339),
	}
}

func anyList(values []string) []any {
	out := make([]any, 0, len(values))
	for _, v := range values {
		out = append(out, v)
	}
	return out
}

func stringList(value any) []string {
	switch v := value.(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, fmt.Sprintf("%v", item))
		}
		return out
	}
	return nil
}

func intList(value any) []int {
	switch v := value.(type) {
	case []int:
		return v
	case []any:
		out := make([]int, 0, len(v))
		for _, item := range v {
			switch n := item.(type) {
			case int:
				out = append(out, n)
			case float64:
				out = append(out, int(n))
			}
		}
		return out
	}
	return nil
}

func intArg(value any, fallback int) int {
	switch v := value.(type) {
	case int:
		return v
	case float64:
		return int(v)
	}
	return fallback
}

func inGroup(group string, groups []string) bool {
	if len(groups) == 0 {
		return true
	}
	for _, g := range groups {
		if g == group {
			return true
		}
	}
	return false
}

func inProject(have, want []int) bool {
	if len(want) == 0 {
		return true
	}
	for _, w := range want {
		for _, h := range have {
			if w == h {
				return true
			}
		}
	}
	return false
}

var _ Invoker = (*InMemoryInvoker)(nil)
