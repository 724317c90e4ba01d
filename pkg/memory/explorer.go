package memory

import "context"

// exploreFanout is the number of candidates requested per query while
// traversing. Kept small so a deep traversal stays bounded.
const exploreFanout = 5

// queueEntry pairs a pending query with the hop count at which it was found.
type queueEntry struct {
	query string
	depth int
}

// Explorer reconstructs a multi-hop knowledge graph over a backend that only
// exposes single-hop search plus per-memory reference lists. It performs a
// breadth-first traversal, using each referenced identifier as the query
// text for the next hop. That re-entry trick assumes the backend's search
// resolves identifier-shaped queries back to the referenced memory; it is a
// pragmatic default, not a content-addressed lookup.
type Explorer struct {
	search func(ctx context.Context, query, groupID string, limit int) ([]Memory, error)
	links  func(mem Memory) []string
}

// NewExplorer creates an explorer over a single-hop search function and a
// link extractor that pulls referenced memory ids out of a memory.
func NewExplorer(
	search func(ctx context.Context, query, groupID string, limit int) ([]Memory, error),
	links func(mem Memory) []string,
) *Explorer {
	return &Explorer{search: search, links: links}
}

// Explore runs the traversal from startingPoint up to depth hops. Each
// level is fully processed before the next is queued, so nodes appear in
// minimal-hop order. The visited set guarantees termination on cyclic
// reference graphs: a memory is never re-queried once seen.
func (explorer *Explorer) Explore(
	ctx context.Context, startingPoint, groupID string, depth int,
) (KnowledgeGraph, error) {
	visited := map[string]bool{}
	nodes := []Memory{}
	edges := []Relationship{}

	queue := []queueEntry{{query: startingPoint, depth: 0}}

	for len(queue) > 0 {
		entry := queue[0]
		queue = queue[1:]

		// Global cutoff: the queue is population-ordered by depth, so the
		// first too-deep entry means every remaining entry is too deep.
		if entry.depth > depth {
			break
		}

		memories, err := explorer.search(ctx, entry.query, groupID, exploreFanout)
		if err != nil {
			return KnowledgeGraph{}, err
		}

		for _, mem := range memories {
			if visited[mem.ID] {
				continue
			}

			visited[mem.ID] = true
			nodes = append(nodes, mem)

			for _, target := range explorer.links(mem) {
				edges = append(edges, Relationship{
					Source:       mem.ID,
					Target:       target,
					RelationType: "linked_to",
					Metadata:     map[string]any{},
				})

				if entry.depth < depth {
					queue = append(queue, queueEntry{query: target, depth: entry.depth + 1})
				}
			}
		}
	}

	return KnowledgeGraph{Nodes: nodes, Edges: edges}, nil
}
