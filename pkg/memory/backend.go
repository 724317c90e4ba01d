package memory

import (
	"context"

	"github.com/theapemachine/contexthub/pkg/errors"
	"github.com/theapemachine/contexthub/pkg/tools"
)

// Kind identifies one of the supported backends. It is a closed set; adding
// a backend means adding a tag here and a case in New.
type Kind string

const (
	KindGraphiti  Kind = "graphiti"
	KindForgetful Kind = "forgetful"
)

// Backend is the capability contract every memory backend satisfies. All
// results are normalized into the canonical model; missing optional fields
// in service payloads are defaulted, never raised. Connectivity and service
// failures propagate to the caller unmodified, with no internal retries.
type Backend interface {
	// Query searches memories by semantic similarity, ranked backend-best-first.
	Query(ctx context.Context, query, groupID string, limit int) ([]Memory, error)

	// SearchFacts searches for relationships between memories. Backends
	// without native fact search derive relationships from memory metadata.
	SearchFacts(ctx context.Context, query, groupID string, limit int) ([]Relationship, error)

	// Save durably writes a new memory and returns its backend-native id.
	// Repeated calls create new entries.
	Save(ctx context.Context, content, groupID string, opts SaveOptions) (string, error)

	// Explore builds a knowledge graph by traversing relationships out from
	// a seed query, up to the given depth.
	Explore(ctx context.Context, startingPoint, groupID string, depth int) (KnowledgeGraph, error)

	// ListRecent returns up to limit memories, newest first.
	ListRecent(ctx context.Context, groupID string, limit int) ([]Memory, error)

	// Capabilities lists the operations this backend exposes.
	Capabilities() []OperationInfo

	// Schema returns the parameter schema for one operation.
	Schema(operation string) (Schema, error)

	// Examples returns usage examples for one operation.
	Examples(operation string) ([]string, error)
}

// New constructs the backend identified by kind, bound to the given invoker.
func New(kind Kind, invoker tools.Invoker) (Backend, error) {
	switch kind {
	case KindGraphiti:
		return NewGraphiti(invoker), nil
	case KindForgetful:
		return NewForgetful(invoker), nil
	}

	return nil, errors.NewErrUnknownBackend(string(kind))
}
