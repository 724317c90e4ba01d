package memory

import (
	"context"

	"github.com/theapemachine/contexthub/pkg/tools"
)

// Adapter is the thin facade callers interact with. It binds one backend to
// one group id and forwards every call; all behavior lives in the backend.
type Adapter struct {
	backend Backend
	groupID string
}

// NewAdapter wraps an already-constructed backend.
func NewAdapter(backend Backend, groupID string) *Adapter {
	return &Adapter{backend: backend, groupID: groupID}
}

// NewAdapterFor selects a backend by kind and binds it to a group id. The
// {kind, groupID} pair is resolved upstream by configuration.
func NewAdapterFor(kind Kind, invoker tools.Invoker, groupID string) (*Adapter, error) {
	backend, err := New(kind, invoker)
	if err != nil {
		return nil, err
	}

	return NewAdapter(backend, groupID), nil
}

func (adapter *Adapter) Query(ctx context.Context, query string, limit int) ([]Memory, error) {
	return adapter.backend.Query(ctx, query, adapter.groupID, limit)
}

func (adapter *Adapter) SearchFacts(ctx context.Context, query string, limit int) ([]Relationship, error) {
	return adapter.backend.SearchFacts(ctx, query, adapter.groupID, limit)
}

func (adapter *Adapter) Save(ctx context.Context, content string, opts SaveOptions) (string, error) {
	return adapter.backend.Save(ctx, content, adapter.groupID, opts)
}

func (adapter *Adapter) Explore(ctx context.Context, startingPoint string, depth int) (KnowledgeGraph, error) {
	return adapter.backend.Explore(ctx, startingPoint, adapter.groupID, depth)
}

func (adapter *Adapter) ListRecent(ctx context.Context, limit int) ([]Memory, error) {
	return adapter.backend.ListRecent(ctx, adapter.groupID, limit)
}

func (adapter *Adapter) Capabilities() []OperationInfo {
	return adapter.backend.Capabilities()
}

func (adapter *Adapter) Schema(operation string) (Schema, error) {
	return adapter.backend.Schema(operation)
}

func (adapter *Adapter) Examples(operation string) ([]string, error) {
	return adapter.backend.Examples(operation)
}

// GroupID reports the group this adapter is bound to.
func (adapter *Adapter) GroupID() string {
	return adapter.groupID
}
