package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// capturingBackend records the group id each forwarded call received.
type capturingBackend struct {
	groups []string
}

func (b *capturingBackend) Query(ctx context.Context, query, groupID string, limit int) ([]Memory, error) {
	b.groups = append(b.groups, groupID)
	return nil, nil
}

func (b *capturingBackend) SearchFacts(ctx context.Context, query, groupID string, limit int) ([]Relationship, error) {
	b.groups = append(b.groups, groupID)
	return nil, nil
}

func (b *capturingBackend) Save(ctx context.Context, content, groupID string, opts SaveOptions) (string, error) {
	b.groups = append(b.groups, groupID)
	return "id", nil
}

func (b *capturingBackend) Explore(ctx context.Context, startingPoint, groupID string, depth int) (KnowledgeGraph, error) {
	b.groups = append(b.groups, groupID)
	return KnowledgeGraph{}, nil
}

func (b *capturingBackend) ListRecent(ctx context.Context, groupID string, limit int) ([]Memory, error) {
	b.groups = append(b.groups, groupID)
	return nil, nil
}

func (b *capturingBackend) Capabilities() []OperationInfo     { return nil }
func (b *capturingBackend) Schema(string) (Schema, error)     { return Schema{}, nil }
func (b *capturingBackend) Examples(string) ([]string, error) { return nil, nil }

func TestAdapterForwardsGroup(t *testing.T) {
	backend := &capturingBackend{}
	adapter := NewAdapter(backend, "my-group")
	ctx := context.Background()

	_, _ = adapter.Query(ctx, "q", 5)
	_, _ = adapter.SearchFacts(ctx, "q", 5)
	_, _ = adapter.Save(ctx, "content", SaveOptions{})
	_, _ = adapter.Explore(ctx, "seed", 1)
	_, _ = adapter.ListRecent(ctx, 5)

	require.Len(t, backend.groups, 5)
	for _, group := range backend.groups {
		assert.Equal(t, "my-group", group)
	}
	assert.Equal(t, "my-group", adapter.GroupID())
}

func TestNewBackendSelection(t *testing.T) {
	backend, err := New(KindGraphiti, nil)
	require.NoError(t, err)
	assert.IsType(t, &Graphiti{}, backend)

	backend, err = New(KindForgetful, nil)
	require.NoError(t, err)
	assert.IsType(t, &Forgetful{}, backend)

	_, err = New(Kind("redis"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown backend")

	_, err = NewAdapterFor(Kind("redis"), nil, "g")
	require.Error(t, err)
}
