package tools

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/tj/assert"

	"github.com/theapemachine/contexthub/pkg/errors"
)

func TestMCPInvokerMissingEndpoint(t *testing.T) {
	viper.Reset()

	invoker := NewMCPInvoker("graphiti")
	_, err := invoker.Invoke(context.Background(), "search_nodes", map[string]any{})

	assert.Error(t, err)

	var unavailable *errors.ErrBackendUnavailable
	assert.True(t, stderrors.As(err, &unavailable))
	assert.Equal(t, "graphiti", unavailable.Backend)
	assert.Contains(t, err.Error(), "endpoints.graphiti")
}

func TestMCPInvokerUnreachableEndpoint(t *testing.T) {
	viper.Reset()
	viper.Set("endpoints.forgetful", "http://127.0.0.1:1")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	invoker := NewMCPInvoker("forgetful")
	_, err := invoker.Invoke(ctx, "query_memory", map[string]any{})

	assert.Error(t, err)

	var upstream *errors.ErrUpstream
	assert.True(t, stderrors.As(err, &upstream))
	assert.Equal(t, "query_memory", upstream.Tool)
}
