package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrBackendUnavailable(t *testing.T) {
	err := NewErrBackendUnavailable("graphiti", "start the MCP server first")

	assert.Contains(t, err.Error(), "graphiti backend is unavailable")
	assert.Contains(t, err.Error(), "start the MCP server first")

	bare := NewErrBackendUnavailable("forgetful", "")
	assert.Equal(t, "forgetful backend is unavailable in the current execution context", bare.Error())
}

func TestErrUpstreamUnwrap(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := NewErrUpstream("search_nodes", cause)

	assert.Contains(t, err.Error(), "search_nodes")
	assert.True(t, stderrors.Is(err, cause))
}

func TestErrUnknownOperation(t *testing.T) {
	err := NewErrUnknownOperation("fetch")
	assert.Equal(t, "unknown operation: fetch", err.Error())
}
