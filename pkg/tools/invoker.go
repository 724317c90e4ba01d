// Package tools provides the tool-invocation boundary between the memory
// adapter and the external MCP services that actually store memories.
package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/client/transport"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/spf13/viper"

	"github.com/theapemachine/contexthub/pkg/errors"
)

// Invoker abstracts a single tool call against an external service. The
// hosting environment supplies a concrete implementation; backends treat it
// as opaque.
type Invoker interface {
	Invoke(ctx context.Context, tool string, args map[string]any) (map[string]any, error)
}

// MCPInvoker reaches a service over its MCP SSE endpoint. The endpoint URL
// is resolved from configuration under endpoints.<service>.
type MCPInvoker struct {
	Service string
}

// NewMCPInvoker creates an invoker bound to one configured service.
func NewMCPInvoker(service string) *MCPInvoker {
	return &MCPInvoker{Service: service}
}

// Invoke connects to the service, calls the named tool and decodes the JSON
// payload of the first text content block. A fresh client is used per call;
// the MCP servers involved are stateless between tool calls.
func (inv *MCPInvoker) Invoke(
	ctx context.Context, tool string, args map[string]any,
) (map[string]any, error) {
	endpointKey := "endpoints." + inv.Service

	url := viper.GetViper().GetString(endpointKey)
	if url == "" {
		log.Error("endpoint URL not found in config", "key", endpointKey, "tool", tool)
		return nil, errors.NewErrBackendUnavailable(
			inv.Service,
			fmt.Sprintf("no endpoint configured under %s; add it to your config file", endpointKey),
		)
	}

	sseTransport, err := transport.NewSSE(url + "/sse")
	if err != nil {
		log.Error("failed to create SSE transport", "error", err, "url", url)
		return nil, errors.NewErrUpstream(tool, err)
	}

	if err := sseTransport.Start(ctx); err != nil {
		log.Error("failed to start SSE transport", "error", err, "url", url)
		return nil, errors.NewErrUpstream(tool, err)
	}

	c := client.NewClient(sseTransport)
	defer c.Close()

	initRequest := mcp.InitializeRequest{}
	initRequest.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initRequest.Params.ClientInfo = mcp.Implementation{
		Name:    "contexthub",
		Version: "1.0.0",
	}
	initRequest.Params.Capabilities = mcp.ClientCapabilities{}

	if _, err := c.Initialize(ctx, initRequest); err != nil {
		log.Error("failed to initialize MCP client", "error", err, "service", inv.Service)
		return nil, errors.NewErrUpstream(tool, err)
	}

	log.Info("calling tool", "service", inv.Service, "tool", tool, "args", args)

	callToolRequest := mcp.CallToolRequest{}
	callToolRequest.Params.Name = tool
	callToolRequest.Params.Arguments = args

	callToolResult, err := c.CallTool(ctx, callToolRequest)
	if err != nil {
		log.Error("failed to call tool", "error", err, "tool", tool)
		return nil, errors.NewErrUpstream(tool, err)
	}

	payload, err := decodeResult(callToolResult)
	if err != nil {
		return nil, errors.NewErrUpstream(tool, err)
	}

	return payload, nil
}

// decodeResult extracts the first content block of a tool result as a JSON
// object. Service errors are surfaced with their original message.
func decodeResult(result *mcp.CallToolResult) (map[string]any, error) {
	if len(result.Content) == 0 {
		return map[string]any{}, nil
	}

	var resultString string

	firstContent := result.Content[0]
	if textContent, ok := firstContent.(mcp.TextContent); ok {
		resultString = textContent.Text
	} else {
		jsonResult, err := json.Marshal(firstContent)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal tool result content: %w", err)
		}
		resultString = string(jsonResult)
	}

	if result.IsError {
		return nil, fmt.Errorf("service returned error: %s", resultString)
	}

	payload := map[string]any{}
	if err := json.Unmarshal([]byte(resultString), &payload); err != nil {
		return nil, fmt.Errorf("malformed tool result %q: %w", resultString, err)
	}

	return payload, nil
}
