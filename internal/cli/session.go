package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// session wraps an MCP client session to a spawned server subprocess.
type session struct {
	client *mcp.ClientSession
}

// connect spawns the configured server command and opens an MCP
// session over its stdio.
func connect(ctx context.Context) (*session, error) {
	cmd := exec.Command(serverCommand)

	client := mcp.NewClient(&mcp.Implementation{
		Name:    "ability-cli",
		Version: Version,
	}, nil)

	cs, err := client.Connect(ctx, &mcp.CommandTransport{Command: cmd}, nil)
	if err != nil {
		return nil, fmt.Errorf("spawn %s: %w", serverCommand, err)
	}
	return &session{client: cs}, nil
}

// close shuts down the session and the server subprocess.
func (s *session) close() error {
	return s.client.Close()
}

// call invokes a tool and decodes its JSON payload into out. A tool
// error becomes a Go error carrying the server's message.
func (s *session) call(ctx context.Context, name string, args map[string]any, out any) error {
	result, err := s.client.CallTool(ctx, &mcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	if err != nil {
		return fmt.Errorf("call %s: %w", name, err)
	}

	if len(result.Content) == 0 {
		return fmt.Errorf("call %s: empty response", name)
	}
	text, ok := result.Content[0].(*mcp.TextContent)
	if !ok {
		return fmt.Errorf("call %s: unexpected content type", name)
	}

	if result.IsError {
		return fmt.Errorf("%s", text.Text)
	}

	if out != nil {
		if err := json.Unmarshal([]byte(text.Text), out); err != nil {
			return fmt.Errorf("decode %s response: %w", name, err)
		}
	}
	return nil
}

// callText invokes a tool and returns its raw text content.
func (s *session) callText(ctx context.Context, name string, args map[string]any) (string, error) {
	result, err := s.client.CallTool(ctx, &mcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	if err != nil {
		return "", fmt.Errorf("call %s: %w", name, err)
	}
	if len(result.Content) == 0 {
		return "", fmt.Errorf("call %s: empty response", name)
	}
	text, ok := result.Content[0].(*mcp.TextContent)
	if !ok {
		return "", fmt.Errorf("call %s: unexpected content type", name)
	}
	if result.IsError {
		return "", fmt.Errorf("%s", text.Text)
	}
	return text.Text, nil
}
