// SPDX-License-Identifier: Apache-2.0

package planner

import (
	"context"
	"fmt"
	"strings"

	ollama "github.com/ollama/ollama/api"

	"github.com/masonworks/mason/internal/core/config"
)

// ollamaProvider uses a local Ollama instance as the planning service.
// Connection settings come from the standard OLLAMA_HOST environment.
type ollamaProvider struct {
	model string
}

func newOllamaProvider(cfg config.PlannerConfig) *ollamaProvider {
	model := strings.TrimPrefix(cfg.Model, "ollama:")
	return &ollamaProvider{model: model}
}

func (p *ollamaProvider) complete(ctx context.Context, system, user string) (string, error) {
	client, err := ollama.ClientFromEnvironment()
	if err != nil {
		return "", fmt.Errorf("could not create ollama client: %w", err)
	}

	stream := false
	req := &ollama.ChatRequest{
		Model: p.model,
		Messages: []ollama.Message{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Stream: &stream,
		Options: map[string]any{
			"temperature": 0.2,
		},
	}

	var reply strings.Builder
	err = client.Chat(ctx, req, func(res ollama.ChatResponse) error {
		reply.WriteString(res.Message.Content)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("ollama chat failed: %w", err)
	}

	return reply.String(), nil
}
