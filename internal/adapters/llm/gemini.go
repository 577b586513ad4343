package llm

import (
	"context"
	"fmt"
	"os"

	"github.com/aetheroos/aethero-core/internal/domain"
	"google.golang.org/genai"
)

type GeminiClient struct {
	client    *genai.Client
	modelName string
}

// NewGeminiClient creates an LLMClient backed by the Gemini API. The key is
// read from the named environment variable at construction time.
func NewGeminiClient(ctx context.Context, modelName, apiKeyEnv string) (*GeminiClient, error) {
	apiKey := os.Getenv(apiKeyEnv)
	if apiKey == "" {
		return nil, fmt.Errorf("%s must be set", apiKeyEnv)
	}

	if modelName == "" {
		modelName = "gemini-2.5-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating Gemini client: %w", err)
	}

	return &GeminiClient{
		client:    client,
		modelName: modelName,
	}, nil
}

// GenerateReply implements domain.LLMClient. Sampling parameters are fixed:
// temperature 0.7, at most 1000 output tokens. A provider failure is
// returned to the caller as-is; there is no retry here. An empty candidate
// yields "" without an error.
func (g *GeminiClient) GenerateReply(
	ctx context.Context,
	prompt string,
	chatCtx domain.ChatContext,
) (string, error) {
	turns := AssembleTurns(prompt, chatCtx)

	// turns[0] is always the system preamble.
	system := turns[0].Text

	var contents []*genai.Content
	for _, t := range turns[1:] {
		var role genai.Role = genai.RoleUser
		if t.Role == "model" {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(t.Text, role))
	}

	temp := float32(0.7)
	outputTokens := int32(1000)

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
		Temperature:       &temp,
		MaxOutputTokens:   outputTokens,
	}

	res, err := g.client.Models.GenerateContent(ctx, g.modelName, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}

	return res.Text(), nil
}
