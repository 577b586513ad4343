package llm

import (
	"context"
	"fmt"

	"github.com/aetheroos/aethero-core/internal/domain"
)

type MockLLM struct{}

func NewMockLLM() *MockLLM {
	return &MockLLM{}
}

func (m *MockLLM) GenerateReply(ctx context.Context, prompt string, chatCtx domain.ChatContext) (string, error) {
	who := "aethero"
	if chatCtx.Agent != "" {
		who = string(chatCtx.Agent)
	}
	return fmt.Sprintf("[%s] acknowledged: %q", who, prompt), nil
}
