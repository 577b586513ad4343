package llm

import (
	"github.com/aetheroos/aethero-core/internal/domain"
)

// SystemPreamble is the fixed instruction injected ahead of every exchange,
// regardless of how much prior context the caller supplies.
const SystemPreamble = `You are an agent of AetheroOS, a ministerial cabinet of AI personas serving a single user.

Your role:
- Answer as the persona you have been assigned; stay in character.
- Be concise and concrete; prefer short paragraphs over lists.
- When you lack the information to answer, say so plainly.

Boundaries:
- You do not speak for other ministers of the cabinet.
- You never fabricate records, metrics, or audit results.`

// Turn is one entry of the upstream payload, in send order.
type Turn struct {
	Role string // "system", "user", or "model"
	Text string
}

// AssembleTurns builds the ordered payload for the provider: the fixed
// system preamble first (plus the minister's preamble, when present), then
// the prior context, then the new prompt. An empty history still yields the
// preamble as the first turn.
func AssembleTurns(prompt string, chatCtx domain.ChatContext) []Turn {
	system := SystemPreamble
	if chatCtx.Preamble != "" {
		system += "\n\n" + chatCtx.Preamble
	}

	turns := []Turn{{Role: "system", Text: system}}

	for _, t := range chatCtx.History {
		role := "user"
		if t.Role == domain.RoleAgent || t.Role == domain.RoleAssistant {
			role = "model"
		}
		turns = append(turns, Turn{Role: role, Text: t.Content})
	}

	turns = append(turns, Turn{Role: "user", Text: prompt})
	return turns
}
