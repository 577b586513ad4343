// Package cabinet holds the ministerial roster: the named agent personas a
// broadcast fans out to, each with its own preamble.
package cabinet

import (
	"fmt"

	"github.com/aetheroos/aethero-core/internal/domain"
)

// Cabinet is an ordered roster of ministers. Broadcast order is roster
// order.
type Cabinet struct {
	ministers []domain.Minister
}

// Default returns the built-in roster, used when no manifest is configured.
func Default() *Cabinet {
	return &Cabinet{ministers: []domain.Minister{
		{
			Name:     "primus",
			Role:     "Strategic Logic",
			Mandate:  "strategic analysis and intent parsing",
			Preamble: "You are Primus, minister of strategic logic. You analyze intent and propose direction.",
		},
		{
			Name:     "lucius",
			Role:     "Backend Execution",
			Mandate:  "task execution and server operations",
			Preamble: "You are Lucius, minister of execution. You turn plans into concrete operational steps.",
		},
		{
			Name:     "archivus",
			Role:     "Memory & Audit",
			Mandate:  "memory storage and constitutional compliance",
			Preamble: "You are Archivus, minister of memory and audit. You recall, record, and verify.",
		},
		{
			Name:     "frontinus",
			Role:     "Interface & Visualization",
			Mandate:  "interfaces and real-time visualization",
			Preamble: "You are Frontinus, minister of interface. You shape how results are presented.",
		},
	}}
}

// New builds a cabinet from an explicit roster.
func New(ministers []domain.Minister) (*Cabinet, error) {
	if len(ministers) == 0 {
		return nil, fmt.Errorf("cabinet needs at least one minister")
	}
	seen := make(map[domain.AgentName]bool, len(ministers))
	for _, m := range ministers {
		if m.Name == "" {
			return nil, fmt.Errorf("minister without a name")
		}
		if seen[m.Name] {
			return nil, fmt.Errorf("duplicate minister %q", m.Name)
		}
		seen[m.Name] = true
	}
	return &Cabinet{ministers: ministers}, nil
}

// Ministers returns the roster in broadcast order.
func (c *Cabinet) Ministers() []domain.Minister {
	out := make([]domain.Minister, len(c.ministers))
	copy(out, c.ministers)
	return out
}

// Lookup finds a minister by name.
func (c *Cabinet) Lookup(name domain.AgentName) (domain.Minister, bool) {
	for _, m := range c.ministers {
		if m.Name == name {
			return m, true
		}
	}
	return domain.Minister{}, false
}
