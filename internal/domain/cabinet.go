package domain

// Minister is a named persona from the ministerial manifest. Each minister
// is routed to the chat gateway with its own preamble on broadcast.
type Minister struct {
	Name     AgentName `yaml:"name"`
	Role     string    `yaml:"role"`
	Mandate  string    `yaml:"mandate"`
	Preamble string    `yaml:"preamble"`
}
