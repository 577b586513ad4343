// Package reflection derives trivial summaries from prompt/response pairs.
// This is a stand-in until the AetheroOS parser lands: it truncates, it does
// not analyze. Do not read meaning into the action tag.
package reflection

import "encoding/json"

const (
	excerptLen = 50

	// PlaceholderAction marks notes produced by this stand-in.
	PlaceholderAction = "review"
)

// Pair is one prompt/response exchange.
type Pair struct {
	Prompt   string `json:"prompt"`
	Response string `json:"response"`
}

// Note is the derived summary for one pair.
type Note struct {
	PromptExcerpt   string `json:"prompt_excerpt"`
	ResponseExcerpt string `json:"response_excerpt"`
	Action          string `json:"action"`
}

// Summarize produces one note per pair, in input order.
func Summarize(pairs []Pair) []Note {
	notes := make([]Note, 0, len(pairs))
	for _, p := range pairs {
		notes = append(notes, Note{
			PromptExcerpt:   truncate(p.Prompt),
			ResponseExcerpt: truncate(p.Response),
			Action:          PlaceholderAction,
		})
	}
	return notes
}

// SummarizeJSON renders the notes as a JSON array string, the shape the
// memory log stores in its reflection field.
func SummarizeJSON(pairs []Pair) (string, error) {
	data, err := json.Marshal(Summarize(pairs))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func truncate(s string) string {
	runes := []rune(s)
	if len(runes) <= excerptLen {
		return s
	}
	return string(runes[:excerptLen])
}
