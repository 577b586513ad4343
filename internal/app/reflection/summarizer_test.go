package reflection_test

import (
	"encoding/json"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/aetheroos/aethero-core/internal/app/reflection"
)

func TestSummarizeTruncatesToFiftyRunes(t *testing.T) {
	long := strings.Repeat("x", 80)
	notes := reflection.Summarize([]reflection.Pair{{Prompt: long, Response: "short"}})

	if len(notes) != 1 {
		t.Fatalf("expected 1 note, got %d", len(notes))
	}
	if got := utf8.RuneCountInString(notes[0].PromptExcerpt); got != 50 {
		t.Fatalf("expected 50-rune excerpt, got %d", got)
	}
	if notes[0].ResponseExcerpt != "short" {
		t.Fatalf("short responses should pass through, got %q", notes[0].ResponseExcerpt)
	}
	if notes[0].Action != reflection.PlaceholderAction {
		t.Fatalf("expected placeholder action, got %q", notes[0].Action)
	}
}

func TestSummarizeJSONShape(t *testing.T) {
	out, err := reflection.SummarizeJSON([]reflection.Pair{
		{Prompt: "p1", Response: "r1"},
		{Prompt: "p2", Response: "r2"},
	})
	if err != nil {
		t.Fatalf("SummarizeJSON failed: %v", err)
	}

	var notes []reflection.Note
	if err := json.Unmarshal([]byte(out), &notes); err != nil {
		t.Fatalf("output is not a JSON array: %v", err)
	}
	if len(notes) != 2 {
		t.Fatalf("expected 2 notes, got %d", len(notes))
	}
	if notes[1].PromptExcerpt != "p2" {
		t.Fatalf("notes out of order: %+v", notes)
	}
}

func TestSummarizeEmptyInput(t *testing.T) {
	if notes := reflection.Summarize(nil); len(notes) != 0 {
		t.Fatalf("expected no notes for empty input, got %d", len(notes))
	}
}
