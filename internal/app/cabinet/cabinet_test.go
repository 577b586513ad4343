package cabinet_test

import (
	"testing"

	"github.com/aetheroos/aethero-core/internal/app/cabinet"
	"github.com/aetheroos/aethero-core/internal/domain"
)

func TestDefaultRosterOrder(t *testing.T) {
	c := cabinet.Default()

	ministers := c.Ministers()
	want := []domain.AgentName{"primus", "lucius", "archivus", "frontinus"}
	if len(ministers) != len(want) {
		t.Fatalf("expected %d ministers, got %d", len(want), len(ministers))
	}
	for i, name := range want {
		if ministers[i].Name != name {
			t.Fatalf("minister %d: expected %s, got %s", i, name, ministers[i].Name)
		}
	}
}

func TestParseManifest(t *testing.T) {
	data := []byte(`
version: "1"
ministers:
  - name: primus
    role: Strategic Logic
    preamble: You are Primus.
  - name: archivus
    role: Memory
    mandate: memory and audit
    preamble: You are Archivus.
`)

	c, err := cabinet.ParseManifest(data)
	if err != nil {
		t.Fatalf("ParseManifest failed: %v", err)
	}

	ministers := c.Ministers()
	if len(ministers) != 2 {
		t.Fatalf("expected 2 ministers, got %d", len(ministers))
	}
	if ministers[1].Mandate != "memory and audit" {
		t.Fatalf("expected mandate to survive parsing, got %q", ministers[1].Mandate)
	}

	if _, ok := c.Lookup("archivus"); !ok {
		t.Fatalf("expected to find archivus")
	}
	if _, ok := c.Lookup("nobody"); ok {
		t.Fatalf("did not expect to find nobody")
	}
}

func TestParseManifestRejectsDuplicates(t *testing.T) {
	data := []byte(`
ministers:
  - name: primus
  - name: primus
`)
	if _, err := cabinet.ParseManifest(data); err == nil {
		t.Fatalf("expected duplicate ministers to be rejected")
	}
}

func TestParseManifestRejectsEmpty(t *testing.T) {
	if _, err := cabinet.ParseManifest([]byte(`ministers: []`)); err == nil {
		t.Fatalf("expected empty roster to be rejected")
	}
}
