package uuid

import (
	"testing"

	googleuuid "github.com/google/uuid"
)

func TestNew(t *testing.T) {
	id := New()
	parsed, err := googleuuid.Parse(id)
	if err != nil {
		t.Fatalf("expected valid uuid, got %q: %v", id, err)
	}
	if parsed.Version() != 7 {
		t.Errorf("expected version 7, got %d", parsed.Version())
	}
	if New() == id {
		t.Error("expected distinct ids")
	}
}

func TestParse(t *testing.T) {
	got, err := Parse("0190F2B4-6C7E-7D3A-9C1B-2E4F5A6B7C8D")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "0190f2b4-6c7e-7d3a-9c1b-2e4f5a6b7c8d" {
		t.Errorf("expected lowercase form, got %s", got)
	}

	if _, err := Parse("not-a-uuid"); err == nil {
		t.Error("expected error for invalid uuid")
	}
	if IsValid("123") {
		t.Error("expected 123 to be invalid")
	}
}
