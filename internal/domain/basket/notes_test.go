package basket

import (
	"encoding/json"
	"testing"
)

func TestNotes_AddIsIdempotent(t *testing.T) {
	var n Notes
	if !n.Add("price not verified") {
		t.Fatal("expected first add to succeed")
	}
	if n.Add("price not verified") {
		t.Error("expected duplicate add to be ignored")
	}
	if n.Add("   ") {
		t.Error("expected blank add to be ignored")
	}
	if len(n) != 1 {
		t.Fatalf("expected 1 note, got %d", len(n))
	}
}

func TestNotes_MarshalJoinsNotes(t *testing.T) {
	n := Notes{"a", "b"}
	data, err := json.Marshal(n)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `"a; b"` {
		t.Errorf("got %s, want %q", data, "a; b")
	}
}

func TestNotes_MarshalEmpty(t *testing.T) {
	data, err := json.Marshal(Notes(nil))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `""` {
		t.Errorf("got %s, want empty string", data)
	}
}

func TestParseNotes_SplitsAndDeduplicates(t *testing.T) {
	n := ParseNotes("in stock; promo price ;in stock;")
	if len(n) != 2 {
		t.Fatalf("expected 2 notes, got %d: %v", len(n), n)
	}
	if n[0] != "in stock" || n[1] != "promo price" {
		t.Errorf("unexpected notes: %v", n)
	}
}

func TestLine_ClearPrice(t *testing.T) {
	p := 12.5
	l := Line{UnitPrice: &p, LineTotal: 25}
	l.ClearPrice()
	if l.HasPrice() {
		t.Error("expected price to be cleared")
	}
	if l.LineTotal != 0 {
		t.Errorf("expected line total 0, got %v", l.LineTotal)
	}
}
