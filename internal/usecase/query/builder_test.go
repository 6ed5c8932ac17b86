package query

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLocationHint(t *testing.T) {
	tests := []struct {
		address string
		want    string
	}{
		{"Holon, Sokolov 10", "Holon"},
		{"Tel Aviv Dizengoff 50", "Tel"},
		{"  , Sokolov 10", ""},
		{"", ""},
		{"Haifa", "Haifa"},
	}
	for _, tt := range tests {
		if got := LocationHint(tt.address); got != tt.want {
			t.Errorf("LocationHint(%q) = %q, want %q", tt.address, got, tt.want)
		}
	}
}

func TestSplitItems(t *testing.T) {
	got := SplitItems("water 6-pack, chicken  breast 1kg;\nmilk\r\n\n,, eggs")
	want := []string{"water 6-pack", "chicken breast 1kg", "milk", "eggs"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("SplitItems mismatch (-want +got):\n%s", diff)
	}
}

func TestBuild_TwoItems(t *testing.T) {
	got := Build("water 6-pack, chicken breast 1kg", "Holon", Limits{})
	want := []string{
		"water 6-pack price Holon",
		"water 6-pack buy online Holon",
		"chicken breast 1kg price Holon",
		"chicken breast 1kg buy online Holon",
		"grocery prices near Holon",
		"price comparison near Holon",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Build mismatch (-want +got):\n%s", diff)
	}
}

func TestBuild_CapsQueries(t *testing.T) {
	got := Build("a, b, c, d, e, f, g, h", "Holon", Limits{})
	if len(got) != DefaultMaxQueries {
		t.Fatalf("expected %d queries, got %d", DefaultMaxQueries, len(got))
	}
	if got[0] != "a price Holon" || got[7] != "d buy online Holon" {
		t.Errorf("unexpected order: %v", got)
	}
}

func TestBuild_UsesOnlyFirstItems(t *testing.T) {
	got := Build("a, b, c", "X", Limits{MaxItems: 1, MaxQueries: 20})
	want := []string{"a price X", "a buy online X", "grocery prices near X", "price comparison near X"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Build mismatch (-want +got):\n%s", diff)
	}
}

func TestBuild_Deduplicates(t *testing.T) {
	got := Build("Milk, milk, MILK", "Holon", Limits{})
	want := []string{
		"Milk price Holon",
		"Milk buy online Holon",
		"grocery prices near Holon",
		"price comparison near Holon",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Build mismatch (-want +got):\n%s", diff)
	}
}

func TestBuild_Deterministic(t *testing.T) {
	a := Build("bread; eggs; cheese", "Holon", Limits{})
	b := Build("bread; eggs; cheese", "Holon", Limits{})
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("Build not deterministic:\n%s", diff)
	}
}

func TestBuild_NoHint(t *testing.T) {
	got := Build("bread", "", Limits{})
	want := []string{"bread price", "bread buy online"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Build mismatch (-want +got):\n%s", diff)
	}
}
