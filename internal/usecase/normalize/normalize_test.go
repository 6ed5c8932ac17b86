package normalize

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/kailas-cloud/pricecheck/internal/domain"
	"github.com/kailas-cloud/pricecheck/internal/domain/basket"
	"github.com/kailas-cloud/pricecheck/internal/domain/envelope"
	"github.com/kailas-cloud/pricecheck/internal/domain/store"
)

func ptr[T any](v T) *T { return &v }

const storeJSON = `{"store_name":"Shufersal","address":"Sokolov 20","currency":"₪",
"basket":[{"name":"water 6-pack","brand":"Neviot","quantity":2,"unit_price":12.9,"product_url":"https://shop.test/p/1","notes":"pack of 6"}]}`

var wantStores = []store.Result{{
	StoreName: "Shufersal",
	Address:   "Sokolov 20",
	Currency:  "₪",
	Basket: []basket.Line{{
		Name:       "water 6-pack",
		Brand:      "Neviot",
		Quantity:   2,
		UnitPrice:  ptr(12.9),
		ProductURL: "https://shop.test/p/1",
		Notes:      basket.Notes{"pack of 6"},
	}},
}}

func TestExtract(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"plain object", `{"a":1}`, `{"a":1}`},
		{"prose around object", "Sure! Here you go:\n{\"a\":{\"b\":2}}\nThanks", `{"a":{"b":2}}`},
		{"markdown fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare array", "  [{\"a\":1},{\"b\":2}]  ", `[{"a":1},{"b":2}]`},
		{"bracket in prose before object", `see [1]: {"results":[]}`, `{"results":[]}`},
		{"no braces", "  nothing here  ", "nothing here"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Extract(tt.raw); got != tt.want {
				t.Errorf("Extract() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNormalize_NonJSON(t *testing.T) {
	for _, raw := range []string{"", "I could not find prices.", "{not json}"} {
		_, err := Normalize(raw)
		if !errors.Is(err, domain.ErrModelNonJSON) {
			t.Errorf("Normalize(%q) error = %v, want ErrModelNonJSON", raw, err)
		}
	}
}

func TestNormalize_ShapesCoerceToCanonical(t *testing.T) {
	shapes := map[string]string{
		"canonical":      `{"status":"ok","results":[` + storeJSON + `]}`,
		"results only":   `{"results":[` + storeJSON + `]}`,
		"stores":         `{"stores":[` + storeJSON + `]}`,
		"items":          `{"items":[` + storeJSON + `]}`,
		"data":           `{"data":[` + storeJSON + `]}`,
		"output":         `{"output":[` + storeJSON + `]}`,
		"arbitrary key":  `{"note":"x","comparison":[` + storeJSON + `]}`,
		"bare array":     `[` + storeJSON + `]`,
		"fenced wrapper": "```json\n{\"stores\":[" + storeJSON + "]}\n```",
	}
	for name, raw := range shapes {
		t.Run(name, func(t *testing.T) {
			out, err := Normalize(raw)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if out.Status != envelope.StatusOK {
				t.Fatalf("status = %q, want ok", out.Status)
			}
			if diff := cmp.Diff(wantStores, out.Stores); diff != "" {
				t.Errorf("stores mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCoerce_ProbeOrder(t *testing.T) {
	parsed, err := Parse(`{"output":[{"store_name":"B"}],"stores":[{"store_name":"A"}]}`)
	if err != nil {
		t.Fatal(err)
	}
	c, ok := Coerce(parsed)
	if !ok {
		t.Fatal("expected a match")
	}
	if got := c.Results.Get("0.store_name").String(); got != "A" {
		t.Errorf("expected stores to win over output, got %q", got)
	}
}

func TestCoerce_RemainingKeyNeedsNonEmptyObjectArray(t *testing.T) {
	parsed, _ := Parse(`{"empty":[],"scalars":[1,2],"picked":[{"store_name":"C"}]}`)
	c, ok := Coerce(parsed)
	if !ok {
		t.Fatal("expected a match")
	}
	if got := c.Results.Get("0.store_name").String(); got != "C" {
		t.Errorf("got %q, want C", got)
	}
}

func TestNormalize_NoCandidateIsSoft(t *testing.T) {
	out, err := Normalize(`{"message":"no stores nearby","count":0}`)
	if err != nil {
		t.Fatalf("malformed but present output must not be an error: %v", err)
	}
	if out.Status != envelope.StatusNoResults {
		t.Errorf("status = %q, want no_results", out.Status)
	}
	if string(out.Raw) != `{"message":"no stores nearby","count":0}` {
		t.Errorf("raw payload not attached: %s", out.Raw)
	}
}

func TestNormalize_ModelReportedNoResults(t *testing.T) {
	out, err := Normalize(`{"status":"no_results","message":"nothing verifiable","results":[]}`)
	if err != nil {
		t.Fatal(err)
	}
	if out.Status != envelope.StatusNoResults || out.Message != "nothing verifiable" {
		t.Errorf("unexpected outcome: %+v", out)
	}
}

func TestNormalize_TolerantLineDecoding(t *testing.T) {
	raw := `{"results":[{"store":"Rami Levy","distance_km":"1.4","items":[
		{"item":"eggs","quantity":0,"unit_price":"12.50","url":"https://r.test/eggs","notes":["fresh","fresh"]},
		{"name":"bread","unit_price":null,"in_stock":false,"match_confidence":0.8}
	]}]}`
	out, err := Normalize(raw)
	if err != nil {
		t.Fatal(err)
	}
	want := []store.Result{{
		StoreName:  "Rami Levy",
		DistanceKM: ptr(1.4),
		Basket: []basket.Line{
			{
				Name:       "eggs",
				Quantity:   1,
				ProductURL: "https://r.test/eggs",
				Notes:      basket.Notes{"fresh", NoteNonNumericPrice},
			},
			{
				Name:            "bread",
				Quantity:        1,
				InStock:         ptr(false),
				MatchConfidence: ptr(0.8),
			},
		},
	}}
	if diff := cmp.Diff(want, out.Stores); diff != "" {
		t.Errorf("stores mismatch (-want +got):\n%s", diff)
	}
}
