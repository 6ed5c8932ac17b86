package normalize

import (
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/kailas-cloud/pricecheck/internal/domain/basket"
	"github.com/kailas-cloud/pricecheck/internal/domain/store"
)

// NoteNonNumericPrice is attached when the model sent a price that is not a JSON number.
const NoteNonNumericPrice = "unit_price was not a number"

// DecodeStores maps a results array onto store results. Model-supplied totals and
// ranks are ignored; the validator recomputes them.
func DecodeStores(results gjson.Result) []store.Result {
	var out []store.Result
	results.ForEach(func(_, v gjson.Result) bool {
		if v.IsObject() {
			out = append(out, decodeStore(v))
		}
		return true
	})
	return out
}

func decodeStore(v gjson.Result) store.Result {
	s := store.Result{
		StoreName:  firstString(v, "store_name", "store", "name"),
		Address:    firstString(v, "address", "store_address"),
		DistanceKM: number(first(v, "distance_km", "distance")),
		Currency:   strings.TrimSpace(v.Get("currency").String()),
	}
	first(v, "basket", "items", "lines").ForEach(func(_, line gjson.Result) bool {
		if line.IsObject() {
			s.Basket = append(s.Basket, decodeLine(line))
		}
		return true
	})
	return s
}

func decodeLine(v gjson.Result) basket.Line {
	l := basket.Line{
		Name:         firstString(v, "name", "item", "product"),
		Brand:        strings.TrimSpace(v.Get("brand").String()),
		ProductURL:   firstString(v, "product_url", "url", "link"),
		SourceDomain: strings.TrimSpace(v.Get("source_domain").String()),
		Notes:        notes(v.Get("notes")),

		Size:            strings.TrimSpace(v.Get("size").String()),
		PackQty:         number(v.Get("pack_qty")),
		Unit:            strings.TrimSpace(v.Get("unit").String()),
		PPU:             number(v.Get("ppu")),
		MatchConfidence: number(v.Get("match_confidence")),
		Substitution:    boolean(v.Get("substitution")),
		ObservedAt:      strings.TrimSpace(v.Get("observed_at").String()),
		InStock:         boolean(v.Get("in_stock")),
	}

	l.Quantity = 1
	if q := number(v.Get("quantity")); q != nil && *q > 0 {
		l.Quantity = *q
	}

	price := v.Get("unit_price")
	switch price.Type {
	case gjson.Number:
		p := price.Float()
		l.UnitPrice = &p
	case gjson.Null:
	default:
		if price.Exists() {
			l.Notes.Add(NoteNonNumericPrice)
		}
	}
	return l
}

func first(v gjson.Result, keys ...string) gjson.Result {
	for _, k := range keys {
		if r := v.Get(k); r.Exists() && r.Type != gjson.Null {
			return r
		}
	}
	return gjson.Result{}
}

func firstString(v gjson.Result, keys ...string) string {
	return strings.TrimSpace(first(v, keys...).String())
}

// number accepts JSON numbers and numeric strings.
func number(v gjson.Result) *float64 {
	switch v.Type {
	case gjson.Number:
		f := v.Float()
		return &f
	case gjson.String:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.Str), 64)
		if err != nil {
			return nil
		}
		return &f
	default:
		return nil
	}
}

func boolean(v gjson.Result) *bool {
	switch v.Type {
	case gjson.True, gjson.False:
		b := v.Bool()
		return &b
	default:
		return nil
	}
}

// notes accepts a joined string or an array of strings.
func notes(v gjson.Result) basket.Notes {
	if v.IsArray() {
		var out basket.Notes
		v.ForEach(func(_, n gjson.Result) bool {
			out.Add(n.String())
			return true
		})
		return out
	}
	if v.Type == gjson.String {
		return basket.ParseNotes(v.Str)
	}
	return nil
}
