package validate

import (
	"regexp"
	"strings"

	"github.com/kailas-cloud/pricecheck/internal/domain/basket"
)

// Notes appended by the validator.
const (
	NoteSuspiciousLink = "suspicious link"
	NotePriceInvalid   = "price removed: not a verifiable value between 0 and 999"
	NoteNoPrice        = "no verifiable price found"
	NoteGenericBrand   = "brand not specified by the source"
)

var (
	hedging = regexp.MustCompile(`(?i)\bprice may vary\b|\babout\b|~|≈`)
	spaces  = regexp.MustCompile(`\s+`)
)

const trimSet = " \t,;:.-"

// CleanNotes strips hedging language and drops notes left empty.
func CleanNotes(in basket.Notes) basket.Notes {
	var out basket.Notes
	for _, n := range in {
		n = hedging.ReplaceAllString(n, " ")
		n = spaces.ReplaceAllString(n, " ")
		out.Add(strings.Trim(n, trimSet))
	}
	return out
}
