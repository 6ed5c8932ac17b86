// Package validate enforces price sanity on model results, drops unverifiable
// stores and ranks the survivors by basket total.
package validate

import (
	"math"
	"sort"
	"strings"

	"github.com/kailas-cloud/pricecheck/internal/domain/basket"
	"github.com/kailas-cloud/pricecheck/internal/domain/envelope"
	"github.com/kailas-cloud/pricecheck/internal/domain/store"
)

// Defaults.
const (
	DefaultMinValidItems = 1
	DefaultGenericBrand  = "Generic"
	DefaultCurrency      = "₪"
	MaxUnitPrice         = 999.0
)

// NoResultsMessage is returned when no store has a verifiable price.
const NoResultsMessage = "No store with verifiable prices was found. " +
	"Try widening the search radius or specifying brands for your items."

// Config tunes validation.
type Config struct {
	MinValidItems int
	GenericBrand  string
	Currency      string
}

// Validator checks and ranks store results. It is stateless and safe for concurrent use.
type Validator struct {
	cfg Config
}

// NewValidator creates a validator, filling zero config values with defaults.
func NewValidator(cfg Config) *Validator {
	if cfg.MinValidItems <= 0 {
		cfg.MinValidItems = DefaultMinValidItems
	}
	if strings.TrimSpace(cfg.GenericBrand) == "" {
		cfg.GenericBrand = DefaultGenericBrand
	}
	if strings.TrimSpace(cfg.Currency) == "" {
		cfg.Currency = DefaultCurrency
	}
	return &Validator{cfg: cfg}
}

// Validate fixes every basket line, admits stores with enough valid prices,
// recomputes totals and ranks. The input is not modified.
func (v *Validator) Validate(stores []store.Result) envelope.Envelope {
	admitted := make([]store.Result, 0, len(stores))
	for i := range stores {
		s, valid := v.store(stores[i])
		if valid < v.cfg.MinValidItems {
			continue
		}
		admitted = append(admitted, s)
	}
	if len(admitted) == 0 {
		return envelope.NoResults(NoResultsMessage, nil)
	}
	return envelope.OK(Rank(admitted))
}

// store validates a copy of s and returns it with its valid-item count.
func (v *Validator) store(s store.Result) (store.Result, int) {
	lines := make([]basket.Line, len(s.Basket))
	copy(lines, s.Basket)

	valid := 0
	for i := range lines {
		if v.line(&lines[i]) {
			valid++
		}
	}

	s.Basket = lines
	if strings.TrimSpace(s.Currency) == "" {
		s.Currency = v.cfg.Currency
	}
	s.TotalPrice = store.ComputeTotal(lines)
	s.Rank = 0
	return s, valid
}

// line validates l in place and reports whether it carries a valid price.
func (v *Validator) line(l *basket.Line) bool {
	l.Notes = CleanNotes(l.Notes)
	if l.Quantity <= 0 || math.IsNaN(l.Quantity) || math.IsInf(l.Quantity, 0) {
		l.Quantity = 1
	}

	if LinkSuspicious(l.ProductURL) {
		l.Notes.Add(NoteSuspiciousLink)
	}
	if strings.TrimSpace(l.SourceDomain) == "" {
		l.SourceDomain = SourceDomain(l.ProductURL)
	}

	if strings.TrimSpace(l.Brand) == "" {
		l.Brand = v.cfg.GenericBrand
		l.Notes.Add(NoteGenericBrand)
	}

	switch {
	case l.UnitPrice == nil:
		l.LineTotal = 0
		if !l.Notes.Has(NotePriceInvalid) {
			l.Notes.Add(NoteNoPrice)
		}
		return false
	case !ValidPrice(*l.UnitPrice):
		l.ClearPrice()
		l.Notes.Add(NotePriceInvalid)
		return false
	}
	l.LineTotal = store.Round2(*l.UnitPrice * l.Quantity)
	return true
}

// ValidPrice reports whether p is finite and within (0, MaxUnitPrice).
func ValidPrice(p float64) bool {
	return !math.IsNaN(p) && !math.IsInf(p, 0) && p > 0 && p < MaxUnitPrice
}

// Rank sorts stores ascending by total price, keeping input order on ties,
// and assigns 1-based ranks.
func Rank(stores []store.Result) []store.Result {
	sort.SliceStable(stores, func(i, j int) bool {
		return stores[i].TotalPrice < stores[j].TotalPrice
	})
	for i := range stores {
		stores[i].Rank = i + 1
	}
	return stores
}
