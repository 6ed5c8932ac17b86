// Package prompt renders the system and user blocks sent to the model.
package prompt

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kailas-cloud/pricecheck/internal/domain"
	"github.com/kailas-cloud/pricecheck/internal/domain/evidence"
)

// Defaults.
const (
	DefaultCurrency     = "₪"
	DefaultExcerptChars = 1500
)

// NoEvidenceMarker replaces the evidence list when nothing was gathered.
const NoEvidenceMarker = "NO EVIDENCE PROVIDED. You have no verified web pages for this request. " +
	"Prefer unit_price=null with a note over guessing any price."

// Config controls rendering. ExcerptChars is independent of the gathering caps.
type Config struct {
	Currency     string
	ExcerptChars int
	// Strict lists the extended basket fields required by the tool-call contract.
	Strict bool
}

// Input is everything the prompt is built from.
type Input struct {
	Address  string
	RadiusKM float64
	ListText string
	Evidence []evidence.Document
}

// Assembler builds prompts. It performs no I/O.
type Assembler struct {
	cfg Config
}

// NewAssembler creates an assembler, filling zero config values with defaults.
func NewAssembler(cfg Config) *Assembler {
	if strings.TrimSpace(cfg.Currency) == "" {
		cfg.Currency = DefaultCurrency
	}
	if cfg.ExcerptChars <= 0 {
		cfg.ExcerptChars = DefaultExcerptChars
	}
	return &Assembler{cfg: cfg}
}

// Assemble renders the prompt pair for in.
func (a *Assembler) Assemble(in Input) domain.Prompt {
	return domain.Prompt{
		System: a.system(),
		User:   a.user(in),
	}
}

func (a *Assembler) system() string {
	var b strings.Builder
	b.WriteString("You compare grocery basket prices across nearby stores.\n")
	b.WriteString("Reply with strict JSON only. No prose, no markdown fences.\n")
	b.WriteString(`Top-level shape: {"status":"ok","results":[...]}` + "\n")
	b.WriteString("Return 3 to 4 stores, sorted ascending by total_price.\n")
	b.WriteString("Each store: store_name, address, distance_km, currency, basket, total_price.\n")
	b.WriteString("Each basket line: name, brand, quantity, unit_price, line_total, product_url, source_domain, notes.\n")
	if a.cfg.Strict {
		b.WriteString("Also fill when known: size, pack_qty, unit, ppu, match_confidence (0..1), " +
			"substitution, observed_at (RFC 3339), in_stock.\n")
	}
	b.WriteString("brand is mandatory and must not be empty.\n")
	b.WriteString("If a price cannot be verified, set unit_price=null and explain in notes. Never guess.\n")
	b.WriteString("product_url must be a real product page, not a home page.\n")
	fmt.Fprintf(&b, "All prices are in %s; set currency to %q.\n", a.cfg.Currency, a.cfg.Currency)
	return b.String()
}

func (a *Assembler) user(in Input) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Address: %s\n", in.Address)
	fmt.Fprintf(&b, "Radius: %s km\n", strconv.FormatFloat(in.RadiusKM, 'f', -1, 64))
	b.WriteString("Shopping list:\n")
	b.WriteString(in.ListText)
	b.WriteString("\n\nEvidence:\n")

	if len(in.Evidence) == 0 {
		b.WriteString(NoEvidenceMarker)
		b.WriteString("\n")
		return b.String()
	}
	for i, doc := range in.Evidence {
		fmt.Fprintf(&b, "[%d] url: %s\nexcerpt: %s\n", i+1, doc.URL, domain.Truncate(doc.Excerpt, a.cfg.ExcerptChars))
	}
	return b.String()
}
