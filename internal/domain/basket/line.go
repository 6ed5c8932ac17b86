package basket

// Line is one item within a store's basket.
// UnitPrice is nil when no verifiable price exists; LineTotal is then 0.
type Line struct {
	Name         string   `json:"name"`
	Brand        string   `json:"brand"`
	Quantity     float64  `json:"quantity"`
	UnitPrice    *float64 `json:"unit_price"`
	LineTotal    float64  `json:"line_total"`
	ProductURL   string   `json:"product_url"`
	SourceDomain string   `json:"source_domain"`
	Notes        Notes    `json:"notes"`

	// Extended fields populated by the strict output contract.
	Size            string   `json:"size,omitempty"`
	PackQty         *float64 `json:"pack_qty,omitempty"`
	Unit            string   `json:"unit,omitempty"`
	PPU             *float64 `json:"ppu,omitempty"`
	MatchConfidence *float64 `json:"match_confidence,omitempty"`
	Substitution    *bool    `json:"substitution,omitempty"`
	ObservedAt      string   `json:"observed_at,omitempty"`
	InStock         *bool    `json:"in_stock,omitempty"`
}

// HasPrice reports whether the line carries a numeric unit price.
func (l *Line) HasPrice() bool { return l.UnitPrice != nil }

// ClearPrice drops the unit price and zeroes the line total.
func (l *Line) ClearPrice() {
	l.UnitPrice = nil
	l.LineTotal = 0
}
