package compare

import (
	"math"
	"strings"
)

// Request field names reported in need_input outcomes.
const (
	FieldAddress  = "address"
	FieldRadiusKM = "radius_km"
	FieldListText = "list_text"
)

// MaxListLength is the maximum accepted shopping list length in characters.
const MaxListLength = 4000

// Request is a validated compare request.
type Request struct {
	address  string
	radiusKM float64
	listText string
	useWeb   bool
	provider string
}

// New validates compare parameters. On failure it returns the names of the missing
// or invalid fields in a fixed order.
func New(address string, radiusKM float64, listText string, useWeb bool, provider string) (Request, []string) {
	address = strings.TrimSpace(address)
	listText = strings.TrimSpace(listText)

	var needed []string
	if address == "" {
		needed = append(needed, FieldAddress)
	}
	if radiusKM <= 0 || math.IsNaN(radiusKM) || math.IsInf(radiusKM, 0) {
		needed = append(needed, FieldRadiusKM)
	}
	if listText == "" || len([]rune(listText)) > MaxListLength {
		needed = append(needed, FieldListText)
	}
	if len(needed) > 0 {
		return Request{}, needed
	}

	return Request{
		address:  address,
		radiusKM: radiusKM,
		listText: listText,
		useWeb:   useWeb,
		provider: strings.ToLower(strings.TrimSpace(provider)),
	}, nil
}

// Address returns the shopper address.
func (r *Request) Address() string { return r.address }

// RadiusKM returns the search radius in kilometers.
func (r *Request) RadiusKM() float64 { return r.radiusKM }

// ListText returns the raw shopping list text.
func (r *Request) ListText() string { return r.listText }

// UseWeb reports whether web evidence should be gathered.
func (r *Request) UseWeb() bool { return r.useWeb }

// Provider returns the requested model provider (empty means default).
func (r *Request) Provider() string { return r.provider }
