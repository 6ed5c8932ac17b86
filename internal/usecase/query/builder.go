package query

import (
	"strings"
)

// Default bounds on query explosion.
const (
	DefaultMaxItems   = 6
	DefaultMaxQueries = 8
)

// Limits bounds the number of list items used and queries produced.
type Limits struct {
	MaxItems   int
	MaxQueries int
}

func (l Limits) withDefaults() Limits {
	if l.MaxItems <= 0 {
		l.MaxItems = DefaultMaxItems
	}
	if l.MaxQueries <= 0 {
		l.MaxQueries = DefaultMaxQueries
	}
	return l
}

// LocationHint returns the first comma-delimited token of address,
// falling back to the first whitespace token.
func LocationHint(address string) string {
	address = strings.TrimSpace(address)
	if head, _, found := strings.Cut(address, ","); found {
		if head = strings.TrimSpace(head); head != "" {
			return head
		}
	}
	fields := strings.Fields(address)
	if len(fields) == 0 {
		return ""
	}
	return strings.Trim(fields[0], ",")
}

// SplitItems splits a free-text list on commas, semicolons, and newlines,
// dropping blanks and collapsing inner whitespace.
func SplitItems(listText string) []string {
	parts := strings.FieldsFunc(listText, func(r rune) bool {
		return r == ',' || r == ';' || r == '\n' || r == '\r'
	})
	items := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.Join(strings.Fields(p), " "); p != "" {
			items = append(items, p)
		}
	}
	return items
}

// Build derives an ordered, deduplicated query set from the list and location hint.
// Per-item "price" and "buy online" variants come first, then two catch-all queries;
// the result is capped at limits.MaxQueries.
func Build(listText, hint string, limits Limits) []string {
	limits = limits.withDefaults()

	items := SplitItems(listText)
	if len(items) > limits.MaxItems {
		items = items[:limits.MaxItems]
	}

	candidates := make([]string, 0, len(items)*2+2)
	for _, item := range items {
		candidates = append(candidates,
			join(item, "price", hint),
			join(item, "buy online", hint),
		)
	}
	if hint != "" {
		candidates = append(candidates,
			"grocery prices near "+hint,
			"price comparison near "+hint,
		)
	}

	seen := make(map[string]struct{}, len(candidates))
	queries := make([]string, 0, limits.MaxQueries)
	for _, q := range candidates {
		key := strings.ToLower(q)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		queries = append(queries, q)
		if len(queries) == limits.MaxQueries {
			break
		}
	}
	return queries
}

func join(parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, " ")
}
