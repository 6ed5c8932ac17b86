package evidence

import "github.com/kailas-cloud/pricecheck/internal/domain/evidence"

// Budget is the explicit accumulator threaded through query/hit iteration.
// It accepts documents until maxDocs is reached and tracks the running character sum.
type Budget struct {
	maxDocs int
	docs    []evidence.Document
	chars   int
	seen    map[string]struct{}
}

// NewBudget creates an accumulator that holds at most maxDocs documents.
func NewBudget(maxDocs int) *Budget {
	return &Budget{
		maxDocs: maxDocs,
		docs:    make([]evidence.Document, 0, maxDocs),
		seen:    make(map[string]struct{}),
	}
}

// Full reports whether the document count cap has been reached.
func (b *Budget) Full() bool { return len(b.docs) >= b.maxDocs }

// Seen reports whether url was already considered, and marks it.
func (b *Budget) Seen(url string) bool {
	if _, ok := b.seen[url]; ok {
		return true
	}
	b.seen[url] = struct{}{}
	return false
}

// Accept adds doc unless the budget is full. Reports whether it was added.
func (b *Budget) Accept(doc evidence.Document) bool {
	if b.Full() {
		return false
	}
	b.docs = append(b.docs, doc)
	b.chars += doc.Len()
	return true
}

// Count returns the number of accepted documents.
func (b *Budget) Count() int { return len(b.docs) }

// Chars returns the running character sum of accepted documents.
func (b *Budget) Chars() int { return b.chars }

// Documents returns the accepted documents in acceptance order.
func (b *Budget) Documents() []evidence.Document { return b.docs }

// SelectPrefix keeps documents in order while the running character sum stays within
// totalCap, stopping at the first document that would exceed it. Documents are never reordered.
func SelectPrefix(docs []evidence.Document, totalCap int) []evidence.Document {
	out := make([]evidence.Document, 0, len(docs))
	sum := 0
	for _, d := range docs {
		n := d.Len()
		if sum+n > totalCap {
			break
		}
		sum += n
		out = append(out, d)
	}
	return out
}
