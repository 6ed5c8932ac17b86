package evidence

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/kailas-cloud/pricecheck/internal/domain"
)

// strippedElements never contribute page text.
const strippedElements = "script, style, noscript, template, svg, iframe"

// CleanHTML strips script/style blocks and all markup, collapses whitespace,
// and truncates to perPageCap characters. Unparseable input yields "".
func CleanHTML(raw []byte, perPageCap int) string {
	if len(raw) == 0 {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		return ""
	}
	doc.Find(strippedElements).Remove()

	text := strings.Join(strings.Fields(doc.Text()), " ")
	return domain.Truncate(text, perPageCap)
}
