package evidence

import "unicode/utf8"

// Hit is one ranked search result.
type Hit struct {
	Title      string `json:"title"`
	URL        string `json:"url"`
	Snippet    string `json:"snippet"`
	DisplayURL string `json:"displayUrl"`
}

// Document is a cleaned page excerpt used as grounding context.
type Document struct {
	URL     string `json:"url"`
	Excerpt string `json:"excerpt"`
}

// Len returns the excerpt length in characters.
func (d Document) Len() int { return utf8.RuneCountInString(d.Excerpt) }
