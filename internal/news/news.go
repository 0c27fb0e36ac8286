// Package news holds the article model and the client for the news proxy.
package news

import "context"

// Article is one fetched news item. It is never modified after a Set
// containing it has been stored.
type Article struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	ImageURL    string `json:"imageUrl,omitempty"`
	SourceName  string `json:"sourceName,omitempty"`
}

// Set is the ordered result of one fetch. It is replaced wholesale, never
// merged.
type Set []Article

// At returns the article at zero-based index i.
func (s Set) At(i int) (Article, bool) {
	if i < 0 || i >= len(s) {
		return Article{}, false
	}
	return s[i], true
}

// Titles lists the titles in order.
func (s Set) Titles() []string {
	out := make([]string, len(s))
	for i, a := range s {
		out[i] = a.Title
	}
	return out
}

// Gateway fetches articles for a category and optional free-text query.
// An empty result is an empty Set, not an error.
type Gateway interface {
	Fetch(ctx context.Context, category, query string) (Set, error)
}
