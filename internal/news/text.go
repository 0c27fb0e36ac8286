package news

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// PlainText drops any markup or entities the provider left in a field and
// collapses whitespace.
func PlainText(s string) string {
	s = strings.TrimSpace(s)
	if !strings.ContainsAny(s, "<&") {
		return s
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return s
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}
