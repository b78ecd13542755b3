// Package normalize implements the Article Normalizer: HTML stripping,
// entity extraction, fingerprinting, categorization, and spam filtering
// applied to every RSS/Atom entry before it is written to raw_articles.
package normalize

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// StripHTML removes markup from raw feed content and collapses whitespace,
// returning plain text suitable for title/description/content fields.
func StripHTML(raw string) string {
	if raw == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return collapseWhitespace(raw)
	}
	return collapseWhitespace(doc.Text())
}

func collapseWhitespace(s string) string {
	fields := strings.Fields(s)
	return strings.TrimSpace(strings.Join(fields, " "))
}
