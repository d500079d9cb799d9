package market

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// SanitizeHTML flattens provider-supplied HTML fragments to plain text.
// News bodies arrive as markup; widgets render text only. Strings without
// markup pass through untouched.
func SanitizeHTML(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return s
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return s
	}

	// doc.Text() joins adjacent block elements with no separator, running
	// "</p><p>" sentences together. Insert a space after each block-level
	// element first; collapseWhitespace squashes the extras.
	doc.Find("p, div, br, li, tr, h1, h2, h3, h4, h5, h6").AfterHtml(" ")
	return collapseWhitespace(doc.Text())
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
