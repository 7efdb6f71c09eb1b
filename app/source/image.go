package source

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// FirstImage returns the src of the first <img> in an HTML fragment.
func FirstImage(html string) string {
	if !strings.Contains(html, "<img") {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}

	src, _ := doc.Find("img[src]").First().Attr("src")
	return strings.TrimSpace(src)
}
