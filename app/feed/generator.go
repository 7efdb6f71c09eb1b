package feed

import (
	"bytes"
	"cmp"
	"encoding/xml"
	"fmt"
	"html"
	"mime"
	"path"
	"strings"
	"time"

	"github.com/lysyi3m/newsdesk/app/curation"
)

type Generator struct {
	carder Carder
	now    func() time.Time
}

func NewGenerator(carder Carder) *Generator {
	return &Generator{carder: carder, now: time.Now}
}

// Run renders articles as an RSS 2.0 document in the given order.
func (g *Generator) Run(channel Channel, articles []curation.Article) (string, error) {
	var buf bytes.Buffer

	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	buf.WriteString("\n")
	buf.WriteString(`<rss version="2.0" xmlns:content="http://purl.org/rss/1.0/modules/content/" xmlns:atom="http://www.w3.org/2005/Atom">`)
	buf.WriteString("\n  <channel>\n")

	g.writeElement(&buf, "title", channel.Title, 4)
	g.writeElement(&buf, "link", channel.Link, 4)
	g.writeElement(&buf, "description", cmp.Or(channel.Description, channel.Title), 4)

	if channel.SelfURL != "" {
		buf.WriteString(fmt.Sprintf("    <atom:link href=\"%s\" rel=\"self\" type=\"application/rss+xml\" />\n",
			html.EscapeString(channel.SelfURL)))
	}

	lastBuildDate := g.now()
	if len(articles) > 0 {
		if t, ok := curation.ParseTimestamp(articles[0].CreatedAt); ok {
			lastBuildDate = t
		}
	}

	g.writeElement(&buf, "lastBuildDate", lastBuildDate.Format(time.RFC1123Z), 4)
	g.writeElement(&buf, "generator", channel.Generator, 4)
	g.writeElement(&buf, "language", channel.Language, 4)

	for _, article := range articles {
		g.writeItem(&buf, article)
	}

	buf.WriteString("  </channel>\n</rss>")

	return buf.String(), nil
}

func (g *Generator) writeItem(buf *bytes.Buffer, article curation.Article) {
	card := g.carder.Card(article)

	buf.WriteString("    <item>\n")

	if guid := g.guid(article); guid != "" {
		buf.WriteString(fmt.Sprintf("      <guid isPermaLink=\"%t\">", g.isURL(guid)))
		xml.EscapeText(buf, []byte(guid))
		buf.WriteString("</guid>\n")
	}

	g.writeElement(buf, "title", article.Title, 6)
	g.writeElement(buf, "link", article.Link, 6)
	if article.Content != "" {
		g.writeElement(buf, "description", card.Excerpt, 6)
	} else {
		g.writeElement(buf, "description", "No description available", 6)
	}

	if article.Content != "" {
		buf.WriteString("      <content:encoded><![CDATA[")
		buf.WriteString(strings.ReplaceAll(stripInvalidXMLChars(article.Content), "]]>", "]]]]><![CDATA[>"))
		buf.WriteString("]]></content:encoded>\n")
	}

	if t, ok := curation.ParseTimestamp(article.CreatedAt); ok {
		g.writeElement(buf, "pubDate", t.Format(time.RFC1123Z), 6)
	}

	if article.Author != "" {
		g.writeElement(buf, "author", article.Author, 6)
	}

	g.writeElement(buf, "category", card.Category, 6)

	// RSS 2.0 requires url, length and type on enclosures
	if card.ImageURL != "" {
		if mimeType := mime.TypeByExtension(path.Ext(card.ImageURL)); strings.HasPrefix(mimeType, "image/") {
			buf.WriteString(fmt.Sprintf("      <enclosure url=\"%s\" length=\"0\" type=\"%s\" />\n",
				html.EscapeString(card.ImageURL),
				html.EscapeString(mimeType)))
		}
	}

	buf.WriteString("    </item>\n")
}

// guid prefers the permalink; bare upstream ids are namespaced by source.
func (g *Generator) guid(article curation.Article) string {
	if article.Link != "" {
		return article.Link
	}
	if article.ID == "" {
		return ""
	}
	if article.Source == "" {
		return article.ID
	}
	return article.Source + ":" + article.ID
}

func (g *Generator) writeElement(buf *bytes.Buffer, tag, content string, indent int) {
	if content == "" {
		return
	}

	for i := 0; i < indent; i++ {
		buf.WriteByte(' ')
	}

	buf.WriteString("<")
	buf.WriteString(tag)
	buf.WriteString(">")
	xml.EscapeText(buf, []byte(content))
	buf.WriteString("</")
	buf.WriteString(tag)
	buf.WriteString(">\n")
}

// stripInvalidXMLChars drops runes outside the XML 1.0 Char production.
// CDATA sections are not escaped.
func stripInvalidXMLChars(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\t' || r == '\n' || r == '\r':
			return r
		case r >= 0x20 && r <= 0xD7FF:
			return r
		case r >= 0xE000 && r <= 0xFFFD:
			return r
		case r >= 0x10000 && r <= 0x10FFFF:
			return r
		}
		return -1
	}, s)
}

func (g *Generator) isURL(s string) bool {
	return (len(s) > 7 && s[:7] == "http://") || (len(s) > 8 && s[:8] == "https://")
}
