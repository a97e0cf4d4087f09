package render

import (
	"context"
	"fmt"
	"os"
	"strings"

	"golang.org/x/net/html"
)

// htmlToText renders visible page text natively; no external tool needed.
func (c *Converter) htmlToText(ctx context.Context, path, key string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read html: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	doc, err := html.Parse(strings.NewReader(string(raw)))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	text := visibleText(doc)
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("page has no visible text")
	}
	return c.store.Put(key, []byte(text))
}

// blockTags are elements that end a line in the rendition. Dates and titles
// tend to sit alone in these, so line structure matters downstream.
var blockTags = map[string]bool{
	"p": true, "div": true, "br": true, "li": true, "tr": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"title": true, "td": true, "th": true,
}

// visibleText extracts text nodes from HTML, skipping scripts and styles.
func visibleText(n *html.Node) string {
	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe":
				return
			case "head":
				// keep only <title> from the head
				for c := n.FirstChild; c != nil; c = c.NextSibling {
					if c.Type == html.ElementNode && c.Data == "title" {
						walk(c)
					}
				}
				return
			}
		}

		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				buf.WriteString(text)
				buf.WriteString(" ")
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}

		if n.Type == html.ElementNode && blockTags[n.Data] {
			buf.WriteString("\n")
		}
	}

	walk(n)
	return buf.String()
}
