// Package htmlcheck inspects rendered documentation pages.
package htmlcheck

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/net/html"
)

// ErrNoBody indicates the rendered file has no <body> element.
var ErrNoBody = errors.New("rendered page has no body")

// Page summarizes a rendered HTML file.
type Page struct {
	Title string
	Bytes int
}

// Inspect reads and checks the page at path.
func Inspect(path string) (*Page, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rendered page: %w", err)
	}
	page, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return page, nil
}

// Parse extracts the page title and requires a non-empty <body>.
func Parse(data []byte) (*Page, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrNoBody
	}
	doc, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse rendered page: %w", err)
	}

	page := &Page{Bytes: len(data)}
	var body *html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "title":
				if page.Title == "" {
					page.Title = strings.TrimSpace(extractText(n))
				}
			case "body":
				if body == nil {
					body = n
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	if body == nil || body.FirstChild == nil {
		return nil, ErrNoBody
	}
	return page, nil
}

func extractText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}
