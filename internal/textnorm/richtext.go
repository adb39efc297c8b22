package textnorm

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/goccy/go-json"
	"golang.org/x/net/html"
)

// richDocument is the block-structured format produced by the blog editor.
type richDocument struct {
	Blocks []richBlock `json:"blocks"`
}

type richBlock struct {
	Type string `json:"type"`
	Data struct {
		Text    string            `json:"text"`
		Caption string            `json:"caption"`
		Code    string            `json:"code"`
		Items   []json.RawMessage `json:"items"`
	} `json:"data"`
}

// nested list items carry their own children
type richListItem struct {
	Content string            `json:"content"`
	Items   []json.RawMessage `json:"items"`
}

// PlainText flattens a JSON block document into plain text, one block per
// line, with inline HTML stripped. Anything that is not a block document is
// returned unchanged.
func PlainText(content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "{") {
		return content
	}

	var doc richDocument
	if err := json.Unmarshal([]byte(trimmed), &doc); err != nil || len(doc.Blocks) == 0 {
		return content
	}

	var lines []string
	for _, block := range doc.Blocks {
		for _, s := range []string{block.Data.Text, block.Data.Caption, block.Data.Code} {
			if s != "" {
				lines = append(lines, StripHTML(s))
			}
		}
		lines = appendListItems(lines, block.Data.Items)
	}
	return strings.Join(lines, "\n")
}

func appendListItems(lines []string, items []json.RawMessage) []string {
	for _, raw := range items {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			lines = append(lines, StripHTML(s))
			continue
		}
		var item richListItem
		if err := json.Unmarshal(raw, &item); err != nil {
			continue
		}
		if item.Content != "" {
			lines = append(lines, StripHTML(item.Content))
		}
		lines = appendListItems(lines, item.Items)
	}
	return lines
}

// StripHTML returns the text content of an HTML fragment.
func StripHTML(fragment string) string {
	if !strings.ContainsAny(fragment, "<&") {
		return strings.TrimSpace(fragment)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return strings.TrimSpace(fragment)
	}
	doc.Find("script, style").Remove()

	var parts []string
	for _, n := range doc.Nodes {
		parts = collectText(n, parts)
	}
	return strings.Join(parts, " ")
}

// Adjacent elements are separated by a space so "<p>a</p><p>b</p>" does not
// fuse into one word.
func collectText(n *html.Node, parts []string) []string {
	if n.Type == html.TextNode {
		if t := strings.Join(strings.Fields(n.Data), " "); t != "" {
			parts = append(parts, t)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		parts = collectText(c, parts)
	}
	return parts
}
