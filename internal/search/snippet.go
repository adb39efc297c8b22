package search

import (
	"strings"
	"unicode"
)

const DefaultRadius = 60

// Mark wraps the matched part of a snippet.
type Mark func(string) string

// HTMLMark wraps matches in <b> tags.
func HTMLMark(s string) string { return "<b>" + s + "</b>" }

// Snippet returns up to radius runes either side of the first case-insensitive
// occurrence of query in text, with the match passed through mark. Whitespace
// runs are collapsed. Without a match the head of the text is returned.
func Snippet(text, query string, radius int, mark Mark) string {
	if radius <= 0 {
		radius = DefaultRadius
	}
	if mark == nil {
		mark = func(s string) string { return s }
	}

	runes := []rune(strings.Join(strings.Fields(text), " "))
	needle := []rune(strings.TrimSpace(query))

	at := indexFold(runes, needle)
	if at < 0 || len(needle) == 0 {
		if len(runes) <= 2*radius {
			return string(runes)
		}
		return strings.TrimRightFunc(string(runes[:2*radius]), unicode.IsSpace) + "..."
	}

	start := max(at-radius, 0)
	end := min(at+len(needle)+radius, len(runes))

	var b strings.Builder
	if start > 0 {
		b.WriteString("...")
	}
	b.WriteString(string(runes[start:at]))
	b.WriteString(mark(string(runes[at : at+len(needle)])))
	b.WriteString(string(runes[at+len(needle) : end]))
	if end < len(runes) {
		b.WriteString("...")
	}
	return b.String()
}

func indexFold(haystack, needle []rune) int {
	if len(needle) == 0 {
		return -1
	}
	for i := 0; i+len(needle) <= len(haystack); i++ {
		match := true
		for j, r := range needle {
			if unicode.ToLower(haystack[i+j]) != unicode.ToLower(r) {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}
