// Package textnorm turns raw blog and interest text into the token stream
// the relevance scorer vectorizes.
package textnorm

import (
	"strings"
	"unicode"
)

// MinTokenLen is the shortest token that survives normalization.
const MinTokenLen = 3

var stopWords = map[string]struct{}{}

func init() {
	for _, w := range strings.Fields(`
		a an and are as at be by for from
		has he in is it its of on that the
		to was will with this but they have
		had what said each which she do how their
		if up out many then them these so some
		her would make like into him time two more
		go no way could my than first been call
		who oil sit now find down day did get come
		made may part`) {
		stopWords[w] = struct{}{}
	}
}

// IsStopWord reports whether the lowercase word is dropped by Normalize.
func IsStopWord(word string) bool {
	_, ok := stopWords[word]
	return ok
}

// Normalize lowercases text, deletes everything that is not an ASCII letter
// or whitespace, and drops stop words and tokens shorter than MinTokenLen.
//
// Non-letters are deleted, not replaced: "covid-19 data" becomes
// "covid data" but "co-op" becomes "coop". An empty result means no signal.
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteByte(' ')
		}
	}

	var kept []string
	for _, word := range strings.Fields(b.String()) {
		if len(word) < MinTokenLen || IsStopWord(word) {
			continue
		}
		kept = append(kept, word)
	}
	return strings.Join(kept, " ")
}
