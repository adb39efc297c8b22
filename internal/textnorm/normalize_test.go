package textnorm

import (
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"lowercases", "Golang Concurrency", "golang concurrency"},
		{"drops stop words", "the art of the deal", "art deal"},
		{"drops short tokens", "go is ok for ml apps", "apps"},
		{"all stop words", "this is what they said", ""},
		{"deletes digits without separating", "covid-19 data", "covid data"},
		{"fuses across punctuation", "co-op e-mail", "coop email"},
		{"collapses whitespace", "  travel\t\ncooking  ", "travel cooking"},
		{"drops non latin letters", "café résumé naïve", "caf rsum nave"},
		{"only symbols", "!!! 123 ???", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"Travel Cooking Tips",
		"Learn to cook while traveling the world!",
		"COVID-19: what we know, 2 years later",
		"a b c dd eee ffff",
		"über straße 東京 travel",
		`{"blocks":[{"type":"paragraph","data":{"text":"Hello <b>world</b>"}}]}`,
	}

	for _, in := range inputs {
		once := Normalize(in)
		if twice := Normalize(once); twice != once {
			t.Errorf("Normalize not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestIsStopWord(t *testing.T) {
	if !IsStopWord("the") {
		t.Error("expected 'the' to be a stop word")
	}
	if IsStopWord("golang") {
		t.Error("expected 'golang' not to be a stop word")
	}
}
