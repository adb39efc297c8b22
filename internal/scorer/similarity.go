package scorer

import (
	"fmt"
	"strings"

	"github.com/julienpequegnot/blogrank/internal/textnorm"
)

// ContentSimilarity measures how well a blog matches the reader's interests
// as the cosine of their TF-IDF vectors. Title and tags are counted twice.
// When vectorization fails it falls back to KeywordOverlap.
func (s *Scorer) ContentSimilarity(interests []string, content, title string, tags []string) float64 {
	if len(interests) == 0 {
		return 0
	}

	userDoc, blogDoc := s.Documents(interests, content, title, tags)
	if userDoc == "" || blogDoc == "" {
		return 0
	}

	sim, err := s.vectorSimilarity(userDoc, blogDoc)
	if err != nil {
		s.opts.Logger.Debug().Err(err).Msg("tf-idf failed, using keyword overlap")
		return KeywordOverlap(interests, blogDoc)
	}
	return sim
}

// Documents returns the normalized reader and blog documents that are
// compared by ContentSimilarity.
func (s *Scorer) Documents(interests []string, content, title string, tags []string) (userDoc, blogDoc string) {
	if s.opts.FlattenRichText {
		content = textnorm.PlainText(content)
	}

	joinedTags := strings.Join(tags, " ")
	userDoc = textnorm.Normalize(strings.Join(interests, " "))
	blogDoc = textnorm.Normalize(strings.Join([]string{title, title, content, joinedTags, joinedTags}, " "))
	return userDoc, blogDoc
}

func (s *Scorer) vectorSimilarity(userDoc, blogDoc string) (sim float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("vectorizer panic: %v", r)
		}
	}()

	vectors, err := s.vectorizer.FitTransform([]string{userDoc, blogDoc})
	if err != nil {
		return 0, err
	}
	return Cosine(vectors[0], vectors[1]), nil
}

// KeywordOverlap is the share of interest words found in the blog text.
// Interest words come from the raw interests, lowercased; blog words from
// the already normalized blog document.
func KeywordOverlap(interests []string, blogDoc string) float64 {
	interestWords := wordSet(strings.Join(interests, " "))
	if len(interestWords) == 0 {
		return 0
	}

	blogWords := wordSet(blogDoc)
	shared := 0
	for w := range interestWords {
		if _, ok := blogWords[w]; ok {
			shared++
		}
	}
	return float64(shared) / float64(len(interestWords))
}

func wordSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(strings.ToLower(text)) {
		set[w] = struct{}{}
	}
	return set
}
