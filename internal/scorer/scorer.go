package scorer

import (
	"time"

	"github.com/rs/zerolog"
)

const (
	DefaultContentWeight    = 0.8
	DefaultEngagementWeight = 0.2
	DefaultMaxDF            = 1.0 // not 0.8: with two documents that prunes every shared term
	DefaultMaxFeatures      = 1000
	DefaultPageSize         = 10
	DefaultMaxPageSize      = 100
)

// Document is the read-only view of a blog the scorer needs.
type Document struct {
	ID         int64
	Title      string
	Content    string
	Tags       []string
	Published  bool
	CreatedAt  time.Time // zero means "just now"
	LikesCount int
}

// Breakdown holds the parts of one relevance score.
type Breakdown struct {
	Content    float64 `json:"content"`
	Engagement float64 `json:"engagement"`
	Total      float64 `json:"total"`
}

type Options struct {
	ContentWeight    float64
	EngagementWeight float64
	Vectorizer       VectorizerOptions

	// FlattenRichText converts JSON block documents to plain text before
	// vectorizing. Off by default, so the raw content is scored.
	FlattenRichText bool

	DefaultPageSize int
	MaxPageSize     int

	Now    func() time.Time
	Logger zerolog.Logger
}

// DefaultOptions returns the weights and vectorizer settings used when no
// configuration is supplied.
func DefaultOptions() Options {
	return Options{
		ContentWeight:    DefaultContentWeight,
		EngagementWeight: DefaultEngagementWeight,
		Vectorizer: VectorizerOptions{
			NGramMin:    1,
			NGramMax:    2,
			MaxFeatures: DefaultMaxFeatures,
			MinDF:       1,
			MaxDF:       DefaultMaxDF,
		},
		DefaultPageSize: DefaultPageSize,
		MaxPageSize:     DefaultMaxPageSize,
		Now:             time.Now,
		Logger:          zerolog.Nop(),
	}
}

// Scorer computes relevance scores. It is immutable after New and safe for
// concurrent use.
type Scorer struct {
	opts       Options
	vectorizer *Vectorizer
}

func New(opts Options) *Scorer {
	def := DefaultOptions()
	if opts.ContentWeight == 0 && opts.EngagementWeight == 0 {
		opts.ContentWeight = def.ContentWeight
		opts.EngagementWeight = def.EngagementWeight
	}
	if opts.Vectorizer == (VectorizerOptions{}) {
		opts.Vectorizer = def.Vectorizer
	}
	if opts.DefaultPageSize <= 0 {
		opts.DefaultPageSize = def.DefaultPageSize
	}
	if opts.MaxPageSize <= 0 {
		opts.MaxPageSize = def.MaxPageSize
	}
	if opts.Now == nil {
		opts.Now = def.Now
	}

	return &Scorer{
		opts:       opts,
		vectorizer: NewVectorizer(opts.Vectorizer),
	}
}

// Score combines content similarity and engagement. Without interests the
// total is the engagement score alone.
func (s *Scorer) Score(interests []string, doc Document, now time.Time) Breakdown {
	b := Breakdown{Engagement: EngagementScore(doc, now)}
	if len(interests) == 0 {
		b.Total = b.Engagement
		return b
	}

	b.Content = s.ContentSimilarity(interests, doc.Content, doc.Title, doc.Tags)
	b.Total = b.Content*s.opts.ContentWeight + b.Engagement*s.opts.EngagementWeight
	return b
}

// ScoreOne scores a single blog against the current time.
func (s *Scorer) ScoreOne(interests []string, doc Document) float64 {
	b, _ := s.Explain(interests, doc)
	return b.Total
}

// Explain scores doc at the scorer's current time and returns every component.
// Like Rank, a failed score falls back to engagement only and reports degraded.
func (s *Scorer) Explain(interests []string, doc Document) (b Breakdown, degraded bool) {
	return s.safeScore(interests, doc, s.opts.Now())
}
