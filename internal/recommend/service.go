// Package recommend ranks stored blogs for a reader by combining the storage
// lookups with the relevance scorer.
package recommend

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/julienpequegnot/blogrank/internal/blog"
	"github.com/julienpequegnot/blogrank/internal/metrics"
	"github.com/julienpequegnot/blogrank/internal/scorer"
	"github.com/julienpequegnot/blogrank/internal/trends"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// UnknownAuthor is shown when an author lookup fails.
const UnknownAuthor = "Unknown"

const defaultConcurrency = 8

var ErrEmptyQuery = errors.New("search query is empty")

type BlogSource interface {
	FetchBlogs(ctx context.Context, f blog.Filter) ([]blog.Blog, error)
	Get(ctx context.Context, id int64) (*blog.Blog, error)
}

type AuthorSource interface {
	Username(ctx context.Context, userID int64) (string, error)
}

type InterestSource interface {
	Interests(ctx context.Context, userID int64) ([]string, error)
}

type Options struct {
	Concurrency int // parallel author lookups
	MaxCorpus   int // blogs fetched per ranking, 0 for all
	Now         func() time.Time
	Logger      zerolog.Logger
}

type Service struct {
	blogs     BlogSource
	authors   AuthorSource
	interests InterestSource
	scorer    *scorer.Scorer
	opts      Options
}

func NewService(blogs BlogSource, authors AuthorSource, interests InterestSource, sc *scorer.Scorer, opts Options) *Service {
	if opts.Concurrency <= 0 {
		opts.Concurrency = defaultConcurrency
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{
		blogs:     blogs,
		authors:   authors,
		interests: interests,
		scorer:    sc,
		opts:      opts,
	}
}

// Request describes one listing. UserID 0 ranks without interests.
type Request struct {
	UserID        int64
	Page          int
	PageSize      int
	PublishedOnly bool
	Tags          []string
	Query         string
}

type ScoredBlog struct {
	blog.Blog
	Username string           `json:"username"`
	Score    scorer.Breakdown `json:"score"`
	Degraded bool             `json:"degraded,omitempty"`
}

type Page struct {
	Items      []ScoredBlog `json:"items"`
	Total      int          `json:"total"`
	Page       int          `json:"page"`
	Limit      int          `json:"limit"`
	TotalPages int          `json:"total_pages"`
}

// Recommend ranks the blogs matching the request's tag and published filters.
func (s *Service) Recommend(ctx context.Context, req Request) (*Page, error) {
	return s.rank(ctx, "recommend", req, blog.Filter{
		PublishedOnly: req.PublishedOnly,
		Tags:          req.Tags,
	})
}

// Search ranks the blogs whose title, content or tags contain req.Query.
func (s *Service) Search(ctx context.Context, req Request) (*Page, error) {
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	return s.rank(ctx, "search", req, blog.Filter{
		PublishedOnly: req.PublishedOnly,
		Tags:          req.Tags,
		Query:         query,
	})
}

// ScoreBlog scores a single blog for the user.
func (s *Service) ScoreBlog(ctx context.Context, userID, blogID int64) (*ScoredBlog, error) {
	b, err := s.blogs.Get(ctx, blogID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch blog: %w", err)
	}

	interests := s.interestsFor(ctx, userID)
	names := s.usernames(ctx, []int64{b.UserID})
	breakdown, degraded := s.scorer.Explain(interests, b.Document())

	return &ScoredBlog{
		Blog:     *b,
		Username: names[b.UserID],
		Score:    breakdown,
		Degraded: degraded,
	}, nil
}

// TrendingTags ranks the tags of published blogs by recent activity.
func (s *Service) TrendingTags(ctx context.Context, days, limit int) ([]trends.Trend, error) {
	blogs, err := s.blogs.FetchBlogs(ctx, blog.Filter{PublishedOnly: true, Limit: s.opts.MaxCorpus})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch blogs: %w", err)
	}

	analyzer := trends.NewAnalyzer()
	for _, b := range blogs {
		analyzer.Add(b.ID, b.Tags, b.CreatedAt)
	}
	return analyzer.Top(s.opts.Now(), days, limit), nil
}

func (s *Service) rank(ctx context.Context, operation string, req Request, filter blog.Filter) (*Page, error) {
	start := time.Now()
	filter.Limit = s.opts.MaxCorpus

	interests := s.interestsFor(ctx, req.UserID)

	blogs, err := s.blogs.FetchBlogs(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch blogs: %w", err)
	}

	docs := make([]scorer.Document, len(blogs))
	for i := range blogs {
		docs[i] = blogs[i].Document()
	}

	results, total := s.scorer.Rank(docs, interests, req.Page, req.PageSize)

	ids := make([]int64, 0, len(results))
	for _, r := range results {
		ids = append(ids, blogs[r.Index].UserID)
	}
	names := s.usernames(ctx, ids)

	degraded := 0
	items := make([]ScoredBlog, 0, len(results))
	for _, r := range results {
		b := blogs[r.Index]
		if r.Degraded {
			degraded++
		}
		items = append(items, ScoredBlog{
			Blog:     b,
			Username: names[b.UserID],
			Score:    r.Breakdown,
			Degraded: r.Degraded,
		})
	}

	metrics.RecordRank(operation, total, degraded, time.Since(start))
	s.opts.Logger.Debug().
		Str("operation", operation).
		Int64("user_id", req.UserID).
		Int("interests", len(interests)).
		Int("total", total).
		Int("returned", len(items)).
		Dur("took", time.Since(start)).
		Msg("ranked blogs")

	page := max(req.Page, 1)
	limit := s.scorer.PageSize(req.PageSize)
	return &Page{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: (total + limit - 1) / limit,
	}, nil
}

// interestsFor never fails: a missing or unreadable profile ranks by
// engagement alone.
func (s *Service) interestsFor(ctx context.Context, userID int64) []string {
	if userID == 0 || s.interests == nil {
		return nil
	}
	interests, err := s.interests.Interests(ctx, userID)
	if err != nil {
		metrics.RecordLookupFailure("interests")
		s.opts.Logger.Warn().Err(err).Int64("user_id", userID).Msg("interest lookup failed, ranking without interests")
		return nil
	}
	return interests
}

// usernames resolves each distinct author concurrently. Failed lookups map to
// UnknownAuthor.
func (s *Service) usernames(ctx context.Context, userIDs []int64) map[int64]string {
	names := make(map[int64]string, len(userIDs))
	var unique []int64
	for _, id := range userIDs {
		if _, seen := names[id]; !seen {
			names[id] = UnknownAuthor
			unique = append(unique, id)
		}
	}
	if s.authors == nil {
		return names
	}

	var mu sync.Mutex
	var g errgroup.Group
	g.SetLimit(s.opts.Concurrency)

	for _, id := range unique {
		id := id
		g.Go(func() error {
			name, err := s.authors.Username(ctx, id)
			if err != nil {
				metrics.RecordLookupFailure("author")
				s.opts.Logger.Warn().Err(err).Int64("user_id", id).Msg("author lookup failed")
				return nil
			}
			mu.Lock()
			names[id] = name
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return names
}
