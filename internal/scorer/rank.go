package scorer

import (
	"math"
	"sort"
	"time"
)

// Result is one ranked document. Index points back into the slice passed
// to Rank.
type Result struct {
	Index int
	Breakdown
	// Degraded is set when scoring failed and the total was replaced by the
	// engagement score (or zero).
	Degraded bool
}

// Rank scores every document, sorts them by total descending, keeping input
// order for ties, and returns the requested page together with the
// pre-pagination count. A page past the end yields an empty slice.
func (s *Scorer) Rank(docs []Document, interests []string, page, pageSize int) ([]Result, int) {
	now := s.opts.Now()

	results := make([]Result, len(docs))
	for i := range docs {
		b, degraded := s.safeScore(interests, docs[i], now)
		results[i] = Result{Index: i, Breakdown: b, Degraded: degraded}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Total > results[j].Total
	})

	start, end := s.PageBounds(len(results), page, pageSize)
	return results[start:end], len(results)
}

// PageBounds converts a 1-based page into slice bounds over total items.
func (s *Scorer) PageBounds(total, page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = s.opts.DefaultPageSize
	}
	if pageSize > s.opts.MaxPageSize {
		pageSize = s.opts.MaxPageSize
	}

	// compare by division so a huge page cannot overflow the multiplication
	if page-1 > total/pageSize {
		return total, total
	}
	start := (page - 1) * pageSize
	end := start + pageSize
	if end > total {
		end = total
	}
	return start, end
}

// PageSize returns the page size PageBounds will actually use.
func (s *Scorer) PageSize(pageSize int) int {
	if pageSize < 1 {
		return s.opts.DefaultPageSize
	}
	if pageSize > s.opts.MaxPageSize {
		return s.opts.MaxPageSize
	}
	return pageSize
}

// safeScore scores one document without letting a failure escape. On a
// panic or a non-finite total the document falls back to engagement only.
func (s *Scorer) safeScore(interests []string, doc Document, now time.Time) (b Breakdown, degraded bool) {
	defer func() {
		if r := recover(); r != nil {
			s.opts.Logger.Warn().Int64("blog_id", doc.ID).Interface("panic", r).Msg("scoring failed, using engagement only")
			b, degraded = s.engagementOnly(doc, now), true
		}
	}()

	b = s.Score(interests, doc, now)
	if !finite(b.Total) {
		s.opts.Logger.Warn().Int64("blog_id", doc.ID).Float64("total", b.Total).Msg("non-finite score, using engagement only")
		return s.engagementOnly(doc, now), true
	}
	return b, false
}

func (s *Scorer) engagementOnly(doc Document, now time.Time) (b Breakdown) {
	defer func() {
		if r := recover(); r != nil {
			b = Breakdown{}
		}
	}()

	e := EngagementScore(doc, now)
	return Breakdown{Engagement: e, Total: e}
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
