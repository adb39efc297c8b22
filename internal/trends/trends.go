// Package trends finds the tags that are gaining blogs.
package trends

import (
	"sort"
	"time"
)

type Trend struct {
	Tag         string  `json:"tag"`
	Count       int     `json:"count"`
	Score       float64 `json:"score"`
	RecentBlogs []int64 `json:"recent_blogs"`
}

type Analyzer struct {
	entries []entry
}

type entry struct {
	blogID    int64
	tags      []string
	createdAt time.Time
}

func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

func (a *Analyzer) Add(blogID int64, tags []string, createdAt time.Time) {
	a.entries = append(a.entries, entry{blogID: blogID, tags: tags, createdAt: createdAt})
}

// Top returns at most limit tags ordered by trend score. Blogs created in the
// last days count three times (once overall, twice as recent), and tags whose
// latest blog is fresher get up to a 2x boost.
func (a *Analyzer) Top(now time.Time, days, limit int) []Trend {
	if days < 1 {
		days = 1
	}
	cutoff := now.AddDate(0, 0, -days)

	counts := make(map[string]int)
	recent := make(map[string][]int64)
	latest := make(map[string]time.Time)

	for _, e := range a.entries {
		for _, tag := range e.tags {
			counts[tag]++
			if e.createdAt.After(cutoff) {
				recent[tag] = append(recent[tag], e.blogID)
			}
			if last, ok := latest[tag]; !ok || e.createdAt.After(last) {
				latest[tag] = e.createdAt
			}
		}
	}

	trends := make([]Trend, 0, len(counts))
	for tag, count := range counts {
		boost := 1.0
		daysSince := now.Sub(latest[tag]).Hours() / 24
		if daysSince < float64(days) {
			boost = 1.0 + (float64(days)-max(daysSince, 0))/float64(days)
		}

		trends = append(trends, Trend{
			Tag:         tag,
			Count:       count,
			Score:       (float64(len(recent[tag]))*2 + float64(count)) * boost,
			RecentBlogs: recent[tag],
		})
	}

	sort.Slice(trends, func(i, j int) bool {
		if trends[i].Score != trends[j].Score {
			return trends[i].Score > trends[j].Score
		}
		return trends[i].Tag < trends[j].Tag
	})

	if limit > 0 && len(trends) > limit {
		trends = trends[:limit]
	}
	return trends
}
