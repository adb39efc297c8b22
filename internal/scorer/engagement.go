package scorer

import (
	"math"
	"time"
)

const (
	publishedBonus = 0.2
	likeBonus      = 0.01
	maxLikesBonus  = 0.3
)

// EngagementScore rates a blog on recency, publication status and likes,
// independent of its content. The result is in [0, 1].
func EngagementScore(doc Document, now time.Time) float64 {
	score := recencyBonus(doc.CreatedAt, now)

	if doc.Published {
		score += publishedBonus
	}

	if doc.LikesCount > 0 {
		score += math.Min(float64(doc.LikesCount)*likeBonus, maxLikesBonus)
	}

	return math.Min(score, 1.0)
}

func recencyBonus(createdAt, now time.Time) float64 {
	if createdAt.IsZero() {
		createdAt = now
	}

	// whole days, rounded down; posts dated in the future count as new
	days := int(math.Floor(now.Sub(createdAt).Hours() / 24))
	switch {
	case days < 1:
		return 0.3
	case days < 7:
		return 0.2
	case days < 30:
		return 0.1
	}
	return 0
}
