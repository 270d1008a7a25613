package assessment

import (
	"math"
	"sort"

	"maturity_backend/internal/catalog"
)

const (
	// MaxRecommendations is how many of the weakest categories are considered.
	MaxRecommendations = 3
	// StrongScore and above needs no recommendation.
	StrongScore = 4.0
)

// Recommendation is one improvement suggestion.
type Recommendation struct {
	CategoryID  string  `json:"categoryId,omitempty"`
	Category    string  `json:"category"`
	Score       float64 `json:"score"`
	Suggestion  string  `json:"suggestion"`
	Celebratory bool    `json:"celebratory,omitempty"`
}

// SelectRecommendations picks suggestions for the weakest categories.
//
// At the top level a single celebratory entry is returned whatever the
// category scores are. Otherwise the three lowest categories are taken
// (ties keep catalog order), those scoring 4 or more are dropped, and each
// maps to suggestion floor(score) of its category table.
func SelectRecommendations(scores Scores, cat *catalog.Catalog) []Recommendation {
	if scores.Level >= catalog.MaxValue {
		cel := cat.Celebration()
		return []Recommendation{{
			Category:    cel.Title,
			Score:       scores.Overall,
			Suggestion:  cel.Suggestion,
			Celebratory: true,
		}}
	}

	ranked := append([]CategoryScore(nil), scores.PerCategory...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score < ranked[j].Score
	})
	if len(ranked) > MaxRecommendations {
		ranked = ranked[:MaxRecommendations]
	}

	out := make([]Recommendation, 0, len(ranked))
	for _, c := range ranked {
		if c.Score >= StrongScore {
			continue
		}
		out = append(out, Recommendation{
			CategoryID: c.CategoryID,
			Category:   c.Name,
			Score:      c.Score,
			Suggestion: cat.Suggestion(c.CategoryID, int(math.Floor(c.Score))),
		})
	}
	return out
}

// FollowUps lists the sales actions suggested for a lead at level.
func FollowUps(level int, cat *catalog.Catalog) []string {
	return append([]string(nil), cat.Level(level).FollowUps...)
}
