package assessment

import (
	"math"
	"strconv"
	"strings"

	"maturity_backend/internal/catalog"
)

// CategoryScore is the mean answer value of one category.
type CategoryScore struct {
	CategoryID string  `json:"categoryId"`
	Name       string  `json:"name"`
	Score      float64 `json:"score"`
}

// Scores is the scored tuple every downstream view consumes.
type Scores struct {
	PerCategory []CategoryScore `json:"perCategory"`
	Overall     float64         `json:"overall"`
	Level       int             `json:"level"`
}

// ComputeScores averages answers per category and derives the overall level.
//
// Unanswered or unparseable answers count as 0 in their category's mean.
// The quiz flow never lets a respondent skip a question, so this only
// matters for partial answer sets submitted directly to the API.
func ComputeScores(answers map[string]string, cat *catalog.Catalog) Scores {
	categories := cat.Categories()
	per := make([]CategoryScore, 0, len(categories))

	var sum float64
	for _, c := range categories {
		var total float64
		for _, q := range c.Questions {
			total += float64(answerValue(answers[q.ID]))
		}
		mean := 0.0
		if len(c.Questions) > 0 {
			mean = total / float64(len(c.Questions))
		}
		per = append(per, CategoryScore{CategoryID: c.ID, Name: c.Name, Score: mean})
		sum += mean
	}

	overall := 0.0
	if len(per) > 0 {
		overall = sum / float64(len(per))
	}

	return Scores{PerCategory: per, Overall: overall, Level: LevelFor(overall)}
}

// ScoresFromMap rebuilds catalog-ordered scores from a persisted result.
// Categories missing from m score 0.
func ScoresFromMap(m map[string]float64, overall float64, level int, cat *catalog.Catalog) Scores {
	categories := cat.Categories()
	per := make([]CategoryScore, 0, len(categories))
	for _, c := range categories {
		per = append(per, CategoryScore{CategoryID: c.ID, Name: c.Name, Score: m[c.ID]})
	}
	return Scores{PerCategory: per, Overall: overall, Level: level}
}

// LevelFor rounds half up: 4.5 is level 5, 0.5 is level 1, below 0.5 is level 0.
func LevelFor(overall float64) int {
	return int(math.Floor(overall + 0.5 + 1e-9))
}

// Map returns category id to score, the form persisted as JSON.
func (s Scores) Map() map[string]float64 {
	out := make(map[string]float64, len(s.PerCategory))
	for _, c := range s.PerCategory {
		out[c.CategoryID] = c.Score
	}
	return out
}

// Values returns the scores in catalog order.
func (s Scores) Values() []float64 {
	out := make([]float64, len(s.PerCategory))
	for i, c := range s.PerCategory {
		out[i] = c.Score
	}
	return out
}

// answerValue parses a string-encoded option value. Anything outside the
// option scale is treated like a missing answer.
func answerValue(raw string) int {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || v < catalog.MinValue || v > catalog.MaxValue {
		return 0
	}
	return v
}
