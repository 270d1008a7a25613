package assessment

import "maturity_backend/internal/catalog"

// Result bundles the scored tuple with its derived profile and
// recommendations. Both report renderers consume a Result and never rescore.
type Result struct {
	Scores          Scores               `json:"scores"`
	Profile         catalog.LevelProfile `json:"profile"`
	Recommendations []Recommendation     `json:"recommendations"`
}

// Evaluate scores an answer set and derives everything shown to the respondent.
func Evaluate(answers map[string]string, cat *catalog.Catalog) Result {
	return FromScores(ComputeScores(answers, cat), cat)
}

// FromScores derives the profile and recommendations for precomputed scores.
func FromScores(scores Scores, cat *catalog.Catalog) Result {
	return Result{
		Scores:          scores,
		Profile:         cat.Level(scores.Level),
		Recommendations: SelectRecommendations(scores, cat),
	}
}
