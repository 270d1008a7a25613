package assessment

import (
	"fmt"
	"math"
	"strings"
	"testing"

	"maturity_backend/internal/catalog"
)

// testCatalog builds a catalog whose categories are named by ids, each
// holding questionsPer questions named "<id>-<n>".
func testCatalog(t *testing.T, questionsPer int, ids ...string) *catalog.Catalog {
	t.Helper()

	var b strings.Builder
	b.WriteString(`unclassified: {id: 0, name: Sem classificação, label: N/A}
celebration: {title: Excelência, suggestion: keep going}
fallbackSuggestion: continue
levels:
  - {id: 1, name: L1, followUps: [call]}
  - {id: 2, name: L2}
  - {id: 3, name: L3}
  - {id: 4, name: L4}
  - {id: 5, name: L5}
categories:
`)
	for _, id := range ids {
		fmt.Fprintf(&b, "  - id: %s\n    name: %s\n    suggestions: [%s-0, %s-1, %s-2]\n    questions:\n", id, strings.ToUpper(id), id, id, id)
		for n := 1; n <= questionsPer; n++ {
			fmt.Fprintf(&b, "      - id: %s-%d\n        text: q\n        options:\n", id, n)
			for v := 1; v <= 5; v++ {
				fmt.Fprintf(&b, "          - {value: %d, level: %d, text: o%d}\n", v, v, v)
			}
		}
	}

	c, err := catalog.Parse([]byte(b.String()))
	if err != nil {
		t.Fatalf("build test catalog: %v", err)
	}
	return c
}

func scoresOf(level int, pairs ...any) Scores {
	s := Scores{Level: level}
	for i := 0; i < len(pairs); i += 2 {
		id := pairs[i].(string)
		s.PerCategory = append(s.PerCategory, CategoryScore{CategoryID: id, Name: strings.ToUpper(id), Score: pairs[i+1].(float64)})
	}
	return s
}

func TestUnansweredQuestionContributesZero(t *testing.T) {
	cat := testCatalog(t, 2, "a")

	scores := ComputeScores(map[string]string{"a-1": "3"}, cat)

	if got := scores.PerCategory[0].Score; got != 1.5 {
		t.Fatalf("expected 1.5, got %v", got)
	}
}

func TestOverallIsUnweightedMeanOfCategories(t *testing.T) {
	cat := testCatalog(t, 3, "a", "b")
	answers := map[string]string{
		"a-1": "5", "a-2": "5", "a-3": "2",
		"b-1": "1", "b-2": "x", "b-3": "9",
	}

	scores := ComputeScores(answers, cat)

	var sum float64
	for _, c := range scores.PerCategory {
		if c.Score < 0 || c.Score > 5 {
			t.Fatalf("category %s out of range: %v", c.CategoryID, c.Score)
		}
		sum += c.Score
	}
	if math.Abs(scores.Overall-sum/2) > 1e-12 {
		t.Fatalf("expected overall %v, got %v", sum/2, scores.Overall)
	}
	if scores.PerCategory[1].Score != 1.0/3 {
		t.Fatalf("expected invalid answers to count as 0, got %v", scores.PerCategory[1].Score)
	}
}

func TestLevelRoundsHalfUp(t *testing.T) {
	cases := map[float64]int{0: 0, 0.49: 0, 0.5: 1, 2.5: 3, 4.49: 4, 4.5: 5, 5: 5}
	for overall, want := range cases {
		if got := LevelFor(overall); got != want {
			t.Fatalf("LevelFor(%v): expected %d, got %d", overall, want, got)
		}
	}
}

func TestEmptyAnswersYieldLevelZeroAndUnclassifiedProfile(t *testing.T) {
	cat := catalog.MustLoad()

	result := Evaluate(map[string]string{}, cat)

	if result.Scores.Level != 0 || result.Scores.Overall != 0 {
		t.Fatalf("expected zero scores, got %+v", result.Scores)
	}
	if result.Profile.ID != 0 || result.Profile.Name != "Sem classificação" {
		t.Fatalf("expected unclassified profile, got %+v", result.Profile)
	}
}

func TestRecommendationsAscendingWithStableTies(t *testing.T) {
	cat := testCatalog(t, 1, "a", "b", "c", "d")

	recs := SelectRecommendations(scoresOf(3, "a", 2.0, "b", 2.0, "c", 3.0, "d", 5.0), cat)

	if len(recs) != 3 {
		t.Fatalf("expected 3 recommendations, got %d", len(recs))
	}
	want := []string{"a", "b", "c"}
	for i, r := range recs {
		if r.CategoryID != want[i] {
			t.Fatalf("position %d: expected %s, got %s", i, want[i], r.CategoryID)
		}
	}
	if recs[0].Suggestion != "a-2" {
		t.Fatalf("expected suggestion index floor(2)=2, got %q", recs[0].Suggestion)
	}
	if recs[2].Suggestion != "c-2" {
		t.Fatalf("expected clamped suggestion for score 3, got %q", recs[2].Suggestion)
	}
}

func TestRecommendationsDropStrongCategories(t *testing.T) {
	cat := testCatalog(t, 1, "a", "b", "c", "d")

	recs := SelectRecommendations(scoresOf(4, "a", 1.0, "b", 4.0, "c", 4.5, "d", 5.0), cat)

	if len(recs) != 1 || recs[0].CategoryID != "a" {
		t.Fatalf("expected only a, got %+v", recs)
	}
	if recs[0].Suggestion != "a-1" {
		t.Fatalf("expected suggestion index 1, got %q", recs[0].Suggestion)
	}
}

func TestTopLevelReturnsSingleCelebratoryEntry(t *testing.T) {
	cat := catalog.MustLoad()
	answers := make(map[string]string)
	for i, q := range cat.Questions() {
		answers[q.ID] = "5"
		if i == 3 {
			answers[q.ID] = "3"
		}
	}

	result := Evaluate(answers, cat)

	if result.Scores.Level != 5 {
		t.Fatalf("expected level 5, got %d (overall %v)", result.Scores.Level, result.Scores.Overall)
	}
	if len(result.Recommendations) != 1 || !result.Recommendations[0].Celebratory {
		t.Fatalf("expected single celebratory entry, got %+v", result.Recommendations)
	}
}

func TestFollowUpsByLevel(t *testing.T) {
	cat := catalog.MustLoad()

	if got := FollowUps(1, cat); len(got) != 4 || got[0] != "Agendar reunião executiva para apresentar roadmap de transformação" {
		t.Fatalf("unexpected level 1 follow-ups %v", got)
	}
	if got := FollowUps(0, cat); len(got) != 0 {
		t.Fatalf("expected no follow-ups for unclassified, got %v", got)
	}
}

func TestRadarAxisAngles(t *testing.T) {
	if got := RadarAxisAngle(2, 4); got != 90 {
		t.Fatalf("expected 90 degrees, got %v", got)
	}
	if got := RadarAxisAngle(0, 10); got != -90 {
		t.Fatalf("expected -90 degrees, got %v", got)
	}

	below := RadarPoint(100, 100, 50, 2, 4, 5)
	if math.Abs(below.X-100) > 1e-9 || math.Abs(below.Y-150) > 1e-9 {
		t.Fatalf("expected point directly below center, got %+v", below)
	}
	top := RadarPoint(100, 100, 50, 0, 4, 2.5)
	if math.Abs(top.X-100) > 1e-9 || math.Abs(top.Y-75) > 1e-9 {
		t.Fatalf("expected half-radius point above center, got %+v", top)
	}
}

func TestRadarPolygonFollowsInputOrder(t *testing.T) {
	poly := RadarPolygon(0, 0, 10, []float64{5, 5, 5, 5})
	if len(poly) != 4 {
		t.Fatalf("expected 4 vertices, got %d", len(poly))
	}
	if math.Abs(poly[1].X-10) > 1e-9 || math.Abs(poly[1].Y) > 1e-9 {
		t.Fatalf("expected second vertex to the right, got %+v", poly[1])
	}
}

func TestCollectorNavigation(t *testing.T) {
	cat := testCatalog(t, 1, "a", "b", "c")
	c := NewCollector(cat)

	c.Retreat()
	if c.Cursor() != 0 {
		t.Fatalf("expected retreat at 0 to be a no-op")
	}
	if c.CanAdvance() {
		t.Fatalf("expected unanswered question to block advance")
	}
	if err := c.RecordAnswer("a-1", 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := c.RecordAnswer("a-1", 4); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Answers()["a-1"] != "4" {
		t.Fatalf("expected overwrite to 4, got %q", c.Answers()["a-1"])
	}
	if math.Abs(c.Progress()-1.0/3) > 1e-12 {
		t.Fatalf("expected progress 1/3, got %v", c.Progress())
	}

	if c.Advance() || c.Advance() {
		t.Fatalf("expected no completion before last question")
	}
	if c.Cursor() != 2 || c.Progress() != 1 {
		t.Fatalf("expected cursor 2 and full progress, got %d %v", c.Cursor(), c.Progress())
	}
	if !c.Advance() || !c.Completed() {
		t.Fatalf("expected completion at last question")
	}
	if c.Cursor() != 2 {
		t.Fatalf("expected cursor to stay at last question, got %d", c.Cursor())
	}
}

func TestCollectorRejectsUnknownInput(t *testing.T) {
	c := NewCollector(testCatalog(t, 1, "a"))

	if err := c.RecordAnswer("zzz", 1); err != ErrUnknownQuestion {
		t.Fatalf("expected ErrUnknownQuestion, got %v", err)
	}
	if err := c.RecordAnswer("a-1", 6); err != ErrInvalidOption {
		t.Fatalf("expected ErrInvalidOption, got %v", err)
	}
}

func TestCollectorStateRoundTrip(t *testing.T) {
	cat := testCatalog(t, 1, "a", "b")
	c := NewCollector(cat)
	_ = c.RecordAnswer("a-1", 3)
	c.Advance()

	restored, err := RestoreCollector(cat, c.State())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if restored.Cursor() != 1 || restored.Answers()["a-1"] != "3" {
		t.Fatalf("unexpected restored state %+v", restored.State())
	}

	if _, err := RestoreCollector(cat, State{Cursor: 5}); err != ErrInvalidState {
		t.Fatalf("expected ErrInvalidState for cursor out of range, got %v", err)
	}
}
