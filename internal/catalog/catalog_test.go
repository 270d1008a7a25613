package catalog

import (
	"strings"
	"testing"
)

const levelsYAML = `
unclassified: {id: 0, name: Sem classificação, label: N/A}
celebration: {title: ok, suggestion: keep going}
fallbackSuggestion: continue
levels:
  - {id: 1, name: L1}
  - {id: 2, name: L2}
  - {id: 3, name: L3}
  - {id: 4, name: L4}
  - {id: 5, name: L5}
`

const fiveOptions = `
        options:
          - {value: 1, level: 1, text: a}
          - {value: 2, level: 2, text: b}
          - {value: 3, level: 3, text: c}
          - {value: 4, level: 4, text: d}
          - {value: 5, level: 5, text: e}`

func TestEmbeddedCatalogIsValid(t *testing.T) {
	c, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(c.Categories()) != 10 {
		t.Fatalf("expected 10 categories, got %d", len(c.Categories()))
	}
	if c.TotalQuestions() != 10 {
		t.Fatalf("expected 10 questions, got %d", c.TotalQuestions())
	}

	first, ok := c.QuestionAt(0)
	if !ok || first.ID != "estrutura-1" || first.CategoryID != "estrutura-organizacional" {
		t.Fatalf("unexpected first question %+v", first)
	}
	last, _ := c.QuestionAt(9)
	if last.ID != "innovation-1" {
		t.Fatalf("expected innovation-1 last, got %s", last.ID)
	}
}

func TestLevelFallsBackToUnclassified(t *testing.T) {
	c := MustLoad()

	if got := c.Level(3).Name; got != "Estruturação e Consistência" {
		t.Fatalf("expected level 3 profile, got %q", got)
	}
	zero := c.Level(0)
	if zero.ID != 0 || zero.Name != "Sem classificação" {
		t.Fatalf("expected unclassified profile for level 0, got %+v", zero)
	}
	if c.Level(9).Name != zero.Name {
		t.Fatalf("expected unclassified profile for level 9")
	}
}

func TestSuggestionClampsIndex(t *testing.T) {
	c := MustLoad()

	if got := c.Suggestion("uso-tecnologia", 0); got != "Implemente um CRM robusto" {
		t.Fatalf("unexpected suggestion %q", got)
	}
	if got := c.Suggestion("uso-tecnologia", 7); got != "Adote analytics avançados e IA" {
		t.Fatalf("expected clamp to last suggestion, got %q", got)
	}
	if got := c.Suggestion("unknown", 1); got != "Continue melhorando os processos existentes" {
		t.Fatalf("expected fallback suggestion, got %q", got)
	}
}

func TestParseRejectsMissingSuggestions(t *testing.T) {
	doc := levelsYAML + `
categories:
  - id: a
    name: A
    suggestions: [one, two]
    questions:
      - id: a-1
        text: q` + fiveOptions

	_, err := Parse([]byte(doc))
	if err == nil || !strings.Contains(err.Error(), "2 suggestions") {
		t.Fatalf("expected suggestion count error, got %v", err)
	}
}

func TestParseRejectsDuplicateOptionValues(t *testing.T) {
	doc := levelsYAML + `
categories:
  - id: a
    name: A
    suggestions: [one, two, three]
    questions:
      - id: a-1
        text: q
        options:
          - {value: 1, level: 1, text: a}
          - {value: 1, level: 2, text: b}
          - {value: 3, level: 3, text: c}
          - {value: 4, level: 4, text: d}
          - {value: 5, level: 5, text: e}`

	_, err := Parse([]byte(doc))
	if err == nil || !strings.Contains(err.Error(), "repeats option value 1") {
		t.Fatalf("expected duplicate option error, got %v", err)
	}
}

func TestParseRejectsMissingLevel(t *testing.T) {
	doc := strings.Replace(levelsYAML, "  - {id: 4, name: L4}\n", "", 1) + `
categories:
  - id: a
    name: A
    suggestions: [one, two, three]
    questions:
      - id: a-1
        text: q` + fiveOptions

	_, err := Parse([]byte(doc))
	if err == nil || !strings.Contains(err.Error(), "level 4 is not defined") {
		t.Fatalf("expected missing level error, got %v", err)
	}
}

func TestHasOption(t *testing.T) {
	q, _ := MustLoad().Question("tech-1")
	if !q.HasOption(5) || q.HasOption(6) {
		t.Fatalf("unexpected HasOption results for tech-1")
	}
}
