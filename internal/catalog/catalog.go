// Package catalog holds the immutable question catalog: categories, their
// questions and answer options, maturity level profiles and the canned
// improvement suggestions. It is built once at start-up and shared by reference.
package catalog

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

const (
	// MinValue and MaxValue bound every option value and category score.
	MinValue = 1
	MaxValue = 5
	// SuggestionsPerCategory is the fixed size of each category's suggestion table.
	SuggestionsPerCategory = 3
)

//go:embed catalog.yaml
var defaultDocument []byte

// Option is one selectable answer. Value is the submitted token.
type Option struct {
	Value int    `yaml:"value" json:"value"`
	Text  string `yaml:"text" json:"text"`
	Level int    `yaml:"level" json:"level"`
}

// Question is a single multiple-choice prompt.
type Question struct {
	ID      string   `yaml:"id" json:"id"`
	Text    string   `yaml:"text" json:"text"`
	Options []Option `yaml:"options" json:"options"`
}

// Category is one assessment dimension.
type Category struct {
	ID          string     `yaml:"id" json:"id"`
	Name        string     `yaml:"name" json:"name"`
	Description string     `yaml:"description" json:"description"`
	Questions   []Question `yaml:"questions" json:"questions"`
	Suggestions []string   `yaml:"suggestions" json:"-"`
}

// LevelProfile describes a maturity level.
type LevelProfile struct {
	ID              int      `yaml:"id" json:"id"`
	Name            string   `yaml:"name" json:"name"`
	Label           string   `yaml:"label" json:"label"`
	Description     string   `yaml:"description" json:"description"`
	Characteristics []string `yaml:"characteristics" json:"characteristics"`
	SalesEfficiency float64  `yaml:"salesEfficiency" json:"salesEfficiency"`
	RevenueIncrease string   `yaml:"revenueIncrease" json:"revenueIncrease"`
	FollowUps       []string `yaml:"followUps" json:"-"`
}

// Celebration is the single recommendation shown at the top level.
type Celebration struct {
	Title      string `yaml:"title" json:"title"`
	Suggestion string `yaml:"suggestion" json:"suggestion"`
}

// QuestionRef is a question in flattened catalog order with its owning category.
type QuestionRef struct {
	Question
	Index        int    `json:"index"`
	CategoryID   string `json:"categoryId"`
	CategoryName string `json:"categoryName"`
}

type document struct {
	Unclassified       LevelProfile   `yaml:"unclassified"`
	Levels             []LevelProfile `yaml:"levels"`
	Celebration        Celebration    `yaml:"celebration"`
	FallbackSuggestion string         `yaml:"fallbackSuggestion"`
	Categories         []Category     `yaml:"categories"`
}

// Catalog is read-only after construction.
type Catalog struct {
	categories   []Category
	categoryIdx  map[string]int
	questions    []QuestionRef
	questionIdx  map[string]int
	levels       map[int]LevelProfile
	unclassified LevelProfile
	celebration  Celebration
	fallback     string
}

// Load parses and validates the embedded catalog.
func Load() (*Catalog, error) {
	return Parse(defaultDocument)
}

// MustLoad is Load for tests and start-up code that cannot continue without a catalog.
func MustLoad() *Catalog {
	c, err := Load()
	if err != nil {
		panic(err)
	}
	return c
}

// Parse decodes a YAML catalog document and validates every lookup table.
func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if err := validate(doc); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}
	return build(doc), nil
}

func build(doc document) *Catalog {
	c := &Catalog{
		categories:   doc.Categories,
		categoryIdx:  make(map[string]int, len(doc.Categories)),
		questionIdx:  make(map[string]int),
		levels:       make(map[int]LevelProfile, len(doc.Levels)),
		unclassified: doc.Unclassified,
		celebration:  doc.Celebration,
		fallback:     doc.FallbackSuggestion,
	}

	for i, cat := range doc.Categories {
		c.categoryIdx[cat.ID] = i
		for _, q := range cat.Questions {
			c.questionIdx[q.ID] = len(c.questions)
			c.questions = append(c.questions, QuestionRef{
				Question:     q,
				Index:        len(c.questions),
				CategoryID:   cat.ID,
				CategoryName: cat.Name,
			})
		}
	}
	for _, lvl := range doc.Levels {
		c.levels[lvl.ID] = lvl
	}
	return c
}

// Categories returns the categories in catalog order.
func (c *Catalog) Categories() []Category {
	return append([]Category(nil), c.categories...)
}

// Category looks up a category by id.
func (c *Catalog) Category(id string) (Category, bool) {
	i, ok := c.categoryIdx[id]
	if !ok {
		return Category{}, false
	}
	return c.categories[i], true
}

// Questions returns every question flattened in catalog order.
func (c *Catalog) Questions() []QuestionRef {
	return append([]QuestionRef(nil), c.questions...)
}

// QuestionAt returns the question at a flattened position.
func (c *Catalog) QuestionAt(index int) (QuestionRef, bool) {
	if index < 0 || index >= len(c.questions) {
		return QuestionRef{}, false
	}
	return c.questions[index], true
}

// Question looks up a question by id.
func (c *Catalog) Question(id string) (QuestionRef, bool) {
	i, ok := c.questionIdx[id]
	if !ok {
		return QuestionRef{}, false
	}
	return c.questions[i], true
}

// TotalQuestions is the length of the flattened question sequence.
func (c *Catalog) TotalQuestions() int {
	return len(c.questions)
}

// Level returns the profile for id. Ids outside 1..5, including the
// level 0 produced by an empty answer set, map to the unclassified profile.
func (c *Catalog) Level(id int) LevelProfile {
	if lvl, ok := c.levels[id]; ok {
		return lvl
	}
	return c.unclassified
}

// Levels returns the defined profiles ordered by id.
func (c *Catalog) Levels() []LevelProfile {
	out := make([]LevelProfile, 0, len(c.levels))
	for id := MinValue; id <= MaxValue; id++ {
		out = append(out, c.levels[id])
	}
	return out
}

// Suggestion returns the canned suggestion for a category at index,
// clamped to the table bounds.
func (c *Catalog) Suggestion(categoryID string, index int) string {
	cat, ok := c.Category(categoryID)
	if !ok || len(cat.Suggestions) == 0 {
		return c.fallback
	}
	if index < 0 {
		index = 0
	}
	if index > len(cat.Suggestions)-1 {
		index = len(cat.Suggestions) - 1
	}
	return cat.Suggestions[index]
}

// Celebration returns the top-level congratulation entry.
func (c *Catalog) Celebration() Celebration {
	return c.celebration
}
