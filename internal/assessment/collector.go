// Package assessment implements the deterministic maturity pipeline:
// answer collection, category scoring, level derivation, recommendation
// selection and the radar geometry shared by both report views.
package assessment

import (
	"errors"
	"strconv"

	"maturity_backend/internal/catalog"
)

var (
	ErrUnknownQuestion = errors.New("unknown question")
	ErrInvalidOption   = errors.New("value is not an option of the question")
	ErrInvalidState    = errors.New("invalid collector state")
)

// State is the serializable form of a Collector.
type State struct {
	Cursor    int               `json:"cursor"`
	Answers   map[string]string `json:"answers"`
	Completed bool              `json:"completed"`
}

// Collector walks the flattened question list one question at a time.
// It is owned by a single session and is not safe for concurrent use.
type Collector struct {
	cat       *catalog.Catalog
	cursor    int
	answers   map[string]string
	completed bool
}

// NewCollector starts at the first question with no answers.
func NewCollector(cat *catalog.Catalog) *Collector {
	return &Collector{cat: cat, answers: make(map[string]string)}
}

// RestoreCollector rebuilds a collector from persisted state.
func RestoreCollector(cat *catalog.Catalog, st State) (*Collector, error) {
	if st.Cursor < 0 || st.Cursor >= cat.TotalQuestions() {
		return nil, ErrInvalidState
	}
	answers := make(map[string]string, len(st.Answers))
	for id, v := range st.Answers {
		if _, ok := cat.Question(id); !ok {
			return nil, ErrInvalidState
		}
		answers[id] = v
	}
	return &Collector{cat: cat, cursor: st.Cursor, answers: answers, completed: st.Completed}, nil
}

// State snapshots the collector.
func (c *Collector) State() State {
	return State{Cursor: c.cursor, Answers: c.Answers(), Completed: c.completed}
}

// RecordAnswer stores value for questionID, replacing any earlier answer.
func (c *Collector) RecordAnswer(questionID string, value int) error {
	q, ok := c.cat.Question(questionID)
	if !ok {
		return ErrUnknownQuestion
	}
	if !q.HasOption(value) {
		return ErrInvalidOption
	}
	c.answers[questionID] = strconv.Itoa(value)
	return nil
}

// Current returns the question under the cursor.
func (c *Collector) Current() catalog.QuestionRef {
	q, _ := c.cat.QuestionAt(c.cursor)
	return q
}

// Cursor is the zero-based position in the flattened question list.
func (c *Collector) Cursor() int { return c.cursor }

// CanAdvance reports whether the current question has been answered.
func (c *Collector) CanAdvance() bool {
	_, ok := c.answers[c.Current().ID]
	return ok
}

// Advance moves to the next question. At the last question it marks the
// collector completed and returns true instead of moving past the end.
func (c *Collector) Advance() (completed bool) {
	if c.cursor >= c.cat.TotalQuestions()-1 {
		c.completed = true
		return true
	}
	c.cursor++
	return false
}

// Retreat moves to the previous question; a no-op at the first one.
func (c *Collector) Retreat() {
	if c.cursor > 0 {
		c.cursor--
	}
}

// Progress is (cursor+1)/total, for display.
func (c *Collector) Progress() float64 {
	total := c.cat.TotalQuestions()
	if total == 0 {
		return 0
	}
	return float64(c.cursor+1) / float64(total)
}

// Completed reports whether Advance was called on the last question.
func (c *Collector) Completed() bool { return c.completed }

// Answers returns a copy of the answer set.
func (c *Collector) Answers() map[string]string {
	out := make(map[string]string, len(c.answers))
	for k, v := range c.answers {
		out[k] = v
	}
	return out
}
