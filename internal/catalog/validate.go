package catalog

import (
	"errors"
	"fmt"
	"strings"
)

func validate(doc document) error {
	var errs []error

	if len(doc.Categories) == 0 {
		errs = append(errs, errors.New("no categories defined"))
	}
	if strings.TrimSpace(doc.FallbackSuggestion) == "" {
		errs = append(errs, errors.New("fallbackSuggestion is empty"))
	}
	if strings.TrimSpace(doc.Celebration.Suggestion) == "" {
		errs = append(errs, errors.New("celebration.suggestion is empty"))
	}
	if doc.Unclassified.ID >= MinValue && doc.Unclassified.ID <= MaxValue {
		errs = append(errs, fmt.Errorf("unclassified profile uses defined level id %d", doc.Unclassified.ID))
	}

	errs = append(errs, validateLevels(doc.Levels)...)

	seenCategories := make(map[string]bool)
	seenQuestions := make(map[string]bool)
	for _, cat := range doc.Categories {
		if cat.ID == "" {
			errs = append(errs, errors.New("category with empty id"))
			continue
		}
		if seenCategories[cat.ID] {
			errs = append(errs, fmt.Errorf("duplicate category %q", cat.ID))
		}
		seenCategories[cat.ID] = true

		if len(cat.Questions) == 0 {
			errs = append(errs, fmt.Errorf("category %q has no questions", cat.ID))
		}
		if len(cat.Suggestions) != SuggestionsPerCategory {
			errs = append(errs, fmt.Errorf("category %q has %d suggestions, want %d", cat.ID, len(cat.Suggestions), SuggestionsPerCategory))
		}

		for _, q := range cat.Questions {
			if q.ID == "" {
				errs = append(errs, fmt.Errorf("category %q has a question with empty id", cat.ID))
				continue
			}
			if seenQuestions[q.ID] {
				errs = append(errs, fmt.Errorf("duplicate question %q", q.ID))
			}
			seenQuestions[q.ID] = true
			if err := validateOptions(q); err != nil {
				errs = append(errs, err)
			}
		}
	}

	return errors.Join(errs...)
}

func validateLevels(levels []LevelProfile) []error {
	var errs []error
	seen := make(map[int]bool)
	for _, lvl := range levels {
		if lvl.ID < MinValue || lvl.ID > MaxValue {
			errs = append(errs, fmt.Errorf("level id %d outside %d..%d", lvl.ID, MinValue, MaxValue))
			continue
		}
		if seen[lvl.ID] {
			errs = append(errs, fmt.Errorf("duplicate level %d", lvl.ID))
		}
		seen[lvl.ID] = true
	}
	for id := MinValue; id <= MaxValue; id++ {
		if !seen[id] {
			errs = append(errs, fmt.Errorf("level %d is not defined", id))
		}
	}
	return errs
}

// validateOptions requires option values to be unique and to cover the scale exactly.
func validateOptions(q Question) error {
	want := MaxValue - MinValue + 1
	if len(q.Options) != want {
		return fmt.Errorf("question %q has %d options, want %d", q.ID, len(q.Options), want)
	}
	seen := make(map[int]bool, want)
	for _, opt := range q.Options {
		if opt.Value < MinValue || opt.Value > MaxValue {
			return fmt.Errorf("question %q option value %d outside %d..%d", q.ID, opt.Value, MinValue, MaxValue)
		}
		if opt.Level < MinValue || opt.Level > MaxValue {
			return fmt.Errorf("question %q option level %d outside %d..%d", q.ID, opt.Level, MinValue, MaxValue)
		}
		if seen[opt.Value] {
			return fmt.Errorf("question %q repeats option value %d", q.ID, opt.Value)
		}
		seen[opt.Value] = true
	}
	return nil
}

// HasOption reports whether value is one of the question's option values.
func (q Question) HasOption(value int) bool {
	for _, opt := range q.Options {
		if opt.Value == value {
			return true
		}
	}
	return false
}
