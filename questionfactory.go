package poemquiz

import (
	"errors"
	"fmt"
	"log"
	"math/rand"
	"time"
)

// ErrInvalidQuestionType is returned when a question type outside the four
// known patterns is requested.
var ErrInvalidQuestionType = errors.New("invalid question type")

// Factory builds multiple choice questions from poem records, drawing
// distractors from a poem repository.
type Factory struct {
	repo PoemRepository
	rng  *rand.Rand
}

// NewFactory creates a question factory with a time-seeded random source.
func NewFactory(repo PoemRepository) *Factory {
	return NewSeededFactory(repo, time.Now().UnixNano())
}

// NewSeededFactory creates a question factory with a fixed seed, making its
// shuffles and distractor picks deterministic.
func NewSeededFactory(repo PoemRepository, seed int64) *Factory {
	return &Factory{
		repo: repo,
		rng:  rand.New(rand.NewSource(seed)),
	}
}

// Build generates one question for the given poem and question type. The
// four options always contain the correct answer exactly once, at a
// uniformly random position.
func (f *Factory) Build(poem Poem, qt QuestionType) (*Question, error) {
	pattern, ok := questionPatterns[qt]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidQuestionType, qt)
	}

	correct := poem.field(pattern.CorrectField)
	options := append([]string{correct}, f.selectDistractors(poem, pattern.CorrectField, 3)...)

	f.rng.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})

	correctIndex := 0
	for i, opt := range options {
		if opt == correct {
			correctIndex = i
			break
		}
	}

	return &Question{
		PoemID:        poem.ID,
		Type:          qt,
		Text:          renderTemplate(pattern.Template, poem),
		Options:       options,
		CorrectAnswer: correctIndex,
		Poem:          poem,
	}, nil
}

// selectDistractors collects count distinct field values from poems other
// than the correct one, none equal to the correct answer. When the corpus
// cannot supply enough distinct values, repeats of the correct value are
// admitted so the option list stays full; that undersupply is a data quality
// problem and is logged as such.
func (f *Factory) selectDistractors(correctPoem Poem, field string, count int) []string {
	correct := correctPoem.field(field)

	candidates := make([]Poem, 0, f.repo.PoemCount())
	for _, p := range f.repo.Poems() {
		if p.ID != correctPoem.ID {
			candidates = append(candidates, p)
		}
	}
	f.rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})

	seen := make(map[string]bool, count)
	distractors := make([]string, 0, count)
	for _, p := range candidates {
		value := p.field(field)
		if value == correct || seen[value] {
			continue
		}
		seen[value] = true
		distractors = append(distractors, value)
		if len(distractors) == count {
			return distractors
		}
	}

	if len(candidates) == 0 {
		return distractors
	}

	log.Printf("warning: distractor pool undersupplied for poem %d field %s; allowing duplicate values", correctPoem.ID, field)
	for len(distractors) < count {
		for _, p := range candidates {
			if len(distractors) == count {
				break
			}
			distractors = append(distractors, p.field(field))
		}
	}
	return distractors
}
