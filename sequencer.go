package poemquiz

import (
	"math/rand"
	"time"
)

// Sequencer drives poem selection across a quiz session and delegates
// question construction to a Factory. The factory shares the sequencer's
// random source, so a seeded sequencer produces a fully reproducible quiz.
type Sequencer struct {
	repo    PoemRepository
	factory *Factory
	rng     *rand.Rand
}

// NewSequencer creates a sequencer with a time-seeded random source.
func NewSequencer(repo PoemRepository) *Sequencer {
	return NewSeededSequencer(repo, time.Now().UnixNano())
}

// NewSeededSequencer creates a sequencer whose poem order, question type
// picks and option shuffles are deterministic for a given seed.
func NewSeededSequencer(repo PoemRepository, seed int64) *Sequencer {
	rng := rand.New(rand.NewSource(seed))
	return &Sequencer{
		repo:    repo,
		factory: &Factory{repo: repo, rng: rng},
		rng:     rng,
	}
}

// CreateSession builds an empty session from the given configuration. The
// effective question cap never exceeds the corpus size, and an empty type
// list falls back to the lower-verse pattern.
func (s *Sequencer) CreateSession(cfg QuizConfig) *QuizSession {
	max := cfg.MaxQuestions
	if n := s.repo.PoemCount(); max > n || max <= 0 {
		max = n
	}

	types := append([]QuestionType(nil), cfg.QuestionTypes...)
	if len(types) == 0 {
		types = []QuestionType{LowerMatch}
	}

	return &QuizSession{
		Mode:          cfg.Mode,
		QuestionTypes: types,
		MaxQuestions:  max,
		CurrentAnswer: NoAnswer,
	}
}

// GenerateNext selects the session's next poem, builds a question for a
// randomly chosen allowed type, and appends both to the session. It returns
// nil (with no error) when the session is exhausted: either every poem has
// been used or the question cap is reached. Each call advances the session
// monotonically; questions are never regenerated.
func (s *Sequencer) GenerateNext(session *QuizSession) (*Question, error) {
	if len(session.Questions) >= session.MaxQuestions {
		return nil, nil
	}

	poem, ok := s.nextPoem(session)
	if !ok {
		return nil, nil
	}

	qt := session.QuestionTypes[s.rng.Intn(len(session.QuestionTypes))]

	question, err := s.factory.Build(poem, qt)
	if err != nil {
		return nil, err
	}

	session.UsedPoemIDs = append(session.UsedPoemIDs, poem.ID)
	session.AddQuestion(question)
	return question, nil
}

// nextPoem picks the next unused poem under the session's ordering mode.
func (s *Sequencer) nextPoem(session *QuizSession) (Poem, bool) {
	switch session.Mode {
	case ModeRandom:
		used := make(map[int]bool, len(session.UsedPoemIDs))
		for _, id := range session.UsedPoemIDs {
			used[id] = true
		}

		var available []int
		for _, p := range s.repo.Poems() {
			if !used[p.ID] {
				available = append(available, p.ID)
			}
		}
		if len(available) == 0 {
			return Poem{}, false
		}
		return s.repo.PoemByID(available[s.rng.Intn(len(available))])

	default: // sequential
		nextID := len(session.UsedPoemIDs) + 1
		if nextID > s.repo.PoemCount() {
			return Poem{}, false
		}
		return s.repo.PoemByID(nextID)
	}
}
