package poemquiz

import "fmt"

// NoAnswer marks a question that has not been answered yet.
const NoAnswer = -1

// Statistics summarizes a session's scoring state.
type Statistics struct {
	Total     int     `json:"total"`
	Answered  int     `json:"answered"`
	Correct   int     `json:"correct"`
	Incorrect int     `json:"incorrect"`
	Accuracy  float64 `json:"accuracy"` // percentage, unrounded
	Remaining int     `json:"remaining"`
}

// TypeCount tracks how one question type performed within a session.
type TypeCount struct {
	Asked    int `json:"asked"`
	Answered int `json:"answered"`
	Correct  int `json:"correct"`
}

// QuizSession holds the state of one quiz attempt: the generated questions,
// the poems already used, and the running score. A session has a single
// logical owner; callers that share one across goroutines must serialize
// access themselves.
type QuizSession struct {
	Mode          QuizMode       `json:"mode"`
	QuestionTypes []QuestionType `json:"question_types"`
	CurrentIndex  int            `json:"current_index"`
	Questions     []*Question    `json:"questions"`
	UsedPoemIDs   []int          `json:"used_poem_ids"`
	Score         int            `json:"score"`
	TotalAnswered int            `json:"total_answered"`
	CurrentAnswer int            `json:"current_answer"` // NoAnswer when unanswered
	IsAnswered    bool           `json:"is_answered"`
	MaxQuestions  int            `json:"max_questions"`

	byType map[QuestionType]*TypeCount
}

// AddQuestion appends a generated question, assigning its 1-based number.
func (s *QuizSession) AddQuestion(q *Question) {
	q.Number = len(s.Questions) + 1
	s.Questions = append(s.Questions, q)
	s.typeCount(q.Type).Asked++
}

func (s *QuizSession) typeCount(qt QuestionType) *TypeCount {
	if s.byType == nil {
		s.byType = make(map[QuestionType]*TypeCount)
	}
	tc, ok := s.byType[qt]
	if !ok {
		tc = &TypeCount{}
		s.byType[qt] = tc
	}
	return tc
}

// CurrentQuestion returns the question at the session cursor, or nil if no
// question has been generated for that position yet.
func (s *QuizSession) CurrentQuestion() *Question {
	if s.CurrentIndex >= 0 && s.CurrentIndex < len(s.Questions) {
		return s.Questions[s.CurrentIndex]
	}
	return nil
}

// SubmitAnswer records the player's choice for the current question and
// returns whether it was correct. A second submission for the same question
// is ignored and returns false without changing any state.
func (s *QuizSession) SubmitAnswer(selectedIndex int) bool {
	if s.IsAnswered {
		return false
	}

	q := s.CurrentQuestion()
	if q == nil {
		return false
	}

	s.CurrentAnswer = selectedIndex
	s.IsAnswered = true
	s.TotalAnswered++

	tc := s.typeCount(q.Type)
	tc.Answered++

	if q.Check(selectedIndex) {
		s.Score++
		tc.Correct++
		return true
	}
	return false
}

// Advance moves the cursor to the next generated question, clearing the
// per-question answer state. It returns false when there is no further
// question to advance to; this is bookkeeping over already-generated
// questions, distinct from the sequencer's exhaustion check.
func (s *QuizSession) Advance() bool {
	if s.CurrentIndex >= len(s.Questions)-1 {
		return false
	}
	s.CurrentIndex++
	s.CurrentAnswer = NoAnswer
	s.IsAnswered = false
	return true
}

// Completed reports whether the final question has been answered.
func (s *QuizSession) Completed() bool {
	return s.CurrentIndex >= s.MaxQuestions-1 && s.IsAnswered
}

// Progress renders the position indicator, e.g. "3/10".
func (s *QuizSession) Progress() string {
	return fmt.Sprintf("%d/%d", s.CurrentIndex+1, s.MaxQuestions)
}

// ScoreLine renders the running score, e.g. "スコア: 3/5 (60.0%)".
func (s *QuizSession) ScoreLine() string {
	if s.TotalAnswered == 0 {
		return "スコア: 0/0 (0%)"
	}
	accuracy := float64(s.Score) / float64(s.TotalAnswered) * 100
	return fmt.Sprintf("スコア: %d/%d (%.1f%%)", s.Score, s.TotalAnswered, accuracy)
}

// Statistics returns the session's aggregate results.
func (s *QuizSession) Statistics() Statistics {
	stats := Statistics{
		Total:     len(s.Questions),
		Answered:  s.TotalAnswered,
		Correct:   s.Score,
		Incorrect: s.TotalAnswered - s.Score,
		Remaining: s.MaxQuestions - s.TotalAnswered,
	}
	if s.TotalAnswered > 0 {
		stats.Accuracy = float64(s.Score) / float64(s.TotalAnswered) * 100
	}
	return stats
}

// TypeStatistics returns per-question-type counts for every type that has
// appeared in the session.
func (s *QuizSession) TypeStatistics() map[QuestionType]TypeCount {
	out := make(map[QuestionType]TypeCount, len(s.byType))
	for qt, tc := range s.byType {
		out[qt] = *tc
	}
	return out
}

// Reset clears all progress while keeping the session's configuration.
func (s *QuizSession) Reset() {
	s.CurrentIndex = 0
	s.Questions = nil
	s.UsedPoemIDs = nil
	s.Score = 0
	s.TotalAnswered = 0
	s.CurrentAnswer = NoAnswer
	s.IsAnswered = false
	s.byType = nil
}
