package poemquiz

import (
	"math"
	"strings"
	"testing"
)

func testSession(t *testing.T, max int) (*Sequencer, *QuizSession) {
	t.Helper()
	store := testStore(t, 100)
	seq := NewSeededSequencer(store, 42)
	sess := seq.CreateSession(QuizConfig{
		Mode:          ModeSequential,
		QuestionTypes: []QuestionType{LowerMatch},
		MaxQuestions:  max,
	})
	return seq, sess
}

func mustGenerate(t *testing.T, seq *Sequencer, sess *QuizSession) *Question {
	t.Helper()
	q, err := seq.GenerateNext(sess)
	if err != nil {
		t.Fatalf("GenerateNext: %v", err)
	}
	if q == nil {
		t.Fatal("GenerateNext: unexpected exhaustion")
	}
	return q
}

func TestSubmitAnswer(t *testing.T) {
	seq, sess := testSession(t, 5)
	q := mustGenerate(t, seq, sess)

	wrong := (q.CorrectAnswer + 1) % 4
	if sess.SubmitAnswer(wrong) {
		t.Error("wrong answer reported as correct")
	}
	if sess.Score != 0 || sess.TotalAnswered != 1 {
		t.Errorf("score=%d answered=%d, want 0 and 1", sess.Score, sess.TotalAnswered)
	}
	if !sess.IsAnswered || sess.CurrentAnswer != wrong {
		t.Error("answer state not recorded")
	}
}

func TestSubmitAnswerCorrect(t *testing.T) {
	seq, sess := testSession(t, 5)
	q := mustGenerate(t, seq, sess)

	if !sess.SubmitAnswer(q.CorrectAnswer) {
		t.Error("correct answer reported as wrong")
	}
	if sess.Score != 1 || sess.TotalAnswered != 1 {
		t.Errorf("score=%d answered=%d, want 1 and 1", sess.Score, sess.TotalAnswered)
	}
}

func TestDoubleSubmitIsIgnored(t *testing.T) {
	seq, sess := testSession(t, 5)
	q := mustGenerate(t, seq, sess)

	sess.SubmitAnswer(q.CorrectAnswer)
	score, answered, answer := sess.Score, sess.TotalAnswered, sess.CurrentAnswer

	if sess.SubmitAnswer((q.CorrectAnswer + 1) % 4) {
		t.Error("second submission reported as correct")
	}
	if sess.Score != score || sess.TotalAnswered != answered || sess.CurrentAnswer != answer {
		t.Error("second submission changed session state")
	}
}

func TestSubmitAnswerWithoutQuestion(t *testing.T) {
	_, sess := testSession(t, 5)

	if sess.SubmitAnswer(0) {
		t.Error("submission with no question reported as correct")
	}
	if sess.TotalAnswered != 0 || sess.IsAnswered {
		t.Error("submission with no question changed state")
	}
}

func TestAdvance(t *testing.T) {
	seq, sess := testSession(t, 3)

	q1 := mustGenerate(t, seq, sess)
	sess.SubmitAnswer(q1.CorrectAnswer)

	if sess.Advance() {
		t.Error("advanced past the only generated question")
	}

	mustGenerate(t, seq, sess)
	if !sess.Advance() {
		t.Error("could not advance to the next generated question")
	}
	if sess.IsAnswered || sess.CurrentAnswer != NoAnswer {
		t.Error("advance did not reset the answer state")
	}
	if sess.CurrentIndex != 1 {
		t.Errorf("CurrentIndex = %d, want 1", sess.CurrentIndex)
	}
}

func TestStatisticsEmpty(t *testing.T) {
	_, sess := testSession(t, 10)

	stats := sess.Statistics()
	if stats.Accuracy != 0 {
		t.Errorf("accuracy = %v, want 0 with nothing answered", stats.Accuracy)
	}
	if stats.Remaining != 10 {
		t.Errorf("remaining = %d, want 10", stats.Remaining)
	}
	if sess.ScoreLine() != "スコア: 0/0 (0%)" {
		t.Errorf("ScoreLine = %q", sess.ScoreLine())
	}
}

func TestEndToEndSequentialQuiz(t *testing.T) {
	seq, sess := testSession(t, 5)

	// Answer questions 1, 3 and 5 correctly, 2 and 4 incorrectly.
	for i := 1; i <= 5; i++ {
		q := mustGenerate(t, seq, sess)
		if q.PoemID != i {
			t.Fatalf("question %d drew poem %d", i, q.PoemID)
		}
		if q.Number > 1 && !sess.Advance() {
			t.Fatalf("could not advance to question %d", i)
		}
		if i%2 == 1 {
			sess.SubmitAnswer(q.CorrectAnswer)
		} else {
			sess.SubmitAnswer((q.CorrectAnswer + 1) % 4)
		}
	}

	if q, err := seq.GenerateNext(sess); q != nil || err != nil {
		t.Fatalf("expected exhaustion after 5 questions, got q=%v err=%v", q, err)
	}
	if !sess.Completed() {
		t.Error("session not completed after answering the final question")
	}

	stats := sess.Statistics()
	if stats.Total != 5 || stats.Answered != 5 || stats.Correct != 3 || stats.Incorrect != 2 || stats.Remaining != 0 {
		t.Errorf("stats = %+v", stats)
	}
	if math.Abs(stats.Accuracy-60.0) > 1e-9 {
		t.Errorf("accuracy = %v, want 60.0", stats.Accuracy)
	}
	if sess.ScoreLine() != "スコア: 3/5 (60.0%)" {
		t.Errorf("ScoreLine = %q", sess.ScoreLine())
	}
}

func TestTypeStatistics(t *testing.T) {
	store := testStore(t, 100)
	seq := NewSeededSequencer(store, 6)
	sess := seq.CreateSession(QuizConfig{
		Mode:          ModeSequential,
		QuestionTypes: append([]QuestionType(nil), AllQuestionTypes...),
		MaxQuestions:  20,
	})

	wantCorrect := make(map[QuestionType]int)
	wantAnswered := make(map[QuestionType]int)
	for i := 0; i < 20; i++ {
		q := mustGenerate(t, seq, sess)
		if q.Number > 1 {
			sess.Advance()
		}
		wantAnswered[q.Type]++
		if i%2 == 0 {
			sess.SubmitAnswer(q.CorrectAnswer)
			wantCorrect[q.Type]++
		} else {
			sess.SubmitAnswer((q.CorrectAnswer + 1) % 4)
		}
	}

	byType := sess.TypeStatistics()
	total := 0
	for qt, tc := range byType {
		total += tc.Asked
		if tc.Answered != wantAnswered[qt] {
			t.Errorf("%s: answered = %d, want %d", qt, tc.Answered, wantAnswered[qt])
		}
		if tc.Correct != wantCorrect[qt] {
			t.Errorf("%s: correct = %d, want %d", qt, tc.Correct, wantCorrect[qt])
		}
	}
	if total != 20 {
		t.Errorf("asked across types = %d, want 20", total)
	}
}

func TestProgress(t *testing.T) {
	seq, sess := testSession(t, 10)
	mustGenerate(t, seq, sess)

	if got := sess.Progress(); got != "1/10" {
		t.Errorf("Progress = %q, want 1/10", got)
	}
}

func TestReset(t *testing.T) {
	seq, sess := testSession(t, 5)
	q := mustGenerate(t, seq, sess)
	sess.SubmitAnswer(q.CorrectAnswer)

	sess.Reset()

	if len(sess.Questions) != 0 || len(sess.UsedPoemIDs) != 0 {
		t.Error("reset kept questions or used ids")
	}
	if sess.Score != 0 || sess.TotalAnswered != 0 || sess.IsAnswered || sess.CurrentAnswer != NoAnswer {
		t.Error("reset kept answer state")
	}
	if len(sess.TypeStatistics()) != 0 {
		t.Error("reset kept type statistics")
	}
	if sess.MaxQuestions != 5 || len(sess.QuestionTypes) == 0 {
		t.Error("reset dropped session configuration")
	}
}

func TestExplanationRendering(t *testing.T) {
	seq, sess := testSession(t, 5)
	q := mustGenerate(t, seq, sess)

	full := q.Explanation(true, true)
	for _, want := range []string{q.Poem.Author, q.Poem.Upper, q.Poem.Lower, q.Poem.ReadingUpper, q.Poem.Description} {
		if !strings.Contains(full, want) {
			t.Errorf("full explanation missing %q", want)
		}
	}

	bare := q.Explanation(false, false)
	if strings.Contains(bare, q.Poem.ReadingUpper) {
		t.Error("explanation includes reading when disabled")
	}
	if strings.Contains(bare, q.Poem.Description) {
		t.Error("explanation includes description when disabled")
	}
}
