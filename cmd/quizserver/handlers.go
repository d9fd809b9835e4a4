package main

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"poemquiz"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const cookieName = "poemquiz-session"

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func errorResp(code, message string) map[string]interface{} {
	return map[string]interface{}{
		"error": map[string]string{"code": code, "message": message},
	}
}

// questionView is the client-facing shape of a question. The correct index
// is withheld until the question has been answered.
type questionView struct {
	Number   int      `json:"number"`
	Total    int      `json:"total"`
	Type     string   `json:"type"`
	TypeName string   `json:"type_name"`
	Text     string   `json:"text"`
	Options  []string `json:"options"`
	Answered bool     `json:"answered"`
}

func newQuestionView(q *poemquiz.Question, sess *poemquiz.QuizSession) questionView {
	return questionView{
		Number:   q.Number,
		Total:    sess.MaxQuestions,
		Type:     string(q.Type),
		TypeName: q.Type.DisplayName(),
		Text:     q.Text,
		Options:  q.Options,
		Answered: sess.IsAnswered,
	}
}

type startQuizRequest struct {
	Mode            string   `json:"mode"`
	QuestionTypes   []string `json:"question_types"`
	MaxQuestions    int      `json:"max_questions"`
	ShowReading     *bool    `json:"show_reading"`
	ShowDescription *bool    `json:"show_description"`
}

func (s *Server) handleStartQuiz(w http.ResponseWriter, r *http.Request) {
	cfg := s.cfg.DefaultQuizConfig()

	if r.Body != nil && r.ContentLength != 0 {
		var req startQuizRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body"))
			return
		}
		if req.Mode != "" {
			mode := poemquiz.QuizMode(req.Mode)
			if mode != poemquiz.ModeSequential && mode != poemquiz.ModeRandom {
				writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Unknown quiz mode"))
				return
			}
			cfg.Mode = mode
		}
		if len(req.QuestionTypes) > 0 {
			var types []poemquiz.QuestionType
			for _, t := range req.QuestionTypes {
				qt := poemquiz.QuestionType(t)
				if !qt.Valid() {
					writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Unknown question type: "+t))
					return
				}
				types = append(types, qt)
			}
			cfg.QuestionTypes = types
		}
		if req.MaxQuestions > 0 {
			cfg.MaxQuestions = req.MaxQuestions
		}
		if req.ShowReading != nil {
			cfg.ShowReading = *req.ShowReading
		}
		if req.ShowDescription != nil {
			cfg.ShowDescription = *req.ShowDescription
		}
	}

	seq := poemquiz.NewSequencer(s.repo)
	session := seq.CreateSession(cfg)

	id := uuid.NewString()
	s.registry.Put(id, session, seq, cfg)

	cookie, _ := s.cookies.Get(r, cookieName)
	cookie.Values["id"] = id
	if err := cookie.Save(r, w); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to save session cookie"))
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"mode":           session.Mode,
		"question_types": session.QuestionTypes,
		"max_questions":  session.MaxQuestions,
	})
}

// activeSession resolves the caller's quiz session from the cookie.
func (s *Server) activeSession(r *http.Request) (*poemquiz.ActiveSession, bool) {
	cookie, _ := s.cookies.Get(r, cookieName)
	id, ok := cookie.Values["id"].(string)
	if !ok {
		return nil, false
	}
	return s.registry.Get(id)
}

func (s *Server) handleQuizState(w http.ResponseWriter, r *http.Request) {
	active, ok := s.activeSession(r)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResp("NO_SESSION", "No active quiz session"))
		return
	}

	var resp map[string]interface{}
	active.WithLock(func(sess *poemquiz.QuizSession, _ *poemquiz.Sequencer) {
		resp = map[string]interface{}{
			"progress":   sess.Progress(),
			"score_line": sess.ScoreLine(),
			"completed":  sess.Completed(),
			"statistics": sess.Statistics(),
		}
		if q := sess.CurrentQuestion(); q != nil {
			resp["question"] = newQuestionView(q, sess)
		}
	})

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAbandonQuiz(w http.ResponseWriter, r *http.Request) {
	cookie, _ := s.cookies.Get(r, cookieName)
	if id, ok := cookie.Values["id"].(string); ok {
		s.registry.Remove(id)
	}
	delete(cookie.Values, "id")
	cookie.Save(r, w)

	writeJSON(w, http.StatusOK, map[string]string{"message": "Quiz abandoned"})
}

func (s *Server) handleNextQuestion(w http.ResponseWriter, r *http.Request) {
	active, ok := s.activeSession(r)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResp("NO_SESSION", "No active quiz session"))
		return
	}

	var (
		view      *questionView
		exhausted bool
		genErr    error
	)
	active.WithLock(func(sess *poemquiz.QuizSession, seq *poemquiz.Sequencer) {
		// An unanswered current question is returned as-is so that a
		// repeated call cannot skip ahead.
		if q := sess.CurrentQuestion(); q != nil && !sess.IsAnswered {
			v := newQuestionView(q, sess)
			view = &v
			return
		}

		q, err := seq.GenerateNext(sess)
		if err != nil {
			genErr = err
			return
		}
		if q == nil {
			exhausted = true
			return
		}
		if q.Number > 1 {
			sess.Advance()
		}
		v := newQuestionView(q, sess)
		view = &v
	})

	switch {
	case genErr != nil:
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Question generation failed"))
	case exhausted:
		writeJSON(w, http.StatusOK, map[string]interface{}{"done": true})
	default:
		writeJSON(w, http.StatusOK, view)
	}
}

type answerRequest struct {
	Selected int `json:"selected"`
}

func (s *Server) handleSubmitAnswer(w http.ResponseWriter, r *http.Request) {
	active, ok := s.activeSession(r)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResp("NO_SESSION", "No active quiz session"))
		return
	}

	var req answerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body"))
		return
	}
	if req.Selected < 0 || req.Selected > 3 {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Selected index must be 0-3"))
		return
	}

	var (
		resp       map[string]interface{}
		noQuestion bool
		duplicate  bool
	)
	active.WithLock(func(sess *poemquiz.QuizSession, _ *poemquiz.Sequencer) {
		q := sess.CurrentQuestion()
		if q == nil {
			noQuestion = true
			return
		}
		if sess.IsAnswered {
			duplicate = true
			return
		}

		correct := sess.SubmitAnswer(req.Selected)
		resp = map[string]interface{}{
			"correct":        correct,
			"correct_answer": q.CorrectAnswer,
			"explanation":    q.Explanation(active.Config.ShowReading, active.Config.ShowDescription),
			"score_line":     sess.ScoreLine(),
			"completed":      sess.Completed(),
		}
	})

	switch {
	case noQuestion:
		writeJSON(w, http.StatusConflict, errorResp("NO_QUESTION", "No question to answer; request the next question first"))
	case duplicate:
		writeJSON(w, http.StatusConflict, errorResp("ALREADY_ANSWERED", "The current question was already answered"))
	default:
		writeJSON(w, http.StatusOK, resp)
	}
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	active, ok := s.activeSession(r)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResp("NO_SESSION", "No active quiz session"))
		return
	}

	var resp map[string]interface{}
	active.WithLock(func(sess *poemquiz.QuizSession, _ *poemquiz.Sequencer) {
		byType := make(map[string]poemquiz.TypeCount)
		for qt, tc := range sess.TypeStatistics() {
			byType[string(qt)] = tc
		}
		resp = map[string]interface{}{
			"statistics": sess.Statistics(),
			"by_type":    byType,
			"completed":  sess.Completed(),
		}
	})

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDailyPoem(w http.ResponseWriter, r *http.Request) {
	poem := s.store.PoemOfTheDay(time.Now())
	if !s.cfg.ShowReading {
		poem.ReadingUpper, poem.ReadingLower = "", ""
	}
	if !s.cfg.ShowDescription {
		poem.Description = ""
	}
	writeJSON(w, http.StatusOK, poem)
}

func (s *Server) handleRandomPoems(w http.ResponseWriter, r *http.Request) {
	count := 1
	if v := r.URL.Query().Get("count"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid count"))
			return
		}
		count = n
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"poems": s.repo.RandomPoems(count, 0),
	})
}

func (s *Server) handlePoem(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid poem id"))
		return
	}

	poem, ok := s.repo.PoemByID(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Poem not found"))
		return
	}
	writeJSON(w, http.StatusOK, poem)
}

func (s *Server) handleAuthors(w http.ResponseWriter, r *http.Request) {
	if author := r.URL.Query().Get("name"); author != "" {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"author": author,
			"poems":  s.store.PoemsByAuthor(author),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"authors": s.store.Authors(),
	})
}
