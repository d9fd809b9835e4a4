package main

import (
	"log"
	"net/http"

	"poemquiz"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/sessions"
)

// Server wires the quiz engine to the HTTP API. Quiz sessions live in the
// registry and are addressed through a cookie-stored id; nothing survives a
// restart.
type Server struct {
	cfg      *poemquiz.Config
	repo     poemquiz.PoemRepository
	store    *poemquiz.PoemStore
	cookies  *sessions.CookieStore
	registry *poemquiz.SessionRegistry
}

func main() {
	cfg := poemquiz.LoadConfig()

	var (
		repo  poemquiz.PoemRepository
		store *poemquiz.PoemStore
	)
	if cfg.PoemDBPath != "" {
		db, err := poemquiz.OpenPoemDB(cfg.PoemDBPath)
		if err != nil {
			log.Fatalf("Failed to open poem database: %v", err)
		}
		defer db.Close()
		if err := db.Load(); err != nil {
			log.Fatalf("Failed to load poems from database: %v", err)
		}
		repo, store = db, db.Store()
	} else {
		s, err := poemquiz.LoadPoemStore(cfg.PoemDataPath)
		if err != nil {
			log.Fatalf("Failed to load poem data: %v", err)
		}
		repo, store = s, s
	}

	log.Printf("Loaded %d poems", repo.PoemCount())

	server := &Server{
		cfg:      cfg,
		repo:     repo,
		store:    store,
		cookies:  sessions.NewCookieStore([]byte(cfg.SessionSecret)),
		registry: poemquiz.NewSessionRegistry(),
	}

	log.Printf("Starting server on port %s", cfg.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, server.routes()))
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Post("/quiz", s.handleStartQuiz)
		r.Get("/quiz", s.handleQuizState)
		r.Delete("/quiz", s.handleAbandonQuiz)
		r.Post("/quiz/next", s.handleNextQuestion)
		r.Post("/quiz/answer", s.handleSubmitAnswer)
		r.Get("/quiz/stats", s.handleStats)

		r.Get("/poems/daily", s.handleDailyPoem)
		r.Get("/poems/random", s.handleRandomPoems)
		r.Get("/poems/{id}", s.handlePoem)
		r.Get("/authors", s.handleAuthors)
	})

	return r
}
