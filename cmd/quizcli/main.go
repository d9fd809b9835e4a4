package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"
	"time"

	"poemquiz"
)

func main() {
	var (
		dataPath     = flag.String("data", "data/hyakunin_isshu.json", "Path to the poem corpus JSON file")
		dbPath       = flag.String("db", "", "Read the corpus from a SQLite database instead of JSON")
		mode         = flag.String("mode", "sequential", "Poem order: sequential or random")
		typesFlag    = flag.String("types", "lower_match", "Comma-separated question types (lower_match, upper_match, author_match, poem_by_author)")
		numQuestions = flag.Int("questions", 10, "Number of questions to ask")
		seed         = flag.Int64("seed", 0, "Random seed (0 = time-based)")
		noReading    = flag.Bool("no-reading", false, "Hide kana readings in explanations")
		noDesc       = flag.Bool("no-description", false, "Hide commentary in explanations")
		daily        = flag.Bool("daily", false, "Show today's poem and exit")
		verbose      = flag.Bool("verbose", false, "Enable verbose debugging output")
	)

	flag.Parse()

	poemquiz.SetVerbose(*verbose)

	repo, store := openRepository(*dataPath, *dbPath)

	if *daily {
		showDailyPoem(store, !*noReading, !*noDesc)
		return
	}

	quizMode := poemquiz.QuizMode(*mode)
	if quizMode != poemquiz.ModeSequential && quizMode != poemquiz.ModeRandom {
		log.Fatalf("Unknown mode: %s (use sequential or random)", *mode)
	}

	cfg := poemquiz.QuizConfig{
		Mode:            quizMode,
		QuestionTypes:   parseTypes(*typesFlag),
		MaxQuestions:    *numQuestions,
		ShowReading:     !*noReading,
		ShowDescription: !*noDesc,
	}

	var seq *poemquiz.Sequencer
	if *seed != 0 {
		seq = poemquiz.NewSeededSequencer(repo, *seed)
	} else {
		seq = poemquiz.NewSequencer(repo)
	}

	playQuiz(seq, cfg)
}

func openRepository(dataPath, dbPath string) (poemquiz.PoemRepository, *poemquiz.PoemStore) {
	if dbPath != "" {
		db, err := poemquiz.OpenPoemDB(dbPath)
		if err != nil {
			log.Fatalf("Failed to open poem database: %v", err)
		}
		if err := db.Load(); err != nil {
			log.Fatalf("Failed to load poems from database: %v", err)
		}
		return db, db.Store()
	}

	store, err := poemquiz.LoadPoemStore(dataPath)
	if err != nil {
		log.Fatalf("Failed to load poem data: %v", err)
	}
	return store, store
}

func showDailyPoem(store *poemquiz.PoemStore, showReading, showDescription bool) {
	poem := store.PoemOfTheDay(time.Now())

	fmt.Println("🎴 今日の一首")
	fmt.Println()
	fmt.Printf("【第%d首】 %s\n", poem.ID, poem.Author)
	fmt.Printf("  %s\n", poem.Upper)
	fmt.Printf("  　　%s\n", poem.Lower)
	if showReading && poem.ReadingUpper != "" {
		fmt.Printf("\n  読み： %s / %s\n", poem.ReadingUpper, poem.ReadingLower)
	}
	if showDescription && poem.Description != "" {
		fmt.Printf("\n%s\n", poem.Description)
	}
}

func parseTypes(s string) []poemquiz.QuestionType {
	var types []poemquiz.QuestionType
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		qt := poemquiz.QuestionType(part)
		if !qt.Valid() {
			log.Fatalf("Unknown question type: %s", part)
		}
		types = append(types, qt)
	}
	if len(types) == 0 {
		log.Fatal("At least one question type is required. Use -types flag.")
	}
	return types
}

func playQuiz(seq *poemquiz.Sequencer, cfg poemquiz.QuizConfig) {
	session := seq.CreateSession(cfg)

	fmt.Println("🎴 百人一首クイズ")
	fmt.Printf("📝 Questions: %d, Mode: %s\n", session.MaxQuestions, session.Mode)
	typeNames := make([]string, len(session.QuestionTypes))
	for i, qt := range session.QuestionTypes {
		typeNames[i] = qt.DisplayName()
	}
	fmt.Printf("🔀 Types: %s\n", strings.Join(typeNames, ", "))
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	labels := []string{"A", "B", "C", "D"}

	for {
		question, err := seq.GenerateNext(session)
		if err != nil {
			log.Fatalf("Failed to generate question: %v", err)
		}
		if question == nil {
			break
		}
		if question.Number > 1 {
			session.Advance()
		}

		fmt.Printf("Question %d/%d 【%s】\n", question.Number, session.MaxQuestions, question.Type.DisplayName())
		fmt.Printf("%s\n\n", question.Text)

		for i, option := range question.Options {
			fmt.Printf("%s) %s\n", labels[i], option)
		}
		fmt.Println()

		var answerIndex int
		for {
			fmt.Print("Your answer (A/B/C/D): ")
			if !scanner.Scan() {
				fmt.Println()
				return
			}
			input := strings.ToUpper(strings.TrimSpace(scanner.Text()))
			answerIndex = strings.Index("ABCD", input)
			if len(input) == 1 && answerIndex >= 0 {
				break
			}
			fmt.Println("Please enter A, B, C, or D")
		}

		correct := session.SubmitAnswer(answerIndex)
		fmt.Println()
		if correct {
			fmt.Println("✅ Correct!")
		} else {
			fmt.Printf("❌ Incorrect. The correct answer is %s) %s\n",
				labels[question.CorrectAnswer], question.CorrectOption())
		}

		fmt.Println()
		fmt.Println(question.Explanation(cfg.ShowReading, cfg.ShowDescription))

		fmt.Printf("\n📊 %s\n", session.ScoreLine())
		fmt.Println(strings.Repeat("─", 50))
		fmt.Println()
	}

	printResults(session)
}

func printResults(session *poemquiz.QuizSession) {
	stats := session.Statistics()

	fmt.Println("🎉 Quiz completed!")
	fmt.Println("\n🏆 Final Results:")
	fmt.Printf("  Answered: %d/%d\n", stats.Answered, stats.Total)
	fmt.Printf("  Correct:  %d\n", stats.Correct)
	fmt.Printf("  Wrong:    %d\n", stats.Incorrect)
	fmt.Printf("  Accuracy: %.1f%%\n", stats.Accuracy)

	byType := session.TypeStatistics()
	if len(byType) > 1 {
		types := make([]poemquiz.QuestionType, 0, len(byType))
		for qt := range byType {
			types = append(types, qt)
		}
		sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })

		fmt.Println("\n📈 By question type:")
		for _, qt := range types {
			tc := byType[qt]
			fmt.Printf("  %s: %d/%d\n", qt.DisplayName(), tc.Correct, tc.Answered)
		}
	}

	switch {
	case stats.Accuracy >= 80:
		fmt.Println("\n🌟 Excellent work!")
	case stats.Accuracy >= 60:
		fmt.Println("\n👍 Good job!")
	default:
		fmt.Println("\n📚 Keep studying!")
	}
}
