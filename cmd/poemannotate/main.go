package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"time"

	"poemquiz"
)

func main() {
	var (
		dataPath   = flag.String("data", "data/hyakunin_isshu.json", "Path to the poem corpus JSON file")
		outputFile = flag.String("output", "", "Output file for the annotated corpus (default: overwrite input)")
		apiKey     = flag.String("api-key", "", "OpenAI API key (or set OPENAI_API_KEY env var)")
		limit      = flag.Int("limit", 0, "Maximum number of poems to annotate (0 = all)")
		importDB   = flag.String("import-db", "", "Also import the annotated corpus into this SQLite database")
		verbose    = flag.Bool("verbose", false, "Enable verbose debugging output")
	)

	flag.Parse()

	poemquiz.SetVerbose(*verbose)

	if *apiKey == "" {
		*apiKey = os.Getenv("OPENAI_API_KEY")
		if *apiKey == "" {
			log.Fatal("OpenAI API key is required. Use -api-key flag or set OPENAI_API_KEY environment variable.")
		}
	}

	poems, err := poemquiz.LoadPoems(*dataPath)
	if err != nil {
		log.Fatalf("Failed to load poem data: %v", err)
	}

	missing := 0
	for _, p := range poems {
		if p.Description == "" {
			missing++
		}
	}
	log.Printf("Loaded %d poems, %d without commentary", len(poems), missing)
	if missing == 0 {
		log.Println("Nothing to annotate.")
		return
	}

	annotator := poemquiz.NewAnnotator(*apiKey)

	logger, err := poemquiz.NewAnnotationLogger(*dataPath)
	if err != nil {
		log.Printf("Failed to create annotation log: %v", err)
	} else {
		annotator.SetLogger(logger)
		defer logger.Close()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	annotated, count := annotator.AnnotatePoems(ctx, poems, *limit)
	log.Printf("Annotated %d poems", count)

	out := *outputFile
	if out == "" {
		out = *dataPath
	}

	data, err := json.MarshalIndent(annotated, "", "  ")
	if err != nil {
		log.Fatalf("Failed to marshal corpus: %v", err)
	}
	if err := os.WriteFile(out, data, 0644); err != nil {
		log.Fatalf("Failed to write output file: %v", err)
	}
	log.Printf("Annotated corpus saved to: %s", out)

	if *importDB != "" {
		db, err := poemquiz.OpenPoemDB(*importDB)
		if err != nil {
			log.Fatalf("Failed to open poem database: %v", err)
		}
		defer db.Close()

		if err := db.CreateTables(); err != nil {
			log.Fatalf("Failed to create tables: %v", err)
		}
		if err := db.ImportPoems(annotated); err != nil {
			log.Fatalf("Failed to import poems: %v", err)
		}
		log.Printf("Imported %d poems into %s", len(annotated), *importDB)
	}
}
