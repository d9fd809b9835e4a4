package poemquiz

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// AnnotationLogger records every LLM interaction of an annotation run to a
// log file, for auditing the generated commentary.
type AnnotationLogger struct {
	file *os.File
	mu   sync.Mutex
}

// NewAnnotationLogger creates a log file for one annotation run.
func NewAnnotationLogger(dataPath string) (*AnnotationLogger, error) {
	if err := os.MkdirAll("log", 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	filename := filepath.Join("log", fmt.Sprintf("annotate-%s.log", time.Now().Format("20060102-150405")))
	file, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create log file: %w", err)
	}

	logger := &AnnotationLogger{file: file}

	logger.logf("=== Poem Annotation Log ===\n")
	logger.logf("Corpus: %s\n", dataPath)
	logger.logf("Started: %s\n", time.Now().Format(time.RFC3339))
	logger.logf("===========================\n\n")

	return logger, nil
}

// logf writes a formatted log entry with timestamp.
func (al *AnnotationLogger) logf(format string, args ...interface{}) {
	al.mu.Lock()
	defer al.mu.Unlock()

	timestamp := time.Now().Format("15:04:05.000")
	fmt.Fprintf(al.file, "[%s] %s", timestamp, fmt.Sprintf(format, args...))
	al.file.Sync()
}

// LogRequest logs the prompt sent for one poem.
func (al *AnnotationLogger) LogRequest(poemID int, prompt string) {
	al.logf("=== REQUEST (poem %d) ===\n", poemID)
	al.logf("%s\n", prompt)
	al.logf("=========================\n\n")
}

// LogResponse logs the commentary returned for one poem.
func (al *AnnotationLogger) LogResponse(poemID int, response string) {
	al.logf("=== RESPONSE (poem %d) ===\n", poemID)
	al.logf("%s\n", response)
	al.logf("==========================\n\n")
}

// Close finishes and closes the log file.
func (al *AnnotationLogger) Close() error {
	al.mu.Lock()
	defer al.mu.Unlock()

	if al.file != nil {
		fmt.Fprintf(al.file, "=== Annotation Complete: %s ===\n", time.Now().Format(time.RFC3339))
		return al.file.Close()
	}
	return nil
}
