package poemquiz

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config carries the environment-driven settings shared by the server and
// CLI drivers. Quiz behavior itself is configured per session via QuizConfig;
// these are process-level defaults and wiring.
type Config struct {
	// Server
	Port string

	// Corpus source: a JSON file, or a SQLite database when PoemDBPath is set.
	PoemDataPath string
	PoemDBPath   string

	// Cookie session secret for the web driver.
	SessionSecret string

	// OpenAI key for the annotation tool.
	OpenAIAPIKey string

	// Session defaults applied when a client omits them.
	DefaultMode         QuizMode
	DefaultMaxQuestions int
	ShowReading         bool
	ShowDescription     bool
}

// LoadConfig reads configuration from the environment, loading a .env file
// first when one exists.
func LoadConfig() *Config {
	godotenv.Load()

	return &Config{
		Port:                getEnvOrDefault("PORT", "8180"),
		PoemDataPath:        getEnvOrDefault("POEM_DATA", "data/hyakunin_isshu.json"),
		PoemDBPath:          os.Getenv("POEM_DB"),
		SessionSecret:       getEnvOrDefault("SESSION_SECRET", "poemquiz-dev-secret"),
		OpenAIAPIKey:        os.Getenv("OPENAI_API_KEY"),
		DefaultMode:         QuizMode(getEnvOrDefault("QUIZ_MODE", string(ModeSequential))),
		DefaultMaxQuestions: getEnvAsIntOrDefault("QUIZ_MAX_QUESTIONS", 10),
		ShowReading:         getEnvAsBoolOrDefault("SHOW_READING", true),
		ShowDescription:     getEnvAsBoolOrDefault("SHOW_DESCRIPTION", true),
	}
}

// DefaultQuizConfig builds the session configuration used when a client
// starts a quiz without overriding anything.
func (c *Config) DefaultQuizConfig() QuizConfig {
	cfg := DefaultConfig()
	cfg.Mode = c.DefaultMode
	cfg.MaxQuestions = c.DefaultMaxQuestions
	cfg.ShowReading = c.ShowReading
	cfg.ShowDescription = c.ShowDescription
	return cfg
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}

func getEnvAsBoolOrDefault(key string, defaultVal bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return defaultVal
	}
	return b
}
