package poemquiz

import (
	"fmt"
	"strconv"
	"strings"
)

// Poem represents a single Hyakunin Isshu record. The four required fields
// are validated when the corpus is loaded; quiz code never re-checks them.
type Poem struct {
	ID           int    `json:"id"`
	Author       string `json:"author"`
	Upper        string `json:"upper"`
	Lower        string `json:"lower"`
	ReadingUpper string `json:"reading_upper,omitempty"`
	ReadingLower string `json:"reading_lower,omitempty"`
	Description  string `json:"description,omitempty"`
}

// field returns the value of a named answer field.
func (p Poem) field(name string) string {
	switch name {
	case "upper":
		return p.Upper
	case "lower":
		return p.Lower
	case "author":
		return p.Author
	default:
		return ""
	}
}

// QuizMode controls the order in which poems are drawn during a session.
type QuizMode string

const (
	ModeSequential QuizMode = "sequential"
	ModeRandom     QuizMode = "random"
)

// QuestionType identifies one of the four quiz patterns.
type QuestionType string

const (
	LowerMatch   QuestionType = "lower_match"    // pick the second verse for a first verse
	UpperMatch   QuestionType = "upper_match"    // pick the first verse for a second verse
	AuthorMatch  QuestionType = "author_match"   // pick the author for a poem
	PoemByAuthor QuestionType = "poem_by_author" // pick the second verse for an author
)

// AllQuestionTypes lists every supported question type in a stable order.
var AllQuestionTypes = []QuestionType{LowerMatch, UpperMatch, AuthorMatch, PoemByAuthor}

// questionPattern bundles the prompt template with the poem field that holds
// the correct answer for one question type.
type questionPattern struct {
	Template     string
	CorrectField string
	DisplayName  string
	Instruction  string
}

// questionPatterns is the single lookup table for all per-type behavior.
// Templates substitute {upper}, {lower}, {author} and {id}.
var questionPatterns = map[QuestionType]questionPattern{
	LowerMatch: {
		Template:     "次の上の句に続く下の句を選んでください：\n「{upper}」",
		CorrectField: "lower",
		DisplayName:  "下の句当て",
		Instruction:  "上の句から正しい下の句を選択",
	},
	UpperMatch: {
		Template:     "次の下の句に対応する上の句を選んでください：\n「{lower}」",
		CorrectField: "upper",
		DisplayName:  "上の句当て",
		Instruction:  "下の句から正しい上の句を選択",
	},
	AuthorMatch: {
		Template:     "次の歌の作者を選んでください：\n「{upper}」\n「{lower}」",
		CorrectField: "author",
		DisplayName:  "作者当て",
		Instruction:  "歌から正しい作者を選択",
	},
	PoemByAuthor: {
		Template:     "『{author}』の歌の下の句を選んでください",
		CorrectField: "lower",
		DisplayName:  "作者から歌当て",
		Instruction:  "作者から正しい歌を選択",
	},
}

// DisplayName returns the human-readable label for a question type, or the
// raw value if the type is unknown.
func (qt QuestionType) DisplayName() string {
	if p, ok := questionPatterns[qt]; ok {
		return p.DisplayName
	}
	return string(qt)
}

// Valid reports whether qt is one of the four known question types.
func (qt QuestionType) Valid() bool {
	_, ok := questionPatterns[qt]
	return ok
}

// renderTemplate substitutes poem fields into a question template.
func renderTemplate(template string, poem Poem) string {
	r := strings.NewReplacer(
		"{upper}", poem.Upper,
		"{lower}", poem.Lower,
		"{author}", poem.Author,
		"{id}", strconv.Itoa(poem.ID),
	)
	return r.Replace(template)
}

// Question is a single generated multiple choice question. Questions are
// immutable once built, apart from the session assigning Number.
type Question struct {
	PoemID        int          `json:"poem_id"`
	Type          QuestionType `json:"type"`
	Text          string       `json:"text"`
	Options       []string     `json:"options"`
	CorrectAnswer int          `json:"correct_answer"` // 0-based index
	Poem          Poem         `json:"poem"`
	Number        int          `json:"number,omitempty"` // 1-based position within its session
}

// CorrectOption returns the text of the correct option.
func (q *Question) CorrectOption() string {
	return q.Options[q.CorrectAnswer]
}

// Check reports whether the selected option index is the correct answer.
func (q *Question) Check(selectedIndex int) bool {
	return selectedIndex == q.CorrectAnswer
}

// Explanation renders the answer commentary for the question's source poem.
// Reading and description lines are included only when requested, so callers
// can honor the session's display settings.
func (q *Question) Explanation(showReading, showDescription bool) string {
	var sb strings.Builder
	p := q.Poem
	fmt.Fprintf(&sb, "【第%d首】\n", p.ID)
	fmt.Fprintf(&sb, "作者：%s\n\n", p.Author)
	fmt.Fprintf(&sb, "上の句：%s\n", p.Upper)
	fmt.Fprintf(&sb, "下の句：%s\n", p.Lower)

	if showReading && p.ReadingUpper != "" {
		sb.WriteString("\n読み：\n")
		fmt.Fprintf(&sb, "  %s\n", p.ReadingUpper)
		fmt.Fprintf(&sb, "  %s\n", p.ReadingLower)
	}

	if showDescription && p.Description != "" {
		fmt.Fprintf(&sb, "\n解説：\n%s", p.Description)
	}

	return sb.String()
}

// QuizConfig is the immutable input for starting a new quiz session.
type QuizConfig struct {
	Mode            QuizMode       `json:"mode"`
	QuestionTypes   []QuestionType `json:"question_types"`
	MaxQuestions    int            `json:"max_questions"`
	ShowReading     bool           `json:"show_reading"`
	ShowDescription bool           `json:"show_description"`
	TimeLimit       int            `json:"time_limit,omitempty"` // seconds, 0 means unlimited
}

// DefaultConfig returns a sequential full-corpus quiz over all question types.
func DefaultConfig() QuizConfig {
	return QuizConfig{
		Mode:            ModeSequential,
		QuestionTypes:   append([]QuestionType(nil), AllQuestionTypes...),
		MaxQuestions:    expectedPoemCount,
		ShowReading:     true,
		ShowDescription: true,
	}
}
