package poemquiz

import (
	"context"
	"fmt"
	"log"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// Annotator fills missing poem commentary using GPT-4o. It is a corpus
// preparation tool; the quiz engine itself never calls out to an LLM.
type Annotator struct {
	client *openai.Client
	logger *AnnotationLogger
}

// NewAnnotator creates an annotator with an OpenAI client.
func NewAnnotator(apiKey string) *Annotator {
	return &Annotator{
		client: openai.NewClient(apiKey),
	}
}

// SetLogger attaches a log file for prompt/response auditing.
func (a *Annotator) SetLogger(logger *AnnotationLogger) {
	a.logger = logger
}

// AnnotatePoems fills the Description field of every poem that lacks one,
// up to limit poems (0 means no limit). The input slice is not modified;
// the annotated copy is returned. Poems that fail to annotate keep an empty
// description and the error is logged rather than aborting the run.
func (a *Annotator) AnnotatePoems(ctx context.Context, poems []Poem, limit int) ([]Poem, int) {
	out := append([]Poem(nil), poems...)

	annotated := 0
	for i := range out {
		if out[i].Description != "" {
			continue
		}
		if limit > 0 && annotated >= limit {
			break
		}

		desc, err := a.annotate(ctx, out[i])
		if err != nil {
			log.Printf("failed to annotate poem %d: %v", out[i].ID, err)
			continue
		}

		out[i].Description = desc
		annotated++
		VerboseLog("annotated poem %d (%d chars)", out[i].ID, len(desc))
	}

	return out, annotated
}

func (a *Annotator) annotate(ctx context.Context, poem Poem) (string, error) {
	prompt := a.buildPrompt(poem)

	if a.logger != nil {
		a.logger.LogRequest(poem.ID, prompt)
	}

	resp, err := a.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: openai.GPT4o,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleSystem,
					Content: "あなたは百人一首の解説者です。与えられた歌について、一般の学習者向けの簡潔な解説を日本語で書いてください。",
				},
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
		},
	)
	if err != nil {
		return "", fmt.Errorf("failed to annotate poem %d: %w", poem.ID, err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from GPT-4o for poem %d", poem.ID)
	}

	desc := strings.TrimSpace(resp.Choices[0].Message.Content)
	if desc == "" {
		return "", fmt.Errorf("empty annotation for poem %d", poem.ID)
	}

	if a.logger != nil {
		a.logger.LogResponse(poem.ID, desc)
	}

	return desc, nil
}

func (a *Annotator) buildPrompt(poem Poem) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("第%d首\n", poem.ID))
	sb.WriteString(fmt.Sprintf("作者：%s\n", poem.Author))
	sb.WriteString(fmt.Sprintf("上の句：%s\n", poem.Upper))
	sb.WriteString(fmt.Sprintf("下の句：%s\n", poem.Lower))
	if poem.ReadingUpper != "" {
		sb.WriteString(fmt.Sprintf("読み：%s / %s\n", poem.ReadingUpper, poem.ReadingLower))
	}

	sb.WriteString("\nこの歌の意味と背景を3文以内で解説してください。")
	sb.WriteString("歌の情景、詠まれた事情、技法のいずれかに触れてください。")

	return sb.String()
}
