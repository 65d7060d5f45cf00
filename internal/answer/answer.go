// Package answer turns a question plus retrieved filing passages into a
// plain-text answer using a chat completion model.
package answer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"tenk/internal/domain"
)

const systemPrompt = "You are an analyst answering questions about telecom companies' 10-K filings. " +
	"Answer using only the provided excerpts. If the excerpts do not contain the answer, say so."

// chatClient is the slice of the OpenAI client used here, extracted so tests
// can stub the API.
type chatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Synthesizer calls a chat model with retrieved context to produce answers.
type Synthesizer struct {
	client      chatClient
	model       string
	maxTokens   int
	temperature float32
}

// Config configures the answer synthesizer.
type Config struct {
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float32
}

// NewSynthesizer creates a Synthesizer from the given configuration.
func NewSynthesizer(cfg Config) (*Synthesizer, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 700
	}
	return &Synthesizer{
		client:      openai.NewClient(cfg.APIKey),
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
	}, nil
}

// Answer sends the question and context excerpts to the chat model and
// returns the first choice's text. When the text field is empty it falls
// back to a generic rendering of the message.
func (s *Synthesizer) Answer(ctx context.Context, question string, contexts []domain.SearchResult) (string, error) {
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       s.model,
		MaxTokens:   s.maxTokens,
		Temperature: s.temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildPrompt(question, contexts)},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no completion choices returned")
	}
	msg := resp.Choices[0].Message
	if text := strings.TrimSpace(msg.Content); text != "" {
		return text, nil
	}
	return fmt.Sprintf("%v", msg), nil
}

// buildPrompt lays out the excerpts with their sources followed by the
// question.
func buildPrompt(question string, contexts []domain.SearchResult) string {
	var b strings.Builder
	b.WriteString("Excerpts from 10-K filings:\n\n")
	for i, r := range contexts {
		fmt.Fprintf(&b, "[%d] %s", i+1, r.Chunk.Source)
		if r.Chunk.Section != "" {
			fmt.Fprintf(&b, " (%s)", r.Chunk.Section)
		}
		b.WriteString("\n")
		b.WriteString(r.Chunk.Text)
		b.WriteString("\n\n")
	}
	b.WriteString("Question: ")
	b.WriteString(question)
	return b.String()
}
