package embedding

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"tenk/internal/index"
)

// embeddingClient is the slice of the OpenAI client used here, extracted so
// tests can stub the API.
type embeddingClient interface {
	CreateEmbeddings(ctx context.Context, req openai.EmbeddingRequestConverter) (openai.EmbeddingResponse, error)
}

// OpenAIEmbedder produces L2-normalized embeddings via the OpenAI API.
type OpenAIEmbedder struct {
	client embeddingClient
	model  string
}

// NewOpenAIEmbedder creates an embedder using the given API key and model.
func NewOpenAIEmbedder(apiKey, model string) (*OpenAIEmbedder, error) {
	if apiKey == "" {
		return nil, errors.New("API key is required")
	}
	if model == "" {
		model = "text-embedding-3-small"
	}
	return &OpenAIEmbedder{client: openai.NewClient(apiKey), model: model}, nil
}

// ModelID returns the embedding model identifier.
func (e *OpenAIEmbedder) ModelID() string { return e.model }

// Embed generates an embedding for a single text.
func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if len(text) == 0 {
		return nil, errors.New("cannot embed empty text")
	}
	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(e.model),
		Input: []string{text},
	})
	if err != nil {
		return nil, fmt.Errorf("openai embeddings: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, errors.New("no embedding data returned from API")
	}
	return index.NormalizeL2(resp.Data[0].Embedding), nil
}

// EmbedBatch generates embeddings for multiple texts with bounded
// concurrency. Order of the result matches the input order.
func (e *OpenAIEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	embeddings := make([][]float32, len(texts))
	errChan := make(chan error, len(texts))
	sem := make(chan struct{}, 8)

	for i := range texts {
		sem <- struct{}{}
		go func(idx int) {
			defer func() { <-sem }()
			emb, err := e.Embed(ctx, texts[idx])
			if err != nil {
				errChan <- fmt.Errorf("embedding text %d: %w", idx, err)
				return
			}
			embeddings[idx] = emb
			errChan <- nil
		}(i)
	}

	var firstErr error
	for range texts {
		if err := <-errChan; err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return embeddings, nil
}
