package domain

import "context"

// Filing represents a single 10-K text file loaded for indexing.
type Filing struct {
	ID      string
	Path    string
	Company string
	Content string
}

// Chunk is a retrievable slice of a filing.
type Chunk struct {
	ID      string `json:"id"`
	Source  string `json:"source"`
	Section string `json:"section,omitempty"`
	Seq     int    `json:"seq"`
	Text    string `json:"text"`
}

// SearchResult is a chunk matched against a query vector with its score.
type SearchResult struct {
	Chunk Chunk
	Score float64
}

// Answer is the synthesized response to one question.
type Answer struct {
	Text    string
	Sources []SearchResult
}

// Embedder converts free text into a vector representation.
type Embedder interface {
	ModelID() string
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// Retriever returns the chunks nearest to a query vector.
type Retriever interface {
	Retrieve(ctx context.Context, vector []float32, topK int) ([]SearchResult, error)
}

// Answerer turns a question plus retrieved context into a plain-text answer.
type Answerer interface {
	Answer(ctx context.Context, question string, contexts []SearchResult) (string, error)
}

// Chunker splits filings into chunks suitable for retrieval indexing.
type Chunker interface {
	Chunk(filing Filing) ([]Chunk, error)
}

// Summarizer produces a brief summary of the provided text.
type Summarizer interface {
	Summarize(text string, maxSentences int) (string, error)
}

// QueryEngine defines the operations exposed by the application core.
type QueryEngine interface {
	Query(ctx context.Context, question string) (Answer, error)
	Dispatch(ctx context.Context, question string) string
}
