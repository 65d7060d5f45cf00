// Package engine dispatches free-text questions: embed, retrieve, synthesize.
// Each query is a single stateless round trip with no caching and no retry.
package engine

import (
	"context"
	"fmt"

	"tenk/internal/domain"
)

// MsgIndexNotLoaded is returned by Dispatch when no index is available.
const MsgIndexNotLoaded = "Error: Index not loaded properly."

// Engine wires the embedder, retriever and answerer behind one query
// operation. A nil Engine is a valid "index not loaded" handle: Dispatch
// reports the failure without touching the network.
type Engine struct {
	embedder  domain.Embedder
	retriever domain.Retriever
	answerer  domain.Answerer
	topK      int
}

// New assembles an engine. topK <= 0 falls back to 5.
func New(embedder domain.Embedder, retriever domain.Retriever, answerer domain.Answerer, topK int) *Engine {
	if topK <= 0 {
		topK = 5
	}
	return &Engine{embedder: embedder, retriever: retriever, answerer: answerer, topK: topK}
}

// Ready reports whether the engine can serve queries.
func (e *Engine) Ready() bool {
	return e != nil && e.embedder != nil && e.retriever != nil && e.answerer != nil
}

// Query answers a question with explicit errors at each boundary.
func (e *Engine) Query(ctx context.Context, question string) (domain.Answer, error) {
	vec, err := e.embedder.Embed(ctx, question)
	if err != nil {
		return domain.Answer{}, fmt.Errorf("embedding question: %w", err)
	}
	contexts, err := e.retriever.Retrieve(ctx, vec, e.topK)
	if err != nil {
		return domain.Answer{}, fmt.Errorf("retrieving context: %w", err)
	}
	text, err := e.answerer.Answer(ctx, question, contexts)
	if err != nil {
		return domain.Answer{}, fmt.Errorf("synthesizing answer: %w", err)
	}
	return domain.Answer{Text: text, Sources: contexts}, nil
}

// Dispatch is the boundary used by the UIs: it never returns an error and
// never panics. An unready engine yields a fixed message; any failure
// during the round trip is converted to an inline error string, leaving
// the process usable for subsequent queries.
func (e *Engine) Dispatch(ctx context.Context, question string) string {
	if !e.Ready() {
		return MsgIndexNotLoaded
	}
	ans, err := e.Query(ctx, question)
	if err != nil {
		return "Error processing query: " + err.Error()
	}
	return ans.Text
}
