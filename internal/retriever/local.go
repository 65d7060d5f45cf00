// Package retriever provides the backends that match query vectors against
// indexed filing chunks.
package retriever

import (
	"context"

	"tenk/internal/domain"
	"tenk/internal/index"
)

// Local retrieves from an in-process loaded index.
type Local struct {
	idx      *index.Index
	minScore float64
}

// NewLocal wraps a loaded index as a Retriever.
func NewLocal(idx *index.Index, minScore float64) *Local {
	return &Local{idx: idx, minScore: minScore}
}

// Retrieve performs brute-force cosine search over the loaded index.
func (l *Local) Retrieve(_ context.Context, vector []float32, topK int) ([]domain.SearchResult, error) {
	return l.idx.Search(vector, topK, l.minScore), nil
}
