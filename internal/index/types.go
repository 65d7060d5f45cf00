package index

import "tenk/internal/domain"

// Manifest describes a persisted index and how to interpret its files.
type Manifest struct {
	IndexVersion int    `json:"index_version"`
	CreatedAt    string `json:"created_at"`
	ModelID      string `json:"model_id"`
	Dim          int    `json:"dim"`
	Normalize    bool   `json:"normalize"`
	Summary      string `json:"summary,omitempty"`
	ChunksFile   string `json:"chunks_file"`
	VectorFile   string `json:"vector_file"`
}

// Index is a loaded, read-only semantic index over filing chunks.
// Vectors are stored row-major: chunk i occupies Vectors[i*Dim : (i+1)*Dim].
type Index struct {
	Manifest Manifest
	Chunks   []domain.Chunk
	Vectors  []float32
}

// Len returns the number of indexed chunks.
func (x *Index) Len() int { return len(x.Chunks) }
