package retriever

import (
	"context"
	"testing"

	"tenk/internal/domain"
	"tenk/internal/index"
)

func TestLocal_Retrieve(t *testing.T) {
	idx := &index.Index{
		Manifest: index.Manifest{Dim: 2},
		Chunks: []domain.Chunk{
			{ID: "a:0", Text: "alpha"},
			{ID: "b:0", Text: "beta"},
		},
		Vectors: []float32{1, 0, 0, 1},
	}
	l := NewLocal(idx, 0)
	res, err := l.Retrieve(context.Background(), []float32{1, 0}, 1)
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if len(res) != 1 || res[0].Chunk.ID != "a:0" {
		t.Fatalf("res = %+v", res)
	}
}

func TestLocal_MinScore(t *testing.T) {
	idx := &index.Index{
		Manifest: index.Manifest{Dim: 2},
		Chunks:   []domain.Chunk{{ID: "a:0"}, {ID: "b:0"}},
		Vectors:  []float32{1, 0, 0, 1},
	}
	l := NewLocal(idx, 0.5)
	res, err := l.Retrieve(context.Background(), []float32{1, 0}, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(res) != 1 {
		t.Fatalf("min score not applied, got %d results", len(res))
	}
}
