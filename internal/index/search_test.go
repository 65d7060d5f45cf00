package index

import (
	"math"
	"testing"

	"tenk/internal/domain"
)

func TestCosine(t *testing.T) {
	cases := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 0}, []float32{1, 0}, 1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1},
		{"zero vector", []float32{0, 0}, []float32{1, 0}, 0},
	}
	for _, tc := range cases {
		got, err := Cosine(tc.a, tc.b)
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		if math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("%s: got %f want %f", tc.name, got, tc.want)
		}
	}
}

func TestCosine_LengthMismatch(t *testing.T) {
	if _, err := Cosine([]float32{1}, []float32{1, 0}); err != ErrVectorLengthMismatch {
		t.Fatalf("err = %v", err)
	}
}

func TestNormalizeL2(t *testing.T) {
	v := NormalizeL2([]float32{3, 4})
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if math.Abs(sum-1) > 1e-6 {
		t.Errorf("norm^2 = %f, want 1", sum)
	}

	zero := NormalizeL2([]float32{0, 0})
	if zero[0] != 0 || zero[1] != 0 {
		t.Error("zero vector should stay zero")
	}
}

func testIndex() *Index {
	return &Index{
		Manifest: Manifest{Dim: 2},
		Chunks: []domain.Chunk{
			{ID: "a:0", Text: "alpha"},
			{ID: "b:0", Text: "beta"},
			{ID: "c:0", Text: "gamma"},
		},
		Vectors: []float32{
			1, 0,
			0, 1,
			0.9, 0.1,
		},
	}
}

func TestSearch_RanksByScore(t *testing.T) {
	idx := testIndex()
	res := idx.Search([]float32{1, 0}, 2, 0)
	if len(res) != 2 {
		t.Fatalf("got %d results", len(res))
	}
	if res[0].Chunk.ID != "a:0" {
		t.Errorf("best = %s", res[0].Chunk.ID)
	}
	if res[1].Chunk.ID != "c:0" {
		t.Errorf("second = %s", res[1].Chunk.ID)
	}
	if res[0].Score < res[1].Score {
		t.Error("results not sorted descending")
	}
}

func TestSearch_MinScoreFilters(t *testing.T) {
	idx := testIndex()
	res := idx.Search([]float32{1, 0}, 10, 0.5)
	for _, r := range res {
		if r.Score < 0.5 {
			t.Errorf("result %s below threshold: %f", r.Chunk.ID, r.Score)
		}
	}
	if len(res) != 2 {
		t.Errorf("got %d results, want 2", len(res))
	}
}

func TestSearch_WrongDimension(t *testing.T) {
	idx := testIndex()
	if res := idx.Search([]float32{1, 0, 0}, 5, 0); res != nil {
		t.Fatalf("expected nil for wrong dimension, got %d results", len(res))
	}
}

func TestSearch_DefaultTopK(t *testing.T) {
	idx := testIndex()
	res := idx.Search([]float32{1, 0}, 0, -1)
	if len(res) != 3 {
		t.Errorf("got %d results, want all 3 under default topK", len(res))
	}
}
