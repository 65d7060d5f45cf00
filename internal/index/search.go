package index

import (
	"math"
	"sort"

	"tenk/internal/domain"
)

// Cosine computes cosine similarity between two vectors of equal length.
func Cosine(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, ErrVectorLengthMismatch
	}
	var dot, na, nb float64
	for i := 0; i < len(a); i++ {
		x := float64(a[i])
		y := float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	den := math.Sqrt(na) * math.Sqrt(nb)
	if den == 0 {
		return 0, nil
	}
	return dot / den, nil
}

// NormalizeL2 returns a new vector normalized to unit L2 norm.
func NormalizeL2(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	n := math.Sqrt(sum)
	out := make([]float32, len(v))
	if n == 0 {
		copy(out, v)
		return out
	}
	inv := float32(1.0 / n)
	for i := range v {
		out[i] = v[i] * inv
	}
	return out
}

// Search performs brute-force cosine similarity over all indexed chunks and
// returns up to topK results with score >= minScore, best first. A query
// vector of the wrong dimension yields no results.
func (x *Index) Search(vector []float32, topK int, minScore float64) []domain.SearchResult {
	if len(vector) != x.Manifest.Dim {
		return nil
	}
	if topK <= 0 {
		topK = 5
	}
	dim := x.Manifest.Dim
	results := make([]domain.SearchResult, 0, topK)
	for i := range x.Chunks {
		row := x.Vectors[i*dim : (i+1)*dim]
		score, err := Cosine(vector, row)
		if err != nil {
			continue
		}
		if score >= minScore {
			results = append(results, domain.SearchResult{Chunk: x.Chunks[i], Score: score})
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if topK < len(results) {
		results = results[:topK]
	}
	return results
}
