package retriever

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"tenk/internal/domain"
)

func TestQdrant_Retrieve(t *testing.T) {
	var gotPath string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"result": []map[string]any{
				{
					"score": 0.87,
					"payload": map[string]any{
						"chunk_id": "tmus:3",
						"source":   "tmus-10k.txt",
						"section":  "Item 1A.",
						"seq":      3,
						"text":     "Spectrum availability is a risk.",
					},
				},
			},
		})
	}))
	defer srv.Close()

	q, err := NewQdrant(QdrantConfig{URL: srv.URL, Collection: "tenk"})
	if err != nil {
		t.Fatalf("NewQdrant: %v", err)
	}
	res, err := q.Retrieve(context.Background(), []float32{1, 0}, 3)
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if gotPath != "/collections/tenk/points/search" {
		t.Errorf("path = %q", gotPath)
	}
	if gotBody["limit"].(float64) != 3 {
		t.Errorf("limit = %v", gotBody["limit"])
	}
	if len(res) != 1 {
		t.Fatalf("got %d results", len(res))
	}
	want := domain.Chunk{ID: "tmus:3", Source: "tmus-10k.txt", Section: "Item 1A.", Seq: 3, Text: "Spectrum availability is a risk."}
	if res[0].Chunk != want {
		t.Errorf("chunk = %+v", res[0].Chunk)
	}
	if res[0].Score != 0.87 {
		t.Errorf("score = %f", res[0].Score)
	}
}

func TestQdrant_RetrieveServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	q, err := NewQdrant(QdrantConfig{URL: srv.URL, Collection: "tenk"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := q.Retrieve(context.Background(), []float32{1}, 5); err == nil {
		t.Fatal("expected error on 500")
	}
}

func TestQdrant_UpsertLengthMismatch(t *testing.T) {
	q, err := NewQdrant(QdrantConfig{URL: "http://localhost:6333", Collection: "tenk"})
	if err != nil {
		t.Fatal(err)
	}
	err = q.Upsert(context.Background(), []domain.Chunk{{ID: "a"}}, nil)
	if err == nil {
		t.Fatal("expected length mismatch error")
	}
}

func TestNewQdrant_Validation(t *testing.T) {
	if _, err := NewQdrant(QdrantConfig{Collection: "c"}); err == nil {
		t.Error("missing url accepted")
	}
	if _, err := NewQdrant(QdrantConfig{URL: "http://x"}); err == nil {
		t.Error("missing collection accepted")
	}
}
