package embedding

import (
	"context"
	"errors"
	"math"
	"testing"

	openai "github.com/sashabaranov/go-openai"
)

type stubClient struct {
	vectors map[string][]float32
	err     error
	calls   int
}

func (s *stubClient) CreateEmbeddings(ctx context.Context, req openai.EmbeddingRequestConverter) (openai.EmbeddingResponse, error) {
	s.calls++
	if s.err != nil {
		return openai.EmbeddingResponse{}, s.err
	}
	r := req.Convert()
	input, _ := r.Input.([]string)
	var data []openai.Embedding
	for i, text := range input {
		data = append(data, openai.Embedding{Index: i, Embedding: s.vectors[text]})
	}
	return openai.EmbeddingResponse{Data: data}, nil
}

func TestEmbed_NormalizesVector(t *testing.T) {
	e := &OpenAIEmbedder{client: &stubClient{vectors: map[string][]float32{"q": {3, 4}}}, model: "m"}
	v, err := e.Embed(context.Background(), "q")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if math.Abs(sum-1) > 1e-6 {
		t.Errorf("vector not unit norm: %f", sum)
	}
}

func TestEmbed_EmptyText(t *testing.T) {
	stub := &stubClient{}
	e := &OpenAIEmbedder{client: stub, model: "m"}
	if _, err := e.Embed(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty text")
	}
	if stub.calls != 0 {
		t.Error("empty text must not reach the API")
	}
}

func TestEmbed_APIError(t *testing.T) {
	e := &OpenAIEmbedder{client: &stubClient{err: errors.New("rate limited")}, model: "m"}
	if _, err := e.Embed(context.Background(), "q"); err == nil {
		t.Fatal("expected API error to propagate")
	}
}

func TestEmbedBatch_PreservesOrder(t *testing.T) {
	stub := &stubClient{vectors: map[string][]float32{
		"a": {1, 0},
		"b": {0, 1},
		"c": {1, 1},
	}}
	e := &OpenAIEmbedder{client: stub, model: "m"}
	out, err := e.EmbedBatch(context.Background(), []string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("EmbedBatch: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("got %d embeddings", len(out))
	}
	if out[0][0] == 0 {
		t.Error("order not preserved for first input")
	}
	if out[1][0] != 0 {
		t.Error("order not preserved for second input")
	}
}

func TestNewOpenAIEmbedder_RequiresKey(t *testing.T) {
	if _, err := NewOpenAIEmbedder("", "m"); err == nil {
		t.Fatal("expected error for missing API key")
	}
}
