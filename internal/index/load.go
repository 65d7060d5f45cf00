package index

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"tenk/internal/domain"
)

// Load reads a persisted index from dir containing manifest + chunks + vectors.
// On any failure it returns a nil index and an error; it never returns a
// partially constructed index.
func Load(dir string) (*Index, error) {
	manifestPath := filepath.Join(dir, "index_manifest.json")
	b, err := os.ReadFile(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("cannot read manifest %s: %w", manifestPath, err)
	}
	var m Manifest
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("invalid manifest JSON %s: %w", manifestPath, err)
	}
	if m.Dim <= 0 {
		return nil, fmt.Errorf("invalid dim in manifest: %d", m.Dim)
	}
	if m.ChunksFile == "" {
		m.ChunksFile = "chunks.jsonl"
	}
	if m.VectorFile == "" {
		m.VectorFile = "vectors.f32"
	}

	chunks, err := loadChunks(filepath.Join(dir, m.ChunksFile))
	if err != nil {
		return nil, err
	}
	vectors, err := loadVectors(filepath.Join(dir, m.VectorFile), len(chunks), m.Dim)
	if err != nil {
		return nil, err
	}

	return &Index{Manifest: m, Chunks: chunks, Vectors: vectors}, nil
}

func loadChunks(path string) ([]domain.Chunk, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open chunks file %s: %w", path, err)
	}
	defer f.Close()

	var out []domain.Chunk
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var c domain.Chunk
		if err := json.Unmarshal(line, &c); err != nil {
			return nil, fmt.Errorf("invalid chunks JSONL %s: %w", path, err)
		}
		out = append(out, c)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("cannot read chunks file %s: %w", path, err)
	}
	return out, nil
}

func loadVectors(path string, nChunks, dim int) ([]float32, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open vector file %s: %w", path, err)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("cannot stat vector file %s: %w", path, err)
	}
	if st.Size()%4 != 0 {
		return nil, fmt.Errorf("vector file size is not multiple of 4 bytes: %d", st.Size())
	}

	expected := int64(nChunks * dim * 4)
	if expected != st.Size() {
		return nil, fmt.Errorf("vector file size mismatch: got %d want %d (chunks=%d dim=%d)", st.Size(), expected, nChunks, dim)
	}

	out := make([]float32, nChunks*dim)
	if err := binary.Read(io.LimitReader(f, expected), binary.LittleEndian, out); err != nil {
		return nil, fmt.Errorf("cannot read vectors from %s: %w", path, err)
	}
	return out, nil
}
