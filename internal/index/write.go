package index

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"tenk/internal/domain"
)

// Write writes index artifacts to dir.
func Write(dir string, manifest Manifest, chunks []domain.Chunk, vectors []float32) error {
	if manifest.Dim <= 0 {
		return fmt.Errorf("invalid dim: %d", manifest.Dim)
	}
	if len(chunks) == 0 {
		return fmt.Errorf("no chunks to write")
	}
	if len(vectors) != len(chunks)*manifest.Dim {
		return fmt.Errorf("vector length mismatch: got %d want %d", len(vectors), len(chunks)*manifest.Dim)
	}
	if manifest.ChunksFile == "" {
		manifest.ChunksFile = "chunks.jsonl"
	}
	if manifest.VectorFile == "" {
		manifest.VectorFile = "vectors.f32"
	}
	if manifest.CreatedAt == "" {
		manifest.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("cannot create index dir %s: %w", dir, err)
	}

	mb, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, "index_manifest.json"), mb, 0o644); err != nil {
		return fmt.Errorf("cannot write manifest: %w", err)
	}

	cf, err := os.Create(filepath.Join(dir, manifest.ChunksFile))
	if err != nil {
		return fmt.Errorf("cannot create chunks file: %w", err)
	}
	bw := bufio.NewWriter(cf)
	for _, c := range chunks {
		line, err := json.Marshal(c)
		if err != nil {
			_ = cf.Close()
			return err
		}
		if _, err := bw.Write(line); err != nil {
			_ = cf.Close()
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			_ = cf.Close()
			return err
		}
	}
	if err := bw.Flush(); err != nil {
		_ = cf.Close()
		return err
	}
	if err := cf.Close(); err != nil {
		return err
	}

	vf, err := os.Create(filepath.Join(dir, manifest.VectorFile))
	if err != nil {
		return fmt.Errorf("cannot create vectors file: %w", err)
	}
	if err := binary.Write(vf, binary.LittleEndian, vectors); err != nil {
		_ = vf.Close()
		return fmt.Errorf("cannot write vectors: %w", err)
	}
	return vf.Close()
}

// AtomicSwap replaces destDir with srcDir by renaming, keeping a backup
// until the swap succeeds.
func AtomicSwap(srcDir, destDir string) error {
	parent := filepath.Dir(destDir)
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return err
	}
	backup := destDir + ".bak"
	_ = os.RemoveAll(backup)
	if _, err := os.Stat(destDir); err == nil {
		if err := os.Rename(destDir, backup); err != nil {
			return err
		}
	}
	if err := os.Rename(srcDir, destDir); err != nil {
		if _, stErr := os.Stat(backup); stErr == nil {
			_ = os.Rename(backup, destDir)
		}
		return err
	}
	_ = os.RemoveAll(backup)
	return nil
}
