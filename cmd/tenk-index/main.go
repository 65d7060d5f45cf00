package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"tenk/internal/chunker"
	"tenk/internal/config"
	"tenk/internal/domain"
	"tenk/internal/embedding"
	"tenk/internal/index"
	"tenk/internal/retriever"
	"tenk/internal/secrets"
	"tenk/internal/summary"
)

func main() {
	_ = godotenv.Load()

	var cfgPath, docsDir, outDir string
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional)")
	flag.StringVar(&docsDir, "docs", "", "Directory containing 10-K filings as .txt files")
	flag.StringVar(&outDir, "out", "", "Output index directory (defaults to the configured index dir)")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if docsDir == "" {
		fmt.Fprintln(os.Stderr, "Usage: tenk-index [--config=config.yaml] --docs <dir> [--out <dir>]")
		os.Exit(1)
	}

	var cfg *config.AppConfig
	var err error
	if cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if outDir == "" {
		outDir = cfg.Index.Dir
	}

	apiKey, err := secrets.ResolveAPIKey(cfg.OpenAI.SecretsFile, cfg.OpenAI.APIKeyEnv)
	if err != nil {
		logger.Error("credential missing", "error", err)
		os.Exit(1)
	}
	emb, err := embedding.NewOpenAIEmbedder(apiKey, cfg.OpenAI.EmbedModel)
	if err != nil {
		logger.Error("embedder init failed", "error", err)
		os.Exit(1)
	}

	if err := build(context.Background(), cfg, emb, docsDir, outDir, logger); err != nil {
		logger.Error("index build failed", "error", err)
		os.Exit(1)
	}
}

func build(ctx context.Context, cfg *config.AppConfig, emb domain.Embedder, docsDir, outDir string, logger *slog.Logger) error {
	filings, err := loadFilings(docsDir)
	if err != nil {
		return err
	}
	if len(filings) == 0 {
		return fmt.Errorf("no .txt filings found under %s", docsDir)
	}
	logger.Info("filings loaded", "count", len(filings))

	ch := chunker.NewSentenceChunker(cfg.Chunker.SentencesPerChunk, cfg.Chunker.OverlapSentences)
	var chunks []domain.Chunk
	var texts []string
	var corpus strings.Builder
	for _, f := range filings {
		cs, err := ch.Chunk(f)
		if err != nil {
			return fmt.Errorf("chunking %s: %w", f.Path, err)
		}
		chunks = append(chunks, cs...)
		for _, c := range cs {
			texts = append(texts, c.Text)
		}
		corpus.WriteString("\n")
		corpus.WriteString(f.Content)
	}
	logger.Info("chunked", "chunks", len(chunks))

	vectors, err := emb.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("embedding chunks: %w", err)
	}
	dim := 0
	var flat []float32
	for i, v := range vectors {
		if dim == 0 {
			dim = len(v)
		}
		if len(v) != dim {
			return fmt.Errorf("embedding dim changed mid-run at chunk %d: got %d want %d", i, len(v), dim)
		}
		flat = append(flat, v...)
	}

	sum, err := summary.NewFrequencySummarizer().Summarize(corpus.String(), cfg.Summary.MaxSentences)
	if err != nil {
		return fmt.Errorf("summarizing corpus: %w", err)
	}

	manifest := index.Manifest{
		IndexVersion: 1,
		ModelID:      emb.ModelID(),
		Dim:          dim,
		Normalize:    true,
		Summary:      sum,
	}

	staging := outDir + ".staging"
	if err := os.RemoveAll(staging); err != nil {
		return err
	}
	if err := index.Write(staging, manifest, chunks, flat); err != nil {
		return err
	}
	if err := index.AtomicSwap(staging, outDir); err != nil {
		return err
	}
	logger.Info("index written", "dir", outDir, "chunks", len(chunks), "dim", dim)

	if cfg.Retriever.Type == "qdrant" && cfg.Retriever.Qdrant != nil {
		q, err := retriever.NewQdrant(retriever.QdrantConfig{
			URL:        cfg.Retriever.Qdrant.URL,
			APIKey:     cfg.Retriever.Qdrant.APIKey,
			Collection: cfg.Retriever.Qdrant.Collection,
			Timeout:    time.Duration(cfg.Retriever.Qdrant.TimeoutSecs) * time.Second,
		})
		if err != nil {
			return err
		}
		if err := q.EnsureCollection(ctx, dim); err != nil {
			return fmt.Errorf("ensuring qdrant collection: %w", err)
		}
		if err := q.Upsert(ctx, chunks, vectors); err != nil {
			return fmt.Errorf("pushing to qdrant: %w", err)
		}
		logger.Info("pushed to qdrant", "collection", cfg.Retriever.Qdrant.Collection)
	}
	return nil
}

func loadFilings(dir string) ([]domain.Filing, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot read docs dir %s: %w", dir, err)
	}
	var filings []domain.Filing
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(strings.ToLower(e.Name()), ".txt") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("cannot read %s: %w", path, err)
		}
		id := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		filings = append(filings, domain.Filing{
			ID:      id,
			Path:    e.Name(),
			Company: strings.ToUpper(strings.SplitN(id, "-", 2)[0]),
			Content: string(data),
		})
	}
	return filings, nil
}
