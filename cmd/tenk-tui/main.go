package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"tenk/internal/answer"
	"tenk/internal/config"
	"tenk/internal/embedding"
	"tenk/internal/engine"
	"tenk/internal/index"
	"tenk/internal/retriever"
	"tenk/internal/secrets"
	"tenk/internal/tui"
)

func main() {
	_ = godotenv.Load()

	var cfgPath string
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ~/.config/tenk/config.yaml if not provided)")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

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

	apiKey, err := secrets.ResolveAPIKey(cfg.OpenAI.SecretsFile, cfg.OpenAI.APIKeyEnv)
	if err != nil {
		fmt.Fprintf(os.Stderr, "OpenAI API key not found. Set it in %s or as $%s.\n", cfg.OpenAI.SecretsFile, cfg.OpenAI.APIKeyEnv)
		os.Exit(1)
	}

	emb, err := embedding.NewOpenAIEmbedder(apiKey, cfg.OpenAI.EmbedModel)
	if err != nil {
		logger.Error("embedder init failed", "error", err)
		os.Exit(1)
	}
	synth, err := answer.NewSynthesizer(answer.Config{
		APIKey:      apiKey,
		Model:       cfg.OpenAI.ChatModel,
		MaxTokens:   cfg.OpenAI.MaxTokens,
		Temperature: cfg.OpenAI.Temperature,
	})
	if err != nil {
		logger.Error("chat model init failed", "error", err)
		os.Exit(1)
	}

	// A load failure disables querying but the shell still runs; the
	// dispatcher answers with its fixed error message.
	var qe *engine.Engine
	var summary string
	switch cfg.Retriever.Type {
	case "qdrant":
		if cfg.Retriever.Qdrant == nil {
			logger.Error("qdrant retriever selected but not configured")
			os.Exit(1)
		}
		q, err := retriever.NewQdrant(retriever.QdrantConfig{
			URL:        cfg.Retriever.Qdrant.URL,
			APIKey:     cfg.Retriever.Qdrant.APIKey,
			Collection: cfg.Retriever.Qdrant.Collection,
			Timeout:    time.Duration(cfg.Retriever.Qdrant.TimeoutSecs) * time.Second,
		})
		if err != nil {
			logger.Error("qdrant init failed", "error", err)
			os.Exit(1)
		}
		qe = engine.New(emb, q, synth, cfg.Retrieval.TopK)
	default:
		idx, err := index.NewLoader(cfg.Index.Dir).Get()
		if err != nil {
			logger.Error("index load failed", "dir", cfg.Index.Dir, "error", err)
		} else {
			qe = engine.New(emb, retriever.NewLocal(idx, cfg.Retrieval.MinScore), synth, cfg.Retrieval.TopK)
			summary = idx.Manifest.Summary
		}
	}

	m := tui.New(qe, summary)
	if _, err := tea.NewProgram(m).Run(); err != nil {
		logger.Error("tui stopped", "error", err)
		os.Exit(1)
	}
}
