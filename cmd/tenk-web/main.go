package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"tenk/internal/answer"
	"tenk/internal/config"
	"tenk/internal/embedding"
	"tenk/internal/engine"
	"tenk/internal/index"
	"tenk/internal/retriever"
	"tenk/internal/secrets"
	"tenk/internal/web"
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

	// The web shell keeps serving when setup fails; querying is disabled
	// for the session and the failure shows as a banner.
	var qe *engine.Engine
	var summary, loadErr string

	apiKey, err := secrets.ResolveAPIKey(cfg.OpenAI.SecretsFile, cfg.OpenAI.APIKeyEnv)
	if err != nil {
		logger.Error("credential missing", "error", err)
		loadErr = "OpenAI API key not found. Please set it in the secrets file or as an environment variable."
	} else if eng, sum, msg := assemble(cfg, apiKey, logger); msg != "" {
		loadErr = msg
	} else {
		qe = eng
		summary = sum
	}

	srv := web.New(qe, summary, loadErr, logger)
	logger.Info("listening", "addr", cfg.Server.Addr)
	if err := srv.Router().Run(cfg.Server.Addr); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

// assemble builds the query engine, returning a user-facing message when
// the index cannot be loaded.
func assemble(cfg *config.AppConfig, apiKey string, logger *slog.Logger) (*engine.Engine, string, string) {
	emb, err := embedding.NewOpenAIEmbedder(apiKey, cfg.OpenAI.EmbedModel)
	if err != nil {
		return nil, "", "Error initializing embedder: " + err.Error()
	}
	synth, err := answer.NewSynthesizer(answer.Config{
		APIKey:      apiKey,
		Model:       cfg.OpenAI.ChatModel,
		MaxTokens:   cfg.OpenAI.MaxTokens,
		Temperature: cfg.OpenAI.Temperature,
	})
	if err != nil {
		return nil, "", "Error initializing chat model: " + err.Error()
	}

	switch cfg.Retriever.Type {
	case "qdrant":
		if cfg.Retriever.Qdrant == nil {
			return nil, "", "Error loading index: qdrant retriever selected but not configured."
		}
		q, err := retriever.NewQdrant(retriever.QdrantConfig{
			URL:        cfg.Retriever.Qdrant.URL,
			APIKey:     cfg.Retriever.Qdrant.APIKey,
			Collection: cfg.Retriever.Qdrant.Collection,
			Timeout:    time.Duration(cfg.Retriever.Qdrant.TimeoutSecs) * time.Second,
		})
		if err != nil {
			return nil, "", "Error loading index: " + err.Error()
		}
		return engine.New(emb, q, synth, cfg.Retrieval.TopK), "", ""
	default:
		loader := index.NewLoader(cfg.Index.Dir)
		idx, err := loader.Get()
		if err != nil {
			logger.Error("index load failed", "dir", cfg.Index.Dir, "error", err)
			return nil, "", "Error loading index: " + err.Error()
		}
		logger.Info("index loaded", "dir", cfg.Index.Dir, "chunks", idx.Len(), "dim", idx.Manifest.Dim)
		local := retriever.NewLocal(idx, cfg.Retrieval.MinScore)
		return engine.New(emb, local, synth, cfg.Retrieval.TopK), idx.Manifest.Summary, ""
	}
}
