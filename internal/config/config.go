package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ServerConfig holds the web front end's listen settings.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// IndexConfig locates the persisted index on disk.
type IndexConfig struct {
	Dir string `yaml:"dir"`
}

// OpenAIConfig configures the embeddings and chat completion client.
type OpenAIConfig struct {
	APIKeyEnv   string  `yaml:"api_key_env"`
	SecretsFile string  `yaml:"secrets_file"`
	EmbedModel  string  `yaml:"embed_model"`
	ChatModel   string  `yaml:"chat_model"`
	TimeoutSecs int     `yaml:"timeout_secs"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float32 `yaml:"temperature"`
}

// RetrievalConfig controls how many chunks feed answer synthesis.
type RetrievalConfig struct {
	TopK     int     `yaml:"top_k"`
	MinScore float64 `yaml:"min_score"`
}

// ChunkerConfig configures how filings are split during index builds.
type ChunkerConfig struct {
	SentencesPerChunk int `yaml:"sentences_per_chunk"`
	OverlapSentences  int `yaml:"overlap_sentences"`
}

// SummaryConfig configures the corpus summary written into the manifest.
type SummaryConfig struct {
	MaxSentences int `yaml:"max_sentences"`
}

// QdrantConfig contains connection details for a Qdrant retriever.
type QdrantConfig struct {
	URL         string `yaml:"url"`
	APIKey      string `yaml:"api_key"`
	Collection  string `yaml:"collection"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// RetrieverConfig selects where query vectors are matched: the local
// persisted index or a remote Qdrant collection.
type RetrieverConfig struct {
	Type   string        `yaml:"type"`
	Qdrant *QdrantConfig `yaml:"qdrant,omitempty"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Server    ServerConfig    `yaml:"server"`
	Index     IndexConfig     `yaml:"index"`
	OpenAI    OpenAIConfig    `yaml:"openai"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
	Chunker   ChunkerConfig   `yaml:"chunker"`
	Summary   SummaryConfig   `yaml:"summary"`
	Retriever RetrieverConfig `yaml:"retriever"`
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := defaultConfig()
			return cfg, nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(&cfg)
	return &cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/tenk/config.yaml.
// If neither exists, it writes defaults to ~/.config/tenk/config.yaml and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "tenk", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{Addr: ":8080"},
		Index:  IndexConfig{Dir: "index_10k_storage"},
		OpenAI: OpenAIConfig{
			APIKeyEnv:   "OPENAI_API_KEY",
			SecretsFile: "secrets.yaml",
			EmbedModel:  "text-embedding-3-small",
			ChatModel:   "gpt-4o-mini",
			TimeoutSecs: 60,
			MaxTokens:   700,
			Temperature: 0.1,
		},
		Retrieval: RetrievalConfig{TopK: 5},
		Chunker:   ChunkerConfig{SentencesPerChunk: 8, OverlapSentences: 2},
		Summary:   SummaryConfig{MaxSentences: 3},
		Retriever: RetrieverConfig{Type: "local"},
	}
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Index.Dir == "" {
		cfg.Index.Dir = "index_10k_storage"
	}
	if cfg.OpenAI.APIKeyEnv == "" {
		cfg.OpenAI.APIKeyEnv = "OPENAI_API_KEY"
	}
	if cfg.OpenAI.SecretsFile == "" {
		cfg.OpenAI.SecretsFile = "secrets.yaml"
	}
	if cfg.OpenAI.EmbedModel == "" {
		cfg.OpenAI.EmbedModel = "text-embedding-3-small"
	}
	if cfg.OpenAI.ChatModel == "" {
		cfg.OpenAI.ChatModel = "gpt-4o-mini"
	}
	if cfg.OpenAI.TimeoutSecs == 0 {
		cfg.OpenAI.TimeoutSecs = 60
	}
	if cfg.OpenAI.MaxTokens == 0 {
		cfg.OpenAI.MaxTokens = 700
	}
	if cfg.Retrieval.TopK == 0 {
		cfg.Retrieval.TopK = 5
	}
	if cfg.Chunker.SentencesPerChunk == 0 {
		cfg.Chunker.SentencesPerChunk = 8
	}
	if cfg.Summary.MaxSentences == 0 {
		cfg.Summary.MaxSentences = 3
	}
	if cfg.Retriever.Type == "" {
		cfg.Retriever.Type = "local"
	}
	if cfg.Retriever.Type == "qdrant" && cfg.Retriever.Qdrant != nil && cfg.Retriever.Qdrant.TimeoutSecs == 0 {
		cfg.Retriever.Qdrant.TimeoutSecs = 15
	}
}
