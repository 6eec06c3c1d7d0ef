package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/go-playground/validator"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	configPathEnv     = "REVIEW_REPORT_CONFIG"
	logLevelEnv       = "LOG_LEVEL"
	logFormatEnv      = "LOG_FORMAT"
	sourceStrategyEnv = "REVIEW_SOURCE_STRATEGY"
	reviewCountEnv    = "REVIEW_COUNT"
	reviewLanguageEnv = "REVIEW_LANGUAGE"
	reviewCountryEnv  = "REVIEW_COUNTRY"
	scorerEnv         = "SENTIMENT_SCORER"
	outputDirEnv      = "REPORT_OUTPUT_DIR"
	databaseDSNEnv    = "DATABASE_DSN"
	chatGPTAPIKeyEnv  = "CHATGPT_API_KEY"
	chatGPTModelEnv   = "CHATGPT_MODEL"
	mlInferenceURLEnv = "ML_INFERENCE_URL"
	mlAPIKeyEnv       = "ML_API_KEY"
	telegramTokenEnv  = "TELEGRAM_BOT_TOKEN"
	telegramChatIDEnv = "TELEGRAM_CHAT_ID"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging       LoggingConfig      `yaml:"logging"`
	Source        SourceConfig       `yaml:"source"`
	Sentiment     SentimentConfig    `yaml:"sentiment"`
	ML            MLConfig           `yaml:"ml"`
	ChatGPT       ChatGPTConfig      `yaml:"chatgpt"`
	Report        ReportConfig       `yaml:"report"`
	Database      DatabaseConfig     `yaml:"database"`
	Notifications NotificationConfig `yaml:"notifications"`
}

// LoggingConfig selects the slog level and handler.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format" validate:"oneof=text json pretty"`
}

// SourceConfig is the fixed fetch configuration for every run.
type SourceConfig struct {
	Strategy string     `yaml:"strategy" validate:"oneof=playstore html"`
	Language string     `yaml:"language" validate:"required"`
	Country  string     `yaml:"country" validate:"required"`
	Count    int        `yaml:"count" validate:"min=1"`
	Sort     string     `yaml:"sort" validate:"oneof=most_relevant newest rating"`
	BaseURL  string     `yaml:"baseUrl"`
	HTML     HTMLConfig `yaml:"html"`
}

// HTMLConfig drives the HTML listing strategy.
type HTMLConfig struct {
	URL       string            `yaml:"url"`
	Selectors map[string]string `yaml:"selectors"`
	PageSize  int               `yaml:"pageSize"`
}

// SentimentConfig picks the polarity scorer.
type SentimentConfig struct {
	Scorer string `yaml:"scorer" validate:"oneof=lexicon ml llm"`
}

// MLConfig describes neural-service integration parameters.
type MLConfig struct {
	InferenceURL string `yaml:"inferenceUrl"`
	APIKey       string `yaml:"apiKey"`
}

// ChatGPTConfig defines how to contact the ChatGPT API.
type ChatGPTConfig struct {
	Endpoint     string `yaml:"endpoint"`
	Model        string `yaml:"model"`
	APIKey       string `yaml:"apiKey"`
	SystemPrompt string `yaml:"systemPrompt"`
}

// ReportConfig controls where artifacts are written.
type ReportConfig struct {
	OutputDir string `yaml:"outputDir"`
	TempDir   string `yaml:"tempDir"`
}

// DatabaseConfig describes Postgres connection details. An empty DSN
// disables run history.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// NotificationConfig encapsulates outbound channels (Telegram, etc.).
type NotificationConfig struct {
	Telegram TelegramConfig `yaml:"telegram"`
}

// TelegramConfig wires all data required to send messages.
type TelegramConfig struct {
	BotToken string `yaml:"botToken"`
	ChatID   string `yaml:"chatId"`
}

// Load reads .env and YAML configuration (if present), applies environment
// overrides and validates the result.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using environment variables")
	}

	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		var fileCfg Config
		if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
		cfg = mergeConfig(cfg, fileCfg)
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return Config{}, err
	}

	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func (c *Config) applyEnvOverrides() error {
	setString(&c.Logging.Level, logLevelEnv)
	setString(&c.Logging.Format, logFormatEnv)
	setString(&c.Source.Strategy, sourceStrategyEnv)
	setString(&c.Source.Language, reviewLanguageEnv)
	setString(&c.Source.Country, reviewCountryEnv)
	setString(&c.Sentiment.Scorer, scorerEnv)
	setString(&c.Report.OutputDir, outputDirEnv)
	setString(&c.Database.DSN, databaseDSNEnv)
	setString(&c.ChatGPT.APIKey, chatGPTAPIKeyEnv)
	setString(&c.ChatGPT.Model, chatGPTModelEnv)
	setString(&c.ML.InferenceURL, mlInferenceURLEnv)
	setString(&c.ML.APIKey, mlAPIKeyEnv)
	setString(&c.Notifications.Telegram.BotToken, telegramTokenEnv)
	setString(&c.Notifications.Telegram.ChatID, telegramChatIDEnv)

	if v := os.Getenv(reviewCountEnv); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", reviewCountEnv, err)
		}
		c.Source.Count = n
	}

	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}
	if override.Logging.Format != "" {
		base.Logging.Format = override.Logging.Format
	}

	if override.Source.Strategy != "" {
		base.Source.Strategy = override.Source.Strategy
	}
	if override.Source.Language != "" {
		base.Source.Language = override.Source.Language
	}
	if override.Source.Country != "" {
		base.Source.Country = override.Source.Country
	}
	if override.Source.Count != 0 {
		base.Source.Count = override.Source.Count
	}
	if override.Source.Sort != "" {
		base.Source.Sort = override.Source.Sort
	}
	if override.Source.BaseURL != "" {
		base.Source.BaseURL = override.Source.BaseURL
	}
	if override.Source.HTML.URL != "" {
		base.Source.HTML = override.Source.HTML
	}

	if override.Sentiment.Scorer != "" {
		base.Sentiment.Scorer = override.Sentiment.Scorer
	}

	if override.ML.InferenceURL != "" {
		base.ML.InferenceURL = override.ML.InferenceURL
	}
	if override.ML.APIKey != "" {
		base.ML.APIKey = override.ML.APIKey
	}

	if override.ChatGPT.Endpoint != "" {
		base.ChatGPT.Endpoint = override.ChatGPT.Endpoint
	}
	if override.ChatGPT.Model != "" {
		base.ChatGPT.Model = override.ChatGPT.Model
	}
	if override.ChatGPT.APIKey != "" {
		base.ChatGPT.APIKey = override.ChatGPT.APIKey
	}
	if override.ChatGPT.SystemPrompt != "" {
		base.ChatGPT.SystemPrompt = override.ChatGPT.SystemPrompt
	}

	if override.Report.OutputDir != "" {
		base.Report.OutputDir = override.Report.OutputDir
	}
	if override.Report.TempDir != "" {
		base.Report.TempDir = override.Report.TempDir
	}

	if override.Database.DSN != "" {
		base.Database = override.Database
	}

	if override.Notifications.Telegram.BotToken != "" {
		base.Notifications.Telegram.BotToken = override.Notifications.Telegram.BotToken
	}
	if override.Notifications.Telegram.ChatID != "" {
		base.Notifications.Telegram.ChatID = override.Notifications.Telegram.ChatID
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Logging: LoggingConfig{Level: "info", Format: "text"},
		Source: SourceConfig{
			Strategy: "playstore",
			Language: "en",
			Country:  "us",
			Count:    100,
			Sort:     "most_relevant",
		},
		Sentiment: SentimentConfig{Scorer: "lexicon"},
		ChatGPT: ChatGPTConfig{
			Endpoint: "https://api.openai.com/v1",
			Model:    "gpt-4o-mini",
		},
		Report: ReportConfig{OutputDir: "."},
	}
}
