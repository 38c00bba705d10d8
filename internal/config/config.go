package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultTimezone     = "UTC"
	configPathEnv       = "AGENCYPULSE_CONFIG"
	databaseDSNEnv      = "DATABASE_DSN"
	sentimentKeyEnv     = "SENTIMENT_API_KEY"
	sentimentURLEnv     = "SENTIMENT_API_ENDPOINT"
	sentimentBackendEnv = "SENTIMENT_BACKEND"
	youtubeKeyEnv       = "YOUTUBE_API_KEY"
	telegramTokenEnv    = "TELEGRAM_BOT_TOKEN"
	telegramChatIDEnv   = "TELEGRAM_CHAT_ID"
)

// Backend names accepted in SentimentConfig.Backend.
const (
	BackendLexicon = "lexicon"
	BackendRemote  = "remote"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging       LoggingConfig      `yaml:"logging"`
	Pipeline      PipelineConfig     `yaml:"pipeline"`
	Sentiment     SentimentConfig    `yaml:"sentiment"`
	Agency        AgencyConfig       `yaml:"agency"`
	Sources       []SourceConfig     `yaml:"sources"`
	Scheduler     SchedulerConfig    `yaml:"scheduler"`
	Database      DatabaseConfig     `yaml:"database"`
	Notifications NotificationConfig `yaml:"notifications"`
}

// LoggingConfig controls slog verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// PipelineConfig fixes the dataset locations and normalization
// thresholds each stage works against. Paths are explicit so stages can
// run against temporary directories in tests.
type PipelineConfig struct {
	RawDir        string `yaml:"rawDir"`
	CanonicalPath string `yaml:"canonicalPath"`
	ScoredPath    string `yaml:"scoredPath"`
	AggregatePath string `yaml:"aggregatePath"`
	MinTextLen    int    `yaml:"minTextLen"`
}

// SentimentConfig selects and parameterizes the scoring backend.
type SentimentConfig struct {
	Backend        string `yaml:"backend"`
	Endpoint       string `yaml:"endpoint"`
	APIKey         string `yaml:"apiKey"`
	BatchSize      int    `yaml:"batchSize"`
	TimeoutSeconds int    `yaml:"timeoutSeconds"`
}

// Timeout resolves the remote per-call timeout.
func (s SentimentConfig) Timeout() time.Duration {
	if s.TimeoutSeconds <= 0 {
		return 60 * time.Second
	}
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// AgencyConfig names the agency under observation and the query terms
// connectors search for.
type AgencyConfig struct {
	Name        string   `yaml:"name"`
	SearchTerms []string `yaml:"searchTerms"`
}

// SourceConfig describes a single connector with its scanner strategy.
type SourceConfig struct {
	Name    string            `yaml:"name"`
	Scanner string            `yaml:"scanner"`
	Options map[string]string `yaml:"options"`
}

// SchedulerConfig defines when the full pipeline should run.
type SchedulerConfig struct {
	CronExpression string         `yaml:"cronExpression"`
	Timezone       string         `yaml:"timezone"`
	location       *time.Location `yaml:"-"`
}

// Location resolves the scheduler timezone string to a time.Location.
func (s SchedulerConfig) Location() *time.Location {
	if s.location != nil {
		return s.location
	}
	loc, _ := time.LoadLocation(defaultTimezone)
	return loc
}

// DatabaseConfig describes the optional run-ledger Postgres connection.
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

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	cfg.bindTimezone()

	if len(cfg.Sources) == 0 {
		cfg.Sources = defaultConfig().Sources
	}

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Database.DSN = v
	}

	if v := os.Getenv(sentimentKeyEnv); v != "" {
		c.Sentiment.APIKey = v
	}

	if v := os.Getenv(sentimentURLEnv); v != "" {
		c.Sentiment.Endpoint = v
	}

	if v := os.Getenv(sentimentBackendEnv); v != "" {
		c.Sentiment.Backend = v
	}

	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Notifications.Telegram.BotToken = v
	}

	if v := os.Getenv(telegramChatIDEnv); v != "" {
		c.Notifications.Telegram.ChatID = v
	}
}

// YouTubeAPIKey is read from the environment only; the YouTube
// connector is skipped when it is absent.
func YouTubeAPIKey() string {
	return os.Getenv(youtubeKeyEnv)
}

func (c *Config) bindTimezone() {
	tz := c.Scheduler.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("config: unknown timezone %s, reverting to %s", tz, defaultTimezone)
		loc, _ = time.LoadLocation(defaultTimezone)
	}
	c.Scheduler.location = loc
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	if override.Pipeline.RawDir != "" {
		base.Pipeline.RawDir = override.Pipeline.RawDir
	}
	if override.Pipeline.CanonicalPath != "" {
		base.Pipeline.CanonicalPath = override.Pipeline.CanonicalPath
	}
	if override.Pipeline.ScoredPath != "" {
		base.Pipeline.ScoredPath = override.Pipeline.ScoredPath
	}
	if override.Pipeline.AggregatePath != "" {
		base.Pipeline.AggregatePath = override.Pipeline.AggregatePath
	}
	if override.Pipeline.MinTextLen > 0 {
		base.Pipeline.MinTextLen = override.Pipeline.MinTextLen
	}

	if override.Sentiment.Backend != "" {
		base.Sentiment.Backend = override.Sentiment.Backend
	}
	if override.Sentiment.Endpoint != "" {
		base.Sentiment.Endpoint = override.Sentiment.Endpoint
	}
	if override.Sentiment.APIKey != "" {
		base.Sentiment.APIKey = override.Sentiment.APIKey
	}
	if override.Sentiment.BatchSize > 0 {
		base.Sentiment.BatchSize = override.Sentiment.BatchSize
	}
	if override.Sentiment.TimeoutSeconds > 0 {
		base.Sentiment.TimeoutSeconds = override.Sentiment.TimeoutSeconds
	}

	if override.Agency.Name != "" {
		base.Agency.Name = override.Agency.Name
	}
	if len(override.Agency.SearchTerms) > 0 {
		base.Agency.SearchTerms = override.Agency.SearchTerms
	}

	if override.Scheduler.CronExpression != "" {
		base.Scheduler.CronExpression = override.Scheduler.CronExpression
	}
	if override.Scheduler.Timezone != "" {
		base.Scheduler.Timezone = override.Scheduler.Timezone
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

	if len(override.Sources) > 0 {
		base.Sources = override.Sources
	}

	return base
}

func defaultConfig() Config {
	tz, _ := time.LoadLocation(defaultTimezone)
	return Config{
		Logging: LoggingConfig{Level: "info"},
		Pipeline: PipelineConfig{
			RawDir:        "data/raw",
			CanonicalPath: "data/interim/mentions_clean.csv",
			ScoredPath:    "data/processed/mentions_scored.csv",
			AggregatePath: "data/processed/exports/category_month_sentiment.csv",
			MinTextLen:    15,
		},
		Sentiment: SentimentConfig{
			Backend:        BackendLexicon,
			Endpoint:       "https://api.example.org/text/analytics/sentiment",
			BatchSize:      10,
			TimeoutSeconds: 60,
		},
		Agency: AgencyConfig{
			Name: "Texas Department of Licensing and Regulation",
			SearchTerms: []string{
				`"Texas Department of Licensing and Regulation"`,
				"TDLR",
				"Texas licensing regulation",
			},
		},
		Scheduler: SchedulerConfig{CronExpression: "0 6 * * *", Timezone: defaultTimezone, location: tz},
		Sources: []SourceConfig{
			{Name: "reddit", Scanner: "reddit"},
			{Name: "youtube", Scanner: "youtube", Options: map[string]string{"videoIds": ""}},
			{Name: "gdelt", Scanner: "gdelt"},
		},
	}
}
