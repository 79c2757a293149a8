package config

import (
	"time"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Config is the root configuration for eu4achievements.
type Config struct {
	Source  SourceConfig  `mapstructure:"source"  yaml:"source"`
	Fetcher FetcherConfig `mapstructure:"fetcher" yaml:"fetcher"`
	Output  OutputConfig  `mapstructure:"output"  yaml:"output"`
	Storage StorageConfig `mapstructure:"storage" yaml:"storage"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
}

// SourceConfig describes where achievements and difficulty ratings come from.
// Profile URL templates accept the {user} and {app} placeholders.
type SourceConfig struct {
	AppID              string          `mapstructure:"app_id"               yaml:"app_id"`
	ProfileURL         string          `mapstructure:"profile_url"          yaml:"profile_url"`
	ProfileFallbackURL string          `mapstructure:"profile_fallback_url" yaml:"profile_fallback_url"`
	WikiURL            string          `mapstructure:"wiki_url"             yaml:"wiki_url"`
	Selectors          SelectorsConfig `mapstructure:"selectors"            yaml:"selectors"`
}

// SelectorsConfig holds the structural markers the extractors rely on.
type SelectorsConfig struct {
	AchievementRow  string `mapstructure:"achievement_row"  yaml:"achievement_row"`
	Title           string `mapstructure:"title"            yaml:"title"`
	Description     string `mapstructure:"description"      yaml:"description"`
	UnlockTime      string `mapstructure:"unlock_time"      yaml:"unlock_time"`
	DifficultyRows  string `mapstructure:"difficulty_rows"  yaml:"difficulty_rows"`
	DifficultyTitle string `mapstructure:"difficulty_title" yaml:"difficulty_title"`
}

// FetcherConfig controls the page fetcher.
type FetcherConfig struct {
	Type            string        `mapstructure:"type"             yaml:"type"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"  yaml:"request_timeout"`
	UserAgent       string        `mapstructure:"user_agent"       yaml:"user_agent"`
	FollowRedirects bool          `mapstructure:"follow_redirects" yaml:"follow_redirects"`
	MaxRedirects    int           `mapstructure:"max_redirects"    yaml:"max_redirects"`
	MaxBodySize     int64         `mapstructure:"max_body_size"    yaml:"max_body_size"`
	Stealth         bool          `mapstructure:"stealth"          yaml:"stealth"`
}

// OutputConfig controls the report written to stdout.
type OutputConfig struct {
	Format string `mapstructure:"format" yaml:"format"`
}

// StorageConfig controls the optional export of surviving records.
type StorageConfig struct {
	Type       string      `mapstructure:"type"        yaml:"type"`
	OutputPath string      `mapstructure:"output_path" yaml:"output_path"`
	Mongo      MongoConfig `mapstructure:"mongo"       yaml:"mongo"`
}

// MongoConfig configures the MongoDB export sink.
type MongoConfig struct {
	URI        string `mapstructure:"uri"        yaml:"uri"`
	Database   string `mapstructure:"database"   yaml:"database"`
	Collection string `mapstructure:"collection" yaml:"collection"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Source: SourceConfig{
			AppID:              "236850",
			ProfileURL:         "https://steamcommunity.com/profiles/{user}/stats/{app}/achievements/",
			ProfileFallbackURL: "https://steamcommunity.com/id/{user}/stats/{app}/achievements/",
			WikiURL:            "https://eu4.paradoxwikis.com/Achievements",
			Selectors: SelectorsConfig{
				AchievementRow:  "div.achieveRow",
				Title:           "div.achieveTxt h3",
				Description:     "div.achieveTxt h5",
				UnlockTime:      "div.achieveUnlockTime",
				DifficultyRows:  "(//table)[1]//tr",
				DifficultyTitle: ".//*[@id]",
			},
		},
		Fetcher: FetcherConfig{
			Type:            "http",
			RequestTimeout:  0, // no timeout
			UserAgent:       "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			FollowRedirects: true,
			MaxRedirects:    10,
			MaxBodySize:     10 * 1024 * 1024, // 10MB
		},
		Output: OutputConfig{
			Format: "text",
		},
		Storage: StorageConfig{
			Type: "",
			Mongo: MongoConfig{
				Database:   "eu4achievements",
				Collection: "reports",
			},
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}
