package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Validate checks the configuration for invalid values.
func Validate(cfg *Config) error {
	if cfg.Source.AppID == "" {
		return fmt.Errorf("source.app_id must not be empty")
	}
	for key, tmpl := range map[string]string{
		"source.profile_url":          cfg.Source.ProfileURL,
		"source.profile_fallback_url": cfg.Source.ProfileFallbackURL,
	} {
		if key == "source.profile_fallback_url" && tmpl == "" {
			continue
		}
		if !strings.Contains(tmpl, "{user}") {
			return fmt.Errorf("%s must contain the {user} placeholder, got %q", key, tmpl)
		}
		if err := ValidateURL(ExpandProfileURL(tmpl, "user", cfg.Source.AppID)); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
	}
	if err := ValidateURL(cfg.Source.WikiURL); err != nil {
		return fmt.Errorf("source.wiki_url: %w", err)
	}

	sel := cfg.Source.Selectors
	for key, val := range map[string]string{
		"source.selectors.achievement_row":  sel.AchievementRow,
		"source.selectors.title":            sel.Title,
		"source.selectors.description":      sel.Description,
		"source.selectors.unlock_time":      sel.UnlockTime,
		"source.selectors.difficulty_rows":  sel.DifficultyRows,
		"source.selectors.difficulty_title": sel.DifficultyTitle,
	} {
		if strings.TrimSpace(val) == "" {
			return fmt.Errorf("%s must not be empty", key)
		}
	}

	if cfg.Fetcher.Type != "http" && cfg.Fetcher.Type != "browser" {
		return fmt.Errorf("fetcher.type must be 'http' or 'browser', got %q", cfg.Fetcher.Type)
	}
	if cfg.Fetcher.RequestTimeout < 0 {
		return fmt.Errorf("fetcher.request_timeout must be >= 0")
	}
	if cfg.Fetcher.MaxBodySize <= 0 {
		return fmt.Errorf("fetcher.max_body_size must be > 0")
	}
	if cfg.Fetcher.MaxRedirects < 0 {
		return fmt.Errorf("fetcher.max_redirects must be >= 0")
	}

	if cfg.Output.Format != "text" && cfg.Output.Format != "table" {
		return fmt.Errorf("output.format must be 'text' or 'table', got %q", cfg.Output.Format)
	}

	validStorageTypes := map[string]bool{
		"": true, "json": true, "jsonl": true, "csv": true, "mongodb": true,
	}
	if !validStorageTypes[cfg.Storage.Type] {
		return fmt.Errorf("storage.type %q is not supported (valid: json, jsonl, csv, mongodb)", cfg.Storage.Type)
	}
	switch cfg.Storage.Type {
	case "json", "jsonl", "csv":
		if cfg.Storage.OutputPath == "" {
			return fmt.Errorf("storage.output_path is required for storage.type %q", cfg.Storage.Type)
		}
	case "mongodb":
		if cfg.Storage.Mongo.URI == "" {
			return fmt.Errorf("storage.mongo.uri is required for storage.type \"mongodb\"")
		}
		if cfg.Storage.Mongo.Database == "" || cfg.Storage.Mongo.Collection == "" {
			return fmt.Errorf("storage.mongo.database and storage.mongo.collection must not be empty")
		}
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[cfg.Logging.Level] {
		return fmt.Errorf("logging.level must be debug/info/warn/error, got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "text" && cfg.Logging.Format != "json" {
		return fmt.Errorf("logging.format must be 'text' or 'json', got %q", cfg.Logging.Format)
	}

	return nil
}

// ValidateURL checks if a URL string is valid for fetching.
func ValidateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("URL scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("URL must have a host")
	}
	return nil
}

// ExpandProfileURL fills the {user} and {app} placeholders of a profile URL
// template. The user identifier is path-escaped.
func ExpandProfileURL(tmpl, user, appID string) string {
	return strings.NewReplacer(
		"{user}", url.PathEscape(user),
		"{app}", url.PathEscape(appID),
	).Replace(tmpl)
}
