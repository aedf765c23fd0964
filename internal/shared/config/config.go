package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/reshetovitsme/posbon/internal/shared/errors"
	"github.com/samber/lo"
	"github.com/samber/oops"
)

type Config struct {
	TelegramBotToken string  `koanf:"telegram_bot_token"`
	TelegramAPIURL   string  `koanf:"telegram_api_url"`
	DatabaseURL      string  `koanf:"database_url"`
	RedisURL         string  `koanf:"redis_url"`
	HTTPPort         string  `koanf:"http_port"`
	AdminToken       string  `koanf:"admin_token"`
	LogLevel         string  `koanf:"log_level"`
	FloodMuteMinutes int     `koanf:"flood_mute_minutes"`
	PolicyCacheTTL   int     `koanf:"policy_cache_ttl"`
	AuditBuffer      int     `koanf:"audit_buffer"`
	OwnerIDs         []int64 `koanf:"owner_ids"`
	AppEnv           AppEnv  `koanf:"app_env"`
}

func Load() (*Config, error) {
	k := koanf.New(".")

	// Try to load config file from various formats
	configFiles := []string{
		"config.yaml",
		"config.yml",
		"config.json",
		"config.toml",
	}

	configFile, found := lo.Find(configFiles, func(file string) bool {
		_, err := os.Stat(file)
		return err == nil
	})

	if found {
		var parser koanf.Parser
		ext := filepath.Ext(configFile)

		switch ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		case ".toml":
			parser = toml.Parser()
		default:
			return nil, oops.Errorf("unsupported config file extension: %s", ext)
		}

		if err := k.Load(file.Provider(configFile), parser); err != nil {
			return nil, oops.With("config_file", configFile).Wrap(err)
		}
	}

	// Environment variables override config file values
	if err := k.Load(env.Provider("", ".", func(s string) string {
		return strings.ToLower(s)
	}), nil); err != nil {
		return nil, oops.With("context", "loading environment variables").Wrap(err)
	}

	setDefaults(k)

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, oops.With("context", "unmarshaling config").Wrap(err)
	}

	// owner_ids arrives as a comma-separated string from env vars and as a list from config files
	if ownerIDs := k.Get("owner_ids"); ownerIDs != nil {
		switch v := ownerIDs.(type) {
		case string:
			cfg.OwnerIDs = ParseOwnerIDs(v)
		case []interface{}:
			cfg.OwnerIDs = lo.FilterMap(v, func(item interface{}, _ int) (int64, bool) {
				switch val := item.(type) {
				case int64:
					return val, true
				case int:
					return int64(val), true
				case float64:
					return int64(val), true
				default:
					return 0, false
				}
			})
		}
	}

	if env, err := ParseAppEnv(k.String("app_env")); err == nil {
		cfg.AppEnv = env
	} else {
		cfg.AppEnv = AppEnvProduction
	}

	if cfg.TelegramBotToken == "" {
		return nil, errors.ErrMissingBotToken
	}

	return &cfg, nil
}

func setDefaults(k *koanf.Koanf) {
	defaults := map[string]any{
		"telegram_api_url":   "https://api.telegram.org",
		"database_url":       "sqlite://./data/posbon.db",
		"http_port":          "8080",
		"log_level":          "info",
		"flood_mute_minutes": 5,
		"policy_cache_ttl":   60,
		"audit_buffer":       256,
		"app_env":            "production",
	}
	for key, value := range defaults {
		if !k.Exists(key) {
			k.Set(key, value)
		}
	}
}

// SlogLevel maps log_level onto a slog level, falling back to info.
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func (c *Config) PolicyCacheDuration() time.Duration {
	return time.Duration(c.PolicyCacheTTL) * time.Second
}

// IsOwner reports whether the user is one of the configured bot owners
func (c *Config) IsOwner(userID int64) bool {
	return lo.Contains(c.OwnerIDs, userID)
}

// ParseOwnerIDs parses comma-separated user IDs string into []int64
func ParseOwnerIDs(s string) []int64 {
	if s == "" {
		return []int64{}
	}
	parts := strings.Split(s, ",")
	return lo.FilterMap(parts, func(part string, _ int) (int64, bool) {
		part = strings.TrimSpace(part)
		if part == "" {
			return 0, false
		}
		var id int64
		if _, err := fmt.Sscanf(part, "%d", &id); err == nil {
			return id, true
		}
		return 0, false
	})
}
