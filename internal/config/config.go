// Package config loads runtime settings for the commands from the environment
// and an optional .env file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/CK3thou/youtube-transcripts/internal/ratelimit"
)

// Config holds every setting the commands understand.
type Config struct {
	Delay         time.Duration
	Pacing        ratelimit.Pacing
	HTTPTimeout   time.Duration
	Retries       int
	UserAgent     string
	Proxy         string
	PlaylistLimit int
	StopOnBlocked bool

	OutputDir  string
	SQLitePath string

	S3Bucket   string
	S3Prefix   string
	S3Region   string
	S3Endpoint string

	RedisURL string
	CacheTTL time.Duration

	Port string
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Delay:       ratelimit.DefaultInterval,
		Pacing:      ratelimit.PacingFixed,
		HTTPTimeout: 30 * time.Second,
		Retries:     1,
		OutputDir:   "transcripts",
		S3Prefix:    "transcripts",
		CacheTTL:    15 * time.Minute,
		Port:        "8080",
	}
}

// Load reads .env files (missing files are fine) and then YTT_* variables.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("load env file: %w", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from getenv, starting from Default.
func FromEnv(getenv func(string) string) (Config, error) {
	cfg := Default()
	var err error

	if cfg.Delay, err = duration(getenv, "YTT_DELAY", cfg.Delay); err != nil {
		return cfg, err
	}
	if cfg.HTTPTimeout, err = duration(getenv, "YTT_HTTP_TIMEOUT", cfg.HTTPTimeout); err != nil {
		return cfg, err
	}
	if cfg.CacheTTL, err = duration(getenv, "YTT_CACHE_TTL", cfg.CacheTTL); err != nil {
		return cfg, err
	}
	if cfg.Retries, err = integer(getenv, "YTT_RETRIES", cfg.Retries); err != nil {
		return cfg, err
	}
	if cfg.PlaylistLimit, err = integer(getenv, "YTT_PLAYLIST_LIMIT", cfg.PlaylistLimit); err != nil {
		return cfg, err
	}
	if v := getenv("YTT_PACING"); v != "" {
		if cfg.Pacing, err = ratelimit.ParsePacing(v); err != nil {
			return cfg, fmt.Errorf("YTT_PACING: %w", err)
		}
	}
	if v := getenv("YTT_STOP_ON_BLOCKED"); v != "" {
		b, perr := strconv.ParseBool(v)
		if perr != nil {
			return cfg, fmt.Errorf("YTT_STOP_ON_BLOCKED: %w", perr)
		}
		cfg.StopOnBlocked = b
	}

	str(getenv, "YTT_USER_AGENT", &cfg.UserAgent)
	str(getenv, "YTT_PROXY", &cfg.Proxy)
	str(getenv, "YTT_OUTPUT_DIR", &cfg.OutputDir)
	str(getenv, "YTT_SQLITE_PATH", &cfg.SQLitePath)
	str(getenv, "YTT_S3_BUCKET", &cfg.S3Bucket)
	str(getenv, "YTT_S3_PREFIX", &cfg.S3Prefix)
	str(getenv, "YTT_S3_REGION", &cfg.S3Region)
	str(getenv, "YTT_S3_ENDPOINT", &cfg.S3Endpoint)
	str(getenv, "YTT_REDIS_URL", &cfg.RedisURL)
	str(getenv, "PORT", &cfg.Port)

	return cfg, nil
}

func str(getenv func(string) string, key string, dst *string) {
	if v := strings.TrimSpace(getenv(key)); v != "" {
		*dst = v
	}
}

// duration accepts Go durations ("5s") or plain seconds ("5").
func duration(getenv func(string) string, key string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(getenv(key))
	if v == "" {
		return def, nil
	}
	if secs, err := strconv.ParseFloat(v, 64); err == nil {
		if secs < 0 {
			return def, fmt.Errorf("%s: negative duration", key)
		}
		return time.Duration(secs * float64(time.Second)), nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def, fmt.Errorf("%s: %w", key, err)
	}
	if d < 0 {
		return def, fmt.Errorf("%s: negative duration", key)
	}
	return d, nil
}

func integer(getenv func(string) string, key string, def int) (int, error) {
	v := strings.TrimSpace(getenv(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}
