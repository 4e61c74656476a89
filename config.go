package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Addr           string   `yaml:"addr"`
	DatabaseURL    string   `yaml:"database_url"`
	PageSize       int      `yaml:"page_size"`
	SeedFile       string   `yaml:"seed_file"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	QuizSeed       int64    `yaml:"quiz_seed"` // 0 = seed from clock
	LogLevel       string   `yaml:"log_level"`
}

func DefaultConfig() Config {
	return Config{
		Addr:           ":8080",
		DatabaseURL:    "trivia.db",
		PageSize:       10,
		SeedFile:       "data/trivia.json",
		AllowedOrigins: []string{"*"},
		LogLevel:       "info",
	}
}

// LoadConfig reads path (if non-empty) over the defaults, applies environment
// overrides, then validates.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}
	if err := applyEnv(&cfg, os.Getenv); err != nil {
		return Config{}, err
	}
	normalizeConfig(&cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config, getenv func(string) string) error {
	if port := getenv("PORT"); port != "" {
		cfg.Addr = ":" + port
	}
	if v := getenv("DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := getenv("PAGE_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PAGE_SIZE: %w", err)
		}
		cfg.PageSize = n
	}
	if v := getenv("SEED_FILE"); v != "" {
		cfg.SeedFile = v
	}
	if v := getenv("CORS_ORIGINS"); v != "" {
		cfg.AllowedOrigins = strings.Split(v, ",")
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	return nil
}

func normalizeConfig(cfg *Config) {
	cfg.Addr = strings.TrimSpace(cfg.Addr)
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	origins := cfg.AllowedOrigins[:0]
	for _, o := range cfg.AllowedOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	cfg.AllowedOrigins = origins
}

func (c Config) Validate() error {
	var errs []error
	if c.Addr == "" {
		errs = append(errs, errors.New("addr is required"))
	}
	if c.DatabaseURL == "" {
		errs = append(errs, errors.New("database_url is required"))
	}
	if c.PageSize < 1 {
		errs = append(errs, fmt.Errorf("page_size must be >= 1, got %d", c.PageSize))
	}
	if _, err := parseLogLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	errs = append(errs, c.validateOrigins())
	return errors.Join(errs...)
}

// validateOrigins rejects origin lists that cors.New would panic on.
func (c Config) validateOrigins() error {
	if len(c.AllowedOrigins) == 0 {
		return errors.New(`allowed_origins must not be empty; use ["*"] to allow every origin`)
	}
	var errs []error
	for _, o := range c.AllowedOrigins {
		if o == "*" || strings.HasPrefix(o, "http://") || strings.HasPrefix(o, "https://") {
			continue
		}
		errs = append(errs, fmt.Errorf("allowed origin %q must be \"*\" or start with http:// or https://", o))
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	cc := corsConfig(c)
	if err := cc.Validate(); err != nil {
		return fmt.Errorf("allowed_origins: %w", err)
	}
	return nil
}

func parseLogLevel(s string) (slog.Level, error) {
	switch s {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log_level %q", s)
}

// allowsAllOrigins reports whether CORS should answer with a wildcard.
func (c Config) allowsAllOrigins() bool {
	for _, o := range c.AllowedOrigins {
		if o == "*" {
			return true
		}
	}
	return false
}
