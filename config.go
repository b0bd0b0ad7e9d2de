package main

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"

	"gopkg.in/yaml.v3"
)

const (
	DefaultBaseURL           = "https://intervals.icu/api/v1"
	defaultRateLimit         = 10.0
	defaultLogLevel          = "info"
	defaultWorkoutSyntaxPath = "docs/workout_syntax.md"
)

var athleteIDPattern = regexp.MustCompile(`^i?\d+$`)

// Config is the process configuration. It is built once at startup and
// never modified afterwards.
type Config struct {
	APIKey            string  `yaml:"api_key"`
	AthleteID         string  `yaml:"athlete_id"`
	BaseURL           string  `yaml:"base_url"`
	LogLevel          string  `yaml:"log_level"`
	RateLimit         float64 `yaml:"rate_limit"`
	ListenAddr        string  `yaml:"listen_addr"`
	WorkoutSyntaxPath string  `yaml:"workout_syntax_path"`
}

// LoadConfig reads the optional YAML file at path, then applies
// environment overrides from getenv and validates the result.
func LoadConfig(path string, getenv func(string) string) (Config, error) {
	cfg := Config{
		BaseURL:           DefaultBaseURL,
		LogLevel:          defaultLogLevel,
		RateLimit:         defaultRateLimit,
		WorkoutSyntaxPath: defaultWorkoutSyntaxPath,
	}

	if path == "" {
		path = getenv("INTERVALS_MCP_CONFIG")
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	overrides := []struct {
		env    string
		target *string
	}{
		{"API_KEY", &cfg.APIKey},
		{"ATHLETE_ID", &cfg.AthleteID},
		{"INTERVALS_API_BASE_URL", &cfg.BaseURL},
		{"INTERVALS_MCP_LOG_LEVEL", &cfg.LogLevel},
		{"INTERVALS_MCP_LISTEN_ADDR", &cfg.ListenAddr},
		{"INTERVALS_MCP_WORKOUT_SYNTAX", &cfg.WorkoutSyntaxPath},
	}
	for _, o := range overrides {
		if v := getenv(o.env); v != "" {
			*o.target = v
		}
	}
	if v := getenv("INTERVALS_MCP_RATE_LIMIT"); v != "" {
		limit, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return Config{}, fmt.Errorf("invalid INTERVALS_MCP_RATE_LIMIT %q: %w", v, err)
		}
		cfg.RateLimit = limit
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first configuration problem.
func (c Config) Validate() error {
	if c.APIKey == "" {
		return errors.New("API_KEY environment variable is not set or empty")
	}
	if !athleteIDPattern.MatchString(c.AthleteID) {
		return errors.New("ATHLETE_ID must be all digits (e.g. 123456) or start with 'i' followed by digits (e.g. i123456)")
	}
	if c.BaseURL == "" {
		return errors.New("INTERVALS_API_BASE_URL must not be empty")
	}
	if c.RateLimit <= 0 {
		return fmt.Errorf("rate limit must be positive, got %v", c.RateLimit)
	}
	if _, err := parseLogLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}
