package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"archetype-quiz-service/internal/catalog"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Quiz struct {
		TTL string `yaml:"ttl"`
		// DefinitionDir holds {quizID}.yaml|.json files. Empty means the built-in catalog.
		DefinitionDir string `yaml:"definitionDir"`
		DefaultQuiz   string `yaml:"defaultQuiz"`
	} `yaml:"quiz"`
}

// Load reads YAML config from path, applies environment overrides and defaults,
// and rejects malformed durations.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	cfg.applyEnv()
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// applyEnv lets deployments point at backing stores without editing the file.
func (c *Config) applyEnv() {
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
	}
	if v := os.Getenv("POSTGRES_URL"); v != "" {
		c.Postgres.URL = v
	}
	if v := os.Getenv("QUIZ_DEFINITION_DIR"); v != "" {
		c.Quiz.DefinitionDir = v
	}
}

func (c *Config) applyDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
	if c.Quiz.DefaultQuiz == "" {
		c.Quiz.DefaultQuiz = catalog.DefaultQuizID
	}
}

// Validate reports every malformed duration at once.
func (c Config) Validate() error {
	var errs []error
	for name, raw := range map[string]string{"redis.ttl": c.Redis.TTL, "quiz.ttl": c.Quiz.TTL} {
		if raw == "" {
			continue
		}
		if d, err := time.ParseDuration(raw); err != nil || d < 0 {
			errs = append(errs, fmt.Errorf("%s: invalid duration %q", name, raw))
		}
	}
	return errors.Join(errs...)
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
