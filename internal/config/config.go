package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the service configuration loaded from YAML
type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
	} `yaml:"server"`
	Storage struct {
		// Type selects the backend: "memory" or "redis"
		Type string `yaml:"type"`
	} `yaml:"storage"`
	Redis struct {
		URL            string `yaml:"url"`
		PoolSize       int    `yaml:"pool_size"`
		MinIdleConns   int    `yaml:"min_idle_conns"`
		QuizSessionTTL string `yaml:"quiz_session_ttl"`
	} `yaml:"redis"`
	Auth struct {
		SessionDuration string `yaml:"session_duration"`
		// DefaultPassword is assigned to new users and on admin resets
		DefaultPassword string `yaml:"default_password"`
	} `yaml:"auth"`
	Raffle struct {
		// Size is the number of slots on the raffle board
		Size int `yaml:"size"`
	} `yaml:"raffle"`
}

// Load reads YAML config from path.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Duration parses a duration string or returns the fallback if empty or
// malformed.
func Duration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
