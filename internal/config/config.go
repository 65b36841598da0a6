package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type ServerConfig struct {
	Port         string `yaml:"port" validate:"required,numeric"`
	BasePath     string `yaml:"basePath" validate:"required,startswith=/"`
	ReadTimeout  string `yaml:"readTimeout"`
	WriteTimeout string `yaml:"writeTimeout"`
}

type LogConfig struct {
	Level      string `yaml:"level" validate:"oneof=debug info warn error"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"maxSizeMB" validate:"gte=0"`
	MaxBackups int    `yaml:"maxBackups" validate:"gte=0"`
	MaxAgeDays int    `yaml:"maxAgeDays" validate:"gte=0"`
}

type QuizConfig struct {
	Length int `yaml:"length" validate:"gt=0"`
	// RevealAnswers keeps correctAnswer in generated quizzes. Off outside of local play.
	RevealAnswers bool `yaml:"revealAnswers"`
}

// TemplatesConfig selects where the authored question bank is loaded from at startup.
type TemplatesConfig struct {
	Source string `yaml:"source" validate:"oneof=embedded file postgres minio"`
	File   string `yaml:"file" validate:"required_if=Source file"`
}

type PostgresConfig struct {
	URL string `yaml:"url"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr" validate:"omitempty,hostname_port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db" validate:"gte=0"`
	TTL      string `yaml:"ttl"`
}

type MinioConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
	Bucket    string `yaml:"bucket"`
	Object    string `yaml:"object"`
	UseSSL    bool   `yaml:"useSSL"`
}

type LeaderboardConfig struct {
	Source string `yaml:"source" validate:"oneof=embedded postgres"`
	TTL    string `yaml:"ttl"`
}

type CORSConfig struct {
	// Empty means any origin.
	AllowedOrigins []string `yaml:"allowedOrigins"`
}

type RateLimitConfig struct {
	MaxRequests int    `yaml:"maxRequests" validate:"gte=0"`
	Window      string `yaml:"window"`
}

type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Log         LogConfig         `yaml:"log"`
	Quiz        QuizConfig        `yaml:"quiz"`
	Templates   TemplatesConfig   `yaml:"templates"`
	Postgres    PostgresConfig    `yaml:"postgres"`
	Redis       RedisConfig       `yaml:"redis"`
	Minio       MinioConfig       `yaml:"minio"`
	Leaderboard LeaderboardConfig `yaml:"leaderboard"`
	CORS        CORSConfig        `yaml:"cors"`
	RateLimit   RateLimitConfig   `yaml:"rateLimit"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:         "5000",
			BasePath:     "/api",
			ReadTimeout:  "15s",
			WriteTimeout: "15s",
		},
		Log:         LogConfig{Level: "info", MaxSizeMB: 100, MaxBackups: 3, MaxAgeDays: 7},
		Quiz:        QuizConfig{Length: 20},
		Templates:   TemplatesConfig{Source: "embedded"},
		Redis:       RedisConfig{TTL: "10m"},
		Minio:       MinioConfig{Object: "questions.json"},
		Leaderboard: LeaderboardConfig{Source: "embedded", TTL: "1m"},
		RateLimit:   RateLimitConfig{MaxRequests: 60, Window: "1m"},
	}
}

// Load reads YAML config from path on top of Default. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return cfg, cfg.Validate()
	case err != nil:
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate checks field tags plus the cross-section requirements of the selected sources.
func (c Config) Validate() error {
	validate := validator.New()
	validate.RegisterStructValidation(sourceValidation, Config{})

	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate config: %w", err)
	}
	messages := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		messages = append(messages, fmt.Sprintf("%s failed %q (value: %v)", fe.Namespace(), fe.Tag(), fe.Value()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(messages, "; "))
}

func sourceValidation(sl validator.StructLevel) {
	c := sl.Current().Interface().(Config)
	if (c.Templates.Source == "postgres" || c.Leaderboard.Source == "postgres") && c.Postgres.URL == "" {
		sl.ReportError(c.Postgres.URL, "Postgres.URL", "url", "required_by_source", "")
	}
	if c.Templates.Source == "minio" {
		if c.Minio.Endpoint == "" {
			sl.ReportError(c.Minio.Endpoint, "Minio.Endpoint", "endpoint", "required_by_source", "")
		}
		if c.Minio.Bucket == "" {
			sl.ReportError(c.Minio.Bucket, "Minio.Bucket", "bucket", "required_by_source", "")
		}
	}
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
