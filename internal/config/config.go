package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	APIURL         string
	HTTPAddr       string
	GRPCAddr       string
	Environment    string
	LogLevel       string
	HoursPerDay    float64
	SessionTTL     time.Duration
	MaxSessions    int
	AllowedOrigins []string
	RequestTimeout time.Duration
	ClientTimeout  time.Duration
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// NewConfig reads path (a dotenv file, optional) and the environment.
// Environment variables win over the file.
func NewConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetDefault("SPRINTKIT_API_URL", "http://localhost:5000")
	v.SetDefault("HTTP_ADDR", ":5641")
	v.SetDefault("GRPC_ADDR", ":5642")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("HOURS_PER_DAY", 2)
	v.SetDefault("SESSION_TTL", "2h")
	v.SetDefault("MAX_SESSIONS", 1000)
	v.SetDefault("ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("REQUEST_TIMEOUT", "60s")
	v.SetDefault("CLIENT_TIMEOUT", "30s")

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		}
	}
	v.AutomaticEnv()

	cfg := &Config{
		APIURL:         strings.TrimRight(v.GetString("SPRINTKIT_API_URL"), "/"),
		HTTPAddr:       v.GetString("HTTP_ADDR"),
		GRPCAddr:       v.GetString("GRPC_ADDR"),
		Environment:    v.GetString("ENVIRONMENT"),
		LogLevel:       v.GetString("LOG_LEVEL"),
		HoursPerDay:    v.GetFloat64("HOURS_PER_DAY"),
		SessionTTL:     v.GetDuration("SESSION_TTL"),
		MaxSessions:    v.GetInt("MAX_SESSIONS"),
		AllowedOrigins: splitList(v.GetString("ALLOWED_ORIGINS")),
		RequestTimeout: v.GetDuration("REQUEST_TIMEOUT"),
		ClientTimeout:  v.GetDuration("CLIENT_TIMEOUT"),
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.APIURL == "" {
		return errors.New("SPRINTKIT_API_URL is required")
	}
	if c.HoursPerDay <= 0 {
		return fmt.Errorf("HOURS_PER_DAY must be positive, got %v", c.HoursPerDay)
	}
	if c.MaxSessions <= 0 {
		return fmt.Errorf("MAX_SESSIONS must be positive, got %d", c.MaxSessions)
	}
	if c.SessionTTL <= 0 || c.RequestTimeout <= 0 || c.ClientTimeout <= 0 {
		return errors.New("SESSION_TTL, REQUEST_TIMEOUT and CLIENT_TIMEOUT must be positive durations")
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
