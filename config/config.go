// config/config.go
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds every setting the API reads from the environment.
type Config struct {
	Port     string `mapstructure:"port"`
	Env      string `mapstructure:"env"`
	MongoURI string `mapstructure:"mongo_uri"`
	DBName   string `mapstructure:"db_name"`

	JWTSecret string        `mapstructure:"jwt_secret"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`

	RedisAddr      string        `mapstructure:"redis_addr"`
	RedisPassword  string        `mapstructure:"redis_password"`
	RedisDB        int           `mapstructure:"redis_db"`
	LookupCacheTTL time.Duration `mapstructure:"lookup_cache_ttl"`
	LookupTimeout  time.Duration `mapstructure:"lookup_timeout"`

	EmailService   string `mapstructure:"email_service"`
	SMTPHost       string `mapstructure:"smtp_host"`
	SMTPPort       int    `mapstructure:"smtp_port"`
	SMTPUser       string `mapstructure:"smtp_user"`
	SMTPPass       string `mapstructure:"smtp_pass"`
	SendGridAPIKey string `mapstructure:"sendgrid_api_key"`
	EmailFrom      string `mapstructure:"email_from"`
	FrontendURL    string `mapstructure:"frontend_url"`

	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`

	ExpirySweepCron    string `mapstructure:"expiry_sweep_cron"`
	CORSAllowedOrigins string `mapstructure:"cors_allowed_origins"`
	BodyLimit          string `mapstructure:"body_limit"`
}

var defaults = map[string]interface{}{
	"port":                 "8080",
	"env":                  "development",
	"mongo_uri":            "",
	"mongodb_uri":          "",
	"db_name":              "aecac",
	"jwt_secret":           "",
	"token_ttl":            7 * 24 * time.Hour,
	"redis_addr":           "",
	"redis_password":       "",
	"redis_db":             0,
	"lookup_cache_ttl":     24 * time.Hour,
	"lookup_timeout":       10 * time.Second,
	"email_service":        "",
	"smtp_host":            "",
	"smtp_port":            587,
	"smtp_user":            "",
	"smtp_pass":            "",
	"sendgrid_api_key":     "",
	"email_from":           "noreply@aecac.com.br",
	"frontend_url":         "http://localhost:5173",
	"log_level":            "info",
	"log_format":           "json",
	"expiry_sweep_cron":    "",
	"cors_allowed_origins": "",
	"body_limit":           "10M",
}

// Load reads the configuration from the process environment.
// Call godotenv.Load before it to pick up a local .env file.
func Load() (*Config, error) {
	cfg, err := load()
	if err != nil {
		return nil, err
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET environment variable is required")
	}
	return cfg, nil
}

// LoadDatabase is Load for the maintenance tools, which only need Mongo.
func LoadDatabase() (*Config, error) {
	return load()
}

func load() (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// Both names are in use across deployments.
	if cfg.MongoURI == "" {
		cfg.MongoURI = v.GetString("mongodb_uri")
	}
	if cfg.MongoURI == "" && cfg.IsDevelopment() {
		cfg.MongoURI = "mongodb://localhost:27017"
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.MongoURI == "" {
		return errors.New("MONGO_URI or MONGODB_URI environment variable is required")
	}
	return nil
}

// IsDevelopment reports whether the service runs in a development environment.
func (c *Config) IsDevelopment() bool {
	env := strings.ToLower(c.Env)
	return env == "development" || env == "dev"
}

// AllowedOrigins returns the configured CORS origins; nil means any origin.
func (c *Config) AllowedOrigins() []string {
	if strings.TrimSpace(c.CORSAllowedOrigins) == "" {
		return nil
	}
	var origins []string
	for _, origin := range strings.Split(c.CORSAllowedOrigins, ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
