package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds the application configuration.
type Config struct {
	Port             string `mapstructure:"port"`
	PreprocessorPath string `mapstructure:"preprocessor_path"`
	ModelPath        string `mapstructure:"model_path"`
	AllowHeuristic   bool   `mapstructure:"allow_heuristic"`
	LogLevel         string `mapstructure:"log_level"`
	Debug            bool   `mapstructure:"debug"`

	RateLimit int    `mapstructure:"rate_limit"` // predictions per client per minute, 0 disables
	RedisAddr string `mapstructure:"redis_addr"`

	DatabaseDSN string `mapstructure:"database_dsn"`

	QdrantHost       string `mapstructure:"qdrant_host"`
	QdrantPort       int    `mapstructure:"qdrant_port"`
	QdrantCollection string `mapstructure:"qdrant_collection"`

	GoogleCloudProject  string `mapstructure:"google_cloud_project"`
	GoogleCloudLocation string `mapstructure:"google_cloud_location"`
	AdvisorModel        string `mapstructure:"advisor_model"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("preprocessor_path", "artifacts/preprocessor.json")
	v.SetDefault("model_path", "artifacts/dtr.json")
	v.SetDefault("allow_heuristic", false)
	v.SetDefault("log_level", "info")
	v.SetDefault("debug", false)
	v.SetDefault("rate_limit", 60)
	v.SetDefault("redis_addr", "")
	v.SetDefault("database_dsn", "")
	v.SetDefault("qdrant_host", "")
	v.SetDefault("qdrant_port", 6334)
	v.SetDefault("qdrant_collection", "crop_predictions")
	v.SetDefault("google_cloud_project", "")
	v.SetDefault("google_cloud_location", "us-central1")
	v.SetDefault("advisor_model", "gemini-2.5-flash")
}

// Flags returns the command line flags understood by Load.
func Flags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("cropyield", pflag.ContinueOnError)
	fs.String("config", "", "Path to an optional YAML config file")
	fs.BoolP("debug", "d", false, "Enable debug logging")
	fs.String("port", "", "Port to listen on")
	return fs
}

// Load merges defaults, .env files, the environment, an optional config
// file and flags, in increasing order of precedence.
func Load(args []string) (*Config, error) {
	// Missing .env files are fine; the process environment still applies.
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.dev")

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	fs := Flags()
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("error parsing flags: %w", err)
	}
	if file, _ := fs.GetString("config"); file != "" {
		v.SetConfigFile(file)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}
	if fs.Changed("debug") {
		_ = v.BindPFlag("debug", fs.Lookup("debug"))
	}
	if fs.Changed("port") {
		_ = v.BindPFlag("port", fs.Lookup("port"))
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Port == "" {
		return errors.New("port is required")
	}
	if c.PreprocessorPath == "" || c.ModelPath == "" {
		return errors.New("preprocessor_path and model_path are required")
	}
	if c.RateLimit < 0 {
		return errors.New("rate_limit must not be negative")
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log_level: %w", err)
	}
	return nil
}

// Level returns the configured log level; debug overrides log_level.
func (c *Config) Level() logrus.Level {
	if c.Debug {
		return logrus.DebugLevel
	}
	lvl, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}

// IsPostgres reports whether the database DSN points at PostgreSQL.
func (c *Config) IsPostgres() bool {
	return strings.HasPrefix(c.DatabaseDSN, "postgres://") || strings.HasPrefix(c.DatabaseDSN, "postgresql://")
}
