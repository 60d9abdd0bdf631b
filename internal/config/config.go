// Package config loads ucflow settings from a file, a .env file and UCFLOW_*
// environment variables, in that order of increasing precedence.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of every environment override.
const EnvPrefix = "UCFLOW_"

// DefaultFile is read when Load is given an empty path.
const DefaultFile = "ucflow.yaml"

// Config is the resolved application configuration.
type Config struct {
	Mode         string `yaml:"mode" json:"mode"`
	ResumePolicy string `yaml:"resume_policy" json:"resume_policy"`
	LogLevel     string `yaml:"log_level" json:"log_level"`
	// ResultsDir stores results as JSON files when no Redis address is set.
	ResultsDir string `yaml:"results_dir" json:"results_dir"`
	HTTP       HTTP   `yaml:"http" json:"http"`
	Redis      Redis  `yaml:"redis" json:"redis"`
}

// HTTP configures the API server.
type HTTP struct {
	Port int `yaml:"port" json:"port"`
}

// Redis configures the result store. An empty Addr selects the in-memory store.
type Redis struct {
	Addr     string        `yaml:"addr" json:"addr"`
	Password string        `yaml:"password" json:"password"`
	DB       int           `yaml:"db" json:"db"`
	TTL      time.Duration `yaml:"ttl" json:"ttl"`
	Prefix   string        `yaml:"prefix" json:"prefix"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Mode:         "detailed",
		ResumePolicy: "strict",
		LogLevel:     "info",
		HTTP:         HTTP{Port: 8080},
	}
}

// Options control where Load looks.
type Options struct {
	// Path of the config file. Empty means DefaultFile; a missing file is not an error.
	Path string
	// EnvFile is the dotenv file. Empty means ".env"; a missing file is not an error.
	EnvFile string
	// LookupEnv defaults to os.LookupEnv.
	LookupEnv func(string) (string, bool)
}

// Load resolves the configuration.
func Load(opts Options) (Config, error) {
	cfg := Default()

	path := opts.Path
	if path == "" {
		path = DefaultFile
	}
	if err := readFile(path, &cfg); err != nil {
		return cfg, err
	}

	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	dotenv, err := godotenv.Read(envFile)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return cfg, fmt.Errorf("failed to read %s: %w", envFile, err)
	}

	lookup := opts.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}
	get := func(key string) (string, bool) {
		if v, ok := lookup(EnvPrefix + key); ok {
			return v, true
		}
		v, ok := dotenv[EnvPrefix+key]
		return v, ok
	}

	if err := applyEnv(&cfg, get); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func readFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}

	if strings.ToLower(filepath.Ext(path)) == ".json" {
		if err := json.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to parse %s: %w", path, err)
		}
		return nil
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config, get func(string) (string, bool)) error {
	if v, ok := get("MODE"); ok {
		cfg.Mode = v
	}
	if v, ok := get("RESUME_POLICY"); ok {
		cfg.ResumePolicy = v
	}
	if v, ok := get("LOG_LEVEL"); ok {
		cfg.LogLevel = v
	}
	if v, ok := get("RESULTS_DIR"); ok {
		cfg.ResultsDir = v
	}
	if v, ok := get("REDIS_ADDR"); ok {
		cfg.Redis.Addr = v
	}
	if v, ok := get("REDIS_PASSWORD"); ok {
		cfg.Redis.Password = v
	}
	if v, ok := get("REDIS_PREFIX"); ok {
		cfg.Redis.Prefix = v
	}
	if v, ok := get("HTTP_PORT"); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %sHTTP_PORT: %w", EnvPrefix, err)
		}
		cfg.HTTP.Port = port
	}
	if v, ok := get("REDIS_DB"); ok {
		db, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %sREDIS_DB: %w", EnvPrefix, err)
		}
		cfg.Redis.DB = db
	}
	if v, ok := get("REDIS_TTL"); ok {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %sREDIS_TTL: %w", EnvPrefix, err)
		}
		cfg.Redis.TTL = ttl
	}
	return nil
}
