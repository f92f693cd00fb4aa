package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultJWTSecret = "supersecretkey"

	StorageLocal = "local"
	StorageS3    = "s3"
)

type Config struct {
	Addr           string        `yaml:"addr"`
	JWTSecret      string        `yaml:"jwt_secret"`
	APITimeout     time.Duration `yaml:"timeout"`
	DatabasePath   string        `yaml:"database_path"`
	TokenDuration  time.Duration `yaml:"token_duration"`
	MigrateOnStart bool          `yaml:"migrate_on_start"`
	Workers        int           `yaml:"workers"`
	Storage        StorageConfig `yaml:"storage"`
	Events         EventsConfig  `yaml:"events"`
}

// StorageConfig selects where uploaded resumes and logos go.
type StorageConfig struct {
	Driver        string `yaml:"driver"`
	LocalDir      string `yaml:"local_dir"`
	PublicBaseURL string `yaml:"public_base_url"`
	Bucket        string `yaml:"bucket"`
	Endpoint      string `yaml:"endpoint"`
	Region        string `yaml:"region"`
	AccessKey     string `yaml:"access_key"`
	SecretKey     string `yaml:"secret_key"`
}

// EventsConfig points at the RabbitMQ broker. An empty AMQPURL logs events instead.
type EventsConfig struct {
	AMQPURL  string `yaml:"amqp_url"`
	Exchange string `yaml:"exchange"`
}

// LoadConfig reads .env (if any), applies JOBBOARD_* environment defaults and
// then overlays the YAML file at path.
func LoadConfig(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Addr:           getEnv("JOBBOARD_ADDR", ":8080"),
		JWTSecret:      getEnv("JOBBOARD_JWT_SECRET", defaultJWTSecret),
		APITimeout:     getDuration("JOBBOARD_TIMEOUT", 15*time.Second),
		DatabasePath:   getEnv("JOBBOARD_DATABASE_PATH", "jobboard.db"),
		TokenDuration:  getDuration("JOBBOARD_TOKEN_DURATION", 24*time.Hour),
		MigrateOnStart: getBool("JOBBOARD_MIGRATE_ON_START", true),
		Workers:        getInt("JOBBOARD_WORKERS", 2),
		Storage: StorageConfig{
			Driver:        getEnv("JOBBOARD_STORAGE_DRIVER", StorageLocal),
			LocalDir:      getEnv("JOBBOARD_STORAGE_LOCAL_DIR", "uploads"),
			PublicBaseURL: getEnv("JOBBOARD_STORAGE_PUBLIC_BASE_URL", ""),
			Bucket:        getEnv("JOBBOARD_STORAGE_BUCKET", ""),
			Endpoint:      getEnv("JOBBOARD_STORAGE_ENDPOINT", ""),
			Region:        getEnv("JOBBOARD_STORAGE_REGION", ""),
			AccessKey:     getEnv("JOBBOARD_STORAGE_ACCESS_KEY", ""),
			SecretKey:     getEnv("JOBBOARD_STORAGE_SECRET_KEY", ""),
		},
		Events: EventsConfig{
			AMQPURL:  getEnv("JOBBOARD_AMQP_URL", ""),
			Exchange: getEnv("JOBBOARD_EVENTS_EXCHANGE", ""),
		},
	}
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		dec := yaml.NewDecoder(f)
		if err := dec.Decode(cfg); err != nil {
			return nil, fmt.Errorf("decode config %s: %w", path, err)
		}
	}

	return cfg, nil
}

// Validate checks required fields and fills defaults for optional sections.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Addr) == "" {
		errs = append(errs, errors.New("addr is required"))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("jwt_secret is required"))
	} else if c.JWTSecret == defaultJWTSecret && os.Getenv("JOBBOARD_ENV") != "development" {
		errs = append(errs, errors.New("jwt_secret uses the insecure default; set JOBBOARD_JWT_SECRET or JOBBOARD_ENV=development"))
	}
	if c.DatabasePath == "" {
		errs = append(errs, errors.New("database_path is required"))
	}
	if c.APITimeout <= 0 {
		errs = append(errs, errors.New("timeout must be positive"))
	}
	if c.TokenDuration <= 0 {
		errs = append(errs, errors.New("token_duration must be positive"))
	}
	if c.Workers <= 0 {
		c.Workers = 1
	}

	switch c.Storage.Driver {
	case "":
		c.Storage.Driver = StorageLocal
		fallthrough
	case StorageLocal:
		if c.Storage.LocalDir == "" {
			c.Storage.LocalDir = "uploads"
		}
		if c.Storage.PublicBaseURL == "" {
			c.Storage.PublicBaseURL = "/files"
		}
	case StorageS3:
		if c.Storage.Bucket == "" {
			errs = append(errs, errors.New("storage.bucket is required for the s3 driver"))
		}
		if c.Storage.Region == "" {
			c.Storage.Region = "auto"
		}
	default:
		errs = append(errs, fmt.Errorf("unknown storage.driver %q", c.Storage.Driver))
	}

	if c.Events.Exchange == "" {
		c.Events.Exchange = "jobboard.events"
	}

	return errors.Join(errs...)
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}
