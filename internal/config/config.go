package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP server
	Port string

	// Storage backend selection: memory, sqlite or mongo
	StorageBackend  string
	SQLiteDBPath    string
	MongoURI        string
	MongoDatabase   string
	MongoCollection string

	// AMQP change events (optional; empty URL disables publishing)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Currency rates
	BaseCurrency string
	RatesURL     string // empty keeps the built-in static table
	RatesTimeout time.Duration

	// Workers
	BackupDir         string
	RecurringSchedule string // cron spec for the recurring worker
}

func Load() *Config {
	return &Config{
		Port: getEnv("PORT", "8081"),

		StorageBackend:  getEnv("STORAGE_BACKEND", "memory"),
		SQLiteDBPath:    getEnv("SQLITE_DB_PATH", "./data/accountable.db"),
		MongoURI:        getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:   getEnv("MONGO_DB", "accountable"),
		MongoCollection: getEnv("MONGO_COLLECTION", "blobs"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "accountable"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "state_changes"),

		BaseCurrency: getEnv("BASE_CURRENCY", "USD"),
		RatesURL:     getEnv("RATES_URL", ""),
		RatesTimeout: getEnvDuration("RATES_TIMEOUT", 10*time.Second),

		BackupDir:         getEnv("BACKUP_DIR", "./backups"),
		RecurringSchedule: getEnv("RECURRING_SCHEDULE", "0 6 * * *"),
	}
}

// Validate checks the configuration and returns every problem at once.
func (c *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	switch c.StorageBackend {
	case "memory", "sqlite", "mongo":
	default:
		errs = append(errs, fmt.Sprintf("invalid storage backend '%s': must be one of [memory sqlite mongo]", c.StorageBackend))
	}

	if c.StorageBackend == "sqlite" {
		if c.SQLiteDBPath == "" {
			errs = append(errs, "SQLite database path cannot be empty when using sqlite backend")
		} else if dir := filepath.Dir(c.SQLiteDBPath); dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0755); err != nil {
					errs = append(errs, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
				}
			}
		}
	}

	if c.StorageBackend == "mongo" {
		if c.MongoURI == "" {
			errs = append(errs, "Mongo URI cannot be empty when using mongo backend")
		}
		if c.MongoDatabase == "" {
			errs = append(errs, "Mongo database name cannot be empty when using mongo backend")
		}
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errs = append(errs, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errs = append(errs, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.RatesURL != "" {
		if parsedURL, err := url.Parse(c.RatesURL); err != nil {
			errs = append(errs, fmt.Sprintf("invalid rates URL '%s': %v", c.RatesURL, err))
		} else if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
			errs = append(errs, fmt.Sprintf("invalid rates URL scheme '%s': must be 'http' or 'https'", parsedURL.Scheme))
		}
	}

	if c.RatesTimeout < time.Second || c.RatesTimeout > time.Minute {
		errs = append(errs, fmt.Sprintf("invalid rates timeout %v: must be between 1s and 1m", c.RatesTimeout))
	}

	if c.BackupDir == "" {
		errs = append(errs, "backup directory cannot be empty")
	}
	if strings.TrimSpace(c.RecurringSchedule) == "" {
		errs = append(errs, "recurring schedule cannot be empty")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
