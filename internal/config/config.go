package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

type Config struct {
	// HTTP Server
	Port string

	// Persistence
	SaveFilePath  string
	HistoryDBPath string // empty disables the snapshot history

	// AMQP (optional save-event publishing)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Dashboard
	MinSalaryRows        int
	MaxProjectionHorizon int
}

func Load() *Config {
	return &Config{
		Port: getEnv("PORT", "8050"),

		SaveFilePath:  getEnv("SAVE_FILE_PATH", "./data/patrimoine_save.json"),
		HistoryDBPath: getEnv("HISTORY_DB_PATH", "./data/history.db"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "patrimoine"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "save_events"),

		MinSalaryRows:        getEnvInt("MIN_SALARY_ROWS", 8),
		MaxProjectionHorizon: getEnvInt("MAX_PROJECTION_HORIZON", 40),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.SaveFilePath == "" {
		errors = append(errors, "save file path cannot be empty")
	} else {
		if dir := filepath.Dir(c.SaveFilePath); dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0755); err != nil {
					errors = append(errors, fmt.Sprintf("cannot create save directory '%s': %v", dir, err))
				}
			}
		}
	}

	if c.HistoryDBPath != "" {
		if dir := filepath.Dir(c.HistoryDBPath); dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0755); err != nil {
					errors = append(errors, fmt.Sprintf("cannot create history directory '%s': %v", dir, err))
				}
			}
		}
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.MinSalaryRows < 1 || c.MinSalaryRows > 100 {
		errors = append(errors, fmt.Sprintf("invalid minimum salary rows %d: must be between 1 and 100", c.MinSalaryRows))
	}

	if c.MaxProjectionHorizon < 1 || c.MaxProjectionHorizon > 100 {
		errors = append(errors, fmt.Sprintf("invalid projection horizon cap %d: must be between 1 and 100", c.MaxProjectionHorizon))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}
