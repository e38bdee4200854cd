// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig          `mapstructure:"app"`
	Database      DatabaseConfig     `mapstructure:"database"`
	Queue         QueueConfig        `mapstructure:"queue"`
	Notifications NotificationConfig `mapstructure:"notifications"`
	Email         EmailConfig        `mapstructure:"email"`
	Cleanup       CleanupConfig      `mapstructure:"cleanup"`
	Logging       LoggingConfig      `mapstructure:"logging"`
	Metrics       MetricsConfig      `mapstructure:"metrics"`
}

// --- Core App/Infrastructure Config ---

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string.
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// QueueConfig holds settings for the Redis-backed delayed job queue and its
// polling runner.
type QueueConfig struct {
	Namespace      string `mapstructure:"namespace"`
	PollIntervalMs int    `mapstructure:"poll_interval_ms"`
	WorkerCount    int    `mapstructure:"worker_count"`
	Attempts       int    `mapstructure:"attempts"`
	BackoffBaseMs  int    `mapstructure:"backoff_base_ms"`
}

// NotificationConfig holds scheduling defaults applied when neither the entry
// nor the user carries a value.
type NotificationConfig struct {
	DefaultLeadMinutes int    `mapstructure:"default_lead_minutes"`
	DefaultTimezone    string `mapstructure:"default_timezone"`
}

// EmailConfig selects and configures the mailer implementation.
type EmailConfig struct {
	Provider  string `mapstructure:"provider"` // "ses" or "smtp"
	FromEmail string `mapstructure:"from_email"`

	AWS struct {
		Region string `mapstructure:"region"`
	} `mapstructure:"aws"`

	SMTP struct {
		Host     string `mapstructure:"host"`
		Port     int    `mapstructure:"port"`
		Username string `mapstructure:"username"`
		Password string `mapstructure:"password"`
		Domain   string `mapstructure:"domain"`
	} `mapstructure:"smtp"`
}

// CleanupConfig controls the retention purge of cancelled notifications.
type CleanupConfig struct {
	RetentionDays   int `mapstructure:"retention_days"`
	IntervalMinutes int `mapstructure:"interval_minutes"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type MetricsConfig struct {
	Port int `mapstructure:"port"`
}
