// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

func Load() (*Config, error) {
	// .env is optional; system environment wins either way.
	_ = godotenv.Load()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("../../configs")
	viper.AddConfigPath(".")

	// Enable ENV override like DATABASE_POSTGRES_PASSWORD.
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}
	viper.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = viper.MergeInConfig() // environment overlay is optional

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "finance-notifier"
	}
	if cfg.App.Environment == "" {
		cfg.App.Environment = "development"
	}

	if cfg.Database.Postgres.Port == 0 {
		cfg.Database.Postgres.Port = 5432
	}
	if cfg.Database.Postgres.MaxConnections == 0 {
		cfg.Database.Postgres.MaxConnections = 10
	}
	if cfg.Database.Postgres.MaxIdle == 0 {
		cfg.Database.Postgres.MaxIdle = 5
	}
	if cfg.Database.Postgres.SSLMode == "" {
		cfg.Database.Postgres.SSLMode = "disable"
	}
	if cfg.Database.Redis.Address == "" {
		cfg.Database.Redis.Address = "localhost:6379"
	}

	if cfg.Queue.Namespace == "" {
		cfg.Queue.Namespace = "notifications"
	}
	if cfg.Queue.PollIntervalMs == 0 {
		cfg.Queue.PollIntervalMs = 1000
	}
	if cfg.Queue.WorkerCount == 0 {
		cfg.Queue.WorkerCount = 4
	}
	if cfg.Queue.Attempts == 0 {
		cfg.Queue.Attempts = 3
	}
	if cfg.Queue.BackoffBaseMs == 0 {
		cfg.Queue.BackoffBaseMs = 5000
	}

	if cfg.Notifications.DefaultLeadMinutes == 0 {
		cfg.Notifications.DefaultLeadMinutes = 5
	}
	if cfg.Notifications.DefaultTimezone == "" {
		cfg.Notifications.DefaultTimezone = "America/Sao_Paulo"
	}

	if cfg.Email.Provider == "" {
		cfg.Email.Provider = "ses"
	}
	if cfg.Email.AWS.Region == "" {
		cfg.Email.AWS.Region = "us-east-1"
	}

	if cfg.Cleanup.RetentionDays == 0 {
		cfg.Cleanup.RetentionDays = 30
	}
	if cfg.Cleanup.IntervalMinutes == 0 {
		cfg.Cleanup.IntervalMinutes = 24 * 60
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Metrics.Port == 0 {
		cfg.Metrics.Port = 9090
	}
}

func validateConfig(cfg *Config) error {
	if cfg.Database.Postgres.Host == "" {
		return fmt.Errorf("database.postgres.host is required")
	}
	if cfg.Database.Postgres.Database == "" {
		return fmt.Errorf("database.postgres.database is required")
	}
	if cfg.Email.Provider != "ses" && cfg.Email.Provider != "smtp" {
		return fmt.Errorf("email.provider must be \"ses\" or \"smtp\", got %q", cfg.Email.Provider)
	}
	if cfg.Email.FromEmail == "" {
		return fmt.Errorf("email.from_email is required")
	}
	if cfg.Email.Provider == "smtp" && cfg.Email.SMTP.Host == "" {
		return fmt.Errorf("email.smtp.host is required when provider is smtp")
	}
	return nil
}
