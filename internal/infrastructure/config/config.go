package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for our application
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`
	Quiz     QuizConfig     `mapstructure:"quiz"`
	Sync     SyncConfig     `mapstructure:"sync"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Driver   string `mapstructure:"driver"`
	DSN      string `mapstructure:"dsn"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	SSLMode  string `mapstructure:"sslmode"`
	LogSQL   bool   `mapstructure:"log_sql"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// QuizConfig holds quiz defaults
type QuizConfig struct {
	QuestionCount int    `mapstructure:"question_count"`
	Mode          string `mapstructure:"mode"`
	Timezone      string `mapstructure:"timezone"`
}

// SyncConfig controls the write-behind queue to the durable store.
type SyncConfig struct {
	QueueSize int `mapstructure:"queue_size"`
	BatchSize int `mapstructure:"batch_size"`
}

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
	DriverPgx      = "pgx"
)

// Load reads configuration from file and environment variables
func Load() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	// Set default values
	setDefaults()

	// Enable reading from environment variables
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read configuration file
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	// Database defaults
	viper.SetDefault("database.driver", DriverSQLite)
	viper.SetDefault("database.dsn", "")
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.name", "vocquiz")
	viper.SetDefault("database.user", "postgres")
	viper.SetDefault("database.password", "postgres")
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("database.log_sql", false)

	// Log defaults
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "json")

	// Quiz defaults
	viper.SetDefault("quiz.question_count", 10)
	viper.SetDefault("quiz.mode", "mixed")
	viper.SetDefault("quiz.timezone", "UTC")

	// Sync defaults
	viper.SetDefault("sync.queue_size", 256)
	viper.SetDefault("sync.batch_size", 450)
}

// DatabaseDriver returns the normalized database/sql driver name.
func (c *Config) DatabaseDriver() (string, error) {
	driver := strings.ToLower(strings.TrimSpace(c.Database.Driver))
	switch driver {
	case "", "sqlite", DriverSQLite:
		return DriverSQLite, nil
	case DriverPostgres, "postgresql":
		return DriverPostgres, nil
	case DriverPgx:
		return DriverPgx, nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
}

// DatabaseURL returns the connection string for the configured driver. An explicit
// database.dsn always wins.
func (c *Config) DatabaseURL() (string, error) {
	if dsn := strings.TrimSpace(c.Database.DSN); dsn != "" {
		return dsn, nil
	}

	driver, err := c.DatabaseDriver()
	if err != nil {
		return "", err
	}

	if driver == DriverSQLite {
		name := c.Database.Name
		if name == "" {
			name = "vocquiz"
		}
		if !strings.HasSuffix(name, ".db") {
			name += ".db"
		}
		return fmt.Sprintf("file:%s?cache=shared&_fk=1", name), nil
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.Database.User, c.Database.Password),
		Host:     fmt.Sprintf("%s:%d", c.Database.Host, c.Database.Port),
		Path:     "/" + c.Database.Name,
		RawQuery: "sslmode=" + c.Database.SSLMode,
	}
	return u.String(), nil
}

// Location returns the time zone used for calendar-day boundaries.
func (c *Config) Location() (*time.Location, error) {
	name := strings.TrimSpace(c.Quiz.Timezone)
	if name == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("load quiz timezone %q: %w", name, err)
	}
	return loc, nil
}
