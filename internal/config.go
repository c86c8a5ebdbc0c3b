package internal

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	RegistrySourceConfig   = "config"
	RegistrySourceDatabase = "database"
)

type Config struct {
	Environment   string              `mapstructure:"environment"`
	Server        ServerConfig        `mapstructure:"http_server"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Registry      RegistryConfig      `mapstructure:"registry" validate:"required"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

type ServerConfig struct {
	Port              int           `mapstructure:"port"`
	BaseURL           string        `mapstructure:"base_url"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
}

type DatabaseConfig struct {
	MaxOpenConns    int           `mapstructure:"max_open_conns" validate:"required,min=1"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns" validate:"required,min=1"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	Source          string        `mapstructure:"source"`
}

// RegistryConfig selects where partner credentials come from. With the
// config source the secrets below are used as-is; with the database source
// the partners table is snapshotted once at startup.
type RegistryConfig struct {
	Source      string         `mapstructure:"source" validate:"required,oneof=config database"`
	Partners    []PartnerEntry `mapstructure:"partners"`
	BCryptCost  int            `mapstructure:"bcrypt_cost" validate:"min=10,max=15"`
	LoadTimeout time.Duration  `mapstructure:"load_timeout"`
}

type PartnerEntry struct {
	Key    string `mapstructure:"key"`
	Secret string `mapstructure:"secret"`
}

type ObservabilityConfig struct {
	Logging LoggingConfig `mapstructure:"logging"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"required,oneof=json text"`
}

// ----------------- ENV LOADING -----------------

// LoadConfigFromEnv builds the configuration for container deployments.
// PARTNERS is a comma separated list of KEY:SECRET pairs.
func LoadConfigFromEnv() *Config {
	partners, _ := ParsePartnerList(getEnv("PARTNERS", ""))

	return &Config{
		Environment: getEnv("APP_ENV", "production"),
		Server: ServerConfig{
			Port:              getEnvAsInt("HTTP_PORT", 8080),
			BaseURL:           getEnv("HTTP_BASE_URL", ""),
			ReadHeaderTimeout: getEnvAsDuration("HTTP_READ_HEADER_TIMEOUT", 5*time.Second),
			ReadTimeout:       getEnvAsDuration("HTTP_READ_TIMEOUT", 15*time.Second),
			IdleTimeout:       getEnvAsDuration("HTTP_IDLE_TIMEOUT", 60*time.Second),
			WriteTimeout:      getEnvAsDuration("HTTP_WRITE_TIMEOUT", 15*time.Second),
		},
		Database: DatabaseConfig{
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
			ConnMaxIdleTime: getEnvAsDuration("DB_CONN_MAX_IDLE_TIME", 5*time.Minute),
			Source:          getEnv("DB_SOURCE", ""),
		},
		Registry: RegistryConfig{
			Source:      getEnv("REGISTRY_SOURCE", RegistrySourceConfig),
			Partners:    partners,
			BCryptCost:  getEnvAsInt("REGISTRY_BCRYPT_COST", 12),
			LoadTimeout: getEnvAsDuration("REGISTRY_LOAD_TIMEOUT", 5*time.Second),
		},
		Observability: ObservabilityConfig{
			Logging: LoggingConfig{
				Level:  getEnv("LOG_LEVEL", "info"),
				Format: getEnv("LOG_FORMAT", "json"),
			},
		},
	}
}

// ParsePartnerList parses "KEY1:SECRET1,KEY2:SECRET2". Secrets may contain
// colons; only the first one separates key from secret.
func ParsePartnerList(raw string) ([]PartnerEntry, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	var entries []PartnerEntry
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		key, secret, found := strings.Cut(pair, ":")
		if !found || strings.TrimSpace(key) == "" {
			return entries, fmt.Errorf("invalid partner entry %q: expected KEY:SECRET", pair)
		}
		entries = append(entries, PartnerEntry{Key: strings.TrimSpace(key), Secret: secret})
	}
	return entries, nil
}

// ----------------- HELPERS -----------------

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultVal
}

// ----------------- VALIDATION -----------------

func (c *Config) Validate() error {
	var errs []string

	if err := c.Server.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("server config: %v", err))
	}

	if c.Registry.Source == RegistrySourceDatabase || c.Database.Source != "" {
		if err := c.Database.Validate(); err != nil {
			errs = append(errs, fmt.Sprintf("database config: %v", err))
		}
	}

	if err := c.Registry.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("registry config: %v", err))
	}

	if err := c.Observability.Logging.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("logging config: %v", err))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

func (c *ServerConfig) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if c.ReadTimeout < c.ReadHeaderTimeout {
		return errors.New("read_timeout must be >= read_header_timeout")
	}
	return nil
}

func (c *DatabaseConfig) Validate() error {
	if c.Source == "" {
		return errors.New("source is required")
	}
	if c.MaxIdleConns > c.MaxOpenConns {
		return errors.New("max_idle_conns cannot be greater than max_open_conns")
	}
	return nil
}

func (c *DatabaseConfig) GetDSN() string {
	return c.Source
}

func (c *RegistryConfig) Validate() error {
	switch c.Source {
	case RegistrySourceConfig:
		if len(c.Partners) == 0 {
			return errors.New("at least one partner is required when source is config")
		}
	case RegistrySourceDatabase:
	default:
		return fmt.Errorf("unknown source %q", c.Source)
	}

	seen := make(map[string]struct{}, len(c.Partners))
	for _, p := range c.Partners {
		if strings.TrimSpace(p.Key) == "" {
			return errors.New("partner key cannot be empty")
		}
		if p.Secret == "" {
			return fmt.Errorf("partner %s has an empty secret", p.Key)
		}
		if _, dup := seen[p.Key]; dup {
			return fmt.Errorf("partner %s is configured more than once", p.Key)
		}
		seen[p.Key] = struct{}{}
	}

	if c.BCryptCost != 0 && (c.BCryptCost < 10 || c.BCryptCost > 15) {
		return errors.New("bcrypt_cost must be between 10 and 15")
	}
	return nil
}

// Secrets returns the configured partners as a key to plaintext secret map.
func (c *RegistryConfig) Secrets() map[string]string {
	secrets := make(map[string]string, len(c.Partners))
	for _, p := range c.Partners {
		secrets[p.Key] = p.Secret
	}
	return secrets
}

func (c *LoggingConfig) Validate() error {
	switch strings.ToLower(c.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown level %q", c.Level)
	}
	switch strings.ToLower(c.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("unknown format %q", c.Format)
	}
	return nil
}
