package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for the vplan engine.
// All configuration is loaded from YAML and can be overridden by environment
// variables.
type Config struct {
	Database    DatabaseConfig    `yaml:"database"`
	SmartThings SmartThingsConfig `yaml:"smartthings"`
	Scheduler   SchedulerConfig   `yaml:"scheduler"`
	MQTT        MQTTConfig        `yaml:"mqtt"`
	InfluxDB    InfluxDBConfig    `yaml:"influxdb"`
	API         APIConfig         `yaml:"api"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// DatabaseConfig contains SQLite database settings.
type DatabaseConfig struct {
	Path        string `yaml:"path"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout"`
}

// SmartThingsConfig contains settings for the remote automation account API.
// The PAT token itself is stored in the database, not here.
type SmartThingsConfig struct {
	// BaseURL is the API endpoint, normally https://api.smartthings.com/v1.
	BaseURL string `yaml:"base_url"`

	// RequestTimeout bounds each outbound API call, in seconds. Timeouts
	// are treated as transient and retried by the reconciliation engine.
	RequestTimeout int `yaml:"request_timeout"`

	// ToggleDelay is the pause between on/off commands during a device
	// group test, in seconds. Remote devices drop toggles that arrive too
	// quickly.
	ToggleDelay int `yaml:"toggle_delay"`
}

// SchedulerConfig contains refresh scheduling and retry settings.
type SchedulerConfig struct {
	// RetryMaxAttempts bounds attempts per remote operation.
	RetryMaxAttempts int `yaml:"retry_max_attempts"`

	// RetryInitialBackoff is the first backoff delay in milliseconds;
	// subsequent delays double.
	RetryInitialBackoff int `yaml:"retry_initial_backoff"`

	// PassTimeout bounds one full reconciliation pass, in seconds.
	PassTimeout int `yaml:"pass_timeout"`
}

// MQTTConfig contains MQTT broker connection settings for pass outcome
// events. The broker is optional; when disabled no events are published.
type MQTTConfig struct {
	Enabled   bool                `yaml:"enabled"`
	Broker    MQTTBrokerConfig    `yaml:"broker"`
	Auth      MQTTAuthConfig      `yaml:"auth"`
	QoS       int                 `yaml:"qos"`
	Reconnect MQTTReconnectConfig `yaml:"reconnect"`
}

// MQTTBrokerConfig contains MQTT broker connection details.
type MQTTBrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
}

// MQTTAuthConfig contains MQTT authentication credentials.
type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// MQTTReconnectConfig contains MQTT reconnection settings.
type MQTTReconnectConfig struct {
	InitialDelay int `yaml:"initial_delay"`
	MaxDelay     int `yaml:"max_delay"`
	MaxAttempts  int `yaml:"max_attempts"`
}

// InfluxDBConfig contains InfluxDB connection settings for pass telemetry.
type InfluxDBConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// APIConfig contains HTTP API server settings.
type APIConfig struct {
	Host     string           `yaml:"host"`
	Port     int              `yaml:"port"`
	Timeouts APITimeoutConfig `yaml:"timeouts"`
}

// APITimeoutConfig contains HTTP timeout settings, in seconds.
type APITimeoutConfig struct {
	Read  int `yaml:"read"`
	Write int `yaml:"write"`
	Idle  int `yaml:"idle"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Load reads, parses, and validates the configuration file.
//
// Defaults are applied first, then the YAML file, then environment variable
// overrides of the form VPLAN_SECTION_KEY (e.g. VPLAN_DATABASE_PATH).
//
// Parameters:
//   - path: Path to the YAML configuration file
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If the file cannot be read, parsed, or validation fails
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path:        "./data/vplan.db",
			WALMode:     true,
			BusyTimeout: 5,
		},
		SmartThings: SmartThingsConfig{
			BaseURL:        "https://api.smartthings.com/v1",
			RequestTimeout: 15,
			ToggleDelay:    5,
		},
		Scheduler: SchedulerConfig{
			RetryMaxAttempts:    4,
			RetryInitialBackoff: 500,
			PassTimeout:         120,
		},
		MQTT: MQTTConfig{
			Broker: MQTTBrokerConfig{
				Host:     "localhost",
				Port:     1883,
				ClientID: "vplan-engine",
			},
			QoS: 1,
			Reconnect: MQTTReconnectConfig{
				InitialDelay: 1,
				MaxDelay:     60,
				MaxAttempts:  0,
			},
		},
		API: APIConfig{
			Host: "127.0.0.1",
			Port: 8080,
			Timeouts: APITimeoutConfig{
				Read:  30,
				Write: 30,
				Idle:  60,
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the
// configuration. Environment variables follow the pattern VPLAN_SECTION_KEY.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("VPLAN_DATABASE_PATH"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("VPLAN_SMARTTHINGS_BASE_URL"); v != "" {
		cfg.SmartThings.BaseURL = v
	}
	if v := os.Getenv("VPLAN_API_HOST"); v != "" {
		cfg.API.Host = v
	}
	if v := os.Getenv("VPLAN_MQTT_HOST"); v != "" {
		cfg.MQTT.Broker.Host = v
	}
	if v := os.Getenv("VPLAN_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Auth.Username = v
	}
	if v := os.Getenv("VPLAN_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Auth.Password = v
	}
	if v := os.Getenv("VPLAN_INFLUXDB_TOKEN"); v != "" {
		cfg.InfluxDB.Token = v
	}
}

// Validate checks the configuration for errors.
//
// Returns:
//   - error: Description of validation failure, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	if c.Database.Path == "" {
		errs = append(errs, "database.path is required")
	}
	if c.SmartThings.BaseURL == "" {
		errs = append(errs, "smartthings.base_url is required")
	}
	if c.SmartThings.RequestTimeout <= 0 {
		errs = append(errs, "smartthings.request_timeout must be positive")
	}
	if c.Scheduler.RetryMaxAttempts < 1 {
		errs = append(errs, "scheduler.retry_max_attempts must be at least 1")
	}
	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		errs = append(errs, "mqtt.qos must be 0, 1, or 2")
	}
	if c.API.Port < 1 || c.API.Port > 65535 {
		errs = append(errs, "api.port must be between 1 and 65535")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// GetRequestTimeout returns the SmartThings request timeout as a Duration.
func (c SmartThingsConfig) GetRequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeout) * time.Second
}

// GetToggleDelay returns the device toggle delay as a Duration.
func (c SmartThingsConfig) GetToggleDelay() time.Duration {
	return time.Duration(c.ToggleDelay) * time.Second
}

// GetRetryInitialBackoff returns the initial retry backoff as a Duration.
func (c SchedulerConfig) GetRetryInitialBackoff() time.Duration {
	return time.Duration(c.RetryInitialBackoff) * time.Millisecond
}

// GetPassTimeout returns the reconciliation pass timeout as a Duration.
func (c SchedulerConfig) GetPassTimeout() time.Duration {
	return time.Duration(c.PassTimeout) * time.Second
}

// GetReadTimeout returns the API read timeout as a Duration.
func (c APIConfig) GetReadTimeout() time.Duration {
	return time.Duration(c.Timeouts.Read) * time.Second
}

// GetWriteTimeout returns the API write timeout as a Duration.
func (c APIConfig) GetWriteTimeout() time.Duration {
	return time.Duration(c.Timeouts.Write) * time.Second
}

// GetIdleTimeout returns the API idle timeout as a Duration.
func (c APIConfig) GetIdleTimeout() time.Duration {
	return time.Duration(c.Timeouts.Idle) * time.Second
}
