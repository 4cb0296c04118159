package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for Hearth Panel.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	API         APIConfig         `yaml:"api"`
	Storage     StorageConfig     `yaml:"storage"`
	Logging     LoggingConfig     `yaml:"logging"`
	StateFeed   StateFeedConfig   `yaml:"statefeed"`
	InfluxDB    InfluxDBConfig    `yaml:"influxdb"`
	Poll        PollConfig        `yaml:"poll"`
	Mutation    MutationConfig    `yaml:"mutation"`
	Permissions PermissionsConfig `yaml:"permissions"`
}

// APIConfig contains settings for the backend REST API.
type APIConfig struct {
	// BaseURL is the root of the backend API, e.g. "https://home.example.net/api".
	BaseURL string `yaml:"base_url"`

	// Timeout is the per-request timeout in seconds.
	Timeout int `yaml:"timeout"`
}

// StorageConfig contains settings for the local SQLite store that holds
// the durable session (token + identity).
type StorageConfig struct {
	Path        string `yaml:"path"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Valid state feed modes.
const (
	FeedModeWebSocket = "websocket"
	FeedModeMQTT      = "mqtt"
	FeedModeOff       = "off"
)

// StateFeedConfig selects and configures the live entity-state feed.
type StateFeedConfig struct {
	// Mode is one of "websocket", "mqtt" or "off".
	Mode      string          `yaml:"mode"`
	WebSocket WebSocketConfig `yaml:"websocket"`
	MQTT      MQTTConfig      `yaml:"mqtt"`
}

// WebSocketConfig contains settings for the websocket state feed.
type WebSocketConfig struct {
	// URL is the feed endpoint, e.g. "wss://home.example.net/api/ws".
	URL string `yaml:"url"`

	// PingInterval is how often to ping the server, in seconds.
	PingInterval int `yaml:"ping_interval"`

	// PongTimeout is how long to wait for a pong before treating the
	// connection as dead, in seconds.
	PongTimeout int `yaml:"pong_timeout"`

	// Reconnect delays in seconds (exponential backoff between them).
	ReconnectInitialDelay int `yaml:"reconnect_initial_delay"`
	ReconnectMaxDelay     int `yaml:"reconnect_max_delay"`
}

// MQTTConfig contains settings for the MQTT state feed.
type MQTTConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	QoS      int    `yaml:"qos"`

	// TopicPrefix is the root of the state topics, typically
	// "hearth/<household>". The feed subscribes to
	// <prefix>/entities/+/state.
	TopicPrefix string `yaml:"topic_prefix"`
}

// InfluxDBConfig contains settings for the optional telemetry sink.
type InfluxDBConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// PollConfig contains settings for the periodic registry refresh.
type PollConfig struct {
	// Interval between full registry reloads, in seconds. 0 disables polling.
	Interval int `yaml:"interval"`
}

// MutationConfig contains settings for the optimistic mutation engine.
type MutationConfig struct {
	// Timeout is the bounded wait for a remote command acknowledgment,
	// in seconds. A command that has not resolved within this window is
	// treated as failed and rolled back.
	Timeout int `yaml:"timeout"`
}

// PermissionsConfig contains the configurable parts of the permission policy.
type PermissionsConfig struct {
	// DeviceControlRole is the minimum role allowed to toggle devices and
	// change setpoints. The backend reference behaviour gates provisioning
	// behind admin but lets any member operate visible devices; both
	// behaviours are expressible here.
	DeviceControlRole string `yaml:"device_control_role"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: HEARTH_SECTION_KEY
// For example: HEARTH_API_BASE_URL, HEARTH_STORAGE_PATH
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
		API: APIConfig{
			BaseURL: "http://localhost:8080/api",
			Timeout: 30,
		},
		Storage: StorageConfig{
			Path:        "./data/hearthpanel.db",
			WALMode:     true,
			BusyTimeout: 5,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
		StateFeed: StateFeedConfig{
			Mode: FeedModeOff,
			WebSocket: WebSocketConfig{
				PingInterval:          30,
				PongTimeout:           10,
				ReconnectInitialDelay: 1,
				ReconnectMaxDelay:     60,
			},
			MQTT: MQTTConfig{
				Host:        "localhost",
				Port:        1883,
				ClientID:    "hearth-panel",
				QoS:         1,
				TopicPrefix: "hearth/home",
			},
		},
		Poll: PollConfig{
			Interval: 60,
		},
		Mutation: MutationConfig{
			Timeout: 10,
		},
		Permissions: PermissionsConfig{
			DeviceControlRole: "member",
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: HEARTH_SECTION_KEY
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HEARTH_API_BASE_URL"); v != "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv("HEARTH_STORAGE_PATH"); v != "" {
		cfg.Storage.Path = v
	}
	if v := os.Getenv("HEARTH_STATEFEED_URL"); v != "" {
		cfg.StateFeed.WebSocket.URL = v
	}
	if v := os.Getenv("HEARTH_MQTT_HOST"); v != "" {
		cfg.StateFeed.MQTT.Host = v
	}
	if v := os.Getenv("HEARTH_MQTT_USERNAME"); v != "" {
		cfg.StateFeed.MQTT.Username = v
	}
	if v := os.Getenv("HEARTH_MQTT_PASSWORD"); v != "" {
		cfg.StateFeed.MQTT.Password = v
	}
	if v := os.Getenv("HEARTH_INFLUXDB_TOKEN"); v != "" {
		cfg.InfluxDB.Token = v
	}
}

// validRoles mirrors the role enum in internal/auth. Kept as plain strings
// here so config stays dependency-free; auth validates again at policy
// construction time.
var validRoles = map[string]bool{"owner": true, "admin": true, "member": true}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("api.base_url %q is not a valid URL", c.API.BaseURL)
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be positive")
	}

	if c.Storage.Path == "" {
		return fmt.Errorf("storage.path is required")
	}

	switch strings.ToLower(c.StateFeed.Mode) {
	case FeedModeWebSocket:
		if c.StateFeed.WebSocket.URL == "" {
			return fmt.Errorf("statefeed.websocket.url is required in websocket mode")
		}
	case FeedModeMQTT:
		if c.StateFeed.MQTT.Host == "" {
			return fmt.Errorf("statefeed.mqtt.host is required in mqtt mode")
		}
		if c.StateFeed.MQTT.TopicPrefix == "" {
			return fmt.Errorf("statefeed.mqtt.topic_prefix is required in mqtt mode")
		}
	case FeedModeOff:
	default:
		return fmt.Errorf("statefeed.mode %q is not one of websocket, mqtt, off", c.StateFeed.Mode)
	}

	if c.InfluxDB.Enabled {
		if c.InfluxDB.URL == "" {
			return fmt.Errorf("influxdb.url is required when influxdb is enabled")
		}
		if c.InfluxDB.Bucket == "" {
			return fmt.Errorf("influxdb.bucket is required when influxdb is enabled")
		}
	}

	if c.Mutation.Timeout <= 0 {
		return fmt.Errorf("mutation.timeout must be positive")
	}
	if c.Poll.Interval < 0 {
		return fmt.Errorf("poll.interval cannot be negative")
	}

	if r := c.Permissions.DeviceControlRole; r != "" && !validRoles[r] {
		return fmt.Errorf("permissions.device_control_role %q is not a known role", r)
	}

	return nil
}
