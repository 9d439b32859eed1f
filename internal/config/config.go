package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration
type Config struct {
	Port                    string     `yaml:"port,omitempty"`                      // HTTP listen port (fallback: 8080)
	SettingsPath            string     `yaml:"settings_path,omitempty"`             // dashboard settings JSON file
	SessionTTLMinutes       int        `yaml:"session_ttl_minutes,omitempty"`       // fallback: 720 (12h)
	DiscoveryTimeoutSeconds int        `yaml:"discovery_timeout_seconds,omitempty"` // mDNS window (fallback: 3)
	PollTimeoutSeconds      int        `yaml:"poll_timeout_seconds,omitempty"`      // relay HTTP timeout (fallback: 2)
	MQTT                    MQTTConfig `yaml:"mqtt,omitempty"`
	HomeAssistant           HAConfig   `yaml:"home_assistant,omitempty"`
}

// MQTTConfig holds broker settings for publishing consumption data
type MQTTConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Broker      string `yaml:"broker"`                 // e.g., "homeassistant.local:1883"
	Username    string `yaml:"username,omitempty"`
	Password    string `yaml:"password,omitempty"`     // MQTT_PASSWORD env overrides
	TopicPrefix string `yaml:"topic_prefix,omitempty"` // default: "energie_buddy"
}

// HAConfig holds Home Assistant HTTP API configuration
type HAConfig struct {
	Enabled  bool   `yaml:"enabled"`
	URL      string `yaml:"url"`       // e.g., "http://homeassistant.local:5050"
	Token    string `yaml:"token"`     // Long-lived access token; HA_TOKEN env overrides
	EntityID string `yaml:"entity_id"` // e.g., "sensor.household_energy_total"
}

// Load reads the config file
func Load(configPath string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Missing file: run on defaults and env overrides
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Secrets can come from the environment instead of the file
	if v := os.Getenv("MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Password = v
	}
	if v := os.Getenv("HA_TOKEN"); v != "" {
		cfg.HomeAssistant.Token = v
	}

	return cfg, nil
}

// Save writes the config to file
func Save(configPath string, cfg *Config) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// DefaultConfigPath returns the default config file path (local directory)
func DefaultConfigPath() string {
	return "config.yaml"
}

// GetPort returns the HTTP listen port with a default of 8080
func (c *Config) GetPort() string {
	if c.Port == "" {
		return "8080"
	}
	return c.Port
}

// GetSettingsPath returns the settings file path with a local default
func (c *Config) GetSettingsPath() string {
	if c.SettingsPath == "" {
		return "settings.json"
	}
	return c.SettingsPath
}

// GetSessionTTL returns the session lifetime with a default of 12 hours
func (c *Config) GetSessionTTL() time.Duration {
	if c.SessionTTLMinutes <= 0 {
		return 12 * time.Hour
	}
	return time.Duration(c.SessionTTLMinutes) * time.Minute
}

// GetDiscoveryTimeout returns the mDNS discovery window with a default of 3s
func (c *Config) GetDiscoveryTimeout() time.Duration {
	if c.DiscoveryTimeoutSeconds <= 0 {
		return 3 * time.Second
	}
	return time.Duration(c.DiscoveryTimeoutSeconds) * time.Second
}

// GetPollTimeout returns the relay poll timeout with a default of 2s
func (c *Config) GetPollTimeout() time.Duration {
	if c.PollTimeoutSeconds <= 0 {
		return 2 * time.Second
	}
	return time.Duration(c.PollTimeoutSeconds) * time.Second
}

// GetTopicPrefix returns the MQTT topic prefix with a default
func (c *MQTTConfig) GetTopicPrefix() string {
	if c.TopicPrefix == "" {
		return "energie_buddy"
	}
	return c.TopicPrefix
}
