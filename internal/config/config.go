// internal/config/config.go
package config

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Gauge GaugeConfig `yaml:"gauge"`
}

type GaugeConfig struct {
	Log     LogConfig      `yaml:"log"`
	Sources []SourceConfig `yaml:"sources"`

	// SourcesURL points at a gauge backend whose target list is appended
	// to Sources at startup (see Fetch).
	SourcesURL string `yaml:"sources_url"`

	Sinks SinksConfig `yaml:"sinks"`
}

type LogConfig struct {
	Level  string `yaml:"level"`  // debug|info|warn|error
	Format string `yaml:"format"` // console|json
}

// ---- SOURCE ----

// SourceConfig is one Modbus server (or RS485 gateway).
// Every target opens its own connection to it.
type SourceConfig struct {
	ID        string `yaml:"id"`
	Endpoint  string `yaml:"endpoint"` // host[:port], port defaults to 502
	Mode      string `yaml:"mode"`     // tcp|rtuovertcp
	UnitID    uint8  `yaml:"unit_id"`
	TimeoutMs int    `yaml:"timeout_ms"`

	Targets []TargetConfig `yaml:"targets"`
}

// ---- TARGET ----

type TargetConfig struct {
	ID           string `yaml:"id"`
	RegisterType string `yaml:"register_type"` // holding|input
	Address      uint32 `yaml:"address"`       // user-facing, e.g. 43269
	RawAddress   bool   `yaml:"raw_address"`   // address is already the 0-based wire address
	Count        uint16 `yaml:"count"`
	DataType     string `yaml:"data_type"`
	WordOrder    string `yaml:"word_order"`
	Scale        string `yaml:"scale"` // divisor: 10000, 0.5, 1/3

	IntervalMs int `yaml:"interval_ms"`
	BackoffMs  int `yaml:"backoff_ms"`

	GaugeID          string `yaml:"gauge_id"`
	CharacteristicID string `yaml:"characteristic_id"`

	// Mirror destination (optional, opt-in)
	MirrorAddress *uint16 `yaml:"mirror_address"`
	StatusSlot    *uint16 `yaml:"status_slot"`
	DeviceName    string  `yaml:"device_name"`
}

// ---- SINKS ----

type SinksConfig struct {
	Console ConsoleConfig `yaml:"console"`
	MQTT    MQTTConfig    `yaml:"mqtt"`
	Metrics MetricsConfig `yaml:"metrics"`
	Mirror  MirrorConfig  `yaml:"mirror"`
}

type ConsoleConfig struct {
	Enabled *bool  `yaml:"enabled"` // default true
	Format  string `yaml:"format"`  // decimal|hex|binary
}

type MQTTConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Broker      string `yaml:"broker"` // tcp://host:1883
	ClientID    string `yaml:"client_id"`
	Username    string `yaml:"username"`
	Password    string `yaml:"password"`
	TLS         bool   `yaml:"tls"`
	TopicPrefix string `yaml:"topic_prefix"`
	QoS         *byte  `yaml:"qos"`
	Retain      *bool  `yaml:"retain"`
}

type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Listen    string `yaml:"listen"`
	Namespace string `yaml:"namespace"`
}

type MirrorConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Endpoint  string `yaml:"endpoint"`
	UnitID    uint8  `yaml:"unit_id"`
	TimeoutMs int    `yaml:"timeout_ms"`
}

// Load reads a YAML file, expanding ${VAR} references from the environment.
// Unknown keys are rejected.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(raw)
}

// Parse decodes YAML bytes the same way Load does.
func Parse(raw []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(raw))

	dec := yaml.NewDecoder(bytes.NewBufferString(expanded))
	dec.KnownFields(true)

	var cfg Config
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	return &cfg, nil
}
