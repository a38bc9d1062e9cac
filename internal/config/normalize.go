// internal/config/normalize.go
package config

import (
	"net"
	"strings"
)

// Defaults applied by Normalize.
const (
	DefaultPort       = "502"
	DefaultIntervalMs = 1000
	DefaultBackoffMs  = 5000
	DefaultTimeoutMs  = 1000
	DefaultUnitID     = 1
	DefaultWordOrder  = "msb_first"
	DefaultScale      = "1"
	DefaultRegister   = "holding"

	DefaultTopicPrefix = "gauge"
	DefaultMQTTQoS     = 1

	DefaultMetricsNamespace = "modbus_gauge"
	DefaultLogLevel         = "info"
	DefaultLogFormat        = "console"
	DefaultConsoleFormat    = "decimal"
)

// Normalize applies post-validation normalization.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}
	g := &cfg.Gauge

	if g.Log.Level == "" {
		g.Log.Level = DefaultLogLevel
	}
	if g.Log.Format == "" {
		g.Log.Format = DefaultLogFormat
	}

	for si := range g.Sources {
		s := &g.Sources[si]

		s.Endpoint = withDefaultPort(s.Endpoint)
		if s.Mode == "" {
			s.Mode = "tcp"
		}
		if s.UnitID == 0 {
			s.UnitID = DefaultUnitID
		}
		if s.TimeoutMs == 0 {
			s.TimeoutMs = DefaultTimeoutMs
		}

		for ti := range s.Targets {
			normalizeTarget(&s.Targets[ti])
		}
	}

	normalizeSinks(&g.Sinks)
}

func normalizeTarget(t *TargetConfig) {
	if t.RegisterType == "" {
		t.RegisterType = DefaultRegister
	}
	if t.WordOrder == "" {
		t.WordOrder = DefaultWordOrder
	}
	if t.Scale == "" {
		t.Scale = DefaultScale
	}
	if t.IntervalMs == 0 {
		t.IntervalMs = DefaultIntervalMs
	}
	if t.BackoffMs == 0 {
		t.BackoffMs = DefaultBackoffMs
	}

	// Topic parts fall back to the target id.
	if t.GaugeID == "" {
		t.GaugeID = t.ID
	}
	if t.CharacteristicID == "" {
		t.CharacteristicID = "value"
	}

	// Device name: ASCII already validated, truncate to 16 characters.
	if t.StatusSlot != nil && len(t.DeviceName) > 16 {
		t.DeviceName = t.DeviceName[:16]
	}
}

func normalizeSinks(s *SinksConfig) {
	if s.Console.Enabled == nil {
		on := true
		s.Console.Enabled = &on
	}
	if s.Console.Format == "" {
		s.Console.Format = DefaultConsoleFormat
	}

	if s.MQTT.TopicPrefix == "" {
		s.MQTT.TopicPrefix = DefaultTopicPrefix
	}
	s.MQTT.TopicPrefix = strings.Trim(s.MQTT.TopicPrefix, "/")
	if s.MQTT.QoS == nil {
		q := byte(DefaultMQTTQoS)
		s.MQTT.QoS = &q
	}
	if s.MQTT.Retain == nil {
		r := true
		s.MQTT.Retain = &r
	}

	if s.Metrics.Namespace == "" {
		s.Metrics.Namespace = DefaultMetricsNamespace
	}

	if s.Mirror.Endpoint != "" {
		s.Mirror.Endpoint = withDefaultPort(s.Mirror.Endpoint)
	}
	if s.Mirror.UnitID == 0 {
		s.Mirror.UnitID = DefaultUnitID
	}
	if s.Mirror.TimeoutMs == 0 {
		s.Mirror.TimeoutMs = DefaultTimeoutMs
	}
}

// withDefaultPort appends :502 when the endpoint has no port.
func withDefaultPort(endpoint string) string {
	if endpoint == "" {
		return endpoint
	}
	if _, _, err := net.SplitHostPort(endpoint); err == nil {
		return endpoint
	}
	return net.JoinHostPort(strings.Trim(endpoint, "[]"), DefaultPort)
}
