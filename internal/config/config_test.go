// internal/config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"
)

const sample = `
gauge:
  log:
    level: debug
  sources:
    - id: plc1
      endpoint: ${GAUGE_TEST_HOST}
      targets:
        - id: cost
          address: 43269
          data_type: uint32
          scale: 10000
          gauge_id: g1
          characteristic_id: c1
  sinks:
    mqtt:
      enabled: true
      broker: tcp://broker:1883
`

func TestParse_ExpandsEnvAndNormalizes(t *testing.T) {
	t.Setenv("GAUGE_TEST_HOST", "10.0.0.5")

	cfg, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := Validate(cfg); err != nil {
		t.Fatalf("validate: %v", err)
	}
	Normalize(cfg)

	src := cfg.Gauge.Sources[0]
	if src.Endpoint != "10.0.0.5:502" {
		t.Fatalf("endpoint = %q", src.Endpoint)
	}
	if src.Mode != "tcp" || src.UnitID != 1 || src.TimeoutMs != DefaultTimeoutMs {
		t.Fatalf("source defaults not applied: %+v", src)
	}

	tc := src.Targets[0]
	if tc.IntervalMs != 1000 || tc.BackoffMs != 5000 {
		t.Fatalf("timing defaults not applied: %+v", tc)
	}
	if tc.WordOrder != "msb_first" || tc.RegisterType != "holding" {
		t.Fatalf("decode defaults not applied: %+v", tc)
	}
	if tc.Scale != "10000" {
		t.Fatalf("scale = %q", tc.Scale)
	}

	m := cfg.Gauge.Sinks.MQTT
	if m.TopicPrefix != "gauge" || *m.QoS != 1 || !*m.Retain {
		t.Fatalf("mqtt defaults not applied: %+v", m)
	}
	if !*cfg.Gauge.Sinks.Console.Enabled {
		t.Fatalf("console sink should default on")
	}
}

func TestParse_RejectsUnknownKeys(t *testing.T) {
	_, err := Parse([]byte("gauge:\n  pollers: []\n"))
	if err == nil {
		t.Fatalf("expected error for unknown key")
	}
}

func TestLoad_File(t *testing.T) {
	t.Setenv("GAUGE_TEST_HOST", "plc.local:1502")

	path := filepath.Join(t.TempDir(), "gauge.yaml")
	if err := os.WriteFile(path, []byte(sample), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	Normalize(cfg)
	if got := cfg.Gauge.Sources[0].Endpoint; got != "plc.local:1502" {
		t.Fatalf("endpoint = %q", got)
	}
}

func TestLoad_Missing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error")
	}
}

func TestWithDefaultPort(t *testing.T) {
	cases := map[string]string{
		"10.0.0.5":      "10.0.0.5:502",
		"10.0.0.5:1502": "10.0.0.5:1502",
		"plc":           "plc:502",
		"::1":           "[::1]:502",
		"[::1]:1502":    "[::1]:1502",
	}
	for in, want := range cases {
		if got := withDefaultPort(in); got != want {
			t.Errorf("withDefaultPort(%q) = %q, want %q", in, got, want)
		}
	}
}
