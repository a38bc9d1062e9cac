// internal/config/validate.go
package config

import (
	"fmt"
	"net/url"

	"github.com/tamzrod/modbus-gauge/internal/decode"
)

// ConfigError is a fatal startup error. It is never produced mid-run.
type ConfigError struct {
	Path   string
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Path == "" {
		return "config: " + e.Reason
	}
	return fmt.Sprintf("config: %s: %s", e.Path, e.Reason)
}

func errorf(path, format string, args ...any) error {
	return &ConfigError{Path: path, Reason: fmt.Sprintf(format, args...)}
}

// Validate checks configuration correctness.
// It performs declarative validation only. Zero values mean "use the default".
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errorf("", "nil config")
	}
	g := cfg.Gauge

	if len(g.Sources) == 0 {
		return errorf("gauge.sources", "at least one source required")
	}

	sourceIDs := make(map[string]struct{})
	targetOwner := make(map[string]string)

	for si, s := range g.Sources {
		sp := fmt.Sprintf("gauge.sources[%d]", si)

		if s.ID == "" {
			return errorf(sp, "id required")
		}
		if _, dup := sourceIDs[s.ID]; dup {
			return errorf(sp, "duplicate source id %q", s.ID)
		}
		sourceIDs[s.ID] = struct{}{}

		if s.Endpoint == "" {
			return errorf(sp, "source %q: endpoint required", s.ID)
		}
		switch s.Mode {
		case "", "tcp", "rtuovertcp":
		default:
			return errorf(sp, "source %q: unknown mode %q", s.ID, s.Mode)
		}
		if s.TimeoutMs < 0 {
			return errorf(sp, "source %q: timeout_ms must be >= 0", s.ID)
		}
		if len(s.Targets) == 0 {
			return errorf(sp, "source %q: at least one target required", s.ID)
		}

		for ti, t := range s.Targets {
			tp := fmt.Sprintf("%s.targets[%d]", sp, ti)
			if err := validateTarget(tp, t); err != nil {
				return err
			}
			if prev, dup := targetOwner[t.ID]; dup {
				return errorf(tp, "target id %q already used by source %q", t.ID, prev)
			}
			targetOwner[t.ID] = s.ID
		}
	}

	if err := validateSinks(g); err != nil {
		return err
	}
	return nil
}

func validateTarget(path string, t TargetConfig) error {
	if t.ID == "" {
		return errorf(path, "id required")
	}

	class, err := decode.ParseRegisterClass(t.RegisterType)
	if err != nil {
		return errorf(path, "target %q: %v", t.ID, err)
	}
	dtype, err := decode.ParseDataType(t.DataType)
	if err != nil {
		return errorf(path, "target %q: %v", t.ID, err)
	}
	if _, err := decode.ParseWordOrder(t.WordOrder); err != nil {
		return errorf(path, "target %q: %v", t.ID, err)
	}
	if _, err := decode.ParseScale(t.Scale); err != nil {
		return errorf(path, "target %q: %v", t.ID, err)
	}

	// count is optional; when given it must match the type exactly
	count := t.Count
	if count == 0 {
		count = uint16(dtype.Words())
	}
	if int(count) != dtype.Words() {
		return errorf(path, "target %q: count %d inconsistent with %s (needs %d)", t.ID, t.Count, dtype, dtype.Words())
	}

	if t.RawAddress {
		if t.Address+uint32(count) > 0x10000 {
			return errorf(path, "target %q: raw address %d out of range", t.ID, t.Address)
		}
	} else if _, err := decode.WireAddress(class, t.Address, count); err != nil {
		return errorf(path, "target %q: %v", t.ID, err)
	}

	if t.IntervalMs < 0 {
		return errorf(path, "target %q: interval_ms must be >= 0", t.ID)
	}
	if t.BackoffMs < 0 {
		return errorf(path, "target %q: backoff_ms must be >= 0", t.ID)
	}

	// device_name sanity (ASCII only)
	for i := 0; i < len(t.DeviceName); i++ {
		if t.DeviceName[i] > 0x7F {
			return errorf(path, "target %q: device_name must contain ASCII characters only", t.ID)
		}
	}
	return nil
}

func validateSinks(g GaugeConfig) error {
	s := g.Sinks

	switch s.Console.Format {
	case "", "decimal", "hex", "binary":
	default:
		return errorf("gauge.sinks.console.format", "unknown format %q", s.Console.Format)
	}

	if s.MQTT.Enabled {
		if s.MQTT.Broker == "" {
			return errorf("gauge.sinks.mqtt.broker", "required when mqtt is enabled")
		}
		if _, err := url.Parse(s.MQTT.Broker); err != nil {
			return errorf("gauge.sinks.mqtt.broker", "%v", err)
		}
		if s.MQTT.QoS != nil && *s.MQTT.QoS > 2 {
			return errorf("gauge.sinks.mqtt.qos", "must be 0, 1 or 2")
		}
	}

	if s.Metrics.Enabled && s.Metrics.Listen == "" {
		return errorf("gauge.sinks.metrics.listen", "required when metrics is enabled")
	}

	return validateMirror(g)
}

// validateMirror checks destination memory geometry: a float32 value occupies
// two registers, a status block occupies one fixed-size slot. Nothing may overlap.
func validateMirror(g GaugeConfig) error {
	m := g.Sinks.Mirror
	if !m.Enabled {
		return nil
	}
	if m.Endpoint == "" {
		return errorf("gauge.sinks.mirror.endpoint", "required when mirror is enabled")
	}

	type span struct {
		start, end uint32
		owner      string
	}
	var spans []span

	claim := func(start, length uint32, owner string) error {
		end := start + length - 1
		if end > 0xFFFF {
			return errorf("gauge.sinks.mirror", "%s: range %d-%d exceeds register space", owner, start, end)
		}
		for _, s := range spans {
			// overlap check (inclusive)
			if !(end < s.start || start > s.end) {
				return errorf("gauge.sinks.mirror",
					"memory overlap: %s range=%d-%d overlaps with %s range=%d-%d",
					owner, start, end, s.owner, s.start, s.end)
			}
		}
		spans = append(spans, span{start: start, end: end, owner: owner})
		return nil
	}

	for _, src := range g.Sources {
		for _, t := range src.Targets {
			if t.MirrorAddress != nil {
				if err := claim(uint32(*t.MirrorAddress), 2, fmt.Sprintf("target %q value", t.ID)); err != nil {
					return err
				}
			}
			if t.StatusSlot != nil {
				base := uint32(*t.StatusSlot) * statusSlotSize
				if err := claim(base, statusSlotSize, fmt.Sprintf("target %q status", t.ID)); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// statusSlotSize mirrors status.SlotsPerDevice; config cannot import status.
const statusSlotSize = 20
