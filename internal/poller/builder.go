// internal/poller/builder.go
package poller

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	cfg "github.com/tamzrod/modbus-gauge/internal/config"
	"github.com/tamzrod/modbus-gauge/internal/decode"
	pmodbus "github.com/tamzrod/modbus-gauge/internal/poller/modbus"
)

// TargetFromConfig converts one validated, normalized target into its runtime form.
// Address conversion happens here and nowhere else.
func TargetFromConfig(tc cfg.TargetConfig) (Target, error) {
	bad := func(err error) (Target, error) {
		return Target{}, &ConfigError{Target: tc.ID, Reason: err.Error()}
	}

	class, err := decode.ParseRegisterClass(tc.RegisterType)
	if err != nil {
		return bad(err)
	}
	dtype, err := decode.ParseDataType(tc.DataType)
	if err != nil {
		return bad(err)
	}
	order, err := decode.ParseWordOrder(tc.WordOrder)
	if err != nil {
		return bad(err)
	}
	scale, err := decode.ParseScale(tc.Scale)
	if err != nil {
		return bad(err)
	}

	count := tc.Count
	if count == 0 {
		count = uint16(dtype.Words())
	}

	var wire uint16
	if tc.RawAddress {
		if tc.Address > 0xFFFF {
			return bad(fmt.Errorf("raw address %d out of range", tc.Address))
		}
		wire = uint16(tc.Address)
	} else {
		wire, err = decode.WireAddress(class, tc.Address, count)
		if err != nil {
			return bad(err)
		}
	}

	return Target{
		ID:             tc.ID,
		Class:          class,
		UserAddress:    tc.Address,
		Address:        wire,
		Count:          count,
		Order:          order,
		Type:           dtype,
		Scale:          scale,
		Interval:       time.Duration(tc.IntervalMs) * time.Millisecond,
		Backoff:        time.Duration(tc.BackoffMs) * time.Millisecond,
		Gauge:          tc.GaugeID,
		Characteristic: tc.CharacteristicID,
	}, nil
}

// Build constructs a Poller for one target of a source and gives it its own transport.
// Nothing is dialed here; the poller connects when Run starts.
func Build(src cfg.SourceConfig, tc cfg.TargetConfig, log zerolog.Logger) (*Poller, error) {
	t, err := TargetFromConfig(tc)
	if err != nil {
		return nil, err
	}

	tr, err := pmodbus.Dial(pmodbus.Config{
		Mode:     src.Mode,
		Endpoint: src.Endpoint,
		UnitID:   src.UnitID,
		Timeout:  time.Duration(src.TimeoutMs) * time.Millisecond,
	})
	if err != nil {
		return nil, &ConfigError{Target: tc.ID, Reason: err.Error()}
	}

	return New(t, tr, log.With().Str("source", src.ID).Logger())
}

// BuildAll builds one poller per configured target, in config order.
func BuildAll(c *cfg.Config, log zerolog.Logger) ([]*Poller, error) {
	var out []*Poller
	for _, src := range c.Gauge.Sources {
		for _, tc := range src.Targets {
			p, err := Build(src, tc, log)
			if err != nil {
				return nil, err
			}
			out = append(out, p)
		}
	}
	return out, nil
}
