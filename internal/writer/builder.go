// internal/writer/builder.go
package writer

import (
	"time"

	cfg "github.com/tamzrod/modbus-gauge/internal/config"
	wmodbus "github.com/tamzrod/modbus-gauge/internal/writer/modbus"
)

// BuildPlan collects mirror placements from every target that opted in.
func BuildPlan(c *cfg.Config) Plan {
	plan := Plan{
		UnitID: c.Gauge.Sinks.Mirror.UnitID,
		Values: make(map[string]uint16),
		Status: make(map[string]StatusPlan),
	}

	for _, src := range c.Gauge.Sources {
		for _, t := range src.Targets {
			if t.MirrorAddress != nil {
				plan.Values[t.ID] = *t.MirrorAddress
			}
			if t.StatusSlot != nil {
				name := t.DeviceName
				if name == "" {
					name = t.ID
				}
				plan.Status[t.ID] = StatusPlan{BaseSlot: *t.StatusSlot, DeviceName: name}
			}
		}
	}
	return plan
}

// BuildClient creates the destination client. It connects lazily.
func BuildClient(m cfg.MirrorConfig) (*wmodbus.EndpointClient, error) {
	return wmodbus.NewEndpointClient(wmodbus.Config{
		Endpoint: m.Endpoint,
		Timeout:  time.Duration(m.TimeoutMs) * time.Millisecond,
	})
}
