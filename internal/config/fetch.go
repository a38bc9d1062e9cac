// internal/config/fetch.go
package config

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
)

// remoteGauge is one entry of the backend's {"data": [...]} envelope.
// Numeric fields arrive as numbers or as strings depending on the backend version.
type remoteGauge struct {
	Host             string  `json:"host"`
	Port             flexInt `json:"port"`
	RegisterType     string  `json:"registertype"`
	RegisterAddress  flexInt `json:"register_address"`
	DataType         string  `json:"datatype"`
	ByteOrder        string  `json:"byte_order"`
	Speed            flexInt `json:"speed"` // poll interval, ms
	SlaveID          flexInt `json:"slave_id"`
	GaugeID          string  `json:"gauge_id"`
	CharacteristicID string  `json:"characteristic_id"`
}

type remoteEnvelope struct {
	Data []remoteGauge `json:"data"`
}

type flexInt int

func (f *flexInt) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("not an integer: %s", b)
	}
	*f = flexInt(n)
	return nil
}

// Fetch loads the gauge list from a backend and maps it to sources,
// one per host:port and unit id, in first-seen order.
// The result is raw config: callers still run Validate and Normalize.
func Fetch(ctx context.Context, client *http.Client, url string) ([]SourceConfig, error) {
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("config: fetch %s: %w", url, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("config: fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("config: fetch %s: status %s", url, resp.Status)
	}

	var env remoteEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("config: fetch %s: decode: %w", url, err)
	}

	return mapRemote(env.Data)
}

func mapRemote(gauges []remoteGauge) ([]SourceConfig, error) {
	var out []SourceConfig
	index := make(map[string]int)

	for i, g := range gauges {
		if g.Host == "" {
			return nil, errorf(fmt.Sprintf("sources_url.data[%d]", i), "host required")
		}
		if g.GaugeID == "" || g.CharacteristicID == "" {
			return nil, errorf(fmt.Sprintf("sources_url.data[%d]", i), "gauge_id and characteristic_id required")
		}
		if g.SlaveID < 0 || g.SlaveID > 255 {
			return nil, errorf(fmt.Sprintf("sources_url.data[%d]", i), "slave_id %d out of range", g.SlaveID)
		}

		endpoint := g.Host
		if g.Port > 0 {
			endpoint = net.JoinHostPort(g.Host, strconv.Itoa(int(g.Port)))
		}

		key := fmt.Sprintf("%s#%d", endpoint, g.SlaveID)
		si, ok := index[key]
		if !ok {
			si = len(out)
			index[key] = si
			out = append(out, SourceConfig{
				ID:       key,
				Endpoint: endpoint,
				UnitID:   uint8(g.SlaveID),
			})
		}

		if g.RegisterAddress < 0 {
			return nil, errorf(fmt.Sprintf("sources_url.data[%d]", i), "negative register_address")
		}

		out[si].Targets = append(out[si].Targets, TargetConfig{
			ID:               g.GaugeID + "/" + g.CharacteristicID,
			RegisterType:     g.RegisterType,
			Address:          uint32(g.RegisterAddress),
			DataType:         remoteDataType(g.DataType),
			WordOrder:        g.ByteOrder,
			IntervalMs:       int(g.Speed),
			GaugeID:          g.GaugeID,
			CharacteristicID: g.CharacteristicID,
		})
	}
	return out, nil
}

// remoteDataType folds the backend's display types onto the 32-bit
// unsigned read they are rendered from.
func remoteDataType(s string) string {
	switch strings.ToLower(s) {
	case "hex", "binary":
		return "uint32"
	}
	return s
}

// Resolve appends the backend's sources when SourcesURL is set.
// It runs before Validate so remote targets get the same checks.
func Resolve(ctx context.Context, cfg *Config, client *http.Client) error {
	if cfg == nil || cfg.Gauge.SourcesURL == "" {
		return nil
	}
	srcs, err := Fetch(ctx, client, cfg.Gauge.SourcesURL)
	if err != nil {
		return err
	}
	cfg.Gauge.Sources = append(cfg.Gauge.Sources, srcs...)
	return nil
}
