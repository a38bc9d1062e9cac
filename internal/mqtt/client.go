// internal/mqtt/client.go
package mqtt

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Config is the broker connection config.
type Config struct {
	BrokerURL string
	ClientID  string // empty = "modbus-gauge-<uuid>"
	Username  string
	Password  string
	TLS       bool
}

// Client is a connected publisher. Safe for concurrent use.
type Client struct {
	api paho.Client
	log zerolog.Logger
}

const (
	connectTimeout = 10 * time.Second
	publishTimeout = 5 * time.Second
)

func buildOptions(cfg Config, log zerolog.Logger) (*paho.ClientOptions, error) {
	if cfg.BrokerURL == "" {
		return nil, errors.New("mqtt: broker url required")
	}

	clientID := cfg.ClientID
	if clientID == "" {
		clientID = "modbus-gauge-" + uuid.NewString()
	}

	opts := paho.NewClientOptions().
		AddBroker(cfg.BrokerURL).
		SetClientID(clientID).
		SetKeepAlive(30 * time.Second).
		SetConnectTimeout(5 * time.Second).
		SetPingTimeout(3 * time.Second).
		SetAutoReconnect(true).
		SetMaxReconnectInterval(5 * time.Second).
		SetOrderMatters(false)

	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}
	if cfg.TLS {
		opts.SetTLSConfig(&tls.Config{MinVersion: tls.VersionTLS12})
	}

	opts.SetOnConnectHandler(func(paho.Client) {
		log.Info().Str("broker", cfg.BrokerURL).Str("client_id", clientID).Msg("mqtt connected")
	})
	opts.SetConnectionLostHandler(func(_ paho.Client, err error) {
		log.Warn().Err(err).Msg("mqtt connection lost")
	})

	return opts, nil
}

// New connects to the broker. Later disconnects are handled by paho auto-reconnect.
func New(cfg Config, log zerolog.Logger) (*Client, error) {
	opts, err := buildOptions(cfg, log)
	if err != nil {
		return nil, err
	}

	api := paho.NewClient(opts)
	t := api.Connect()
	if !t.WaitTimeout(connectTimeout) {
		return nil, fmt.Errorf("mqtt: connect %s: timeout", cfg.BrokerURL)
	}
	if err := t.Error(); err != nil {
		return nil, fmt.Errorf("mqtt: connect %s: %w", cfg.BrokerURL, err)
	}

	return &Client{api: api, log: log}, nil
}

// Publish sends one message and waits for the broker ack (QoS > 0) or ctx.
func (c *Client) Publish(ctx context.Context, topic string, qos byte, retain bool, payload []byte) error {
	t := c.api.Publish(topic, qos, retain, payload)

	select {
	case <-t.Done():
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(publishTimeout):
		return fmt.Errorf("mqtt: publish %s: timeout", topic)
	}
	if err := t.Error(); err != nil {
		return fmt.Errorf("mqtt: publish %s: %w", topic, err)
	}
	return nil
}

// Close disconnects, allowing quiesce ms for in-flight work.
func (c *Client) Close(quiesce uint) {
	if c.api.IsConnectionOpen() {
		c.api.Disconnect(quiesce)
	}
}
