// internal/poller/modbus/client.go
package modbus

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goburrow/modbus"
)

// Modes understood by Dial.
const (
	ModeTCP        = "tcp"
	ModeRTUOverTCP = "rtuovertcp"
)

// ErrNotConnected is returned by reads before Connect or after Close.
var ErrNotConnected = errors.New("modbus client: not connected")

// ExceptionError is a Modbus exception response from the device.
// The connection is still healthy when this is returned.
type ExceptionError struct {
	Function uint8
	Code     uint8
}

func (e *ExceptionError) Error() string {
	return fmt.Sprintf("modbus exception: fc=%d code=%d", e.Function, e.Code)
}

// ExceptionCode exposes the raw code to callers that classify errors.
func (e *ExceptionError) ExceptionCode() uint8 { return e.Code }

// Config is minimal transport config.
type Config struct {
	Mode     string
	Endpoint string // host:port
	UnitID   uint8
	Timeout  time.Duration
}

// Transport is the method set both clients provide.
type Transport interface {
	Connect(ctx context.Context) error
	ReadHoldingRegisters(addr, qty uint16) ([]uint16, error)
	ReadInputRegisters(addr, qty uint16) ([]uint16, error)
	Close() error
}

// Dial picks the client for cfg.Mode. It does not connect.
func Dial(cfg Config) (Transport, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("modbus client: endpoint required")
	}
	switch cfg.Mode {
	case "", ModeTCP:
		return &TCPClient{cfg: cfg}, nil
	case ModeRTUOverTCP:
		return &RTUOverTCPClient{cfg: cfg}, nil
	}
	return nil, fmt.Errorf("modbus client: unknown mode %q", cfg.Mode)
}

// TCPClient implements poller.Transport over Modbus TCP.
// One instance = one connection; goburrow clients are not safe for concurrent requests.
type TCPClient struct {
	cfg Config

	mu      sync.Mutex
	handler *modbus.TCPClientHandler
	client  modbus.Client
}

// Connect opens a fresh TCP connection. A previous connection is closed first.
func (c *TCPClient) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closeLocked()

	h := modbus.NewTCPClientHandler(c.cfg.Endpoint)
	h.Timeout = c.cfg.Timeout
	h.SlaveId = c.cfg.UnitID

	done := make(chan error, 1)
	go func() { done <- h.Connect() }()

	select {
	case err := <-done:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		go func() {
			if err := <-done; err == nil {
				_ = h.Close()
			}
		}()
		return ctx.Err()
	}

	c.handler = h
	c.client = modbus.NewClient(h)
	return nil
}

// Close closes the TCP connection. Safe to call repeatedly.
func (c *TCPClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closeLocked()
}

func (c *TCPClient) closeLocked() error {
	if c.handler == nil {
		return nil
	}
	err := c.handler.Close()
	c.handler = nil
	c.client = nil
	return err
}

func (c *TCPClient) ReadHoldingRegisters(addr, qty uint16) ([]uint16, error) {
	return c.read(3, addr, qty)
}

func (c *TCPClient) ReadInputRegisters(addr, qty uint16) ([]uint16, error) {
	return c.read(4, addr, qty)
}

func (c *TCPClient) read(fc uint8, addr, qty uint16) ([]uint16, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client == nil {
		return nil, ErrNotConnected
	}

	var raw []byte
	var err error
	if fc == 4 {
		raw, err = c.client.ReadInputRegisters(addr, qty)
	} else {
		raw, err = c.client.ReadHoldingRegisters(addr, qty)
	}
	if err != nil {
		return nil, translateTCPError(err)
	}
	return unpackRegisters(raw), nil
}

func translateTCPError(err error) error {
	var me *modbus.ModbusError
	if errors.As(err, &me) {
		return &ExceptionError{Function: me.FunctionCode &^ 0x80, Code: me.ExceptionCode}
	}
	return err
}

// ---- helpers (pure geometry) ----

func unpackRegisters(data []byte) []uint16 {
	n := len(data) / 2
	out := make([]uint16, n)
	for i := 0; i < n; i++ {
		out[i] = uint16(data[2*i])<<8 | uint16(data[2*i+1])
	}
	return out
}
