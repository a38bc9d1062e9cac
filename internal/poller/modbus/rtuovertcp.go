// internal/poller/modbus/rtuovertcp.go
package modbus

import (
	"context"
	"errors"
	"sync"

	svmodbus "github.com/simonvetter/modbus"
)

// RTUOverTCPClient talks RTU framing through an RS485-to-TCP gateway.
type RTUOverTCPClient struct {
	cfg Config

	mu sync.Mutex
	mc *svmodbus.ModbusClient
}

// Connect opens a fresh gateway connection. A previous connection is closed first.
func (c *RTUOverTCPClient) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closeLocked()
	if err := ctx.Err(); err != nil {
		return err
	}

	mc, err := svmodbus.NewClient(&svmodbus.ClientConfiguration{
		URL:     "rtuovertcp://" + c.cfg.Endpoint,
		Timeout: c.cfg.Timeout,
	})
	if err != nil {
		return err
	}
	if err := mc.SetUnitId(c.cfg.UnitID); err != nil {
		return err
	}

	done := make(chan error, 1)
	go func() { done <- mc.Open() }()

	select {
	case err := <-done:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		go func() {
			if err := <-done; err == nil {
				_ = mc.Close()
			}
		}()
		return ctx.Err()
	}

	c.mc = mc
	return nil
}

func (c *RTUOverTCPClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closeLocked()
}

func (c *RTUOverTCPClient) closeLocked() error {
	if c.mc == nil {
		return nil
	}
	err := c.mc.Close()
	c.mc = nil
	return err
}

func (c *RTUOverTCPClient) ReadHoldingRegisters(addr, qty uint16) ([]uint16, error) {
	return c.read(3, svmodbus.HOLDING_REGISTER, addr, qty)
}

func (c *RTUOverTCPClient) ReadInputRegisters(addr, qty uint16) ([]uint16, error) {
	return c.read(4, svmodbus.INPUT_REGISTER, addr, qty)
}

func (c *RTUOverTCPClient) read(fc uint8, rt svmodbus.RegType, addr, qty uint16) ([]uint16, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.mc == nil {
		return nil, ErrNotConnected
	}
	regs, err := c.mc.ReadRegisters(addr, qty, rt)
	if err != nil {
		return nil, translateRTUError(fc, err)
	}
	return regs, nil
}

// exception sentinels of simonvetter/modbus and their wire codes
var rtuExceptions = []struct {
	err  error
	code uint8
}{
	{svmodbus.ErrIllegalFunction, 0x01},
	{svmodbus.ErrIllegalDataAddress, 0x02},
	{svmodbus.ErrIllegalDataValue, 0x03},
	{svmodbus.ErrServerDeviceFailure, 0x04},
	{svmodbus.ErrAcknowledge, 0x05},
	{svmodbus.ErrServerDeviceBusy, 0x06},
	{svmodbus.ErrMemoryParityError, 0x08},
	{svmodbus.ErrGWPathUnavailable, 0x0a},
	{svmodbus.ErrGWTargetFailedToRespond, 0x0b},
}

// translateRTUError maps exception replies to ExceptionError. Framing errors
// (ErrBadCRC, ErrProtocolError) stay connection errors: the gateway byte stream
// may be out of step after a garbled frame, so the socket is reopened.
func translateRTUError(fc uint8, err error) error {
	for _, ex := range rtuExceptions {
		if errors.Is(err, ex.err) {
			return &ExceptionError{Function: fc, Code: ex.code}
		}
	}
	return err
}
