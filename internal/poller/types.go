// internal/poller/types.go
package poller

import (
	"errors"
	"fmt"
	"time"

	"github.com/tamzrod/modbus-gauge/internal/decode"
)

// Target is one immutable poll target. Built once at startup, shared read-only.
type Target struct {
	ID string

	// Class selects FC 3 (holding) or FC 4 (input).
	Class decode.RegisterClass

	// UserAddress is the 1-based address as configured (e.g. 43269).
	// Address is the 0-based wire address actually sent.
	UserAddress uint32
	Address     uint16
	Count       uint16

	Order decode.WordOrder
	Type  decode.DataType
	Scale decode.ScaleFactor

	// Interval is the delay between the end of one cycle and the start of the next.
	Interval time.Duration
	// Backoff is the wait before reconnecting after a connection failure.
	Backoff time.Duration

	// Gauge and Characteristic address the value on the MQTT side.
	Gauge          string
	Characteristic string
}

// Kind classifies the outcome of a poll cycle.
type Kind uint8

const (
	KindNone       Kind = iota // value decoded
	KindDecode                 // block did not match the data type
	KindProtocol               // device answered with a Modbus exception
	KindConnection             // socket-level failure
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "ok"
	case KindDecode:
		return "decode"
	case KindProtocol:
		return "protocol"
	case KindConnection:
		return "connection"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

var (
	ErrTransportProtocol   = errors.New("transport protocol error")
	ErrTransportConnection = errors.New("transport connection error")
)

// PollResult is produced once per cycle and handed straight to the sink.
type PollResult struct {
	Target *Target
	At     time.Time

	// Value is the decoded block; Scaled is Value after Target.Scale.
	Value  decode.Value
	Scaled float64

	Kind Kind
	Err  error // non-nil iff Kind != KindNone
}

// Code extracts a device-style error code from the result.
// 0 = ok, Modbus exception codes pass through, decode = 0x0100, connection = 0x0200.
func (r PollResult) Code() uint16 {
	switch r.Kind {
	case KindNone:
		return 0
	case KindProtocol:
		var ec exceptionCoder
		if errors.As(r.Err, &ec) {
			return uint16(ec.ExceptionCode())
		}
		return 1
	case KindDecode:
		return 0x0100
	case KindConnection:
		return 0x0200
	}
	return 1
}

// ConfigError reports an invalid Target; it is surfaced before polling starts.
type ConfigError struct {
	Target string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("poller: target %q: %s", e.Target, e.Reason)
}
