// internal/poller/poller.go
package poller

//go:generate mockgen -destination=mock_transport_test.go -package=poller . Transport

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/tamzrod/modbus-gauge/internal/decode"
)

// Transport is the black-box Modbus client one poller owns.
// Exceptions must be returned as an error exposing ExceptionCode();
// any other read error is treated as a connection failure.
type Transport interface {
	Connect(ctx context.Context) error
	ReadHoldingRegisters(addr, qty uint16) ([]uint16, error)
	ReadInputRegisters(addr, qty uint16) ([]uint16, error)
	Close() error
}

// Sink receives every PollResult of a poller, in cycle order.
type Sink interface {
	Handle(ctx context.Context, res PollResult)
}

type exceptionCoder interface{ ExceptionCode() uint8 }

// Poller drives one Target over one dedicated Transport.
type Poller struct {
	target *Target
	tr     Transport
	log    zerolog.Logger

	state atomic.Int32
	now   func() time.Time
}

// New validates the target and creates a poller. It never connects.
func New(t Target, tr Transport, log zerolog.Logger) (*Poller, error) {
	if err := validateTarget(&t); err != nil {
		return nil, err
	}
	if tr == nil {
		return nil, &ConfigError{Target: t.ID, Reason: "transport required"}
	}

	p := &Poller{
		target: &t,
		tr:     tr,
		log:    log.With().Str("target", t.ID).Logger(),
		now:    time.Now,
	}
	p.state.Store(int32(StateStopped))
	return p, nil
}

func validateTarget(t *Target) error {
	fail := func(format string, args ...any) error {
		return &ConfigError{Target: t.ID, Reason: fmt.Sprintf(format, args...)}
	}

	if t.ID == "" {
		return fail("id required")
	}
	if t.Type.Words() == 0 {
		return fail("unknown data type %s", t.Type)
	}
	if _, err := decode.Encode(decode.Value{Type: t.Type}, t.Order); err != nil {
		return fail("unknown word order %s", t.Order)
	}
	if int(t.Count) != t.Type.Words() {
		return fail("count %d inconsistent with %s (needs %d)", t.Count, t.Type, t.Type.Words())
	}
	if t.Interval <= 0 {
		return fail("interval must be > 0")
	}
	if t.Backoff <= 0 {
		return fail("backoff must be > 0")
	}
	return nil
}

// Target returns the poller's immutable target.
func (p *Poller) Target() *Target { return p.target }

// PollOnce performs exactly one read + decode + scale.
// It never returns an error: failures are classified into the result.
func (p *Poller) PollOnce() PollResult {
	t := p.target
	res := PollResult{Target: t, At: p.now()}

	var regs []uint16
	var err error
	switch t.Class {
	case decode.Input:
		regs, err = p.tr.ReadInputRegisters(t.Address, t.Count)
	default:
		regs, err = p.tr.ReadHoldingRegisters(t.Address, t.Count)
	}
	if err != nil {
		res.Kind = classify(err)
		if res.Kind == KindProtocol {
			res.Err = fmt.Errorf("%w: %w", ErrTransportProtocol, err)
		} else {
			res.Err = fmt.Errorf("%w: %w", ErrTransportConnection, err)
		}
		return res
	}

	v, err := decode.Decode(regs, t.Order, t.Type)
	if err != nil {
		res.Kind = KindDecode
		res.Err = err
		return res
	}

	res.Value = v
	res.Scaled = t.Scale.Apply(v.Float64())
	return res
}

func classify(err error) Kind {
	var ec exceptionCoder
	if errors.As(err, &ec) {
		return KindProtocol
	}
	return KindConnection
}
