// internal/poller/runner.go
package poller

import (
	"context"
	"fmt"
	"time"
)

// State is the poller's lifecycle state.
type State int32

const (
	StateStopped State = iota
	StateConnecting
	StatePolling
	StateBackoff
)

func (s State) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StateConnecting:
		return "connecting"
	case StatePolling:
		return "polling"
	case StateBackoff:
		return "backoff"
	}
	return "unknown"
}

// State reports the current lifecycle state. Safe for concurrent use.
func (p *Poller) State() State { return State(p.state.Load()) }

func (p *Poller) setState(s State) {
	if prev := State(p.state.Swap(int32(s))); prev != s {
		p.log.Debug().Str("from", prev.String()).Str("to", s.String()).Msg("state change")
	}
}

// Run connects, polls on the target's interval and reconnects after backoff.
// Cycles are strictly sequential: the sink has handled cycle N before N+1 starts.
// Run returns only when ctx is done; the transport is closed on every exit path.
func (p *Poller) Run(ctx context.Context, sink Sink) error {
	defer func() {
		p.setState(StateStopped)
		if err := p.tr.Close(); err != nil {
			p.log.Warn().Err(err).Msg("transport close failed")
		}
	}()

	t := p.target
	p.setState(StateConnecting)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		switch p.State() {
		case StateConnecting:
			if err := p.tr.Connect(ctx); err != nil {
				// cancelled mid-connect is a stop, not a connection failure
				if ctx.Err() != nil {
					return ctx.Err()
				}
				p.log.Warn().Err(err).Dur("backoff", t.Backoff).Msg("connect failed")
				sink.Handle(ctx, PollResult{
					Target: t,
					At:     p.now(),
					Kind:   KindConnection,
					Err:    fmt.Errorf("%w: %w", ErrTransportConnection, err),
				})
				p.setState(StateBackoff)
				continue
			}
			p.log.Info().Msg("connected")
			p.setState(StatePolling)

		case StatePolling:
			res := p.PollOnce()
			sink.Handle(ctx, res)

			switch res.Kind {
			case KindConnection:
				p.log.Warn().Err(res.Err).Dur("backoff", t.Backoff).Msg("connection lost")
				if err := p.tr.Close(); err != nil {
					p.log.Debug().Err(err).Msg("close after failure")
				}
				p.setState(StateBackoff)
				continue
			case KindProtocol, KindDecode:
				p.log.Warn().Err(res.Err).Str("kind", res.Kind.String()).Msg("poll failed")
			}

			wait(ctx, t.Interval)

		case StateBackoff:
			if wait(ctx, t.Backoff) {
				p.setState(StateConnecting)
			}

		default:
			p.setState(StateConnecting)
		}
	}
}

// wait sleeps for d or until ctx is done. It reports whether the full delay elapsed.
func wait(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
