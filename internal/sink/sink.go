// internal/sink/sink.go
package sink

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/tamzrod/modbus-gauge/internal/poller"
)

// Sink is one destination for poll results.
// Implementations shared by several pollers must be goroutine-safe.
type Sink interface {
	Name() string
	Deliver(ctx context.Context, res poller.PollResult) error
}

// Fanout delivers every result to all sinks, in order.
// A failing sink never stops the others or the poller.
type Fanout struct {
	sinks []Sink
	log   zerolog.Logger
}

var _ poller.Sink = (*Fanout)(nil)

func NewFanout(log zerolog.Logger, sinks ...Sink) *Fanout {
	return &Fanout{sinks: sinks, log: log}
}

// Deliver runs every sink and joins their errors with " | ".
func (f *Fanout) Deliver(ctx context.Context, res poller.PollResult) error {
	var errs []string
	for _, s := range f.sinks {
		if err := s.Deliver(ctx, res); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", s.Name(), err))
		}
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, " | "))
	}
	return nil
}

// Handle implements poller.Sink. Delivery errors are logged and dropped.
func (f *Fanout) Handle(ctx context.Context, res poller.PollResult) {
	if err := f.Deliver(ctx, res); err != nil {
		f.log.Warn().Str("target", targetID(res)).Err(err).Msg("sink delivery failed")
	}
}

func targetID(res poller.PollResult) string {
	if res.Target == nil {
		return ""
	}
	return res.Target.ID
}
