// internal/sink/mirror.go
package sink

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/tamzrod/modbus-gauge/internal/poller"
	"github.com/tamzrod/modbus-gauge/internal/status"
)

// MirrorWriter is what the mirror sink drives; writer.Writer implements it.
type MirrorWriter interface {
	Mirrors(targetID string) bool
	WriteValue(targetID string, v float64) error
	WriteStatus(targetID string, s status.Snapshot) error
}

// Mirror copies scaled values and status blocks into a destination Modbus server.
type Mirror struct {
	w     MirrorWriter
	board *status.Board
	log   zerolog.Logger
}

func NewMirror(w MirrorWriter, board *status.Board, log zerolog.Logger) *Mirror {
	return &Mirror{w: w, board: board, log: log}
}

func (m *Mirror) Name() string { return "mirror" }

func (m *Mirror) Deliver(_ context.Context, res poller.PollResult) error {
	id := res.Target.ID
	if !m.w.Mirrors(id) {
		return nil
	}

	var errs []string

	// data delivery
	if res.Err == nil {
		if err := m.w.WriteValue(id, res.Scaled); err != nil {
			errs = append(errs, err.Error())
		}
	}

	// status delivery
	if snap, ok := m.board.Snapshot(id); ok {
		if err := m.w.WriteStatus(id, snap); err != nil {
			errs = append(errs, err.Error())
		}
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, " | "))
	}
	return nil
}

// Assert writes the full status block of every id once, at startup.
func (m *Mirror) Assert(ids []string) {
	for _, id := range ids {
		m.board.Register(id)
		snap, _ := m.board.Snapshot(id)
		if err := m.w.WriteStatus(id, snap); err != nil {
			m.log.Warn().Str("target", id).Err(err).Msg("status write failed on start")
		}
	}
}

// Refresh pushes the current status block of each changed id.
// It is driven by status.Board.Watch.
func (m *Mirror) Refresh(ids []string) error {
	var errs []string
	for _, id := range ids {
		snap, ok := m.board.Snapshot(id)
		if !ok {
			continue
		}
		if err := m.w.WriteStatus(id, snap); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", id, err))
		}
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, " | "))
	}
	return nil
}
