// internal/sink/status.go
package sink

import (
	"context"

	"github.com/tamzrod/modbus-gauge/internal/poller"
	"github.com/tamzrod/modbus-gauge/internal/status"
)

// Status feeds poll outcomes into a status.Board.
// Place it first in the fan-out so later sinks read fresh health.
type Status struct {
	board *status.Board
}

func NewStatus(board *status.Board) *Status { return &Status{board: board} }

func (s *Status) Name() string { return "status" }

func (s *Status) Deliver(_ context.Context, res poller.PollResult) error {
	s.board.Observe(targetID(res), res.Code(), res.At)
	return nil
}
