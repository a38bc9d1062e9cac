// internal/writer/writer.go
package writer

import (
	"fmt"
	"sync"

	"github.com/tamzrod/modbus-gauge/internal/decode"
	"github.com/tamzrod/modbus-gauge/internal/status"
)

// Writer mirrors decoded values and status blocks into one destination server.
// Safe for concurrent use; writes are serialized.
type Writer struct {
	mu     sync.Mutex
	plan   Plan
	cli    registerClient
	status map[string]*deviceStatusWriter
}

func New(plan Plan, cli registerClient) *Writer {
	w := &Writer{
		plan:   plan,
		cli:    cli,
		status: make(map[string]*deviceStatusWriter, len(plan.Status)),
	}
	for id, sp := range plan.Status {
		w.status[id] = newDeviceStatusWriter(sp, plan.UnitID, cli)
	}
	return w
}

// Mirrors reports whether the target has any destination in the plan.
func (w *Writer) Mirrors(targetID string) bool {
	_, v := w.plan.Values[targetID]
	_, s := w.plan.Status[targetID]
	return v || s
}

// WriteValue writes v as float32, MSB_FIRST, at the target's mirror address.
// Targets without a mirror address are ignored.
func (w *Writer) WriteValue(targetID string, v float64) error {
	addr, ok := w.plan.Values[targetID]
	if !ok {
		return nil
	}

	regs, err := decode.Encode(decode.FromFloat32(float32(v)), decode.MSBFirst)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.cli.WriteRegisters(w.plan.UnitID, addr, regs); err != nil {
		return fmt.Errorf("writer: unit=%d addr=%d target=%s err=%w", w.plan.UnitID, addr, targetID, err)
	}
	return nil
}

// WriteStatus delivers a snapshot to the target's status block, if it has one.
func (w *Writer) WriteStatus(targetID string, s status.Snapshot) error {
	sw, ok := w.status[targetID]
	if !ok {
		return nil
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	return sw.WriteStatus(s)
}

