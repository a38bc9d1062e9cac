// internal/writer/status_writer.go
package writer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tamzrod/modbus-gauge/internal/status"
)

// deviceStatusWriter delivers one target's status block verbatim.
// No logic, no interpretation. It remembers only what it last wrote.
type deviceStatusWriter struct {
	plan   StatusPlan
	unitID uint8
	cli    registerClient

	needFull bool
	last     status.Snapshot
}

func newDeviceStatusWriter(sp StatusPlan, unitID uint8, cli registerClient) *deviceStatusWriter {
	return &deviceStatusWriter{
		plan:     sp,
		unitID:   unitID,
		cli:      cli,
		needFull: true, // full re-assert on first successful write
		last:     status.Snapshot{Health: status.HealthUnknown},
	}
}

// WriteStatus writes the full block first, then only the slots that changed.
// On any write failure, the next call re-asserts the full block.
func (sw *deviceStatusWriter) WriteStatus(s status.Snapshot) error {
	if sw.cli == nil {
		return errors.New("status writer: missing client")
	}

	base := sw.baseAddr()

	// ------------------------------------------------------------
	// Full block write (identity re-assert)
	// ------------------------------------------------------------
	if sw.needFull {
		regs := status.Encode(s, sw.plan.DeviceName)
		if err := sw.cli.WriteRegisters(sw.unitID, base, regs); err != nil {
			sw.needFull = true
			return fmt.Errorf("status writer: full block write failed: %w", err)
		}
		sw.needFull = false
		sw.last = s
		return nil
	}

	var errs []string

	write := func(slot uint16, name string, prev, next uint16) bool {
		if prev == next {
			return true
		}
		if err := sw.cli.WriteRegisters(sw.unitID, base+slot, []uint16{next}); err != nil {
			errs = append(errs, fmt.Sprintf("slot%d %s write failed: %v", slot, name, err))
			return false
		}
		return true
	}

	if write(status.SlotHealthCode, "health", sw.last.Health, s.Health) {
		sw.last.Health = s.Health
	}
	if write(status.SlotLastErrorCode, "last_error", sw.last.LastErrorCode, s.LastErrorCode) {
		sw.last.LastErrorCode = s.LastErrorCode
	}
	if write(status.SlotSecondsInError, "seconds", sw.last.SecondsInError, s.SecondsInError) {
		sw.last.SecondsInError = s.SecondsInError
	}

	if len(errs) > 0 {
		// Any partial failure introduces doubt, re-assert on next call.
		sw.needFull = true
		return errors.New("status writer: " + strings.Join(errs, " | "))
	}
	return nil
}

func (sw *deviceStatusWriter) baseAddr() uint16 {
	// Each target owns a fixed SlotsPerDevice block.
	return sw.plan.BaseSlot * status.SlotsPerDevice
}
