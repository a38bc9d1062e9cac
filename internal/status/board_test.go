// internal/status/board_test.go
package status

import (
	"reflect"
	"testing"
	"time"
)

var t0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestBoard_UnknownUntilFirstResult(t *testing.T) {
	b := NewBoard(0)
	b.Register("a")

	s, ok := b.Snapshot("a")
	if !ok || s.Health != HealthUnknown {
		t.Fatalf("expected unknown, got %+v ok=%v", s, ok)
	}
	if _, ok := b.Snapshot("missing"); ok {
		t.Fatalf("unregistered id should not exist")
	}
}

func TestBoard_ErrorThenRecovery(t *testing.T) {
	b := NewBoard(0)

	s, changed := b.Observe("a", 0, t0)
	if !changed || s.Health != HealthOK {
		t.Fatalf("first ok: %+v changed=%v", s, changed)
	}

	s, changed = b.Observe("a", 0x0200, t0.Add(time.Second))
	if !changed || s.Health != HealthError || s.LastErrorCode != 0x0200 || s.SecondsInError != 0 {
		t.Fatalf("error: %+v", s)
	}

	if ids := b.Tick(t0.Add(4 * time.Second)); !reflect.DeepEqual(ids, []string{"a"}) {
		t.Fatalf("tick changed = %v", ids)
	}
	s, _ = b.Snapshot("a")
	if s.SecondsInError != 3 {
		t.Fatalf("seconds in error = %d, want 3", s.SecondsInError)
	}

	// same code again keeps the error start
	s, _ = b.Observe("a", 0x0200, t0.Add(6*time.Second))
	if s.SecondsInError != 5 {
		t.Fatalf("seconds in error = %d, want 5", s.SecondsInError)
	}

	s, changed = b.Observe("a", 0, t0.Add(7*time.Second))
	if !changed || s != (Snapshot{Health: HealthOK}) {
		t.Fatalf("recovery must reset: %+v", s)
	}
}

func TestBoard_OKDoesNotTick(t *testing.T) {
	b := NewBoard(0)
	b.Observe("a", 0, t0)
	if ids := b.Tick(t0.Add(time.Hour)); len(ids) != 0 {
		t.Fatalf("healthy target should not change: %v", ids)
	}
}

func TestBoard_Stale(t *testing.T) {
	b := NewBoard(10 * time.Second)
	b.Observe("a", 0, t0)

	if ids := b.Tick(t0.Add(5 * time.Second)); len(ids) != 0 {
		t.Fatalf("not stale yet: %v", ids)
	}
	b.Tick(t0.Add(11 * time.Second))
	s, _ := b.Snapshot("a")
	if s.Health != HealthStale {
		t.Fatalf("expected stale, got %s", HealthName(s.Health))
	}

	b.Tick(t0.Add(15 * time.Second))
	s, _ = b.Snapshot("a")
	if s.SecondsInError != 4 {
		t.Fatalf("seconds in stale = %d, want 4", s.SecondsInError)
	}
}

func TestBoard_SecondsSaturate(t *testing.T) {
	b := NewBoard(0)
	b.Observe("a", 2, t0)
	b.Tick(t0.Add(48 * time.Hour))
	s, _ := b.Snapshot("a")
	if s.SecondsInError != 65535 {
		t.Fatalf("expected saturation, got %d", s.SecondsInError)
	}
}

func TestEncode_Layout(t *testing.T) {
	regs := Encode(Snapshot{Health: HealthError, LastErrorCode: 2, SecondsInError: 9}, "DEV-01")

	if len(regs) != SlotsPerDevice {
		t.Fatalf("block size = %d", len(regs))
	}
	if regs[SlotHealthCode] != HealthError || regs[SlotLastErrorCode] != 2 || regs[SlotSecondsInError] != 9 {
		t.Fatalf("live slots: %v", regs[:3])
	}
	for i := SlotReservedStart; i <= SlotReservedEnd; i++ {
		if regs[i] != 0 {
			t.Fatalf("reserved slot %d = %d", i, regs[i])
		}
	}
	if regs[SlotDeviceNameStart] != uint16('D')<<8|uint16('E') {
		t.Fatalf("name slot 0 = %#04x", regs[SlotDeviceNameStart])
	}
	if regs[SlotDeviceNameStart+3] != 0 {
		t.Fatalf("name padding should be zero")
	}
}

func TestEncodeDeviceName_TruncateAndSanitize(t *testing.T) {
	regs := EncodeDeviceName("A\x01CDEFGHIJKLMNOPQRS")
	if regs[0] != uint16('A')<<8|uint16('?') {
		t.Fatalf("sanitize: %#04x", regs[0])
	}
	if regs[7] != uint16('O')<<8|uint16('P') {
		t.Fatalf("truncate: %#04x", regs[7])
	}
}
