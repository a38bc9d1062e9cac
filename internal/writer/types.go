// internal/writer/types.go
package writer

// StatusPlan places one target's status block in destination memory.
type StatusPlan struct {
	BaseSlot   uint16 // block starts at BaseSlot * status.SlotsPerDevice
	DeviceName string
}

// Plan is the fully-built mirror plan.
// Assumes config has already passed overlap validation.
type Plan struct {
	UnitID uint8

	// Values maps target id -> first of the two holding registers
	// that receive the scaled value as float32.
	Values map[string]uint16

	// Status maps target id -> status block placement.
	Status map[string]StatusPlan
}

// registerClient is the exact contract the writer uses.
type registerClient interface {
	WriteRegisters(unitID uint8, addr uint16, regs []uint16) error
}
