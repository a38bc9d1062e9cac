// internal/status/constants.go
package status

// Status block layout constants.
// These values define the mirrored memory layout and MUST NOT be configurable.

// ---- BLOCK GEOMETRY ----

// SlotsPerDevice is the fixed number of registers per target status block.
const SlotsPerDevice = 20

// ---- SLOT INDICES ----

const (
	SlotHealthCode     = 0 // health state
	SlotLastErrorCode  = 1 // last raw error code (see poller.PollResult.Code)
	SlotSecondsInError = 2 // seconds spent outside HealthOK, saturating
)

// Slots 3-10 are reserved.
const (
	SlotReservedStart = 3
	SlotReservedEnd   = 10
)

// ---- DEVICE NAME ----

// The device name always lives at the END of the block.
const (
	SlotDeviceNameStart = 11
	SlotDeviceNameSlots = 8
	SlotDeviceNameEnd   = SlotDeviceNameStart + SlotDeviceNameSlots - 1
)

// DeviceNameMaxChars is the maximum number of ASCII characters stored for the name.
const DeviceNameMaxChars = 16

// ---- HEALTH CODES ----

const (
	HealthUnknown  uint16 = 0 // boot state, no result yet
	HealthOK       uint16 = 1
	HealthError    uint16 = 2
	HealthStale    uint16 = 3 // no result within the stale window
	HealthDisabled uint16 = 4
)

// HealthName renders a health code for logs and metrics labels.
func HealthName(h uint16) string {
	switch h {
	case HealthUnknown:
		return "unknown"
	case HealthOK:
		return "ok"
	case HealthError:
		return "error"
	case HealthStale:
		return "stale"
	case HealthDisabled:
		return "disabled"
	}
	return "invalid"
}
