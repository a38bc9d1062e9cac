// internal/status/snapshot.go
package status

// Snapshot is one target's health as the Board last computed it.
// Board hands out copies; metrics and the mirror writer read them, never mutate them.
type Snapshot struct {
	Health         uint16
	LastErrorCode  uint16
	SecondsInError uint16
}
