// internal/status/board.go
package status

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Board tracks per-target health from poll outcomes.
// It is shared by sinks and safe for concurrent use.
type Board struct {
	mu         sync.Mutex
	staleAfter time.Duration
	entries    map[string]*entry
}

type entry struct {
	snap       Snapshot
	lastSeen   time.Time
	errorSince time.Time
}

// NewBoard creates a board. staleAfter <= 0 disables stale detection.
func NewBoard(staleAfter time.Duration) *Board {
	return &Board{
		staleAfter: staleAfter,
		entries:    make(map[string]*entry),
	}
}

// Register adds a target in HealthUnknown. Registering twice is a no-op.
func (b *Board) Register(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entryLocked(id)
}

func (b *Board) entryLocked(id string) *entry {
	e, ok := b.entries[id]
	if !ok {
		e = &entry{snap: Snapshot{Health: HealthUnknown}}
		b.entries[id] = e
	}
	return e
}

// Observe records one poll outcome. code 0 means success.
// It returns the new snapshot and whether anything changed.
func (b *Board) Observe(id string, code uint16, at time.Time) (Snapshot, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	e := b.entryLocked(id)
	prev := e.snap
	e.lastSeen = at

	if code == 0 {
		// recovery resets error bookkeeping
		e.snap = Snapshot{Health: HealthOK}
		e.errorSince = time.Time{}
	} else {
		if e.snap.Health != HealthError && e.snap.Health != HealthStale {
			e.errorSince = at
		} else if e.errorSince.IsZero() {
			e.errorSince = at
		}
		e.snap.Health = HealthError
		e.snap.LastErrorCode = code
		e.snap.SecondsInError = secondsSince(e.errorSince, at)
	}
	return e.snap, e.snap != prev
}

// Tick advances seconds_in_error and stale detection.
// It returns the ids whose snapshot changed, sorted.
func (b *Board) Tick(now time.Time) []string {
	b.mu.Lock()
	defer b.mu.Unlock()

	var changed []string
	for id, e := range b.entries {
		prev := e.snap

		if b.staleAfter > 0 && !e.lastSeen.IsZero() && now.Sub(e.lastSeen) > b.staleAfter {
			if e.snap.Health == HealthOK {
				e.errorSince = now
			}
			e.snap.Health = HealthStale
		}
		if e.snap.Health != HealthOK && !e.errorSince.IsZero() {
			e.snap.SecondsInError = secondsSince(e.errorSince, now)
		}

		if e.snap != prev {
			changed = append(changed, id)
		}
	}
	sort.Strings(changed)
	return changed
}

// Snapshot returns the current snapshot for id.
func (b *Board) Snapshot(id string) (Snapshot, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	e, ok := b.entries[id]
	if !ok {
		return Snapshot{}, false
	}
	return e.snap, true
}

// secondsSince saturates at 65535; seconds_in_error MUST NOT wrap.
func secondsSince(since, now time.Time) uint16 {
	s := now.Sub(since) / time.Second
	if s < 0 {
		return 0
	}
	if s > 65535 {
		return 65535
	}
	return uint16(s)
}

// Watch calls Tick every period and hands changed ids to fn until ctx ends.
// seconds_in_error and stale detection advance here only.
func (b *Board) Watch(ctx context.Context, every time.Duration, fn func(ids []string)) error {
	t := time.NewTicker(every)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-t.C:
			if ids := b.Tick(now); len(ids) > 0 {
				fn(ids)
			}
		}
	}
}

// IDs returns every registered id, sorted.
func (b *Board) IDs() []string {
	b.mu.Lock()
	defer b.mu.Unlock()

	ids := make([]string, 0, len(b.entries))
	for id := range b.entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
