package state

import (
	"go.uber.org/zap"
)

// Snapshot is the full board at one instant, without geometry caches.
type Snapshot []Shape

// NewSnapshot strips and copies shapes into a snapshot.
func NewSnapshot(shapes []Shape) Snapshot {
	snap := make(Snapshot, len(shapes))
	for i, s := range shapes {
		snap[i] = s.Stripped()
	}
	return snap
}

// Matches reports whether two snapshots hold the same shapes in the same
// order, comparing drawable fields only.
func (s Snapshot) Matches(o Snapshot) bool {
	if len(s) != len(o) {
		return false
	}
	for i := range s {
		if !s[i].Matches(o[i]) {
			return false
		}
	}
	return true
}

// Rehydrated returns the snapshot's shapes with geometry rebuilt.
func (s Snapshot) Rehydrated() []Shape {
	out := make([]Shape, len(s))
	for i, sh := range s {
		out[i] = sh.Stripped().Rehydrated()
	}
	return out
}

func (s Snapshot) clone() Snapshot {
	return NewSnapshot(s)
}

// Log is the exported form of a History: its snapshots and cursor. Cursor
// -1 is the empty board before the first snapshot.
type Log struct {
	Snapshots []Snapshot
	Cursor    int
}

// EmptyLog returns a log positioned at the empty origin.
func EmptyLog() Log {
	return Log{Cursor: -1}
}

// Current returns the snapshot the cursor points at; nil at the origin.
func (l Log) Current() Snapshot {
	if l.Cursor < 0 || l.Cursor >= len(l.Snapshots) {
		return nil
	}
	return l.Snapshots[l.Cursor]
}

// History is a linear undo/redo stack of board snapshots. Recording after
// an undo discards the redo branch.
//
// History is not safe for concurrent use; the editor serializes access.
type History struct {
	snapshots []Snapshot
	cursor    int
	logger    *zap.Logger
}

// NewHistory returns an empty history at the origin.
func NewHistory(logger *zap.Logger) *History {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &History{cursor: -1, logger: logger}
}

// Current returns the snapshot under the cursor; nil at the origin.
func (h *History) Current() Snapshot {
	if h.cursor < 0 {
		return nil
	}
	return h.snapshots[h.cursor]
}

// Record appends candidate as a new snapshot and reports whether the
// history changed. A candidate matching the current snapshot is dropped; at
// the origin the current snapshot is the empty board.
func (h *History) Record(candidate []Shape) bool {
	next := NewSnapshot(candidate)
	if next.Matches(h.Current()) {
		return false
	}
	changed := false
	if h.cursor < len(h.snapshots)-1 {
		dropped := len(h.snapshots) - (h.cursor + 1)
		h.snapshots = h.snapshots[:h.cursor+1]
		changed = true
		h.logger.Debug("redo branch discarded", zap.Int("snapshots", dropped))
	}
	// Empty boards are never stored; the origin stands in for them.
	if len(next) > 0 {
		h.snapshots = append(h.snapshots, next)
		changed = true
	}
	h.cursor = len(h.snapshots) - 1
	h.logger.Debug("snapshot recorded",
		zap.Int("cursor", h.cursor),
		zap.Int("shapes", len(next)))
	return changed
}

// Undo steps the cursor back, stopping at the origin, and returns the board
// to show.
func (h *History) Undo() Snapshot {
	if h.cursor > -1 {
		h.cursor--
	}
	return h.Current()
}

// Redo steps the cursor forward. At the tip it does nothing and reports
// false.
func (h *History) Redo() (Snapshot, bool) {
	if h.cursor >= len(h.snapshots)-1 {
		return nil, false
	}
	h.cursor++
	return h.Current(), true
}

// Reset empties the history back to the origin.
func (h *History) Reset() {
	h.snapshots = nil
	h.cursor = -1
}

func (h *History) CanUndo() bool { return h.cursor >= 0 }

func (h *History) CanRedo() bool { return h.cursor < len(h.snapshots)-1 }

// Len returns the number of snapshots.
func (h *History) Len() int { return len(h.snapshots) }

// Cursor returns the current index, -1 at the origin.
func (h *History) Cursor() int { return h.cursor }

// Export returns a deep copy of the history.
func (h *History) Export() Log {
	l := Log{Cursor: h.cursor}
	if len(h.snapshots) > 0 {
		l.Snapshots = make([]Snapshot, len(h.snapshots))
		for i, s := range h.snapshots {
			l.Snapshots[i] = s.clone()
		}
	}
	return l
}

// Restore replaces the history with l, clamping the cursor into range.
func (h *History) Restore(l Log) {
	h.snapshots = make([]Snapshot, 0, len(l.Snapshots))
	for _, s := range l.Snapshots {
		h.snapshots = append(h.snapshots, s.clone())
	}
	h.cursor = min(max(l.Cursor, -1), len(h.snapshots)-1)
	h.logger.Debug("history restored",
		zap.Int("snapshots", len(h.snapshots)),
		zap.Int("cursor", h.cursor))
}
