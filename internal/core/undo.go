package core

// undoStack is a bounded LIFO history of snapshots, most recent last.
// It is owned exclusively by one Session and never shared; the session's
// lock covers all access.
type undoStack struct {
	entries []TableSnapshot
}

// push deep-copies the snapshot onto the stack. When the stack is full
// the oldest entry is evicted, making that state permanently
// unrecoverable.
func (u *undoStack) push(t TableSnapshot) {
	u.entries = append(u.entries, t.Clone())
	if len(u.entries) > UndoLimit {
		u.entries = u.entries[len(u.entries)-UndoLimit:]
	}
}

// pop removes and returns the most recent snapshot. ok is false when the
// stack is empty.
func (u *undoStack) pop() (TableSnapshot, bool) {
	if len(u.entries) == 0 {
		return TableSnapshot{}, false
	}
	last := u.entries[len(u.entries)-1]
	u.entries = u.entries[:len(u.entries)-1]
	return last, true
}

// len returns the number of undo steps available.
func (u *undoStack) len() int {
	return len(u.entries)
}

// clear drops all history.
func (u *undoStack) clear() {
	u.entries = nil
}
