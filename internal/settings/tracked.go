package settings

// tracked holds one setting's displayed value next to the last value the
// backend confirmed. Every intent takes a sequence number; only the latest
// request may roll the displayed value back.
type tracked[T comparable] struct {
	shown        T
	confirmed    T
	seq          uint64
	confirmedSeq uint64
	settled      bool // latest request has resolved
}

func newTracked[T comparable](v T) tracked[T] {
	return tracked[T]{shown: v, confirmed: v, settled: true}
}

// begin applies v optimistically and returns the request's sequence number.
func (t *tracked[T]) begin(v T) uint64 {
	t.seq++
	t.shown = v
	t.settled = false
	return t.seq
}

// finish records the outcome of request seq carrying v. It reports whether
// seq was the latest request and whether the displayed value changed.
func (t *tracked[T]) finish(seq uint64, v T, failed, revert bool) (latest, changed bool) {
	confirmedNow := false
	if !failed && seq > t.confirmedSeq {
		t.confirmed, t.confirmedSeq = v, seq
		confirmedNow = true
	}

	latest = seq == t.seq
	if latest {
		t.settled = true
		if failed && revert && t.shown != t.confirmed {
			t.shown = t.confirmed
			changed = true
		}
		return latest, changed
	}

	// An older write landed after the latest one already failed and rolled
	// back; the backend now holds the older value.
	if confirmedNow && t.settled && revert && t.shown != t.confirmed {
		t.shown = t.confirmed
		changed = true
	}
	return latest, changed
}
