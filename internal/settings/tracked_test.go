package settings

import "testing"

func TestTrackedRevertsToConfirmed(t *testing.T) {
	tr := newTracked(1)
	seq := tr.begin(2)
	if tr.shown != 2 {
		t.Fatalf("want optimistic 2, got %d", tr.shown)
	}
	latest, changed := tr.finish(seq, 2, true, true)
	if !latest || !changed || tr.shown != 1 {
		t.Fatalf("want revert to 1, got shown=%d latest=%t changed=%t", tr.shown, latest, changed)
	}
}

func TestTrackedNoRevertPolicy(t *testing.T) {
	tr := newTracked(1)
	seq := tr.begin(3)
	_, changed := tr.finish(seq, 3, true, false)
	if changed || tr.shown != 3 {
		t.Fatalf("want shown 3 unchanged, got shown=%d changed=%t", tr.shown, changed)
	}
	if tr.confirmed != 1 {
		t.Fatalf("confirmed must stay 1, got %d", tr.confirmed)
	}
}

func TestTrackedSuccessConfirms(t *testing.T) {
	tr := newTracked(false)
	seq := tr.begin(true)
	latest, changed := tr.finish(seq, true, false, true)
	if !latest || changed || !tr.confirmed || !tr.settled {
		t.Fatalf("unexpected state %+v latest=%t changed=%t", tr, latest, changed)
	}
}
