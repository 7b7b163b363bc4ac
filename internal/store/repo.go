package store

import (
	"context"
	"time"
)

// Event kinds recorded in the journal.
const (
	KindUpdateFailed     = "update_failed"
	KindActivationFailed = "activation_request_failed"
)

// Event is one journaled failure.
type Event struct {
	ID        int64
	Kind      string
	Handle    string // empty for activation failures
	Setting   string // "active" or "frequency" for update failures
	Detail    string
	CreatedAt time.Time // UTC
}

// Journal records failures for later diagnosis. It is write-mostly and
// never feeds dashboard state.
type Journal interface {
	Record(ctx context.Context, e Event) error
	Recent(ctx context.Context, handle string, limit int) ([]Event, error)
	Prune(ctx context.Context, before time.Time) (int64, error)
	Close() error
}

// NopJournal discards everything. Used when JOURNAL_PATH is empty.
type NopJournal struct{}

func (NopJournal) Record(context.Context, Event) error { return nil }
func (NopJournal) Recent(context.Context, string, int) ([]Event, error) { return nil, nil }
func (NopJournal) Prune(context.Context, time.Time) (int64, error) { return 0, nil }
func (NopJournal) Close() error { return nil }
