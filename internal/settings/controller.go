package settings

import (
	"context"
	"strconv"
	"sync"

	"go.uber.org/zap"

	"github.com/ykvlv/autopilot-dashboard/internal/backend"
	"github.com/ykvlv/autopilot-dashboard/internal/domain"
	"github.com/ykvlv/autopilot-dashboard/internal/store"
)

// Write sends an already applied intent to the backend.
type Write func(ctx context.Context) error

// Controller applies setting intents optimistically to the draft, writes
// them to the backend and reconciles on failure.
//
// A failed toggle always reverts to the last confirmed value. A failed
// frequency write keeps the displayed choice unless WithFrequencyRevert is
// set. Intents are not serialised against each other; the result of a
// superseded request never rolls the draft back.
type Controller struct {
	client          backend.Client
	handle          string
	log             *zap.Logger
	journal         store.Journal
	revertFrequency bool

	mu        sync.Mutex
	active    tracked[bool]
	frequency tracked[domain.Frequency]
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger used for failure reports.
func WithLogger(log *zap.Logger) Option {
	return func(c *Controller) { c.log = log }
}

// WithJournal records failures in j.
func WithJournal(j store.Journal) Option {
	return func(c *Controller) { c.journal = j }
}

// WithFrequencyRevert makes failed frequency writes revert like toggles.
func WithFrequencyRevert(on bool) Option {
	return func(c *Controller) { c.revertFrequency = on }
}

// NewController seeds the draft from a freshly loaded profile.
func NewController(client backend.Client, p domain.UserProfile, opts ...Option) *Controller {
	d := domain.NewDraft(p)
	c := &Controller{
		client:    client,
		handle:    p.Handle,
		log:       zap.NewNop(),
		journal:   store.NopJournal{},
		active:    newTracked(d.AutomationActive),
		frequency: newTracked(d.Frequency),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Handle returns the account the controller edits.
func (c *Controller) Handle() string { return c.handle }

// Draft returns a snapshot of the displayed settings.
func (c *Controller) Draft() domain.SettingsDraft {
	c.mu.Lock()
	defer c.mu.Unlock()
	return domain.SettingsDraft{
		AutomationActive: c.active.shown,
		Frequency:        c.frequency.shown,
	}
}

// SetAutomationActive shows desired immediately, then writes it. On failure
// the draft is reverted and an *UpdateFailedError is returned.
func (c *Controller) SetAutomationActive(ctx context.Context, desired bool) error {
	return c.ApplyAutomationActive(desired)(ctx)
}

// SetFrequency shows desired immediately, then writes it.
func (c *Controller) SetFrequency(ctx context.Context, desired domain.Frequency) error {
	w, err := c.ApplyFrequency(desired)
	if err != nil {
		return err
	}
	return w(ctx)
}

// ApplyAutomationActive updates the draft now and returns the backend write.
// The write may run on another goroutine; the draft shows desired until it
// resolves.
func (c *Controller) ApplyAutomationActive(desired bool) Write {
	c.mu.Lock()
	seq := c.active.begin(desired)
	c.mu.Unlock()

	return func(ctx context.Context) error {
		err := c.client.SetActive(ctx, c.handle, desired)

		c.mu.Lock()
		latest, changed := c.active.finish(seq, desired, err != nil, true)
		c.mu.Unlock()

		return c.settle(ctx, SettingActive, strconv.FormatBool(desired), seq, latest, changed, err)
	}
}

// ApplyFrequency validates desired, updates the draft now and returns the
// backend write. An invalid frequency leaves the draft untouched.
func (c *Controller) ApplyFrequency(desired domain.Frequency) (Write, error) {
	if !desired.Valid() {
		return nil, domain.ErrInvalidFrequency
	}

	c.mu.Lock()
	seq := c.frequency.begin(desired)
	c.mu.Unlock()

	return func(ctx context.Context) error {
		err := c.client.SetFrequency(ctx, c.handle, desired)

		c.mu.Lock()
		latest, changed := c.frequency.finish(seq, desired, err != nil, c.revertFrequency)
		c.mu.Unlock()

		return c.settle(ctx, SettingFrequency, strconv.Itoa(int(desired)), seq, latest, changed, err)
	}, nil
}

func (c *Controller) settle(ctx context.Context, s Setting, value string, seq uint64, latest, changed bool, err error) error {
	if err == nil {
		if changed {
			c.log.Info("late write confirmed, draft updated",
				zap.String("handle", c.handle), zap.String("setting", string(s)),
				zap.String("value", value), zap.Uint64("seq", seq))
		}
		return nil
	}

	ufe := &UpdateFailedError{
		Setting:    s,
		Handle:     c.handle,
		Value:      value,
		Reverted:   changed,
		Superseded: !latest,
		Err:        err,
	}
	c.log.Warn("settings update failed",
		zap.String("handle", c.handle),
		zap.String("setting", string(s)),
		zap.String("value", value),
		zap.Uint64("seq", seq),
		zap.Bool("reverted", ufe.Reverted),
		zap.Bool("superseded", ufe.Superseded),
		zap.Error(err),
	)
	// The request context may already be done; the journal entry must still land.
	jerr := c.journal.Record(context.WithoutCancel(ctx), store.Event{
		Kind:    store.KindUpdateFailed,
		Handle:  c.handle,
		Setting: string(s),
		Detail:  ufe.Error(),
	})
	if jerr != nil {
		c.log.Error("journal record failed", zap.Error(jerr))
	}
	return ufe
}
