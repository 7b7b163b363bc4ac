package activation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ykvlv/autopilot-dashboard/internal/backend"
	"github.com/ykvlv/autopilot-dashboard/internal/domain"
	"github.com/ykvlv/autopilot-dashboard/internal/identity"
	"github.com/ykvlv/autopilot-dashboard/internal/store"
)

// ErrActivationRequestFailed means no activation URL could be obtained.
var ErrActivationRequestFailed = errors.New("activation request failed")

// Query parameters set by the backend when it sends the user back.
const (
	StatusParam     = "status"
	StatusActivated = "activated"
)

// Result is what the landing page shows.
type Result struct {
	Activated   bool
	Handle      string
	FirstPostAt time.Time // UTC, advisory estimate
	FirstPost   string    // e.g. "9:00 AM tomorrow"
}

// Message is the confirmation line naming the handle.
func (r Result) Message() string {
	return fmt.Sprintf("@%s is now on autopilot.", r.Handle)
}

// Flow starts the identity-linking redirect and reads its outcome.
type Flow struct {
	log     *zap.Logger
	journal store.Journal
	tz      string
	slotM   int
}

// NewFlow creates a Flow estimating the first post at slotM minutes past
// midnight in tz.
func NewFlow(log *zap.Logger, journal store.Journal, tz string, slotM int) *Flow {
	return &Flow{log: log, journal: journal, tz: tz, slotM: slotM}
}

// Begin asks the backend for the activation URL through the session's
// client and navigates there. On failure nothing is navigated.
func (f *Flow) Begin(ctx context.Context, client backend.Client, nav identity.Navigator) error {
	target, err := client.ActivationURL(ctx)
	if err != nil {
		f.log.Error("activation url request failed", zap.Error(err))
		jerr := f.journal.Record(context.WithoutCancel(ctx), store.Event{
			Kind:   store.KindActivationFailed,
			Detail: err.Error(),
		})
		if jerr != nil {
			f.log.Error("journal record failed", zap.Error(jerr))
		}
		return fmt.Errorf("%w: %v", ErrActivationRequestFailed, err)
	}
	nav.Navigate(target)
	return nil
}

// Observe reads the activation flag and handle from loc. Both must be
// present for a confirmation; otherwise the default call to action applies.
func (f *Flow) Observe(loc identity.Location, now time.Time) Result {
	q := loc.Query()
	handle := strings.TrimSpace(q.Get(identity.UserParam))
	if q.Get(StatusParam) != StatusActivated || handle == "" {
		return Result{}
	}
	at := domain.NextDailySlot(now.UTC(), f.tz, f.slotM)
	return Result{
		Activated:   true,
		Handle:      handle,
		FirstPostAt: at,
		FirstPost:   domain.DescribeSlot(now.UTC(), at, f.tz),
	}
}
