package activation

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ykvlv/autopilot-dashboard/internal/backend/backendtest"
	"github.com/ykvlv/autopilot-dashboard/internal/identity"
	"github.com/ykvlv/autopilot-dashboard/internal/store"
)

type recordingNavigator struct{ targets []string }

func (n *recordingNavigator) Navigate(target string) { n.targets = append(n.targets, target) }

type recordingJournal struct {
	store.NopJournal
	events []store.Event
}

func (j *recordingJournal) Record(_ context.Context, e store.Event) error {
	j.events = append(j.events, e)
	return nil
}

func loc(t *testing.T, raw string) identity.URLLocation {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return identity.URLLocation{URL: u}
}

func TestBeginNavigatesToProvider(t *testing.T) {
	client := new(backendtest.MockClient)
	client.On("ActivationURL", mock.Anything).Return("https://x.example/authorize?s=1", nil).Once()
	nav := &recordingNavigator{}

	f := NewFlow(zap.NewNop(), store.NopJournal{}, "UTC", 9*60)
	require.NoError(t, f.Begin(context.Background(), client, nav))
	assert.Equal(t, []string{"https://x.example/authorize?s=1"}, nav.targets)
	client.AssertExpectations(t)
}

func TestBeginFailureIsLoggedOnly(t *testing.T) {
	client := new(backendtest.MockClient)
	client.On("ActivationURL", mock.Anything).Return("", errors.New("dial tcp: refused")).Once()
	nav := &recordingNavigator{}
	journal := &recordingJournal{}

	f := NewFlow(zap.NewNop(), journal, "UTC", 9*60)
	err := f.Begin(context.Background(), client, nav)
	require.ErrorIs(t, err, ErrActivationRequestFailed)
	assert.Empty(t, nav.targets)
	require.Len(t, journal.events, 1)
	assert.Equal(t, store.KindActivationFailed, journal.events[0].Kind)
}

func TestObserveConfirmation(t *testing.T) {
	f := NewFlow(zap.NewNop(), store.NopJournal{}, "UTC", 9*60)
	now := time.Date(2025, time.May, 5, 18, 30, 0, 0, time.UTC)

	r := f.Observe(loc(t, "/?status=activated&user=bob"), now)
	require.True(t, r.Activated)
	assert.Equal(t, "bob", r.Handle)
	assert.Equal(t, "@bob is now on autopilot.", r.Message())
	assert.Equal(t, time.Date(2025, time.May, 6, 9, 0, 0, 0, time.UTC), r.FirstPostAt)
	assert.Equal(t, "9:00 AM tomorrow", r.FirstPost)
}

func TestObserveDefaultCallToAction(t *testing.T) {
	f := NewFlow(zap.NewNop(), store.NopJournal{}, "UTC", 9*60)
	now := time.Now()

	for _, raw := range []string{
		"/",
		"/?status=activated",
		"/?user=bob",
		"/?status=pending&user=bob",
		"/?status=activated&user=",
	} {
		r := f.Observe(loc(t, raw), now)
		assert.False(t, r.Activated, raw)
		assert.Empty(t, r.Handle, raw)
	}
}
