package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/ykvlv/autopilot-dashboard/internal/backend"
	"github.com/ykvlv/autopilot-dashboard/internal/domain"
	"github.com/ykvlv/autopilot-dashboard/internal/settings"
)

// ClientFactory builds the backend client owned by one session.
type ClientFactory func() (backend.Client, error)

// Session is the server-side state of one browser session. Everything in it
// is discarded when the session expires.
type Session struct {
	ID      string
	Client  backend.Client
	limiter *rate.Limiter

	mu         sync.RWMutex
	profile    domain.UserProfile
	controller *settings.Controller
	lastSeen   time.Time
}

// Attach replaces the loaded profile and controller. Called on every
// dashboard load, so a reload starts from fresh backend state.
func (s *Session) Attach(p domain.UserProfile, c *settings.Controller) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profile = p
	s.controller = c
}

// Controller returns the active controller, or nil before a dashboard load.
func (s *Session) Controller() *settings.Controller {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.controller
}

// Profile returns the last loaded profile.
func (s *Session) Profile() domain.UserProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile
}

// AllowIntent reports whether another settings intent may be accepted now.
func (s *Session) AllowIntent() bool {
	return s.limiter.Allow()
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastSeen
}

// Registry holds live sessions keyed by cookie value.
type Registry struct {
	newClient ClientFactory
	limit     rate.Limit
	burst     int
	now       func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewRegistry creates an empty registry. limit and burst throttle settings
// intents per session.
func NewRegistry(newClient ClientFactory, limit rate.Limit, burst int) *Registry {
	return &Registry{
		newClient: newClient,
		limit:     limit,
		burst:     burst,
		now:       time.Now,
		sessions:  make(map[string]*Session),
	}
}

// Get returns a live session and marks it as seen.
func (r *Registry) Get(id string) (*Session, bool) {
	if id == "" {
		return nil, false
	}
	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()
	if ok {
		s.touch(r.now())
	}
	return s, ok
}

// GetOrCreate returns the session for id, creating a new one (with a new
// id) when id is unknown. created reports whether a cookie must be set.
func (r *Registry) GetOrCreate(id string) (s *Session, created bool, err error) {
	if s, ok := r.Get(id); ok {
		return s, false, nil
	}
	client, err := r.newClient()
	if err != nil {
		return nil, false, err
	}
	s = &Session{
		ID:       uuid.NewString(),
		Client:   client,
		limiter:  rate.NewLimiter(r.limit, r.burst),
		lastSeen: r.now(),
	}
	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()
	return s, true, nil
}

// Sweep evicts sessions idle for longer than idle and returns how many went.
func (r *Registry) Sweep(idle time.Duration) int {
	cutoff := r.now().Add(-idle)
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, s := range r.sessions {
		if s.idleSince().Before(cutoff) {
			delete(r.sessions, id)
			n++
		}
	}
	return n
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
