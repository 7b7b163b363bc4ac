package profile

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/ykvlv/autopilot-dashboard/internal/backend"
	"github.com/ykvlv/autopilot-dashboard/internal/domain"
)

// ErrProfileUnavailable is matched by every Load failure.
var ErrProfileUnavailable = errors.New("profile unavailable")

// Reason says why a profile could not be loaded.
type Reason string

const (
	ReasonNotFound  Reason = "not_found"
	ReasonStatus    Reason = "status"
	ReasonTransport Reason = "transport"
	ReasonDecode    Reason = "decode"
)

// UnavailableError is returned by Load. The page renders the same terminal
// state for every reason; Reason is kept for logs.
type UnavailableError struct {
	Handle string
	Reason Reason
	Err    error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("profile %q unavailable (%s): %v", e.Handle, e.Reason, e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

func (e *UnavailableError) Is(target error) bool { return target == ErrProfileUnavailable }

// Store fetches the canonical profile for a handle. One best-effort fetch
// per page load: no cache, no retry.
type Store struct {
	client backend.Client
	log    *zap.Logger
}

// NewStore creates a Store reading through client.
func NewStore(client backend.Client, log *zap.Logger) *Store {
	return &Store{client: client, log: log}
}

// Load fetches the profile for handle.
func (s *Store) Load(ctx context.Context, handle string) (domain.UserProfile, error) {
	p, err := s.client.FetchProfile(ctx, handle)
	if err != nil {
		ue := &UnavailableError{Handle: handle, Reason: classify(err), Err: err}
		s.log.Warn("profile fetch failed",
			zap.String("handle", handle),
			zap.String("reason", string(ue.Reason)),
			zap.Error(err),
		)
		return domain.UserProfile{}, ue
	}
	if p.Handle == "" {
		p.Handle = handle
	}
	return p, nil
}

func classify(err error) Reason {
	var se *backend.StatusError
	switch {
	case errors.As(err, &se) && se.NotFound():
		return ReasonNotFound
	case errors.As(err, &se):
		return ReasonStatus
	case errors.Is(err, backend.ErrDecode):
		return ReasonDecode
	default:
		return ReasonTransport
	}
}
