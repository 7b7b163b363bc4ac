package identity

import (
	"errors"
	"net/url"
	"strings"
)

// UserParam is the query parameter carrying the active handle.
const UserParam = "user"

// ErrNoIdentity means the location carries no handle. It is a routing
// decision, never a transient failure.
var ErrNoIdentity = errors.New("no identity in location")

// Location exposes the current location's query parameters.
type Location interface {
	Query() url.Values
}

// Navigator moves the user to another surface.
type Navigator interface {
	Navigate(target string)
}

// URLLocation adapts a *url.URL to Location.
type URLLocation struct{ URL *url.URL }

// Query returns the parsed query string.
func (l URLLocation) Query() url.Values {
	if l.URL == nil {
		return url.Values{}
	}
	return l.URL.Query()
}

// Resolve extracts the handle from loc.
func Resolve(loc Location) (string, error) {
	handle := strings.TrimSpace(loc.Query().Get(UserParam))
	if handle == "" {
		return "", ErrNoIdentity
	}
	return handle, nil
}

// ResolveOrRedirect resolves the handle or sends nav to landing. When ok is
// false the caller must stop initialising the dashboard.
func ResolveOrRedirect(loc Location, nav Navigator, landing string) (handle string, ok bool) {
	handle, err := Resolve(loc)
	if err != nil {
		nav.Navigate(landing)
		return "", false
	}
	return handle, true
}
