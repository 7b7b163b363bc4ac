package identity

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNavigator struct{ targets []string }

func (n *recordingNavigator) Navigate(target string) { n.targets = append(n.targets, target) }

func location(t *testing.T, raw string) URLLocation {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return URLLocation{URL: u}
}

func TestResolve(t *testing.T) {
	h, err := Resolve(location(t, "/dashboard?user=alice"))
	require.NoError(t, err)
	assert.Equal(t, "alice", h)

	h, err = Resolve(location(t, "/dashboard?user=%20bob%20&x=1"))
	require.NoError(t, err)
	assert.Equal(t, "bob", h)
}

func TestResolveMissing(t *testing.T) {
	for _, raw := range []string{"/dashboard", "/dashboard?user=", "/dashboard?user=%20", "/dashboard?users=alice"} {
		_, err := Resolve(location(t, raw))
		assert.ErrorIs(t, err, ErrNoIdentity, raw)
	}
	_, err := Resolve(URLLocation{})
	assert.ErrorIs(t, err, ErrNoIdentity)
}

func TestResolveOrRedirect(t *testing.T) {
	nav := &recordingNavigator{}

	h, ok := ResolveOrRedirect(location(t, "/dashboard?user=alice"), nav, "/")
	assert.True(t, ok)
	assert.Equal(t, "alice", h)
	assert.Empty(t, nav.targets)

	h, ok = ResolveOrRedirect(location(t, "/dashboard"), nav, "/")
	assert.False(t, ok)
	assert.Empty(t, h)
	assert.Equal(t, []string{"/"}, nav.targets)
}
