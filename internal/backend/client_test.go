package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend mimics the posting backend's HTTP contract.
type fakeBackend struct {
	active    bool
	frequency int
	cookieOK  bool
}

func (f *fakeBackend) router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/auth/x", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "sid", Value: "s3cret", Path: "/"})
		_ = json.NewEncoder(w).Encode(map[string]string{"url": "https://x.example/oauth?state=1"})
	}).Methods(http.MethodGet)
	r.HandleFunc("/api/user/{handle}", func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie("sid"); err == nil && c.Value == "s3cret" {
			f.cookieOK = true
		}
		if mux.Vars(r)["handle"] != "alice" {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{"x_id":"123","username":"alice","active":true,` +
			`"next_post_at":"2025-05-06T09:00:00Z","created_at":"2025-05-01T12:00:00Z"}`))
	}).Methods(http.MethodGet)
	r.HandleFunc("/api/user/{handle}/toggle", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Active bool `json:"active"`
		}
		if r.Header.Get("Content-Type") != "application/json" || json.NewDecoder(r.Body).Decode(&body) != nil {
			http.Error(w, "bad body", http.StatusBadRequest)
			return
		}
		f.active = body.Active
		w.WriteHeader(http.StatusNoContent)
	}).Methods(http.MethodPatch)
	r.HandleFunc("/api/user/{handle}/frequency", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Frequency int `json:"frequency"`
		}
		if json.NewDecoder(r.Body).Decode(&body) != nil {
			http.Error(w, "bad body", http.StatusBadRequest)
			return
		}
		f.frequency = body.Frequency
		_, _ = w.Write([]byte(`{"ok":true}`))
	}).Methods(http.MethodPatch)
	return r
}

func newTestClient(t *testing.T, h http.Handler) *HTTPClient {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := NewHTTPClient(srv.URL+"/", 2*time.Second, nil)
	require.NoError(t, err)
	return c
}

func TestFetchProfile(t *testing.T) {
	fb := &fakeBackend{}
	c := newTestClient(t, fb.router())

	p, err := c.FetchProfile(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "123", p.ExternalID)
	assert.Equal(t, "alice", p.Handle)
	assert.True(t, p.AutomationActive)
	assert.Equal(t, time.Date(2025, time.May, 6, 9, 0, 0, 0, time.UTC), p.NextPostAt.UTC())
}

func TestFetchProfileTimestampFormats(t *testing.T) {
	want := time.Date(2025, time.May, 6, 9, 0, 0, 0, time.UTC)
	cases := map[string]time.Time{
		`"2025-05-06T09:00:00Z"`:      want,
		`"2025-05-06T09:00:00"`:       want,
		`"2025-05-06 09:00:00+00"`:    want,
		`"2025-05-06 09:00:00+00:00"`: want,
		`"2025-05-06 09:00:00"`:       want,
		`null`:                        {},
		`"next tuesday"`:              {},
	}
	for raw, exp := range cases {
		t.Run(raw, func(t *testing.T) {
			c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"x_id":"123","username":"alice","active":true,"next_post_at":` + raw + `}`))
			}))

			p, err := c.FetchProfile(context.Background(), "alice")
			require.NoError(t, err)
			assert.Equal(t, "alice", p.Handle)
			assert.True(t, exp.Equal(p.NextPostAt), "got %s", p.NextPostAt)
		})
	}
}

func TestFetchProfileNotFound(t *testing.T) {
	c := newTestClient(t, (&fakeBackend{}).router())

	_, err := c.FetchProfile(context.Background(), "mallory")
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.True(t, se.NotFound())
	assert.Contains(t, se.Error(), "user not found")
}

func TestFetchProfileDecodeError(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html>oops</html>"))
	}))

	_, err := c.FetchProfile(context.Background(), "alice")
	assert.ErrorIs(t, err, ErrDecode)
}

func TestFetchProfileEscapesHandle(t *testing.T) {
	var gotPath string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		http.NotFound(w, r)
	}))

	_, _ = c.FetchProfile(context.Background(), "a/b c")
	assert.Equal(t, "/api/user/a%2Fb%20c", gotPath)
}

func TestSettingsWrites(t *testing.T) {
	fb := &fakeBackend{active: true}
	c := newTestClient(t, fb.router())
	ctx := context.Background()

	require.NoError(t, c.SetActive(ctx, "alice", false))
	assert.False(t, fb.active)

	require.NoError(t, c.SetFrequency(ctx, "alice", 3))
	assert.Equal(t, 3, fb.frequency)
}

func TestWriteServerError(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))

	err := c.SetActive(context.Background(), "alice", true)
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusInternalServerError, se.Code)
	assert.False(t, se.NotFound())
}

func TestTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := NewHTTPClient(url, time.Second, nil)
	require.NoError(t, err)

	err = c.SetFrequency(context.Background(), "alice", 2)
	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Contains(t, te.Op, "PATCH /api/user/alice/frequency")
}

func TestTimeoutIsTransportError(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })

	c, err := NewHTTPClient(srv.URL, 50*time.Millisecond, nil)
	require.NoError(t, err)

	err = c.SetActive(context.Background(), "alice", true)
	var te *TransportError
	assert.True(t, errors.As(err, &te), "want TransportError, got %v", err)
}

func TestActivationURLKeepsCredentials(t *testing.T) {
	fb := &fakeBackend{}
	c := newTestClient(t, fb.router())
	ctx := context.Background()

	u, err := c.ActivationURL(ctx)
	require.NoError(t, err)
	assert.Equal(t, "https://x.example/oauth?state=1", u)

	_, err = c.FetchProfile(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, fb.cookieOK, "session cookie from /auth/x must be sent on later calls")
}

func TestActivationURLEmpty(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"url":""}`))
	}))

	_, err := c.ActivationURL(context.Background())
	assert.ErrorIs(t, err, ErrDecode)
}
