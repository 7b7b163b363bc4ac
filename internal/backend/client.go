package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/publicsuffix"

	"github.com/ykvlv/autopilot-dashboard/internal/domain"
)

// Client is the set of backend operations the dashboard depends on.
type Client interface {
	FetchProfile(ctx context.Context, handle string) (domain.UserProfile, error)
	SetActive(ctx context.Context, handle string, active bool) error
	SetFrequency(ctx context.Context, handle string, f domain.Frequency) error
	ActivationURL(ctx context.Context) (string, error)
}

// HTTPClient talks to the posting backend over JSON. Each instance owns a
// cookie jar, so one HTTPClient per browser session keeps its backend
// credentials separate from every other session.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPClient creates a client for baseURL sharing the given transport.
// A nil transport uses http.DefaultTransport.
func NewHTTPClient(baseURL string, timeout time.Duration, transport http.RoundTripper) (*HTTPClient, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("cookie jar: %w", err)
	}
	if transport == nil {
		transport = http.DefaultTransport
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
			Jar:       jar,
		},
	}, nil
}

type toggleRequest struct {
	Active bool `json:"active"`
}

type frequencyRequest struct {
	Frequency int `json:"frequency"`
}

type activationResponse struct {
	URL string `json:"url"`
}

// FetchProfile performs GET /api/user/{handle}.
func (c *HTTPClient) FetchProfile(ctx context.Context, handle string) (domain.UserProfile, error) {
	var p domain.UserProfile
	if err := c.do(ctx, http.MethodGet, userPath(handle), nil, &p); err != nil {
		return domain.UserProfile{}, err
	}
	return p, nil
}

// SetActive performs PATCH /api/user/{handle}/toggle.
func (c *HTTPClient) SetActive(ctx context.Context, handle string, active bool) error {
	return c.do(ctx, http.MethodPatch, userPath(handle)+"/toggle", toggleRequest{Active: active}, nil)
}

// SetFrequency performs PATCH /api/user/{handle}/frequency.
func (c *HTTPClient) SetFrequency(ctx context.Context, handle string, f domain.Frequency) error {
	return c.do(ctx, http.MethodPatch, userPath(handle)+"/frequency", frequencyRequest{Frequency: int(f)}, nil)
}

// ActivationURL performs GET /auth/x and returns the provider redirect.
func (c *HTTPClient) ActivationURL(ctx context.Context) (string, error) {
	var resp activationResponse
	if err := c.do(ctx, http.MethodGet, "/auth/x", nil, &resp); err != nil {
		return "", err
	}
	if resp.URL == "" {
		return "", fmt.Errorf("%w: empty activation url", ErrDecode)
	}
	return resp.URL, nil
}

func userPath(handle string) string {
	return "/api/user/" + url.PathEscape(handle)
}

// do sends one request. A nil in means no body; a nil out discards the response body.
func (c *HTTPClient) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Op: method + " " + path, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<10))
		return &StatusError{Op: method + " " + path, Code: resp.StatusCode, Body: strings.TrimSpace(string(respBody))}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrDecode, method, path, err)
	}
	return nil
}
