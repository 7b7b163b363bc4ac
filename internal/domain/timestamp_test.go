package domain

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseTimestamp(t *testing.T) {
	want := time.Date(2025, time.May, 6, 9, 0, 0, 0, time.UTC)
	cases := map[string]time.Time{
		"2025-05-06T09:00:00Z":         want,
		"2025-05-06T12:00:00+03:00":    want,
		"2025-05-06T09:00:00.123456Z":  want.Add(123456 * time.Microsecond),
		"2025-05-06T09:00:00":          want,
		"2025-05-06T09:00:00.5":        want.Add(500 * time.Millisecond),
		"2025-05-06 09:00:00+00":       want,
		"2025-05-06 11:00:00+02":       want,
		"2025-05-06 09:00:00.25+00:00": want.Add(250 * time.Millisecond),
		"2025-05-06 09:00:00":          want,
	}
	for in, exp := range cases {
		got, ok := ParseTimestamp(in)
		if !ok || !got.Equal(exp) {
			t.Fatalf("ParseTimestamp(%q): want %s, got %s (ok=%t)", in, exp, got, ok)
		}
	}
	for _, in := range []string{"", "tomorrow", "06/05/2025"} {
		if got, ok := ParseTimestamp(in); ok || !got.IsZero() {
			t.Fatalf("ParseTimestamp(%q): want zero, got %s", in, got)
		}
	}
}

func TestUserProfileLenientTimestamps(t *testing.T) {
	for _, next := range []string{`"2025-05-06T09:00:00"`, `"2025-05-06 09:00:00+00"`, `null`, `"soon"`, `12`} {
		raw := `{"x_id":"1","username":"alice","active":true,"next_post_at":` + next + `}`
		var p UserProfile
		if err := json.Unmarshal([]byte(raw), &p); err != nil {
			t.Fatalf("next_post_at=%s: %v", next, err)
		}
		if p.Handle != "alice" || !p.AutomationActive || p.ExternalID != "1" {
			t.Fatalf("next_post_at=%s: unexpected profile %+v", next, p)
		}
	}

	var p UserProfile
	if err := json.Unmarshal([]byte(`{"username":"bob","created_at":"2025-05-01 12:00:00"}`), &p); err != nil {
		t.Fatal(err)
	}
	if !p.CreatedAt.Equal(time.Date(2025, time.May, 1, 12, 0, 0, 0, time.UTC)) || !p.NextPostAt.IsZero() {
		t.Fatalf("unexpected timestamps %+v", p)
	}

	if err := json.Unmarshal([]byte(`{"active":"yes"}`), &p); err == nil {
		t.Fatal("want error for non-bool active")
	}
}
