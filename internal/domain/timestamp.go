package domain

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

// Layouts accepted for backend timestamps, tried in order. Zone-less values
// are taken as UTC. Fractional seconds are accepted by every layout.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05-07",
	"2006-01-02 15:04:05",
}

// ParseTimestamp parses a backend timestamp. Unrecognised input yields the
// zero time and false.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

func decodeTimestamp(raw json.RawMessage) time.Time {
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return time.Time{}
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return time.Time{}
	}
	t, _ := ParseTimestamp(s)
	return t
}

// UnmarshalJSON decodes a profile. Timestamps are display-only, so one the
// backend formats unexpectedly is left zero instead of failing the fetch.
func (p *UserProfile) UnmarshalJSON(b []byte) error {
	type plain UserProfile
	aux := struct {
		*plain
		NextPostAt json.RawMessage `json:"next_post_at"`
		CreatedAt  json.RawMessage `json:"created_at"`
	}{plain: (*plain)(p)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	p.NextPostAt = decodeTimestamp(aux.NextPostAt)
	p.CreatedAt = decodeTimestamp(aux.CreatedAt)
	return nil
}
