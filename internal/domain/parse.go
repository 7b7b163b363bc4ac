package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrEmptyFrequency   = errors.New("empty frequency")
	ErrInvalidFrequency = errors.New("invalid frequency")
	ErrInvalidClock     = errors.New("invalid clock time")
)

// Frequency is the number of posts per day.
type Frequency int

const (
	MinFrequency     Frequency = 1
	MaxFrequency     Frequency = 3
	DefaultFrequency Frequency = 1
)

// Valid reports whether f is one of the offered choices.
func (f Frequency) Valid() bool {
	return f >= MinFrequency && f <= MaxFrequency
}

// Label renders f the way the frequency selector shows it.
func (f Frequency) Label() string {
	return fmt.Sprintf("%d per day", int(f))
}

// Frequencies lists every selectable value in ascending order.
func Frequencies() []Frequency {
	out := make([]Frequency, 0, MaxFrequency-MinFrequency+1)
	for f := MinFrequency; f <= MaxFrequency; f++ {
		out = append(out, f)
	}
	return out
}

// ParseFrequency parses the selector value ("1", "2", "3").
func ParseFrequency(s string) (Frequency, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrEmptyFrequency
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrInvalidFrequency, s)
	}
	f := Frequency(n)
	if !f.Valid() {
		return 0, fmt.Errorf("%w: %d not in %d..%d", ErrInvalidFrequency, n, MinFrequency, MaxFrequency)
	}
	return f, nil
}

// ParseClock parses "HH:MM" into minutes since midnight.
func ParseClock(s string) (int, error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("%w: expected HH:MM, got %q", ErrInvalidClock, s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("%w: hour %q", ErrInvalidClock, parts[0])
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("%w: minute %q", ErrInvalidClock, parts[1])
	}
	return h*60 + m, nil
}
