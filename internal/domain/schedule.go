package domain

import (
	"fmt"
	"time"
)

// NextDailySlot returns the next occurrence (strictly after now) of the
// daily slot at slotM minutes past local midnight in tz.
// Unknown zones fall back to UTC.
func NextDailySlot(nowUTC time.Time, tz string, slotM int) time.Time {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		loc = time.UTC
	}
	localNow := nowUTC.In(loc)
	// Built from the calendar date so DST shifts keep the wall-clock slot.
	slot := time.Date(localNow.Year(), localNow.Month(), localNow.Day(), slotM/60, slotM%60, 0, 0, loc)
	if !slot.After(localNow) {
		slot = time.Date(localNow.Year(), localNow.Month(), localNow.Day()+1, slotM/60, slotM%60, 0, 0, loc)
	}
	return slot.UTC()
}

// DescribeSlot renders t as "9:00 AM today" or "9:00 AM tomorrow"
// relative to now, both in tz.
func DescribeSlot(nowUTC, t time.Time, tz string) string {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		loc = time.UTC
	}
	ln, lt := nowUTC.In(loc), t.In(loc)
	day := lt.Format("Mon, Jan 2")
	switch {
	case sameDay(ln, lt):
		day = "today"
	case sameDay(ln.AddDate(0, 0, 1), lt):
		day = "tomorrow"
	}
	return fmt.Sprintf("%s %s", lt.Format("3:04 PM"), day)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// FormatMinutes returns HH:MM for minutes since midnight (00:00..23:59).
func FormatMinutes(mins int) string {
	if mins < 0 {
		mins = 0
	}
	h := mins / 60
	m := mins % 60
	return fmt.Sprintf("%02d:%02d", h, m)
}

// LocalizeTime formats t in the given timezone for display.
func LocalizeTime(t time.Time, tz string) (string, error) {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return "", err
	}
	return t.In(loc).Format("Jan 2, 2006 3:04 PM"), nil
}
