package analysis

import "time"

// DateToMillis converts t's calendar date to epoch milliseconds at UTC
// midnight. Chart x-values and grid exports share this timebase.
func DateToMillis(t time.Time) int64 {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC).UnixMilli()
}

// MillisToDate is the inverse of DateToMillis.
func MillisToDate(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

// Date builds a UTC-midnight date, the form every sheet date is stored in.
func Date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether a and b fall on the same UTC calendar date.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}
