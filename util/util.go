// Package util contains misc internal utilities.
package util

import (
	"strings"
	"time"
)

// Clamp limits v to the closed interval [low, high]
func Clamp(v, low, high float64) float64 {
	if v < low {
		return low
	}
	if v > high {
		return high
	}
	return v
}

// ClampInt is Clamp for ints
func ClampInt(v, low, high int) int {
	if v < low {
		return low
	}
	if v > high {
		return high
	}
	return v
}

// SecsToDuration converts a number of seconds to a Duration, rounded to the
// nearest nanosecond
func SecsToDuration(secs float64) time.Duration {
	ns := secs * 1e9
	if ns < 0 {
		return time.Duration(ns - 0.5)
	}
	return time.Duration(ns + 0.5)
}

// MultiError holds several errors that happened together.  errors.Is and
// errors.As look through every one of them.
type MultiError []error

// Error joins the messages of the errors, one per line
func (m MultiError) Error() string {
	strs := make([]string, len(m))
	for i, err := range m {
		strs[i] = err.Error()
	}
	return strings.Join(strs, "\n")
}

// Unwrap returns the errors held
func (m MultiError) Unwrap() []error {
	return m
}

// MergeErrors combines the non-nil errors of a slice into one.  It returns nil
// if there are none, the error itself if there is exactly one, and a
// MultiError otherwise.
func MergeErrors(errs []error) error {
	var kept MultiError
	for _, err := range errs {
		if err != nil {
			kept = append(kept, err)
		}
	}
	switch len(kept) {
	case 0:
		return nil
	case 1:
		return kept[0]
	}
	return kept
}
