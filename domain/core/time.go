package core

import (
	"time"
)

// GeneratedAtLayout is the layout of document generation stamps: UTC, whole
// seconds, literal Z suffix.
const GeneratedAtLayout = "2006-01-02T15:04:05Z"

// Clock returns the current time. Services take a Clock so tests can pin it.
type Clock func() time.Time

// SystemClock is the wall clock.
func SystemClock() time.Time {
	return time.Now()
}

// Timestamp represents a point in time with timezone awareness
type Timestamp time.Time

// NewTimestamp creates a new timestamp from time.Time
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp(t)
}

// GeneratedAt renders t as a generation stamp (UTC, truncated to seconds).
func (t Timestamp) GeneratedAt() string {
	return time.Time(t).UTC().Truncate(time.Second).Format(GeneratedAtLayout)
}
