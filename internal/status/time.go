// internal/status/time.go
package status

import (
	"errors"
	"time"
)

// ErrClockUnavailable is returned by a Clock that cannot tell the time.
var ErrClockUnavailable = errors.New("clock unavailable")

// Timestamp is seconds plus nanoseconds since the Unix epoch.
type Timestamp struct {
	Sec  int64
	Nsec int64
}

// IsZero reports whether t was never stamped.
func (t Timestamp) IsZero() bool {
	return t.Sec == 0 && t.Nsec == 0
}

// Time converts t to a time.Time.
func (t Timestamp) Time() time.Time {
	return time.Unix(t.Sec, t.Nsec)
}

// TimestampOf converts a time.Time.
func TimestampOf(tm time.Time) Timestamp {
	return Timestamp{Sec: tm.Unix(), Nsec: int64(tm.Nanosecond())}
}

// Clock stamps completed snapshots.
type Clock func() (Timestamp, error)

var now = time.Now

// DefaultClock reads the host wall clock. A host reporting the epoch has no
// usable clock.
func DefaultClock() (Timestamp, error) {
	ts := TimestampOf(now())
	if ts.Sec <= 0 {
		return Timestamp{}, ErrClockUnavailable
	}
	return ts, nil
}
