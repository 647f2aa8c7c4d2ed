// internal/driver/errors.go
package driver

import (
	"errors"
	"fmt"

	"github.com/tamzrod/segwayrmp/internal/status"
)

var (
	// ErrNotConnected is wrapped by commands issued before Connect.
	ErrNotConnected = errors.New("not connected")

	// ErrNotConfigured means Connect was called without a channel.
	ErrNotConfigured = errors.New("no transport configured")

	// ErrStillStopping means a goroutine of the previous connection outlived
	// the join timeout and has not exited yet.
	ErrStillStopping = errors.New("previous connection still stopping")

	// ErrClockUnavailable is reported when snapshots cannot be stamped.
	ErrClockUnavailable = status.ErrClockUnavailable
)

// ConnectionError reports a failure to open or set up the link.
type ConnectionError struct {
	Reason string
	Err    error
}

func (e *ConnectionError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("connection failed: %s", e.Reason)
	}
	return fmt.Sprintf("connection failed: %s: %v", e.Reason, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// ReadError reports a fatal failure of the telemetry reader.
type ReadError struct {
	Err error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read failed: %v", e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// WriteError reports a failed or short command write.
type WriteError struct {
	Err error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write failed: %v", e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// ConfigurationError reports a rejected configuration step. Subsystem names
// the transport or setting involved.
type ConfigurationError struct {
	Subsystem string
	Reason    string
	Err       error
}

func (e *ConfigurationError) Error() string {
	switch {
	case e.Err != nil && e.Reason != "":
		return fmt.Sprintf("configure %s: %s: %v", e.Subsystem, e.Reason, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("configure %s: %v", e.Subsystem, e.Err)
	default:
		return fmt.Sprintf("configure %s: %s", e.Subsystem, e.Reason)
	}
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// MoveError reports a rejected or failed velocity command.
type MoveError struct {
	Err error
}

func (e *MoveError) Error() string {
	return fmt.Sprintf("move failed: %v", e.Err)
}

func (e *MoveError) Unwrap() error { return e.Err }

// ClockError reports that a completed snapshot could not be stamped.
type ClockError struct {
	Err error
}

func (e *ClockError) Error() string {
	return fmt.Sprintf("timestamp failed: %v", e.Err)
}

func (e *ClockError) Unwrap() error { return e.Err }
