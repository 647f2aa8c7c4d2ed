// internal/protocol/errors.go
package protocol

import (
	"errors"
	"fmt"
)

var (
	// ErrIncomplete means the window does not yet hold a full frame.
	ErrIncomplete = errors.New("protocol: incomplete frame")

	// ErrInvalidFrame means the bytes at the start marker are not a frame.
	ErrInvalidFrame = errors.New("protocol: invalid frame")
)

// ChecksumError reports a frame whose checksum byte does not match its content.
type ChecksumError struct {
	ID       uint16
	Expected byte
	Actual   byte
}

func (e *ChecksumError) Error() string {
	return fmt.Sprintf("protocol: checksum mismatch on id 0x%04X: expected 0x%02X, got 0x%02X",
		e.ID, e.Expected, e.Actual)
}

// IsChecksum reports whether err is (or wraps) a ChecksumError.
func IsChecksum(err error) bool {
	var ce *ChecksumError
	return errors.As(err, &ce)
}
