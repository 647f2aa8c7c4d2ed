// internal/transport/transport.go
// Package transport provides the byte channels the RMP is reached through.
package transport

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrTimeout means a read returned without data. Callers retry.
	ErrTimeout = errors.New("transport: read timeout")

	// ErrClosed means the channel is not open.
	ErrClosed = errors.New("transport: channel closed")

	// ErrUnsupported means the channel kind is not compiled in.
	ErrUnsupported = errors.New("transport: unsupported")
)

// Channel is a byte stream to the base.
// Close must unblock, or bound, a Read running on another goroutine.
type Channel interface {
	Open() error
	Close() error
	Read(p []byte) (int, error)
	Write(p []byte) (int, error)
	Flush() error
	IsOpen() bool
}

// Kind selects the channel implementation.
type Kind int

const (
	KindNone Kind = iota
	KindSerial
	KindUSB
	KindCAN
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindSerial:
		return "serial"
	case KindUSB:
		return "usb"
	case KindCAN:
		return "can"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind maps a config name to a Kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "":
		return KindNone, nil
	case "serial":
		return KindSerial, nil
	case "usb":
		return KindUSB, nil
	case "can":
		return KindCAN, nil
	}
	return 0, fmt.Errorf("unknown transport %q", s)
}

// USBLookup selects how a USB device is found.
type USBLookup int

const (
	BySerialNumber USBLookup = iota
	ByDescription
	ByIndex
)

// DefaultBaud is the RMP link rate.
const DefaultBaud = 460800

// DefaultTimeout bounds a single Read.
const DefaultTimeout = 100 * time.Millisecond

// Params configures a channel. Which fields matter depends on the Kind.
type Params struct {
	Port string // serial device path

	USBSerial      string
	USBDescription string
	USBIndex       int
	Lookup         USBLookup

	Baud    int
	Timeout time.Duration
}

func (p Params) withDefaults() Params {
	if p.Baud <= 0 {
		p.Baud = DefaultBaud
	}
	if p.Timeout <= 0 {
		p.Timeout = DefaultTimeout
	}
	return p
}
