// internal/config/validate.go
package config

import (
	"errors"
	"fmt"
	"net"

	"github.com/tamzrod/segwayrmp/internal/status"
	"github.com/tamzrod/segwayrmp/internal/transport"
)

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New("config: nil")
	}

	r := cfg.RMP

	// ------------------------------------------------------------
	// PLATFORM / MODE
	// ------------------------------------------------------------

	if _, err := status.ParseVariant(r.Platform); err != nil {
		return fmt.Errorf("rmp.platform: %w", err)
	}
	if r.Mode != "" {
		if _, err := status.ParseMode(r.Mode); err != nil {
			return fmt.Errorf("rmp.mode: %w", err)
		}
	}
	if r.GainSchedule != "" {
		if _, err := status.ParseGainSchedule(r.GainSchedule); err != nil {
			return fmt.Errorf("rmp.gain_schedule: %w", err)
		}
	}
	if r.QueueCapacity != nil && *r.QueueCapacity < 0 {
		return fmt.Errorf("rmp.queue_capacity: must be >= 0, got %d", *r.QueueCapacity)
	}

	// ------------------------------------------------------------
	// TRANSPORT
	// ------------------------------------------------------------

	t := r.Transport
	kind, err := transport.ParseKind(t.Kind)
	if err != nil {
		return fmt.Errorf("rmp.transport.kind: %w", err)
	}

	switch kind {
	case transport.KindCAN:
		return errors.New("rmp.transport.kind: can is not supported")

	case transport.KindSerial:
		if t.Port == "" && t.USBSerial == "" {
			return errors.New("rmp.transport: serial needs port or usb_serial")
		}

	case transport.KindUSB:
		set := 0
		if t.USBSerial != "" {
			set++
		}
		if t.USBDescription != "" {
			set++
		}
		if t.USBIndex != nil {
			if *t.USBIndex < 0 {
				return fmt.Errorf("rmp.transport.usb_index: must be >= 0, got %d", *t.USBIndex)
			}
			set++
		}
		if set != 1 {
			return errors.New("rmp.transport: usb needs exactly one of usb_serial, usb_description, usb_index")
		}
	}

	if t.Baud < 0 {
		return fmt.Errorf("rmp.transport.baud: must be > 0, got %d", t.Baud)
	}
	if t.TimeoutMs < 0 {
		return fmt.Errorf("rmp.transport.timeout_ms: must be >= 0, got %d", t.TimeoutMs)
	}

	// ------------------------------------------------------------
	// STATUS MIRROR (OPT-IN)
	// ------------------------------------------------------------

	if m := cfg.Mirror; m != nil {
		if _, _, err := net.SplitHostPort(m.Endpoint); err != nil {
			return fmt.Errorf("mirror.endpoint: %w", err)
		}
		if int(m.BaseAddress)+status.SlotsPerBlock > 0x10000 {
			return fmt.Errorf("mirror.base_address: block of %d registers at %d overflows the address space",
				status.SlotsPerBlock, m.BaseAddress)
		}
		if m.TimeoutMs < 0 || m.MinIntervalMs < 0 {
			return errors.New("mirror: timeouts must be >= 0")
		}
	}

	// ------------------------------------------------------------
	// LOGGING
	// ------------------------------------------------------------

	switch cfg.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level: unknown level %q", cfg.LogLevel)
	}

	return nil
}
