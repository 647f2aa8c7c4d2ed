// internal/config/normalize.go
package config

import (
	"strings"

	"github.com/tamzrod/segwayrmp/internal/queue"
	"github.com/tamzrod/segwayrmp/internal/transport"
)

// Normalize applies post-validation defaults.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	r := &cfg.RMP

	if r.Mode == "" {
		r.Mode = "tractor"
	}
	if r.GainSchedule == "" {
		r.GainSchedule = "light"
	}
	if r.QueueCapacity == nil {
		n := queue.DefaultCapacity
		r.QueueCapacity = &n
	}

	t := &r.Transport
	t.Kind = strings.ToLower(strings.TrimSpace(t.Kind))
	if t.Kind == "" {
		t.Kind = "none"
	}
	if t.Baud == 0 {
		t.Baud = transport.DefaultBaud
	}
	if t.TimeoutMs == 0 {
		t.TimeoutMs = int(transport.DefaultTimeout.Milliseconds())
	}

	if m := cfg.Mirror; m != nil {
		if m.UnitID == 0 {
			m.UnitID = 1
		}
		if m.TimeoutMs == 0 {
			m.TimeoutMs = 1000
		}
		if m.MinIntervalMs == 0 {
			m.MinIntervalMs = 100
		}
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
}
