// internal/mirror/mirror.go
// Package mirror publishes RMP status into a block of Modbus holding
// registers, for PLCs and HMIs that cannot talk to the driver directly.
package mirror

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/tamzrod/segwayrmp/internal/status"
)

// DefaultMinInterval keeps a 100 Hz telemetry stream from flooding the
// endpoint.
const DefaultMinInterval = 100 * time.Millisecond

// registerWriter is the exact contract the mirror uses.
type registerWriter interface {
	WriteRegisters(unitID uint8, addr uint16, regs []uint16) error
}

// Plan says where the block lives.
type Plan struct {
	Endpoint     string
	UnitID       uint8
	BaseAddress  uint16
	PlatformName string
	MinInterval  time.Duration
}

// Mirror writes status blocks. Safe for concurrent use.
type Mirror struct {
	mu   sync.Mutex
	plan Plan
	cli  registerWriter
	now  func() time.Time

	needFull  bool
	last      []uint16 // live slots as last written
	lastWrite time.Time
	nameRegs  []uint16
}

// New builds a mirror writing through cli. The first write re-asserts the
// full block, platform name included.
func New(plan Plan, cli registerWriter) *Mirror {
	if plan.MinInterval <= 0 {
		plan.MinInterval = DefaultMinInterval
	}
	return &Mirror{
		plan:     plan,
		cli:      cli,
		now:      time.Now,
		needFull: true,
		nameRegs: status.EncodePlatformName(plan.PlatformName),
	}
}

// WriteStatus delivers one snapshot. Snapshots arriving faster than the
// minimum interval are skipped. On any write failure the next call
// re-asserts the full block.
func (m *Mirror) WriteStatus(s status.SegwayStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cli == nil {
		return errors.New("mirror: no client")
	}

	now := m.now()
	if !m.needFull && now.Sub(m.lastWrite) < m.plan.MinInterval {
		return nil
	}

	regs := status.Encode(s)

	// ------------------------------------------------------------
	// Full block write (identity re-assert)
	// ------------------------------------------------------------
	if m.needFull {
		copy(regs[status.SlotPlatformNameStart:], m.nameRegs)

		if err := m.cli.WriteRegisters(m.plan.UnitID, m.plan.BaseAddress, regs); err != nil {
			m.needFull = true
			return fmt.Errorf("mirror: full block write failed: %w", err)
		}

		m.needFull = false
		m.last = regs[:status.SlotReservedStart]
		m.lastWrite = now
		return nil
	}

	// ------------------------------------------------------------
	// Live slots only, skipped when nothing moved
	// ------------------------------------------------------------
	live := regs[:status.SlotReservedStart]
	if equal(live, m.last) {
		return nil
	}

	if err := m.cli.WriteRegisters(m.plan.UnitID, m.plan.BaseAddress, live); err != nil {
		// any failure introduces doubt; re-assert on next success
		m.needFull = true
		return fmt.Errorf("mirror: live write failed: %w", err)
	}

	m.last = live
	m.lastWrite = now
	return nil
}

// MarkStale sets the health slot to HealthStale, e.g. after a disconnect.
func (m *Mirror) MarkStale() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cli == nil {
		return errors.New("mirror: no client")
	}

	addr := m.plan.BaseAddress + status.SlotHealth
	if err := m.cli.WriteRegisters(m.plan.UnitID, addr, []uint16{status.HealthStale}); err != nil {
		m.needFull = true
		return fmt.Errorf("mirror: stale write failed: %w", err)
	}
	if len(m.last) > status.SlotHealth {
		m.last[status.SlotHealth] = status.HealthStale
	}
	return nil
}

func equal(a, b []uint16) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
