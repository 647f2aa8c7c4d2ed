// internal/mirror/mirror_test.go
package mirror

import (
	"errors"
	"testing"
	"time"

	"github.com/tamzrod/segwayrmp/internal/status"
)

type write struct {
	unitID uint8
	addr   uint16
	regs   []uint16
}

type fakeClient struct {
	writes []write
	err    error
}

func (f *fakeClient) WriteRegisters(unitID uint8, addr uint16, regs []uint16) error {
	if f.err != nil {
		return f.err
	}
	f.writes = append(f.writes, write{unitID, addr, append([]uint16(nil), regs...)})
	return nil
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func newTestMirror(cli *fakeClient) (*Mirror, *fakeClock) {
	m := New(Plan{UnitID: 3, BaseAddress: 100, PlatformName: "RMP200"}, cli)
	clk := &fakeClock{t: time.Unix(1700000000, 0)}
	m.now = clk.now
	return m, clk
}

func live(pitch float64) status.SegwayStatus {
	return status.SegwayStatus{Touched: true, MotorsEnabled: true, Pitch: pitch}
}

func TestPlatformNameWrittenOnFullAssertOnly(t *testing.T) {
	cli := &fakeClient{}
	m, clk := newTestMirror(cli)

	// ---- first write: FULL ASSERT ----
	if err := m.WriteStatus(live(1)); err != nil {
		t.Fatalf("initial full assert failed: %v", err)
	}
	if len(cli.writes) != 1 || len(cli.writes[0].regs) != status.SlotsPerBlock {
		t.Fatalf("expected one full block write, got %+v", cli.writes)
	}
	w := cli.writes[0]
	if w.unitID != 3 || w.addr != 100 {
		t.Fatalf("unexpected target unit=%d addr=%d", w.unitID, w.addr)
	}

	expectedName := status.EncodePlatformName("RMP200")
	for i := 0; i < status.SlotPlatformNameSlots; i++ {
		slot := status.SlotPlatformNameStart + i
		if w.regs[slot] != expectedName[i] {
			t.Fatalf("name slot %d mismatch: got=%d want=%d", slot, w.regs[slot], expectedName[i])
		}
	}

	// ---- second write: LIVE ONLY ----
	clk.t = clk.t.Add(time.Second)
	if err := m.WriteStatus(live(2)); err != nil {
		t.Fatalf("live write failed: %v", err)
	}
	if len(cli.writes) != 2 || len(cli.writes[1].regs) != status.SlotReservedStart {
		t.Fatalf("expected live-only write, got %d regs", len(cli.writes[1].regs))
	}
	if int16(cli.writes[1].regs[status.SlotPitch]) != 200 {
		t.Fatalf("unexpected pitch register %d", int16(cli.writes[1].regs[status.SlotPitch]))
	}
}

func TestRateLimited(t *testing.T) {
	cli := &fakeClient{}
	m, clk := newTestMirror(cli)

	m.WriteStatus(live(1))
	clk.t = clk.t.Add(10 * time.Millisecond)
	m.WriteStatus(live(2))

	if len(cli.writes) != 1 {
		t.Fatalf("write inside the min interval must be skipped, got %d writes", len(cli.writes))
	}

	clk.t = clk.t.Add(DefaultMinInterval)
	m.WriteStatus(live(3))
	if len(cli.writes) != 2 {
		t.Fatalf("expected write after the interval, got %d", len(cli.writes))
	}
}

func TestUnchangedSkipped(t *testing.T) {
	cli := &fakeClient{}
	m, clk := newTestMirror(cli)

	m.WriteStatus(live(1))
	clk.t = clk.t.Add(time.Second)
	m.WriteStatus(live(1))

	if len(cli.writes) != 1 {
		t.Fatalf("identical status must not be rewritten, got %d writes", len(cli.writes))
	}
}

func TestFailureForcesFullReassert(t *testing.T) {
	cli := &fakeClient{}
	m, clk := newTestMirror(cli)

	m.WriteStatus(live(1))

	cli.err = errors.New("connection reset")
	clk.t = clk.t.Add(time.Second)
	if err := m.WriteStatus(live(2)); err == nil {
		t.Fatalf("expected write error")
	}

	cli.err = nil
	// no interval wait while a re-assert is pending
	if err := m.WriteStatus(live(2)); err != nil {
		t.Fatalf("re-assert failed: %v", err)
	}
	last := cli.writes[len(cli.writes)-1]
	if len(last.regs) != status.SlotsPerBlock {
		t.Fatalf("expected full block after failure, got %d regs", len(last.regs))
	}
}

func TestMarkStale(t *testing.T) {
	cli := &fakeClient{}
	m, _ := newTestMirror(cli)
	m.WriteStatus(live(1))

	if err := m.MarkStale(); err != nil {
		t.Fatalf("MarkStale: %v", err)
	}
	w := cli.writes[len(cli.writes)-1]
	if w.addr != 100+status.SlotHealth || len(w.regs) != 1 || w.regs[0] != status.HealthStale {
		t.Fatalf("unexpected stale write: %+v", w)
	}
}
