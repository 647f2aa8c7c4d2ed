// internal/status/assembler_test.go
package status

import (
	"errors"
	"math"
	"testing"

	"github.com/tamzrod/segwayrmp/internal/protocol"
)

func fixedClock() (Timestamp, error) {
	return Timestamp{Sec: 1700000000, Nsec: 42}, nil
}

func words(id uint16, w0, w1, w2, w3 int16) protocol.Packet {
	p := protocol.Packet{Channel: protocol.ChannelA, ID: id}
	p.SetWord(0, w0)
	p.SetWord(1, w1)
	p.SetWord(2, w2)
	p.SetWord(3, w3)
	return p
}

func longs(id uint16, l0, l1 int32) protocol.Packet {
	p := protocol.Packet{Channel: protocol.ChannelA, ID: id}
	p.SetLong(0, l0)
	p.SetLong(2, l1)
	return p
}

func cycle() []protocol.Packet {
	return []protocol.Packet{
		words(protocol.IDCycleStart, 0, 0, 0, 0),
		words(protocol.IDAttitude, 78, -39, 156, 0),
		words(protocol.IDWheels, 332, -664, 78, 150),
		longs(protocol.IDWheelTravel, 33215, -66430),
		longs(protocol.IDTravel, 332150, 112644),
		words(protocol.IDTorque, 1094, -547, 0, 0),
		words(protocol.IDModes, 2, 1, 1888, 288),
		words(protocol.IDCommanded, 166, 512, 0, 0),
	}
}

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestAssembler_FullCycle(t *testing.T) {
	a := NewAssembler(RMP200, fixedClock)

	var got SegwayStatus
	emitted := 0
	for _, p := range cycle() {
		s, ok, err := a.Ingest(p)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ok {
			got = s
			emitted++
		}
	}

	if emitted != 1 {
		t.Fatalf("expected one snapshot per cycle, got %d", emitted)
	}

	checks := []struct {
		name string
		got  float64
		want float64
	}{
		{"pitch", got.Pitch, 10},
		{"pitch rate", got.PitchRate, -5},
		{"roll", got.Roll, 20},
		{"left wheel speed", got.LeftWheelSpeed, 1},
		{"right wheel speed", got.RightWheelSpeed, -2},
		{"yaw rate", got.YawRate, 10},
		{"servo frames", got.ServoFrames, 1.5},
		{"left wheel position", got.IntegratedLeftWheelPosition, 1},
		{"right wheel position", got.IntegratedRightWheelPosition, -2},
		{"forward position", got.IntegratedForwardPosition, 10},
		{"turn position", got.IntegratedTurnPosition, 360},
		{"left torque", got.LeftMotorTorque, 1},
		{"right torque", got.RightMotorTorque, -0.5},
		{"ui battery", got.UIBatteryVoltage, 1888*0.0125 + 1.4},
		{"powerbase battery", got.PowerbaseBatteryVoltage, 72},
		{"commanded velocity", got.CommandedVelocity, 0.5},
		{"commanded yaw rate", got.CommandedYawRate, 0.5},
	}
	for _, c := range checks {
		if !near(c.got, c.want) {
			t.Fatalf("%s: expected %v, got %v", c.name, c.want, c.got)
		}
	}

	if got.OperationalMode != ModeBalanced || got.GainSchedule != GainTall {
		t.Fatalf("unexpected mode/schedule: %s/%s", got.OperationalMode, got.GainSchedule)
	}
	if got.Timestamp != (Timestamp{Sec: 1700000000, Nsec: 42}) {
		t.Fatalf("unexpected timestamp: %+v", got.Timestamp)
	}
	if !got.Touched {
		t.Fatalf("expected Touched")
	}
}

func TestAssembler_SmallPlatformScale(t *testing.T) {
	a := NewAssembler(RMP100, fixedClock)

	var got SegwayStatus
	for _, p := range cycle() {
		if s, ok, _ := a.Ingest(p); ok {
			got = s
		}
	}

	if !near(got.LeftWheelSpeed, 332.0/401) {
		t.Fatalf("expected RMP100 speed scale, got %v", got.LeftWheelSpeed)
	}
}

func TestAssembler_PartialCycleDoesNotEmit(t *testing.T) {
	a := NewAssembler(RMP200, fixedClock)

	pkts := cycle()
	for _, p := range pkts[:len(pkts)-2] {
		if _, ok, _ := a.Ingest(p); ok {
			t.Fatalf("emitted before the cycle was complete (id 0x%04X)", p.ID)
		}
	}

	// 0x0407 closes the cycle but 0x0406 is missing
	if _, ok, _ := a.Ingest(pkts[len(pkts)-1]); ok {
		t.Fatalf("emitted without 0x0406")
	}
	// a late 0x0406 does not complete anything on its own
	if _, ok, _ := a.Ingest(pkts[len(pkts)-2]); ok {
		t.Fatalf("emitted on 0x0406")
	}
}

func TestAssembler_LostFrameSkipsOneCycle(t *testing.T) {
	a := NewAssembler(RMP200, fixedClock)

	// cycle n carries a pitch of 10n deg and a commanded velocity of n m/s
	feed := func(n int16, drop uint16) (SegwayStatus, uint16, int) {
		var (
			got    SegwayStatus
			lastID uint16
			count  int
		)
		for _, p := range cycle() {
			if p.ID == drop {
				continue
			}
			switch p.ID {
			case protocol.IDAttitude:
				p = words(p.ID, 78*n, 0, 0, 0)
			case protocol.IDCommanded:
				p = words(p.ID, 332*n, 0, 0, 0)
			}
			if s, ok, _ := a.Ingest(p); ok {
				got, lastID = s, p.ID
				count++
			}
		}
		return got, lastID, count
	}

	if _, _, n := feed(1, protocol.IDTravel); n != 0 {
		t.Fatalf("cycle with a lost frame emitted %d snapshots", n)
	}

	for c := int16(2); c <= 4; c++ {
		got, id, n := feed(c, 0)
		if n != 1 {
			t.Fatalf("cycle %d: expected one snapshot, got %d", c, n)
		}
		if id != protocol.IDCommanded {
			t.Fatalf("cycle %d: emitted on 0x%04X, want 0x0407", c, id)
		}
		if !near(got.Pitch, 10*float64(c)) || !near(got.CommandedVelocity, float64(c)) {
			t.Fatalf("cycle %d: fields from mixed cycles: pitch=%v commanded=%v", c, got.Pitch, got.CommandedVelocity)
		}
	}
}

func TestAssembler_CycleStartClearsSeen(t *testing.T) {
	a := NewAssembler(RMP200, fixedClock)

	pkts := cycle()
	// 0x0401..0x0406 of one cycle, then a new cycle starts
	for _, p := range pkts[:len(pkts)-1] {
		a.Ingest(p)
	}
	a.Ingest(pkts[0])
	if _, ok, _ := a.Ingest(pkts[len(pkts)-1]); ok {
		t.Fatalf("0x0407 completed a cycle begun before 0x0400")
	}
}

func TestAssembler_SeenSetResets(t *testing.T) {
	a := NewAssembler(RMP200, fixedClock)
	for _, p := range cycle() {
		a.Ingest(p)
	}

	if _, ok, _ := a.Ingest(words(protocol.IDCommanded, 0, 0, 0, 0)); ok {
		t.Fatalf("a single packet must not complete a new cycle")
	}
}

func TestAssembler_IgnoresChannelB(t *testing.T) {
	a := NewAssembler(RMP200, fixedClock)

	p := words(protocol.IDAttitude, 78, 0, 0, 0)
	p.Channel = protocol.ChannelB
	a.Ingest(p)

	if cur := a.Current(); cur.Touched || cur.Pitch != 0 {
		t.Fatalf("channel B frame changed the accumulator: %+v", cur)
	}
}

func TestAssembler_MotorStatus(t *testing.T) {
	a := NewAssembler(RMP200, fixedClock)

	p := protocol.Packet{Channel: protocol.ChannelA, ID: protocol.IDMotorStatus}
	p.Data[3] = 0x80
	a.Ingest(p)
	if !a.Current().MotorsEnabled {
		t.Fatalf("expected motors enabled")
	}

	p.Data[3] = 0x00
	a.Ingest(p)
	if a.Current().MotorsEnabled {
		t.Fatalf("expected e-stopped")
	}
}

func TestAssembler_UnknownIDIgnored(t *testing.T) {
	a := NewAssembler(RMP200, fixedClock)
	a.Ingest(words(0x0123, 1, 2, 3, 4))

	if a.Current().Touched {
		t.Fatalf("unknown identifier must not touch the status")
	}
}

func TestAssembler_ClockFailure(t *testing.T) {
	a := NewAssembler(RMP200, func() (Timestamp, error) {
		return Timestamp{}, ErrClockUnavailable
	})

	var (
		got SegwayStatus
		err error
		ok  bool
	)
	for _, p := range cycle() {
		var s SegwayStatus
		var done bool
		s, done, err = a.Ingest(p)
		if done {
			got, ok = s, true
			break
		}
	}

	if !ok {
		t.Fatalf("snapshot must still be emitted on clock failure")
	}
	if !errors.Is(err, ErrClockUnavailable) {
		t.Fatalf("expected ErrClockUnavailable, got %v", err)
	}
	if !got.Timestamp.IsZero() {
		t.Fatalf("expected zero timestamp, got %+v", got.Timestamp)
	}
}

func TestRequiredIDs(t *testing.T) {
	ids := RequiredIDs()
	if len(ids) != 7 || ids[0] != 0x0401 || ids[6] != 0x0407 {
		t.Fatalf("unexpected required set: %v", ids)
	}
}
