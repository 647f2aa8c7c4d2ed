// internal/command/encoder_test.go
package command

import (
	"math"
	"testing"

	"github.com/tamzrod/segwayrmp/internal/protocol"
	"github.com/tamzrod/segwayrmp/internal/status"
)

func TestMove_Scaling(t *testing.T) {
	tests := []struct {
		variant  status.Variant
		lin, ang float64
		w0, w1   int16
	}{
		{status.RMP200, 1.0, 10.0, 332, 78},
		{status.RMP200, -0.5, -5.0, -166, -39},
		{status.RMP100, 1.0, 0, 401, 0},
		{status.RMP50, 0.0013, 0.07, 1, 1}, // rounds, does not truncate
		{status.RMP200, 500, -1e9, math.MaxInt16, math.MinInt16},
		{status.RMP200, math.NaN(), 0, 0, 0},
	}

	for _, tt := range tests {
		p := New(tt.variant).Move(tt.lin, tt.ang)

		if p.ID != protocol.IDCommand || p.Channel != protocol.ChannelHost {
			t.Fatalf("unexpected header: %+v", p)
		}
		if p.Word(0) != tt.w0 || p.Word(1) != tt.w1 {
			t.Fatalf("%s Move(%v, %v) = %d, %d; want %d, %d",
				tt.variant, tt.lin, tt.ang, p.Word(0), p.Word(1), tt.w0, tt.w1)
		}
		if p.Word(2) != 0 || p.Word(3) != 0 {
			t.Fatalf("move must leave the configuration words clear: % X", p.Data)
		}
	}
}

// Encoding a command and reading it back as telemetry agrees to within one count.
func TestMove_RoundTrip(t *testing.T) {
	for _, v := range []status.Variant{status.RMP50, status.RMP100, status.RMP200, status.RMP400} {
		enc := New(v)
		sc := v.Scale()

		for _, lin := range []float64{-3.3, -1, -0.01, 0, 0.25, 1.7, 4} {
			p := enc.Move(lin, lin*10)

			back := float64(p.Word(0)) / sc.MPS
			if math.Abs(back-lin) > 1/sc.MPS {
				t.Fatalf("%s: lin %v came back as %v", v, lin, back)
			}
			backAng := float64(p.Word(1)) / sc.DPS
			if math.Abs(backAng-lin*10) > 1/sc.DPS {
				t.Fatalf("%s: ang %v came back as %v", v, lin*10, backAng)
			}
		}
	}
}

func TestScaleFactors_Clamp(t *testing.T) {
	tests := []struct {
		name  string
		build func(float64) protocol.Packet
		code  byte
		in    float64
		want  uint16
	}{
		{"velocity full", MaxVelocityScale, CodeMaxVelocityScale, 1.0, 16},
		{"velocity over", MaxVelocityScale, CodeMaxVelocityScale, 7, 16},
		{"velocity under", MaxVelocityScale, CodeMaxVelocityScale, -2, 0},
		{"velocity floor", MaxVelocityScale, CodeMaxVelocityScale, 0.99, 15},
		{"accel half", MaxAccelerationScale, CodeMaxAccelerationScale, 0.5, 8},
		{"turn nan", MaxTurnScale, CodeMaxTurnScale, math.NaN(), 0},
		{"current full", CurrentLimitScale, CodeCurrentLimitScale, 1.0, 256},
		{"current half", CurrentLimitScale, CodeCurrentLimitScale, 0.5, 128},
	}

	for _, tt := range tests {
		p := tt.build(tt.in)
		if p.Data[5] != tt.code {
			t.Fatalf("%s: expected code 0x%02X, got 0x%02X", tt.name, tt.code, p.Data[5])
		}
		if got := p.UWord(3); got != tt.want {
			t.Fatalf("%s: expected value %d, got %d", tt.name, tt.want, got)
		}
		if p.Word(0) != 0 || p.Word(1) != 0 {
			t.Fatalf("%s: configuration must not carry a velocity: % X", tt.name, p.Data)
		}
	}
}

func TestModeScheduleLock(t *testing.T) {
	p := OperationalMode(status.ModeBalanced)
	if p.Data[5] != CodeOperationalMode || p.UWord(3) != 2 {
		t.Fatalf("unexpected mode packet: % X", p.Data)
	}

	p = GainSchedule(status.GainHeavy)
	if p.Data[5] != CodeGainSchedule || p.UWord(3) != 2 {
		t.Fatalf("unexpected schedule packet: % X", p.Data)
	}

	if BalanceLock(true).UWord(3) != 1 || BalanceLock(false).UWord(3) != 0 {
		t.Fatalf("unexpected balance lock values")
	}
}

func TestResetIntegrators(t *testing.T) {
	pkts := ResetIntegrators()
	want := []uint16{0x01, 0x02, 0x04, 0x08}

	if len(pkts) != len(want) {
		t.Fatalf("expected %d packets, got %d", len(want), len(pkts))
	}
	for i, p := range pkts {
		if p.Data[5] != CodeResetIntegrators || p.UWord(3) != want[i] {
			t.Fatalf("packet %d: % X", i, p.Data)
		}
	}
}

func TestEncodedCommandFrame(t *testing.T) {
	raw := protocol.Encode(OperationalMode(status.ModeTractor))

	got, _, err := protocol.Decode(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ID != protocol.IDCommand || got.Data[5] != 0x10 || got.Data[7] != 0x01 {
		t.Fatalf("unexpected decoded command: %+v", got)
	}
}
