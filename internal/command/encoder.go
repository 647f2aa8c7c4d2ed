// internal/command/encoder.go
// Package command builds host-to-base command packets.
// No IO. Every packet carries protocol.IDCommand.
package command

import (
	"math"

	"github.com/tamzrod/segwayrmp/internal/protocol"
	"github.com/tamzrod/segwayrmp/internal/status"
)

// Configuration command codes, carried in byte 5 of the payload.
const (
	CodeMaxVelocityScale     byte = 0x0A
	CodeMaxAccelerationScale byte = 0x0B
	CodeMaxTurnScale         byte = 0x0C
	CodeGainSchedule         byte = 0x0D
	CodeCurrentLimitScale    byte = 0x0E
	CodeBalanceLock          byte = 0x0F
	CodeOperationalMode      byte = 0x10
	CodeResetIntegrators     byte = 0x32
)

// Integrator reset selectors, one packet each.
const (
	ResetLeftWheel  uint16 = 0x01
	ResetRightWheel uint16 = 0x02
	ResetForward    uint16 = 0x04
	ResetTurn       uint16 = 0x08
)

// Encoder turns engineering units into command packets for one variant.
type Encoder struct {
	scale status.Scale
}

// New returns an encoder using the constants of variant v.
func New(v status.Variant) *Encoder {
	return &Encoder{scale: v.Scale()}
}

// Move builds a velocity command. lin is in m/s, ang in deg/s.
// Counts are rounded and saturated to int16.
func (e *Encoder) Move(lin, ang float64) protocol.Packet {
	p := protocol.Packet{Channel: protocol.ChannelHost, ID: protocol.IDCommand}
	p.SetWord(0, saturate(lin*e.scale.MPS))
	p.SetWord(1, saturate(ang*e.scale.DPS))
	return p
}

// OperationalMode requests a drive mode change.
func OperationalMode(m status.OperationalMode) protocol.Packet {
	return config(CodeOperationalMode, uint16(m))
}

// GainSchedule selects the controller gain schedule.
func GainSchedule(g status.GainSchedule) protocol.Packet {
	return config(CodeGainSchedule, uint16(g))
}

// BalanceLock locks or unlocks balance mode.
func BalanceLock(locked bool) protocol.Packet {
	var v uint16
	if locked {
		v = 1
	}
	return config(CodeBalanceLock, v)
}

// MaxVelocityScale limits top speed to s of the hardware maximum, s in [0,1].
func MaxVelocityScale(s float64) protocol.Packet {
	return config(CodeMaxVelocityScale, fraction(s, 16))
}

// MaxAccelerationScale limits acceleration, s in [0,1].
func MaxAccelerationScale(s float64) protocol.Packet {
	return config(CodeMaxAccelerationScale, fraction(s, 16))
}

// MaxTurnScale limits turn rate, s in [0,1].
func MaxTurnScale(s float64) protocol.Packet {
	return config(CodeMaxTurnScale, fraction(s, 16))
}

// CurrentLimitScale limits motor current, s in [0,1]. Full scale is 256,
// which needs the whole value word.
func CurrentLimitScale(s float64) protocol.Packet {
	return config(CodeCurrentLimitScale, fraction(s, 256))
}

// ResetIntegrators returns the four packets that zero the left wheel, right
// wheel, forward and turn integrators, in that order.
func ResetIntegrators() []protocol.Packet {
	return []protocol.Packet{
		config(CodeResetIntegrators, ResetLeftWheel),
		config(CodeResetIntegrators, ResetRightWheel),
		config(CodeResetIntegrators, ResetForward),
		config(CodeResetIntegrators, ResetTurn),
	}
}

func config(code byte, value uint16) protocol.Packet {
	p := protocol.Packet{Channel: protocol.ChannelHost, ID: protocol.IDCommand}
	p.Data[5] = code
	p.SetUWord(3, value)
	return p
}

// fraction clamps s to [0,1] and scales it down to whole steps of 1/full.
func fraction(s, full float64) uint16 {
	switch {
	case math.IsNaN(s), s < 0:
		s = 0
	case s > 1:
		s = 1
	}
	return uint16(math.Floor(s * full))
}

func saturate(v float64) int16 {
	r := math.Round(v)
	switch {
	case math.IsNaN(r):
		return 0
	case r > math.MaxInt16:
		return math.MaxInt16
	case r < math.MinInt16:
		return math.MinInt16
	}
	return int16(r)
}
