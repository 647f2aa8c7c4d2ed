// internal/status/encode.go
package status

import (
	"encoding/binary"
	"math"
)

// Encode converts a SegwayStatus into the live part of a status block.
// The platform name slots are left zero. No IO. No side effects.
func Encode(s SegwayStatus) []uint16 {
	regs := make([]uint16, SlotsPerBlock)

	regs[SlotHealth] = Health(s)
	if s.MotorsEnabled {
		regs[SlotMotorsEnabled] = 1
	}
	regs[SlotOperationalMode] = uint16(s.OperationalMode)
	regs[SlotGainSchedule] = uint16(s.GainSchedule)

	regs[SlotPitch] = fixed16(s.Pitch, 100)
	regs[SlotPitchRate] = fixed16(s.PitchRate, 100)
	regs[SlotRoll] = fixed16(s.Roll, 100)
	regs[SlotRollRate] = fixed16(s.RollRate, 100)

	regs[SlotLeftWheelSpeed] = fixed16(s.LeftWheelSpeed, 1000)
	regs[SlotRightWheelSpeed] = fixed16(s.RightWheelSpeed, 1000)
	regs[SlotYawRate] = fixed16(s.YawRate, 100)
	regs[SlotServoFrames] = ufixed16(s.ServoFrames, 100)

	put32(regs, SlotLeftWheelPosition, fixed32(s.IntegratedLeftWheelPosition, 1000))
	put32(regs, SlotRightWheelPosition, fixed32(s.IntegratedRightWheelPosition, 1000))
	put32(regs, SlotForwardPosition, fixed32(s.IntegratedForwardPosition, 1000))
	put32(regs, SlotTurnPosition, fixed32(s.IntegratedTurnPosition, 100))

	regs[SlotLeftTorque] = fixed16(s.LeftMotorTorque, 100)
	regs[SlotRightTorque] = fixed16(s.RightMotorTorque, 100)

	regs[SlotUIBattery] = ufixed16(s.UIBatteryVoltage, 100)
	regs[SlotPowerbaseBattery] = ufixed16(s.PowerbaseBatteryVoltage, 100)

	regs[SlotCommandedVelocity] = fixed16(s.CommandedVelocity, 1000)
	regs[SlotCommandedYawRate] = fixed16(s.CommandedYawRate, 100)

	put32(regs, SlotTimestampSec, uint32(s.Timestamp.Sec))

	return regs
}

// Health derives the block health code from a snapshot.
func Health(s SegwayStatus) uint16 {
	switch {
	case !s.Touched:
		return HealthUnknown
	case s.MotorsEnabled:
		return HealthOK
	default:
		return HealthEStopped
	}
}

// EncodePlatformName lays the platform label ("RMP200", or a site name)
// into the name slots so a SCADA view can tell bases apart. Characters
// outside printable ASCII become '?'; the label is cut at
// PlatformNameMaxChars and zero padded.
func EncodePlatformName(name string) []uint16 {
	var raw [PlatformNameMaxChars]byte
	for i := 0; i < len(name) && i < len(raw); i++ {
		c := name[i]
		if c < ' ' || c > '~' {
			c = '?'
		}
		raw[i] = c
	}

	out := make([]uint16, SlotPlatformNameSlots)
	for i := range out {
		out[i] = binary.BigEndian.Uint16(raw[2*i:])
	}
	return out
}

func fixed16(v, scale float64) uint16 {
	r := math.Round(v * scale)
	switch {
	case math.IsNaN(r):
		return 0
	case r > math.MaxInt16:
		r = math.MaxInt16
	case r < math.MinInt16:
		r = math.MinInt16
	}
	return uint16(int16(r))
}

func ufixed16(v, scale float64) uint16 {
	r := math.Round(v * scale)
	switch {
	case math.IsNaN(r), r < 0:
		return 0
	case r > math.MaxUint16:
		return math.MaxUint16
	}
	return uint16(r)
}

func fixed32(v, scale float64) uint32 {
	r := math.Round(v * scale)
	switch {
	case math.IsNaN(r):
		return 0
	case r > math.MaxInt32:
		r = math.MaxInt32
	case r < math.MinInt32:
		r = math.MinInt32
	}
	return uint32(int32(r))
}

func put32(regs []uint16, slot int, v uint32) {
	regs[slot] = uint16(v >> 16)
	regs[slot+1] = uint16(v)
}
