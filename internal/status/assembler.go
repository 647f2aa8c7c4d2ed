// internal/status/assembler.go
package status

import (
	"fmt"

	"github.com/tamzrod/segwayrmp/internal/protocol"
)

// requiredMask has one bit per identifier 0x0401..0x0407. A snapshot is
// emitted on 0x0407 only when every bit was seen since the last 0x0400 or
// 0x0407; a cycle with a lost frame is skipped whole.
const requiredMask uint8 = 0x7F

// RequiredIDs lists the identifiers that make up one telemetry cycle.
func RequiredIDs() []uint16 {
	ids := make([]uint16, 0, 7)
	for id := protocol.IDAttitude; id <= protocol.IDCommanded; id++ {
		ids = append(ids, id)
	}
	return ids
}

// Assembler folds decoded packets into SegwayStatus snapshots.
// It is owned by a single goroutine and is not safe for concurrent use.
type Assembler struct {
	scale Scale
	clock Clock

	acc  SegwayStatus
	seen uint8
}

// NewAssembler returns an assembler for variant v. A nil clock means
// DefaultClock.
func NewAssembler(v Variant, clock Clock) *Assembler {
	if clock == nil {
		clock = DefaultClock
	}
	return &Assembler{scale: v.Scale(), clock: clock}
}

// Ingest applies pkt to the accumulator. When pkt is the 0x0407 closing a
// complete cycle it returns a stamped copy and true. A clock failure is returned alongside the
// snapshot, which then carries a zero timestamp.
func (a *Assembler) Ingest(pkt protocol.Packet) (SegwayStatus, bool, error) {
	if pkt.Channel == protocol.ChannelB {
		return SegwayStatus{}, false, nil
	}

	sc := a.scale
	acc := &a.acc

	switch pkt.ID {
	case protocol.IDCycleStart:
		a.seen = 0
		return SegwayStatus{}, false, nil

	case protocol.IDAttitude:
		acc.Pitch = float64(pkt.Word(0)) / sc.DPS
		acc.PitchRate = float64(pkt.Word(1)) / sc.DPS
		acc.Roll = float64(pkt.Word(2)) / sc.DPS
		acc.RollRate = float64(pkt.Word(3)) / sc.DPS

	case protocol.IDWheels:
		acc.LeftWheelSpeed = float64(pkt.Word(0)) / sc.MPS
		acc.RightWheelSpeed = float64(pkt.Word(1)) / sc.MPS
		acc.YawRate = float64(pkt.Word(2)) / sc.DPS
		acc.ServoFrames = float64(pkt.UWord(3)) * 0.01

	case protocol.IDWheelTravel:
		acc.IntegratedLeftWheelPosition = float64(pkt.Long(0)) / sc.Meters
		acc.IntegratedRightWheelPosition = float64(pkt.Long(2)) / sc.Meters

	case protocol.IDTravel:
		acc.IntegratedForwardPosition = float64(pkt.Long(0)) / sc.Meters
		acc.IntegratedTurnPosition = float64(pkt.Long(2)) / sc.Revs * 360

	case protocol.IDTorque:
		acc.LeftMotorTorque = float64(pkt.Word(0)) / sc.Torque
		acc.RightMotorTorque = float64(pkt.Word(1)) / sc.Torque

	case protocol.IDModes:
		acc.OperationalMode = OperationalMode(pkt.Word(0))
		acc.GainSchedule = GainSchedule(pkt.Word(1))
		acc.UIBatteryVoltage = float64(pkt.UWord(2))*0.0125 + 1.4
		acc.PowerbaseBatteryVoltage = float64(pkt.UWord(3)) / 4

	case protocol.IDCommanded:
		acc.CommandedVelocity = float64(pkt.Word(0)) / sc.MPS
		acc.CommandedYawRate = float64(pkt.Word(1)) / 1024

	case protocol.IDMotorStatus:
		acc.MotorsEnabled = pkt.Data[3] == 0x80
		acc.Touched = true
		return SegwayStatus{}, false, nil

	default:
		return SegwayStatus{}, false, nil
	}

	acc.Touched = true
	a.seen |= 1 << (pkt.ID - protocol.IDAttitude)
	if pkt.ID != protocol.IDCommanded {
		return SegwayStatus{}, false, nil
	}
	complete := a.seen == requiredMask
	a.seen = 0
	if !complete {
		return SegwayStatus{}, false, nil
	}

	snap := a.acc
	ts, err := a.clock()
	if err != nil {
		return snap, true, fmt.Errorf("status: stamp snapshot: %w", err)
	}
	snap.Timestamp = ts
	return snap, true, nil
}

// Current returns a copy of the accumulator, complete or not.
func (a *Assembler) Current() SegwayStatus {
	return a.acc
}

// Reset clears the accumulator and the seen set.
func (a *Assembler) Reset() {
	a.acc = SegwayStatus{}
	a.seen = 0
}
