// internal/status/snapshot.go
package status

import (
	"fmt"
	"strings"
)

// SegwayStatus is one full telemetry cycle in engineering units.
// Fields not refreshed in a cycle keep their last value.
type SegwayStatus struct {
	Timestamp Timestamp

	Pitch     float64 // deg
	PitchRate float64 // deg/s
	Roll      float64 // deg
	RollRate  float64 // deg/s

	LeftWheelSpeed  float64 // m/s
	RightWheelSpeed float64 // m/s
	YawRate         float64 // deg/s
	ServoFrames     float64 // s

	IntegratedLeftWheelPosition  float64 // m
	IntegratedRightWheelPosition float64 // m
	IntegratedForwardPosition    float64 // m
	IntegratedTurnPosition       float64 // deg

	LeftMotorTorque  float64 // Nm
	RightMotorTorque float64 // Nm

	UIBatteryVoltage        float64 // V
	PowerbaseBatteryVoltage float64 // V

	OperationalMode OperationalMode
	GainSchedule    GainSchedule

	CommandedVelocity float64 // m/s
	CommandedYawRate  float64

	MotorsEnabled bool

	// Touched is set once any field has been written.
	Touched bool
}

// String renders a multi-line dump for consoles and logs.
func (s SegwayStatus) String() string {
	var b strings.Builder

	b.WriteString("Segway Status:\n")
	fmt.Fprintf(&b, "  Seconds: %d\n", s.Timestamp.Sec)
	fmt.Fprintf(&b, "  Nanoseconds: %d\n", s.Timestamp.Nsec)
	fmt.Fprintf(&b, "Pitch: %g\n", s.Pitch)
	fmt.Fprintf(&b, "Pitch Rate: %g\n", s.PitchRate)
	fmt.Fprintf(&b, "Roll: %g\n", s.Roll)
	fmt.Fprintf(&b, "Roll Rate: %g\n", s.RollRate)
	fmt.Fprintf(&b, "Left Wheel Speed: %g\n", s.LeftWheelSpeed)
	fmt.Fprintf(&b, "Right Wheel Speed: %g\n", s.RightWheelSpeed)
	fmt.Fprintf(&b, "Yaw Rate: %g\n", s.YawRate)
	fmt.Fprintf(&b, "Servo Frames: %g\n", s.ServoFrames)
	fmt.Fprintf(&b, "Integrated Left Wheel Position: %g\n", s.IntegratedLeftWheelPosition)
	fmt.Fprintf(&b, "Integrated Right Wheel Position: %g\n", s.IntegratedRightWheelPosition)
	fmt.Fprintf(&b, "Integrated Forward Displacement: %g\n", s.IntegratedForwardPosition)
	fmt.Fprintf(&b, "Integrated Turn Position: %g\n", s.IntegratedTurnPosition)
	fmt.Fprintf(&b, "Left Motor Torque: %g\n", s.LeftMotorTorque)
	fmt.Fprintf(&b, "Right Motor Torque: %g\n", s.RightMotorTorque)
	fmt.Fprintf(&b, "UI Battery Voltage: %g\n", s.UIBatteryVoltage)
	fmt.Fprintf(&b, "Powerbase Battery Voltage: %g\n", s.PowerbaseBatteryVoltage)
	fmt.Fprintf(&b, "Operational Mode: %s\n", s.OperationalMode)
	fmt.Fprintf(&b, "Controller Gain Schedule: %s\n", s.GainSchedule)
	fmt.Fprintf(&b, "Commanded Velocity: %g\n", s.CommandedVelocity)
	fmt.Fprintf(&b, "Commanded Yaw Rate: %g\n", s.CommandedYawRate)

	b.WriteString("Motor Status: ")
	if s.MotorsEnabled {
		b.WriteString("Motors Enabled")
	} else {
		b.WriteString("E-Stopped")
	}

	return b.String()
}
