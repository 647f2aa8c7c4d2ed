// internal/status/registers.go
package status

// Status register block layout.
// The block is read by external Modbus masters and MUST NOT be configurable.
//
// Signed values are stored as two's complement. 32-bit values span two
// registers, high word first.

// ---- BLOCK GEOMETRY ----

// SlotsPerBlock is the fixed number of registers in one status block.
const SlotsPerBlock = 40

// ---- LIVE STATUS ----

const (
	SlotHealth          = 0 // HealthXXX
	SlotMotorsEnabled   = 1
	SlotOperationalMode = 2
	SlotGainSchedule    = 3

	SlotPitch     = 4 // 0.01 deg
	SlotPitchRate = 5 // 0.01 deg/s
	SlotRoll      = 6 // 0.01 deg
	SlotRollRate  = 7 // 0.01 deg/s

	SlotLeftWheelSpeed  = 8  // mm/s
	SlotRightWheelSpeed = 9  // mm/s
	SlotYawRate         = 10 // 0.01 deg/s
	SlotServoFrames     = 11 // 0.01 s, unsigned

	SlotLeftWheelPosition  = 12 // mm, 2 slots
	SlotRightWheelPosition = 14 // mm, 2 slots
	SlotForwardPosition    = 16 // mm, 2 slots
	SlotTurnPosition       = 18 // 0.01 deg, 2 slots

	SlotLeftTorque  = 20 // 0.01 Nm
	SlotRightTorque = 21 // 0.01 Nm

	SlotUIBattery        = 22 // 0.01 V, unsigned
	SlotPowerbaseBattery = 23 // 0.01 V, unsigned

	SlotCommandedVelocity = 24 // mm/s
	SlotCommandedYawRate  = 25 // raw/1024 scaled by 100

	SlotTimestampSec = 26 // 2 slots, seconds since epoch truncated to 32 bits
)

// ---- RESERVED RANGE ----

// Slots 28–31 are reserved for future use.
const SlotReservedStart = 28
const SlotReservedEnd = 31

// ---- PLATFORM NAME ----

// SlotPlatformNameStart is the first slot holding the platform name.
// The name always sits at the END of the block.
const SlotPlatformNameStart = 32

// SlotPlatformNameSlots is the number of slots reserved for the name.
const SlotPlatformNameSlots = 8

// PlatformNameMaxChars is the maximum number of ASCII characters stored.
const PlatformNameMaxChars = 16

// ---- HEALTH CODES ----

// HealthUnknown represents the boot state, before any telemetry.
const HealthUnknown uint16 = 0

// HealthOK represents live telemetry with motors enabled.
const HealthOK uint16 = 1

// HealthEStopped represents live telemetry with motors disabled.
const HealthEStopped uint16 = 2

// HealthStale represents telemetry that is no longer arriving.
const HealthStale uint16 = 3
