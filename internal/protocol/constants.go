// internal/protocol/constants.go
package protocol

// Frame layout constants.
// These values are fixed by the RMP link format and MUST NOT be configurable.

// ---- FRAME GEOMETRY ----

// FrameSize is the size of one wire frame in bytes.
const FrameSize = 18

// DataSize is the payload size of one frame.
const DataSize = 8

// ---- FRAME OFFSETS ----

const (
	offStart    = 0
	offType     = 1
	offChannel  = 2
	offReserved = 3
	offCANID    = 4 // 2 bytes, 11-bit id packed CAN-style
	offID       = 6 // 2 bytes, big-endian id
	offDLC      = 8
	offData     = 9
	offChecksum = 17
)

// ---- MARKERS ----

// StartOfFrame marks the first byte of every frame.
const StartOfFrame byte = 0xF0

// TypeCANMessage is the only message type the link carries.
const TypeCANMessage byte = 0x55

// ---- CHANNELS ----

// ChannelHost is used on frames sent from the host to the base.
const ChannelHost byte = 0x00

// ChannelA is the primary telemetry channel.
const ChannelA byte = 0xAA

// ChannelB is the redundant telemetry channel. Consumers ignore it.
const ChannelB byte = 0xBB

// ---- IDENTIFIERS ----

// Telemetry identifiers, sent in order once per cycle.
const (
	IDCycleStart  uint16 = 0x0400
	IDAttitude    uint16 = 0x0401
	IDWheels      uint16 = 0x0402
	IDWheelTravel uint16 = 0x0403
	IDTravel      uint16 = 0x0404
	IDTorque      uint16 = 0x0405
	IDModes       uint16 = 0x0406
	IDCommanded   uint16 = 0x0407
	IDMotorStatus uint16 = 0x0680
)

// IDCommand is the identifier of every host-to-base command frame.
const IDCommand uint16 = 0x0413

// idMask keeps the 11 bits of a standard CAN identifier.
const idMask uint16 = 0x07FF

// Recognized reports whether id is routed to the status assembler.
// Everything else on the link is ignored.
func Recognized(id uint16) bool {
	switch id {
	case IDCycleStart, IDAttitude, IDWheels, IDWheelTravel, IDTravel,
		IDTorque, IDModes, IDCommanded, IDMotorStatus:
		return true
	}
	return false
}
