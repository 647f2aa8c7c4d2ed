// internal/protocol/packet.go
package protocol

import "encoding/binary"

// Packet is one decoded frame: identifier plus eight data bytes.
// The payload is read as four signed 16-bit big-endian half-words.
type Packet struct {
	Channel byte
	ID      uint16
	Data    [DataSize]byte
}

// Word returns half-word i (0..3) as a signed value.
func (p Packet) Word(i int) int16 {
	return int16(p.UWord(i))
}

// UWord returns half-word i (0..3) as an unsigned value.
func (p Packet) UWord(i int) uint16 {
	return binary.BigEndian.Uint16(p.Data[2*i : 2*i+2])
}

// Long returns the signed 32-bit value held in half-words i and i+1.
// The base sends the low half-word first.
func (p Packet) Long(i int) int32 {
	lo := uint32(p.UWord(i))
	hi := uint32(p.UWord(i + 1))
	return int32(hi<<16 | lo)
}

// SetWord stores v into half-word i (0..3).
func (p *Packet) SetWord(i int, v int16) {
	binary.BigEndian.PutUint16(p.Data[2*i:2*i+2], uint16(v))
}

// SetUWord stores v into half-word i (0..3).
func (p *Packet) SetUWord(i int, v uint16) {
	binary.BigEndian.PutUint16(p.Data[2*i:2*i+2], v)
}

// SetLong stores v into half-words i and i+1, low half-word first.
func (p *Packet) SetLong(i int, v int32) {
	u := uint32(v)
	p.SetUWord(i, uint16(u))
	p.SetUWord(i+1, uint16(u>>16))
}
