// internal/protocol/frame.go
package protocol

import "encoding/binary"

// Encode builds one wire frame for pkt.
// A zero Channel is sent as ChannelHost.
//
// Layout:
//   SOF(1) TYPE(1) CHANNEL(1) RSV(1) CANID(2) ID(2) DLC(1) DATA(8) CHECKSUM(1)
func Encode(pkt Packet) []byte {
	buf := make([]byte, FrameSize)

	buf[offStart] = StartOfFrame
	buf[offType] = TypeCANMessage
	buf[offChannel] = pkt.Channel
	buf[offReserved] = 0x00

	id := pkt.ID & idMask
	buf[offCANID] = byte(id >> 3)
	buf[offCANID+1] = byte(id&0x07) << 5
	binary.BigEndian.PutUint16(buf[offID:offID+2], pkt.ID)

	buf[offDLC] = DataSize
	copy(buf[offData:offData+DataSize], pkt.Data[:])

	buf[offChecksum] = Checksum(buf[:offChecksum])
	return buf
}

// Decode parses the first frame in window.
//
// consumed is always the number of bytes the caller may drop from the front
// of window, including any garbage skipped before the start marker:
//   - ErrIncomplete: only the skipped prefix; keep the rest and read more
//   - ErrInvalidFrame: prefix plus the bad start byte
//   - *ChecksumError: prefix plus exactly one frame
//   - nil: prefix plus exactly one frame
func Decode(window []byte) (Packet, int, error) {
	start := -1
	for i, b := range window {
		if b == StartOfFrame {
			start = i
			break
		}
	}
	if start < 0 {
		return Packet{}, len(window), ErrIncomplete
	}

	frame := window[start:]
	if len(frame) < 2 {
		return Packet{}, start, ErrIncomplete
	}
	if frame[offType] != TypeCANMessage {
		return Packet{}, start + 1, ErrInvalidFrame
	}
	if len(frame) < FrameSize {
		return Packet{}, start, ErrIncomplete
	}
	frame = frame[:FrameSize]

	id := (uint16(frame[offCANID])<<3 | uint16(frame[offCANID+1]>>5)) & idMask

	want := Checksum(frame[:offChecksum])
	if got := frame[offChecksum]; got != want {
		return Packet{}, start + FrameSize, &ChecksumError{ID: id, Expected: want, Actual: got}
	}

	pkt := Packet{
		Channel: frame[offChannel],
		ID:      id,
	}
	copy(pkt.Data[:], frame[offData:offData+DataSize])

	return pkt, start + FrameSize, nil
}

// Checksum computes the frame checksum over data.
// 16-bit sum, high byte folded into the low byte twice, then two's complement.
func Checksum(data []byte) byte {
	var sum uint16
	for _, b := range data {
		sum += uint16(b)
	}
	sum = (sum & 0x00FF) + (sum >> 8)
	sum = (sum & 0x00FF) + (sum >> 8)
	return byte(^sum + 1)
}
