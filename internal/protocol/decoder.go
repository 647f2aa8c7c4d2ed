// internal/protocol/decoder.go
package protocol

// Decoder turns an arbitrary chunked byte stream into packets.
// It keeps the unconsumed tail between Feed calls, so frames split across
// reads are reassembled. Not safe for concurrent use.
type Decoder struct {
	buf []byte
}

// NewDecoder returns an empty decoder.
func NewDecoder() *Decoder {
	return &Decoder{buf: make([]byte, 0, 4*FrameSize)}
}

// Feed appends p and calls fn once per frame outcome, in stream order.
// fn receives either a packet and nil, or a zero packet and a per-frame error
// (*ChecksumError or ErrInvalidFrame). Incomplete tails are kept silently.
func (d *Decoder) Feed(p []byte, fn func(Packet, error)) {
	d.buf = append(d.buf, p...)

	off := 0
	for off < len(d.buf) {
		pkt, n, err := Decode(d.buf[off:])
		off += n
		if err == ErrIncomplete {
			break
		}
		fn(pkt, err)
	}

	// at most a partial frame is left; move it to the front
	d.buf = d.buf[:copy(d.buf, d.buf[off:])]
}

// Buffered returns the number of bytes held for the next Feed.
func (d *Decoder) Buffered() int {
	return len(d.buf)
}

// Reset drops any buffered bytes.
func (d *Decoder) Reset() {
	d.buf = d.buf[:0]
}
