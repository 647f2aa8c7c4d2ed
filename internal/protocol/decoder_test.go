// internal/protocol/decoder_test.go
package protocol

import (
	"reflect"
	"testing"
)

type outcome struct {
	pkt      Packet
	checksum bool
	invalid  bool
}

func collect(d *Decoder, chunks [][]byte) []outcome {
	var out []outcome
	for _, c := range chunks {
		d.Feed(c, func(p Packet, err error) {
			out = append(out, outcome{
				pkt:      p,
				checksum: IsChecksum(err),
				invalid:  err == ErrInvalidFrame,
			})
		})
	}
	return out
}

func testStream() []byte {
	var stream []byte
	stream = append(stream, 0x00, 0x13) // line noise
	for id := IDCycleStart; id <= IDCommanded; id++ {
		pkt := Packet{Channel: ChannelA, ID: id}
		pkt.SetWord(0, int16(id))
		pkt.SetWord(3, -int16(id))
		stream = append(stream, Encode(pkt)...)
	}

	corrupt := Encode(Packet{Channel: ChannelA, ID: IDTorque})
	corrupt[10] ^= 0x01
	stream = append(stream, corrupt...)

	stream = append(stream, Encode(Packet{Channel: ChannelB, ID: IDMotorStatus})...)
	return stream
}

func TestDecoder_ByteByByteMatchesWhole(t *testing.T) {
	stream := testStream()

	whole := collect(NewDecoder(), [][]byte{stream})

	var single [][]byte
	for i := range stream {
		single = append(single, stream[i:i+1])
	}
	bytewise := collect(NewDecoder(), single)

	if len(whole) != 10 {
		t.Fatalf("expected 10 outcomes, got %d", len(whole))
	}
	if !reflect.DeepEqual(whole, bytewise) {
		t.Fatalf("byte-by-byte decode differs from whole-buffer decode")
	}
	if !whole[8].checksum {
		t.Fatalf("expected outcome 8 to be a checksum failure")
	}
	if whole[9].pkt.Channel != ChannelB {
		t.Fatalf("expected trailing channel B frame, got %+v", whole[9].pkt)
	}
}

func TestDecoder_OddChunks(t *testing.T) {
	stream := testStream()
	whole := collect(NewDecoder(), [][]byte{stream})

	for _, size := range []int{2, 5, 7, 17, 19, 35} {
		var chunks [][]byte
		for i := 0; i < len(stream); i += size {
			end := i + size
			if end > len(stream) {
				end = len(stream)
			}
			chunks = append(chunks, stream[i:end])
		}

		got := collect(NewDecoder(), chunks)
		if !reflect.DeepEqual(whole, got) {
			t.Fatalf("chunk size %d: outcomes differ", size)
		}
	}
}

func TestDecoder_KeepsPartialTail(t *testing.T) {
	d := NewDecoder()
	raw := Encode(attitudePacket())

	calls := 0
	d.Feed(raw[:10], func(Packet, error) { calls++ })
	if calls != 0 {
		t.Fatalf("expected no outcome for a partial frame, got %d", calls)
	}
	if d.Buffered() != 10 {
		t.Fatalf("expected 10 buffered bytes, got %d", d.Buffered())
	}

	d.Feed(raw[10:], func(Packet, error) { calls++ })
	if calls != 1 {
		t.Fatalf("expected one outcome after completing the frame, got %d", calls)
	}
	if d.Buffered() != 0 {
		t.Fatalf("expected empty buffer, got %d", d.Buffered())
	}
}

func TestDecoder_DropsNoise(t *testing.T) {
	d := NewDecoder()
	d.Feed([]byte{0x01, 0x02, 0x03, 0x04}, func(Packet, error) {
		t.Fatalf("noise must not produce outcomes")
	})
	if d.Buffered() != 0 {
		t.Fatalf("noise without a start marker must not be kept, got %d", d.Buffered())
	}
}
