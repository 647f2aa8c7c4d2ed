// internal/transport/ftdi.go
package transport

import "fmt"

// FTDI vendor protocol, as spoken by the FT232 family on the RMP.
const (
	ftdiVendorID    = 0x0403
	ftdiInterface   = 0
	ftdiEndpointIn  = 1
	ftdiEndpointOut = 2

	// every bulk IN packet starts with two modem status bytes
	ftdiPacketSize  = 64
	ftdiStatusBytes = 2

	ftdiRequestOut = 0x40 // vendor, host to device

	sioReset       = 0
	sioSetBaudRate = 3
	sioSetData     = 4
	sioSetLatency  = 9

	sioResetSIO = 0
	sioPurgeRX  = 1
	sioPurgeTX  = 2

	// 8 data bits, no parity, one stop bit
	sioData8N1 = 0x0008

	ftdiLatencyMs = 1

	ftdiBaseClock = 3000000
)

var ftdiFracCode = [8]uint32{0, 3, 2, 4, 1, 5, 6, 7}

// ftdiBaudDivisor returns the SET_BAUD value and index for baud.
// The divisor is kept in eighths; the fraction is encoded into bits 14..16.
func ftdiBaudDivisor(baud int) (value, index uint16, err error) {
	if baud <= 0 || baud > ftdiBaseClock {
		return 0, 0, fmt.Errorf("ftdi: baud %d out of range", baud)
	}

	div8 := (ftdiBaseClock*8 + baud/2) / baud
	if div8>>3 > 0x3FFF {
		return 0, 0, fmt.Errorf("ftdi: baud %d too low", baud)
	}

	enc := uint32(div8>>3) | ftdiFracCode[div8&7]<<14
	switch enc {
	case 1:
		enc = 0 // 3 Mbaud
	case 0x4001:
		enc = 1 // 2 Mbaud
	}

	return uint16(enc), uint16(enc >> 16), nil
}

// stripModemStatus removes the status header from each 64-byte packet of a
// bulk IN transfer and appends the payload to dst.
func stripModemStatus(dst, transfer []byte) []byte {
	for len(transfer) > 0 {
		n := ftdiPacketSize
		if n > len(transfer) {
			n = len(transfer)
		}
		if n > ftdiStatusBytes {
			dst = append(dst, transfer[ftdiStatusBytes:n]...)
		}
		transfer = transfer[n:]
	}
	return dst
}
