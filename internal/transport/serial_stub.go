//go:build noserial

// internal/transport/serial_stub.go
package transport

import "fmt"

const serialSupported = false

func newSerial(Params) (Channel, error) {
	return nil, fmt.Errorf("serial: not built into this binary: %w", ErrUnsupported)
}
