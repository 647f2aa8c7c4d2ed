//go:build nousb

// internal/transport/usb_stub.go
package transport

import "fmt"

const usbSupported = false

func newUSB(Params) (Channel, error) {
	return nil, fmt.Errorf("usb: not built into this binary: %w", ErrUnsupported)
}
