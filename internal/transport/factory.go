// internal/transport/factory.go
package transport

import "fmt"

func init() {
	if !serialSupported && !usbSupported {
		panic("transport: built with neither serial nor usb support")
	}
}

// Supported reports whether kind is compiled into this binary.
func Supported(kind Kind) bool {
	switch kind {
	case KindSerial:
		return serialSupported
	case KindUSB:
		return usbSupported
	case KindNone:
		return true
	}
	return false
}

// New builds an unopened channel of the given kind.
// KindNone has no channel of its own; the caller injects one.
func New(kind Kind, p Params) (Channel, error) {
	p = p.withDefaults()

	switch kind {
	case KindSerial:
		return newSerial(p)
	case KindUSB:
		return newUSB(p)
	case KindNone:
		return nil, fmt.Errorf("transport %s: no channel to build: %w", kind, ErrUnsupported)
	}
	return nil, fmt.Errorf("transport %s: %w", kind, ErrUnsupported)
}
