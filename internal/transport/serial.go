//go:build !noserial

// internal/transport/serial.go
package transport

import (
	"errors"
	"fmt"
	"sync"

	"github.com/goburrow/serial"
)

const serialSupported = true

// maxFlushReads bounds Flush on a line that never goes quiet.
const maxFlushReads = 16

// SerialChannel is a serial port, usually an RMP virtual COM port.
type SerialChannel struct {
	params Params

	mu   sync.Mutex
	port serial.Port
	path string
}

func newSerial(p Params) (Channel, error) {
	if p.Port == "" && p.USBSerial == "" {
		return nil, errors.New("serial: port or usb serial number required")
	}
	return &SerialChannel{params: p}, nil
}

// Open resolves the port path and opens it 8N1 at the configured baud.
func (c *SerialChannel) Open() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.port != nil {
		return nil
	}

	path := c.params.Port
	if path == "" {
		var err error
		path, err = FindPortBySerial(c.params.USBSerial)
		if err != nil {
			return err
		}
	}

	port, err := serial.Open(&serial.Config{
		Address:  path,
		BaudRate: c.params.Baud,
		DataBits: 8,
		StopBits: 1,
		Parity:   "N",
		Timeout:  c.params.Timeout,
	})
	if err != nil {
		return fmt.Errorf("serial: open %s: %w", path, err)
	}

	c.port = port
	c.path = path
	return nil
}

func (c *SerialChannel) current() serial.Port {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.port
}

// Read returns ErrTimeout when no byte arrived within the read timeout.
func (c *SerialChannel) Read(p []byte) (int, error) {
	port := c.current()
	if port == nil {
		return 0, ErrClosed
	}

	n, err := port.Read(p)
	if errors.Is(err, serial.ErrTimeout) || (n == 0 && err == nil) {
		return 0, ErrTimeout
	}
	if err != nil && c.current() == nil {
		return n, ErrClosed
	}
	return n, err
}

func (c *SerialChannel) Write(p []byte) (int, error) {
	port := c.current()
	if port == nil {
		return 0, ErrClosed
	}
	return port.Write(p)
}

// Flush discards input already waiting in the driver. A read that comes back
// short means the backlog is gone.
func (c *SerialChannel) Flush() error {
	port := c.current()
	if port == nil {
		return ErrClosed
	}

	buf := make([]byte, 4096)
	for i := 0; i < maxFlushReads; i++ {
		n, err := port.Read(buf)
		if err != nil || n < len(buf) {
			return nil
		}
	}
	return nil
}

func (c *SerialChannel) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.port == nil {
		return nil
	}
	err := c.port.Close()
	c.port = nil
	return err
}

func (c *SerialChannel) IsOpen() bool {
	return c.current() != nil
}

// Path returns the resolved device path, empty before Open.
func (c *SerialChannel) Path() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.path
}
