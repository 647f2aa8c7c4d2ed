//go:build !nousb

// internal/transport/usb.go
package transport

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/gousb"
)

const usbSupported = true

// usbWriteTimeout bounds a bulk OUT transfer.
const usbWriteTimeout = time.Second

// USBChannel talks to the FTDI chip of the RMP directly, bypassing the
// kernel serial driver.
type USBChannel struct {
	params Params

	mu   sync.Mutex
	ctx  *gousb.Context
	dev  *gousb.Device
	done func()
	in   *gousb.InEndpoint
	out  *gousb.OutEndpoint

	// closing cancels in-flight transfers
	closing context.Context
	cancel  context.CancelFunc

	// Read is only called from one goroutine
	pending []byte
	rbuf    []byte
}

func newUSB(p Params) (Channel, error) {
	switch p.Lookup {
	case BySerialNumber:
		if p.USBSerial == "" {
			return nil, errors.New("usb: serial number required")
		}
	case ByDescription:
		if p.USBDescription == "" {
			return nil, errors.New("usb: description required")
		}
	case ByIndex:
		if p.USBIndex < 0 {
			return nil, fmt.Errorf("usb: index %d out of range", p.USBIndex)
		}
	}
	return &USBChannel{params: p}, nil
}

// Open finds the FTDI device, claims its interface and programs the line.
func (c *USBChannel) Open() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.dev != nil {
		return nil
	}

	ctx := gousb.NewContext()

	devs, err := ctx.OpenDevices(func(desc *gousb.DeviceDesc) bool {
		return uint16(desc.Vendor) == ftdiVendorID
	})
	if err != nil && len(devs) == 0 {
		ctx.Close()
		return fmt.Errorf("usb: enumerate devices: %w", err)
	}

	dev, err := c.pick(devs)
	for _, d := range devs {
		if d != dev {
			d.Close()
		}
	}
	if err != nil {
		ctx.Close()
		return err
	}

	if err := dev.SetAutoDetach(true); err != nil {
		dev.Close()
		ctx.Close()
		return fmt.Errorf("usb: detach kernel driver: %w", err)
	}

	cfg, err := dev.Config(1)
	if err != nil {
		dev.Close()
		ctx.Close()
		return fmt.Errorf("usb: get config 1: %w", err)
	}

	intf, err := cfg.Interface(ftdiInterface, 0)
	if err != nil {
		cfg.Close()
		dev.Close()
		ctx.Close()
		return fmt.Errorf("usb: claim interface %d: %w", ftdiInterface, err)
	}

	done := func() {
		intf.Close()
		cfg.Close()
	}

	in, err := intf.InEndpoint(ftdiEndpointIn)
	if err != nil {
		done()
		dev.Close()
		ctx.Close()
		return fmt.Errorf("usb: open bulk in endpoint: %w", err)
	}

	out, err := intf.OutEndpoint(ftdiEndpointOut)
	if err != nil {
		done()
		dev.Close()
		ctx.Close()
		return fmt.Errorf("usb: open bulk out endpoint: %w", err)
	}

	if err := setupLine(dev, c.params.Baud); err != nil {
		done()
		dev.Close()
		ctx.Close()
		return err
	}

	c.ctx, c.dev, c.done, c.in, c.out = ctx, dev, done, in, out
	c.closing, c.cancel = context.WithCancel(context.Background())
	c.pending = c.pending[:0]
	c.rbuf = make([]byte, 8*ftdiPacketSize)
	return nil
}

func (c *USBChannel) pick(devs []*gousb.Device) (*gousb.Device, error) {
	switch c.params.Lookup {
	case ByIndex:
		if c.params.USBIndex >= len(devs) {
			return nil, fmt.Errorf("usb: no ftdi device at index %d (%d found)", c.params.USBIndex, len(devs))
		}
		return devs[c.params.USBIndex], nil

	case ByDescription:
		for _, d := range devs {
			if product, err := d.Product(); err == nil && strings.TrimSpace(product) == c.params.USBDescription {
				return d, nil
			}
		}
		return nil, fmt.Errorf("usb: no ftdi device described %q", c.params.USBDescription)

	default:
		for _, d := range devs {
			if sn, err := d.SerialNumber(); err == nil && strings.TrimSpace(sn) == c.params.USBSerial {
				return d, nil
			}
		}
		return nil, fmt.Errorf("usb: no ftdi device with serial %q", c.params.USBSerial)
	}
}

func setupLine(dev *gousb.Device, baud int) error {
	value, index, err := ftdiBaudDivisor(baud)
	if err != nil {
		return err
	}

	steps := []struct {
		name       string
		req        uint8
		val, index uint16
	}{
		{"reset", sioReset, sioResetSIO, 0},
		{"purge rx", sioReset, sioPurgeRX, 0},
		{"purge tx", sioReset, sioPurgeTX, 0},
		{"set baud", sioSetBaudRate, value, index},
		{"set data", sioSetData, sioData8N1, 0},
		{"set latency", sioSetLatency, ftdiLatencyMs, 0},
	}
	for _, s := range steps {
		if _, err := dev.Control(ftdiRequestOut, s.req, s.val, s.index, nil); err != nil {
			return fmt.Errorf("usb: %s: %w", s.name, err)
		}
	}
	return nil
}

// Read returns payload bytes with the FTDI status header removed.
// A transfer carrying only status bytes is reported as ErrTimeout.
func (c *USBChannel) Read(p []byte) (int, error) {
	if len(c.pending) > 0 {
		n := copy(p, c.pending)
		c.pending = c.pending[:copy(c.pending, c.pending[n:])]
		return n, nil
	}

	c.mu.Lock()
	in, closing := c.in, c.closing
	c.mu.Unlock()
	if in == nil {
		return 0, ErrClosed
	}

	ctx, cancel := context.WithTimeout(closing, c.params.Timeout)
	n, err := in.ReadContext(ctx, c.rbuf)
	cancel()

	if err != nil {
		if closing.Err() != nil {
			return 0, ErrClosed
		}
		if isUSBTimeout(err) {
			return 0, ErrTimeout
		}
		return 0, fmt.Errorf("usb: bulk read: %w", err)
	}

	c.pending = stripModemStatus(c.pending, c.rbuf[:n])
	if len(c.pending) == 0 {
		return 0, ErrTimeout
	}

	m := copy(p, c.pending)
	c.pending = c.pending[:copy(c.pending, c.pending[m:])]
	return m, nil
}

func (c *USBChannel) Write(p []byte) (int, error) {
	c.mu.Lock()
	out, closing := c.out, c.closing
	c.mu.Unlock()
	if out == nil {
		return 0, ErrClosed
	}

	ctx, cancel := context.WithTimeout(closing, usbWriteTimeout)
	defer cancel()

	n, err := out.WriteContext(ctx, p)
	if err != nil {
		return n, fmt.Errorf("usb: bulk write: %w", err)
	}
	return n, nil
}

// Flush purges the chip's receive and transmit buffers.
func (c *USBChannel) Flush() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.dev == nil {
		return ErrClosed
	}
	for _, v := range []uint16{sioPurgeRX, sioPurgeTX} {
		if _, err := c.dev.Control(ftdiRequestOut, sioReset, v, 0, nil); err != nil {
			return fmt.Errorf("usb: purge: %w", err)
		}
	}
	return nil
}

func (c *USBChannel) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.dev == nil {
		return nil
	}

	c.cancel()
	c.done()
	err := c.dev.Close()
	c.ctx.Close()

	c.ctx, c.dev, c.done, c.in, c.out = nil, nil, nil, nil, nil
	return err
}

func (c *USBChannel) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dev != nil
}

func isUSBTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, gousb.ErrorTimeout) {
		return true
	}
	var ts gousb.TransferStatus
	if errors.As(err, &ts) {
		return ts == gousb.TransferTimedOut || ts == gousb.TransferCancelled
	}
	return false
}
