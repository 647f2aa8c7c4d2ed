// internal/mirror/modbus/client.go
// Package modbus carries RMP status blocks to a Modbus TCP unit.
package modbus

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goburrow/modbus"
)

// MaxWriteRegisters is the FC16 limit on registers per request.
const MaxWriteRegisters = 123

// ErrTooManyRegisters is returned for a block that does not fit one FC16
// request.
var ErrTooManyRegisters = errors.New("mirror modbus: block exceeds one FC16 request")

type Config struct {
	Endpoint string
	Timeout  time.Duration
}

// EndpointClient holds the TCP link to the unit that mirrors RMP status.
// The unit id is set per request, so requests are serialized.
type EndpointClient struct {
	endpoint string

	mu      sync.Mutex
	handler *modbus.TCPClientHandler
	client  modbus.Client
}

// NewEndpointClient dials cfg.Endpoint.
func NewEndpointClient(cfg Config) (*EndpointClient, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("mirror modbus: endpoint required")
	}

	h := modbus.NewTCPClientHandler(cfg.Endpoint)
	h.Timeout = cfg.Timeout
	if err := h.Connect(); err != nil {
		return nil, fmt.Errorf("mirror modbus: dial %s: %w", cfg.Endpoint, err)
	}

	return &EndpointClient{
		endpoint: cfg.Endpoint,
		handler:  h,
		client:   modbus.NewClient(h),
	}, nil
}

func (c *EndpointClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.handler.Close()
}

// WriteRegisters stores a status block, or a slice of one, at addr of unit
// unitID with a single FC16 request. The handler redials on the next request
// after a dropped link.
func (c *EndpointClient) WriteRegisters(unitID uint8, addr uint16, regs []uint16) error {
	if err := checkSpan(addr, len(regs)); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.handler.SlaveId = unitID
	if _, err := c.client.WriteMultipleRegisters(addr, uint16(len(regs)), PackRegisters(regs)); err != nil {
		return fmt.Errorf("mirror modbus: %s unit %d @%d: %w", c.endpoint, unitID, addr, err)
	}
	return nil
}

// checkSpan rejects empty blocks, blocks over the FC16 limit and blocks that
// run past the last register address.
func checkSpan(addr uint16, n int) error {
	switch {
	case n == 0:
		return errors.New("mirror modbus: empty block")
	case n > MaxWriteRegisters:
		return fmt.Errorf("%w: %d registers", ErrTooManyRegisters, n)
	case int(addr)+n > 0x10000:
		return fmt.Errorf("mirror modbus: block of %d at %d runs past 0xFFFF", n, addr)
	}
	return nil
}

// PackRegisters serializes a block in Modbus byte order.
func PackRegisters(regs []uint16) []byte {
	out := make([]byte, 2*len(regs))
	for i, r := range regs {
		binary.BigEndian.PutUint16(out[2*i:], r)
	}
	return out
}
