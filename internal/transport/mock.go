// internal/transport/mock.go
package transport

import (
	"sync"
	"time"
)

// mockReadTimeout is how long a Read waits for fed bytes.
const mockReadTimeout = 10 * time.Millisecond

// MockChannel is an in-memory Channel for tests and for running without
// hardware. It is safe for one reader and many writers.
type MockChannel struct {
	mu       sync.Mutex
	open     bool
	openErr  error
	writeErr error
	readErr  error
	written  [][]byte
	flushes  int

	rx      chan []byte
	partial []byte
	closed  chan struct{}

	// ReadFunc, when set before Open, replaces the fed byte stream.
	ReadFunc func(p []byte) (int, error)
}

// NewMock returns a closed mock channel.
func NewMock() *MockChannel {
	return &MockChannel{rx: make(chan []byte, 1024)}
}

// Feed queues bytes for Read.
func (m *MockChannel) Feed(b []byte) {
	m.rx <- append([]byte(nil), b...)
}

// SetOpenErr makes the next Open fail.
func (m *MockChannel) SetOpenErr(err error) {
	m.mu.Lock()
	m.openErr = err
	m.mu.Unlock()
}

// SetWriteErr makes every Write fail until cleared.
func (m *MockChannel) SetWriteErr(err error) {
	m.mu.Lock()
	m.writeErr = err
	m.mu.Unlock()
}

// SetReadErr makes the next Read fail with err.
func (m *MockChannel) SetReadErr(err error) {
	m.mu.Lock()
	m.readErr = err
	m.mu.Unlock()
}

// Written returns a copy of every successful write, in order.
func (m *MockChannel) Written() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([][]byte, len(m.written))
	for i, w := range m.written {
		out[i] = append([]byte(nil), w...)
	}
	return out
}

// Flushes returns how many times Flush was called.
func (m *MockChannel) Flushes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.flushes
}

func (m *MockChannel) Open() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.openErr != nil {
		err := m.openErr
		m.openErr = nil
		return err
	}
	if !m.open {
		m.open = true
		m.closed = make(chan struct{})
	}
	return nil
}

func (m *MockChannel) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.open {
		m.open = false
		close(m.closed)
	}
	return nil
}

func (m *MockChannel) Read(p []byte) (int, error) {
	m.mu.Lock()
	if !m.open {
		m.mu.Unlock()
		return 0, ErrClosed
	}
	if m.readErr != nil {
		err := m.readErr
		m.readErr = nil
		m.mu.Unlock()
		return 0, err
	}
	closed := m.closed
	m.mu.Unlock()

	if m.ReadFunc != nil {
		return m.ReadFunc(p)
	}

	if len(m.partial) > 0 {
		n := copy(p, m.partial)
		m.partial = m.partial[n:]
		return n, nil
	}

	select {
	case b := <-m.rx:
		n := copy(p, b)
		m.partial = b[n:]
		return n, nil
	case <-closed:
		return 0, ErrClosed
	case <-time.After(mockReadTimeout):
		return 0, ErrTimeout
	}
}

func (m *MockChannel) Write(p []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.open {
		return 0, ErrClosed
	}
	if m.writeErr != nil {
		return 0, m.writeErr
	}
	m.written = append(m.written, append([]byte(nil), p...))
	return len(p), nil
}

func (m *MockChannel) Flush() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.open {
		return ErrClosed
	}
	m.flushes++
	return nil
}

func (m *MockChannel) IsOpen() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.open
}
