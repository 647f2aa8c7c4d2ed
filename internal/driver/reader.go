// internal/driver/reader.go
package driver

import (
	"errors"
	"fmt"

	"go.uber.org/atomic"

	"github.com/tamzrod/segwayrmp/internal/protocol"
	"github.com/tamzrod/segwayrmp/internal/status"
	"github.com/tamzrod/segwayrmp/internal/transport"
)

// readChunk is sized for a handful of frames per read.
const readChunk = 8 * protocol.FrameSize

// readLoop owns the decoder and the assembler. It never calls the status
// callback. One goroutine per connection. No retries on fatal errors.
func (d *Driver) readLoop(run *atomic.Bool, ch transport.Channel, asm *status.Assembler, done chan<- struct{}) {
	defer close(done)

	dec := protocol.NewDecoder()
	buf := make([]byte, readChunk)

	handle := func(pkt protocol.Packet, err error) {
		d.handlePacket(asm, pkt, err)
	}

	for run.Load() {
		n, err := ch.Read(buf)
		if !run.Load() {
			return
		}
		if n > 0 {
			dec.Feed(buf[:n], handle)
		}

		switch {
		case err == nil:
		case errors.Is(err, transport.ErrTimeout):
			d.safeLog(d.cfg.OnDebug, "no data from base")
		default:
			d.degraded.Store(true)
			d.safeException(&ReadError{Err: err})
			return
		}
	}
}

func (d *Driver) handlePacket(asm *status.Assembler, pkt protocol.Packet, err error) {
	if err != nil {
		if protocol.IsChecksum(err) {
			d.safeLog(d.cfg.OnError, err.Error())
		} else {
			d.safeLog(d.cfg.OnDebug, err.Error())
		}
		return
	}
	if !protocol.Recognized(pkt.ID) {
		return
	}

	snap, ok, err := asm.Ingest(pkt)
	if err != nil {
		d.safeLog(d.cfg.OnError, (&ClockError{Err: err}).Error())
	}
	if !ok {
		return
	}

	d.lastMu.Lock()
	d.last = snap
	d.lastMu.Unlock()

	if d.queue.Push(snap) {
		d.safeLog(d.cfg.OnError, "falling behind, status queue full, dropped oldest snapshot")
	}
}

// dispatchLoop hands queued snapshots to the status callback until the
// queue is cancelled.
func (d *Driver) dispatchLoop(run *atomic.Bool, done chan<- struct{}) {
	defer close(done)

	for {
		s, ok := d.queue.Pop()
		if !ok || !run.Load() {
			return
		}
		d.deliver(s)
	}
}

func (d *Driver) deliver(s status.SegwayStatus) {
	defer func() {
		if r := recover(); r != nil {
			d.safeException(fmt.Errorf("status callback panicked: %v", r))
		}
	}()
	d.cfg.OnStatus(s)
}

func (d *Driver) safeLog(cb LogCallback, msg string) {
	defer func() {
		if r := recover(); r != nil {
			d.safeException(fmt.Errorf("message callback panicked: %v", r))
		}
	}()
	cb(msg)
}

func (d *Driver) safeException(err error) {
	defer func() {
		// nowhere left to report
		_ = recover()
	}()
	d.cfg.OnException(err)
}
