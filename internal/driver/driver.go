// internal/driver/driver.go
// Package driver manages the connection to one RMP: configure, connect,
// command, read telemetry, shut down.
package driver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"go.uber.org/atomic"

	"github.com/tamzrod/segwayrmp/internal/command"
	"github.com/tamzrod/segwayrmp/internal/protocol"
	"github.com/tamzrod/segwayrmp/internal/queue"
	"github.com/tamzrod/segwayrmp/internal/status"
	"github.com/tamzrod/segwayrmp/internal/transport"
)

// State is the connection lifecycle state.
type State int32

const (
	Disconnected State = iota
	Configured
	Connected
	Operating
)

func (s State) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Configured:
		return "configured"
	case Connected:
		return "connected"
	case Operating:
		return "operating"
	}
	return fmt.Sprintf("state(%d)", int32(s))
}

// Driver is the host side of one RMP link.
// Commands may be issued from any goroutine.
type Driver struct {
	cfg     Config
	kind    transport.Kind
	variant status.Variant
	enc     *command.Encoder
	queue   *queue.Queue[status.SegwayStatus]

	// mu guards the lifecycle fields below
	mu           sync.Mutex
	state        State
	ch           transport.Channel
	readDone     chan struct{}
	dispatchDone chan struct{}

	// run is the stop signal of the current connection only; each start
	// gets a fresh one so goroutines of an earlier link never resume
	run *atomic.Bool

	// writeMu serializes command frames on the wire
	writeMu sync.Mutex

	connected atomic.Bool
	degraded  atomic.Bool

	lastMu sync.Mutex
	last   status.SegwayStatus
}

var _ io.Closer = (*Driver)(nil)

// New returns a driver for the given transport kind and platform.
// It fails with a ConfigurationError when the kind is not compiled in.
func New(kind transport.Kind, variant status.Variant, opts ...Option) (*Driver, error) {
	if !variant.Valid() {
		return nil, &ConfigurationError{Subsystem: "platform", Reason: fmt.Sprintf("unknown variant %d", int(variant))}
	}
	if !transport.Supported(kind) {
		return nil, &ConfigurationError{
			Subsystem: kind.String(),
			Reason:    "not supported by this build",
			Err:       transport.ErrUnsupported,
		}
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.fillDefaults()

	d := &Driver{
		cfg:     cfg,
		kind:    kind,
		variant: variant,
		enc:     command.New(variant),
		queue:   queue.New[status.SegwayStatus](cfg.QueueCapacity),
		state:   Disconnected,
	}
	if cfg.Channel != nil {
		d.ch = cfg.Channel
		d.state = Configured
	}
	return d, nil
}

// Variant returns the platform the driver was built for.
func (d *Driver) Variant() status.Variant {
	return d.variant
}

// State returns the current lifecycle state.
func (d *Driver) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Degraded reports whether the reader stopped on a fatal error.
func (d *Driver) Degraded() bool {
	return d.degraded.Load()
}

// LastStatus returns the most recent completed snapshot. ok is false until
// the first cycle arrives.
func (d *Driver) LastStatus() (s status.SegwayStatus, ok bool) {
	d.lastMu.Lock()
	defer d.lastMu.Unlock()
	return d.last, d.last.Touched
}

// ---- CONFIGURE ----

// ConfigureSerial selects a serial port. baud <= 0 means the default rate.
func (d *Driver) ConfigureSerial(port string, baud int) error {
	return d.configureChannel(transport.KindSerial, transport.Params{Port: port, Baud: baud})
}

// ConfigureSerialByUSBSerial selects the serial port of the USB adapter with
// the given serial number.
func (d *Driver) ConfigureSerialByUSBSerial(serialNumber string, baud int) error {
	return d.configureChannel(transport.KindSerial, transport.Params{USBSerial: serialNumber, Baud: baud})
}

// ConfigureUSBBySerial selects an FTDI device by serial number.
func (d *Driver) ConfigureUSBBySerial(serialNumber string, baud int) error {
	return d.configureChannel(transport.KindUSB, transport.Params{
		USBSerial: serialNumber,
		Lookup:    transport.BySerialNumber,
		Baud:      baud,
	})
}

// ConfigureUSBByDescription selects an FTDI device by product description.
func (d *Driver) ConfigureUSBByDescription(description string, baud int) error {
	return d.configureChannel(transport.KindUSB, transport.Params{
		USBDescription: description,
		Lookup:         transport.ByDescription,
		Baud:           baud,
	})
}

// ConfigureUSBByIndex selects the index-th FTDI device on the bus.
func (d *Driver) ConfigureUSBByIndex(index int, baud int) error {
	return d.configureChannel(transport.KindUSB, transport.Params{
		USBIndex: index,
		Lookup:   transport.ByIndex,
		Baud:     baud,
	})
}

func (d *Driver) configureChannel(kind transport.Kind, p transport.Params) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.kind != kind {
		return &ConfigurationError{
			Subsystem: kind.String(),
			Reason:    fmt.Sprintf("driver was created for %s", d.kind),
		}
	}
	if d.state == Connected || d.state == Operating {
		return &ConfigurationError{Subsystem: kind.String(), Reason: "already connected"}
	}

	p.Timeout = d.cfg.ReadTimeout
	ch, err := transport.New(kind, p)
	if err != nil {
		return &ConfigurationError{Subsystem: kind.String(), Err: err}
	}

	d.writeMu.Lock()
	d.ch = ch
	d.writeMu.Unlock()

	d.state = Configured
	return nil
}

// ---- CONNECT ----

// Connect opens the link and starts the reader and dispatcher. Unless mode
// is ModeDisabled it then unlocks balance mode (balanced only, locks
// otherwise), sets mode and gain schedule, restores full speed and zeroes
// the integrators. ctx bounds that setup sequence.
func (d *Driver) Connect(ctx context.Context, mode status.OperationalMode, schedule status.GainSchedule) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	switch {
	case d.state == Connected || d.state == Operating:
		return &ConnectionError{Reason: "already connected"}
	case d.ch == nil:
		return &ConnectionError{Reason: "connect", Err: ErrNotConfigured}
	case !finished(d.readDone) || !finished(d.dispatchDone):
		return &ConnectionError{Reason: "previous connection still stopping", Err: ErrStillStopping}
	}

	d.safeLog(d.cfg.OnInfo, "connecting")

	if err := d.ch.Open(); err != nil {
		return &ConnectionError{Reason: "open transport", Err: err}
	}
	if err := d.ch.Flush(); err != nil {
		d.safeLog(d.cfg.OnDebug, fmt.Sprintf("flush on connect: %v", err))
	}

	d.start()

	if mode != status.ModeDisabled {
		if err := d.setup(ctx, mode, schedule); err != nil {
			d.stop()
			return &ConnectionError{Reason: "configure base", Err: err}
		}
		d.state = Operating
	} else {
		d.state = Connected
	}

	d.safeLog(d.cfg.OnInfo, fmt.Sprintf("connected (%s, mode %s)", d.variant, mode))
	return nil
}

func (d *Driver) setup(ctx context.Context, mode status.OperationalMode, schedule status.GainSchedule) error {
	steps := [][]protocol.Packet{
		{command.BalanceLock(mode != status.ModeBalanced)},
		{command.OperationalMode(mode)},
		{command.GainSchedule(schedule)},
		{command.MaxVelocityScale(1.0)},
		command.ResetIntegrators(),
	}
	for _, pkts := range steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := d.send(pkts...); err != nil {
			return err
		}
	}
	return nil
}

// start launches the reader and dispatcher. Caller holds mu.
func (d *Driver) start() {
	d.queue.Reset()
	d.degraded.Store(false)
	d.connected.Store(true)

	d.run = atomic.NewBool(true)
	d.readDone = make(chan struct{})
	d.dispatchDone = make(chan struct{})

	asm := status.NewAssembler(d.variant, d.cfg.Clock)
	go d.readLoop(d.run, d.ch, asm, d.readDone)
	go d.dispatchLoop(d.run, d.dispatchDone)
}

// ---- COMMANDS ----

// Move commands linear velocity in m/s and angular velocity in deg/s.
// It is accepted in any connected state, ModeDisabled included: a base
// connected without configuration keeps whatever mode it already runs and
// the command is passed through for it to act on or ignore.
func (d *Driver) Move(linear, angular float64) error {
	if !d.connected.Load() {
		return &MoveError{Err: ErrNotConnected}
	}
	if err := d.send(d.enc.Move(linear, angular)); err != nil {
		return &MoveError{Err: err}
	}
	return nil
}

// SetOperationalMode switches to tractor, balanced or power down.
func (d *Driver) SetOperationalMode(mode status.OperationalMode) error {
	const name = "operational mode"
	if mode == status.ModeDisabled {
		return &ConfigurationError{Subsystem: name, Reason: "disabled is not a drive mode"}
	}
	if err := d.configure(name, command.OperationalMode(mode)); err != nil {
		return err
	}

	d.mu.Lock()
	if d.state == Connected {
		d.state = Operating
	}
	d.mu.Unlock()
	return nil
}

// SetControllerGainSchedule selects the balance controller gains.
func (d *Driver) SetControllerGainSchedule(schedule status.GainSchedule) error {
	return d.configure("controller gain schedule", command.GainSchedule(schedule))
}

// SetBalanceModeLocking prevents (true) or allows (false) balance mode.
func (d *Driver) SetBalanceModeLocking(locked bool) error {
	return d.configure("balance mode locking", command.BalanceLock(locked))
}

// SetMaxVelocityScaleFactor limits speed to s of maximum, s in [0,1].
func (d *Driver) SetMaxVelocityScaleFactor(s float64) error {
	return d.configure("max velocity scale factor", command.MaxVelocityScale(s))
}

// SetMaxAccelerationScaleFactor limits acceleration, s in [0,1].
func (d *Driver) SetMaxAccelerationScaleFactor(s float64) error {
	return d.configure("max acceleration scale factor", command.MaxAccelerationScale(s))
}

// SetMaxTurnScaleFactor limits turn rate, s in [0,1].
func (d *Driver) SetMaxTurnScaleFactor(s float64) error {
	return d.configure("max turn scale factor", command.MaxTurnScale(s))
}

// SetCurrentLimitScaleFactor limits motor current, s in [0,1].
func (d *Driver) SetCurrentLimitScaleFactor(s float64) error {
	return d.configure("current limit scale factor", command.CurrentLimitScale(s))
}

// ResetAllIntegrators zeroes the wheel, forward and turn integrators.
func (d *Driver) ResetAllIntegrators() error {
	return d.configure("integrators", command.ResetIntegrators()...)
}

func (d *Driver) configure(name string, pkts ...protocol.Packet) error {
	if !d.connected.Load() {
		return &ConfigurationError{Subsystem: name, Reason: "not connected", Err: ErrNotConnected}
	}
	if err := d.send(pkts...); err != nil {
		return &ConfigurationError{Subsystem: name, Err: err}
	}
	return nil
}

// send frames and writes pkts back to back, holding the write lock.
func (d *Driver) send(pkts ...protocol.Packet) error {
	d.writeMu.Lock()
	defer d.writeMu.Unlock()

	ch := d.ch
	if ch == nil {
		return &WriteError{Err: ErrNotConnected}
	}
	for _, p := range pkts {
		frame := protocol.Encode(p)
		n, err := ch.Write(frame)
		if err != nil {
			return &WriteError{Err: err}
		}
		if n != len(frame) {
			return &WriteError{Err: fmt.Errorf("short write: %d of %d bytes", n, len(frame))}
		}
	}
	return nil
}

// ---- SHUTDOWN ----

// Shutdown stops the reader and dispatcher, waits up to the join timeout
// for each, and closes the channel. Calling it while disconnected is a no-op.
// A join timeout is reported but the driver still ends up Disconnected.
func (d *Driver) Shutdown() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state != Connected && d.state != Operating {
		return nil
	}
	err := d.stop()
	d.safeLog(d.cfg.OnInfo, "disconnected")
	return err
}

// Close is Shutdown.
func (d *Driver) Close() error {
	return d.Shutdown()
}

// stop tears down a running link. Caller holds mu.
func (d *Driver) stop() error {
	d.run.Store(false)
	d.connected.Store(false)
	d.queue.Cancel()

	var errs []error
	if !join(d.readDone, d.cfg.JoinTimeout) {
		errs = append(errs, fmt.Errorf("reader did not stop within %s", d.cfg.JoinTimeout))
	}
	if !join(d.dispatchDone, d.cfg.JoinTimeout) {
		errs = append(errs, fmt.Errorf("dispatcher did not stop within %s", d.cfg.JoinTimeout))
	}

	d.writeMu.Lock()
	if err := d.ch.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close transport: %w", err))
	}
	d.writeMu.Unlock()

	d.state = Disconnected
	return errors.Join(errs...)
}

// finished reports whether a goroutine signalling on done has exited.
func finished(done <-chan struct{}) bool {
	if done == nil {
		return true
	}
	select {
	case <-done:
		return true
	default:
		return false
	}
}

func join(done <-chan struct{}, timeout time.Duration) bool {
	if done == nil {
		return true
	}
	t := time.NewTimer(timeout)
	defer t.Stop()

	select {
	case <-done:
		return true
	case <-t.C:
		return false
	}
}
