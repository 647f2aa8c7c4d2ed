// internal/driver/options.go
package driver

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/tamzrod/segwayrmp/internal/log"
	"github.com/tamzrod/segwayrmp/internal/queue"
	"github.com/tamzrod/segwayrmp/internal/status"
	"github.com/tamzrod/segwayrmp/internal/transport"
)

// DefaultJoinTimeout bounds how long Shutdown waits for each goroutine.
const DefaultJoinTimeout = 2 * time.Second

// Config holds the driver configuration.
type Config struct {
	OnStatus    StatusCallback
	OnDebug     LogCallback
	OnInfo      LogCallback
	OnError     LogCallback
	OnException ExceptionCallback

	// Clock stamps snapshots. Defaults to the host wall clock.
	Clock status.Clock

	// Logger backs every callback left unset.
	Logger *zerolog.Logger

	// QueueCapacity bounds the status queue; 0 means unbounded.
	QueueCapacity int

	JoinTimeout time.Duration

	// ReadTimeout bounds a single transport read.
	ReadTimeout time.Duration

	// Channel replaces the transport built by Configure*.
	Channel transport.Channel
}

func defaultConfig() Config {
	return Config{
		QueueCapacity: queue.DefaultCapacity,
		JoinTimeout:   DefaultJoinTimeout,
		ReadTimeout:   transport.DefaultTimeout,
	}
}

func (c *Config) fillDefaults() {
	var lg zerolog.Logger
	if c.Logger != nil {
		lg = *c.Logger
	} else {
		lg = log.With("segwayrmp")
	}

	if c.OnStatus == nil {
		c.OnStatus = defaultStatusCallback(lg)
	}
	if c.OnDebug == nil {
		c.OnDebug = defaultLogCallback(lg, zerolog.DebugLevel)
	}
	if c.OnInfo == nil {
		c.OnInfo = defaultLogCallback(lg, zerolog.InfoLevel)
	}
	if c.OnError == nil {
		c.OnError = defaultLogCallback(lg, zerolog.ErrorLevel)
	}
	if c.OnException == nil {
		c.OnException = defaultExceptionCallback(lg)
	}
	if c.Clock == nil {
		c.Clock = status.DefaultClock
	}
	if c.QueueCapacity < 0 {
		c.QueueCapacity = 0
	}
	if c.JoinTimeout <= 0 {
		c.JoinTimeout = DefaultJoinTimeout
	}
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = transport.DefaultTimeout
	}
}

// Option is a functional option for configuring the Driver.
type Option func(*Config)

// WithStatusCallback sets the receiver of completed snapshots.
//
// Example:
//
//	rmp, _ := driver.New(transport.KindSerial, status.RMP200,
//	    driver.WithStatusCallback(func(s status.SegwayStatus) {
//	        fmt.Println(s.Pitch)
//	    }),
//	)
func WithStatusCallback(cb StatusCallback) Option {
	return func(c *Config) {
		c.OnStatus = cb
	}
}

// WithDebugCallback sets the receiver of debug messages.
func WithDebugCallback(cb LogCallback) Option {
	return func(c *Config) {
		c.OnDebug = cb
	}
}

// WithInfoCallback sets the receiver of info messages.
func WithInfoCallback(cb LogCallback) Option {
	return func(c *Config) {
		c.OnInfo = cb
	}
}

// WithErrorCallback sets the receiver of non-fatal error messages,
// such as checksum failures and queue overflow.
func WithErrorCallback(cb LogCallback) Option {
	return func(c *Config) {
		c.OnError = cb
	}
}

// WithExceptionCallback sets the receiver of fatal reader errors.
func WithExceptionCallback(cb ExceptionCallback) Option {
	return func(c *Config) {
		c.OnException = cb
	}
}

// WithClock replaces the snapshot clock.
func WithClock(clock status.Clock) Option {
	return func(c *Config) {
		c.Clock = clock
	}
}

// WithLogger routes the default callbacks through lg.
func WithLogger(lg zerolog.Logger) Option {
	return func(c *Config) {
		c.Logger = &lg
	}
}

// WithQueueCapacity bounds the status queue. 0 means unbounded.
func WithQueueCapacity(n int) Option {
	return func(c *Config) {
		c.QueueCapacity = n
	}
}

// WithJoinTimeout bounds how long Shutdown waits for each goroutine.
func WithJoinTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.JoinTimeout = d
	}
}

// WithReadTimeout bounds a single transport read.
func WithReadTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.ReadTimeout = d
	}
}

// WithChannel injects a ready-made channel. The driver starts Configured.
func WithChannel(ch transport.Channel) Option {
	return func(c *Config) {
		c.Channel = ch
	}
}
