// internal/driver/callbacks.go
package driver

import (
	"github.com/rs/zerolog"

	"github.com/tamzrod/segwayrmp/internal/status"
)

// StatusCallback receives every completed snapshot, on the dispatch goroutine.
// A slow callback backs up the status queue but never the reader.
type StatusCallback func(status.SegwayStatus)

// LogCallback receives debug, info or error messages.
type LogCallback func(msg string)

// ExceptionCallback receives fatal reader errors and recovered callback panics.
type ExceptionCallback func(err error)

func defaultStatusCallback(lg zerolog.Logger) StatusCallback {
	return func(s status.SegwayStatus) {
		lg.Debug().
			Float64("pitch", s.Pitch).
			Float64("left_wheel_speed", s.LeftWheelSpeed).
			Float64("right_wheel_speed", s.RightWheelSpeed).
			Float64("powerbase_battery", s.PowerbaseBatteryVoltage).
			Stringer("mode", s.OperationalMode).
			Bool("motors_enabled", s.MotorsEnabled).
			Msg("status")
	}
}

func defaultLogCallback(lg zerolog.Logger, level zerolog.Level) LogCallback {
	return func(msg string) {
		lg.WithLevel(level).Msg(msg)
	}
}

func defaultExceptionCallback(lg zerolog.Logger) ExceptionCallback {
	return func(err error) {
		lg.Error().Err(err).Msg("exception")
	}
}
