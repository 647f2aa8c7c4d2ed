// cmd/rmpctl/main.go
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/tamzrod/segwayrmp/internal/config"
	"github.com/tamzrod/segwayrmp/internal/driver"
	"github.com/tamzrod/segwayrmp/internal/log"
	"github.com/tamzrod/segwayrmp/internal/mirror"
	mbclient "github.com/tamzrod/segwayrmp/internal/mirror/modbus"
	"github.com/tamzrod/segwayrmp/internal/status"
	"github.com/tamzrod/segwayrmp/internal/transport"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: rmpctl <config.yaml>")
		os.Exit(2)
	}

	// --------------------
	// Load + validate config
	// --------------------

	cfg, err := config.Load(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}
	if err := config.Validate(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "config validation failed: %v\n", err)
		os.Exit(1)
	}
	config.Normalize(cfg)

	log.Init(cfg.LogLevel)
	lg := log.With("rmpctl")

	// --------------------
	// Status mirror (optional)
	// --------------------

	variant, _ := status.ParseVariant(cfg.RMP.Platform)

	var mir *mirror.Mirror
	if m := cfg.Mirror; m != nil {
		cli, err := mbclient.NewEndpointClient(mbclient.Config{
			Endpoint: m.Endpoint,
			Timeout:  time.Duration(m.TimeoutMs) * time.Millisecond,
		})
		if err != nil {
			lg.Fatal().Err(err).Str("endpoint", m.Endpoint).Msg("mirror connect failed")
		}
		defer cli.Close()

		mir = mirror.New(mirror.Plan{
			Endpoint:     m.Endpoint,
			UnitID:       m.UnitID,
			BaseAddress:  m.BaseAddress,
			PlatformName: variant.String(),
			MinInterval:  time.Duration(m.MinIntervalMs) * time.Millisecond,
		}, cli)
	}

	// --------------------
	// Driver
	// --------------------

	rmp, err := buildDriver(cfg, variant, mir)
	if err != nil {
		lg.Fatal().Err(err).Msg("driver build failed")
	}
	defer rmp.Close()

	newShell(cfg, rmp, mir).Run()
}

func buildDriver(cfg *config.Config, variant status.Variant, mir *mirror.Mirror) (*driver.Driver, error) {
	t := cfg.RMP.Transport
	kind, err := transport.ParseKind(t.Kind)
	if err != nil {
		return nil, err
	}

	lg := log.With("segwayrmp")
	opts := []driver.Option{
		driver.WithLogger(lg),
		driver.WithQueueCapacity(*cfg.RMP.QueueCapacity),
		driver.WithReadTimeout(time.Duration(t.TimeoutMs) * time.Millisecond),
		driver.WithStatusCallback(func(s status.SegwayStatus) {
			if mir == nil {
				return
			}
			if err := mir.WriteStatus(s); err != nil {
				lg.Warn().Err(err).Msg("mirror write failed")
			}
		}),
		driver.WithExceptionCallback(func(err error) {
			lg.Error().Err(err).Msg("telemetry stopped")
			if mir != nil {
				if err := mir.MarkStale(); err != nil {
					lg.Warn().Err(err).Msg("mirror stale write failed")
				}
			}
		}),
	}

	// dry run: frames go nowhere
	if kind == transport.KindNone {
		opts = append(opts, driver.WithChannel(transport.NewMock()))
	}

	rmp, err := driver.New(kind, variant, opts...)
	if err != nil {
		return nil, err
	}

	switch kind {
	case transport.KindSerial:
		if t.Port != "" {
			err = rmp.ConfigureSerial(t.Port, t.Baud)
		} else {
			err = rmp.ConfigureSerialByUSBSerial(t.USBSerial, t.Baud)
		}
	case transport.KindUSB:
		switch {
		case t.USBSerial != "":
			err = rmp.ConfigureUSBBySerial(t.USBSerial, t.Baud)
		case t.USBDescription != "":
			err = rmp.ConfigureUSBByDescription(t.USBDescription, t.Baud)
		default:
			err = rmp.ConfigureUSBByIndex(*t.USBIndex, t.Baud)
		}
	}
	if err != nil {
		return nil, err
	}
	return rmp, nil
}
