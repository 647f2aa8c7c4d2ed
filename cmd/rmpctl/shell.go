// cmd/rmpctl/shell.go
package main

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/abiosoft/ishell/v2"

	"github.com/tamzrod/segwayrmp/internal/config"
	"github.com/tamzrod/segwayrmp/internal/driver"
	"github.com/tamzrod/segwayrmp/internal/mirror"
	"github.com/tamzrod/segwayrmp/internal/status"
	"github.com/tamzrod/segwayrmp/internal/transport"
)

// connectTimeout bounds the setup sequence sent on connect.
const connectTimeout = 5 * time.Second

func newShell(cfg *config.Config, rmp *driver.Driver, mir *mirror.Mirror) *ishell.Shell {
	shell := ishell.New()
	shell.Println("Segway RMP shell (" + rmp.Variant().String() + ")")

	modeNames := func([]string) []string {
		return []string{"tractor", "balanced", "power_down", "disabled"}
	}
	gainNames := func([]string) []string {
		return []string{"light", "tall", "heavy"}
	}

	shell.AddCmd(&ishell.Cmd{
		Name:      "connect",
		Help:      "connect [mode] [gain_schedule]",
		Completer: modeNames,
		Func: func(c *ishell.Context) {
			modeArg, gainArg := cfg.RMP.Mode, cfg.RMP.GainSchedule
			if len(c.Args) >= 1 {
				modeArg = c.Args[0]
			}
			if len(c.Args) >= 2 {
				gainArg = c.Args[1]
			}

			mode, err := status.ParseMode(modeArg)
			if err != nil {
				c.Err(err)
				return
			}
			gains, err := status.ParseGainSchedule(gainArg)
			if err != nil {
				c.Err(err)
				return
			}

			ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
			defer cancel()
			if err := rmp.Connect(ctx, mode, gains); err != nil {
				c.Err(err)
				return
			}
			c.Println("connected:", rmp.State())
		},
	})

	shell.AddCmd(&ishell.Cmd{
		Name: "disconnect",
		Help: "stop telemetry and close the link",
		Func: func(c *ishell.Context) {
			if err := rmp.Shutdown(); err != nil {
				c.Err(err)
			}
			if mir != nil {
				if err := mir.MarkStale(); err != nil {
					c.Err(err)
				}
			}
			c.Println(rmp.State())
		},
	})

	shell.AddCmd(&ishell.Cmd{
		Name: "move",
		Help: "move <m/s> <deg/s>",
		Func: func(c *ishell.Context) {
			if len(c.Args) != 2 {
				c.Println(c.Cmd.HelpText())
				return
			}
			lin, err1 := strconv.ParseFloat(c.Args[0], 64)
			ang, err2 := strconv.ParseFloat(c.Args[1], 64)
			if err1 != nil || err2 != nil {
				c.Println("move: arguments must be numbers")
				return
			}
			if err := rmp.Move(lin, ang); err != nil {
				c.Err(err)
			}
		},
	})

	shell.AddCmd(&ishell.Cmd{
		Name: "stop",
		Help: "command zero velocity",
		Func: func(c *ishell.Context) {
			if err := rmp.Move(0, 0); err != nil {
				c.Err(err)
			}
		},
	})

	shell.AddCmd(&ishell.Cmd{
		Name:      "mode",
		Help:      "mode <tractor|balanced|power_down>",
		Completer: modeNames,
		Func: func(c *ishell.Context) {
			if len(c.Args) != 1 {
				c.Println(c.Cmd.HelpText())
				return
			}
			mode, err := status.ParseMode(c.Args[0])
			if err == nil {
				err = rmp.SetOperationalMode(mode)
			}
			if err != nil {
				c.Err(err)
			}
		},
	})

	shell.AddCmd(&ishell.Cmd{
		Name:      "gains",
		Help:      "gains <light|tall|heavy>",
		Completer: gainNames,
		Func: func(c *ishell.Context) {
			if len(c.Args) != 1 {
				c.Println(c.Cmd.HelpText())
				return
			}
			g, err := status.ParseGainSchedule(c.Args[0])
			if err == nil {
				err = rmp.SetControllerGainSchedule(g)
			}
			if err != nil {
				c.Err(err)
			}
		},
	})

	shell.AddCmd(&ishell.Cmd{
		Name: "lock",
		Help: "lock <on|off>  balance mode locking",
		Func: func(c *ishell.Context) {
			if len(c.Args) != 1 || (c.Args[0] != "on" && c.Args[0] != "off") {
				c.Println(c.Cmd.HelpText())
				return
			}
			if err := rmp.SetBalanceModeLocking(c.Args[0] == "on"); err != nil {
				c.Err(err)
			}
		},
	})

	shell.AddCmd(&ishell.Cmd{
		Name: "scale",
		Help: "scale <velocity|accel|turn|current> <0..1>",
		Completer: func([]string) []string {
			return []string{"velocity", "accel", "turn", "current"}
		},
		Func: func(c *ishell.Context) {
			if len(c.Args) != 2 {
				c.Println(c.Cmd.HelpText())
				return
			}
			s, err := strconv.ParseFloat(c.Args[1], 64)
			if err != nil {
				c.Println("scale: factor must be a number")
				return
			}

			switch c.Args[0] {
			case "velocity":
				err = rmp.SetMaxVelocityScaleFactor(s)
			case "accel":
				err = rmp.SetMaxAccelerationScaleFactor(s)
			case "turn":
				err = rmp.SetMaxTurnScaleFactor(s)
			case "current":
				err = rmp.SetCurrentLimitScaleFactor(s)
			default:
				c.Println(c.Cmd.HelpText())
				return
			}
			if err != nil {
				c.Err(err)
			}
		},
	})

	shell.AddCmd(&ishell.Cmd{
		Name: "reset-integrators",
		Help: "zero wheel, forward and turn integrators",
		Func: func(c *ishell.Context) {
			if err := rmp.ResetAllIntegrators(); err != nil {
				c.Err(err)
			}
		},
	})

	shell.AddCmd(&ishell.Cmd{
		Name: "status",
		Help: "print the last complete status",
		Func: func(c *ishell.Context) {
			c.Println("state:", rmp.State())
			if rmp.Degraded() {
				c.Println("telemetry reader stopped on error")
			}
			s, ok := rmp.LastStatus()
			if !ok {
				c.Println("no status received yet")
				return
			}
			c.Println(s.String())
		},
	})

	shell.AddCmd(&ishell.Cmd{
		Name: "ports",
		Help: "list serial ports",
		Func: func(c *ishell.Context) {
			ports, err := transport.ListPorts()
			if err != nil {
				c.Err(err)
				return
			}
			if len(ports) == 0 {
				c.Println("no serial ports found")
				return
			}
			for _, p := range ports {
				line := []string{p.Name}
				if p.IsUSB {
					line = append(line, "usb "+p.VID+":"+p.PID, "serial="+p.SerialNumber, p.Product)
				}
				c.Println(strings.Join(line, "  "))
			}
		},
	})

	return shell
}
