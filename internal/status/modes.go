// internal/status/modes.go
package status

import (
	"fmt"
	"strings"
)

// OperationalMode is the drive mode reported by and sent to the base.
type OperationalMode uint16

const (
	ModeDisabled  OperationalMode = 0
	ModeTractor   OperationalMode = 1
	ModeBalanced  OperationalMode = 2
	ModePowerDown OperationalMode = 3
)

var modeNames = map[OperationalMode]string{
	ModeDisabled:  "disabled",
	ModeTractor:   "tractor",
	ModeBalanced:  "balanced",
	ModePowerDown: "power_down",
}

func (m OperationalMode) String() string {
	if s, ok := modeNames[m]; ok {
		return s
	}
	return fmt.Sprintf("mode(%d)", uint16(m))
}

// ParseMode maps a config name to a mode. Matching is case-insensitive and
// accepts "power-down" for "power_down".
func ParseMode(s string) (OperationalMode, error) {
	t := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	for m, name := range modeNames {
		if name == t {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown operational mode %q", s)
}

// GainSchedule selects the controller gains tuned for a payload.
type GainSchedule uint16

const (
	GainLight GainSchedule = 0
	GainTall  GainSchedule = 1
	GainHeavy GainSchedule = 2
)

var gainNames = map[GainSchedule]string{
	GainLight: "light",
	GainTall:  "tall",
	GainHeavy: "heavy",
}

func (g GainSchedule) String() string {
	if s, ok := gainNames[g]; ok {
		return s
	}
	return fmt.Sprintf("schedule(%d)", uint16(g))
}

// ParseGainSchedule maps a config name to a gain schedule.
func ParseGainSchedule(s string) (GainSchedule, error) {
	t := strings.ToLower(strings.TrimSpace(s))
	for g, name := range gainNames {
		if name == t {
			return g, nil
		}
	}
	return 0, fmt.Errorf("unknown gain schedule %q", s)
}
