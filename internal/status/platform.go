// internal/status/platform.go
package status

import (
	"fmt"
	"strconv"
	"strings"
)

// Variant identifies the RMP model. It selects the unit conversion constants
// and never changes for the life of a driver.
type Variant int

const (
	RMP50  Variant = 50
	RMP100 Variant = 100
	RMP200 Variant = 200
	RMP400 Variant = 400
)

// Scale holds the counts-per-unit constants of one variant.
type Scale struct {
	DPS    float64 // degrees per second
	MPS    float64 // meters per second
	Meters float64
	Revs   float64 // wheel revolutions
	Torque float64 // newton meters
}

var (
	scaleSmall = Scale{DPS: 7.8, MPS: 401, Meters: 40181, Revs: 117031, Torque: 1463}
	scaleLarge = Scale{DPS: 7.8, MPS: 332, Meters: 33215, Revs: 112644, Torque: 1094}
)

// Valid reports whether v is a known variant.
func (v Variant) Valid() bool {
	switch v {
	case RMP50, RMP100, RMP200, RMP400:
		return true
	}
	return false
}

// Scale returns the conversion constants for v.
// The 400 shares the 200 calibration.
func (v Variant) Scale() Scale {
	switch v {
	case RMP50, RMP100:
		return scaleSmall
	default:
		return scaleLarge
	}
}

func (v Variant) String() string {
	if !v.Valid() {
		return fmt.Sprintf("Variant(%d)", int(v))
	}
	return fmt.Sprintf("RMP%d", int(v))
}

// ParseVariant accepts "200", "rmp200" or "RMP200".
func ParseVariant(s string) (Variant, error) {
	t := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "rmp")
	n, err := strconv.Atoi(t)
	v := Variant(n)
	if err != nil || !v.Valid() {
		return 0, fmt.Errorf("unknown platform %q", s)
	}
	return v, nil
}
