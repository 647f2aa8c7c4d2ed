// internal/transport/discover.go
package transport

import (
	"fmt"
	"strings"

	"go.bug.st/serial/enumerator"
)

// PortInfo describes one serial port found on the host.
type PortInfo struct {
	Name         string
	IsUSB        bool
	VID          string
	PID          string
	SerialNumber string
	Product      string
}

// ListPorts enumerates the serial ports of the host.
func ListPorts() ([]PortInfo, error) {
	ports, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return nil, fmt.Errorf("transport: list ports: %w", err)
	}

	out := make([]PortInfo, 0, len(ports))
	for _, p := range ports {
		out = append(out, PortInfo{
			Name:         p.Name,
			IsUSB:        p.IsUSB,
			VID:          p.VID,
			PID:          p.PID,
			SerialNumber: p.SerialNumber,
			Product:      p.Product,
		})
	}
	return out, nil
}

// FindPortBySerial returns the device path of the USB serial port with the
// given serial number.
func FindPortBySerial(serialNumber string) (string, error) {
	ports, err := ListPorts()
	if err != nil {
		return "", err
	}
	return matchSerial(ports, serialNumber)
}

func matchSerial(ports []PortInfo, serialNumber string) (string, error) {
	want := strings.TrimSpace(serialNumber)
	if want == "" {
		return "", fmt.Errorf("transport: empty usb serial number")
	}

	for _, p := range ports {
		if p.IsUSB && strings.EqualFold(p.SerialNumber, want) {
			return p.Name, nil
		}
	}
	return "", fmt.Errorf("transport: no serial port with usb serial %q", serialNumber)
}
