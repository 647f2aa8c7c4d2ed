// internal/config/config.go
package config

type Config struct {
	RMP      RMPConfig     `yaml:"rmp"`
	Mirror   *MirrorConfig `yaml:"mirror"`
	LogLevel string        `yaml:"log_level"`
}

// ---- RMP ----

type RMPConfig struct {
	Platform     string `yaml:"platform"`      // 50|100|200|400
	Mode         string `yaml:"mode"`          // disabled|tractor|balanced|power_down
	GainSchedule string `yaml:"gain_schedule"` // light|tall|heavy

	// nil means the default; 0 means unbounded
	QueueCapacity *int `yaml:"queue_capacity"`

	Transport TransportConfig `yaml:"transport"`
}

// ---- TRANSPORT ----

type TransportConfig struct {
	Kind string `yaml:"kind"` // serial|usb|none

	// serial
	Port string `yaml:"port"`

	// usb, or serial port lookup by adapter serial number
	USBSerial      string `yaml:"usb_serial"`
	USBDescription string `yaml:"usb_description"`
	USBIndex       *int   `yaml:"usb_index"`

	Baud      int `yaml:"baud"`
	TimeoutMs int `yaml:"timeout_ms"`
}

// ---- STATUS MIRROR (optional) ----

type MirrorConfig struct {
	Endpoint      string `yaml:"endpoint"`
	UnitID        uint8  `yaml:"unit_id"`
	BaseAddress   uint16 `yaml:"base_address"`
	TimeoutMs     int    `yaml:"timeout_ms"`
	MinIntervalMs int    `yaml:"min_interval_ms"`
}
