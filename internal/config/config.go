// internal/config/config.go
package config

type Config struct {
	Monitor MonitorConfig `yaml:"monitor"`
}

type MonitorConfig struct {
	CheckIntervalMs int `yaml:"check_interval_ms"`

	Voltage     VoltageConfig     `yaml:"voltage"`
	Temperature TemperatureConfig `yaml:"temperature"`
	Clock       ClockConfig       `yaml:"clock"`
	Memory      MemoryConfig      `yaml:"memory"`
	Watchdog    WatchdogConfig    `yaml:"watchdog"`
	FaultLog    FaultLogConfig    `yaml:"fault_log"`

	// Telemetry status block (optional, opt-in)
	Telemetry *TelemetryConfig `yaml:"telemetry"`
}

// ---- VOLTAGE ----

type VoltageConfig struct {
	ShutdownLowMv  int `yaml:"shutdown_low_mv"`
	WarningLowMv   int `yaml:"warning_low_mv"`
	WarningHighMv  int `yaml:"warning_high_mv"`
	ShutdownHighMv int `yaml:"shutdown_high_mv"`
	NominalMv      int `yaml:"nominal_mv"`
	HysteresisMv   int `yaml:"hysteresis_mv"`
}

// ---- TEMPERATURE ----

type TemperatureConfig struct {
	ShutdownLowC  int `yaml:"shutdown_low_c"`
	WarningLowC   int `yaml:"warning_low_c"`
	WarningHighC  int `yaml:"warning_high_c"`
	ShutdownHighC int `yaml:"shutdown_high_c"`
	NominalC      int `yaml:"nominal_c"`
	HysteresisC   int `yaml:"hysteresis_c"`
}

// ---- OPTIONAL CHECKS ----

type ClockConfig struct {
	Enable            bool `yaml:"enable"`
	DriftTolerancePpm int  `yaml:"drift_tolerance_ppm"`
}

type MemoryConfig struct {
	EnableRamTest bool `yaml:"enable_ram_test"`
	TestPattern   int  `yaml:"test_pattern"`
}

// ---- WATCHDOG ----

type WatchdogConfig struct {
	TimeoutMs    int `yaml:"timeout_ms"`
	TolerancePct int `yaml:"tolerance_pct"`
}

// ---- FAULT LOG ----

type FaultLogConfig struct {
	Capacity int `yaml:"capacity"`
}

// ---- TELEMETRY ----

type TelemetryConfig struct {
	Endpoint   string `yaml:"endpoint"`
	UnitID     int    `yaml:"unit_id"`
	BaseSlot   int    `yaml:"base_slot"`
	DeviceName string `yaml:"device_name"`
	TimeoutMs  int    `yaml:"timeout_ms"`
}
