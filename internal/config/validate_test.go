// internal/config/validate_test.go
package config

import (
	"strings"
	"testing"
)

// helper to build a config with the given voltage section
func voltCfg(shutLo, warnLo, warnHi, shutHi, nominal, hyst int) *Config {
	return &Config{
		Monitor: MonitorConfig{
			Voltage: VoltageConfig{
				ShutdownLowMv:  shutLo,
				WarningLowMv:   warnLo,
				WarningHighMv:  warnHi,
				ShutdownHighMv: shutHi,
				NominalMv:      nominal,
				HysteresisMv:   hyst,
			},
		},
	}
}

// ---- tests ----

func TestValidate_EmptyConfigAccepted(t *testing.T) {
	// Zero-valued sections mean "use defaults" and pass validation.
	if err := Validate(&Config{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_GoodVoltageGeometry(t *testing.T) {
	cfg := voltCfg(9000, 10500, 15000, 16000, 13800, 500)
	if err := Validate(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_ZeroHysteresisRejected(t *testing.T) {
	cfg := voltCfg(9000, 10500, 15000, 16000, 13800, 0)
	if err := Validate(cfg); err == nil {
		t.Fatalf("expected hysteresis error, got nil")
	}
}

func TestValidate_InvertedShutdownLowRejected(t *testing.T) {
	cfg := voltCfg(11000, 10500, 15000, 16000, 13800, 500)
	err := Validate(cfg)
	if err == nil {
		t.Fatalf("expected geometry error, got nil")
	}
	if !strings.Contains(err.Error(), "shutdown_low_mv") {
		t.Fatalf("wrong error: %v", err)
	}
}

func TestValidate_ShutdownHighBelowWarningHighRejected(t *testing.T) {
	cfg := voltCfg(9000, 10500, 15000, 14000, 13800, 500)
	if err := Validate(cfg); err == nil {
		t.Fatalf("expected geometry error, got nil")
	}
}

func TestValidate_NominalOutsideWarningBandRejected(t *testing.T) {
	cfg := voltCfg(9000, 10500, 15000, 16000, 15500, 500)
	if err := Validate(cfg); err == nil {
		t.Fatalf("expected nominal error, got nil")
	}
}

func TestValidate_TemperatureGeometry(t *testing.T) {
	cfg := &Config{
		Monitor: MonitorConfig{
			Temperature: TemperatureConfig{
				ShutdownLowC:  -40, // inverted against warning low
				WarningLowC:   -50,
				WarningHighC:  125,
				ShutdownHighC: 150,
				NominalC:      25,
				HysteresisC:   5,
			},
		},
	}
	if err := Validate(cfg); err == nil {
		t.Fatalf("expected geometry error, got nil")
	}
}

func TestValidate_TemperatureCelsiusRange(t *testing.T) {
	// Values past int16 must be rejected, not wrapped downstream.
	cfg := &Config{
		Monitor: MonitorConfig{
			Temperature: TemperatureConfig{
				ShutdownLowC:  -50,
				WarningLowC:   -40,
				WarningHighC:  125,
				ShutdownHighC: 40000,
				NominalC:      25,
				HysteresisC:   5,
			},
		},
	}
	if err := Validate(cfg); err == nil {
		t.Fatalf("expected range error, got nil")
	}

	cfg.Monitor.Temperature.ShutdownHighC = 150
	cfg.Monitor.Temperature.ShutdownLowC = -40000
	if err := Validate(cfg); err == nil {
		t.Fatalf("expected range error, got nil")
	}

	cfg.Monitor.Temperature.ShutdownLowC = -50
	cfg.Monitor.Temperature.HysteresisC = 70000
	if err := Validate(cfg); err == nil {
		t.Fatalf("expected range error, got nil")
	}
}

func TestValidate_WatchdogToleranceRange(t *testing.T) {
	cfg := &Config{Monitor: MonitorConfig{Watchdog: WatchdogConfig{TolerancePct: 101}}}
	if err := Validate(cfg); err == nil {
		t.Fatalf("expected tolerance error, got nil")
	}

	cfg.Monitor.Watchdog.TolerancePct = 100
	if err := Validate(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_MemoryPatternByteRange(t *testing.T) {
	cfg := &Config{Monitor: MonitorConfig{Memory: MemoryConfig{TestPattern: 0x1AA}}}
	if err := Validate(cfg); err == nil {
		t.Fatalf("expected pattern error, got nil")
	}
}

func TestValidate_TelemetryRequiresEndpoint(t *testing.T) {
	cfg := &Config{Monitor: MonitorConfig{Telemetry: &TelemetryConfig{}}}
	if err := Validate(cfg); err == nil {
		t.Fatalf("expected endpoint error, got nil")
	}
}

func TestValidate_TelemetryDeviceNameASCII(t *testing.T) {
	cfg := &Config{Monitor: MonitorConfig{Telemetry: &TelemetryConfig{
		Endpoint:   "127.0.0.1:502",
		DeviceName: "ECU-\xC3\xA9",
	}}}
	if err := Validate(cfg); err == nil {
		t.Fatalf("expected ASCII error, got nil")
	}
}

func TestValidate_TelemetryUnitIDRange(t *testing.T) {
	cfg := &Config{Monitor: MonitorConfig{Telemetry: &TelemetryConfig{
		Endpoint: "127.0.0.1:502",
		UnitID:   300,
	}}}
	if err := Validate(cfg); err == nil {
		t.Fatalf("expected unit_id error, got nil")
	}
}
