// internal/config/validate.go
package config

import (
	"fmt"
)

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
//
// Zero-valued sections mean "use defaults" and are filled by
// Normalize; Validate checks only what is set.
func Validate(cfg *Config) error {
	m := &cfg.Monitor

	// ------------------------------------------------------------
	// CHECK CADENCE
	// ------------------------------------------------------------

	if m.CheckIntervalMs < 0 {
		return fmt.Errorf("config: check_interval_ms must be >= 0, got %d", m.CheckIntervalMs)
	}

	// ------------------------------------------------------------
	// THRESHOLD GEOMETRY
	// ------------------------------------------------------------

	if v := m.Voltage; v != (VoltageConfig{}) {
		if v.HysteresisMv <= 0 {
			return fmt.Errorf("config: voltage hysteresis_mv must be > 0, got %d", v.HysteresisMv)
		}
		if v.ShutdownLowMv >= v.WarningLowMv {
			return fmt.Errorf(
				"config: voltage shutdown_low_mv %d must be below warning_low_mv %d",
				v.ShutdownLowMv, v.WarningLowMv,
			)
		}
		if v.ShutdownHighMv <= v.WarningHighMv {
			return fmt.Errorf(
				"config: voltage shutdown_high_mv %d must be above warning_high_mv %d",
				v.ShutdownHighMv, v.WarningHighMv,
			)
		}
		if v.NominalMv <= v.WarningLowMv || v.NominalMv >= v.WarningHighMv {
			return fmt.Errorf("config: voltage nominal_mv %d outside warning band", v.NominalMv)
		}
		if v.ShutdownLowMv < 0 || v.ShutdownHighMv > 0xFFFF {
			return fmt.Errorf("config: voltage thresholds out of millivolt range")
		}
	}

	if t := m.Temperature; t != (TemperatureConfig{}) {
		if t.HysteresisC <= 0 {
			return fmt.Errorf("config: temperature hysteresis_c must be > 0, got %d", t.HysteresisC)
		}
		if t.ShutdownLowC >= t.WarningLowC {
			return fmt.Errorf(
				"config: temperature shutdown_low_c %d must be below warning_low_c %d",
				t.ShutdownLowC, t.WarningLowC,
			)
		}
		if t.ShutdownHighC <= t.WarningHighC {
			return fmt.Errorf(
				"config: temperature shutdown_high_c %d must be above warning_high_c %d",
				t.ShutdownHighC, t.WarningHighC,
			)
		}
		if t.NominalC <= t.WarningLowC || t.NominalC >= t.WarningHighC {
			return fmt.Errorf("config: temperature nominal_c %d outside warning band", t.NominalC)
		}
		// The geometry checks above order the section, so the shutdown
		// levels bound every other value.
		if t.ShutdownLowC < -32768 || t.ShutdownHighC > 32767 {
			return fmt.Errorf("config: temperature thresholds out of celsius range")
		}
		if t.HysteresisC > 32767 {
			return fmt.Errorf("config: temperature hysteresis_c %d out of celsius range", t.HysteresisC)
		}
	}

	// ------------------------------------------------------------
	// OPTIONAL CHECKS
	// ------------------------------------------------------------

	if m.Clock.Enable && m.Clock.DriftTolerancePpm < 0 {
		return fmt.Errorf("config: clock drift_tolerance_ppm must be >= 0, got %d", m.Clock.DriftTolerancePpm)
	}
	if m.Memory.TestPattern < 0 || m.Memory.TestPattern > 0xFF {
		return fmt.Errorf("config: memory test_pattern %d out of byte range", m.Memory.TestPattern)
	}

	// ------------------------------------------------------------
	// WATCHDOG
	// ------------------------------------------------------------

	if m.Watchdog.TimeoutMs < 0 {
		return fmt.Errorf("config: watchdog timeout_ms must be >= 0, got %d", m.Watchdog.TimeoutMs)
	}
	if m.Watchdog.TolerancePct < 0 || m.Watchdog.TolerancePct > 100 {
		return fmt.Errorf("config: watchdog tolerance_pct %d out of range [0,100]", m.Watchdog.TolerancePct)
	}

	// ------------------------------------------------------------
	// FAULT LOG
	// ------------------------------------------------------------

	if m.FaultLog.Capacity < 0 {
		return fmt.Errorf("config: fault_log capacity must be >= 0, got %d", m.FaultLog.Capacity)
	}

	// ------------------------------------------------------------
	// TELEMETRY STATUS BLOCK (OPT-IN)
	// ------------------------------------------------------------

	if tl := m.Telemetry; tl != nil {
		if tl.Endpoint == "" {
			return fmt.Errorf("config: telemetry endpoint required when telemetry is set")
		}
		if tl.UnitID < 0 || tl.UnitID > 255 {
			return fmt.Errorf("config: telemetry unit_id %d out of range", tl.UnitID)
		}
		if tl.BaseSlot < 0 || tl.BaseSlot > 0xFFFF {
			return fmt.Errorf("config: telemetry base_slot %d out of range", tl.BaseSlot)
		}

		// device_name sanity (ASCII only)
		for i := 0; i < len(tl.DeviceName); i++ {
			if tl.DeviceName[i] > 0x7F {
				return fmt.Errorf("config: telemetry device_name must contain ASCII characters only")
			}
		}
	}

	return nil
}
