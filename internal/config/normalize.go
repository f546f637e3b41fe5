// internal/config/normalize.go
package config

import (
	"log/slog"

	"github.com/tamzrod/ecu-sentinel/internal/faultlog"
	"github.com/tamzrod/ecu-sentinel/internal/health"
	"github.com/tamzrod/ecu-sentinel/internal/watchdog"
)

// DefaultCheckIntervalMs is the periodic check cadence giving 10ms
// detection latency.
const DefaultCheckIntervalMs = 10

// Normalize applies post-validation defaulting.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
//
// Nothing is defaulted silently: every substitution logs a diagnostic.
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}
	m := &cfg.Monitor

	if m.CheckIntervalMs == 0 {
		m.CheckIntervalMs = DefaultCheckIntervalMs
		slog.Info("config: check_interval_ms defaulted", "ms", m.CheckIntervalMs)
	}

	// ------------------------------------------------------------
	// THRESHOLD DEFAULTS (whole-section only: a partially filled
	// section was already validated as a complete geometry)
	// ------------------------------------------------------------

	if m.Voltage == (VoltageConfig{}) {
		d := health.Default12VThresholds
		m.Voltage = VoltageConfig{
			ShutdownLowMv:  int(d.ShutdownLowMV),
			WarningLowMv:   int(d.WarningLowMV),
			WarningHighMv:  int(d.WarningHighMV),
			ShutdownHighMv: int(d.ShutdownHighMV),
			NominalMv:      int(d.NominalMV),
			HysteresisMv:   int(d.HysteresisMV),
		}
		slog.Info("config: voltage thresholds defaulted to 12V automotive")
	}

	if m.Temperature == (TemperatureConfig{}) {
		d := health.DefaultTempThresholds
		m.Temperature = TemperatureConfig{
			ShutdownLowC:  int(d.ShutdownLowC),
			WarningLowC:   int(d.WarningLowC),
			WarningHighC:  int(d.WarningHighC),
			ShutdownHighC: int(d.ShutdownHighC),
			NominalC:      int(d.NominalC),
			HysteresisC:   int(d.HysteresisC),
		}
		slog.Info("config: temperature thresholds defaulted to AEC-Q100 grade 1")
	}

	if m.Clock.Enable && m.Clock.DriftTolerancePpm == 0 {
		m.Clock.DriftTolerancePpm = health.DefaultClockDriftTolerancePPM
		slog.Info("config: clock drift_tolerance_ppm defaulted", "ppm", m.Clock.DriftTolerancePpm)
	}

	// ------------------------------------------------------------
	// WATCHDOG TIMEOUT CLAMP
	// ------------------------------------------------------------

	minMs := int(watchdog.MinTimeout.Milliseconds())
	maxMs := int(watchdog.MaxTimeout.Milliseconds())
	if m.Watchdog.TimeoutMs == 0 {
		m.Watchdog.TimeoutMs = int(watchdog.DefaultTimeout.Milliseconds())
		slog.Info("config: watchdog timeout_ms defaulted", "ms", m.Watchdog.TimeoutMs)
	} else if m.Watchdog.TimeoutMs < minMs || m.Watchdog.TimeoutMs > maxMs {
		slog.Warn("config: watchdog timeout_ms out of range, using default",
			"requested_ms", m.Watchdog.TimeoutMs,
			"default_ms", int(watchdog.DefaultTimeout.Milliseconds()),
		)
		m.Watchdog.TimeoutMs = int(watchdog.DefaultTimeout.Milliseconds())
	}
	if m.Watchdog.TolerancePct == 0 {
		m.Watchdog.TolerancePct = watchdog.DefaultTolerancePercent
	}

	// ------------------------------------------------------------
	// FAULT LOG CAPACITY
	// ------------------------------------------------------------

	if m.FaultLog.Capacity == 0 {
		m.FaultLog.Capacity = faultlog.DefaultCapacity
		slog.Info("config: fault_log capacity defaulted", "capacity", m.FaultLog.Capacity)
	}

	// ------------------------------------------------------------
	// TELEMETRY (OPT-IN)
	// ------------------------------------------------------------

	if tl := m.Telemetry; tl != nil {
		// Truncate device name; ASCII already validated.
		if len(tl.DeviceName) > 16 {
			tl.DeviceName = tl.DeviceName[:16]
		}
		if tl.TimeoutMs == 0 {
			tl.TimeoutMs = 1000
		}
	}
}
