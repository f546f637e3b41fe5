// internal/health/thresholds.go
package health

import "fmt"

// VoltageThresholds bound the supply rail in millivolts.
// Shutdown levels must be stricter than warning levels on both sides;
// hysteresis must be positive.
type VoltageThresholds struct {
	ShutdownLowMV  uint16
	WarningLowMV   uint16
	WarningHighMV  uint16
	ShutdownHighMV uint16
	NominalMV      uint16
	HysteresisMV   uint16
}

// Default12VThresholds per ISO 16750 for a 12V automotive supply.
var Default12VThresholds = VoltageThresholds{
	ShutdownLowMV:  9000,
	WarningLowMV:   10500,
	WarningHighMV:  15000,
	ShutdownHighMV: 16000,
	NominalMV:      13800,
	HysteresisMV:   500,
}

// TemperatureThresholds bound the junction temperature in Celsius.
type TemperatureThresholds struct {
	ShutdownLowC  int16
	WarningLowC   int16
	WarningHighC  int16
	ShutdownHighC int16
	NominalC      int16
	HysteresisC   int16
}

// DefaultTempThresholds per AEC-Q100 Grade 1.
var DefaultTempThresholds = TemperatureThresholds{
	ShutdownLowC:  -50,
	WarningLowC:   -40,
	WarningHighC:  125,
	ShutdownHighC: 150,
	NominalC:      25,
	HysteresisC:   5,
}

func (v VoltageThresholds) validate() error {
	l := v.limits()
	if err := l.validate(); err != nil {
		return fmt.Errorf("voltage thresholds: %w", err)
	}
	if int32(v.NominalMV) <= l.warnLow || int32(v.NominalMV) >= l.warnHigh {
		return fmt.Errorf("voltage thresholds: nominal %d outside warning band", v.NominalMV)
	}
	return nil
}

func (t TemperatureThresholds) validate() error {
	l := t.limits()
	if err := l.validate(); err != nil {
		return fmt.Errorf("temperature thresholds: %w", err)
	}
	if int32(t.NominalC) <= l.warnLow || int32(t.NominalC) >= l.warnHigh {
		return fmt.Errorf("temperature thresholds: nominal %d outside warning band", t.NominalC)
	}
	return nil
}

func (v VoltageThresholds) limits() limits {
	return limits{
		shutLow:  int32(v.ShutdownLowMV),
		warnLow:  int32(v.WarningLowMV),
		warnHigh: int32(v.WarningHighMV),
		shutHigh: int32(v.ShutdownHighMV),
		hyst:     int32(v.HysteresisMV),
	}
}

func (t TemperatureThresholds) limits() limits {
	return limits{
		shutLow:  int32(t.ShutdownLowC),
		warnLow:  int32(t.WarningLowC),
		warnHigh: int32(t.WarningHighC),
		shutHigh: int32(t.ShutdownHighC),
		hyst:     int32(t.HysteresisC),
	}
}
