// internal/health/supervisor.go
package health

import (
	"errors"
	"fmt"
	"sync"

	"github.com/tamzrod/ecu-sentinel/internal/escalate"
	"github.com/tamzrod/ecu-sentinel/internal/fault"
	"github.com/tamzrod/ecu-sentinel/internal/faultlog"
	"github.com/tamzrod/ecu-sentinel/internal/hal"
)

// Config is the immutable configuration bundle for one supervisor.
// Fixed for the instance lifetime; no hot reload.
type Config struct {
	Voltage     VoltageThresholds
	Temperature TemperatureThresholds

	// Optional checks.
	EnableClockCheck       bool
	ClockDriftTolerancePPM int32
	EnableRAMTest          bool
	RAMTestPattern         byte
}

// DefaultClockDriftTolerancePPM bounds oscillator drift before a
// clock-drift fault is raised.
const DefaultClockDriftTolerancePPM = 100

var (
	ErrAlreadyRunning = errors.New("health: already running")
	ErrNotRunning     = errors.New("health: not running")
)

// Stats are the periodic-check counters. CheckNow never advances them.
type Stats struct {
	Ticks            uint32
	LastTickMS       uint32
	RaisedByCategory [fault.NumCategories]uint32
}

// Supervisor polls the ECU health inputs against thresholds, raises
// faults, and escalates shutdown-band crossings. States: Stopped,
// Running. Tick must be invoked at the configured cadence by the
// runtime scheduler.
type Supervisor struct {
	cfg     Config
	sensors hal.Sensors
	clock   hal.Clock
	log     *faultlog.Log
	ctl     *escalate.Controller
	notify  fault.Notifier
	active  *fault.ActiveSet

	// Periodic-domain state. The mutex confines multi-step updates to
	// one domain; the trap path never takes it.
	mu           sync.Mutex
	running      bool
	voltageMV    uint16
	tempC        int16
	voltBand     band
	tempBand     band
	voltSensorUp bool
	tempSensorUp bool
	clockFault   fault.Code // CodeNone when the clock is healthy
	ramFaulted   bool
	stats        Stats
}

var voltCodes = bandCodes{
	warnLow:  fault.CodeUndervoltage,
	shutLow:  fault.CodeUndervoltage,
	warnHigh: fault.CodeOvervoltage,
	shutHigh: fault.CodeOvervoltage,
}

var tempCodes = bandCodes{
	warnLow:  fault.CodeUndertempWarning,
	shutLow:  fault.CodeUndertempShutdown,
	warnHigh: fault.CodeOvertempWarning,
	shutHigh: fault.CodeOvertempShutdown,
}

// bandCodes maps threshold bands to the taxonomy.
type bandCodes struct {
	warnLow, shutLow, warnHigh, shutHigh fault.Code
}

func (c bandCodes) code(b band) fault.Code {
	switch b {
	case bandWarnLow:
		return c.warnLow
	case bandShutLow:
		return c.shutLow
	case bandWarnHigh:
		return c.warnHigh
	case bandShutHigh:
		return c.shutHigh
	default:
		return fault.CodeNone
	}
}

func New(cfg Config, sensors hal.Sensors, clock hal.Clock, log *faultlog.Log, ctl *escalate.Controller, notify fault.Notifier) (*Supervisor, error) {
	if sensors == nil {
		return nil, errors.New("health: sensors required")
	}
	if clock == nil {
		return nil, errors.New("health: clock required")
	}
	if log == nil {
		return nil, errors.New("health: fault log required")
	}
	if ctl == nil {
		return nil, errors.New("health: escalation controller required")
	}
	if notify == nil {
		notify = fault.NopNotifier{}
	}
	if err := cfg.Voltage.validate(); err != nil {
		return nil, fmt.Errorf("health: %w", err)
	}
	if err := cfg.Temperature.validate(); err != nil {
		return nil, fmt.Errorf("health: %w", err)
	}
	if cfg.EnableClockCheck && cfg.ClockDriftTolerancePPM <= 0 {
		return nil, errors.New("health: clock drift tolerance must be > 0")
	}

	return &Supervisor{
		cfg:          cfg,
		sensors:      sensors,
		clock:        clock,
		log:          log,
		ctl:          ctl,
		notify:       notify,
		active:       &fault.ActiveSet{},
		voltSensorUp: true,
		tempSensorUp: true,
	}, nil
}

// Start records baseline readings and begins accepting ticks.
// Restart resets the active fault set; history is untouched.
func (s *Supervisor) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return ErrAlreadyRunning
	}

	mv, err := s.sensors.VoltageMV()
	if err != nil {
		return fmt.Errorf("health: baseline voltage read: %w", err)
	}
	tc, err := s.sensors.TemperatureC()
	if err != nil {
		return fmt.Errorf("health: baseline temperature read: %w", err)
	}

	s.voltageMV = mv
	s.tempC = tc
	s.voltBand = bandNominal
	s.tempBand = bandNominal
	s.voltSensorUp = true
	s.tempSensorUp = true
	s.clockFault = fault.CodeNone
	s.ramFaulted = false
	s.active.Acknowledge(fault.CodeNone)
	s.running = true
	return nil
}

// Stop halts periodic checks.
func (s *Supervisor) Stop() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}

// Tick runs one periodic check cycle: voltage, temperature, then the
// optional clock and memory checks, in that order.
func (s *Supervisor) Tick() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	s.stats.Ticks++
	s.stats.LastTickMS = s.clock.NowMS()
	s.runChecks()
}

// CheckNow runs all sub-checks once, out of cycle, and reports whether
// everything passed. Periodic statistics are not advanced and nothing
// is re-armed. A stopped supervisor has no baselines and checks
// nothing: the call fails.
func (s *Supervisor) CheckNow() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return false
	}
	s.runChecks()
	return s.voltBand == bandNominal && s.voltSensorUp &&
		s.tempBand == bandNominal && s.tempSensorUp &&
		s.clockFault == fault.CodeNone && !s.ramFaulted
}

func (s *Supervisor) runChecks() {
	s.checkVoltage()
	s.checkTemperature()
	if s.cfg.EnableClockCheck {
		s.checkClock()
	}
	if s.cfg.EnableRAMTest {
		s.checkRAM()
	}
}

func (s *Supervisor) checkVoltage() {
	mv, err := s.sensors.VoltageMV()
	if err != nil {
		if s.voltSensorUp {
			s.voltSensorUp = false
			s.raise(fault.CodeVoltageUnstable, fault.SeverityError, 0)
			s.ctl.Escalate(escalate.ClassDegraded, escalate.ReasonSupplyVoltage)
		}
		return
	}
	if !s.voltSensorUp {
		s.voltSensorUp = true
		s.clear(fault.CodeVoltageUnstable)
	}

	s.voltageMV = mv
	next := nextBand(s.voltBand, int32(mv), s.cfg.Voltage.limits())
	s.applyBand(&s.voltBand, next, voltCodes, uint16(mv), escalate.ReasonSupplyVoltage)
}

func (s *Supervisor) checkTemperature() {
	tc, err := s.sensors.TemperatureC()
	if err != nil {
		if s.tempSensorUp {
			s.tempSensorUp = false
			s.raise(fault.CodeTempSensorFault, fault.SeverityError, 0)
			s.ctl.Escalate(escalate.ClassDegraded, escalate.ReasonThermal)
		}
		return
	}
	if !s.tempSensorUp {
		s.tempSensorUp = true
		s.clear(fault.CodeTempSensorFault)
	}

	s.tempC = tc
	next := nextBand(s.tempBand, int32(tc), s.cfg.Temperature.limits())
	s.applyBand(&s.tempBand, next, tempCodes, uint16(tc), escalate.ReasonThermal)
}

// applyBand commits a band transition: the previous band's fault clears
// (hysteresis has already been applied), the new band's fault is
// raised, and shutdown bands always escalate.
func (s *Supervisor) applyBand(cur *band, next band, codes bandCodes, data uint16, reason escalate.Reason) {
	prev := *cur
	if next == prev {
		return
	}
	*cur = next

	prevCode := codes.code(prev)
	nextCode := codes.code(next)

	if prevCode != fault.CodeNone && prevCode != nextCode {
		s.clear(prevCode)
	}

	if nextCode != fault.CodeNone {
		sev := fault.SeverityWarning
		if next.shutdown() {
			sev = fault.SeverityCritical
		}
		// A downgrade into a band sharing the previous code is not a
		// new fault; only re-raise when the severity steps up.
		if nextCode != prevCode || next.shutdown() {
			s.raise(nextCode, sev, data)
		}
		if next.shutdown() {
			s.ctl.Escalate(escalate.ClassFatal, reason)
		}
	}
}

func (s *Supervisor) checkClock() {
	drift, err := s.sensors.ClockDriftPPM()
	if err != nil {
		if s.clockFault != fault.CodeClockLost {
			if s.clockFault != fault.CodeNone {
				s.clear(s.clockFault)
			}
			s.clockFault = fault.CodeClockLost
			s.raise(fault.CodeClockLost, fault.SeverityCritical, 0)
			s.ctl.Escalate(escalate.ClassFatal, escalate.ReasonClock)
		}
		return
	}

	if drift < 0 {
		drift = -drift
	}
	if drift > s.cfg.ClockDriftTolerancePPM {
		if s.clockFault != fault.CodeClockDrift {
			if s.clockFault != fault.CodeNone {
				s.clear(s.clockFault)
			}
			s.clockFault = fault.CodeClockDrift
			s.raise(fault.CodeClockDrift, fault.SeverityError, uint16(drift))
			s.ctl.Escalate(escalate.ClassDegraded, escalate.ReasonClock)
		}
		return
	}

	if s.clockFault != fault.CodeNone {
		s.clear(s.clockFault)
		s.clockFault = fault.CodeNone
	}
}

func (s *Supervisor) checkRAM() {
	err := s.sensors.RAMTest(s.cfg.RAMTestPattern)
	if err == nil {
		return
	}
	// Memory faults latch: a failed cell does not heal.
	if s.ramFaulted {
		return
	}
	s.ramFaulted = true
	s.raise(fault.CodeRAMError, fault.SeverityCritical, uint16(s.cfg.RAMTestPattern))
	s.ctl.Escalate(escalate.ClassFatal, escalate.ReasonMemory)
}

func (s *Supervisor) raise(code fault.Code, sev fault.Severity, data uint16) {
	rec := fault.Record{
		TimestampMS: s.clock.NowMS(),
		Code:        code,
		Severity:    sev,
		Data:        data,
	}
	s.log.Append(rec)
	s.active.Add(code)
	s.notify.FaultRaised(rec)
	s.stats.RaisedByCategory[code.Category()&0x0F]++
}

func (s *Supervisor) clear(code fault.Code) {
	s.active.Acknowledge(code)
	s.notify.FaultCleared(code)
}

// ---- QUERY SURFACE ----

func (s *Supervisor) Voltage() uint16 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.voltageMV
}

func (s *Supervisor) Temperature() int16 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tempC
}

func (s *Supervisor) VoltageOK() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.voltBand == bandNominal && s.voltSensorUp
}

func (s *Supervisor) TemperatureOK() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tempBand == bandNominal && s.tempSensorUp
}

func (s *Supervisor) ActiveFaultCount() int {
	return s.active.Count()
}

// FaultLog reads the newest max records, oldest first.
func (s *Supervisor) FaultLog(max int) []fault.Record {
	return s.log.Read(max)
}

// ClearFaultLog wipes fault history. Explicit operator action only.
func (s *Supervisor) ClearFaultLog() {
	s.log.Clear()
}

// Acknowledge removes matching entries from the active set without
// touching history. fault.CodeNone acknowledges everything.
func (s *Supervisor) Acknowledge(code fault.Code) int {
	return s.active.Acknowledge(code)
}

func (s *Supervisor) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *Supervisor) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}
