// internal/watchdog/watchdog.go
package watchdog

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/tamzrod/ecu-sentinel/internal/escalate"
	"github.com/tamzrod/ecu-sentinel/internal/fault"
	"github.com/tamzrod/ecu-sentinel/internal/faultlog"
	"github.com/tamzrod/ecu-sentinel/internal/hal"
)

// Timeout bounds. Out-of-range values are normalized to the default by
// the config layer before they reach here.
const (
	MinTimeout     = 10 * time.Millisecond
	DefaultTimeout = 100 * time.Millisecond
	MaxTimeout     = time.Second
)

// DefaultTolerancePercent is the allowed deviation from the expected
// confirmation interval (timeout/2) before a confirmation counts late.
const DefaultTolerancePercent = 10

var (
	ErrAlreadyArmed = errors.New("watchdog: already armed")
	ErrNotArmed     = errors.New("watchdog: not armed")
)

// Config fixes supervisor policy at construction.
type Config struct {
	Timeout time.Duration

	// TolerancePercent of the expected interval. 0 selects the default.
	TolerancePercent uint32
}

// ConfirmResult is the timing diagnostic for one confirmation.
type ConfirmResult struct {
	ElapsedMS  uint32
	ExpectedMS uint32
	Late       bool
}

// Stats is the diagnostic query surface.
type Stats struct {
	Confirms     uint32
	LateConfirms uint32
	Timeout      time.Duration
	Armed        bool
}

// Supervisor wraps the independent hardware liveness timer. States:
// Stopped, Armed. A late confirmation is recorded but does not fail;
// only complete silence across the full timeout trips the hardware
// backstop.
type Supervisor struct {
	timer  hal.Timer
	clock  hal.Clock
	log    *faultlog.Log
	ctl    *escalate.Controller
	notify fault.Notifier

	timeout      time.Duration
	tolerancePct uint32

	// Shared with the timeout path. Atomics only: the backstop can
	// preempt a Confirm in flight.
	armed         atomic.Bool
	lastConfirmMS atomic.Uint32
	confirms      atomic.Uint32
	lateConfirms  atomic.Uint32
}

func New(cfg Config, timer hal.Timer, clock hal.Clock, log *faultlog.Log, ctl *escalate.Controller, notify fault.Notifier) (*Supervisor, error) {
	if timer == nil {
		return nil, errors.New("watchdog: timer required")
	}
	if clock == nil {
		return nil, errors.New("watchdog: clock required")
	}
	if log == nil {
		return nil, errors.New("watchdog: fault log required")
	}
	if ctl == nil {
		return nil, errors.New("watchdog: escalation controller required")
	}
	if notify == nil {
		notify = fault.NopNotifier{}
	}
	if cfg.Timeout < MinTimeout || cfg.Timeout > MaxTimeout {
		return nil, fmt.Errorf("watchdog: timeout %v out of range [%v,%v]", cfg.Timeout, MinTimeout, MaxTimeout)
	}
	tol := cfg.TolerancePercent
	if tol == 0 {
		tol = DefaultTolerancePercent
	}
	if tol > 100 {
		return nil, fmt.Errorf("watchdog: tolerance %d%% out of range", tol)
	}

	return &Supervisor{
		timer:        timer,
		clock:        clock,
		log:          log,
		ctl:          ctl,
		notify:       notify,
		timeout:      cfg.Timeout,
		tolerancePct: tol,
	}, nil
}

// Start arms the hardware timer and stamps the baseline confirmation
// time. A duplicate start is reported, not silently ignored.
func (s *Supervisor) Start() error {
	if !s.armed.CompareAndSwap(false, true) {
		return ErrAlreadyArmed
	}
	if err := s.timer.Arm(s.timeout); err != nil {
		s.armed.Store(false)
		return fmt.Errorf("watchdog: arm failed: %w", err)
	}
	s.lastConfirmMS.Store(s.clock.NowMS())
	return nil
}

// Confirm is the liveness kick. The hardware countdown is always
// reset, even when late: a late confirmation is a diagnostic, not a
// reason to force an avoidable reset. Elapsed time is checked against
// timeout/2 plus the configured tolerance.
func (s *Supervisor) Confirm() (ConfirmResult, error) {
	if !s.armed.Load() {
		return ConfirmResult{}, ErrNotArmed
	}

	// Kick hardware first, unconditionally.
	s.timer.Kick()

	now := s.clock.NowMS()
	prev := s.lastConfirmMS.Swap(now)
	elapsed := now - prev // unsigned wraparound math

	expected := uint32(s.timeout / time.Millisecond / 2)
	tolerance := expected * s.tolerancePct / 100

	res := ConfirmResult{ElapsedMS: elapsed, ExpectedMS: expected}
	s.confirms.Add(1)

	if elapsed > expected+tolerance {
		res.Late = true
		s.lateConfirms.Add(1)

		// Timing-violation diagnostic. Recorded, never escalated.
		rec := fault.Record{
			TimestampMS: now,
			Code:        fault.CodeWatchdogLateConfirm,
			Severity:    fault.SeverityWarning,
			Data:        uint16(elapsed),
		}
		s.log.Append(rec)
		s.notify.FaultRaised(rec)
	}

	return res, nil
}

// OnHardwareTimeout is the backstop path, entered when no confirmation
// arrived across the full timeout. Last line of defense: log the
// emergency record, escalate to safe state, return to the caller which
// is expected to reset the hardware. No blocking, no allocation.
func (s *Supervisor) OnHardwareTimeout() {
	rec := fault.Record{
		TimestampMS: s.clock.NowMS(),
		Code:        fault.CodeWatchdogTimeout,
		Severity:    fault.SeverityCritical,
		Data:        uint16(s.confirms.Load()),
	}
	s.log.Append(rec)
	s.notify.FaultRaised(rec)

	s.ctl.Escalate(escalate.ClassFatal, escalate.ReasonWatchdogTimeout)
}

// Stats returns the diagnostic counters.
func (s *Supervisor) Stats() Stats {
	return Stats{
		Confirms:     s.confirms.Load(),
		LateConfirms: s.lateConfirms.Load(),
		Timeout:      s.timeout,
		Armed:        s.armed.Load(),
	}
}
