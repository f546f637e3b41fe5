// internal/telemetry/aggregator.go
package telemetry

import (
	"sync"

	"github.com/tamzrod/ecu-sentinel/internal/fault"
	"github.com/tamzrod/ecu-sentinel/internal/status"
	"github.com/tamzrod/ecu-sentinel/internal/watchdog"
)

// Aggregator folds fault notifications and supervisor queries into the
// current status snapshot. It implements fault.Notifier and is wired
// as the monitor's notification target.
//
// Aggregation state lives here, delivery state lives in BlockWriter.
type Aggregator struct {
	mu             sync.Mutex
	started        bool
	degraded       bool
	safe           bool
	activeFaults   uint16
	lastCode       uint16
	lastSeverity   uint16
	totalFaults    uint16
	confirms       uint16
	lateConfirms   uint16
	secondsInFault uint16
}

func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// ---- fault.Notifier ----

func (a *Aggregator) FaultRaised(r fault.Record) {
	a.mu.Lock()
	a.lastCode = uint16(r.Code)
	a.lastSeverity = uint16(r.Severity)
	a.totalFaults++
	a.mu.Unlock()
}

func (a *Aggregator) FaultCleared(fault.Code) {}

// ---- supervisor state feeds ----

func (a *Aggregator) SetStarted() {
	a.mu.Lock()
	a.started = true
	a.mu.Unlock()
}

func (a *Aggregator) SetActiveFaults(n int) {
	a.mu.Lock()
	if n < 0 {
		n = 0
	}
	if n > 0xFFFF {
		n = 0xFFFF
	}
	a.activeFaults = uint16(n)
	a.mu.Unlock()
}

func (a *Aggregator) SetWatchdog(s watchdog.Stats) {
	a.mu.Lock()
	a.confirms = uint16(s.Confirms)
	a.lateConfirms = uint16(s.LateConfirms)
	a.mu.Unlock()
}

func (a *Aggregator) MarkDegraded() {
	a.mu.Lock()
	a.degraded = true
	a.mu.Unlock()
}

func (a *Aggregator) MarkSafeState() {
	a.mu.Lock()
	a.safe = true
	a.mu.Unlock()
}

// TickSecond advances the seconds-in-fault counter. Call at 1Hz.
// Saturates rather than wraps.
func (a *Aggregator) TickSecond() {
	a.mu.Lock()
	if a.health() == status.HealthOK {
		a.secondsInFault = 0
	} else if a.secondsInFault < 0xFFFF {
		a.secondsInFault++
	}
	a.mu.Unlock()
}

// Snapshot returns the current delivery-ready state.
func (a *Aggregator) Snapshot() status.Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()

	return status.Snapshot{
		Health:         a.health(),
		ActiveFaults:   a.activeFaults,
		LastFaultCode:  a.lastCode,
		LastSeverity:   a.lastSeverity,
		SecondsInFault: a.secondsInFault,
		TotalFaults:    a.totalFaults,
		ConfirmCount:   a.confirms,
		LateConfirms:   a.lateConfirms,
	}
}

// health must be called with the mutex held.
func (a *Aggregator) health() uint16 {
	switch {
	case a.safe:
		return status.HealthSafeState
	case a.degraded || a.activeFaults > 0:
		return status.HealthDegraded
	case a.started:
		return status.HealthOK
	default:
		return status.HealthUnknown
	}
}
