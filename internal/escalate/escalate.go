// internal/escalate/escalate.go
package escalate

import (
	"errors"
	"sync/atomic"
)

// Class is the severity classification a producer attaches to a fault.
type Class uint8

const (
	ClassRecoverable Class = iota // can attempt recovery
	ClassDegraded                 // continue with reduced capability
	ClassFatal                    // must enter safe state
)

func (c Class) String() string {
	switch c {
	case ClassRecoverable:
		return "recoverable"
	case ClassDegraded:
		return "degraded"
	case ClassFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// ActionKind is the system-level outcome of an escalation decision.
type ActionKind uint8

const (
	ActionResume ActionKind = iota
	ActionDegrade
	ActionSafeState
)

func (a ActionKind) String() string {
	switch a {
	case ActionResume:
		return "resume"
	case ActionDegrade:
		return "degrade"
	case ActionSafeState:
		return "safe-state"
	default:
		return "unknown"
	}
}

// Reason tags a degrade or safe-state transition for diagnostics.
type Reason uint8

const (
	ReasonNone Reason = iota
	ReasonCPUFault
	ReasonBusFault
	ReasonSupplyVoltage
	ReasonThermal
	ReasonClock
	ReasonMemory
	ReasonWatchdogTimeout
)

func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonCPUFault:
		return "cpu-fault"
	case ReasonBusFault:
		return "bus-fault"
	case ReasonSupplyVoltage:
		return "supply-voltage"
	case ReasonThermal:
		return "thermal"
	case ReasonClock:
		return "clock"
	case ReasonMemory:
		return "memory"
	case ReasonWatchdogTimeout:
		return "watchdog-timeout"
	default:
		return "unknown"
	}
}

// Action is the decided outcome, with the reason that drove it.
type Action struct {
	Kind   ActionKind
	Reason Reason
}

// Decide maps a classification to an action.
// Fail-safe default: anything not explicitly recoverable or degraded,
// including unknown classifications, maps to safe state.
func Decide(c Class) ActionKind {
	switch c {
	case ClassRecoverable:
		return ActionResume
	case ClassDegraded:
		return ActionDegrade
	default:
		return ActionSafeState
	}
}

// SafeStateSink ceases unsafe outputs. Invoked at most once per process
// lifetime; a hardware reset is expected to follow.
type SafeStateSink interface {
	EnterSafeState(Reason)
}

// DegradeSink switches the system to reduced-capability operation.
type DegradeSink interface {
	EnterDegradedMode(Reason)
}

// Controller is the single funnel for severity policy. All producers
// escalate through it so safe-state entry lives in one place.
//
// Safe state is terminal: after the first safe-state decision every
// later call returns ActionSafeState without re-invoking the sink.
// Only an external reset restores normal operation.
type Controller struct {
	safe    SafeStateSink
	degrade DegradeSink
	latched atomic.Bool
}

func NewController(safe SafeStateSink, degrade DegradeSink) (*Controller, error) {
	if safe == nil {
		return nil, errors.New("escalate: safe-state sink required")
	}
	if degrade == nil {
		return nil, errors.New("escalate: degrade sink required")
	}
	return &Controller{safe: safe, degrade: degrade}, nil
}

// Escalate decides and acts. Callable from the trap domain: no
// blocking, no allocation, bounded steps.
func (c *Controller) Escalate(class Class, reason Reason) Action {
	if c.latched.Load() {
		return Action{Kind: ActionSafeState, Reason: reason}
	}

	switch Decide(class) {
	case ActionResume:
		return Action{Kind: ActionResume, Reason: reason}

	case ActionDegrade:
		c.degrade.EnterDegradedMode(reason)
		return Action{Kind: ActionDegrade, Reason: reason}

	default:
		if c.latched.CompareAndSwap(false, true) {
			c.safe.EnterSafeState(reason)
		}
		return Action{Kind: ActionSafeState, Reason: reason}
	}
}

// SafeStated reports whether the terminal transition has occurred.
func (c *Controller) SafeStated() bool {
	return c.latched.Load()
}
