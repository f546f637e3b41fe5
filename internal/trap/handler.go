// internal/trap/handler.go
package trap

import (
	"errors"

	"github.com/tamzrod/ecu-sentinel/internal/escalate"
	"github.com/tamzrod/ecu-sentinel/internal/fault"
	"github.com/tamzrod/ecu-sentinel/internal/faultlog"
	"github.com/tamzrod/ecu-sentinel/internal/hal"
)

// Kind discriminates which trap vector fired.
type Kind uint8

const (
	KindHardFault Kind = iota
	KindMemManage
	KindBusFault
	KindUsageFault
)

func (k Kind) String() string {
	switch k {
	case KindHardFault:
		return "hard-fault"
	case KindMemManage:
		return "mem-manage"
	case KindBusFault:
		return "bus-fault"
	case KindUsageFault:
		return "usage-fault"
	default:
		return "unknown"
	}
}

// Snapshot is the plain data record the platform trap dispatcher hands
// over. How it is captured (stack frame walk, status register reads)
// is outside this core.
type Snapshot struct {
	Kind    Kind
	Context fault.CPUContext
}

// DefaultInstructionWidth advances the saved PC on resume.
// Fixed-width is a known fragility: it is wrong for variable-width
// encodings and is configurable so the platform layer can revisit it.
const DefaultInstructionWidth = 2

// Config adjusts handler policy.
type Config struct {
	// InstructionWidth used when resuming past a faulting instruction.
	// 0 selects DefaultInstructionWidth.
	InstructionWidth uint32
}

// Handler reacts to CPU fault snapshots: classify, log, clear status,
// escalate. One instance per monitor context; no process globals.
type Handler struct {
	log        *faultlog.Log
	ctl        *escalate.Controller
	status     hal.FaultStatus
	clock      hal.Clock
	notify     fault.Notifier
	instrWidth uint32
}

func NewHandler(cfg Config, log *faultlog.Log, ctl *escalate.Controller, status hal.FaultStatus, clock hal.Clock, notify fault.Notifier) (*Handler, error) {
	if log == nil {
		return nil, errors.New("trap: fault log required")
	}
	if ctl == nil {
		return nil, errors.New("trap: escalation controller required")
	}
	if status == nil {
		return nil, errors.New("trap: fault status interface required")
	}
	if clock == nil {
		return nil, errors.New("trap: clock required")
	}
	if notify == nil {
		notify = fault.NopNotifier{}
	}
	width := cfg.InstructionWidth
	if width == 0 {
		width = DefaultInstructionWidth
	}
	return &Handler{
		log:        log,
		ctl:        ctl,
		status:     status,
		clock:      clock,
		notify:     notify,
		instrWidth: width,
	}, nil
}

// Handle processes one captured fault. Preemptive-domain path: no
// blocking, no allocation, bounded steps.
//
// Log-before-act is mandatory. The action taken below may reset the
// system; anything not yet persisted would be lost. Logging outcome
// never gates escalation.
//
// On resume the saved PC in snap.Context is advanced past the faulting
// instruction; the dispatcher restores execution from the snapshot.
func (h *Handler) Handle(snap *Snapshot) escalate.Action {
	class, code := Classify(snap.Context.CFSR)

	rec := fault.Record{
		TimestampMS: h.clock.NowMS(),
		Code:        code,
		Severity:    severityFor(class),
		Data:        uint16(snap.Kind),
		HasContext:  true,
		Context:     snap.Context,
	}
	h.log.Append(rec)
	h.notify.FaultRaised(rec)

	// Re-arm detection of future faults.
	h.status.ClearFaultStatus(snap.Context.CFSR, snap.Context.HFSR)

	act := h.ctl.Escalate(class, reasonFor(class))
	if act.Kind == escalate.ActionResume {
		snap.Context.PC += h.instrWidth
	}
	return act
}

func severityFor(class escalate.Class) fault.Severity {
	switch class {
	case escalate.ClassRecoverable:
		return fault.SeverityWarning
	case escalate.ClassDegraded:
		return fault.SeverityError
	default:
		return fault.SeverityCritical
	}
}

func reasonFor(class escalate.Class) escalate.Reason {
	if class == escalate.ClassDegraded {
		return escalate.ReasonBusFault
	}
	return escalate.ReasonCPUFault
}
