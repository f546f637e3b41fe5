// internal/trap/classify.go
package trap

import (
	"github.com/tamzrod/ecu-sentinel/internal/escalate"
	"github.com/tamzrod/ecu-sentinel/internal/fault"
)

// CFSR bit groups and cause flags. The decoding contract is abstract:
// only the bit positions below are interpreted, everything else is
// opaque and classifies as fatal.
const (
	maskMMFSR uint32 = 0x000000FF
	maskBFSR  uint32 = 0x0000FF00
	maskUFSR  uint32 = 0xFFFF0000

	bitIACCVIOL    uint32 = 1 << 0
	bitDACCVIOL    uint32 = 1 << 1
	bitIBUSERR     uint32 = 1 << 8
	bitPRECISERR   uint32 = 1 << 9
	bitIMPRECISERR uint32 = 1 << 10
	bitUNDEFINSTR  uint32 = 1 << 16
	bitINVSTATE    uint32 = 1 << 17
	bitINVPC       uint32 = 1 << 18
	bitDIVBYZERO   uint32 = 1 << 24
)

// Classify decodes the fault status word into a classification and a
// fault code.
//
// The check order is policy, not convenience: memory faults take
// precedence over bus faults take precedence over usage faults,
// matching descending severity likelihood. Do not reorder.
func Classify(cfsr uint32) (escalate.Class, fault.Code) {
	// Memory access violations. Any match is fatal.
	if cfsr&maskMMFSR != 0 {
		if cfsr&(bitIACCVIOL|bitDACCVIOL) != 0 {
			return escalate.ClassFatal, fault.CodeMemAccessViolation
		}
	}

	// Bus errors. Instruction fetch errors are fatal; precise and
	// imprecise data errors continue degraded.
	if cfsr&maskBFSR != 0 {
		if cfsr&bitIBUSERR != 0 {
			return escalate.ClassFatal, fault.CodeInstrBusError
		}
		if cfsr&(bitPRECISERR|bitIMPRECISERR) != 0 {
			return escalate.ClassDegraded, fault.CodeBusError
		}
	}

	// Usage faults.
	if cfsr&maskUFSR != 0 {
		if cfsr&(bitUNDEFINSTR|bitINVSTATE|bitINVPC) != 0 {
			return escalate.ClassFatal, fault.CodeUsageFault
		}
		if cfsr&bitDIVBYZERO != 0 {
			return escalate.ClassRecoverable, fault.CodeDivideByZero
		}
	}

	// Unknown cause. Never resume, never degrade.
	return escalate.ClassFatal, fault.CodeTrapUnknown
}
