// internal/fault/record.go
package fault

import (
	"encoding/binary"
	"hash/crc32"
)

// Severity orders faults for escalation decisions.
type Severity uint8

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// CPUContext is the register snapshot captured at a fault trap.
// It is produced by the platform trap dispatcher; this core only reads it.
type CPUContext struct {
	R0, R1, R2, R3 uint32
	R12            uint32
	LR             uint32
	PC             uint32
	PSR            uint32

	// Fault status words.
	CFSR uint32
	HFSR uint32

	// Fault addresses.
	MMFAR uint32
	BFAR  uint32
}

// Record is one fault log entry. Immutable once written.
// Checksum covers every other field.
type Record struct {
	TimestampMS uint32
	Code        Code
	Severity    Severity
	Data        uint16

	HasContext bool
	Context    CPUContext

	Checksum uint32
}

// recordWireSize is the fixed-width image of a Record excluding the checksum.
const recordWireSize = 4 + 2 + 1 + 2 + 1 + 12*4

// ComputeChecksum returns the CRC32 over all fields except Checksum.
// It writes into a stack buffer and performs no heap allocation.
func (r *Record) ComputeChecksum() uint32 {
	var buf [recordWireSize]byte

	binary.BigEndian.PutUint32(buf[0:], r.TimestampMS)
	binary.BigEndian.PutUint16(buf[4:], uint16(r.Code))
	buf[6] = byte(r.Severity)
	binary.BigEndian.PutUint16(buf[7:], r.Data)
	if r.HasContext {
		buf[9] = 1
	}

	regs := [...]uint32{
		r.Context.R0, r.Context.R1, r.Context.R2, r.Context.R3,
		r.Context.R12, r.Context.LR, r.Context.PC, r.Context.PSR,
		r.Context.CFSR, r.Context.HFSR, r.Context.MMFAR, r.Context.BFAR,
	}
	for i, v := range regs {
		binary.BigEndian.PutUint32(buf[10+4*i:], v)
	}

	return crc32.ChecksumIEEE(buf[:])
}

// Seal stamps the checksum. Call exactly once, at detection time.
func (r *Record) Seal() {
	r.Checksum = r.ComputeChecksum()
}

// Verify recomputes the checksum and compares it to the stored value.
func (r *Record) Verify() bool {
	return r.Checksum == r.ComputeChecksum()
}
