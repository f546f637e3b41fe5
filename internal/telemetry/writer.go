// internal/telemetry/writer.go
package telemetry

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tamzrod/ecu-sentinel/internal/status"
)

// endpointClient is the exact contract the block writer uses.
// IMPORTANT: There must be NO other version of this interface anywhere.
type endpointClient interface {
	WriteRegisters(addr uint16, regs []uint16) error
}

// Plan places one monitor's status block in the remote register map.
type Plan struct {
	BaseSlot   uint16
	DeviceName string
}

// BlockWriter delivers status snapshots into the diagnostic register
// map. It writes changed slots only; any write failure forces a full
// block re-assert on the next successful call.
type BlockWriter struct {
	plan Plan
	cli  endpointClient

	needFull bool
	last     status.Snapshot
	nameRegs []uint16
}

// NewBlockWriter builds a writer for one status block.
func NewBlockWriter(plan Plan, cli endpointClient) (*BlockWriter, error) {
	if cli == nil {
		return nil, errors.New("telemetry: endpoint client required")
	}

	return &BlockWriter{
		plan:     plan,
		cli:      cli,
		needFull: true, // full re-assert on first successful write
		last: status.Snapshot{
			Health: status.HealthUnknown,
		},
		nameRegs: encodeDeviceNameRegs(plan.DeviceName),
	}, nil
}

// WriteStatus delivers a status snapshot.
// On any write failure, the next successful call re-asserts the full block.
func (w *BlockWriter) WriteStatus(s status.Snapshot) error {
	baseAddr := w.baseAddr()

	// ------------------------------------------------------------
	// Full block write (identity re-assert)
	// ------------------------------------------------------------
	if w.needFull {
		regs := w.fullBlockRegs(s)

		if err := w.cli.WriteRegisters(baseAddr, regs); err != nil {
			w.needFull = true
			return fmt.Errorf("telemetry: full block write failed: %w", err)
		}

		w.needFull = false
		w.last = s
		return nil
	}

	var errs []string

	slots := [...]struct {
		slot uint16
		prev *uint16
		next uint16
	}{
		{status.SlotHealthCode, &w.last.Health, s.Health},
		{status.SlotActiveFaults, &w.last.ActiveFaults, s.ActiveFaults},
		{status.SlotLastFaultCode, &w.last.LastFaultCode, s.LastFaultCode},
		{status.SlotLastSeverity, &w.last.LastSeverity, s.LastSeverity},
		{status.SlotSecondsInFault, &w.last.SecondsInFault, s.SecondsInFault},
		{status.SlotTotalFaults, &w.last.TotalFaults, s.TotalFaults},
		{status.SlotConfirmCount, &w.last.ConfirmCount, s.ConfirmCount},
		{status.SlotLateConfirms, &w.last.LateConfirms, s.LateConfirms},
	}

	for _, sl := range slots {
		if *sl.prev == sl.next {
			continue
		}
		if err := w.cli.WriteRegisters(baseAddr+sl.slot, []uint16{sl.next}); err != nil {
			errs = append(errs, fmt.Sprintf("slot%d write failed: %v", sl.slot, err))
			continue
		}
		*sl.prev = sl.next
	}

	if len(errs) > 0 {
		// Any partial failure introduces doubt; re-assert on next success.
		w.needFull = true
		return errors.New("telemetry: " + strings.Join(errs, " | "))
	}

	return nil
}

func (w *BlockWriter) baseAddr() uint16 {
	// Each monitor owns a fixed SlotsPerBlock block.
	return w.plan.BaseSlot * status.SlotsPerBlock
}

func (w *BlockWriter) fullBlockRegs(s status.Snapshot) []uint16 {
	regs := status.Encode(s)

	// Slots 8..10 are RESERVED and stay zero.

	// Device name always lives at the end of the block.
	for i := 0; i < status.SlotDeviceNameSlots; i++ {
		dst := status.SlotDeviceNameStart + i
		if dst < len(regs) && i < len(w.nameRegs) {
			regs[dst] = w.nameRegs[i]
		}
	}

	return regs
}

// encodeDeviceNameRegs packs up to 16 ASCII characters into 8 uint16
// registers. Each register stores two ASCII bytes in big-endian order.
func encodeDeviceNameRegs(name string) []uint16 {
	out := make([]uint16, status.SlotDeviceNameSlots)

	b := []byte(name)
	if len(b) > status.DeviceNameMaxChars {
		b = b[:status.DeviceNameMaxChars]
	}

	// sanitize to printable ASCII
	for i := 0; i < len(b); i++ {
		if b[i] < 0x20 || b[i] > 0x7E {
			b[i] = '?'
		}
	}

	for i := 0; i < status.DeviceNameMaxChars; i += 2 {
		var hi, lo byte
		if i < len(b) {
			hi = b[i]
		}
		if i+1 < len(b) {
			lo = b[i+1]
		}
		out[i/2] = uint16(hi)<<8 | uint16(lo)
	}

	return out
}
