// internal/telemetry/writer_test.go
package telemetry

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tamzrod/ecu-sentinel/internal/status"
)

type write struct {
	addr uint16
	regs []uint16
}

type fakeEndpoint struct {
	writes  []write
	failAll bool
	failAt  map[uint16]bool
}

func (f *fakeEndpoint) WriteRegisters(addr uint16, regs []uint16) error {
	if f.failAll || f.failAt[addr] {
		return errors.New("endpoint down")
	}
	cp := make([]uint16, len(regs))
	copy(cp, regs)
	f.writes = append(f.writes, write{addr: addr, regs: cp})
	return nil
}

func TestFirstWriteIsFullBlock(t *testing.T) {
	ep := &fakeEndpoint{}
	w, err := NewBlockWriter(Plan{BaseSlot: 2, DeviceName: "ECU-MAIN"}, ep)
	require.NoError(t, err)

	s := status.Snapshot{Health: status.HealthOK, TotalFaults: 1}
	require.NoError(t, w.WriteStatus(s))

	require.Len(t, ep.writes, 1)
	assert.Equal(t, uint16(2*status.SlotsPerBlock), ep.writes[0].addr)
	require.Len(t, ep.writes[0].regs, status.SlotsPerBlock)
	assert.Equal(t, status.HealthOK, ep.writes[0].regs[status.SlotHealthCode])
	assert.Equal(t, uint16(1), ep.writes[0].regs[status.SlotTotalFaults])

	// "EC" big-endian in the first name register.
	assert.Equal(t, uint16('E')<<8|uint16('C'), ep.writes[0].regs[status.SlotDeviceNameStart])
}

func TestChangedSlotsOnly(t *testing.T) {
	ep := &fakeEndpoint{}
	w, err := NewBlockWriter(Plan{BaseSlot: 0}, ep)
	require.NoError(t, err)

	s := status.Snapshot{Health: status.HealthOK}
	require.NoError(t, w.WriteStatus(s)) // full block
	ep.writes = nil

	// No change: no writes at all.
	require.NoError(t, w.WriteStatus(s))
	assert.Empty(t, ep.writes)

	// One slot changes: exactly one single-register write.
	s.ActiveFaults = 3
	require.NoError(t, w.WriteStatus(s))
	require.Len(t, ep.writes, 1)
	assert.Equal(t, uint16(status.SlotActiveFaults), ep.writes[0].addr)
	assert.Equal(t, []uint16{3}, ep.writes[0].regs)
}

func TestPartialFailureForcesFullReassert(t *testing.T) {
	ep := &fakeEndpoint{failAt: map[uint16]bool{}}
	w, err := NewBlockWriter(Plan{BaseSlot: 0}, ep)
	require.NoError(t, err)

	require.NoError(t, w.WriteStatus(status.Snapshot{Health: status.HealthOK}))
	ep.writes = nil

	// The health slot write fails.
	ep.failAt[status.SlotHealthCode] = true
	err = w.WriteStatus(status.Snapshot{Health: status.HealthDegraded})
	require.Error(t, err)

	// Next successful call re-asserts the whole block.
	ep.failAt[status.SlotHealthCode] = false
	ep.writes = nil
	require.NoError(t, w.WriteStatus(status.Snapshot{Health: status.HealthDegraded}))
	require.Len(t, ep.writes, 1)
	assert.Len(t, ep.writes[0].regs, status.SlotsPerBlock)
	assert.Equal(t, status.HealthDegraded, ep.writes[0].regs[status.SlotHealthCode])
}

func TestFullWriteFailureStaysFull(t *testing.T) {
	ep := &fakeEndpoint{failAll: true}
	w, err := NewBlockWriter(Plan{BaseSlot: 0}, ep)
	require.NoError(t, err)

	require.Error(t, w.WriteStatus(status.Snapshot{Health: status.HealthOK}))

	ep.failAll = false
	require.NoError(t, w.WriteStatus(status.Snapshot{Health: status.HealthOK}))
	require.Len(t, ep.writes, 1)
	assert.Len(t, ep.writes[0].regs, status.SlotsPerBlock)
}

func TestEncodeDeviceNameRegs(t *testing.T) {
	regs := encodeDeviceNameRegs("AB")
	require.Len(t, regs, status.SlotDeviceNameSlots)
	assert.Equal(t, uint16('A')<<8|uint16('B'), regs[0])
	assert.Equal(t, uint16(0), regs[1])

	// Truncated to 16 chars, non-printable sanitized.
	long := encodeDeviceNameRegs("0123456789ABCDEFXYZ")
	assert.Equal(t, uint16('E')<<8|uint16('F'), long[7])

	dirty := encodeDeviceNameRegs("A\x01B")
	assert.Equal(t, uint16('A')<<8|uint16('?'), dirty[0])
}
