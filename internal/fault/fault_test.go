// internal/fault/fault_test.go
package fault

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodeCategories(t *testing.T) {
	assert.Equal(t, CategoryVoltage, CodeOvervoltage.Category())
	assert.Equal(t, CategoryTemperature, CodeOvertempShutdown.Category())
	assert.Equal(t, CategoryClock, CodeClockLost.Category())
	assert.Equal(t, CategoryMemory, CodeRAMError.Category())
	assert.Equal(t, CategoryWatchdog, CodeWatchdogTimeout.Category())
	assert.Equal(t, CategoryCommunication, CodeCANBusOff.Category())
	assert.Equal(t, CategoryCPUTrap, CodeDivideByZero.Category())
	assert.Equal(t, CategoryLog, CodeLogCorrupt.Category())
}

func TestCodeUniqueness(t *testing.T) {
	codes := []Code{
		CodeUndervoltage, CodeOvervoltage, CodeVoltageUnstable,
		CodeOvertempWarning, CodeOvertempShutdown, CodeUndertempWarning,
		CodeUndertempShutdown, CodeTempSensorFault,
		CodeClockDrift, CodeClockLost,
		CodeRAMError, CodeFlashError, CodeStackOverflow,
		CodeWatchdogReset, CodeWatchdogTimeout, CodeWatchdogLateConfirm,
		CodeCANBusOff, CodeCANErrorPassive, CodeLINNoResponse,
		CodeMemAccessViolation, CodeInstrBusError, CodeBusError,
		CodeUsageFault, CodeDivideByZero, CodeTrapUnknown,
		CodeLogCorrupt,
	}

	seen := make(map[Code]bool)
	for _, c := range codes {
		require.False(t, seen[c], "duplicate code 0x%04X", uint16(c))
		seen[c] = true
	}
}

func TestSeverityOrder(t *testing.T) {
	require.True(t, SeverityInfo < SeverityWarning)
	require.True(t, SeverityWarning < SeverityError)
	require.True(t, SeverityError < SeverityCritical)
}

func TestRecordChecksum(t *testing.T) {
	rec := Record{
		TimestampMS: 1234,
		Code:        CodeOvervoltage,
		Severity:    SeverityCritical,
		Data:        16500,
	}
	rec.Seal()
	require.True(t, rec.Verify())

	// Any field mutation must break verification.
	tampered := rec
	tampered.Data++
	assert.False(t, tampered.Verify())

	tampered = rec
	tampered.Severity = SeverityInfo
	assert.False(t, tampered.Verify())

	tampered = rec
	tampered.Context.PC = 0x1000
	assert.False(t, tampered.Verify())
}

func TestRecordChecksumCoversContext(t *testing.T) {
	rec := Record{
		Code:       CodeBusError,
		Severity:   SeverityError,
		HasContext: true,
		Context:    CPUContext{PC: 0x0800_1000, CFSR: 1 << 9},
	}
	rec.Seal()
	require.True(t, rec.Verify())

	rec.Context.CFSR = 0
	assert.False(t, rec.Verify())
}

func TestActiveSetAddAcknowledge(t *testing.T) {
	var s ActiveSet

	require.True(t, s.Add(CodeOvervoltage))
	require.True(t, s.Add(CodeOvertempWarning))
	require.True(t, s.Add(CodeOvervoltage)) // duplicate is a no-op
	assert.Equal(t, 2, s.Count())
	assert.True(t, s.Has(CodeOvervoltage))

	removed := s.Acknowledge(CodeOvervoltage)
	assert.Equal(t, 1, removed)
	assert.False(t, s.Has(CodeOvervoltage))
	assert.Equal(t, 1, s.Count())
}

func TestActiveSetWildcard(t *testing.T) {
	var s ActiveSet
	s.Add(CodeOvervoltage)
	s.Add(CodeClockDrift)
	s.Add(CodeRAMError)

	removed := s.Acknowledge(CodeNone)
	assert.Equal(t, 3, removed)
	assert.Equal(t, 0, s.Count())
}

func TestActiveSetCapacity(t *testing.T) {
	var s ActiveSet
	for i := 0; i < MaxActive; i++ {
		require.True(t, s.Add(Code(0x0600+i)))
	}
	assert.False(t, s.Add(CodeOvervoltage))
	assert.Equal(t, MaxActive, s.Count())
}
