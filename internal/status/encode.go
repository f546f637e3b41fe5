// internal/status/encode.go
package status

// Encode converts a Snapshot into a full status block.
// Layout is protocol-locked.
// No IO. No side effects.
func Encode(s Snapshot) []uint16 {
	regs := make([]uint16, SlotsPerBlock)

	regs[SlotHealthCode] = s.Health
	regs[SlotActiveFaults] = s.ActiveFaults
	regs[SlotLastFaultCode] = s.LastFaultCode
	regs[SlotLastSeverity] = s.LastSeverity
	regs[SlotSecondsInFault] = s.SecondsInFault
	regs[SlotTotalFaults] = s.TotalFaults
	regs[SlotConfirmCount] = s.ConfirmCount
	regs[SlotLateConfirms] = s.LateConfirms

	return regs
}
