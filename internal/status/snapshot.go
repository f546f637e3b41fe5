// internal/status/snapshot.go
package status

// Snapshot represents exactly what the telemetry writer is allowed to
// deliver. It contains no logic and no memory of the past beyond
// current state.
type Snapshot struct {
	Health         uint16
	ActiveFaults   uint16
	LastFaultCode  uint16
	LastSeverity   uint16
	SecondsInFault uint16
	TotalFaults    uint16
	ConfirmCount   uint16
	LateConfirms   uint16
}
