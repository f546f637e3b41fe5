// internal/fault/notifier.go
package fault

// Notifier receives synchronous notifications for every newly raised
// fault and every clear. Implementations must return promptly:
// notifications can originate from the trap path.
type Notifier interface {
	FaultRaised(Record)
	FaultCleared(Code)
}

// NopNotifier discards all notifications.
type NopNotifier struct{}

func (NopNotifier) FaultRaised(Record) {}
func (NopNotifier) FaultCleared(Code)  {}
