// internal/hal/hal.go
package hal

import "time"

// The monitor core depends on these narrow contracts only.
// Register-level programming lives behind them, out of scope.

// Sensors reads the ECU health inputs.
type Sensors interface {
	VoltageMV() (uint16, error)
	TemperatureC() (int16, error)
	ClockDriftPPM() (int32, error)

	// RAMTest writes the pattern through the scratch region and reads
	// it back. A non-nil error means the readback mismatched.
	RAMTest(pattern byte) error
}

// FaultStatus is the hardware fault-status interface.
// Clearing the decoded bits re-arms detection of future faults.
type FaultStatus interface {
	ClearFaultStatus(cfsr, hfsr uint32)
}

// Timer is the independent hardware liveness timer.
// Once armed it resets the system unless kicked within the timeout.
type Timer interface {
	Arm(timeout time.Duration) error
	Kick()
}

// Clock supplies millisecond timestamps. Wraps at uint32 like the
// hardware tick counter; elapsed math relies on unsigned wraparound.
type Clock interface {
	NowMS() uint32
}

// SystemClock is the production Clock, anchored at process start.
type SystemClock struct {
	start time.Time
}

func NewSystemClock() *SystemClock {
	return &SystemClock{start: time.Now()}
}

func (c *SystemClock) NowMS() uint32 {
	return uint32(time.Since(c.start) / time.Millisecond)
}
