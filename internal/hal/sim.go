// internal/hal/sim.go
package hal

import (
	"errors"
	"sync"
	"time"
)

// SimSensors is a settable Sensors implementation for the daemon's
// bench mode and for tests. Readings hold until changed.
type SimSensors struct {
	mu         sync.Mutex
	voltageMV  uint16
	tempC      int16
	driftPPM   int32
	voltageErr error
	tempErr    error
	clockErr   error
	ramErr     error
}

// NewSimSensors starts at 12V-nominal, room-temperature readings.
func NewSimSensors() *SimSensors {
	return &SimSensors{voltageMV: 13800, tempC: 25}
}

func (s *SimSensors) VoltageMV() (uint16, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.voltageMV, s.voltageErr
}

func (s *SimSensors) TemperatureC() (int16, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tempC, s.tempErr
}

func (s *SimSensors) ClockDriftPPM() (int32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.driftPPM, s.clockErr
}

func (s *SimSensors) RAMTest(pattern byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ramErr
}

func (s *SimSensors) SetVoltageMV(v uint16) {
	s.mu.Lock()
	s.voltageMV = v
	s.mu.Unlock()
}

func (s *SimSensors) SetTemperatureC(t int16) {
	s.mu.Lock()
	s.tempC = t
	s.mu.Unlock()
}

func (s *SimSensors) SetClockDriftPPM(d int32) {
	s.mu.Lock()
	s.driftPPM = d
	s.mu.Unlock()
}

func (s *SimSensors) SetVoltageErr(err error) {
	s.mu.Lock()
	s.voltageErr = err
	s.mu.Unlock()
}

func (s *SimSensors) SetTemperatureErr(err error) {
	s.mu.Lock()
	s.tempErr = err
	s.mu.Unlock()
}

func (s *SimSensors) SetClockErr(err error) {
	s.mu.Lock()
	s.clockErr = err
	s.mu.Unlock()
}

func (s *SimSensors) SetRAMErr(err error) {
	s.mu.Lock()
	s.ramErr = err
	s.mu.Unlock()
}

// SimFaultStatus records the last cleared status words.
type SimFaultStatus struct {
	mu          sync.Mutex
	clearedCFSR uint32
	clearedHFSR uint32
	clears      int
}

func (s *SimFaultStatus) ClearFaultStatus(cfsr, hfsr uint32) {
	s.mu.Lock()
	s.clearedCFSR = cfsr
	s.clearedHFSR = hfsr
	s.clears++
	s.mu.Unlock()
}

func (s *SimFaultStatus) LastCleared() (cfsr, hfsr uint32, clears int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clearedCFSR, s.clearedHFSR, s.clears
}

// SimTimer is a software backstop timer. Arm starts the countdown;
// Kick restarts it; expiry fires the callback once, exactly like the
// hardware watchdog interrupt.
type SimTimer struct {
	mu        sync.Mutex
	timeout   time.Duration
	timer     *time.Timer
	onExpire  func()
	armed     bool
	kickCount int
}

func NewSimTimer(onExpire func()) *SimTimer {
	return &SimTimer{onExpire: onExpire}
}

func (t *SimTimer) Arm(timeout time.Duration) error {
	if timeout <= 0 {
		return errors.New("sim timer: timeout must be > 0")
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.armed {
		return errors.New("sim timer: already armed")
	}
	t.timeout = timeout
	t.armed = true
	if t.onExpire != nil {
		t.timer = time.AfterFunc(timeout, t.onExpire)
	}
	return nil
}

func (t *SimTimer) Kick() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.kickCount++
	if t.timer != nil {
		t.timer.Reset(t.timeout)
	}
}

// Disarm stops the countdown. Test and shutdown use only; real
// hardware has no disarm.
func (t *SimTimer) Disarm() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer != nil {
		t.timer.Stop()
	}
	t.armed = false
}

func (t *SimTimer) Kicks() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.kickCount
}

// SimClock is a manually advanced Clock for deterministic timing tests.
type SimClock struct {
	mu sync.Mutex
	ms uint32
}

func (c *SimClock) NowMS() uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ms
}

func (c *SimClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.ms += uint32(d / time.Millisecond)
	c.mu.Unlock()
}

func (c *SimClock) Set(ms uint32) {
	c.mu.Lock()
	c.ms = ms
	c.mu.Unlock()
}
