// internal/escalate/escalate_test.go
package escalate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSinks struct {
	safeCalls    int
	safeReason   Reason
	degradeCalls int
}

func (f *fakeSinks) EnterSafeState(r Reason) {
	f.safeCalls++
	f.safeReason = r
}

func (f *fakeSinks) EnterDegradedMode(Reason) {
	f.degradeCalls++
}

func TestDecide(t *testing.T) {
	assert.Equal(t, ActionResume, Decide(ClassRecoverable))
	assert.Equal(t, ActionDegrade, Decide(ClassDegraded))
	assert.Equal(t, ActionSafeState, Decide(ClassFatal))
}

// Unknown classifications must never resume or degrade.
func TestDecideUnknownIsFailSafe(t *testing.T) {
	assert.Equal(t, ActionSafeState, Decide(Class(7)))
	assert.Equal(t, ActionSafeState, Decide(Class(255)))
}

func TestControllerRequiresSinks(t *testing.T) {
	f := &fakeSinks{}
	_, err := NewController(nil, f)
	assert.Error(t, err)
	_, err = NewController(f, nil)
	assert.Error(t, err)
}

func TestEscalateDegrade(t *testing.T) {
	f := &fakeSinks{}
	c, err := NewController(f, f)
	require.NoError(t, err)

	act := c.Escalate(ClassDegraded, ReasonBusFault)
	assert.Equal(t, ActionDegrade, act.Kind)
	assert.Equal(t, 1, f.degradeCalls)
	assert.Equal(t, 0, f.safeCalls)
	assert.False(t, c.SafeStated())
}

func TestSafeStateIsTerminal(t *testing.T) {
	f := &fakeSinks{}
	c, err := NewController(f, f)
	require.NoError(t, err)

	act := c.Escalate(ClassFatal, ReasonWatchdogTimeout)
	assert.Equal(t, ActionSafeState, act.Kind)
	require.True(t, c.SafeStated())
	assert.Equal(t, ReasonWatchdogTimeout, f.safeReason)

	// Every later decision stays safe-state; the sink fires once.
	for _, class := range []Class{ClassRecoverable, ClassDegraded, ClassFatal} {
		act := c.Escalate(class, ReasonCPUFault)
		assert.Equal(t, ActionSafeState, act.Kind)
	}
	assert.Equal(t, 1, f.safeCalls)
	assert.Equal(t, 0, f.degradeCalls)
}
