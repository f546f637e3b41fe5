// internal/faultlog/log_test.go
package faultlog

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tamzrod/ecu-sentinel/internal/fault"
)

func rec(ts uint32) fault.Record {
	return fault.Record{
		TimestampMS: ts,
		Code:        fault.CodeOvervoltage,
		Severity:    fault.SeverityWarning,
		Data:        uint16(ts),
	}
}

func TestNewCapacityRange(t *testing.T) {
	l, err := New(0)
	require.NoError(t, err)
	assert.Equal(t, DefaultCapacity, l.Capacity())

	_, err = New(8)
	assert.Error(t, err)
	_, err = New(128)
	assert.Error(t, err)

	l, err = New(16)
	require.NoError(t, err)
	assert.Equal(t, 16, l.Capacity())
}

func TestAppendRead(t *testing.T) {
	l, err := New(16)
	require.NoError(t, err)

	for i := uint32(1); i <= 5; i++ {
		l.Append(rec(i))
	}

	out := l.Read(3)
	require.Len(t, out, 3)
	// Most recent 3, chronological: 3, 4, 5.
	assert.Equal(t, uint32(3), out[0].TimestampMS)
	assert.Equal(t, uint32(4), out[1].TimestampMS)
	assert.Equal(t, uint32(5), out[2].TimestampMS)
}

func TestWraparoundKeepsNewest(t *testing.T) {
	l, err := New(16)
	require.NoError(t, err)

	// Append far past capacity.
	for i := uint32(1); i <= 50; i++ {
		l.Append(rec(i))
	}

	out := l.Read(l.Capacity())
	require.Len(t, out, 16)
	for i, r := range out {
		assert.Equal(t, uint32(35+i), r.TimestampMS, "index %d", i)
	}
	assert.Equal(t, uint32(50), l.Appended())
	assert.Equal(t, 16, l.Stored())
}

func TestReadMoreThanStored(t *testing.T) {
	l, err := New(16)
	require.NoError(t, err)
	l.Append(rec(1))
	l.Append(rec(2))

	out := l.Read(100)
	require.Len(t, out, 2)
	assert.Equal(t, uint32(1), out[0].TimestampMS)

	assert.Nil(t, l.Read(0))
}

func TestCorruptedEntrySurfacesAsMarker(t *testing.T) {
	l, err := New(16)
	require.NoError(t, err)
	for i := uint32(1); i <= 4; i++ {
		l.Append(rec(i))
	}

	// Flip a stored byte behind the log's back.
	l.entries[2].Data ^= 0xFFFF

	out := l.Read(4)
	require.Len(t, out, 4)
	assert.Equal(t, fault.CodeLogCorrupt, out[2].Code)
	assert.Equal(t, uint32(corruptPoison), out[2].Context.PC)

	// Neighbors are untouched and valid.
	assert.Equal(t, fault.CodeOvervoltage, out[1].Code)
	assert.Equal(t, fault.CodeOvervoltage, out[3].Code)
}

func TestClear(t *testing.T) {
	l, err := New(16)
	require.NoError(t, err)
	for i := uint32(1); i <= 10; i++ {
		l.Append(rec(i))
	}

	l.Clear()
	assert.Equal(t, uint32(0), l.Appended())
	assert.Equal(t, 0, l.Stored())
	assert.Empty(t, l.Read(16))
}

// Two producers appending concurrently must each get their own slot:
// no record may be silently lost to a shared index.
func TestConcurrentAppendersLoseNothing(t *testing.T) {
	l, err := New(64)
	require.NoError(t, err)

	const perProducer = 16
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(2)

	appendRange := func(base uint32) {
		defer wg.Done()
		<-start
		for i := uint32(0); i < perProducer; i++ {
			l.Append(rec(base + i))
		}
	}
	go appendRange(100) // periodic domain
	go appendRange(200) // timeout path
	close(start)
	wg.Wait()

	require.Equal(t, uint32(2*perProducer), l.Appended())

	seen := make(map[uint16]bool)
	for _, r := range l.Read(l.Capacity()) {
		require.NotEqual(t, fault.CodeLogCorrupt, r.Code)
		seen[r.Data] = true
	}
	for i := uint16(0); i < perProducer; i++ {
		assert.True(t, seen[100+i], "record %d lost", 100+i)
		assert.True(t, seen[200+i], "record %d lost", 200+i)
	}
}

// Appends racing reads must never yield a record that is neither valid
// nor a corruption marker.
func TestConcurrentAppendRead(t *testing.T) {
	l, err := New(16)
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		for i := uint32(0); i < 2000; i++ {
			l.Append(rec(i))
		}
	}()

	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			for _, r := range l.Read(16) {
				if r.Code != fault.CodeOvervoltage && r.Code != fault.CodeLogCorrupt {
					t.Errorf("unexpected code 0x%04X", uint16(r.Code))
					return
				}
			}
		}
	}()

	wg.Wait()
}
