// internal/faultlog/log.go
package faultlog

import (
	"fmt"
	"sync/atomic"

	"github.com/tamzrod/ecu-sentinel/internal/fault"
)

// Capacity limits. The reference range for persistent fault storage.
const (
	MinCapacity     = 16
	DefaultCapacity = 32
	MaxCapacity     = 64
)

// Log is a fixed-capacity, checksum-protected ring of fault records.
//
// Append is safe to call from the trap domain while the periodic
// domain appends or reads: each producer reserves its slot with a
// single atomic increment of the monotonic sequence, so concurrent
// appends land in distinct slots. A record read before its slot write
// completes fails its checksum and surfaces as a corruption marker
// instead of stale data.
type Log struct {
	entries []fault.Record
	seq     atomic.Uint32 // total appended, monotonic, independent of capacity
}

// New builds a log with fixed capacity. Capacity 0 selects the default.
func New(capacity int) (*Log, error) {
	if capacity == 0 {
		capacity = DefaultCapacity
	}
	if capacity < MinCapacity || capacity > MaxCapacity {
		return nil, fmt.Errorf("faultlog: capacity %d out of range [%d,%d]", capacity, MinCapacity, MaxCapacity)
	}
	return &Log{entries: make([]fault.Record, capacity)}, nil
}

// Append stores a record, overwriting the oldest slot once full.
// It never fails, never blocks, and performs no allocation.
// The record's checksum is stamped here; callers hand in unsealed records.
func (l *Log) Append(r fault.Record) {
	// Reserve the slot first. Two producers racing here get distinct
	// slots; a reader that selects a slot before its write completes
	// detects it by checksum.
	seq := l.seq.Add(1) - 1
	idx := int(seq) % len(l.entries)

	r.Seal()
	l.entries[idx] = r
}

// Read returns the most recent min(max, stored) records in chronological
// order, oldest of the selected window first. Records failing checksum
// verification are substituted with a corruption marker; nothing is
// silently dropped.
func (l *Log) Read(max int) []fault.Record {
	if max <= 0 {
		return nil
	}

	seq := l.seq.Load()
	stored := int(seq)
	if stored > len(l.entries) {
		stored = len(l.entries)
	}
	if max > stored {
		max = stored
	}

	out := make([]fault.Record, max)
	for i := 0; i < max; i++ {
		idx := (int(seq) - max + i) % len(l.entries)
		if idx < 0 {
			idx += len(l.entries)
		}
		rec := l.entries[idx]
		if !rec.Verify() {
			rec = corruptionMarker(uint16(idx))
		}
		out[i] = rec
	}
	return out
}

// Clear invalidates every entry and resets the sequence.
// Operator action only. Never called automatically.
func (l *Log) Clear() {
	for i := range l.entries {
		l.entries[i].Checksum = 0
	}
	l.seq.Store(0)
}

// Appended returns the total number of records ever appended.
func (l *Log) Appended() uint32 {
	return l.seq.Load()
}

// Stored returns how many records are currently retrievable.
func (l *Log) Stored() int {
	stored := int(l.seq.Load())
	if stored > len(l.entries) {
		stored = len(l.entries)
	}
	return stored
}

// Capacity returns the fixed slot count.
func (l *Log) Capacity() int {
	return len(l.entries)
}

// corruptPoison fills the context of a corruption marker so it can never
// be mistaken for a captured register set.
const corruptPoison = 0xDEADBEEF

// corruptionMarker is the record substituted for an entry that failed
// checksum verification. Data carries the slot index.
func corruptionMarker(slot uint16) fault.Record {
	return fault.Record{
		TimestampMS: 0,
		Code:        fault.CodeLogCorrupt,
		Severity:    fault.SeverityError,
		Data:        slot,
		HasContext:  true,
		Context:     fault.CPUContext{PC: corruptPoison},
	}
}
