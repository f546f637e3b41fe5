// internal/fault/active.go
package fault

import "sync"

// MaxActive is the fixed capacity of the active fault set.
const MaxActive = 32

// ActiveSet holds the currently asserted fault codes.
// It is distinct from the historical log: a fault may be logged
// historically yet no longer active.
// Entries leave by acknowledgment, recovery, or supervisor restart.
type ActiveSet struct {
	mu    sync.Mutex
	codes [MaxActive]Code
	n     int
}

// Add asserts a code. Duplicate adds are no-ops.
// Returns false when the set is full and the code was not recorded.
func (s *ActiveSet) Add(code Code) bool {
	if code == CodeNone {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := 0; i < s.n; i++ {
		if s.codes[i] == code {
			return true
		}
	}
	if s.n >= MaxActive {
		return false
	}
	s.codes[s.n] = code
	s.n++
	return true
}

// Acknowledge removes matching entries and returns how many were removed.
// CodeNone is the wildcard: it clears the whole set.
// History is never touched.
func (s *ActiveSet) Acknowledge(code Code) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if code == CodeNone {
		removed := s.n
		s.n = 0
		return removed
	}

	removed := 0
	w := 0
	for i := 0; i < s.n; i++ {
		if s.codes[i] == code {
			removed++
			continue
		}
		s.codes[w] = s.codes[i]
		w++
	}
	s.n = w
	return removed
}

// Has reports whether a code is currently asserted.
func (s *ActiveSet) Has(code Code) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := 0; i < s.n; i++ {
		if s.codes[i] == code {
			return true
		}
	}
	return false
}

// Count returns the number of asserted codes.
func (s *ActiveSet) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.n
}
