package testutil

import "sync"

// ScriptedSource replays a fixed script of integers as random draws.
//
// Each IntN(n) call returns the next script value reduced modulo n. The
// script repeats once exhausted, and an empty script always yields 0. With
// an all-zero script every Fisher–Yates shuffle rotates its input left by
// one position, which makes shuffle outcomes easy to predict in tests.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type ScriptedSource struct {
	mu     sync.Mutex
	script []int
	idx    int
	calls  int
}

// NewScriptedSource creates a source replaying values in order.
func NewScriptedSource(values ...int) *ScriptedSource {
	return &ScriptedSource{script: values}
}

// NewZeroSource creates a source that always draws 0.
func NewZeroSource() *ScriptedSource {
	return NewScriptedSource()
}

// IntN returns the next scripted value in [0, n).
// Panics if n <= 0, matching math/rand/v2.
func (s *ScriptedSource) IntN(n int) int {
	if n <= 0 {
		panic("ScriptedSource: invalid argument to IntN")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls++
	if len(s.script) == 0 {
		return 0
	}
	v := s.script[s.idx%len(s.script)]
	s.idx++
	if v < 0 {
		v = -v
	}
	return v % n
}

// Calls returns how many draws have been made.
func (s *ScriptedSource) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// Reset rewinds the script to its first value and clears the call count.
func (s *ScriptedSource) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.idx = 0
	s.calls = 0
}
