package panel

import "sync/atomic"

// store keeps the most recent snapshot behind a single pointer swap, so all
// five fields become visible to readers together. Per-field atomics would
// allow a reader to mix values from two cycles.
type store struct {
	current atomic.Pointer[Readings]
}

func (s *store) publish(r Readings) {
	s.current.Store(&r)
}

// snapshot never blocks; before the first publish it returns zero readings.
func (s *store) snapshot() Readings {
	cur := s.current.Load()
	if cur == nil {
		return Readings{}
	}
	return *cur
}
