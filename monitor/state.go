package monitor

// State remembers the last observed text. It is owned by a single Monitor goroutine.
type State struct {
	lastSeen string
}

// HasChanged reports whether text differs from the last committed text. The comparison is exact.
func (s *State) HasChanged(text string) bool {
	return text != s.lastSeen
}

// Commit records text as seen, whether or not it produced a result.
func (s *State) Commit(text string) {
	s.lastSeen = text
}

// LastSeen the last committed text
func (s *State) LastSeen() string {
	return s.lastSeen
}
