package cli

import "sync"

// Selection collects the paths picked for the next upload. Take hands them
// over and empties the selection, so picking the same path again later is a
// new, independent submission.
type Selection struct {
	mu    sync.Mutex
	paths []string
}

func (s *Selection) Add(paths ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paths = append(s.paths, paths...)
}

func (s *Selection) Take() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.paths
	s.paths = nil
	return out
}

func (s *Selection) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.paths)
}
