package main

import (
	"github.com/sirupsen/logrus"
)

// releaseFunc destroys one owned handle. Driver destruction calls report
// nothing, so there is no error to propagate.
type releaseFunc func()

type releaseEntry struct {
	name    string
	release releaseFunc
}

// releaseStack records owned handles in acquisition order and destroys them
// in reverse. Every handle on the stack was constructed from a handle below
// it, so draining top-down always releases dependents before the handles
// they depend on.
type releaseStack struct {
	entries []releaseEntry
}

func (s *releaseStack) Push(name string, release releaseFunc) {
	s.entries = append(s.entries, releaseEntry{name: name, release: release})
}

func (s *releaseStack) Len() int {
	return len(s.entries)
}

// Drain pops and runs every entry, newest first. Draining an empty or
// already-drained stack is a no-op.
func (s *releaseStack) Drain(log logrus.FieldLogger) {
	for i := len(s.entries) - 1; i >= 0; i-- {
		if log != nil {
			log.WithField("handle", s.entries[i].name).Debug("releasing")
		}
		s.entries[i].release()
	}
	s.entries = nil
}
