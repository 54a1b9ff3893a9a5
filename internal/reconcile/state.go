package reconcile

import (
	"sync"

	"github.com/nbportfolio/site/internal/content"
)

// State is the working copy of the content document plus the views that
// render it. Reads and writes are race-free, but overlapping saves are not
// serialized: whichever finishes last replaces the copy.
type State struct {
	mu     sync.RWMutex
	doc    content.Document
	origin string
	subs   map[int]func(content.Document)
	nextID int
}

func NewState() *State {
	return &State{doc: content.Document{}, subs: map[int]func(content.Document){}}
}

// Working returns a copy of the current document.
func (s *State) Working() content.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc.Clone()
}

// Origin names the source the working copy came from.
func (s *State) Origin() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.origin
}

// Subscribe registers fn to be called synchronously after every replacement.
// The returned func removes it.
func (s *State) Subscribe(fn func(content.Document)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

func (s *State) replace(doc content.Document, origin string) {
	s.mu.Lock()
	s.doc = doc.Clone()
	s.origin = origin
	subs := make([]func(content.Document), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()
	for _, fn := range subs {
		fn(doc.Clone())
	}
}
