package store

import (
	"sync"

	"github.com/utkarsh-1912/TradeLab/pkg/workflow/model"
)

type InMemoryStore struct {
	mu         sync.RWMutex
	events     []*model.MessageEvent
	byClOrdID  map[string][]*model.MessageEvent
	clOrdChain map[string]string // ClOrdID -> OrigClOrdID
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		byClOrdID:  make(map[string][]*model.MessageEvent),
		clOrdChain: make(map[string]string),
	}
}

func (s *InMemoryStore) AddEvent(ev *model.MessageEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.events = append(s.events, ev)
	s.byClOrdID[ev.ClOrdID] = append(s.byClOrdID[ev.ClOrdID], ev)
}

// TrackChain records the link between a replacement/cancel ClOrdID and the
// order it targets.
func (s *InMemoryStore) TrackChain(clOrdID, origClOrdID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if origClOrdID != "" {
		s.clOrdChain[clOrdID] = origClOrdID
	}
}

func (s *InMemoryStore) Events(clOrdID string) []*model.MessageEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]*model.MessageEvent(nil), s.byClOrdID[clOrdID]...)
}

func (s *InMemoryStore) AllEvents() []*model.MessageEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]*model.MessageEvent(nil), s.events...)
}

func (s *InMemoryStore) OrigClOrdID(clOrdID string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.clOrdChain[clOrdID]
}

// ReconstructChain walks backward to the original ClOrdID.
func (s *InMemoryStore) ReconstructChain(clOrdID string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var chain []string
	curr := clOrdID
	for curr != "" {
		chain = append(chain, curr)
		curr = s.clOrdChain[curr]
	}
	return chain
}
