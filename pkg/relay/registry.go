package relay

import (
	"sync"

	"github.com/gorilla/websocket"
)

// session is one connected party. Outbound frames go through the send
// channel so only the write pump touches the connection.
type session struct {
	id    string
	party string
	conn  *websocket.Conn
	send  chan []byte

	closeOnce sync.Once
}

func (s *session) close() {
	s.closeOnce.Do(func() {
		close(s.send)
	})
}

type registry struct {
	mu       sync.RWMutex
	sessions map[string]*session
}

func newRegistry() *registry {
	return &registry{sessions: make(map[string]*session)}
}

func (r *registry) add(s *session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if old, ok := r.sessions[s.id]; ok {
		old.close()
	}
	r.sessions[s.id] = s
}

func (r *registry) remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[id]; ok {
		s.close()
		delete(r.sessions, id)
	}
}

func (r *registry) get(id string) (*session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

// byParty returns sessions registered under the given party role, or all
// sessions when party is empty.
func (r *registry) byParty(party string) []*session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*session, 0, len(r.sessions))
	for _, s := range r.sessions {
		if party == "" || s.party == party {
			out = append(out, s)
		}
	}
	return out
}

func (r *registry) len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
