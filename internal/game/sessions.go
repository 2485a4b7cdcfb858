package game

import "slices"

// Sessions maps live players to the connection that controls them.
type Sessions struct {
	conns map[EntityID]ConnectionID
	order []EntityID
}

func NewSessions() *Sessions {
	return &Sessions{
		conns: make(map[EntityID]ConnectionID),
	}
}

// Register binds a player to a connection, replacing any earlier binding.
func (s *Sessions) Register(id EntityID, conn ConnectionID) {
	if _, ok := s.conns[id]; !ok {
		s.order = append(s.order, id)
	}
	s.conns[id] = conn
}

func (s *Sessions) Resolve(id EntityID) (ConnectionID, bool) {
	conn, ok := s.conns[id]
	return conn, ok
}

func (s *Sessions) Unregister(id EntityID) {
	if _, ok := s.conns[id]; !ok {
		return
	}
	delete(s.conns, id)
	s.order = slices.DeleteFunc(s.order, func(o EntityID) bool { return o == id })
}

// ForEach visits sessions in the order they registered.
func (s *Sessions) ForEach(fn func(EntityID, ConnectionID)) {
	for _, id := range s.order {
		fn(id, s.conns[id])
	}
}

func (s *Sessions) Len() int {
	return len(s.order)
}
