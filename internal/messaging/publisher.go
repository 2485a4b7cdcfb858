package messaging

import (
	"github.com/pixil98/go-arena/internal/game"
)

const subjectPrefix = "arena.conn."

// ConnSubject carries reliable frames for one connection.
func ConnSubject(conn game.ConnectionID) string {
	return subjectPrefix + string(conn)
}

// VolatileSubject carries best effort frames for one connection.
func VolatileSubject(conn game.ConnectionID) string {
	return ConnSubject(conn) + ".volatile"
}

// Publisher is the publishing side of a NATS connection.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// NatsPublisher delivers frames to individual connection subjects.
type NatsPublisher struct {
	server Publisher
}

// NewNatsPublisher wraps a NatsServer for per-connection message delivery.
func NewNatsPublisher(server Publisher) *NatsPublisher {
	return &NatsPublisher{server: server}
}

func (p *NatsPublisher) Send(conn game.ConnectionID, data []byte) error {
	return p.server.Publish(ConnSubject(conn), data)
}

func (p *NatsPublisher) SendVolatile(conn game.ConnectionID, data []byte) error {
	return p.server.Publish(VolatileSubject(conn), data)
}
