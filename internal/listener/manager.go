package listener

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/pixil98/go-arena/internal/driver"
	"github.com/pixil98/go-arena/internal/game"
	"github.com/pixil98/go-arena/internal/messaging"
	"github.com/pixil98/go-arena/internal/metrics"
	"github.com/pixil98/go-arena/internal/protocol"
)

const (
	DefaultQueueSize    = 64
	DefaultPingInterval = 30 * time.Second
	writeWait           = 5 * time.Second
)

var ErrUnknownMessage = errors.New("unknown message type")

// Arena is the game side of a session.
type Arena interface {
	Connect(ctx context.Context, conn game.ConnectionID) (game.EntityID, error)
	Nickname(ctx context.Context, id game.EntityID, raw string) error
	Input(ctx context.Context, id game.EntityID, code string) error
	Disconnect(ctx context.Context, id game.EntityID) error
}

// Subscriber delivers messages published to a subject.
type Subscriber interface {
	Subscribe(subject string, handler func(data []byte)) (func(), error)
}

// Conn is a message oriented client connection. *websocket.Conn satisfies it.
type Conn interface {
	ReadMessage() (int, []byte, error)
	WriteMessage(messageType int, data []byte) error
	WriteControl(messageType int, data []byte, deadline time.Time) error
	Close() error
}

type ConnectionManager struct {
	arena        Arena
	subscriber   Subscriber
	codec        protocol.Codec
	recorder     *metrics.Recorder
	queueSize    int
	pingInterval time.Duration
	stallTimeout time.Duration
}

func NewConnectionManager(arena Arena, subscriber Subscriber, opts ...ConnectionManagerOpt) *ConnectionManager {
	m := &ConnectionManager{
		arena:        arena,
		subscriber:   subscriber,
		codec:        protocol.JSON{},
		queueSize:    DefaultQueueSize,
		pingInterval: DefaultPingInterval,
		stallTimeout: writeWait,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// AcceptConnection runs a session and closes the connection when it ends.
func (m *ConnectionManager) AcceptConnection(ctx context.Context, conn Conn) {
	if err := m.RunSession(ctx, conn); err != nil {
		slog.WarnContext(ctx, "player session", "error", err)
	}
	if err := conn.Close(); err != nil {
		slog.DebugContext(ctx, "closing connection", "error", err)
	}
}

// RunSession joins the arena for conn and pumps frames both ways until the
// connection fails, the session is kicked or ctx is canceled.
func (m *ConnectionManager) RunSession(ctx context.Context, conn Conn) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	connID := game.ConnectionID(uuid.NewString())
	s := &session{
		conn:     conn,
		cancel:   cancel,
		reliable: make(chan []byte, m.queueSize),
		volatile: make(chan []byte, m.queueSize),
	}

	unsubReliable, err := m.subscriber.Subscribe(messaging.ConnSubject(connID), func(data []byte) {
		m.enqueueReliable(ctx, s, connID, data)
	})
	if err != nil {
		return fmt.Errorf("subscribing connection %s: %w", connID, err)
	}
	defer unsubReliable()

	unsubVolatile, err := m.subscriber.Subscribe(messaging.VolatileSubject(connID), func(data []byte) {
		select {
		case s.volatile <- data:
		default:
			m.recorder.VolatileDropped()
		}
	})
	if err != nil {
		return fmt.Errorf("subscribing connection %s: %w", connID, err)
	}
	defer unsubVolatile()

	// The writer runs before joining so the join snapshot drains as it is
	// published.
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		m.writeLoop(ctx, s)
	}()
	defer func() {
		cancel()
		wg.Wait()
	}()

	id, err := m.arena.Connect(ctx, connID)
	if err != nil {
		return fmt.Errorf("joining arena: %w", err)
	}
	defer m.leave(ctx, id)

	for {
		_, frame, err := conn.ReadMessage()
		if err != nil {
			s.kick()
			if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("reading frame: %w", err)
		}

		err = m.handleFrame(ctx, id, frame)
		switch {
		case err == nil:
		case errors.Is(err, driver.ErrStopped), ctx.Err() != nil:
			s.kick()
			return nil
		default:
			slog.DebugContext(ctx, "dropping frame", "player", id, "error", err)
		}
	}
}

func (m *ConnectionManager) leave(ctx context.Context, id game.EntityID) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), writeWait)
	defer cancel()
	if err := m.arena.Disconnect(ctx, id); err != nil && !errors.Is(err, driver.ErrStopped) {
		slog.WarnContext(ctx, "leaving arena", "player", id, "error", err)
	}
}

func (m *ConnectionManager) handleFrame(ctx context.Context, id game.EntityID, frame []byte) error {
	in, err := m.codec.Decode(frame)
	if err != nil {
		return err
	}

	switch in.Type {
	case protocol.MsgNickname:
		nick, err := protocol.DecodePayload[string](in)
		if err != nil {
			return err
		}
		return m.arena.Nickname(ctx, id, nick)
	case protocol.MsgInput:
		code, err := protocol.DecodePayload[string](in)
		if err != nil {
			return err
		}
		return m.arena.Input(ctx, id, code)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMessage, in.Type)
	}
}

// enqueueReliable queues a frame that must not be lost. A queue that stays
// full for the stall timeout means the client is not keeping up, and the
// session is kicked.
func (m *ConnectionManager) enqueueReliable(ctx context.Context, s *session, connID game.ConnectionID, data []byte) {
	select {
	case s.reliable <- data:
		return
	default:
	}

	stall := time.NewTimer(m.stallTimeout)
	defer stall.Stop()

	select {
	case s.reliable <- data:
	case <-ctx.Done():
	case <-stall.C:
		if s.kicked.CompareAndSwap(false, true) {
			slog.WarnContext(ctx, "outbound queue stalled, kicking session", "conn", connID)
			m.recorder.Kicked()
		}
		s.kick()
	}
}

// writeLoop sends queued frames and pings. Reliable frames always go out
// before volatile ones.
func (m *ConnectionManager) writeLoop(ctx context.Context, s *session) {
	messageType := websocket.TextMessage
	if m.codec.Binary() {
		messageType = websocket.BinaryMessage
	}

	ping := time.NewTicker(m.pingInterval)
	defer ping.Stop()

	flush := func() error {
		for {
			select {
			case data := <-s.reliable:
				if err := s.conn.WriteMessage(messageType, data); err != nil {
					return err
				}
			default:
				return nil
			}
		}
	}

	for {
		err := flush()
		if err == nil {
			select {
			case <-ctx.Done():
				s.close()
				return
			case data := <-s.reliable:
				err = s.conn.WriteMessage(messageType, data)
			case data := <-s.volatile:
				if err = flush(); err == nil {
					err = s.conn.WriteMessage(messageType, data)
				}
			case <-ping.C:
				err = s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
			}
		}
		if err != nil {
			slog.DebugContext(ctx, "writing frame", "error", err)
			s.kick()
			return
		}
	}
}

type session struct {
	conn     Conn
	cancel   context.CancelFunc
	reliable chan []byte
	volatile chan []byte

	kicked    atomic.Bool
	closeOnce sync.Once
}

// kick ends the session and unblocks any pending read or write.
func (s *session) kick() {
	s.cancel()
	s.close()
}

func (s *session) close() {
	s.closeOnce.Do(func() {
		_ = s.conn.Close()
	})
}
