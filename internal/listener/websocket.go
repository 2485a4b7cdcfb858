package listener

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
)

const (
	DefaultPath      = "/ws"
	DefaultReadLimit = 1024
)

type WebsocketListener struct {
	addr      string
	path      string
	readLimit int64
	ready     func(context.Context) error
	cm        *ConnectionManager
	upgrader  websocket.Upgrader
}

func NewWebsocketListener(addr string, cm *ConnectionManager, opts ...WebsocketListenerOpt) *WebsocketListener {
	l := &WebsocketListener{
		addr:      addr,
		path:      DefaultPath,
		readLimit: DefaultReadLimit,
		cm:        cm,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

func (l *WebsocketListener) Start(ctx context.Context) error {
	if l.ready != nil {
		if err := l.ready(ctx); err != nil {
			return fmt.Errorf("waiting for transport: %w", err)
		}
	}

	ln, err := net.Listen("tcp", l.addr)
	if err != nil {
		if errors.Is(err, syscall.EADDRINUSE) {
			return fmt.Errorf("address %s is already in use (another server running?)", l.addr)
		}
		return fmt.Errorf("listening on %s: %w", l.addr, err)
	}

	// Hijacked connections outlive http.Server.Shutdown, so sessions get
	// their own context that is canceled on stop.
	connCtx, cancelConns := context.WithCancel(context.WithoutCancel(ctx))
	h := &wsHandler{
		listener: l,
		connCtx:  connCtx,
	}

	mux := http.NewServeMux()
	mux.Handle(l.path, h)
	svr := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.InfoContext(ctx, "websocket listening", "addr", ln.Addr().String(), "path", l.path)
		errCh <- svr.Serve(ln)
	}()

	select {
	case err := <-errCh:
		cancelConns()
		h.wg.Wait()
		return fmt.Errorf("serving websocket on %s: %w", l.addr, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err = svr.Shutdown(shutdownCtx)
	cancelConns()
	h.wg.Wait()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("shutting down websocket listener: %w", err)
	}
	return nil
}

type wsHandler struct {
	wg       sync.WaitGroup
	listener *WebsocketListener
	connCtx  context.Context
}

func (h *wsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.wg.Add(1)
	defer h.wg.Done()

	conn, err := h.listener.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.DebugContext(r.Context(), "websocket upgrade", "remote", r.RemoteAddr, "error", err)
		return
	}
	conn.SetReadLimit(h.listener.readLimit)

	h.listener.cm.AcceptConnection(h.connCtx, conn)
}
