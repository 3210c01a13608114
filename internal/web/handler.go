package web

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/tomz197/arcade-asteroids/internal/logging"
	"github.com/tomz197/arcade-asteroids/internal/loop"
	"github.com/tomz197/arcade-asteroids/internal/loop/config"
	"github.com/tomz197/arcade-asteroids/internal/loop/server"
	"github.com/tomz197/arcade-asteroids/internal/object"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxMessageSize = 1024
)

// HandlerOptions configures the websocket endpoint.
type HandlerOptions struct {
	Registry  *server.Server // Optional; enables shutdown notices
	Bounds    object.Bounds  // Initial play area until the page reports its size
	FrameTime time.Duration  // 0 selects the target frame rate
	Logger    *log.Logger
}

// Handler upgrades requests to websockets and plays one session per
// connection.
type Handler struct {
	opts     HandlerOptions
	log      *log.Logger
	upgrader websocket.Upgrader
}

// NewHandler returns a websocket endpoint.
func NewHandler(opts HandlerOptions) *Handler {
	if opts.Bounds.Width <= 0 || opts.Bounds.Height <= 0 {
		opts.Bounds = object.Bounds{Width: config.DefaultWidth, Height: config.DefaultHeight}
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	return &Handler{
		opts: opts,
		log:  opts.Logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// The page is served from the same binary; any origin may play.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// ServeHTTP implements http.Handler. It returns once the connection closed
// and its session stopped.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade", "remote", r.RemoteAddr, "err", err)
		return
	}
	defer conn.Close()

	logger := h.log.With("remote", r.RemoteAddr, "frontend", "web")

	var events <-chan server.ClientEvent
	if h.opts.Registry != nil {
		handle, err := h.opts.Registry.RegisterClient(r.RemoteAddr, "web")
		if err != nil {
			logger.Info("refusing connection", "err", err)
			msg := websocket.FormatCloseMessage(websocket.CloseTryAgainLater, "server shutting down")
			_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
			return
		}
		defer h.opts.Registry.UnregisterClient(handle.ID)
		events = handle.EventsCh
	}

	sess := NewSession(SessionOptions{
		Bounds: h.opts.Bounds,
		Logger: logger,
		Events: events,
	})

	// The request context ends with ServeHTTP; the session follows the
	// connection instead.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		ticker := loop.NewFrameTicker(h.opts.FrameTime)
		defer ticker.Stop()
		if err := sess.Run(ctx, ticker); err != nil {
			logger.Error("session stopped", "err", err)
		}
	}()
	go func() {
		defer wg.Done()
		h.writePump(conn, sess, cancel, logger)
	}()

	logger.Info("client connected")
	h.readPump(conn, sess, logger)
	cancel()
	wg.Wait()
	logger.Info("client disconnected")
}

// readPump feeds page messages to the session until the connection fails.
func (h *Handler) readPump(conn *websocket.Conn, sess *Session, logger *log.Logger) {
	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				logger.Warn("websocket read", "err", err)
			}
			return
		}
		msg, err := DecodeInput(data)
		if err != nil {
			logger.Debug("bad message", "err", err)
			continue
		}
		sess.HandleMessage(msg)
	}
}

// writePump sends queued messages and keepalive pings. When the session
// stops it closes the connection, which also ends readPump.
func (h *Handler) writePump(conn *websocket.Conn, sess *Session, cancel context.CancelFunc, logger *log.Logger) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		cancel()
		conn.Close()
	}()

	for {
		select {
		case data := <-sess.Send():
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
				logger.Debug("websocket write", "err", err)
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-sess.Closed():
			h.flush(conn, sess)
			msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
			_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
			return
		}
	}
}

// flush writes whatever the session queued before it stopped.
func (h *Handler) flush(conn *websocket.Conn, sess *Session) {
	for {
		select {
		case data := <-sess.Send():
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
				return
			}
		default:
			return
		}
	}
}
