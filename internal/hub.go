package simtop

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Frame types sent to stream subscribers
const (
	FrameChart   = "chart"
	FrameReadout = "readout"
)

// ErrHubBacklog is returned by Publish when the broadcast queue is full
var ErrHubBacklog = errors.New("stream hub backlog full")

const (
	broadcastBuffer = 64
	writeWait       = 5 * time.Second
)

// Frame is one message on the stream. Chart frames carry the whole window;
// readout frames carry the formatted value.
type Frame struct {
	Type    string    `json:"type"`
	Metric  string    `json:"metric"`
	Label   string    `json:"label,omitempty"`
	Color   string    `json:"color,omitempty"`
	Labels  []int     `json:"labels,omitempty"`
	Samples []float64 `json:"samples,omitempty"`
	Text    string    `json:"text,omitempty"`
}

type client struct {
	id   string
	conn *websocket.Conn
}

// Hub fans frames out to websocket subscribers. Only the Run goroutine
// writes to connections. New subscribers first receive the latest chart of
// every metric.
type Hub struct {
	clients    map[*websocket.Conn]*client
	broadcast  chan []byte
	register   chan *client
	unregister chan *websocket.Conn
	done       chan struct{}
	mutex      sync.RWMutex

	latestMu sync.RWMutex
	latest   map[string]Frame

	upgrader websocket.Upgrader
	logger   *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = discardLogger()
	}
	return &Hub{
		clients:    make(map[*websocket.Conn]*client),
		broadcast:  make(chan []byte, broadcastBuffer),
		register:   make(chan *client),
		unregister: make(chan *websocket.Conn),
		done:       make(chan struct{}),
		latest:     make(map[string]Frame),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		logger: logger,
	}
}

// Run delivers frames until ctx is done, then closes every connection. It
// must be called once.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mutex.Lock()
			for conn := range h.clients {
				conn.Close()
				delete(h.clients, conn)
			}
			h.mutex.Unlock()
			return

		case c := <-h.register:
			h.mutex.Lock()
			h.clients[c.conn] = c
			h.mutex.Unlock()
			h.logger.Info("stream client connected", "client", c.id, "remote", c.conn.RemoteAddr().String())
			for _, f := range h.Snapshot() {
				msg, err := json.Marshal(f)
				if err == nil {
					err = h.write(c.conn, msg)
				}
				if err != nil {
					h.drop(c.conn, err)
					break
				}
			}

		case conn := <-h.unregister:
			h.mutex.Lock()
			if c, ok := h.clients[conn]; ok {
				delete(h.clients, conn)
				conn.Close()
				h.logger.Info("stream client disconnected", "client", c.id)
			}
			h.mutex.Unlock()

		case message := <-h.broadcast:
			h.mutex.RLock()
			conns := make([]*websocket.Conn, 0, len(h.clients))
			for conn := range h.clients {
				conns = append(conns, conn)
			}
			h.mutex.RUnlock()
			for _, conn := range conns {
				if err := h.write(conn, message); err != nil {
					h.drop(conn, err)
				}
			}
		}
	}
}

func (h *Hub) write(conn *websocket.Conn, msg []byte) error {
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return conn.WriteMessage(websocket.TextMessage, msg)
}

func (h *Hub) drop(conn *websocket.Conn, err error) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	if c, ok := h.clients[conn]; ok {
		h.logger.Warn("stream write failed", "client", c.id, "error", err)
		delete(h.clients, conn)
		conn.Close()
	}
}

// Publish records f as the metric's latest state and queues it for every
// subscriber without blocking.
func (h *Hub) Publish(f Frame) error {
	msg, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("encode frame: %w", err)
	}

	h.latestMu.Lock()
	cur := h.latest[f.Metric]
	switch f.Type {
	case FrameChart:
		text := cur.Text
		cur = f
		cur.Text = text
	case FrameReadout:
		cur.Metric = f.Metric
		cur.Text = f.Text
	}
	h.latest[f.Metric] = cur
	h.latestMu.Unlock()

	select {
	case h.broadcast <- msg:
		return nil
	default:
		return ErrHubBacklog
	}
}

// Snapshot returns the latest chart of every metric seen so far, in display
// order, with its readout text folded in.
func (h *Hub) Snapshot() []Frame {
	h.latestMu.RLock()
	defer h.latestMu.RUnlock()

	out := make([]Frame, 0, len(h.latest))
	for _, kind := range MetricOrder {
		f, ok := h.latest[kind.Slug()]
		if !ok || f.Type != FrameChart {
			continue
		}
		f.Samples = append([]float64(nil), f.Samples...)
		f.Labels = append([]int(nil), f.Labels...)
		out = append(out, f)
	}
	return out
}

func (h *Hub) ClientCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

// HandleWebSocket upgrades the request and keeps the connection registered
// until the peer goes away. Incoming messages are ignored.
func (h *Hub) HandleWebSocket() gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			h.logger.Warn("websocket upgrade failed", "error", err)
			return
		}

		select {
		case h.register <- &client{id: uuid.NewString(), conn: conn}:
		case <-c.Request.Context().Done():
			conn.Close()
			return
		case <-h.done:
			conn.Close()
			return
		}

		defer func() {
			select {
			case h.unregister <- conn:
			case <-h.done:
			}
		}()

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					h.logger.Debug("websocket closed", "error", err)
				}
				return
			}
		}
	}
}
