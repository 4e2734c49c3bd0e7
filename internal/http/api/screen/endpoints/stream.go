package endpoints

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/nearby/internal/http/api"
	"github.com/Nixie-Tech-LLC/nearby/internal/model"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	sendBuffer = 8
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// FrameSource builds a frame of the current state for a platform.
type FrameSource interface {
	Frame(platform string) model.Frame
}

type streamClient struct {
	conn     *websocket.Conn
	platform string
	send     chan model.Frame
}

// Hub is a renderer that pushes every frame to the connected websocket clients.
// Clients that fall behind by more than a few frames are disconnected.
type Hub struct {
	mu      sync.Mutex
	clients map[*streamClient]struct{}
	source  FrameSource
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*streamClient]struct{})}
}

// Attach sets where per-platform frames and the initial frame come from.
func (h *Hub) Attach(source FrameSource) {
	h.mu.Lock()
	h.source = source
	h.mu.Unlock()
}

func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) Render(ctx context.Context, frame model.Frame) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients {
		f := frame
		if c.platform != "" && h.source != nil {
			f = h.source.Frame(c.platform)
		}
		select {
		case c.send <- f:
		default:
			log.Warn().Str("remote", c.conn.RemoteAddr().String()).Msg("stream client too slow, disconnecting")
			h.removeLocked(c)
		}
	}
	return nil
}

func (h *Hub) removeLocked(c *streamClient) {
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

func (h *Hub) remove(c *streamClient) {
	h.mu.Lock()
	h.removeLocked(c)
	h.mu.Unlock()
}

// StreamModule mounts GET /screen/stream?platform=.
func StreamModule(hub *Hub) api.Module {
	return api.ModuleFunc(func(c *api.Controller) {
		c.Group.GET("/screen/stream", hub.Serve)
	})
}

// GET /api/screen/stream?platform=web
func (h *Hub) Serve(ctx *gin.Context) {
	conn, err := upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		log.Error().Err(err).Msg("websocket upgrade failed")
		return
	}

	c := &streamClient{
		conn:     conn,
		platform: ctx.Query("platform"),
		send:     make(chan model.Frame, sendBuffer),
	}

	h.mu.Lock()
	if h.source != nil {
		c.send <- h.source.Frame(c.platform)
	}
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	log.Info().Str("remote", conn.RemoteAddr().String()).Str("platform", c.platform).Msg("stream client connected")

	go c.writePump()
	c.readPump()

	h.remove(c)
	log.Info().Str("remote", conn.RemoteAddr().String()).Msg("stream client disconnected")
}

// readPump only services pongs and close frames; clients never send data.
func (c *streamClient) readPump() {
	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *streamClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(frame); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
