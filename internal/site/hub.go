package site

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// ReloadMessage is broadcast to every connected page after a rebuild.
type ReloadMessage struct {
	Type string `json:"type"`
}

const writeWait = 5 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Hub tracks open /livereload sockets.
type Hub struct {
	logger *slog.Logger

	mu     sync.Mutex
	conns  map[*websocket.Conn]struct{}
	closed bool
}

// NewHub creates an empty hub.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{logger: logger, conns: make(map[*websocket.Conn]struct{})}
}

// ServeHTTP upgrades the request and holds the socket until the page goes
// away. Incoming messages are ignored.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("livereload upgrade", "error", err)
		return
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		_ = conn.Close()
		return
	}
	h.conns[conn] = struct{}{}
	h.mu.Unlock()

	defer h.remove(conn)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("livereload read", "error", err)
			}
			return
		}
	}
}

// Broadcast sends a reload message to every client and returns how many
// received it. Clients that cannot be written to are dropped.
func (h *Hub) Broadcast() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	sent := 0
	for conn := range h.conns {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(ReloadMessage{Type: "reload"}); err != nil {
			h.logger.Debug("dropping livereload client", "error", err)
			delete(h.conns, conn)
			_ = conn.Close()
			continue
		}
		sent++
	}
	return sent
}

// Clients returns the number of open sockets.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

// Close disconnects every client and refuses new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for conn := range h.conns {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(writeWait))
		_ = conn.Close()
		delete(h.conns, conn)
	}
}

func (h *Hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.conns, conn)
	h.mu.Unlock()
	_ = conn.Close()
}

// LiveReloadScript reloads the page when the server reports a rebuild.
const LiveReloadScript = `(function() {
  var proto = location.protocol === "https:" ? "wss://" : "ws://";
  var ws = new WebSocket(proto + location.host + "/livereload");
  ws.onmessage = function(e) {
    var msg = JSON.parse(e.data);
    if (msg.type === "reload") {
      location.reload();
    }
  };
})();`

// LiveReloadScriptID is the id of the injected reload script element.
const LiveReloadScriptID = "concrete-livereload"
