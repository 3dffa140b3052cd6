// internal/web/websocket.go - live status push
package web

import (
    "net/http"
    "sync"
    "time"

    "github.com/gin-gonic/gin"
    "github.com/gorilla/websocket"
    "github.com/sirupsen/logrus"
    "portalwatch/internal/monitor"
)

var upgrader = websocket.Upgrader{
    CheckOrigin: func(r *http.Request) bool {
        return true // Local status tooling only
    },
}

// Hub fans one status frame per poll tick out to connected clients.
// Slow clients are dropped rather than allowed to back up the monitor.
type Hub struct {
    mu      sync.Mutex
    clients map[*wsClient]bool
}

func NewHub() *Hub {
    return &Hub{clients: make(map[*wsClient]bool)}
}

type wsClient struct {
    conn *websocket.Conn
    send chan monitor.StatusFrame
    hub  *Hub
}

// Broadcast implements monitor.Broadcaster.
func (h *Hub) Broadcast(frame monitor.StatusFrame) {
    h.mu.Lock()
    defer h.mu.Unlock()

    for client := range h.clients {
        select {
        case client.send <- frame:
        default:
            close(client.send)
            delete(h.clients, client)
        }
    }
}

func (h *Hub) remove(client *wsClient) {
    h.mu.Lock()
    defer h.mu.Unlock()

    if h.clients[client] {
        delete(h.clients, client)
    }
}

func (s *Server) handleWebSocket(c *gin.Context) {
    conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
    if err != nil {
        logrus.WithError(err).Error("Failed to upgrade websocket")
        return
    }

    client := &wsClient{
        conn: conn,
        send: make(chan monitor.StatusFrame, 16),
        hub:  s.hub,
    }

    s.hub.mu.Lock()
    s.hub.clients[client] = true
    s.hub.mu.Unlock()

    go client.writePump()
    go client.readPump()
}

func (c *wsClient) writePump() {
    ticker := time.NewTicker(54 * time.Second)
    defer func() {
        ticker.Stop()
        c.conn.Close()
        c.hub.remove(c)
    }()

    for {
        select {
        case frame, ok := <-c.send:
            c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
            if !ok {
                c.conn.WriteMessage(websocket.CloseMessage, []byte{})
                return
            }
            if err := c.conn.WriteJSON(frame); err != nil {
                return
            }

        case <-ticker.C:
            c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
            if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
                return
            }
        }
    }
}

func (c *wsClient) readPump() {
    defer c.conn.Close()

    c.conn.SetReadLimit(512)
    c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
    c.conn.SetPongHandler(func(string) error {
        c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
        return nil
    })

    for {
        if _, _, err := c.conn.ReadMessage(); err != nil {
            break
        }
    }
}
