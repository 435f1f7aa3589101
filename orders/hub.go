package orders

import (
	"log"
	"net/http"
	"sync"

	"kedai/middleware"
	"kedai/utils"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
)

// Client is one open order-feed connection.
type Client struct {
	Conn   *websocket.Conn
	Send   chan []byte
	Room   string
	UserID string
}

type broadcastMsg struct {
	Room string
	Data []byte
}

// Hub fans order status updates out to connected clients. Rooms are
// keyed by order ID; a client watches one order at a time.
type Hub struct {
	rooms      map[string]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan broadcastMsg
	done       chan struct{}
	mu         sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan broadcastMsg),
		done:       make(chan struct{}),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			if h.rooms[c.Room] == nil {
				h.rooms[c.Room] = make(map[*Client]bool)
			}
			h.rooms[c.Room][c] = true
			h.mu.Unlock()

		case c := <-h.unregister:
			h.mu.Lock()
			if conns := h.rooms[c.Room]; conns != nil {
				if conns[c] {
					delete(conns, c)
					close(c.Send)
				}
			}
			h.mu.Unlock()

		case m := <-h.broadcast:
			h.mu.Lock()
			for c := range h.rooms[m.Room] {
				select {
				case c.Send <- m.Data:
				default:
					close(c.Send)
					delete(h.rooms[m.Room], c)
				}
			}
			h.mu.Unlock()

		case <-h.done:
			return
		}
	}
}

func (h *Hub) Stop() {
	close(h.done)
}

// Broadcast sends data to every client watching the given order.
func (h *Hub) Broadcast(orderID string, data []byte) {
	h.broadcast <- broadcastMsg{Room: orderID, Data: data}
}

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// WebSocketHandler upgrades the connection and subscribes the caller to
// status updates for one order.
func WebSocketHandler(hub *Hub) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		orderID := ps.ByName("orderid")
		userID := utils.GetUserIDFromRequest(r)
		if userID == "" {
			// browsers cannot set headers on websocket dials, so the
			// token rides in the query string
			claims, err := middleware.ValidateJWT("Bearer " + r.URL.Query().Get("token"))
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			userID = claims.UserID
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Println("upgrade:", err)
			return
		}
		client := &Client{
			Conn:   conn,
			Send:   make(chan []byte, 256),
			Room:   orderID,
			UserID: userID,
		}

		hub.register <- client
		go writePump(client)
		go readPump(client, hub)
	}
}

func writePump(c *Client) {
	defer c.Conn.Close()
	for msg := range c.Send {
		if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			break
		}
	}
}

// readPump only drains the connection so close frames are noticed; the
// feed is one-directional.
func readPump(c *Client, hub *Hub) {
	defer func() {
		hub.unregister <- c
		c.Conn.Close()
	}()

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			break
		}
	}
}
