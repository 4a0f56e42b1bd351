package kds

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/yeremiapane/yumpooma/utils"
)

// Event types
const (
	EventBillCreated        = "bill_created"
	EventReservationCreated = "reservation_created"
	EventReservationDeleted = "reservation_deleted"
	EventReservationUpdated = "reservation_updated"
	EventMenuUpdated        = "menu_updated"
)

// writeWait bounds each write so a stalled client cannot hold up a broadcast.
const writeWait = 5 * time.Second

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Hub keeps the websocket connections of signed in staff and pushes
// kitchen display messages to all of them.
type Hub struct {
	clients   map[*websocket.Conn]string // conn -> username
	mutex     sync.Mutex
	writeWait time.Duration
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]string), writeWait: writeWait}
}

func (h *Hub) Register(conn *websocket.Conn, username string) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.clients[conn] = username
}

// Unregister drops and closes the connection.
func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	if _, ok := h.clients[conn]; !ok {
		return
	}
	delete(h.clients, conn)
	conn.Close()
}

func (h *Hub) ClientCount() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients)
}

// Broadcast sends msg to every client. Connections that fail to write are
// dropped.
func (h *Hub) Broadcast(event string, data interface{}) {
	payload, err := json.Marshal(Message{Event: event, Data: data})
	if err != nil {
		utils.ErrorLogger.Printf("Error marshaling %s message: %v", event, err)
		return
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()

	for conn, username := range h.clients {
		err := conn.SetWriteDeadline(time.Now().Add(h.writeWait))
		if err == nil {
			err = conn.WriteMessage(websocket.TextMessage, payload)
		}
		if err != nil {
			utils.ErrorLogger.Printf("Error sending %s to %s: %v", event, username, err)
			delete(h.clients, conn)
			conn.Close()
		}
	}
	utils.InfoLogger.Debugf("Broadcast %s to %d clients", event, len(h.clients))
}

// Serve registers conn and blocks reading until the client goes away.
func (h *Hub) Serve(conn *websocket.Conn, username string) {
	h.Register(conn, username)
	defer h.Unregister(conn)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
