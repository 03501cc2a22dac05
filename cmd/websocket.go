package main

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"ustaBack/internal/models"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = 50 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type wsClient struct {
	userID int
	conn   *websocket.Conn
}

// wsUnregister names the exact connection being torn down. The hub drops the
// map entry only when it still points at that connection, so a stale
// unregister from a replaced socket cannot kill the user's fresh one.
type wsUnregister struct {
	userID int
	conn   *websocket.Conn
}

type directMessage struct {
	userID  int
	payload models.Notification
}

// NotificationHub holds one websocket per connected user and pushes stored
// notifications to them as they are created. A second connection for the
// same user replaces the first.
type NotificationHub struct {
	errorLog   *log.Logger
	clients    map[int]*websocket.Conn
	register   chan wsClient
	unregister chan wsUnregister
	direct     chan directMessage
}

func NewNotificationHub(errorLog *log.Logger) *NotificationHub {
	return &NotificationHub{
		errorLog:   errorLog,
		clients:    make(map[int]*websocket.Conn),
		register:   make(chan wsClient),
		unregister: make(chan wsUnregister),
		direct:     make(chan directMessage, 64),
	}
}

func (h *NotificationHub) Run() {
	for {
		select {
		case client := <-h.register:
			if old, ok := h.clients[client.userID]; ok {
				old.Close()
			}
			h.clients[client.userID] = client.conn
		case u := <-h.unregister:
			u.conn.Close()
			if cur, ok := h.clients[u.userID]; ok && cur == u.conn {
				delete(h.clients, u.userID)
			}
		case msg := <-h.direct:
			conn, ok := h.clients[msg.userID]
			if !ok {
				continue
			}
			conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteJSON(msg.payload); err != nil {
				h.errorLog.Printf("ws: write to user %d: %v", msg.userID, err)
				conn.Close()
				delete(h.clients, msg.userID)
			}
		}
	}
}

// PushNotification hands the notification to the hub loop without blocking
// the caller; when the buffer is full the socket delivery is dropped, the
// stored document remains the source of truth.
func (h *NotificationHub) PushNotification(userID int, n models.Notification) {
	select {
	case h.direct <- directMessage{userID: userID, payload: n}:
	default:
		h.errorLog.Printf("ws: direct buffer full, dropping push for user %d", userID)
	}
}

// Handler upgrades the connection for the authenticated user and keeps it
// alive with pings until the peer goes away.
func (h *NotificationHub) Handler(w http.ResponseWriter, r *http.Request) {
	userID, _ := r.Context().Value("user_id").(int)
	if userID == 0 {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.errorLog.Printf("ws: upgrade for user %d: %v", userID, err)
		return
	}

	h.register <- wsClient{userID: userID, conn: conn}

	go h.pingLoop(userID, conn)
	go h.readLoop(userID, conn)
}

func (h *NotificationHub) readLoop(userID int, conn *websocket.Conn) {
	defer func() {
		h.unregister <- wsUnregister{userID: userID, conn: conn}
	}()

	conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(wsPongWait))
		return nil
	})

	for {
		// Clients only listen; reads exist to process control frames and
		// detect the close.
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *NotificationHub) pingLoop(userID int, conn *websocket.Conn) {
	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()

	for range ticker.C {
		conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
		if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
			h.unregister <- wsUnregister{userID: userID, conn: conn}
			return
		}
	}
}
