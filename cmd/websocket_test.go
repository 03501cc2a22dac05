package main

import (
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"ustaBack/internal/models"
)

// newSocketPair returns both ends of a real websocket connection.
func newSocketPair(t *testing.T) (client, server *websocket.Conn) {
	t.Helper()

	serverConns := make(chan *websocket.Conn, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		serverConns <- conn
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { client.Close() })

	server = <-serverConns
	t.Cleanup(func() { server.Close() })
	return client, server
}

func TestHubReconnectKeepsFreshConnection(t *testing.T) {
	hub := NewNotificationHub(log.New(io.Discard, "", 0))
	go hub.Run()

	_, server1 := newSocketPair(t)
	client2, server2 := newSocketPair(t)

	hub.register <- wsClient{userID: 7, conn: server1}
	// Reconnect replaces and closes the first socket.
	hub.register <- wsClient{userID: 7, conn: server2}

	// The replaced connection's read loop winds down and reports the stale
	// conn. The fresh connection must survive it.
	hub.unregister <- wsUnregister{userID: 7, conn: server1}

	hub.PushNotification(7, models.Notification{ID: 1, ReceiverUserID: 7, Title: "hello"})

	client2.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got models.Notification
	if err := client2.ReadJSON(&got); err != nil {
		t.Fatalf("fresh connection lost the push after reconnect: %v", err)
	}
	if got.Title != "hello" {
		t.Fatalf("unexpected payload: %+v", got)
	}

	// An unregister naming the current conn removes the client for real.
	hub.unregister <- wsUnregister{userID: 7, conn: server2}
	client2.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := client2.ReadMessage(); err == nil {
		t.Fatal("expected the connection to be closed after unregister")
	}
}
