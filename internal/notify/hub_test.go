package notify

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

type testMessage struct {
	Title string `json:"title"`
}

// dialTestConn upgrades one server-side connection, registers it on the hub
// and returns the client side for assertions.
func dialTestConn(t *testing.T, hub *Hub, userID string) *websocket.Conn {
	t.Helper()
	upgrader := websocket.Upgrader{}
	registered := make(chan struct{})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		hub.Register(userID, conn)
		close(registered)
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { client.Close() })

	select {
	case <-registered:
	case <-time.After(time.Second):
		t.Fatal("connection never registered")
	}
	return client
}

func TestHubPush(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	client := dialTestConn(t, hub, "user-1")

	hub.Push("user-1", testMessage{Title: "Appointment Confirmed"})

	client.SetReadDeadline(time.Now().Add(time.Second))
	var got testMessage
	if err := client.ReadJSON(&got); err != nil {
		t.Fatalf("read: %v", err)
	}
	if got.Title != "Appointment Confirmed" {
		t.Errorf("got %+v", got)
	}
}

func TestHubPushUnknownUser(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	// no connections registered; must not panic or block
	hub.Push("nobody", testMessage{Title: "ignored"})
}

func TestHubConcurrentPush(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	client := dialTestConn(t, hub, "user-1")

	// pushes for one user can come from many goroutines at once; writes to
	// the shared connection must be serialized
	const messages = 50
	var wg sync.WaitGroup
	for i := 0; i < messages; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			hub.Push("user-1", testMessage{Title: "Appointment Reminder"})
		}()
	}

	client.SetReadDeadline(time.Now().Add(5 * time.Second))
	for i := 0; i < messages; i++ {
		var got testMessage
		if err := client.ReadJSON(&got); err != nil {
			t.Fatalf("read %d: %v", i, err)
		}
		if got.Title != "Appointment Reminder" {
			t.Errorf("read %d: got %+v", i, got)
		}
	}
	wg.Wait()
}

func TestHubUnregister(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	client := dialTestConn(t, hub, "user-1")

	hub.mu.RLock()
	clients := hub.conns["user-1"]
	hub.mu.RUnlock()
	if len(clients) != 1 {
		t.Fatalf("got %d connections, want 1", len(clients))
	}

	hub.Unregister("user-1", clients[0].conn)

	hub.mu.RLock()
	_, ok := hub.conns["user-1"]
	hub.mu.RUnlock()
	if ok {
		t.Error("user should be removed once its last connection is gone")
	}

	// the server side closed the socket, the client read should fail
	client.SetReadDeadline(time.Now().Add(time.Second))
	if _, _, err := client.ReadMessage(); err == nil {
		t.Error("expected read failure on closed connection")
	}
}
