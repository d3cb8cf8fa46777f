package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func newTestHub(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()
	cfg := Config{Seed: "hub-seed", LoreDisabled: true}
	world := NewWorld(cfg.Seed, nil)
	hub := NewHub(cfg, world, NewMemoryStore(), NewLoreClient(cfg), nil)
	mux := http.NewServeMux()
	hub.Routes(mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(func() {
		hub.Shutdown()
		srv.Close()
	})
	return hub, srv
}

func postAuth(t *testing.T, url, name, pass string) (*http.Response, authResponse) {
	t.Helper()
	body, _ := json.Marshal(authRequest{Name: name, Pass: pass})
	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var decoded authResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatal(err)
	}
	return resp, decoded
}

func TestRegisterEndpoint(t *testing.T) {
	_, srv := newTestHub(t)

	resp, decoded := postAuth(t, srv.URL+"/api/register", "hero", "pw")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if decoded.Name != "hero" || decoded.Error != "" {
		t.Fatalf("response = %+v", decoded)
	}

	resp, decoded = postAuth(t, srv.URL+"/api/register", "hero", "pw")
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("duplicate register status = %d, want conflict", resp.StatusCode)
	}
	if decoded.Error != "User already exists" {
		t.Fatalf("error = %q", decoded.Error)
	}
}

func TestLoginEndpoint(t *testing.T) {
	_, srv := newTestHub(t)
	postAuth(t, srv.URL+"/api/register", "hero", "pw")

	resp, _ := postAuth(t, srv.URL+"/api/login", "hero", "wrong")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("bad password status = %d", resp.StatusCode)
	}

	resp, decoded := postAuth(t, srv.URL+"/api/login", "hero", "pw")
	if resp.StatusCode != http.StatusOK || decoded.Name != "hero" {
		t.Fatalf("status = %d, response = %+v", resp.StatusCode, decoded)
	}
}

func TestAuthEndpointRejectsGet(t *testing.T) {
	_, srv := newTestHub(t)
	resp, err := http.Get(srv.URL + "/api/register")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}

func TestWebsocketRequiresSession(t *testing.T) {
	_, srv := newTestHub(t)
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?name=ghost"
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err == nil {
		t.Fatal("dial succeeded with no session")
	}
	if resp == nil || resp.StatusCode != http.StatusNotFound {
		t.Fatalf("resp = %+v", resp)
	}
}

func TestWebsocketReceivesStateAndQueuesCommands(t *testing.T) {
	hub, srv := newTestHub(t)
	postAuth(t, srv.URL+"/api/register", "hero", "pw")

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?name=hero"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	cmd, _ := json.Marshal(Command{Type: CommandSetView, View: ViewProfile})
	if err := conn.WriteMessage(websocket.TextMessage, cmd); err != nil {
		t.Fatal(err)
	}

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("no state push arrived: %v", err)
	}
	var snap StateSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		t.Fatal(err)
	}
	if snap.Type != "state" || snap.Player.Name != "hero" {
		t.Fatalf("snapshot = %+v", snap)
	}
	if snap.Player.Password != "" {
		t.Fatal("credential leaked over the wire")
	}

	hub.mu.Lock()
	handle := hub.sessions["hero"]
	hub.mu.Unlock()
	deadline := time.Now().Add(3 * time.Second)
	for {
		handle.session.mu.Lock()
		view := handle.session.view
		handle.session.mu.Unlock()
		if view == ViewProfile {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("queued command never applied, view = %s", view)
		}
		time.Sleep(20 * time.Millisecond)
	}
}

func TestStatePushesArriveInOrder(t *testing.T) {
	hub, srv := newTestHub(t)
	postAuth(t, srv.URL+"/api/register", "hero", "pw")

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?name=hero"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	var sub *subscriber
	deadline := time.Now().Add(3 * time.Second)
	for sub == nil {
		hub.mu.Lock()
		sub = hub.sessions["hero"].sub
		hub.mu.Unlock()
		if time.Now().After(deadline) {
			t.Fatal("subscriber never attached")
		}
		time.Sleep(10 * time.Millisecond)
	}

	type echo struct {
		Type string `json:"type"`
		Seq  int    `json:"seq"`
	}
	const frames = 5
	for i := 0; i < frames; i++ {
		data, _ := json.Marshal(echo{Type: "echo", Seq: i})
		if !sub.enqueue(data) {
			t.Fatalf("frame %d dropped", i)
		}
	}

	next := 0
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	for next < frames {
		_, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read after %d echoes: %v", next, err)
		}
		var msg echo
		if err := json.Unmarshal(data, &msg); err != nil {
			t.Fatal(err)
		}
		if msg.Type != "echo" {
			continue // interleaved tick snapshot
		}
		if msg.Seq != next {
			t.Fatalf("echo %d arrived, want %d", msg.Seq, next)
		}
		next++
	}
}

func TestSubscriberQueueDropsWhenFull(t *testing.T) {
	sub := &subscriber{queue: make(chan []byte, 2), done: make(chan struct{})}
	if !sub.enqueue([]byte("a")) || !sub.enqueue([]byte("b")) {
		t.Fatal("queue rejected frames below capacity")
	}
	if sub.enqueue([]byte("c")) {
		t.Fatal("full queue accepted a frame")
	}
	close(sub.done)
	if sub.enqueue([]byte("d")) {
		t.Fatal("closed subscriber accepted a frame")
	}
}

func TestTauntEndpointFallsBack(t *testing.T) {
	_, srv := newTestHub(t)
	resp, err := http.Get(srv.URL + "/api/castle/taunt")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var decoded map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatal(err)
	}
	if decoded["owner"] == "" {
		t.Fatal("no castle owner in response")
	}
	if decoded["taunt"] != fallbackTaunt {
		t.Fatalf("taunt = %q, want fallback with lore disabled", decoded["taunt"])
	}
}

func TestDisconnectRunsExitSave(t *testing.T) {
	hub, srv := newTestHub(t)
	postAuth(t, srv.URL+"/api/register", "hero", "pw")

	hub.mu.Lock()
	handle := hub.sessions["hero"]
	hub.mu.Unlock()
	handle.session.mu.Lock()
	handle.session.player.Gold = 4242
	handle.session.mu.Unlock()

	hub.Disconnect("hero")

	store := hub.store.(*MemoryStore)
	deadline := time.Now().Add(3 * time.Second)
	for {
		if snap, ok, _ := store.Load("hero"); ok && snap.Player.Gold == 4242 {
			return
		}
		if time.Now().After(deadline) {
			t.Fatal("exit save never landed")
		}
		time.Sleep(20 * time.Millisecond)
	}
}
