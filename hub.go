package server

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"titans-realm/server/logging"
)

// Hub owns all live sessions and their websocket subscribers, and wires
// the shared world, store and lore client into each.
type Hub struct {
	mu        sync.Mutex
	cfg       Config
	world     *World
	store     Store
	auth      *AuthGateway
	lore      LoreClient
	publisher logging.Publisher
	sessions  map[string]*sessionHandle
	upgrader  websocket.Upgrader
}

type sessionHandle struct {
	session *Session
	cancel  context.CancelFunc
	sub     *subscriber
}

// subscriber owns the outbound side of one websocket. All frames go
// through queue and are written by a single writeLoop goroutine, so
// state pushes arrive in the order they were enqueued.
type subscriber struct {
	conn  *websocket.Conn
	queue chan []byte
	done  chan struct{}
	once  sync.Once
}

func newSubscriber(conn *websocket.Conn) *subscriber {
	return &subscriber{
		conn:  conn,
		queue: make(chan []byte, stateQueueSize),
		done:  make(chan struct{}),
	}
}

func (s *subscriber) close() {
	s.once.Do(func() {
		close(s.done)
		s.conn.Close()
	})
}

// enqueue hands a frame to the write loop. Returns false when the
// subscriber is closed or its queue is full; a dropped frame is fine
// since every state push carries the full snapshot.
func (s *subscriber) enqueue(data []byte) bool {
	select {
	case <-s.done:
		return false
	default:
	}
	select {
	case s.queue <- data:
		return true
	default:
		return false
	}
}

// writeLoop is the sole writer on the connection. It drains the frame
// queue in order and keeps the peer alive with periodic pings.
func (s *subscriber) writeLoop() {
	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()
	for {
		select {
		case <-s.done:
			return
		case data := <-s.queue:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				s.close()
				return
			}
		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				s.close()
				return
			}
		}
	}
}

func NewHub(cfg Config, world *World, store Store, lore LoreClient, publisher logging.Publisher) *Hub {
	if publisher == nil {
		publisher = logging.NopPublisher()
	}
	return &Hub{
		cfg:       cfg,
		world:     world,
		store:     store,
		auth:      NewAuthGateway(store, publisher),
		lore:      lore,
		publisher: publisher,
		sessions:  make(map[string]*sessionHandle),
		upgrader:  websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }},
	}
}

type authRequest struct {
	Name string `json:"name"`
	Pass string `json:"pass"`
}

type authResponse struct {
	Name         string `json:"name"`
	OfflineGains string `json:"offlineGains,omitempty"`
	Error        string `json:"error,omitempty"`
}

// startSession spins up the per-player tick loop. An existing session for
// the same name is replaced, its exit save running first.
func (h *Hub) startSession(player *Player, offline OfflineGains) *Session {
	h.mu.Lock()
	defer h.mu.Unlock()

	if existing, ok := h.sessions[player.Name]; ok {
		existing.cancel()
		if existing.sub != nil {
			existing.sub.close()
		}
		delete(h.sessions, player.Name)
	}

	session := NewSession(player, h.world, h.store, h.lore, h.publisher, h.cfg.Seed)
	if offline.Message != "" {
		session.addLog(offline.Message)
	}
	ctx, cancel := context.WithCancel(context.Background())
	handle := &sessionHandle{session: session, cancel: cancel}
	session.onState = func(snap StateSnapshot) {
		data, err := json.Marshal(snap)
		if err != nil {
			log.Printf("marshal state for %s: %v", player.Name, err)
			return
		}
		h.mu.Lock()
		sub := handle.sub
		h.mu.Unlock()
		if sub == nil {
			return
		}
		if !sub.enqueue(data) {
			log.Printf("state push to %s dropped", player.Name)
		}
	}
	h.sessions[player.Name] = handle
	go session.Run(ctx)
	return session
}

// Disconnect tears the session down; the session's Run loop performs the
// exit save on cancellation.
func (h *Hub) Disconnect(name string) {
	h.mu.Lock()
	handle, ok := h.sessions[name]
	if ok {
		delete(h.sessions, name)
	}
	h.mu.Unlock()
	if !ok {
		return
	}
	handle.cancel()
	if handle.sub != nil {
		handle.sub.close()
	}
}

// Shutdown cancels every session, forcing exit saves.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	handles := make([]*sessionHandle, 0, len(h.sessions))
	for _, handle := range h.sessions {
		handles = append(handles, handle)
	}
	h.sessions = make(map[string]*sessionHandle)
	h.mu.Unlock()
	for _, handle := range handles {
		handle.cancel()
		if handle.sub != nil {
			handle.sub.close()
		}
	}
}

func (h *Hub) handleRegister(w http.ResponseWriter, r *http.Request) {
	h.handleAuth(w, r, h.auth.Register)
}

func (h *Hub) handleLogin(w http.ResponseWriter, r *http.Request) {
	h.handleAuth(w, r, h.auth.Login)
}

func (h *Hub) handleAuth(w http.ResponseWriter, r *http.Request, resolve func(string, string) (*Player, error)) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req authRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	player, err := resolve(req.Name, req.Pass)
	if err != nil {
		status := http.StatusUnauthorized
		if errors.Is(err, ErrAlreadyExists) {
			status = http.StatusConflict
		}
		writeJSON(w, status, authResponse{Name: req.Name, Error: userAuthMessage(err)})
		return
	}
	offline := applyOfflineProgress(player, rngFromSeed(h.cfg.Seed+":offline:"+player.Name), time.Now(), h.publisher)
	h.startSession(player, offline)
	writeJSON(w, http.StatusOK, authResponse{Name: player.Name, OfflineGains: offline.Message})
}

// handleWS attaches a websocket to an already started session and pumps
// inbound client commands into its queue.
func (h *Hub) handleWS(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	h.mu.Lock()
	handle, ok := h.sessions[name]
	h.mu.Unlock()
	if !ok {
		http.Error(w, "no session", http.StatusNotFound)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("upgrade for %s failed: %v", name, err)
		return
	}

	sub := newSubscriber(conn)
	h.mu.Lock()
	if handle.sub != nil {
		handle.sub.close()
	}
	handle.sub = sub
	h.mu.Unlock()

	conn.SetReadDeadline(time.Now().Add(disconnectAfter))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(disconnectAfter))
		return nil
	})

	go sub.writeLoop()

	go func() {
		defer h.Disconnect(name)
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			conn.SetReadDeadline(time.Now().Add(disconnectAfter))
			var cmd Command
			if err := json.Unmarshal(data, &cmd); err != nil {
				log.Printf("bad command from %s: %v", name, err)
				continue
			}
			cmd.IssuedAt = time.Now()
			handle.session.QueueCommand(cmd)
		}
	}()
}

// handleTaunt resolves a castle taunt for the current owner. Fail-soft:
// any generator failure returns the canned taunt.
func (h *Hub) handleTaunt(w http.ResponseWriter, r *http.Request) {
	castle := h.world.Castle()
	taunt := FetchTaunt(r.Context(), h.lore, castle.OwnerName)
	writeJSON(w, http.StatusOK, map[string]string{"owner": castle.OwnerName, "taunt": taunt})
}

// Routes registers the HTTP surface on the given mux.
func (h *Hub) Routes(mux *http.ServeMux) {
	mux.HandleFunc("/api/register", h.handleRegister)
	mux.HandleFunc("/api/login", h.handleLogin)
	mux.HandleFunc("/api/castle/taunt", h.handleTaunt)
	mux.HandleFunc("/ws", h.handleWS)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("write response: %v", err)
	}
}

func userAuthMessage(err error) string {
	switch {
	case errors.Is(err, ErrAlreadyExists):
		return "User already exists"
	case errors.Is(err, ErrInvalidCredentials):
		return "Invalid credentials"
	default:
		return "Authentication failed"
	}
}
