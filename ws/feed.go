package ws

import (
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"fairplay/round"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Feed pushes settled rounds to subscribed clients. Implements
// round.Publisher; the engine hands it every settled round and the feed
// fans out without blocking settlement.
type Feed struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]chan *round.Round
}

// NewFeed creates an empty feed.
func NewFeed() *Feed {
	return &Feed{
		clients: make(map[*websocket.Conn]chan *round.Round),
	}
}

// PublishRound broadcasts a settled round. Slow clients drop messages
// rather than stalling the engine.
func (f *Feed) PublishRound(r *round.Round) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, ch := range f.clients {
		select {
		case ch <- r:
		default:
		}
	}
}

// HandleFeed upgrades the connection and streams settled rounds
// GET /ws/rounds
func (f *Feed) HandleFeed(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("WebSocket upgrade failed:", err)
		return
	}
	defer conn.Close()

	ch := make(chan *round.Round, 64)

	f.mu.Lock()
	f.clients[conn] = ch
	count := len(f.clients)
	f.mu.Unlock()
	log.Printf("Feed client connected (%d total)", count)

	defer func() {
		f.mu.Lock()
		delete(f.clients, conn)
		remaining := len(f.clients)
		f.mu.Unlock()
		log.Printf("Feed client disconnected (%d remaining)", remaining)
	}()

	// Drain client reads so pings and close frames are processed; the
	// done channel unblocks the writer promptly on disconnect instead
	// of leaving it parked until the next broadcast fails.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			return
		case rd := <-ch:
			msg := map[string]any{
				"type": "round_settled",
				"data": rd,
			}
			if err := conn.WriteJSON(msg); err != nil {
				return
			}
		}
	}
}

var _ round.Publisher = (*Feed)(nil)
