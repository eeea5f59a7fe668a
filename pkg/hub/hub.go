// Package hub is the server-side websocket fanout. Connections join one
// post room each; comment events are broadcast into the matching room only.
package hub

import (
	"log"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"

	"github.com/shakil-official/comment-system/pkg/envelope"
)

type clientConn struct {
	conn   *websocket.Conn
	userID string
	postID string
	mu     sync.Mutex
}

func (cc *clientConn) send(data []byte) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	if err := cc.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		log.Printf("[HUB] send error user=%s: %v", cc.userID, err)
	}
}

type Hub struct {
	mu      sync.RWMutex
	clients map[*websocket.Conn]*clientConn
	rooms   map[string]map[*clientConn]struct{}
}

func New() *Hub {
	return &Hub{
		clients: make(map[*websocket.Conn]*clientConn),
		rooms:   make(map[string]map[*clientConn]struct{}),
	}
}

// HandleClientConn owns the connection until it drops. The client is
// expected to send one join envelope naming the post it watches; a second
// join switches rooms. Room membership is always released on return.
func (h *Hub) HandleClientConn(c *websocket.Conn, userID string) {
	cc := &clientConn{conn: c, userID: userID}

	h.mu.Lock()
	h.clients[c] = cc
	h.mu.Unlock()
	log.Printf("[HUB] client connected user=%s total=%d", userID, h.ClientCount())

	defer func() {
		h.mu.Lock()
		h.leaveLocked(cc)
		delete(h.clients, c)
		h.mu.Unlock()
		c.Close()
		log.Printf("[HUB] client disconnected user=%s total=%d", userID, h.ClientCount())
	}()

	for {
		_, raw, err := c.ReadMessage()
		if err != nil {
			return
		}

		env, err := envelope.Unmarshal(raw)
		if err != nil {
			continue
		}

		switch env.Event {
		case envelope.EventJoin:
			if env.Post == "" {
				continue
			}
			h.mu.Lock()
			h.leaveLocked(cc)
			cc.postID = env.Post
			room, ok := h.rooms[env.Post]
			if !ok {
				room = make(map[*clientConn]struct{})
				h.rooms[env.Post] = room
			}
			room[cc] = struct{}{}
			h.mu.Unlock()
			log.Printf("[HUB] user=%s joined post=%s", userID, env.Post)
		case envelope.EventPing:
			pong := envelope.Envelope{Event: envelope.EventPong, Timestamp: time.Now().UnixMilli()}
			if data, err := pong.Marshal(); err == nil {
				cc.send(data)
			}
		}
	}
}

func (h *Hub) leaveLocked(cc *clientConn) {
	if cc.postID == "" {
		return
	}
	if room, ok := h.rooms[cc.postID]; ok {
		delete(room, cc)
		if len(room) == 0 {
			delete(h.rooms, cc.postID)
		}
	}
	cc.postID = ""
}

// BroadcastRaw sends an already-marshalled envelope to every connection in
// the post's room.
func (h *Hub) BroadcastRaw(postID string, raw []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for cc := range h.rooms[postID] {
		cc.send(raw)
	}
}

// Broadcast marshals data into an event envelope and fans it out to the
// post's room.
func (h *Hub) Broadcast(event, postID string, data interface{}) {
	env, err := envelope.NewEvent(event, postID, data)
	if err != nil {
		return
	}
	raw, err := env.Marshal()
	if err != nil {
		return
	}
	h.BroadcastRaw(postID, raw)
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) RoomCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms)
}

// RoomSize reports how many connections watch the given post.
func (h *Hub) RoomSize(postID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[postID])
}
