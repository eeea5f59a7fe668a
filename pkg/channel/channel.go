// Package channel connects one open post view to its realtime event
// stream: dial, announce the post id, translate inbound events into
// controller calls, release on Close.
package channel

import (
	"log"
	"sync"
	"time"

	"github.com/fasthttp/websocket"

	"github.com/shakil-official/comment-system/pkg/envelope"
	"github.com/shakil-official/comment-system/pkg/models"
)

// Handler receives decoded events; view.Controller implements it. The
// adapter makes no ordering promises across comment ids, so handlers must be
// idempotent per id.
type Handler interface {
	RemoteNew(comment models.Comment)
	RemoteUpdate(comment models.Comment)
	RemoteDelete(commentID string)
	RemoteReaction(p envelope.ReactionPayload)
}

type Channel struct {
	url     string
	postID  string
	handler Handler

	mu      sync.Mutex
	conn    *websocket.Conn
	done    chan struct{}
	closing sync.Once
}

// Open dials the hub, joins the post's room and starts delivering events
// to h. It keeps the connection alive with auto-reconnect until Close.
func Open(wsURL, postID string, h Handler) *Channel {
	c := &Channel{
		url:     wsURL,
		postID:  postID,
		handler: h,
		done:    make(chan struct{}),
	}
	go c.run()
	return c
}

func (c *Channel) run() {
	for {
		select {
		case <-c.done:
			return
		default:
		}

		if err := c.dial(); err != nil {
			log.Printf("[CHANNEL] post=%s dial: %v, retry in 3s", c.postID, err)
			select {
			case <-c.done:
				return
			case <-time.After(3 * time.Second):
			}
			continue
		}

		c.readLoop()

		select {
		case <-c.done:
			return
		default:
		}
		log.Printf("[CHANNEL] post=%s disconnected, reconnecting", c.postID)
		time.Sleep(time.Second)
	}
}

func (c *Channel) dial() error {
	conn, _, err := websocket.DefaultDialer.Dial(c.url, nil)
	if err != nil {
		return err
	}

	raw, err := envelope.Join(c.postID).Marshal()
	if err == nil {
		err = conn.WriteMessage(websocket.TextMessage, raw)
	}
	if err != nil {
		conn.Close()
		return err
	}

	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()
	return nil
}

func (c *Channel) readLoop() {
	for {
		c.mu.Lock()
		conn := c.conn
		c.mu.Unlock()
		if conn == nil {
			return
		}
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}
		Dispatch(c.handler, raw)
	}
}

// Close releases the subscription. Idempotent; safe on every exit path.
func (c *Channel) Close() {
	c.closing.Do(func() { close(c.done) })
	c.mu.Lock()
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
	c.mu.Unlock()
}

// Dispatch decodes one wire message and routes it to the handler. Unknown
// or malformed events are dropped, never raised.
func Dispatch(h Handler, raw []byte) {
	env, err := envelope.Unmarshal(raw)
	if err != nil {
		return
	}

	switch env.Event {
	case envelope.EventCommentNew:
		if cm, err := envelope.ParseData[models.Comment](env); err == nil && cm.ID != "" {
			h.RemoteNew(cm)
		}
	case envelope.EventCommentUpdate:
		if cm, err := envelope.ParseData[models.Comment](env); err == nil && cm.ID != "" {
			h.RemoteUpdate(cm)
		}
	case envelope.EventCommentDelete:
		if p, err := envelope.ParseData[envelope.DeletePayload](env); err == nil && p.CommentID != "" {
			h.RemoteDelete(p.CommentID)
		}
	case envelope.EventCommentReaction:
		if p, err := envelope.ParseData[envelope.ReactionPayload](env); err == nil && p.CommentID != "" {
			h.RemoteReaction(p)
		}
	}
}
