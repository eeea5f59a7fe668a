// Package envelope defines the wire format shared by the websocket hub,
// the Redis broker and the client channel adapter.
package envelope

import (
	"encoding/json"
	"time"

	"github.com/shakil-official/comment-system/pkg/models"
)

// Events pushed to clients. Each carries the post id it belongs to so the
// hub can route it into the right room.
const (
	EventCommentNew      = "comment:new"
	EventCommentUpdate   = "comment:update"
	EventCommentDelete   = "comment:delete"
	EventCommentReaction = "comment:reaction"
)

// Control messages sent by clients.
const (
	EventJoin = "join"
	EventPing = "ping"
	EventPong = "pong"
)

type Envelope struct {
	Event     string          `json:"event"`
	Post      string          `json:"post,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp int64           `json:"ts"`
}

// DeletePayload is the body of comment:delete. Clients prune the whole
// subtree under CommentID themselves.
type DeletePayload struct {
	CommentID string `json:"commentId"`
}

// ReactionPayload is the body of comment:reaction: the authoritative
// reaction sets and counters after a toggle.
type ReactionPayload struct {
	CommentID      string       `json:"commentId"`
	Favorites      []string     `json:"favorites"`
	Dislikes       []string     `json:"dislikes"`
	FavoritesCount models.Count `json:"favoritesCount"`
	DislikesCount  models.Count `json:"dislikesCount"`
}

func New(event, post string) Envelope {
	return Envelope{
		Event:     event,
		Post:      post,
		Timestamp: time.Now().UnixMilli(),
	}
}

func NewEvent(event, post string, data interface{}) (Envelope, error) {
	e := New(event, post)
	raw, err := json.Marshal(data)
	if err != nil {
		return e, err
	}
	e.Data = raw
	return e, nil
}

// Join builds the single announcement a client sends after connecting.
func Join(postID string) Envelope {
	return New(EventJoin, postID)
}

func (e Envelope) Marshal() ([]byte, error) {
	return json.Marshal(e)
}

func Unmarshal(data []byte) (Envelope, error) {
	var e Envelope
	err := json.Unmarshal(data, &e)
	return e, err
}

func ParseData[T any](e Envelope) (T, error) {
	var v T
	err := json.Unmarshal(e.Data, &v)
	return v, err
}
