package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"
)

// Author is the public slice of a user attached to posts and comments.
type Author struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Count decodes the denormalized reaction counters coming off the wire.
// The API has been observed sending numbers, numeric strings and null for
// the same field; anything unparseable collapses to zero and negatives are
// clamped.
type Count int

func (c *Count) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*c = 0
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*c = 0
			return nil
		}
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			*c = 0
			return nil
		}
		*c = clampCount(n)
		return nil
	}

	var n float64
	if err := json.Unmarshal(data, &n); err != nil {
		*c = 0
		return nil
	}
	*c = clampCount(n)
	return nil
}

func clampCount(n float64) Count {
	if n < 0 {
		return 0
	}
	return Count(n)
}

// Comment is one node of a post's discussion tree. Parent is nil for
// top-level comments; Children carries the nested replies in reply order.
type Comment struct {
	ID             string    `json:"_id"`
	Message        string    `json:"message"`
	User           *Author   `json:"user,omitempty"`
	Post           string    `json:"post,omitempty"`
	Parent         *string   `json:"parent"`
	Favorites      []string  `json:"favorites"`
	Dislikes       []string  `json:"dislikes"`
	FavoritesCount Count     `json:"favoritesCount"`
	DislikesCount  Count     `json:"dislikesCount"`
	Children       []Comment `json:"children"`
	Date           time.Time `json:"date"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// AuthorName returns the display name for the comment's author.
func (c Comment) AuthorName() string {
	if c.User == nil || c.User.Name == "" {
		return "Anonymous"
	}
	return c.User.Name
}

// FavoritedBy reports whether userID is in the favorites set.
func (c Comment) FavoritedBy(userID string) bool {
	return containsID(c.Favorites, userID)
}

// DislikedBy reports whether userID is in the dislikes set.
func (c Comment) DislikedBy(userID string) bool {
	return containsID(c.Dislikes, userID)
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
