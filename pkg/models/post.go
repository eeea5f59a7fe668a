package models

import "time"

const (
	PostActive   = "active"
	PostInactive = "inactive"
)

type Post struct {
	ID          string    `json:"_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	User        *Author   `json:"user,omitempty"`
	Status      string    `json:"status"`
	Date        time.Time `json:"date"`
}

// Pagination describes one page of a listing. TotalPages is derived from
// Total and Limit on the server.
type Pagination struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

// PostPage is the response of GET /post/get/all.
type PostPage struct {
	Data       []Post     `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// PostThread is the response of GET /post/:id. Comments is the nested tree
// for the requested page; some deployments omit it and serve comments from
// a separate endpoint, so consumers must tolerate a nil slice.
type PostThread struct {
	Post       Post       `json:"post"`
	Comments   []Comment  `json:"comments"`
	Pagination Pagination `json:"pagination"`
}

// CommentPage is the response of the standalone paginated comments endpoint.
type CommentPage struct {
	Data       []Comment  `json:"data"`
	Pagination Pagination `json:"pagination"`
}

type CreatePostRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status,omitempty"`
}

type CreateCommentRequest struct {
	Message  string  `json:"message"`
	PostID   string  `json:"postId"`
	ParentID *string `json:"parentId,omitempty"`
}

type EditCommentRequest struct {
	Message string `json:"message"`
}
