// Package client is the typed REST client for the comment-system API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shakil-official/comment-system/pkg/models"
	"github.com/shakil-official/comment-system/pkg/thread"
)

// APIError is a non-2xx response from the API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}

type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

type Option func(*Client)

// WithToken sets the bearer token attached to every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) SetToken(token string) { c.token = token }

// HasToken reports whether a credential is attached.
func (c *Client) HasToken() bool { return c.token != "" }

func (c *Client) Register(ctx context.Context, name, email, password string) (models.Credentials, error) {
	var creds models.Credentials
	err := c.do(ctx, http.MethodPost, "/auth/register",
		models.RegisterRequest{Name: name, Email: email, Password: password}, &creds)
	return creds, err
}

func (c *Client) Login(ctx context.Context, email, password string) (models.Credentials, error) {
	var creds models.Credentials
	err := c.do(ctx, http.MethodPost, "/auth/login",
		models.LoginRequest{Email: email, Password: password}, &creds)
	return creds, err
}

func (c *Client) Me(ctx context.Context) (models.User, error) {
	var user models.User
	err := c.do(ctx, http.MethodGet, "/auth/me", nil, &user)
	return user, err
}

func (c *Client) Posts(ctx context.Context, page, limit int) (models.PostPage, error) {
	var out models.PostPage
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/post/get/all?page=%d&limit=%d", page, limit), nil, &out)
	return out, err
}

func (c *Client) CreatePost(ctx context.Context, title, description string) (models.Post, error) {
	var post models.Post
	err := c.do(ctx, http.MethodPost, "/post/create",
		models.CreatePostRequest{Title: title, Description: description}, &post)
	return post, err
}

// Post fetches one post with its first comment page. Deployments that
// serve comments from a separate endpoint return a nil Comments slice
// here; use Comments for those.
func (c *Client) Post(ctx context.Context, id string, page, limit int) (models.PostThread, error) {
	var out models.PostThread
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/post/%s?page=%d&limit=%d", id, page, limit), nil, &out)
	return out, err
}

// Comments fetches one page of a post's comments via the standalone
// endpoint (the second observed API variant).
func (c *Client) Comments(ctx context.Context, postID string, page, limit int) (models.CommentPage, error) {
	var out models.CommentPage
	err := c.do(ctx, http.MethodGet,
		fmt.Sprintf("/comment/get/post/%s?page=%d&limit=%d", postID, page, limit), nil, &out)
	return out, err
}

func (c *Client) CreateComment(ctx context.Context, message, postID string, parentID *string) error {
	return c.do(ctx, http.MethodPost, "/comment/create",
		models.CreateCommentRequest{Message: message, PostID: postID, ParentID: parentID}, nil)
}

func (c *Client) EditComment(ctx context.Context, id, message string) error {
	return c.do(ctx, http.MethodPatch, "/comment/"+id, models.EditCommentRequest{Message: message}, nil)
}

func (c *Client) DeleteComment(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/comment/"+id, nil, nil)
}

func (c *Client) ToggleReaction(ctx context.Context, id string, kind thread.Kind) error {
	if !kind.Valid() {
		return fmt.Errorf("unknown reaction kind %q", kind)
	}
	return c.do(ctx, http.MethodPatch, fmt.Sprintf("/comment/%s/%s", id, kind), nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return parseAPIError(resp)
	}
	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func parseAPIError(resp *http.Response) error {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	json.Unmarshal(raw, &payload)

	msg := payload.Error
	if msg == "" {
		msg = payload.Message
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return &APIError{Status: resp.StatusCode, Message: msg}
}
