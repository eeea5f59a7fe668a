// Package view implements the synchronization controller for one open post
// view: it owns the canonical comment tree and arbitrates between REST
// snapshots, optimistic local mutations and server-pushed events.
package view

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/shakil-official/comment-system/pkg/envelope"
	"github.com/shakil-official/comment-system/pkg/models"
	"github.com/shakil-official/comment-system/pkg/thread"
)

// State of the view. Events and user actions only mutate the tree in
// StateReady.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateReady
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	default:
		return "idle"
	}
}

// Validation failures, reported synchronously before any request goes out.
var (
	ErrEmptyMessage = errors.New("message must not be empty")
	ErrNoCredential = errors.New("sign in required")
	ErrNoUser       = errors.New("current user unknown")
	ErrNotReady     = errors.New("view not ready")
)

// API is the slice of the REST client the controller needs.
type API interface {
	HasToken() bool
	Me(ctx context.Context) (models.User, error)
	Post(ctx context.Context, id string, page, limit int) (models.PostThread, error)
	Comments(ctx context.Context, postID string, page, limit int) (models.CommentPage, error)
	CreateComment(ctx context.Context, message, postID string, parentID *string) error
	EditComment(ctx context.Context, id, message string) error
	DeleteComment(ctx context.Context, id string) error
	ToggleReaction(ctx context.Context, id string, kind thread.Kind) error
}

const (
	defaultPageSize   = 10
	defaultPendingTTL = 5 * time.Second
)

// Controller owns the canonical tree for one post. All methods are safe
// for concurrent use; the mutex serializes every mutation so REST
// continuations and channel events interleave without racing. Reaction
// toggles are applied optimistically and reconciled by the authoritative
// comment:reaction event; a bounded TTL keeps a lost confirmation from
// locking a comment's controls forever.
type Controller struct {
	api        API
	pageSize   int
	pendingTTL time.Duration
	onChange   func()

	mu         sync.Mutex
	state      State
	err        error
	postID     string
	post       models.Post
	comments   []models.Comment
	page       int
	totalPages int
	userID     string
	pending    map[string]*time.Timer
	closed     bool
}

type Option func(*Controller)

// WithPendingTTL bounds how long a comment stays locked against repeat
// toggles when no confirmation event arrives.
func WithPendingTTL(d time.Duration) Option {
	return func(c *Controller) { c.pendingTTL = d }
}

// WithOnChange registers a callback fired after every tree change; the
// presentation layer re-renders from it. Called without the lock held.
func WithOnChange(fn func()) Option {
	return func(c *Controller) { c.onChange = fn }
}

func WithPageSize(n int) Option {
	return func(c *Controller) { c.pageSize = n }
}

func New(api API, opts ...Option) *Controller {
	c := &Controller{
		api:        api,
		pageSize:   defaultPageSize,
		pendingTTL: defaultPendingTTL,
		pending:    make(map[string]*time.Timer),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load fetches the post, its first comment page and, when a credential is
// present, the current user identity, then seeds the canonical tree. On
// failure the view records the error and stays out of ready.
func (c *Controller) Load(ctx context.Context, postID string) error {
	return c.load(ctx, postID, 1)
}

// LoadPage refetches a different comment page for the already-loaded post.
func (c *Controller) LoadPage(ctx context.Context, page int) error {
	c.mu.Lock()
	postID := c.postID
	c.mu.Unlock()
	if postID == "" {
		return ErrNotReady
	}
	if page < 1 {
		page = 1
	}
	return c.load(ctx, postID, page)
}

func (c *Controller) load(ctx context.Context, postID string, page int) error {
	c.mu.Lock()
	c.state = StateLoading
	c.err = nil
	c.postID = postID
	c.mu.Unlock()

	thr, err := c.api.Post(ctx, postID, page, c.pageSize)
	if err != nil {
		return c.fail(err)
	}

	comments := thr.Comments
	pagination := thr.Pagination
	if comments == nil {
		// Second API variant: comments come from their own endpoint.
		cp, err := c.api.Comments(ctx, postID, page, c.pageSize)
		if err != nil {
			return c.fail(err)
		}
		comments = cp.Data
		pagination = cp.Pagination
	}

	userID := ""
	if c.api.HasToken() {
		if user, err := c.api.Me(ctx); err == nil {
			userID = user.ID
		} else {
			// Identity only gates reactions; the thread still renders.
			log.Printf("[VIEW] current user lookup failed: %v", err)
		}
	}

	c.mu.Lock()
	c.post = thr.Post
	c.comments = thread.NormalizeAll(comments)
	c.page = pagination.Page
	c.totalPages = pagination.TotalPages
	c.userID = userID
	c.state = StateReady
	c.mu.Unlock()
	c.notify()
	return nil
}

func (c *Controller) fail(err error) error {
	c.mu.Lock()
	c.state = StateIdle
	c.err = err
	c.mu.Unlock()
	c.notify()
	return err
}

// SubmitComment validates and sends a create request. The canonical insert
// happens only when the server broadcasts comment:new, which also reaches
// the submitting client; nothing is inserted optimistically.
func (c *Controller) SubmitComment(ctx context.Context, message string, parentID *string) error {
	message = strings.TrimSpace(message)
	if message == "" {
		return ErrEmptyMessage
	}
	if !c.api.HasToken() {
		return ErrNoCredential
	}

	c.mu.Lock()
	ready := c.state == StateReady
	postID := c.postID
	c.mu.Unlock()
	if !ready {
		return ErrNotReady
	}
	return c.api.CreateComment(ctx, message, postID, parentID)
}

// EditComment sends an edit request; the canonical mutation arrives as
// comment:update.
func (c *Controller) EditComment(ctx context.Context, commentID, message string) error {
	message = strings.TrimSpace(message)
	if message == "" {
		return ErrEmptyMessage
	}
	if !c.api.HasToken() {
		return ErrNoCredential
	}
	return c.api.EditComment(ctx, commentID, message)
}

// DeleteComment sends a delete request; the canonical prune arrives as
// comment:delete.
func (c *Controller) DeleteComment(ctx context.Context, commentID string) error {
	if !c.api.HasToken() {
		return ErrNoCredential
	}
	return c.api.DeleteComment(ctx, commentID)
}

// ToggleReaction applies the optimistic reducer to the canonical tree,
// marks the comment pending and issues the request. While pending, repeat
// calls for the same comment are no-ops, which swallows double-clicks.
func (c *Controller) ToggleReaction(ctx context.Context, commentID string, kind thread.Kind) error {
	if !kind.Valid() {
		return fmt.Errorf("unknown reaction kind %q", kind)
	}

	c.mu.Lock()
	if c.state != StateReady {
		c.mu.Unlock()
		return ErrNotReady
	}
	if c.userID == "" {
		c.mu.Unlock()
		return ErrNoUser
	}
	if _, dup := c.pending[commentID]; dup {
		c.mu.Unlock()
		return nil
	}
	if !thread.Contains(c.comments, commentID) {
		c.mu.Unlock()
		return nil
	}

	userID := c.userID
	c.pending[commentID] = time.AfterFunc(c.pendingTTL, func() {
		c.expirePending(commentID)
	})
	c.comments = thread.UpdateByID(c.comments, commentID, func(cm models.Comment) models.Comment {
		return thread.Toggle(cm, userID, kind)
	})
	c.mu.Unlock()
	c.notify()

	return c.api.ToggleReaction(ctx, commentID, kind)
}

// Pending reports whether a reaction confirmation is outstanding for the
// comment; the UI disables its controls meanwhile.
func (c *Controller) Pending(commentID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.pending[commentID]
	return ok
}

// ── Event intake ──
// Each handler normalizes the payload and applies one tree operation.
// They are idempotent per comment id and tolerate out-of-order delivery:
// an event for an unknown id is dropped, never raised.

// RemoteNew inserts a broadcast comment. A duplicate delivery of an id
// already in the tree is skipped so re-application yields the same tree.
func (c *Controller) RemoteNew(comment models.Comment) {
	cm := thread.Normalize(comment)

	c.mu.Lock()
	if c.state != StateReady || thread.Contains(c.comments, cm.ID) {
		c.mu.Unlock()
		return
	}
	c.comments = thread.Insert(c.comments, cm)
	c.mu.Unlock()
	c.notify()
}

// RemoteUpdate overwrites the node with the authoritative payload. The
// event is authoritative for the node itself; its position and subtree
// stay as they are.
func (c *Controller) RemoteUpdate(comment models.Comment) {
	cm := thread.Normalize(comment)

	c.mu.Lock()
	if c.state != StateReady {
		c.mu.Unlock()
		return
	}
	c.comments = thread.UpdateByID(c.comments, cm.ID, func(old models.Comment) models.Comment {
		cm.Parent = old.Parent
		cm.Children = old.Children
		return cm
	})
	c.mu.Unlock()
	c.notify()
}

// RemoteDelete prunes the subtree rooted at commentID.
func (c *Controller) RemoteDelete(commentID string) {
	c.mu.Lock()
	if c.state != StateReady {
		c.mu.Unlock()
		return
	}
	c.clearPendingLocked(commentID)
	c.comments = thread.RemoveByID(c.comments, commentID)
	c.mu.Unlock()
	c.notify()
}

// RemoteReaction overwrites the comment's reaction sets and counters with
// the server's numbers, never merged with the optimistic projection, and
// releases the pending marker.
func (c *Controller) RemoteReaction(p envelope.ReactionPayload) {
	favorites := p.Favorites
	if favorites == nil {
		favorites = []string{}
	}
	dislikes := p.Dislikes
	if dislikes == nil {
		dislikes = []string{}
	}

	c.mu.Lock()
	if c.state != StateReady {
		c.mu.Unlock()
		return
	}
	c.clearPendingLocked(p.CommentID)
	c.comments = thread.UpdateByID(c.comments, p.CommentID, func(cm models.Comment) models.Comment {
		cm.Favorites = favorites
		cm.Dislikes = dislikes
		cm.FavoritesCount = p.FavoritesCount
		cm.DislikesCount = p.DislikesCount
		return thread.Normalize(cm)
	})
	c.mu.Unlock()
	c.notify()
}

// ── Snapshots ──
// The tree is copy-on-write: every mutation swaps in a rebuilt slice, so a
// returned snapshot is stable as long as the caller does not write to it.

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

func (c *Controller) Post() models.Post {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.post
}

func (c *Controller) Comments() []models.Comment {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.comments
}

func (c *Controller) Page() (page, totalPages int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page, c.totalPages
}

func (c *Controller) UserID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.userID
}

// Close stops every pending timer. The controller is not reusable after.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	for id, t := range c.pending {
		t.Stop()
		delete(c.pending, id)
	}
}

func (c *Controller) expirePending(commentID string) {
	c.mu.Lock()
	delete(c.pending, commentID)
	c.mu.Unlock()
}

func (c *Controller) clearPendingLocked(commentID string) {
	if t, ok := c.pending[commentID]; ok {
		t.Stop()
		delete(c.pending, commentID)
	}
}

func (c *Controller) notify() {
	if c.onChange != nil {
		c.onChange()
	}
}
