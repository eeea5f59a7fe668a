package services

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/shakil-official/comment-system/pkg/broker"
	"github.com/shakil-official/comment-system/pkg/cache"
	"github.com/shakil-official/comment-system/pkg/envelope"
	"github.com/shakil-official/comment-system/pkg/models"
	"github.com/shakil-official/comment-system/pkg/repository"
	"github.com/shakil-official/comment-system/pkg/thread"
)

var ErrNotFound = fmt.Errorf("not found")

type CommentsService interface {
	Page(postID string, page, limit int) (models.CommentPage, error)
	Create(authorID string, req models.CreateCommentRequest) (models.Comment, error)
	Edit(id, authorID, message string) (models.Comment, error)
	Delete(id, authorID string) error
	ToggleReaction(userID, commentID, kind string) (models.Comment, error)
}

type commentsService struct {
	repo  repository.CommentsRepository
	redis *cache.Redis
	bus   *broker.Broker
}

func NewCommentsService(repo repository.CommentsRepository, redis *cache.Redis, bus *broker.Broker) CommentsService {
	return &commentsService{repo: repo, redis: redis, bus: bus}
}

func (s *commentsService) Page(postID string, page, limit int) (models.CommentPage, error) {
	cacheKey := fmt.Sprintf("comments:page:%s:%d:%d", postID, page, limit)
	var cached models.CommentPage
	if s.redis.Get(cacheKey, &cached) {
		return cached, nil
	}

	flat, total, err := s.repo.ForPost(postID, limit, (page-1)*limit)
	if err != nil {
		return models.CommentPage{}, err
	}

	result := models.CommentPage{
		Data:       thread.Build(flat),
		Pagination: paginate(total, page, limit),
	}
	s.redis.Set(cacheKey, result, 15*time.Second)
	return result, nil
}

func (s *commentsService) Create(authorID string, req models.CreateCommentRequest) (models.Comment, error) {
	if strings.TrimSpace(req.Message) == "" {
		return models.Comment{}, fmt.Errorf("message is required")
	}
	if req.PostID == "" {
		return models.Comment{}, fmt.Errorf("postId is required")
	}

	if req.ParentID != nil && *req.ParentID != "" {
		parent, err := s.repo.ByID(*req.ParentID)
		if err != nil {
			return models.Comment{}, fmt.Errorf("parent comment not found")
		}
		if parent.Post != req.PostID {
			return models.Comment{}, fmt.Errorf("parent belongs to another post")
		}
	} else {
		req.ParentID = nil
	}

	cm, err := s.repo.Create(authorID, req)
	if err != nil {
		return models.Comment{}, err
	}

	s.invalidate(cm.Post)
	s.bus.PublishEvent(envelope.EventCommentNew, cm.Post, cm)
	return cm, nil
}

func (s *commentsService) Edit(id, authorID, message string) (models.Comment, error) {
	if strings.TrimSpace(message) == "" {
		return models.Comment{}, fmt.Errorf("message is required")
	}

	cm, err := s.repo.Update(id, authorID, message)
	if err == sql.ErrNoRows {
		return models.Comment{}, ErrNotFound
	}
	if err != nil {
		return models.Comment{}, err
	}

	s.invalidate(cm.Post)
	s.bus.PublishEvent(envelope.EventCommentUpdate, cm.Post, cm)
	return cm, nil
}

func (s *commentsService) Delete(id, authorID string) error {
	cm, err := s.repo.ByID(id)
	if err != nil {
		return ErrNotFound
	}

	ok, err := s.repo.Delete(id, authorID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}

	s.invalidate(cm.Post)
	s.bus.PublishEvent(envelope.EventCommentDelete, cm.Post, envelope.DeletePayload{CommentID: id})
	return nil
}

func (s *commentsService) ToggleReaction(userID, commentID, kind string) (models.Comment, error) {
	if !thread.Kind(kind).Valid() {
		return models.Comment{}, fmt.Errorf("invalid reaction kind")
	}
	if _, err := s.repo.ByID(commentID); err != nil {
		return models.Comment{}, ErrNotFound
	}

	cm, err := s.repo.ToggleReaction(userID, commentID, kind)
	if err == sql.ErrNoRows {
		return models.Comment{}, ErrNotFound
	}
	if err != nil {
		return models.Comment{}, err
	}

	s.invalidate(cm.Post)
	s.bus.PublishEvent(envelope.EventCommentReaction, cm.Post, envelope.ReactionPayload{
		CommentID:      cm.ID,
		Favorites:      cm.Favorites,
		Dislikes:       cm.Dislikes,
		FavoritesCount: cm.FavoritesCount,
		DislikesCount:  cm.DislikesCount,
	})
	return cm, nil
}

func (s *commentsService) invalidate(postID string) {
	s.redis.DelPattern("comments:page:" + postID + ":*")
	s.redis.DelPattern("posts:thread:" + postID + ":*")
}
