package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/shakil-official/comment-system/pkg/cache"
	"github.com/shakil-official/comment-system/pkg/models"
	"github.com/shakil-official/comment-system/pkg/repository"
	"github.com/shakil-official/comment-system/pkg/thread"
)

type PostsService interface {
	List(page, limit int) (models.PostPage, error)
	Thread(id string, page, limit int) (models.PostThread, error)
	Create(authorID string, req models.CreatePostRequest) (models.Post, error)
}

type postsService struct {
	posts    repository.PostsRepository
	comments repository.CommentsRepository
	redis    *cache.Redis
}

func NewPostsService(posts repository.PostsRepository, comments repository.CommentsRepository, redis *cache.Redis) PostsService {
	return &postsService{posts: posts, comments: comments, redis: redis}
}

func paginate(total, page, limit int) models.Pagination {
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}
	return models.Pagination{Total: total, Page: page, Limit: limit, TotalPages: totalPages}
}

func (s *postsService) List(page, limit int) (models.PostPage, error) {
	cacheKey := fmt.Sprintf("posts:list:%d:%d", page, limit)
	var cached models.PostPage
	if s.redis.Get(cacheKey, &cached) {
		return cached, nil
	}

	posts, total, err := s.posts.List(limit, (page-1)*limit)
	if err != nil {
		return models.PostPage{}, err
	}

	result := models.PostPage{Data: posts, Pagination: paginate(total, page, limit)}
	s.redis.Set(cacheKey, result, 30*time.Second)
	return result, nil
}

// Thread returns a post together with one nested page of its comments.
func (s *postsService) Thread(id string, page, limit int) (models.PostThread, error) {
	cacheKey := fmt.Sprintf("posts:thread:%s:%d:%d", id, page, limit)
	var cached models.PostThread
	if s.redis.Get(cacheKey, &cached) {
		return cached, nil
	}

	post, err := s.posts.ByID(id)
	if err != nil {
		return models.PostThread{}, err
	}

	flat, total, err := s.comments.ForPost(id, limit, (page-1)*limit)
	if err != nil {
		return models.PostThread{}, err
	}

	result := models.PostThread{
		Post:       post,
		Comments:   thread.Build(flat),
		Pagination: paginate(total, page, limit),
	}
	s.redis.Set(cacheKey, result, 15*time.Second)
	return result, nil
}

func (s *postsService) Create(authorID string, req models.CreatePostRequest) (models.Post, error) {
	if strings.TrimSpace(req.Title) == "" {
		return models.Post{}, fmt.Errorf("title is required")
	}
	if req.Status != "" && req.Status != models.PostActive && req.Status != models.PostInactive {
		return models.Post{}, fmt.Errorf("invalid status")
	}

	post, err := s.posts.Create(authorID, req)
	if err != nil {
		return models.Post{}, err
	}

	s.redis.DelPattern("posts:list:*")
	return post, nil
}
