package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/shakil-official/comment-system/pkg/models"
	"github.com/shakil-official/comment-system/pkg/services"
)

type PostsHandler struct {
	svc services.PostsService
}

func NewPosts(svc services.PostsService) *PostsHandler {
	return &PostsHandler{svc: svc}
}

func pageParams(c *fiber.Ctx) (int, int) {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	limit := c.QueryInt("limit", 10)
	if limit < 1 || limit > 100 {
		limit = 10
	}
	return page, limit
}

// GET /post/get/all?page=1&limit=10
func (h *PostsHandler) List(c *fiber.Ctx) error {
	page, limit := pageParams(c)
	result, err := h.svc.List(page, limit)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Could not load posts"})
	}
	return c.JSON(result)
}

// GET /post/:id?page=1&limit=10 returns the post plus one nested comment page
func (h *PostsHandler) Thread(c *fiber.Ctx) error {
	page, limit := pageParams(c)
	result, err := h.svc.Thread(c.Params("id"), page, limit)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Post not found"})
	}
	return c.JSON(result)
}

// POST /post/create (auth)
func (h *PostsHandler) Create(c *fiber.Ctx) error {
	var req models.CreatePostRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid body"})
	}

	userID, _ := c.Locals("user_id").(string)
	post, err := h.svc.Create(userID, req)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(201).JSON(post)
}
