package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/shakil-official/comment-system/pkg/models"
	"github.com/shakil-official/comment-system/pkg/services"
)

type CommentsHandler struct {
	svc services.CommentsService
}

func NewComments(svc services.CommentsService) *CommentsHandler {
	return &CommentsHandler{svc: svc}
}

// GET /comment/get/post/:postId?page=1&limit=10
func (h *CommentsHandler) Page(c *fiber.Ctx) error {
	page, limit := pageParams(c)
	result, err := h.svc.Page(c.Params("postId"), page, limit)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Could not load comments"})
	}
	return c.JSON(result)
}

// POST /comment/create (auth)
func (h *CommentsHandler) Create(c *fiber.Ctx) error {
	var req models.CreateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid body"})
	}

	userID, _ := c.Locals("user_id").(string)
	cm, err := h.svc.Create(userID, req)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(201).JSON(cm)
}

// PATCH /comment/:id (auth, author only)
func (h *CommentsHandler) Edit(c *fiber.Ctx) error {
	var req models.EditCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid body"})
	}

	userID, _ := c.Locals("user_id").(string)
	cm, err := h.svc.Edit(c.Params("id"), userID, req.Message)
	if err == services.ErrNotFound {
		return c.Status(404).JSON(fiber.Map{"error": "Comment not found"})
	}
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(cm)
}

// DELETE /comment/:id (auth, author only)
func (h *CommentsHandler) Delete(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)
	err := h.svc.Delete(c.Params("id"), userID)
	if err == services.ErrNotFound {
		return c.Status(404).JSON(fiber.Map{"error": "Comment not found"})
	}
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Could not delete comment"})
	}
	return c.JSON(fiber.Map{"deleted": true})
}

// PATCH /comment/:id/:kind (auth), kind is "like" or "dislike"
func (h *CommentsHandler) ToggleReaction(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)
	cm, err := h.svc.ToggleReaction(userID, c.Params("id"), c.Params("kind"))
	if err == services.ErrNotFound {
		return c.Status(404).JSON(fiber.Map{"error": "Comment not found"})
	}
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(cm)
}
