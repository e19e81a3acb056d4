package controller

import (
	"p2p-chat-be/internal/dto"
	"p2p-chat-be/internal/pkg/serverutils"
	"p2p-chat-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAnnouncementController interface {
	RegisterRoutes(r fiber.Router, auth fiber.Handler)
	Create(ctx *fiber.Ctx) error
}

type announcementController struct {
	service service.IAnnouncementService
}

func NewAnnouncementController(service service.IAnnouncementService) IAnnouncementController {
	return &announcementController{service: service}
}

func (c *announcementController) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	r.Post("/announcements", auth, c.Create)
}

func (c *announcementController) Create(ctx *fiber.Ctx) error {
	var req dto.AnnouncementRequest
	if err := serverutils.BindAndValidate(ctx, &req); err != nil {
		return err
	}
	if err := c.service.Announce(ctx.UserContext(), &req); err != nil {
		return err
	}
	return ctx.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"success": true,
		"code":    fiber.StatusAccepted,
		"message": "Announcement queued",
	})
}
