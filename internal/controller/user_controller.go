package controller

import (
	"p2p-chat-be/internal/pkg/serverutils"
	"p2p-chat-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IUserController interface {
	RegisterRoutes(r fiber.Router, auth fiber.Handler)
	List(ctx *fiber.Ctx) error
	Search(ctx *fiber.Ctx) error
	Online(ctx *fiber.Ctx) error
}

type userController struct {
	directory service.IDirectoryService
}

func NewUserController(directory service.IDirectoryService) IUserController {
	return &userController{directory: directory}
}

func (c *userController) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	h := r.Group("/users", auth)
	h.Get("/", c.List)
	h.Get("/search", c.Search)
	h.Get("/online", c.Online)
}

func (c *userController) List(ctx *fiber.Ctx) error {
	users, err := c.directory.AllUsers(ctx.UserContext())
	if err != nil {
		return err
	}
	return serverutils.OK(ctx, "Users retrieved", users)
}

func (c *userController) Search(ctx *fiber.Ctx) error {
	users, err := c.directory.Search(ctx.UserContext(), ctx.Query("q"))
	if err != nil {
		return err
	}
	return serverutils.OK(ctx, "Search results", users)
}

func (c *userController) Online(ctx *fiber.Ctx) error {
	users, err := c.directory.OnlineUsers(ctx.UserContext())
	if err != nil {
		return err
	}
	return serverutils.OK(ctx, "Online users", users)
}
