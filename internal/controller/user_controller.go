package controller

import (
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/dto"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/pkg/serverutils"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IUserController interface {
	RegisterRoutes(r fiber.Router)
	GetProfile(ctx *fiber.Ctx) error
	UpdateProfile(ctx *fiber.Ctx) error
}

type userController struct {
	service service.IUserService
	auth    fiber.Handler
}

func NewUserController(service service.IUserService, auth fiber.Handler) IUserController {
	return &userController{service: service, auth: auth}
}

func (c *userController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/users", c.auth)
	h.Get("/me", c.GetProfile)
	h.Patch("/me", c.UpdateProfile)
}

func (c *userController) GetProfile(ctx *fiber.Ctx) error {
	res, err := c.service.GetProfile(ctx.UserContext(), serverutils.CurrentUserId(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("User profile", res))
}

func (c *userController) UpdateProfile(ctx *fiber.Ctx) error {
	var req dto.UpdateProfileRequest
	if err := serverutils.ParseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.UpdateProfile(ctx.UserContext(), serverutils.CurrentUserId(ctx), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Profile updated", res))
}
