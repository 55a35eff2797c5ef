package controller

import (
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/dto"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/pkg/authz"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/pkg/serverutils"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAdminController interface {
	RegisterRoutes(r fiber.Router)
	ListTrainers(ctx *fiber.Ctx) error
	ListUsers(ctx *fiber.Ctx) error
	CreateTrainer(ctx *fiber.Ctx) error
	UpdateTrainer(ctx *fiber.Ctx) error
	ActivateTrainer(ctx *fiber.Ctx) error
	DeactivateTrainer(ctx *fiber.Ctx) error
	ResetTrainerPassword(ctx *fiber.Ctx) error
}

type adminController struct {
	service service.IAdminService
	auth    fiber.Handler
}

func NewAdminController(service service.IAdminService, auth fiber.Handler) IAdminController {
	return &adminController{service: service, auth: auth}
}

func (c *adminController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/admin", c.auth, serverutils.RequireCapability(authz.UsersAdmin))

	h.Get("/users", c.ListUsers)

	trainers := h.Group("/trainers")
	trainers.Get("/", c.ListTrainers)
	trainers.Post("/", c.CreateTrainer)
	trainers.Patch("/:id", c.UpdateTrainer)
	trainers.Patch("/:id/activate", c.ActivateTrainer)
	trainers.Patch("/:id/deactivate", c.DeactivateTrainer)
	trainers.Post("/:id/reset-password", c.ResetTrainerPassword)
}

func (c *adminController) ListTrainers(ctx *fiber.Ctx) error {
	res, err := c.service.ListTrainers(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Trainers", res))
}

func (c *adminController) ListUsers(ctx *fiber.Ctx) error {
	res, err := c.service.ListUsers(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Users", res))
}

func (c *adminController) CreateTrainer(ctx *fiber.Ctx) error {
	var req dto.CreateTrainerRequest
	if err := serverutils.ParseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.CreateTrainer(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.CreatedResponse("Trainer created", res))
}

func (c *adminController) UpdateTrainer(ctx *fiber.Ctx) error {
	id, err := serverutils.ParamUUID(ctx, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateTrainerRequest
	if err := serverutils.ParseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.UpdateTrainer(ctx.UserContext(), id, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Trainer updated", res))
}

func (c *adminController) setActive(ctx *fiber.Ctx, active bool, message string) error {
	id, err := serverutils.ParamUUID(ctx, "id")
	if err != nil {
		return err
	}
	res, err := c.service.SetTrainerActive(ctx.UserContext(), id, active)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse(message, res))
}

func (c *adminController) ActivateTrainer(ctx *fiber.Ctx) error {
	return c.setActive(ctx, true, "Trainer activated")
}

func (c *adminController) DeactivateTrainer(ctx *fiber.Ctx) error {
	return c.setActive(ctx, false, "Trainer deactivated")
}

func (c *adminController) ResetTrainerPassword(ctx *fiber.Ctx) error {
	id, err := serverutils.ParamUUID(ctx, "id")
	if err != nil {
		return err
	}
	res, err := c.service.ResetTrainerPassword(ctx.UserContext(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Password reset", res))
}
