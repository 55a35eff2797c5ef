package controller

import (
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/pkg/authz"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/pkg/serverutils"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IMemberController interface {
	RegisterRoutes(r fiber.Router)
	List(ctx *fiber.Ctx) error
	Stats(ctx *fiber.Ctx) error
}

type memberController struct {
	service service.IMemberService
	auth    fiber.Handler
}

func NewMemberController(service service.IMemberService, auth fiber.Handler) IMemberController {
	return &memberController{service: service, auth: auth}
}

func (c *memberController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/members", c.auth, serverutils.RequireCapability(authz.MembersRead))
	h.Get("/", c.List)
	h.Get("/stats", c.Stats)
}

func (c *memberController) List(ctx *fiber.Ctx) error {
	var classTypeId *uuid.UUID
	if raw := ctx.Query("classTypeId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid classTypeId")
		}
		classTypeId = &id
	}

	res, err := c.service.List(ctx.UserContext(), classTypeId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Members", res))
}

func (c *memberController) Stats(ctx *fiber.Ctx) error {
	res, err := c.service.Stats(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Member statistics", res))
}
