package controller

import (
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/dto"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/pkg/authz"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/pkg/serverutils"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/service"

	"github.com/gofiber/fiber/v2"
)

type INewsController interface {
	RegisterRoutes(r fiber.Router)
	List(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Create(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type newsController struct {
	service service.INewsService
	auth    fiber.Handler
}

func NewNewsController(service service.INewsService, auth fiber.Handler) INewsController {
	return &newsController{service: service, auth: auth}
}

// Authorship is checked by the service; the capability only gates who may write at all.
func (c *newsController) RegisterRoutes(r fiber.Router) {
	write := serverutils.RequireCapability(authz.NewsWrite)
	h := r.Group("/news")
	h.Get("/", c.List)
	h.Get("/:id", c.Show)
	h.Post("/", c.auth, write, c.Create)
	h.Patch("/:id", c.auth, write, c.Update)
	h.Delete("/:id", c.auth, write, c.Delete)
}

func (c *newsController) List(ctx *fiber.Ctx) error {
	var newsType *string
	if raw := ctx.Query("type"); raw != "" {
		newsType = &raw
	}
	res, err := c.service.List(ctx.UserContext(), newsType)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("News", res))
}

func (c *newsController) Show(ctx *fiber.Ctx) error {
	id, err := serverutils.ParamUUID(ctx, "id")
	if err != nil {
		return err
	}
	res, err := c.service.Get(ctx.UserContext(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("News", res))
}

func (c *newsController) Create(ctx *fiber.Ctx) error {
	var req dto.CreateNewsRequest
	if err := serverutils.ParseBody(ctx, &req); err != nil {
		return err
	}
	caller, _ := serverutils.CurrentPrincipal(ctx)

	res, err := c.service.Create(ctx.UserContext(), caller, &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.CreatedResponse("News created", res))
}

func (c *newsController) Update(ctx *fiber.Ctx) error {
	id, err := serverutils.ParamUUID(ctx, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateNewsRequest
	if err := serverutils.ParseBody(ctx, &req); err != nil {
		return err
	}
	caller, _ := serverutils.CurrentPrincipal(ctx)

	res, err := c.service.Update(ctx.UserContext(), caller, id, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("News updated", res))
}

func (c *newsController) Delete(ctx *fiber.Ctx) error {
	id, err := serverutils.ParamUUID(ctx, "id")
	if err != nil {
		return err
	}
	caller, _ := serverutils.CurrentPrincipal(ctx)

	if err := c.service.Delete(ctx.UserContext(), caller, id); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("News deleted", nil))
}
