package controller

import (
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/dto"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/pkg/authz"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/pkg/serverutils"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ISubscriptionController interface {
	RegisterRoutes(r fiber.Router)
	Checkout(ctx *fiber.Ctx) error
	CustomerPortal(ctx *fiber.Ctx) error
	ListMine(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Cancel(ctx *fiber.Ctx) error
	Reactivate(ctx *fiber.Ctx) error
}

type subscriptionController struct {
	service service.ISubscriptionService
	auth    fiber.Handler
}

func NewSubscriptionController(service service.ISubscriptionService, auth fiber.Handler) ISubscriptionController {
	return &subscriptionController{service: service, auth: auth}
}

func (c *subscriptionController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/subscriptions", c.auth, serverutils.RequireCapability(authz.SubscriptionsOwn))
	h.Post("/checkout", c.Checkout)
	h.Post("/customer-portal", c.CustomerPortal)
	h.Get("/my", c.ListMine)
	h.Get("/:id", c.Show)
	h.Post("/:id/cancel", c.Cancel)
	h.Post("/:id/reactivate", c.Reactivate)
}

func (c *subscriptionController) Checkout(ctx *fiber.Ctx) error {
	var req dto.CheckoutRequest
	if err := serverutils.ParseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.Checkout(ctx.UserContext(), serverutils.CurrentUserId(ctx), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Checkout session created", res))
}

func (c *subscriptionController) CustomerPortal(ctx *fiber.Ctx) error {
	res, err := c.service.CustomerPortal(ctx.UserContext(), serverutils.CurrentUserId(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Customer portal session created", res))
}

func (c *subscriptionController) ListMine(ctx *fiber.Ctx) error {
	res, err := c.service.ListMine(ctx.UserContext(), serverutils.CurrentUserId(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Subscriptions", res))
}

func (c *subscriptionController) Show(ctx *fiber.Ctx) error {
	id, err := serverutils.ParamUUID(ctx, "id")
	if err != nil {
		return err
	}
	res, err := c.service.GetMine(ctx.UserContext(), serverutils.CurrentUserId(ctx), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Subscription", res))
}

func (c *subscriptionController) Cancel(ctx *fiber.Ctx) error {
	id, err := serverutils.ParamUUID(ctx, "id")
	if err != nil {
		return err
	}
	res, err := c.service.Cancel(ctx.UserContext(), serverutils.CurrentUserId(ctx), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Subscription will be cancelled at period end", res))
}

func (c *subscriptionController) Reactivate(ctx *fiber.Ctx) error {
	id, err := serverutils.ParamUUID(ctx, "id")
	if err != nil {
		return err
	}
	res, err := c.service.Reactivate(ctx.UserContext(), serverutils.CurrentUserId(ctx), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Subscription reactivated", res))
}
