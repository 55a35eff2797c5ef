package controller

import (
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/dto"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/pkg/apperror"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/pkg/authz"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/pkg/logger"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/pkg/serverutils"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/service"

	"github.com/gofiber/fiber/v2"
)

const signatureHeader = "Stripe-Signature"

type IPaymentController interface {
	RegisterRoutes(r fiber.Router)
	ListMine(ctx *fiber.Ctx) error
	Webhook(ctx *fiber.Ctx) error
}

type paymentController struct {
	payments service.IPaymentService
	webhooks service.IWebhookService
	auth     fiber.Handler
	logger   logger.ILogger
}

func NewPaymentController(payments service.IPaymentService, webhooks service.IWebhookService, auth fiber.Handler, log logger.ILogger) IPaymentController {
	return &paymentController{payments: payments, webhooks: webhooks, auth: auth, logger: log}
}

func (c *paymentController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/payments")
	h.Post("/webhook", c.Webhook)
	h.Get("/my", c.auth, serverutils.RequireCapability(authz.SubscriptionsOwn), c.ListMine)
}

func (c *paymentController) ListMine(ctx *fiber.Ctx) error {
	res, err := c.payments.ListMine(ctx.UserContext(), serverutils.CurrentUserId(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Payments", res))
}

// Webhook hands the raw body to the reconciler. Any failure, including a missing webhook secret,
// answers 400 so the provider retries the delivery.
func (c *paymentController) Webhook(ctx *fiber.Ctx) error {
	signature := ctx.Get(signatureHeader)
	if signature == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(fiber.StatusBadRequest, "Missing signature header"))
	}

	// Body() is only valid during the handler, and the reconciler may keep the payload for the audit row.
	payload := append([]byte(nil), ctx.Body()...)

	if err := c.webhooks.HandleWebhook(ctx.UserContext(), payload, signature); err != nil {
		c.logger.Warn("PaymentController", "Webhook rejected", map[string]interface{}{
			"kind":  string(apperror.KindOf(err)),
			"error": err.Error(),
		})
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(fiber.StatusBadRequest, apperror.PublicMessage(err)))
	}

	return ctx.JSON(dto.WebhookAck{Received: true})
}
