package handler

import (
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/pkg/apperror"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/pkg/logger"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/pkg/serverutils"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/pkg/token"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/service"
	internalWS "github.com/wsbKuba/Klub-Sztuki-Walk/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

const handlerModule = "NotificationHandler"

type NotificationHandler struct {
	service service.INotificationService
	tokens  *token.Manager
	hub     *internalWS.Hub
	logger  logger.ILogger
}

func NewNotificationHandler(service service.INotificationService, tokens *token.Manager, hub *internalWS.Hub, log logger.ILogger) *NotificationHandler {
	return &NotificationHandler{
		service: service,
		tokens:  tokens,
		hub:     hub,
		logger:  log,
	}
}

// ServeWs authenticates the handshake and upgrades. Browsers cannot set headers on a
// websocket, so the token comes from the query first and the Authorization header second.
func (h *NotificationHandler) ServeWs(c *fiber.Ctx) error {
	tokenStr := c.Query("token")
	if tokenStr == "" {
		tokenStr = serverutils.BearerToken(c)
	}
	if tokenStr == "" {
		return apperror.Unauthorized("Missing token (Query 'token' or Header 'Authorization')")
	}

	claims, err := h.tokens.Parse(tokenStr, token.TypeAccess)
	if err != nil {
		h.logger.Warn(handlerModule, "Invalid Token in WS Handshake", map[string]interface{}{"error": err.Error()})
		return apperror.Unauthorized("Invalid token")
	}
	userID := claims.UserId

	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	return websocket.New(func(conn *websocket.Conn) {
		h.logger.Info(handlerModule, "Starting WebSocket session", map[string]interface{}{"user_id": userID.String()})
		internalWS.ServeWs(h.hub, conn, userID)
		h.logger.Info(handlerModule, "WebSocket session ended", map[string]interface{}{"user_id": userID.String()})
	})(c)
}

func (h *NotificationHandler) GetNotifications(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)

	res, err := h.service.List(c.UserContext(), serverutils.CurrentUserId(c), limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(serverutils.SuccessResponse("Notifications", res))
}

func (h *NotificationHandler) GetUnreadCount(c *fiber.Ctx) error {
	res, err := h.service.UnreadCount(c.UserContext(), serverutils.CurrentUserId(c))
	if err != nil {
		return err
	}
	return c.JSON(serverutils.SuccessResponse("Unread notifications", res))
}

func (h *NotificationHandler) MarkAsRead(c *fiber.Ctx) error {
	id, err := serverutils.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.MarkAsRead(c.UserContext(), serverutils.CurrentUserId(c), id); err != nil {
		return err
	}
	return c.JSON(serverutils.SuccessResponse[any]("Notification marked as read", nil))
}

func (h *NotificationHandler) MarkAllAsRead(c *fiber.Ctx) error {
	if err := h.service.MarkAllAsRead(c.UserContext(), serverutils.CurrentUserId(c)); err != nil {
		return err
	}
	return c.JSON(serverutils.SuccessResponse[any]("All notifications marked as read", nil))
}

// RegisterRoutes keeps /ws outside the JWT middleware; the handshake checks the token itself.
func (h *NotificationHandler) RegisterRoutes(router fiber.Router) {
	auth := serverutils.JwtMiddleware(h.tokens)

	notif := router.Group("/notifications")
	notif.Get("/ws", h.ServeWs)
	notif.Get("/", auth, h.GetNotifications)
	notif.Get("/unread-count", auth, h.GetUnreadCount)
	notif.Patch("/read-all", auth, h.MarkAllAsRead)
	notif.Patch("/:id/read", auth, h.MarkAsRead)
}
